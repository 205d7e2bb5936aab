package contenthash

import (
	"fmt"

	gocid "github.com/ipfs/go-cid"
	"github.com/multiformats/go-multibase"
	"github.com/multiformats/go-multihash"
)

// CommitHash computes the content address of a commit as a CIDv1
// (raw codec, SHA2-256) over creator|salt|content, returned in base32
// string form. The same triple always yields the same hash, so commit
// identity is stable across restarts.
func CommitHash(creator string, salt, content []byte) (string, error) {
	data := make([]byte, 0, len(creator)+len(salt)+len(content))
	data = append(data, creator...)
	data = append(data, salt...)
	data = append(data, content...)

	mh, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		return "", fmt.Errorf("multihash: %w", err)
	}
	c := gocid.NewCidV1(gocid.Raw, mh)

	encoded, err := multibase.Encode(multibase.Base32, c.Bytes())
	if err != nil {
		return "", fmt.Errorf("multibase: %w", err)
	}
	return encoded, nil
}
