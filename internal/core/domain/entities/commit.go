package entities

// Address identifies a caller. Authentication happens outside the core; every
// operation receives the already-authenticated caller explicitly.
type Address string

// Genesis is the sentinel parent hash of a root commit.
const Genesis = ""

// GroupShare is one member's slice of a commit's retained reward. Weights are
// integer numerators over the group's total weight, so splits stay exact.
type GroupShare struct {
	Member Address `json:"member"`
	Weight uint64  `json:"weight"`
}

// Commit is a content-addressed node of contributed work. Created once,
// never deleted; only group membership and the reward ledgers mutate.
type Commit struct {
	Hash       string `json:"hash"`
	ParentHash string `json:"parent_hash"`
	IsFork     bool   `json:"is_fork"`

	// Value is this commit's stake relative to its parent's stake in any
	// future reward split between the two. Always positive.
	Value uint64  `json:"value"`
	Owner Address `json:"owner"`

	// Group shares the commit's retained reward portion. A new commit starts
	// with its owner holding the whole group; non-fork children inherit the
	// parent's group, forks start fresh.
	Group []GroupShare `json:"group"`

	// Balance is the cumulative reward ever credited to this commit.
	Balance uint64 `json:"balance"`

	// Credited and Withdrawn are the per-member reward ledgers. Available
	// reward is always computed as the difference, never stored.
	Credited  map[Address]uint64 `json:"credited"`
	Withdrawn map[Address]uint64 `json:"withdrawn"`

	CreatedAt int64 `json:"created_at"`
}

// GroupWeight returns the sum of all group share weights.
func (c *Commit) GroupWeight() uint64 {
	var total uint64
	for _, g := range c.Group {
		total += g.Weight
	}
	return total
}

// InGroup reports whether a is a member of the commit's group.
func (c *Commit) InGroup(a Address) bool {
	for _, g := range c.Group {
		if g.Member == a {
			return true
		}
	}
	return false
}

// Clone returns a deep copy safe to read outside the graph lock.
func (c *Commit) Clone() *Commit {
	cp := *c
	cp.Group = append([]GroupShare(nil), c.Group...)
	cp.Credited = make(map[Address]uint64, len(c.Credited))
	for k, v := range c.Credited {
		cp.Credited[k] = v
	}
	cp.Withdrawn = make(map[Address]uint64, len(c.Withdrawn))
	for k, v := range c.Withdrawn {
		cp.Withdrawn[k] = v
	}
	return &cp
}

// Available returns the reward user can still withdraw from this commit.
func (c *Commit) Available(user Address) uint64 {
	credited := c.Credited[user]
	withdrawn := c.Withdrawn[user]
	if withdrawn >= credited {
		return 0
	}
	return credited - withdrawn
}
