package seeder

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/just-nibble/bounty-service/internal/adapters/db"
	"github.com/just-nibble/bounty-service/internal/adapters/treasury"
	"github.com/just-nibble/bounty-service/internal/core/service"
	"github.com/just-nibble/bounty-service/pkg/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seedYAML = `
accounts:
  - address: alice
    balance: 100
  - address: bob
    balance: 10
tournament:
  owner: alice
  content: ipfs://demo-abstract
  bounty: 50
  entry_fee: 2
  round:
    start: 0
    duration: 86400
    review: 3600
    bounty: 25
`

func TestSeedPlatform(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(seedYAML), 0o600))

	bank := treasury.NewInMemory()
	store := db.NewMemoryStore()
	clk := clock.NewManual(time.Unix(1700000000, 0))
	commits := service.NewCommitService(store, bank, clk)
	tournaments := service.NewTournamentService(store, commits, bank, clk)

	require.NoError(t, SeedPlatform(ctx, path, store, tournaments, bank))

	assert.Equal(t, uint64(50), bank.BalanceOf("alice"), "seed balance minus the tournament bounty")
	assert.Equal(t, uint64(10), bank.BalanceOf("bob"))

	all := tournaments.ListTournaments(ctx)
	require.Len(t, all, 1)
	assert.Equal(t, "ipfs://demo-abstract", all[0].Content)
	assert.Equal(t, uint64(25), all[0].Balance)
	assert.Equal(t, uint64(25), all[0].Rounds[0].Bounty)

	// seeding is skipped once a tournament exists
	require.NoError(t, SeedPlatform(ctx, path, store, tournaments, bank))
	assert.Len(t, tournaments.ListTournaments(ctx), 1)
	assert.Equal(t, uint64(50), bank.BalanceOf("alice"))
}

func TestSeedPlatform_MissingFile(t *testing.T) {
	ctx := context.Background()
	bank := treasury.NewInMemory()
	store := db.NewMemoryStore()
	clk := clock.NewManual(time.Unix(1700000000, 0))
	commits := service.NewCommitService(store, bank, clk)
	tournaments := service.NewTournamentService(store, commits, bank, clk)

	assert.Error(t, SeedPlatform(ctx, "/does/not/exist.yaml", store, tournaments, bank))
}
