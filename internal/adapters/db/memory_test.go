package db

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/just-nibble/bounty-service/internal/core/domain/entities"
	"github.com/just-nibble/bounty-service/pkg/errcodes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Commits(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, err := store.GetCommitByHash(ctx, "missing")
	assert.ErrorIs(t, err, errcodes.ErrNoRecordFound)

	c1 := &entities.Commit{Hash: "c1", Value: 1, Owner: "alice"}
	c2 := &entities.Commit{Hash: "c2", ParentHash: "c1", Value: 2, Owner: "alice"}
	require.NoError(t, store.SaveCommit(ctx, c1))
	require.NoError(t, store.SaveCommit(ctx, c2))

	got, err := store.GetCommitByHash(ctx, "c2")
	require.NoError(t, err)
	assert.Equal(t, c2, got)

	// saving again keeps insertion order stable
	c1.Balance = 5
	require.NoError(t, store.SaveCommit(ctx, c1))

	all, err := store.ListCommits(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "c1", all[0].Hash)
	assert.Equal(t, uint64(5), all[0].Balance)
	assert.Equal(t, "c2", all[1].Hash)
}

func TestMemoryStore_Tournaments(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	n, err := store.CountTournaments(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	_, err = store.GetTournament(ctx, uuid.New())
	assert.ErrorIs(t, err, errcodes.ErrNoRecordFound)

	t1 := &entities.Tournament{ID: uuid.New(), Owner: "alice"}
	t2 := &entities.Tournament{ID: uuid.New(), Owner: "bob"}
	require.NoError(t, store.SaveTournament(ctx, t1))
	require.NoError(t, store.SaveTournament(ctx, t2))

	got, err := store.GetTournament(ctx, t1.ID)
	require.NoError(t, err)
	assert.Equal(t, t1, got)

	all, err := store.ListTournaments(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, t1.ID, all[0].ID)
	assert.Equal(t, t2.ID, all[1].ID)

	n, err = store.CountTournaments(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestMemoryStore_CancelledContext(t *testing.T) {
	store := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := store.SaveCommit(ctx, &entities.Commit{Hash: "c1"})
	assert.ErrorIs(t, err, errcodes.ErrContextCancelled)
	err = store.SaveTournament(ctx, &entities.Tournament{ID: uuid.New()})
	assert.ErrorIs(t, err, errcodes.ErrContextCancelled)
}
