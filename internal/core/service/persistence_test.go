package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/just-nibble/bounty-service/internal/adapters/db/mocks"
	"github.com/just-nibble/bounty-service/internal/adapters/treasury"
	"github.com/just-nibble/bounty-service/internal/core/domain/entities"
	"github.com/just-nibble/bounty-service/pkg/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCommitService_WritesThrough(t *testing.T) {
	ctx := context.Background()
	store := new(mocks.CommitStore)
	graph := NewCommitService(store, treasury.NewInMemory(), clock.NewManual(time.Unix(epoch, 0)))

	store.On("SaveCommit", ctx, mock.AnythingOfType("*entities.Commit")).Return(nil).Once()

	c, err := graph.CreateCommit(ctx, alice, entities.Genesis, false, []byte("s"), []byte("work"), 1)
	require.NoError(t, err)

	store.AssertExpectations(t)
	saved := store.Calls[0].Arguments.Get(1).(*entities.Commit)
	assert.Equal(t, c.Hash, saved.Hash)
}

func TestCommitService_SurvivesStoreFailure(t *testing.T) {
	ctx := context.Background()
	store := new(mocks.CommitStore)
	graph := NewCommitService(store, treasury.NewInMemory(), clock.NewManual(time.Unix(epoch, 0)))

	store.On("SaveCommit", ctx, mock.AnythingOfType("*entities.Commit")).Return(errors.New("db down"))

	// the in-memory graph stays authoritative when a snapshot fails
	c, err := graph.CreateCommit(ctx, alice, entities.Genesis, false, []byte("s"), []byte("work"), 1)
	require.NoError(t, err)

	got, err := graph.GetCommit(ctx, c.Hash)
	require.NoError(t, err)
	assert.Equal(t, c, got)
}

func TestCommitService_RehydrateError(t *testing.T) {
	ctx := context.Background()
	store := new(mocks.CommitStore)
	graph := NewCommitService(store, treasury.NewInMemory(), clock.NewManual(time.Unix(epoch, 0)))

	store.On("ListCommits", ctx).Return([]*entities.Commit(nil), errors.New("db down"))
	assert.Error(t, graph.Rehydrate(ctx))
}

func TestTournamentService_RehydrateError(t *testing.T) {
	ctx := context.Background()
	store := new(mocks.TournamentStore)
	bank := treasury.NewInMemory()
	clk := clock.NewManual(time.Unix(epoch, 0))
	commits := NewCommitService(new(mocks.CommitStore), bank, clk)
	svc := NewTournamentService(store, commits, bank, clk)

	store.On("ListTournaments", ctx).Return([]*entities.Tournament(nil), errors.New("db down"))
	assert.Error(t, svc.Rehydrate(ctx))
}
