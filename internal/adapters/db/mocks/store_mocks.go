package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/just-nibble/bounty-service/internal/core/domain/entities"
	"github.com/stretchr/testify/mock"
)

// CommitStore mock
type CommitStore struct {
	mock.Mock
}

func (m *CommitStore) SaveCommit(ctx context.Context, commit *entities.Commit) error {
	args := m.Called(ctx, commit)
	return args.Error(0)
}

func (m *CommitStore) GetCommitByHash(ctx context.Context, hash string) (*entities.Commit, error) {
	args := m.Called(ctx, hash)
	return args.Get(0).(*entities.Commit), args.Error(1)
}

func (m *CommitStore) ListCommits(ctx context.Context) ([]*entities.Commit, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*entities.Commit), args.Error(1)
}

// TournamentStore mock
type TournamentStore struct {
	mock.Mock
}

func (m *TournamentStore) SaveTournament(ctx context.Context, tournament *entities.Tournament) error {
	args := m.Called(ctx, tournament)
	return args.Error(0)
}

func (m *TournamentStore) GetTournament(ctx context.Context, id uuid.UUID) (*entities.Tournament, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*entities.Tournament), args.Error(1)
}

func (m *TournamentStore) ListTournaments(ctx context.Context) ([]*entities.Tournament, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*entities.Tournament), args.Error(1)
}

func (m *TournamentStore) CountTournaments(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
