package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/just-nibble/bounty-service/internal/core/domain/entities"
)

// CommitStore defines the persistence operations for the commit graph
type CommitStore interface {
	SaveCommit(ctx context.Context, commit *entities.Commit) error
	GetCommitByHash(ctx context.Context, hash string) (*entities.Commit, error)
	ListCommits(ctx context.Context) ([]*entities.Commit, error)
}

// TournamentStore defines the persistence operations for tournaments
type TournamentStore interface {
	SaveTournament(ctx context.Context, tournament *entities.Tournament) error
	GetTournament(ctx context.Context, id uuid.UUID) (*entities.Tournament, error)
	ListTournaments(ctx context.Context) ([]*entities.Tournament, error)
	CountTournaments(ctx context.Context) (int64, error)
}
