package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/just-nibble/bounty-service/internal/core/domain/entities"
	"github.com/just-nibble/bounty-service/pkg/errcodes"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// InitDB opens the postgres connection and migrates the schema
func InitDB(dsn string) (*gorm.DB, error) {
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := gdb.AutoMigrate(&Commit{}, &Tournament{}); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	return gdb, nil
}

// GormCommitStore is a GORM-based implementation of CommitStore
type GormCommitStore struct {
	db *gorm.DB
}

// NewGormCommitStore initializes a new GormCommitStore
func NewGormCommitStore(db *gorm.DB) CommitStore {
	return &GormCommitStore{db: db}
}

// SaveCommit upserts a commit snapshot keyed by its hash
func (s *GormCommitStore) SaveCommit(ctx context.Context, commit *entities.Commit) error {
	if ctx.Err() == context.Canceled {
		return errcodes.ErrContextCancelled
	}

	var existing Commit
	err := s.db.WithContext(ctx).Where("commit_hash = ?", commit.Hash).First(&existing).Error

	row := ToGormCommit(commit)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
			log.Error().Err(err).Str("hash", commit.Hash).Msg("save commit")
			return err
		}
		return nil
	}
	if err != nil {
		return err
	}

	row.ID = existing.ID
	row.CreatedAt = existing.CreatedAt
	return s.db.WithContext(ctx).Save(row).Error
}

func (s *GormCommitStore) GetCommitByHash(ctx context.Context, hash string) (*entities.Commit, error) {
	if ctx.Err() == context.Canceled {
		return nil, errcodes.ErrContextCancelled
	}

	var commit Commit
	err := s.db.WithContext(ctx).Where("commit_hash = ?", hash).First(&commit).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errcodes.ErrNoRecordFound
	}
	if err != nil {
		return nil, err
	}
	return commit.ToDomain(), nil
}

func (s *GormCommitStore) ListCommits(ctx context.Context) ([]*entities.Commit, error) {
	var rows []Commit
	if err := s.db.WithContext(ctx).Order("id asc").Find(&rows).Error; err != nil {
		log.Info().Msgf("list commits error %v", err.Error())
		return nil, err
	}

	commits := make([]*entities.Commit, 0, len(rows))
	for i := range rows {
		commits = append(commits, rows[i].ToDomain())
	}
	return commits, nil
}

// GormTournamentStore is a GORM-based implementation of TournamentStore
type GormTournamentStore struct {
	db *gorm.DB
}

// NewGormTournamentStore initializes a new GormTournamentStore
func NewGormTournamentStore(db *gorm.DB) TournamentStore {
	return &GormTournamentStore{db: db}
}

// SaveTournament upserts a tournament snapshot keyed by its ID
func (s *GormTournamentStore) SaveTournament(ctx context.Context, tournament *entities.Tournament) error {
	if ctx.Err() == context.Canceled {
		return errcodes.ErrContextCancelled
	}

	var existing Tournament
	err := s.db.WithContext(ctx).Where("tournament_id = ?", tournament.ID).First(&existing).Error

	row := ToGormTournament(tournament)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
			log.Error().Err(err).Str("tournament", tournament.ID.String()).Msg("save tournament")
			return err
		}
		return nil
	}
	if err != nil {
		return err
	}

	row.ID = existing.ID
	row.CreatedAt = existing.CreatedAt
	return s.db.WithContext(ctx).Save(row).Error
}

func (s *GormTournamentStore) GetTournament(ctx context.Context, id uuid.UUID) (*entities.Tournament, error) {
	if ctx.Err() == context.Canceled {
		return nil, errcodes.ErrContextCancelled
	}

	var row Tournament
	err := s.db.WithContext(ctx).Where("tournament_id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errcodes.ErrNoRecordFound
	}
	if err != nil {
		return nil, err
	}
	return row.ToDomain(), nil
}

func (s *GormTournamentStore) ListTournaments(ctx context.Context) ([]*entities.Tournament, error) {
	var rows []Tournament
	if err := s.db.WithContext(ctx).Order("id asc").Find(&rows).Error; err != nil {
		log.Info().Msgf("list tournaments error %v", err.Error())
		return nil, err
	}

	tournaments := make([]*entities.Tournament, 0, len(rows))
	for i := range rows {
		tournaments = append(tournaments, rows[i].ToDomain())
	}
	return tournaments, nil
}

func (s *GormTournamentStore) CountTournaments(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&Tournament{}).Count(&count).Error
	return count, err
}
