package db

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/just-nibble/bounty-service/internal/core/domain/entities"
	"github.com/just-nibble/bounty-service/pkg/errcodes"
)

// MemoryStore implements CommitStore and TournamentStore without a database.
// Used by tests and IN_MEMORY runs; the services treat it exactly like the
// gorm stores.
type MemoryStore struct {
	mu          sync.Mutex
	commits     map[string]*entities.Commit
	commitOrder []string
	tournaments map[uuid.UUID]*entities.Tournament
	tournOrder  []uuid.UUID
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		commits:     make(map[string]*entities.Commit),
		tournaments: make(map[uuid.UUID]*entities.Tournament),
	}
}

func (m *MemoryStore) SaveCommit(ctx context.Context, commit *entities.Commit) error {
	if ctx.Err() == context.Canceled {
		return errcodes.ErrContextCancelled
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.commits[commit.Hash]; !ok {
		m.commitOrder = append(m.commitOrder, commit.Hash)
	}
	m.commits[commit.Hash] = commit
	return nil
}

func (m *MemoryStore) GetCommitByHash(ctx context.Context, hash string) (*entities.Commit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.commits[hash]
	if !ok {
		return nil, errcodes.ErrNoRecordFound
	}
	return c, nil
}

func (m *MemoryStore) ListCommits(ctx context.Context) ([]*entities.Commit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*entities.Commit, 0, len(m.commitOrder))
	for _, hash := range m.commitOrder {
		out = append(out, m.commits[hash])
	}
	return out, nil
}

func (m *MemoryStore) SaveTournament(ctx context.Context, tournament *entities.Tournament) error {
	if ctx.Err() == context.Canceled {
		return errcodes.ErrContextCancelled
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tournaments[tournament.ID]; !ok {
		m.tournOrder = append(m.tournOrder, tournament.ID)
	}
	m.tournaments[tournament.ID] = tournament
	return nil
}

func (m *MemoryStore) GetTournament(ctx context.Context, id uuid.UUID) (*entities.Tournament, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tournaments[id]
	if !ok {
		return nil, errcodes.ErrNoRecordFound
	}
	return t, nil
}

func (m *MemoryStore) ListTournaments(ctx context.Context) ([]*entities.Tournament, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*entities.Tournament, 0, len(m.tournOrder))
	for _, id := range m.tournOrder {
		out = append(out, m.tournaments[id])
	}
	return out, nil
}

func (m *MemoryStore) CountTournaments(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.tournaments)), nil
}
