package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/just-nibble/bounty-service/internal/core/domain/entities"
)

// Commit is the persisted form of a commit graph node. The group share table
// and per-user ledgers are stored as JSON columns; the graph is rehydrated
// whole at startup, so no relational traversal is needed.
type Commit struct {
	ID         uint   `gorm:"primaryKey"`
	CommitHash string `gorm:"uniqueIndex"`
	ParentHash string `gorm:"index"`
	IsFork     bool
	Value      uint64
	Owner      string `gorm:"index"`
	Balance    uint64
	Group      []entities.GroupShare              `gorm:"serializer:json"`
	Credited   map[entities.Address]uint64        `gorm:"serializer:json"`
	Withdrawn  map[entities.Address]uint64        `gorm:"serializer:json"`
	CommitTime int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Tournament is the persisted form of a tournament aggregate, rounds and
// entrant set included.
type Tournament struct {
	ID           uint      `gorm:"primaryKey"`
	TournamentID uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	Owner        string    `gorm:"index"`
	Content      string
	EntryFee     uint64
	Balance      uint64
	Closed       bool
	Entrants     map[entities.Address]bool   `gorm:"serializer:json"`
	FeesHeld     map[entities.Address]uint64 `gorm:"serializer:json"`
	Rounds       []*entities.Round           `gorm:"serializer:json"`
	TournTime    int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ToDomain converts a stored commit back into the domain type.
func (c *Commit) ToDomain() *entities.Commit {
	credited := c.Credited
	if credited == nil {
		credited = make(map[entities.Address]uint64)
	}
	withdrawn := c.Withdrawn
	if withdrawn == nil {
		withdrawn = make(map[entities.Address]uint64)
	}
	return &entities.Commit{
		Hash:       c.CommitHash,
		ParentHash: c.ParentHash,
		IsFork:     c.IsFork,
		Value:      c.Value,
		Owner:      entities.Address(c.Owner),
		Group:      c.Group,
		Balance:    c.Balance,
		Credited:   credited,
		Withdrawn:  withdrawn,
		CreatedAt:  c.CommitTime,
	}
}

// ToGormCommit converts a domain commit into its stored form.
func ToGormCommit(c *entities.Commit) *Commit {
	return &Commit{
		CommitHash: c.Hash,
		ParentHash: c.ParentHash,
		IsFork:     c.IsFork,
		Value:      c.Value,
		Owner:      string(c.Owner),
		Balance:    c.Balance,
		Group:      c.Group,
		Credited:   c.Credited,
		Withdrawn:  c.Withdrawn,
		CommitTime: c.CreatedAt,
	}
}

// ToDomain converts a stored tournament back into the domain type.
func (t *Tournament) ToDomain() *entities.Tournament {
	entrants := t.Entrants
	if entrants == nil {
		entrants = make(map[entities.Address]bool)
	}
	fees := t.FeesHeld
	if fees == nil {
		fees = make(map[entities.Address]uint64)
	}
	return &entities.Tournament{
		ID:        t.TournamentID,
		Owner:     entities.Address(t.Owner),
		Content:   t.Content,
		EntryFee:  t.EntryFee,
		Balance:   t.Balance,
		Entrants:  entrants,
		FeesHeld:  fees,
		Rounds:    t.Rounds,
		Closed:    t.Closed,
		CreatedAt: t.TournTime,
	}
}

// ToGormTournament converts a domain tournament into its stored form.
func ToGormTournament(t *entities.Tournament) *Tournament {
	return &Tournament{
		TournamentID: t.ID,
		Owner:        string(t.Owner),
		Content:      t.Content,
		EntryFee:     t.EntryFee,
		Balance:      t.Balance,
		Closed:       t.Closed,
		Entrants:     t.Entrants,
		FeesHeld:     t.FeesHeld,
		Rounds:       t.Rounds,
		TournTime:    t.CreatedAt,
	}
}
