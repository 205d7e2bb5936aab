package entities

import "github.com/google/uuid"

// ContributorShare is a submission-level reward weight, independent of the
// commit's group membership.
type ContributorShare struct {
	Member Address `json:"member"`
	Weight uint64  `json:"weight"`
}

// Submission claims a commit into a specific round. Immutable once created;
// referenced by round history after the round closes.
type Submission struct {
	ID           uuid.UUID          `json:"id"`
	TournamentID uuid.UUID          `json:"tournament_id"`
	RoundIndex   int                `json:"round_index"`
	CommitHash   string             `json:"commit_hash"`
	Owner        Address            `json:"owner"`
	Contributors []ContributorShare `json:"contributors,omitempty"`
	References   []string           `json:"references,omitempty"`
	CreatedAt    int64              `json:"created_at"`
}
