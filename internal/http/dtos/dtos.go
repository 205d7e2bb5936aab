package dtos

import (
	"github.com/just-nibble/bounty-service/internal/core/domain/entities"
)

// RoundData carries round timing and funding over the wire.
type RoundData struct {
	Start    int64  `json:"start"`
	Duration int64  `json:"duration"`
	Review   int64  `json:"review"`
	Bounty   uint64 `json:"bounty"`
}

func (d RoundData) ToDomain() entities.RoundData {
	return entities.RoundData{Start: d.Start, Duration: d.Duration, Review: d.Review, Bounty: d.Bounty}
}

type CreateTournamentRequest struct {
	Content  string    `json:"content"`
	Bounty   uint64    `json:"bounty"`
	EntryFee uint64    `json:"entry_fee"`
	Round    RoundData `json:"round"`
}

type AmountRequest struct {
	Amount uint64 `json:"amount"`
}

type CreateSubmissionRequest struct {
	CommitHash   string             `json:"commit_hash"`
	Contributors []ContributorShare `json:"contributors,omitempty"`
	References   []string           `json:"references,omitempty"`
}

type ContributorShare struct {
	Member string `json:"member"`
	Weight uint64 `json:"weight"`
}

type SelectWinnersRequest struct {
	Winners []string  `json:"winners"`
	Weights []uint64  `json:"weights,omitempty"`
	Action  int       `json:"action"`
	Ghost   RoundData `json:"ghost"`
}

type CreateCommitRequest struct {
	Parent  string `json:"parent"`
	IsFork  bool   `json:"is_fork"`
	Salt    string `json:"salt"`
	Content string `json:"content"`
	Value   uint64 `json:"value"`
}

type AddMemberRequest struct {
	Member string `json:"member"`
}

// TournamentResponse is the read model for a tournament.
type TournamentResponse struct {
	ID           string `json:"id"`
	Owner        string `json:"owner"`
	Content      string `json:"content"`
	State        string `json:"state"`
	EntryFee     uint64 `json:"entry_fee"`
	Balance      uint64 `json:"balance"`
	TotalBalance uint64 `json:"total_balance"`
	CurrentRound int    `json:"current_round"`
	Entrants     int    `json:"entrants"`
	Rounds       int    `json:"rounds"`
}

// RoundResponse is the read model for a round.
type RoundResponse struct {
	Index       int      `json:"index"`
	State       string   `json:"state"`
	Start       int64    `json:"start"`
	Duration    int64    `json:"duration"`
	Review      int64    `json:"review"`
	Bounty      uint64   `json:"bounty"`
	Submissions int      `json:"submissions"`
	Winners     []string `json:"winners,omitempty"`
	Closed      bool     `json:"closed"`
}

// CommitResponse is the read model for a commit graph node.
type CommitResponse struct {
	Hash    string                `json:"hash"`
	Parent  string                `json:"parent,omitempty"`
	IsFork  bool                  `json:"is_fork"`
	Value   uint64                `json:"value"`
	Owner   string                `json:"owner"`
	Balance uint64                `json:"balance"`
	Group   []entities.GroupShare `json:"group"`
}

type RewardResponse struct {
	CommitHash string `json:"commit_hash"`
	User       string `json:"user"`
	Available  uint64 `json:"available"`
}

type WithdrawResponse struct {
	CommitHash string `json:"commit_hash,omitempty"`
	Amount     uint64 `json:"amount"`
}

// NewTournamentResponse maps a tournament aggregate at the given time.
func NewTournamentResponse(t *entities.Tournament, now int64) TournamentResponse {
	return TournamentResponse{
		ID:           t.ID.String(),
		Owner:        string(t.Owner),
		Content:      t.Content,
		State:        t.State(now).String(),
		EntryFee:     t.EntryFee,
		Balance:      t.Balance,
		TotalBalance: t.TotalBalance(),
		CurrentRound: t.CurrentRoundIndex(now),
		Entrants:     len(t.Entrants),
		Rounds:       len(t.Rounds),
	}
}

// NewRoundResponse maps a round at the given time.
func NewRoundResponse(r *entities.Round, now int64) RoundResponse {
	return RoundResponse{
		Index:       r.Index,
		State:       r.State(now).String(),
		Start:       r.Start,
		Duration:    r.Duration,
		Review:      r.Review,
		Bounty:      r.Bounty,
		Submissions: len(r.Submissions),
		Winners:     r.Winners,
		Closed:      r.Closed,
	}
}

// NewCommitResponse maps a commit graph node.
func NewCommitResponse(c *entities.Commit) CommitResponse {
	return CommitResponse{
		Hash:    c.Hash,
		Parent:  c.ParentHash,
		IsFork:  c.IsFork,
		Value:   c.Value,
		Owner:   string(c.Owner),
		Balance: c.Balance,
		Group:   c.Group,
	}
}
