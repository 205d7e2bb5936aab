package entities

import "github.com/just-nibble/bounty-service/pkg/errcodes"

// RoundState is the lifecycle phase of a round. It is never stored; it is
// recomputed from the round's timing, funding and winner data on every read.
type RoundState int

const (
	RoundNotYetOpen RoundState = iota
	RoundUnfunded
	RoundOpen
	RoundInReview
	RoundHasWinners
	RoundClosed
	RoundAbandoned
)

func (s RoundState) String() string {
	switch s {
	case RoundNotYetOpen:
		return "not_yet_open"
	case RoundUnfunded:
		return "unfunded"
	case RoundOpen:
		return "open"
	case RoundInReview:
		return "in_review"
	case RoundHasWinners:
		return "has_winners"
	case RoundClosed:
		return "closed"
	case RoundAbandoned:
		return "abandoned"
	}
	return "unknown"
}

// MaxRoundDuration caps a round's competition window at one year.
const MaxRoundDuration int64 = 31536000

// RoundData is the caller-supplied timing and funding for a round.
type RoundData struct {
	Start    int64  `json:"start"`
	Duration int64  `json:"duration"`
	Review   int64  `json:"review"`
	Bounty   uint64 `json:"bounty"`
}

// Validate rejects out-of-range round timing.
func (d RoundData) Validate() error {
	if d.Duration < 0 || d.Review < 0 || d.Start < 0 {
		return errcodes.ErrInvalidRound
	}
	if d.Duration > MaxRoundDuration {
		return errcodes.ErrRoundTooLong
	}
	return nil
}

// Round is one funded competition window within a tournament.
type Round struct {
	Index    int   `json:"index"`
	Start    int64 `json:"start"`
	Duration int64 `json:"duration"`
	Review   int64 `json:"review"`

	// Bounty is the currently allocated funds; it drops to zero once
	// distributed to winners or drained by abandoned-round withdrawals.
	Bounty uint64 `json:"bounty"`

	Submissions []*Submission `json:"submissions"`

	// Closed marks the round finalized (next round started or tournament
	// closed). Winner payouts are recorded by commit hash.
	Closed  bool              `json:"closed"`
	Winners []string          `json:"winners"`
	Payouts map[string]uint64 `json:"payouts,omitempty"`

	// Abandonment bookkeeping: the pot and entrant count are frozen at the
	// first withdrawal so every entrant receives the same share.
	AbandonPot      uint64           `json:"abandon_pot"`
	AbandonEntrants int              `json:"abandon_entrants"`
	WithdrawnBy     map[Address]bool `json:"withdrawn_by,omitempty"`
	Recovered       bool             `json:"recovered"`
}

// End returns the close of the competition window.
func (r *Round) End() int64 { return r.Start + r.Duration }

// ReviewEnd returns the close of the review window.
func (r *Round) ReviewEnd() int64 { return r.End() + r.Review }

// WinnersSelected reports whether winners were chosen for this round.
func (r *Round) WinnersSelected() bool { return len(r.Winners) > 0 }

// State computes the round's lifecycle phase at the given time.
//
// Winner selection must happen strictly before the review deadline; a round
// whose review window elapses without winners is Abandoned. With winners it
// closes automatically at the deadline, or earlier if finalized explicitly.
func (r *Round) State(now int64) RoundState {
	if r.Closed {
		return RoundClosed
	}
	if now >= r.ReviewEnd() {
		if r.WinnersSelected() {
			return RoundClosed
		}
		return RoundAbandoned
	}
	if r.WinnersSelected() {
		return RoundHasWinners
	}
	if r.Bounty == 0 {
		return RoundUnfunded
	}
	if now < r.Start {
		return RoundNotYetOpen
	}
	if now < r.End() {
		return RoundOpen
	}
	return RoundInReview
}

// Clone returns a deep copy of the round. Submissions are immutable once
// created and stay shared.
func (r *Round) Clone() *Round {
	cp := *r
	cp.Submissions = append([]*Submission(nil), r.Submissions...)
	cp.Winners = append([]string(nil), r.Winners...)
	if r.Payouts != nil {
		cp.Payouts = make(map[string]uint64, len(r.Payouts))
		for k, v := range r.Payouts {
			cp.Payouts[k] = v
		}
	}
	if r.WithdrawnBy != nil {
		cp.WithdrawnBy = make(map[Address]bool, len(r.WithdrawnBy))
		for k, v := range r.WithdrawnBy {
			cp.WithdrawnBy[k] = v
		}
	}
	return &cp
}

// SubmissionFor returns the submission backed by the given commit, if any.
func (r *Round) SubmissionFor(commitHash string) *Submission {
	for _, s := range r.Submissions {
		if s.CommitHash == commitHash {
			return s
		}
	}
	return nil
}
