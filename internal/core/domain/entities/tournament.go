package entities

import "github.com/google/uuid"

// TournamentState is derived from the closed flag and the current round.
type TournamentState int

const (
	TournamentOpen TournamentState = iota
	TournamentClosed
	TournamentAbandoned
)

func (s TournamentState) String() string {
	switch s {
	case TournamentOpen:
		return "open"
	case TournamentClosed:
		return "closed"
	case TournamentAbandoned:
		return "abandoned"
	}
	return "unknown"
}

// SelectAction tells SelectWinners what to do after distributing the bounty.
type SelectAction int

const (
	ActionDoNothing SelectAction = iota
	ActionStartNextRound
	ActionCloseTournament
)

// Tournament owns the bounty treasury, the entrant set and the round
// sequence. Balance is the unallocated portion only; the total always equals
// Balance plus the open rounds' bounties.
type Tournament struct {
	ID       uuid.UUID `json:"id"`
	Owner    Address   `json:"owner"`
	Content  string    `json:"content"`
	EntryFee uint64    `json:"entry_fee"`

	// Balance is the tournament-level unallocated bounty.
	Balance uint64 `json:"balance"`

	Entrants map[Address]bool   `json:"entrants"`
	FeesHeld map[Address]uint64 `json:"fees_held"`

	Rounds []*Round `json:"rounds"`
	Closed bool     `json:"closed"`

	CreatedAt int64 `json:"created_at"`
}

// Account returns the treasury account holding this tournament's funds.
func (t *Tournament) Account() Address {
	return Address("tournament:" + t.ID.String())
}

// IsEntrant reports whether a has entered and not left the tournament.
func (t *Tournament) IsEntrant(a Address) bool { return t.Entrants[a] }

// TotalBalance is the unallocated balance plus all unclosed round bounties.
func (t *Tournament) TotalBalance() uint64 {
	total := t.Balance
	for _, r := range t.Rounds {
		total += r.Bounty
	}
	return total
}

// CurrentRoundIndex locates the active round. The last round is usually
// current; while the previous round still shows winners under review, the
// last one is the pending ghost and the previous round stays current.
func (t *Tournament) CurrentRoundIndex(now int64) int {
	n := len(t.Rounds)
	if n > 1 {
		prev := t.Rounds[n-2]
		if s := prev.State(now); s != RoundClosed && s != RoundAbandoned {
			return n - 2
		}
	}
	return n - 1
}

// CurrentRound returns the active round.
func (t *Tournament) CurrentRound(now int64) *Round {
	return t.Rounds[t.CurrentRoundIndex(now)]
}

// GhostRound returns the pre-configured next round, or nil if none exists.
func (t *Tournament) GhostRound(now int64) *Round {
	idx := t.CurrentRoundIndex(now)
	if idx+1 < len(t.Rounds) {
		return t.Rounds[idx+1]
	}
	return nil
}

// Clone returns a deep copy safe to read outside the tournament lock.
func (t *Tournament) Clone() *Tournament {
	cp := *t
	cp.Entrants = make(map[Address]bool, len(t.Entrants))
	for k, v := range t.Entrants {
		cp.Entrants[k] = v
	}
	cp.FeesHeld = make(map[Address]uint64, len(t.FeesHeld))
	for k, v := range t.FeesHeld {
		cp.FeesHeld[k] = v
	}
	cp.Rounds = make([]*Round, len(t.Rounds))
	for i, r := range t.Rounds {
		cp.Rounds[i] = r.Clone()
	}
	return &cp
}

// State derives the tournament phase: closed wins, an abandoned current
// round abandons the tournament, anything else is open.
func (t *Tournament) State(now int64) TournamentState {
	if t.Closed {
		return TournamentClosed
	}
	if t.CurrentRound(now).State(now) == RoundAbandoned {
		return TournamentAbandoned
	}
	return TournamentOpen
}
