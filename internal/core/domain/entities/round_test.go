package entities

import (
	"testing"

	"github.com/just-nibble/bounty-service/pkg/errcodes"
	"github.com/stretchr/testify/assert"
)

func TestRoundState_Timeline(t *testing.T) {
	// start in 80s, 1h window, 60s review, funded
	now := int64(1700000000)
	r := &Round{Start: now + 80, Duration: 3600, Review: 60, Bounty: 5}

	tests := []struct {
		name string
		at   int64
		want RoundState
	}{
		{"before start", now, RoundNotYetOpen},
		{"one second before start", now + 79, RoundNotYetOpen},
		{"at start", now + 80, RoundOpen},
		{"mid window", now + 2000, RoundOpen},
		{"at window end", now + 3680, RoundInReview},
		{"last review second", now + 3739, RoundInReview},
		{"review elapsed without winners", now + 3740, RoundAbandoned},
		{"long after", now + 100000, RoundAbandoned},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, r.State(tc.at))
			// state is a pure function of its inputs
			assert.Equal(t, tc.want, r.State(tc.at))
		})
	}
}

func TestRoundState_Unfunded(t *testing.T) {
	now := int64(1700000000)
	r := &Round{Start: now - 10, Duration: 3600, Review: 60, Bounty: 0}

	assert.Equal(t, RoundUnfunded, r.State(now))

	// unfunded takes precedence over timing until the round is funded
	r.Start = now + 500
	assert.Equal(t, RoundUnfunded, r.State(now))

	r.Bounty = 2
	assert.Equal(t, RoundNotYetOpen, r.State(now))
}

func TestRoundState_Winners(t *testing.T) {
	now := int64(1700000000)
	r := &Round{Start: now - 4000, Duration: 3600, Review: 600, Bounty: 5}

	assert.Equal(t, RoundInReview, r.State(now))

	r.Winners = []string{"abc"}
	r.Bounty = 0
	assert.Equal(t, RoundHasWinners, r.State(now), "winner selection wins over the unfunded check")

	// closes automatically once the review window elapses
	assert.Equal(t, RoundClosed, r.State(r.ReviewEnd()))

	// explicit finalize closes it immediately
	r.Closed = true
	assert.Equal(t, RoundClosed, r.State(now))
}

func TestRoundState_AbandonedSurvivesRecovery(t *testing.T) {
	now := int64(1700000000)
	r := &Round{Start: now - 4000, Duration: 3600, Review: 60, Bounty: 0, Recovered: true}

	// a drained abandoned round stays abandoned, it does not become unfunded
	assert.Equal(t, RoundAbandoned, r.State(now))
}

func TestRoundDataValidate(t *testing.T) {
	assert.NoError(t, RoundData{Start: 0, Duration: 86400, Review: 5}.Validate())

	// exactly one year is the ceiling
	assert.NoError(t, RoundData{Duration: 31536000, Review: 5}.Validate())
	assert.ErrorIs(t, RoundData{Duration: 31536001, Review: 5}.Validate(), errcodes.ErrRoundTooLong)

	assert.ErrorIs(t, RoundData{Duration: -1}.Validate(), errcodes.ErrInvalidRound)
	assert.ErrorIs(t, RoundData{Duration: 10, Review: -1}.Validate(), errcodes.ErrInvalidRound)
}

func TestTournamentCurrentRound(t *testing.T) {
	now := int64(1700000000)
	tn := &Tournament{
		Entrants: map[Address]bool{},
		FeesHeld: map[Address]uint64{},
		Rounds: []*Round{
			{Index: 0, Start: now - 4000, Duration: 3600, Review: 600, Bounty: 0, Winners: []string{"abc"}},
			{Index: 1, Start: now + 100, Duration: 3600, Review: 60, Bounty: 3},
		},
	}

	// previous round still under review with winners: it stays current
	assert.Equal(t, 0, tn.CurrentRoundIndex(now))

	// once it auto-closes, the ghost becomes current
	later := tn.Rounds[0].ReviewEnd()
	assert.Equal(t, 1, tn.CurrentRoundIndex(later))
}

func TestTournamentState(t *testing.T) {
	now := int64(1700000000)
	tn := &Tournament{
		Rounds: []*Round{{Start: now - 10, Duration: 3600, Review: 60, Bounty: 5}},
	}

	assert.Equal(t, TournamentOpen, tn.State(now))

	// abandoned current round abandons the tournament
	assert.Equal(t, TournamentAbandoned, tn.State(now+100000))

	tn.Closed = true
	assert.Equal(t, TournamentClosed, tn.State(now))
}

func TestTournamentTotalBalance(t *testing.T) {
	tn := &Tournament{
		Balance: 7,
		Rounds:  []*Round{{Bounty: 5}, {Bounty: 3}},
	}
	assert.Equal(t, uint64(15), tn.TotalBalance())
}
