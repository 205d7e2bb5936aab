package service

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/just-nibble/bounty-service/internal/adapters/db"
	"github.com/just-nibble/bounty-service/internal/adapters/treasury"
	"github.com/just-nibble/bounty-service/internal/core/domain/entities"
	"github.com/just-nibble/bounty-service/pkg/clock"
	"github.com/just-nibble/bounty-service/pkg/errcodes"
)

// TournamentService owns every tournament aggregate and serializes all
// operations per tournament. Cross-tournament calls run in parallel; within
// one tournament, winner selection, bounty transfers and withdrawals are
// mutually exclusive.
type TournamentService struct {
	mu          sync.Mutex
	tournaments map[uuid.UUID]*tournamentHandle

	commits  *CommitService
	treasury treasury.Treasury
	clock    clock.Clock
	store    db.TournamentStore
}

// tournamentHandle pairs an aggregate with its lock.
type tournamentHandle struct {
	mu sync.Mutex
	t  *entities.Tournament
}

// NewTournamentService creates a TournamentService.
func NewTournamentService(store db.TournamentStore, commits *CommitService, tr treasury.Treasury, clk clock.Clock) *TournamentService {
	return &TournamentService{
		tournaments: make(map[uuid.UUID]*tournamentHandle),
		commits:     commits,
		treasury:    tr,
		clock:       clk,
		store:       store,
	}
}

// Rehydrate loads persisted tournaments into memory.
func (s *TournamentService) Rehydrate(ctx context.Context) error {
	tournaments, err := s.store.ListTournaments(ctx)
	if err != nil {
		return fmt.Errorf("rehydrate tournaments: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range tournaments {
		s.tournaments[t.ID] = &tournamentHandle{t: t}
	}
	return nil
}

func (s *TournamentService) handle(id uuid.UUID) (*tournamentHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.tournaments[id]
	if !ok {
		return nil, fmt.Errorf("tournament %s: %w", id, errcodes.ErrNoRecordFound)
	}
	return h, nil
}

func (s *TournamentService) now() int64 { return s.clock.Now().Unix() }

// CreateTournament funds a new tournament from the owner's balance and opens
// round 0 from the given round data. A round start in the past is clamped to
// now.
func (s *TournamentService) CreateTournament(ctx context.Context, owner entities.Address, content string, bounty, entryFee uint64, round entities.RoundData) (*entities.Tournament, error) {
	if err := round.Validate(); err != nil {
		return nil, err
	}
	if round.Bounty > bounty {
		return nil, fmt.Errorf("round bounty %d exceeds tournament bounty %d: %w", round.Bounty, bounty, errcodes.ErrInsufficientFunds)
	}

	now := s.now()
	t := &entities.Tournament{
		ID:        uuid.New(),
		Owner:     owner,
		Content:   content,
		EntryFee:  entryFee,
		Balance:   bounty - round.Bounty,
		Entrants:  make(map[entities.Address]bool),
		FeesHeld:  make(map[entities.Address]uint64),
		CreatedAt: now,
	}

	if err := s.treasury.Transfer(owner, t.Account(), bounty); err != nil {
		return nil, fmt.Errorf("fund tournament: %w", err)
	}

	start := round.Start
	if start < now {
		start = now
	}
	t.Rounds = []*entities.Round{{
		Index:    0,
		Start:    start,
		Duration: round.Duration,
		Review:   round.Review,
		Bounty:   round.Bounty,
	}}

	s.mu.Lock()
	s.tournaments[t.ID] = &tournamentHandle{t: t}
	s.mu.Unlock()

	s.persist(ctx, t)
	return t.Clone(), nil
}

// Enter registers the caller as an entrant, debiting the entry fee. The owner
// cannot enter their own tournament.
func (s *TournamentService) Enter(ctx context.Context, id uuid.UUID, caller entities.Address) error {
	h, err := s.handle(id)
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	t, now := h.t, s.now()
	if t.State(now) != entities.TournamentOpen {
		return fmt.Errorf("enter tournament: %w", errcodes.ErrInvalidState)
	}
	if caller == t.Owner {
		return fmt.Errorf("owner cannot enter own tournament: %w", errcodes.ErrUnauthorized)
	}
	if t.IsEntrant(caller) {
		return fmt.Errorf("enter tournament: %w", errcodes.ErrAlreadyEntered)
	}

	if t.EntryFee > 0 {
		if err := s.treasury.Transfer(caller, t.Account(), t.EntryFee); err != nil {
			return fmt.Errorf("entry fee: %w", err)
		}
		t.FeesHeld[caller] = t.EntryFee
	}
	t.Entrants[caller] = true

	s.persist(ctx, t)
	return nil
}

// Exit removes the caller from the entrant set and refunds the held entry fee.
// Once the current round is abandoned the pot accounting owns the entry fees,
// so entrants leave through WithdrawFromAbandoned instead.
func (s *TournamentService) Exit(ctx context.Context, id uuid.UUID, caller entities.Address) error {
	h, err := s.handle(id)
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	t, now := h.t, s.now()
	if t.CurrentRound(now).State(now) == entities.RoundAbandoned {
		return fmt.Errorf("exit tournament: %w", errcodes.ErrInvalidState)
	}
	if !t.IsEntrant(caller) {
		return fmt.Errorf("exit tournament: %w", errcodes.ErrNotEntrant)
	}

	if fee := t.FeesHeld[caller]; fee > 0 {
		if err := s.treasury.Transfer(t.Account(), caller, fee); err != nil {
			return fmt.Errorf("refund entry fee: %w", err)
		}
		delete(t.FeesHeld, caller)
	}
	delete(t.Entrants, caller)

	s.persist(ctx, t)
	return nil
}

// AddToBounty tops up the tournament's unallocated balance.
func (s *TournamentService) AddToBounty(ctx context.Context, id uuid.UUID, caller entities.Address, amount uint64) error {
	h, err := s.handle(id)
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	t := h.t
	if t.State(s.now()) == entities.TournamentClosed {
		return fmt.Errorf("add to bounty: %w", errcodes.ErrInvalidState)
	}

	if err := s.treasury.Transfer(caller, t.Account(), amount); err != nil {
		return fmt.Errorf("add to bounty: %w", err)
	}
	t.Balance += amount

	s.persist(ctx, t)
	return nil
}

// TransferToRound moves unallocated tournament funds into the current round's
// bounty. Owner only; allowed while the round can still pay out.
func (s *TournamentService) TransferToRound(ctx context.Context, id uuid.UUID, caller entities.Address, amount uint64) error {
	h, err := s.handle(id)
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	t, now := h.t, s.now()
	if caller != t.Owner {
		return fmt.Errorf("transfer to round: %w", errcodes.ErrNotOwner)
	}

	round := t.CurrentRound(now)
	switch round.State(now) {
	case entities.RoundNotYetOpen, entities.RoundUnfunded, entities.RoundOpen, entities.RoundInReview:
	default:
		return fmt.Errorf("transfer to round in state %s: %w", round.State(now), errcodes.ErrInvalidState)
	}

	if amount > t.Balance {
		return fmt.Errorf("transfer %d with %d unallocated: %w", amount, t.Balance, errcodes.ErrInsufficientFunds)
	}
	t.Balance -= amount
	round.Bounty += amount

	s.persist(ctx, t)
	return nil
}

// UpdateNextRound edits the upcoming round: the pending ghost while the
// current round runs its course, or round 0 while it has not opened. The
// bounty delta settles against the unallocated balance: an increase debits
// the tournament, a decrease credits it back.
func (s *TournamentService) UpdateNextRound(ctx context.Context, id uuid.UUID, caller entities.Address, data entities.RoundData) error {
	if err := data.Validate(); err != nil {
		return err
	}

	h, err := s.handle(id)
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	t, now := h.t, s.now()
	if caller != t.Owner {
		return fmt.Errorf("update next round: %w", errcodes.ErrNotOwner)
	}
	if t.Closed {
		return fmt.Errorf("update next round: %w", errcodes.ErrInvalidState)
	}

	round := t.Rounds[len(t.Rounds)-1]
	editable := len(t.Rounds) > 1 && t.CurrentRoundIndex(now) == len(t.Rounds)-2
	if !editable {
		switch round.State(now) {
		case entities.RoundNotYetOpen, entities.RoundUnfunded:
			editable = true
		}
	}
	if !editable {
		return fmt.Errorf("update round in state %s: %w", round.State(now), errcodes.ErrInvalidState)
	}

	if data.Bounty > round.Bounty {
		increase := data.Bounty - round.Bounty
		if increase > t.Balance {
			return fmt.Errorf("raise round bounty by %d with %d unallocated: %w", increase, t.Balance, errcodes.ErrInsufficientFunds)
		}
		t.Balance -= increase
	} else {
		t.Balance += round.Bounty - data.Bounty
	}

	round.Start = data.Start
	if round.Start < now {
		round.Start = now
	}
	round.Duration = data.Duration
	round.Review = data.Review
	round.Bounty = data.Bounty

	s.persist(ctx, t)
	return nil
}

// CreateSubmission enters a commit into the current round. The caller must be
// in the commit's group; a non-entrant is entered automatically when the
// entry fee clears. A commit backs at most one submission per round.
func (s *TournamentService) CreateSubmission(ctx context.Context, id uuid.UUID, caller entities.Address, commitHash string, contributors []entities.ContributorShare, references []string) (*entities.Submission, error) {
	h, err := s.handle(id)
	if err != nil {
		return nil, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	t, now := h.t, s.now()
	if t.State(now) != entities.TournamentOpen {
		return nil, fmt.Errorf("create submission: %w", errcodes.ErrInvalidState)
	}

	round := t.CurrentRound(now)
	if round.State(now) != entities.RoundOpen {
		return nil, fmt.Errorf("create submission in round state %s: %w", round.State(now), errcodes.ErrInvalidState)
	}

	inGroup, err := s.commits.InGroup(ctx, commitHash, caller)
	if err != nil {
		return nil, err
	}
	if !inGroup {
		return nil, fmt.Errorf("submit commit %s: %w", commitHash, errcodes.ErrUnauthorized)
	}

	if round.SubmissionFor(commitHash) != nil {
		return nil, fmt.Errorf("commit %s already submitted this round: %w", commitHash, errcodes.ErrDuplicateCommit)
	}

	if !t.IsEntrant(caller) {
		if caller == t.Owner {
			return nil, fmt.Errorf("owner cannot submit: %w", errcodes.ErrNotEntrant)
		}
		if t.EntryFee > 0 {
			if err := s.treasury.Transfer(caller, t.Account(), t.EntryFee); err != nil {
				return nil, fmt.Errorf("auto-enter: %w", errcodes.ErrNotEntrant)
			}
			t.FeesHeld[caller] = t.EntryFee
		}
		t.Entrants[caller] = true
	}

	sub := &entities.Submission{
		ID:           uuid.New(),
		TournamentID: t.ID,
		RoundIndex:   round.Index,
		CommitHash:   commitHash,
		Owner:        caller,
		Contributors: contributors,
		References:   references,
		CreatedAt:    now,
	}
	round.Submissions = append(round.Submissions, sub)

	s.persist(ctx, t)
	return sub, nil
}

// SelectWinners distributes the current round's bounty across the winning
// commits and always (re)instantiates the next round from ghost. Owner only,
// and only while the round is in review.
//
// Weights are proportional; all-zero (or nil) means an even split. Integer
// remainders go to the first winner so the totals stay exact. With the
// CloseTournament action the unallocated tournament balance is folded into
// the pot before the split. A zero-valued ghost inherits the closing round's
// timing.
//
// When a winning submission lists contributors, half of its allocation is
// divided among them by their submission weights and the rest propagates
// through the commit chain.
func (s *TournamentService) SelectWinners(ctx context.Context, id uuid.UUID, caller entities.Address, winners []string, weights []uint64, action entities.SelectAction, ghost entities.RoundData) error {
	h, err := s.handle(id)
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	t, now := h.t, s.now()
	if caller != t.Owner {
		return fmt.Errorf("select winners: %w", errcodes.ErrNotOwner)
	}

	round := t.CurrentRound(now)
	if round.State(now) != entities.RoundInReview {
		return fmt.Errorf("select winners in round state %s: %w", round.State(now), errcodes.ErrInvalidState)
	}

	if len(winners) == 0 {
		return errcodes.ErrEmptyWinnerSet
	}
	if weights != nil && len(weights) != len(winners) {
		return fmt.Errorf("%d winners, %d weights: %w", len(winners), len(weights), errcodes.ErrWeightLengthMismatch)
	}
	for _, hash := range winners {
		if round.SubmissionFor(hash) == nil {
			return fmt.Errorf("winner %s: %w", hash, errcodes.ErrNotInRound)
		}
	}
	if err := ghost.Validate(); err != nil {
		return err
	}
	if ghost == (entities.RoundData{}) {
		ghost.Duration = round.Duration
		ghost.Review = round.Review
	}

	// Everything below must succeed together, so settle all funding
	// questions before mutating.
	pot := round.Bounty
	balanceAfter := t.Balance
	if action == entities.ActionCloseTournament {
		pot += t.Balance
		balanceAfter = 0
	}
	if ghost.Bounty > balanceAfter {
		return fmt.Errorf("ghost round bounty %d with %d unallocated: %w", ghost.Bounty, balanceAfter, errcodes.ErrInsufficientFunds)
	}

	allocations := splitBounty(pot, winners, weights)

	if pot > 0 {
		if err := s.treasury.Transfer(t.Account(), RewardEscrow, pot); err != nil {
			return fmt.Errorf("move bounty to escrow: %w", err)
		}
	}

	t.Balance = balanceAfter - ghost.Bounty
	round.Bounty = 0
	round.Winners = append([]string(nil), winners...)
	round.Payouts = make(map[string]uint64, len(winners))
	for i, hash := range winners {
		round.Payouts[hash] = allocations[i]
		chain, contributors := splitAllocation(allocations[i], round.SubmissionFor(hash).Contributors)
		if len(contributors) > 0 {
			if err := s.commits.CreditContributors(ctx, hash, contributors); err != nil {
				log.Printf("Failed to credit contributors for commit %s: %v", hash, err)
			}
		}
		if chain > 0 {
			if err := s.commits.CreditReward(ctx, hash, chain); err != nil {
				// winners were validated against the graph above
				log.Printf("Failed to credit reward for commit %s: %v", hash, err)
			}
		}
	}

	ghostStart := ghost.Start
	if ghostStart < now {
		ghostStart = now
	}
	t.Rounds = append(t.Rounds, &entities.Round{
		Index:    round.Index + 1,
		Start:    ghostStart,
		Duration: ghost.Duration,
		Review:   ghost.Review,
		Bounty:   ghost.Bounty,
	})

	switch action {
	case entities.ActionStartNextRound:
		round.Closed = true
	case entities.ActionCloseTournament:
		round.Closed = true
		t.Closed = true
	}

	s.persist(ctx, t)
	return nil
}

// StartNextRound promotes the pending ghost round, closing the round whose
// winners were already selected.
func (s *TournamentService) StartNextRound(ctx context.Context, id uuid.UUID, caller entities.Address) error {
	h, err := s.handle(id)
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	t, now := h.t, s.now()
	if caller != t.Owner {
		return fmt.Errorf("start next round: %w", errcodes.ErrNotOwner)
	}

	round := t.CurrentRound(now)
	if round.State(now) != entities.RoundHasWinners {
		return fmt.Errorf("start next round in state %s: %w", round.State(now), errcodes.ErrInvalidState)
	}

	ghost := t.Rounds[len(t.Rounds)-1]
	round.Closed = true
	if ghost.Start < now {
		ghost.Start = now
	}

	s.persist(ctx, t)
	return nil
}

// CloseTournament finalizes the tournament once the current round has
// winners. Any remaining unallocated balance stays on the tournament account,
// recoverable by governance.
func (s *TournamentService) CloseTournament(ctx context.Context, id uuid.UUID, caller entities.Address) error {
	h, err := s.handle(id)
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	t, now := h.t, s.now()
	if caller != t.Owner {
		return fmt.Errorf("close tournament: %w", errcodes.ErrNotOwner)
	}
	if t.Closed {
		return fmt.Errorf("close tournament: %w", errcodes.ErrInvalidState)
	}

	round := t.CurrentRound(now)
	if round.State(now) != entities.RoundHasWinners {
		return fmt.Errorf("close tournament in round state %s: %w", round.State(now), errcodes.ErrInvalidState)
	}

	round.Closed = true
	t.Closed = true

	s.persist(ctx, t)
	return nil
}

// WithdrawFromAbandoned pays an entrant their pro-rata share of an abandoned
// round's pot, plus their held entry fee, and removes them from the entrant
// set. The pot and entrant count freeze at the first withdrawal so everyone
// receives the same share; the last withdrawer takes the integer remainder.
func (s *TournamentService) WithdrawFromAbandoned(ctx context.Context, id uuid.UUID, caller entities.Address) (uint64, error) {
	h, err := s.handle(id)
	if err != nil {
		return 0, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	t, now := h.t, s.now()
	round := t.CurrentRound(now)
	if round.State(now) != entities.RoundAbandoned {
		return 0, fmt.Errorf("withdraw from round in state %s: %w", round.State(now), errcodes.ErrInvalidState)
	}
	if round.Recovered {
		return 0, fmt.Errorf("bounty was recovered: %w", errcodes.ErrInvalidState)
	}
	if round.WithdrawnBy[caller] {
		return 0, fmt.Errorf("withdraw from abandoned: %w", errcodes.ErrAlreadyWithdrawn)
	}
	if !t.IsEntrant(caller) {
		return 0, fmt.Errorf("withdraw from abandoned: %w", errcodes.ErrNotEntrant)
	}

	if round.AbandonEntrants == 0 {
		// first withdrawal: fold the unallocated balance into the pot and
		// freeze the entrant count
		round.Bounty += t.Balance
		t.Balance = 0
		round.AbandonPot = round.Bounty
		round.AbandonEntrants = len(t.Entrants)
		round.WithdrawnBy = make(map[entities.Address]bool, len(t.Entrants))
	}

	share := round.AbandonPot / uint64(round.AbandonEntrants)
	if round.AbandonEntrants-len(round.WithdrawnBy) == 1 {
		share = round.Bounty
	}

	payout := share + t.FeesHeld[caller]
	if err := s.treasury.Transfer(t.Account(), caller, payout); err != nil {
		return 0, fmt.Errorf("withdraw from abandoned: %w", err)
	}

	round.Bounty -= share
	round.WithdrawnBy[caller] = true
	delete(t.Entrants, caller)
	delete(t.FeesHeld, caller)

	s.persist(ctx, t)
	return share, nil
}

// RecoverBounty returns an abandoned, submission-free round's bounty to the
// tournament's unallocated balance. Owner only; one shot.
func (s *TournamentService) RecoverBounty(ctx context.Context, id uuid.UUID, caller entities.Address) error {
	h, err := s.handle(id)
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	t, now := h.t, s.now()
	if caller != t.Owner {
		return fmt.Errorf("recover bounty: %w", errcodes.ErrNotOwner)
	}

	round := t.CurrentRound(now)
	if round.State(now) != entities.RoundAbandoned {
		return fmt.Errorf("recover bounty in round state %s: %w", round.State(now), errcodes.ErrInvalidState)
	}
	if len(round.Submissions) > 0 {
		return fmt.Errorf("round has submissions: %w", errcodes.ErrInvalidState)
	}
	if round.Recovered {
		return fmt.Errorf("recover bounty: %w", errcodes.ErrAlreadyRecovered)
	}

	t.Balance += round.Bounty
	round.Bounty = 0
	round.Recovered = true

	s.persist(ctx, t)
	return nil
}

// GetTournament returns a snapshot of a tournament aggregate. Reads never
// hold the tournament lock past the copy, so they cannot observe a winner
// selection mid-flight.
func (s *TournamentService) GetTournament(ctx context.Context, id uuid.UUID) (*entities.Tournament, error) {
	h, err := s.handle(id)
	if err != nil {
		return nil, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.t.Clone(), nil
}

// ListTournaments returns a snapshot of every known tournament.
func (s *TournamentService) ListTournaments(ctx context.Context) []*entities.Tournament {
	s.mu.Lock()
	handles := make([]*tournamentHandle, 0, len(s.tournaments))
	for _, h := range s.tournaments {
		handles = append(handles, h)
	}
	s.mu.Unlock()

	out := make([]*entities.Tournament, 0, len(handles))
	for _, h := range handles {
		h.mu.Lock()
		out = append(out, h.t.Clone())
		h.mu.Unlock()
	}
	return out
}

// RoundState computes a round's state at the current clock reading.
func (s *TournamentService) RoundState(ctx context.Context, id uuid.UUID, index int) (entities.RoundState, error) {
	h, err := s.handle(id)
	if err != nil {
		return 0, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	if index < 0 || index >= len(h.t.Rounds) {
		return 0, fmt.Errorf("round %d: %w", index, errcodes.ErrNoRecordFound)
	}
	return h.t.Rounds[index].State(s.now()), nil
}

// Now exposes the platform clock reading, mostly for handlers and tests.
func (s *TournamentService) Now() int64 { return s.now() }

// splitBounty allocates pot across winners by weight. Nil or all-zero weights
// mean an even split; the first winner absorbs the integer remainder.
func splitBounty(pot uint64, winners []string, weights []uint64) []uint64 {
	normalized := weights
	var total uint64
	for _, w := range weights {
		total += w
	}
	if total == 0 {
		normalized = make([]uint64, len(winners))
		for i := range normalized {
			normalized[i] = 1
		}
		total = uint64(len(winners))
	}

	allocations := make([]uint64, len(winners))
	var given uint64
	for i := range winners {
		allocations[i] = pot * normalized[i] / total
		given += allocations[i]
	}
	allocations[0] += pot - given
	return allocations
}

// splitAllocation carves the contributor half out of a winning submission's
// allocation: half is divided among the contributors by weight (all-zero
// weights mean an even split, remainder to the first contributor) and the
// rest stays on the commit chain. No contributors means the whole allocation
// stays on the chain.
func splitAllocation(alloc uint64, contributors []entities.ContributorShare) (uint64, map[entities.Address]uint64) {
	if alloc == 0 || len(contributors) == 0 {
		return alloc, nil
	}

	pot := alloc / 2
	var total uint64
	for _, c := range contributors {
		total += c.Weight
	}
	even := total == 0
	if even {
		total = uint64(len(contributors))
	}

	shares := make(map[entities.Address]uint64, len(contributors))
	var given uint64
	for _, c := range contributors {
		w := c.Weight
		if even {
			w = 1
		}
		share := pot * w / total
		shares[c.Member] += share
		given += share
	}
	if given < pot {
		shares[contributors[0].Member] += pot - given
	}
	return alloc - pot, shares
}

// persist snapshots a tournament. Write-through, best-effort; the in-memory
// aggregate is authoritative.
func (s *TournamentService) persist(ctx context.Context, t *entities.Tournament) {
	if err := s.store.SaveTournament(ctx, t); err != nil {
		log.Printf("Failed to save tournament %s: %v", t.ID, err)
	}
}
