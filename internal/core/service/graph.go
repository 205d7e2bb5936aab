package service

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/just-nibble/bounty-service/internal/adapters/db"
	"github.com/just-nibble/bounty-service/internal/adapters/treasury"
	"github.com/just-nibble/bounty-service/internal/core/domain/entities"
	"github.com/just-nibble/bounty-service/pkg/clock"
	"github.com/just-nibble/bounty-service/pkg/contenthash"
	"github.com/just-nibble/bounty-service/pkg/errcodes"
)

// RewardEscrow holds distributed-but-unwithdrawn rewards. Winner payouts move
// from the tournament account into escrow at selection time; withdrawals pay
// out of escrow.
const RewardEscrow = entities.Address("escrow:rewards")

// CommitService owns the commit graph and the reward ledger. Commits are
// arena-indexed by hash; ancestry is walked by hash lookup, never by live
// references.
type CommitService struct {
	mu       sync.Mutex
	commits  map[string]*entities.Commit
	children map[string][]string

	treasury treasury.Treasury
	clock    clock.Clock
	store    db.CommitStore
}

// NewCommitService creates a CommitService over the given store and treasury.
func NewCommitService(store db.CommitStore, tr treasury.Treasury, clk clock.Clock) *CommitService {
	return &CommitService{
		commits:  make(map[string]*entities.Commit),
		children: make(map[string][]string),
		treasury: tr,
		clock:    clk,
		store:    store,
	}
}

// Rehydrate loads the persisted commit graph into memory.
func (s *CommitService) Rehydrate(ctx context.Context) error {
	commits, err := s.store.ListCommits(ctx)
	if err != nil {
		return fmt.Errorf("rehydrate commits: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range commits {
		s.commits[c.Hash] = c
		if c.ParentHash != entities.Genesis {
			s.children[c.ParentHash] = append(s.children[c.ParentHash], c.Hash)
		}
	}
	return nil
}

// CreateCommit adds a new node to the graph. The hash is content-derived from
// (creator, salt, content), so the same work never produces two nodes.
//
// A non-fork child continues the parent's lineage: only members of the
// parent's group may create one, and it inherits the parent's share table.
// A fork starts a fresh sole-owner lineage and immediately pays the parent
// commit its value through the reward ledger.
func (s *CommitService) CreateCommit(ctx context.Context, caller entities.Address, parentHash string, isFork bool, salt, content []byte, value uint64) (*entities.Commit, error) {
	if value == 0 {
		return nil, errcodes.ErrInvalidValue
	}

	hash, err := contenthash.CommitHash(string(caller), salt, content)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.commits[hash]; ok {
		return nil, fmt.Errorf("commit %s: %w", hash, errcodes.ErrDuplicateCommit)
	}

	var parent *entities.Commit
	if parentHash != entities.Genesis {
		parent = s.commits[parentHash]
		if parent == nil {
			return nil, fmt.Errorf("parent %s: %w", parentHash, errcodes.ErrNoRecordFound)
		}
	}

	var group []entities.GroupShare
	switch {
	case parent == nil || isFork:
		group = []entities.GroupShare{{Member: caller, Weight: 1}}
	default:
		if !parent.InGroup(caller) {
			return nil, fmt.Errorf("extend lineage of %s: %w", parentHash, errcodes.ErrUnauthorized)
		}
		group = append(group, parent.Group...)
	}

	// Forking someone else's work buys into it: the forker pays the parent
	// commit's value up front, and that payment propagates like any reward.
	if isFork && parent != nil {
		if err := s.treasury.Transfer(caller, RewardEscrow, parent.Value); err != nil {
			return nil, fmt.Errorf("fork payment: %w", err)
		}
	}

	commit := &entities.Commit{
		Hash:       hash,
		ParentHash: parentHash,
		IsFork:     isFork,
		Value:      value,
		Owner:      caller,
		Group:      group,
		Credited:   make(map[entities.Address]uint64),
		Withdrawn:  make(map[entities.Address]uint64),
		CreatedAt:  s.clock.Now().Unix(),
	}

	s.commits[hash] = commit
	if parent != nil {
		s.children[parentHash] = append(s.children[parentHash], hash)
	}

	touched := []*entities.Commit{commit}
	if isFork && parent != nil {
		touched = append(touched, s.creditLocked(parentHash, parent.Value)...)
	}
	s.persist(ctx, touched...)

	return commit.Clone(), nil
}

// GetCommit returns a snapshot of the commit with the given hash.
func (s *CommitService) GetCommit(ctx context.Context, hash string) (*entities.Commit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.commits[hash]
	if !ok {
		return nil, fmt.Errorf("commit %s: %w", hash, errcodes.ErrNoRecordFound)
	}
	return c.Clone(), nil
}

// Children returns the hashes of a commit's direct descendants.
func (s *CommitService) Children(ctx context.Context, hash string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.children[hash]...)
}

// InGroup reports whether user is in the commit's group.
func (s *CommitService) InGroup(ctx context.Context, hash string, user entities.Address) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.commits[hash]
	if !ok {
		return false, fmt.Errorf("commit %s: %w", hash, errcodes.ErrNoRecordFound)
	}
	return c.InGroup(user), nil
}

// AddGroupMember adds a member to the commit's group with an equal share.
// Owner only.
func (s *CommitService) AddGroupMember(ctx context.Context, caller entities.Address, hash string, member entities.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.commits[hash]
	if !ok {
		return fmt.Errorf("commit %s: %w", hash, errcodes.ErrNoRecordFound)
	}
	if c.Owner != caller {
		return fmt.Errorf("add member to %s: %w", hash, errcodes.ErrNotOwner)
	}
	if c.InGroup(member) {
		return fmt.Errorf("member %s: %w", member, errcodes.ErrAlreadyMember)
	}

	c.Group = append(c.Group, entities.GroupShare{Member: member, Weight: 1})
	s.persist(ctx, c)
	return nil
}

// CreditReward credits amount to a commit and propagates it up the ancestry
// chain. Applied to completion under the graph lock; a failed precondition
// leaves nothing mutated.
func (s *CommitService) CreditReward(ctx context.Context, hash string, amount uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.commits[hash]; !ok {
		return fmt.Errorf("commit %s: %w", hash, errcodes.ErrNoRecordFound)
	}
	s.persist(ctx, s.creditLocked(hash, amount)...)
	return nil
}

// creditLocked walks the ancestry iteratively so arbitrarily deep chains
// cannot exhaust the stack. At every hop the child keeps
// value/(value+parentValue) of the arriving amount and the remainder moves to
// the parent; a genesis-parented commit keeps everything. The child's kept
// portion is split across its group by weight, remainder to the first member,
// so no unit is ever lost. Returns every commit it touched.
func (s *CommitService) creditLocked(hash string, amount uint64) []*entities.Commit {
	var touched []*entities.Commit

	cur, amt := hash, amount
	for amt > 0 && cur != entities.Genesis {
		c := s.commits[cur]
		c.Balance += amt

		var parentValue uint64
		if c.ParentHash != entities.Genesis {
			parentValue = s.commits[c.ParentHash].Value
		}

		parentShare := amt * parentValue / (parentValue + c.Value)
		self := amt - parentShare

		if self > 0 {
			total := c.GroupWeight()
			var given uint64
			for _, g := range c.Group {
				share := self * g.Weight / total
				c.Credited[g.Member] += share
				given += share
			}
			// rounding remainder goes to the first member
			if given < self {
				c.Credited[c.Group[0].Member] += self - given
			}
		}

		touched = append(touched, c)
		cur, amt = c.ParentHash, parentShare
	}
	return touched
}

// CreditContributors credits submission-level contributor shares directly on
// the winning commit. Contributors are paid flat amounts, not group weights,
// so nothing propagates up the ancestry.
func (s *CommitService) CreditContributors(ctx context.Context, hash string, shares map[entities.Address]uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.commits[hash]
	if !ok {
		return fmt.Errorf("commit %s: %w", hash, errcodes.ErrNoRecordFound)
	}
	for member, amount := range shares {
		c.Credited[member] += amount
		c.Balance += amount
	}
	s.persist(ctx, c)
	return nil
}

// AvailableReward returns what user can still withdraw from a commit.
func (s *CommitService) AvailableReward(ctx context.Context, hash string, user entities.Address) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.commits[hash]
	if !ok {
		return 0, fmt.Errorf("commit %s: %w", hash, errcodes.ErrNoRecordFound)
	}
	return c.Available(user), nil
}

// WithdrawAvailableReward pays the caller's available reward for a commit out
// of escrow. The withdrawn ledger is the idempotency marker: a replayed
// withdrawal finds nothing available and fails, it never pays twice.
func (s *CommitService) WithdrawAvailableReward(ctx context.Context, caller entities.Address, hash string) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.commits[hash]
	if !ok {
		return 0, fmt.Errorf("commit %s: %w", hash, errcodes.ErrNoRecordFound)
	}

	amount := c.Available(caller)
	if amount == 0 {
		return 0, fmt.Errorf("commit %s user %s: %w", hash, caller, errcodes.ErrNothingToWithdraw)
	}

	if err := s.treasury.Transfer(RewardEscrow, caller, amount); err != nil {
		return 0, fmt.Errorf("withdraw reward: %w", err)
	}
	c.Withdrawn[caller] += amount

	s.persist(ctx, c)
	return amount, nil
}

// persist snapshots the given commits. Persistence is write-through and
// best-effort: the in-memory graph is authoritative and a later save of the
// same commit heals a missed one.
func (s *CommitService) persist(ctx context.Context, commits ...*entities.Commit) {
	for _, c := range commits {
		if err := s.store.SaveCommit(ctx, c); err != nil {
			log.Printf("Failed to save commit %s: %v", c.Hash, err)
		}
	}
}
