package treasury

import (
	"fmt"
	"sync"

	"github.com/just-nibble/bounty-service/internal/core/domain/entities"
	"github.com/just-nibble/bounty-service/pkg/errcodes"
)

// Treasury moves funds between named balances. The core never mints or burns;
// it only shuffles what the environment funded.
type Treasury interface {
	Transfer(from, to entities.Address, amount uint64) error
	BalanceOf(account entities.Address) uint64
}

// InMemory is a process-local Treasury.
type InMemory struct {
	mu       sync.Mutex
	balances map[entities.Address]uint64
}

// NewInMemory creates an empty in-memory treasury.
func NewInMemory() *InMemory {
	return &InMemory{balances: make(map[entities.Address]uint64)}
}

// Mint credits an account out of thin air. Seeding and tests only.
func (t *InMemory) Mint(account entities.Address, amount uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.balances[account] += amount
}

// Transfer moves amount from one account to another atomically.
func (t *InMemory) Transfer(from, to entities.Address, amount uint64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.balances[from] < amount {
		return fmt.Errorf("transfer %d from %s: %w", amount, from, errcodes.ErrInsufficientFunds)
	}
	t.balances[from] -= amount
	t.balances[to] += amount
	return nil
}

// BalanceOf returns an account's current balance.
func (t *InMemory) BalanceOf(account entities.Address) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.balances[account]
}
