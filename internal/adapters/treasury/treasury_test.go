package treasury

import (
	"testing"

	"github.com/just-nibble/bounty-service/internal/core/domain/entities"
	"github.com/just-nibble/bounty-service/pkg/errcodes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryTreasury(t *testing.T) {
	bank := NewInMemory()
	a := entities.Address("a")
	b := entities.Address("b")

	assert.Equal(t, uint64(0), bank.BalanceOf(a))

	bank.Mint(a, 10)
	assert.Equal(t, uint64(10), bank.BalanceOf(a))

	require.NoError(t, bank.Transfer(a, b, 4))
	assert.Equal(t, uint64(6), bank.BalanceOf(a))
	assert.Equal(t, uint64(4), bank.BalanceOf(b))

	// overdrafts fail and change nothing
	err := bank.Transfer(a, b, 7)
	assert.ErrorIs(t, err, errcodes.ErrInsufficientFunds)
	assert.Equal(t, uint64(6), bank.BalanceOf(a))
	assert.Equal(t, uint64(4), bank.BalanceOf(b))

	require.NoError(t, bank.Transfer(a, b, 0))
}
