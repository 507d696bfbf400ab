package ledger

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"drawregistry/internal/models"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrNoRecipient       = errors.New("transfer recipient is empty")
)

// Transfer is one journaled movement of funds.
type Transfer struct {
	Amount uint64           `json:"amount"`
	From   models.Principal `json:"from"`
	To     models.Principal `json:"to"`
}

// Bank keeps account balances and a journal of transfers.
type Bank struct {
	mu        sync.RWMutex
	balances  map[models.Principal]uint64
	transfers []Transfer
}

// NewBank creates a bank with the given opening balances.
func NewBank(opening map[models.Principal]uint64) *Bank {
	b := &Bank{balances: make(map[models.Principal]uint64)}
	for acct, amount := range opening {
		b.balances[acct] = amount
	}
	return b
}

// Transfer moves amount from one account to another.
func (b *Bank) Transfer(amount uint64, from, to models.Principal) error {
	if to == "" {
		return ErrNoRecipient
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.balances[from] < amount {
		return fmt.Errorf("%w: %s holds %d, needs %d", ErrInsufficientFunds, from, b.balances[from], amount)
	}
	b.balances[from] -= amount
	b.balances[to] += amount
	b.transfers = append(b.transfers, Transfer{Amount: amount, From: from, To: to})
	return nil
}

// Mint credits amount to an account.
func (b *Bank) Mint(acct models.Principal, amount uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.balances[acct] += amount
}

// Balance returns the balance of an account.
func (b *Bank) Balance(acct models.Principal) uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.balances[acct]
}

// Transfers returns the transfer journal, oldest first.
func (b *Bank) Transfers() []Transfer {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.transfers)
}
