// Package ledger provides the local, totally ordered transaction log the
// lottery registry runs on.
package ledger

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/logger"
	"github.com/google/uuid"

	"drawregistry/internal/metrics"
	"drawregistry/internal/models"
)

// Receipt is the outcome of one executed transaction.
type Receipt struct {
	ID       uuid.UUID        `json:"id"`
	Height   uint64           `json:"height"`
	Caller   models.Principal `json:"caller"`
	Op       string           `json:"op"`
	OK       bool             `json:"ok"`
	Code     uint32           `json:"code,omitempty"`
	Executed time.Time        `json:"executed"`
}

// HeightStore persists the chain height so a restarted node keeps counting
// from where it stopped.
type HeightStore interface {
	LedgerHeight() (uint64, error)
	SaveLedgerHeight(h uint64) error
}

// CodeFunc extracts a failure code from an operation error.
type CodeFunc func(error) (uint32, bool)

// Chain executes operations one at a time. Each submitted transaction gets the
// next height, whether or not it succeeds.
type Chain struct {
	mu          sync.Mutex
	height      uint64
	receipts    []Receipt
	maxReceipts int
	code        CodeFunc
	metrics     *metrics.Metrics
	heights     HeightStore
}

// NewChain creates a chain that keeps at most maxReceipts receipts (0 keeps all).
func NewChain(maxReceipts int, code CodeFunc, m *metrics.Metrics) *Chain {
	return &Chain{maxReceipts: maxReceipts, code: code, metrics: m}
}

// ResumeChain creates a chain that continues from the height saved in hs.
// Every new height is saved before its transaction runs.
func ResumeChain(hs HeightStore, maxReceipts int, code CodeFunc, m *metrics.Metrics) (*Chain, error) {
	h, err := hs.LedgerHeight()
	if err != nil {
		return nil, fmt.Errorf("loading ledger height: %w", err)
	}
	c := NewChain(maxReceipts, code, m)
	c.height, c.heights = h, hs
	return c, nil
}

// Execute runs fn as the next transaction on the chain.
func (c *Chain) Execute(caller models.Principal, op string, fn func(models.TxContext) error) (Receipt, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.heights != nil {
		if err := c.heights.SaveLedgerHeight(c.height + 1); err != nil {
			logger.Errorf("%s by %s not executed: saving height %d: %v", op, caller, c.height+1, err)
			return Receipt{}, fmt.Errorf("saving ledger height: %w", err)
		}
	}
	c.height++
	err := fn(models.TxContext{Caller: caller, Height: c.height})

	rc := Receipt{
		ID:       uuid.New(),
		Height:   c.height,
		Caller:   caller,
		Op:       op,
		OK:       err == nil,
		Executed: time.Now(),
	}
	outcome := "ok"
	if err != nil {
		outcome = "rejected"
		if c.code != nil {
			if code, ok := c.code(err); ok {
				rc.Code = code
			} else {
				outcome = "error"
			}
		}
	}
	c.receipts = append(c.receipts, rc)
	c.metrics.ObserveOperation(op, outcome, c.height)
	if outcome == "error" {
		logger.Errorf("tx %s %s by %s at height %d: %v", rc.ID, op, caller, rc.Height, err)
	}
	return rc, err
}

// Height returns the height of the last executed transaction.
func (c *Chain) Height() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.height
}

// Receipts returns a copy of the retained receipts, oldest first.
func (c *Chain) Receipts() []Receipt {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.receipts)
}

// PruneReceipts drops the oldest receipts beyond the retention limit and
// reports how many were removed.
func (c *Chain) PruneReceipts() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.maxReceipts <= 0 || len(c.receipts) <= c.maxReceipts {
		return 0
	}
	n := len(c.receipts) - c.maxReceipts
	c.receipts = slices.Clone(c.receipts[n:])
	return n
}
