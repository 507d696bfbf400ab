package services

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/google/logger"

	"drawregistry/internal/metrics"
	"drawregistry/internal/models"
	"drawregistry/internal/store"
)

const (
	maxTextLength = 100

	// DefaultMaxWinners applies when the registry carries no winner limit.
	DefaultMaxWinners = 10_000
)

// LotteryService owns the lottery registry. Every exported mutation runs as a
// single store transaction, so a rejected or failed call changes nothing.
type LotteryService struct {
	store    store.Store
	transfer ValueTransfer
	metrics  *metrics.Metrics
}

// Option configures a LotteryService.
type Option func(*LotteryService)

// WithMetrics attaches Prometheus instruments.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *LotteryService) { s.metrics = m }
}

// NewLotteryService creates a LotteryService on top of an initialized store.
func NewLotteryService(st store.Store, transfer ValueTransfer, opts ...Option) (*LotteryService, error) {
	if st == nil {
		return nil, errors.New("store is required")
	}
	if transfer == nil {
		return nil, errors.New("value transfer is required")
	}
	s := &LotteryService{store: st, transfer: transfer}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// reject logs why an operation was refused and returns the generic failure.
func reject(op string, id uint64, reason string) error {
	logger.Infof("%s rejected for lottery %d: %s", op, id, reason)
	return ErrFailed
}

// loadLottery fetches a lottery, mapping an unknown id to the generic failure.
func loadLottery(tx store.Tx, op string, id uint64) (models.Lottery, error) {
	l, err := tx.Lottery(id)
	if errors.Is(err, store.ErrNotFound) {
		return l, reject(op, id, "unknown lottery")
	}
	if err != nil {
		return l, fmt.Errorf("loading lottery %d: %w", id, err)
	}
	return l, nil
}

func validText(s string) bool {
	return s != "" && utf8.RuneCountInString(s) <= maxTextLength
}

// GetRegistry returns a snapshot of the registry scalars.
func (s *LotteryService) GetRegistry() (models.Registry, error) {
	var r models.Registry
	err := s.store.View(func(tx store.Tx) error {
		var err error
		r, err = tx.Registry()
		return err
	})
	return r, err
}
