// Package store persists the lottery registry state. Every operation runs
// inside a single Update call so that a failed operation leaves no trace.
package store

import (
	"errors"

	"drawregistry/internal/models"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrNotInitialized = errors.New("registry not initialized")
	ErrReadOnly       = errors.New("read-only transaction")
)

// Tx is the persisted-state surface available to one operation.
type Tx interface {
	Registry() (models.Registry, error)
	PutRegistry(r models.Registry) error

	Lottery(id uint64) (models.Lottery, error)
	PutLottery(id uint64, l models.Lottery) error

	Winners(id uint64) ([]models.Principal, error)
	PutWinners(id uint64, winners []models.Principal) error
	DeleteWinners(id uint64) error

	LotteryUpdate(id uint64) (models.LotteryUpdate, error)
	PutLotteryUpdate(id uint64, u models.LotteryUpdate) error

	LotteryIDByName(name string) (uint64, error)
	PutName(name string, id uint64) error
	DeleteName(name string) error

	CountryQuota(id uint64, country []byte) (int64, error)
	PutCountryQuota(id uint64, country []byte, quota int64) error
}

// Store runs transactions against the registry state.
type Store interface {
	// Init seeds the registry scalars. It is a no-op if they already exist.
	Init(r models.Registry) error
	View(fn func(Tx) error) error
	// Update commits everything fn wrote, or nothing if fn returns an error.
	Update(fn func(Tx) error) error

	// LedgerHeight returns the last saved ledger height, 0 for a fresh store.
	LedgerHeight() (uint64, error)
	SaveLedgerHeight(h uint64) error

	Close() error
}
