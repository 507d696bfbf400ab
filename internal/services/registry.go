package services

import (
	"errors"
	"fmt"

	"github.com/google/logger"

	"drawregistry/internal/models"
	"drawregistry/internal/store"
)

// CreateLotteryParams are the caller-supplied fields of a new lottery.
type CreateLotteryParams struct {
	Name        string             `json:"name"`
	Slots       int64              `json:"slots"`
	MinSlots    int64              `json:"minSlots"`
	MaxSlots    int64              `json:"maxSlots"`
	QuotaRate   uint32             `json:"quotaRate"`
	LotteryType models.LotteryType `json:"lotteryType"`
	GracePeriod uint32             `json:"gracePeriod"`
	Region      string             `json:"region"`
	Currency    models.Currency    `json:"currency"`
}

// validate checks the fields in the order callers rely on; the first failure
// wins.
func (p CreateLotteryParams) validate() error {
	switch {
	case !validText(p.Name):
		return ErrInvalidName
	case p.Slots <= 0:
		return ErrInvalidSlots
	case p.MinSlots <= 0:
		return ErrInvalidMinSlots
	case p.MaxSlots <= 0:
		return ErrInvalidMaxSlots
	case p.QuotaRate > 100:
		return ErrInvalidQuotaRate
	case !p.LotteryType.Valid():
		return ErrInvalidLotteryType
	case p.GracePeriod > 30:
		return ErrInvalidGracePeriod
	case !validText(p.Region):
		return ErrInvalidRegion
	case !p.Currency.Valid():
		return ErrInvalidCurrency
	}
	return nil
}

// CreateLottery registers a new lottery owned by the caller and charges the
// activation fee to the bound authority account. It returns the new id.
func (s *LotteryService) CreateLottery(tx models.TxContext, p CreateLotteryParams) (uint64, error) {
	var (
		id          uint64
		fee         uint64
		authority   models.Principal
		transferred bool
	)
	err := s.store.Update(func(st store.Tx) error {
		r, err := st.Registry()
		if err != nil {
			return err
		}
		if r.NextLotteryID >= r.MaxLotteries {
			return ErrCapacityExceeded
		}
		if err := p.validate(); err != nil {
			return err
		}
		if _, err := st.LotteryIDByName(p.Name); err == nil {
			return ErrAlreadyActive
		} else if !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("looking up lottery name: %w", err)
		}
		if r.AuthorityAccount == "" {
			return ErrAuthorityNotVerified
		}

		fee, authority = r.ActivationFee, r.AuthorityAccount
		if err := s.transfer.Transfer(fee, tx.Caller, authority); err != nil {
			logger.Infof("activation fee transfer of %d from %s failed: %v", fee, tx.Caller, err)
			return ErrTransferFailed
		}
		transferred = true

		id = r.NextLotteryID
		lottery := models.Lottery{
			Name:        p.Name,
			Slots:       p.Slots,
			MinSlots:    p.MinSlots,
			MaxSlots:    p.MaxSlots,
			QuotaRate:   p.QuotaRate,
			Timestamp:   tx.Height,
			Creator:     tx.Caller,
			LotteryType: p.LotteryType,
			GracePeriod: p.GracePeriod,
			Region:      p.Region,
			Currency:    p.Currency,
			Status:      true,
		}
		if err := st.PutLottery(id, lottery); err != nil {
			return err
		}
		if err := st.PutName(p.Name, id); err != nil {
			return err
		}
		r.NextLotteryID++
		return st.PutRegistry(r)
	})
	if err != nil {
		if transferred {
			s.refund(fee, authority, tx.Caller)
		}
		return 0, err
	}
	logger.Infof("lottery %d %q created by %s", id, p.Name, tx.Caller)
	s.metrics.ObserveCreation(id+1, fee)
	return id, nil
}

// refund reverses a fee transfer whose lottery could not be persisted.
func (s *LotteryService) refund(fee uint64, from, to models.Principal) {
	if err := s.transfer.Transfer(fee, from, to); err != nil {
		logger.Errorf("refunding activation fee %d from %s to %s: %v", fee, from, to, err)
	}
}

// GetLottery returns the lottery with the given id. ok is false if none exists.
func (s *LotteryService) GetLottery(id uint64) (l models.Lottery, ok bool, err error) {
	err = s.store.View(func(st store.Tx) error {
		var err error
		l, err = st.Lottery(id)
		return err
	})
	return lookupResult(l, err)
}

// GetLotteryCount returns the number of lotteries ever created. Deactivated
// lotteries still count.
func (s *LotteryService) GetLotteryCount() (uint64, error) {
	r, err := s.GetRegistry()
	return r.NextLotteryID, err
}

// CheckExistence reports whether some lottery currently carries name.
func (s *LotteryService) CheckExistence(name string) (bool, error) {
	_, ok, err := lookupResult(uint64(0), s.store.View(func(st store.Tx) error {
		_, err := st.LotteryIDByName(name)
		return err
	}))
	return ok, err
}

// GetLotteryWinners returns the winners of the current draw, if any.
func (s *LotteryService) GetLotteryWinners(id uint64) (w []models.Principal, ok bool, err error) {
	err = s.store.View(func(st store.Tx) error {
		var err error
		w, err = st.Winners(id)
		return err
	})
	return lookupResult(w, err)
}

// GetLotteryUpdate returns the latest update audit record for a lottery.
func (s *LotteryService) GetLotteryUpdate(id uint64) (u models.LotteryUpdate, ok bool, err error) {
	err = s.store.View(func(st store.Tx) error {
		var err error
		u, err = st.LotteryUpdate(id)
		return err
	})
	return lookupResult(u, err)
}

func lookupResult[T any](v T, err error) (T, bool, error) {
	if errors.Is(err, store.ErrNotFound) {
		var zero T
		return zero, false, nil
	}
	if err != nil {
		var zero T
		return zero, false, err
	}
	return v, true, nil
}
