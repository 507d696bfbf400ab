package services

import (
	"fmt"
	"math/bits"

	"github.com/google/logger"

	"drawregistry/internal/models"
	"drawregistry/internal/store"
)

// WinnerIdentity derives the ledger identity of the applicant at index.
func WinnerIdentity(index uint64) models.Principal {
	return models.Principal(fmt.Sprintf("ST%dWINNER", index))
}

// drawIndex returns (seed + i) mod total without overflowing.
func drawIndex(seed, i, total uint64) uint64 {
	hi, lo := bits.Add64(seed, i, 0)
	if hi >= total {
		hi %= total
	}
	_, rem := bits.Div64(hi, lo, total)
	return rem
}

// SelectWinners computes the winner sequence for a draw. Index i maps to
// (seed+i) mod total, so when slots exceeds total the same applicant appears
// more than once.
func SelectWinners(seed, total uint64, slots int64) []models.Principal {
	if slots <= 0 || total == 0 {
		return nil
	}
	winners := make([]models.Principal, 0, slots)
	for i := uint64(0); i < uint64(slots); i++ {
		winners = append(winners, WinnerIdentity(drawIndex(seed, i, total)))
	}
	return winners
}

func winnerLimit(r models.Registry) uint64 {
	if r.MaxWinners == 0 {
		return DefaultMaxWinners
	}
	return r.MaxWinners
}

// PerformDraw selects and stores the winners of an active, undrawn lottery.
// Only the admin may draw.
func (s *LotteryService) PerformDraw(tx models.TxContext, id uint64, oracle RandomOracle, applicants ApplicantRegistry) ([]models.Principal, error) {
	const op = "draw"
	var winners []models.Principal
	err := s.store.Update(func(st store.Tx) error {
		l, err := loadLottery(st, op, id)
		if err != nil {
			return err
		}
		r, err := st.Registry()
		if err != nil {
			return err
		}
		if tx.Caller != r.Admin {
			return reject(op, id, "caller is not admin")
		}
		if l.DrawPerformed {
			return reject(op, id, "draw already performed")
		}
		if !l.Status {
			return reject(op, id, "lottery is inactive")
		}
		if limit := winnerLimit(r); uint64(l.Slots) > limit {
			return reject(op, id, fmt.Sprintf("slots %d exceed winner limit %d", l.Slots, limit))
		}
		seed, err := oracle.GetRandomSeed()
		if err != nil {
			return reject(op, id, fmt.Sprintf("oracle: %v", err))
		}
		total, err := applicants.GetTotalApplicants()
		if err != nil {
			return reject(op, id, fmt.Sprintf("applicant registry: %v", err))
		}
		if total == 0 {
			return reject(op, id, "no applicants")
		}

		winners = SelectWinners(seed, total, l.Slots)
		if err := st.PutWinners(id, winners); err != nil {
			return err
		}
		l.DrawPerformed = true
		return st.PutLottery(id, l)
	})
	if err != nil {
		return nil, err
	}
	logger.Infof("draw for lottery %d selected %d winners at height %d", id, len(winners), tx.Height)
	s.metrics.ObserveDraw(len(winners))
	return winners, nil
}

// ResetLottery clears a performed draw so it can be run again. It does not
// look at the active flag.
func (s *LotteryService) ResetLottery(tx models.TxContext, id uint64) error {
	const op = "reset"
	return s.store.Update(func(st store.Tx) error {
		l, err := loadLottery(st, op, id)
		if err != nil {
			return err
		}
		r, err := st.Registry()
		if err != nil {
			return err
		}
		if tx.Caller != r.Admin {
			return reject(op, id, "caller is not admin")
		}
		if !l.DrawPerformed {
			return reject(op, id, "no draw to reset")
		}
		l.DrawPerformed = false
		if err := st.DeleteWinners(id); err != nil {
			return err
		}
		if err := st.PutLottery(id, l); err != nil {
			return err
		}
		logger.Infof("draw for lottery %d reset by %s", id, tx.Caller)
		return nil
	})
}
