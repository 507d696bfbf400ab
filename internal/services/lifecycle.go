package services

import (
	"github.com/google/logger"

	"drawregistry/internal/models"
	"drawregistry/internal/store"
)

// DeactivateLottery marks a lottery inactive. There is no way back.
func (s *LotteryService) DeactivateLottery(tx models.TxContext, id uint64) error {
	const op = "deactivate"
	return s.store.Update(func(st store.Tx) error {
		l, err := loadLottery(st, op, id)
		if err != nil {
			return err
		}
		if l.Creator != tx.Caller {
			return reject(op, id, "caller is not creator")
		}
		l.Status = false
		if err := st.PutLottery(id, l); err != nil {
			return err
		}
		logger.Infof("lottery %d deactivated by %s", id, tx.Caller)
		return nil
	})
}
