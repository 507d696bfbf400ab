package services

import (
	"errors"
	"fmt"

	"github.com/google/logger"

	"drawregistry/internal/models"
	"drawregistry/internal/store"
)

// UpdateLottery renames and resizes a lottery before its draw. Only the
// creator may update, and the new name must not belong to another lottery.
func (s *LotteryService) UpdateLottery(tx models.TxContext, id uint64, name string, slots int64) error {
	const op = "update"
	return s.store.Update(func(st store.Tx) error {
		l, err := loadLottery(st, op, id)
		if err != nil {
			return err
		}
		if l.Creator != tx.Caller {
			return reject(op, id, "caller is not creator")
		}
		if l.DrawPerformed {
			return reject(op, id, "draw already performed")
		}
		if !validText(name) {
			return reject(op, id, "invalid name")
		}
		if slots <= 0 {
			return reject(op, id, "invalid slots")
		}
		owner, err := st.LotteryIDByName(name)
		switch {
		case err == nil && owner != id:
			return reject(op, id, fmt.Sprintf("name %q belongs to lottery %d", name, owner))
		case err != nil && !errors.Is(err, store.ErrNotFound):
			return fmt.Errorf("looking up lottery name: %w", err)
		}

		if err := st.DeleteName(l.Name); err != nil {
			return err
		}
		l.Name, l.Slots, l.Timestamp = name, slots, tx.Height
		if err := st.PutLottery(id, l); err != nil {
			return err
		}
		if err := st.PutName(name, id); err != nil {
			return err
		}
		err = st.PutLotteryUpdate(id, models.LotteryUpdate{
			UpdateName:      name,
			UpdateSlots:     slots,
			UpdateTimestamp: tx.Height,
			Updater:         tx.Caller,
		})
		if err != nil {
			return err
		}
		logger.Infof("lottery %d updated to %q with %d slots", id, name, slots)
		return nil
	})
}
