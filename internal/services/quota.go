package services

import (
	"drawregistry/internal/models"
	"drawregistry/internal/store"
)

// SetCountryQuota records the creator's quota for a country. The last write
// wins.
func (s *LotteryService) SetCountryQuota(tx models.TxContext, id uint64, country []byte, quota int64) error {
	const op = "quota"
	return s.store.Update(func(st store.Tx) error {
		l, err := loadLottery(st, op, id)
		if err != nil {
			return err
		}
		if l.Creator != tx.Caller {
			return reject(op, id, "caller is not creator")
		}
		if quota <= 0 {
			return reject(op, id, "quota must be positive")
		}
		return st.PutCountryQuota(id, country, quota)
	})
}

// GetCountryQuota returns the quota recorded for a country, if any.
func (s *LotteryService) GetCountryQuota(id uint64, country []byte) (q int64, ok bool, err error) {
	err = s.store.View(func(st store.Tx) error {
		var err error
		q, err = st.CountryQuota(id, country)
		return err
	})
	return lookupResult(q, err)
}
