package services

import (
	"github.com/google/logger"

	"drawregistry/internal/models"
	"drawregistry/internal/store"
)

// BindAuthority sets the account that receives activation fees. It can only
// succeed once.
func (s *LotteryService) BindAuthority(tx models.TxContext, account models.Principal) error {
	return s.store.Update(func(st store.Tx) error {
		r, err := st.Registry()
		if err != nil {
			return err
		}
		if r.AuthorityAccount != "" {
			return ErrAlreadyBound
		}
		if account == "" || account == models.BurnAccount {
			return ErrInvalidAccount
		}
		r.AuthorityAccount = account
		if err := st.PutRegistry(r); err != nil {
			return err
		}
		logger.Infof("authority account bound to %s by %s at height %d", account, tx.Caller, tx.Height)
		return nil
	})
}

// SetActivationFee replaces the fee charged on creation. Any caller may change
// it once an authority is bound.
func (s *LotteryService) SetActivationFee(tx models.TxContext, fee uint64) error {
	return s.store.Update(func(st store.Tx) error {
		r, err := st.Registry()
		if err != nil {
			return err
		}
		if r.AuthorityAccount == "" {
			return ErrAuthorityNotBound
		}
		r.ActivationFee = fee
		if err := st.PutRegistry(r); err != nil {
			return err
		}
		logger.Infof("activation fee set to %d by %s", fee, tx.Caller)
		return nil
	})
}
