package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drawregistry/internal/ledger"
	"drawregistry/internal/models"
)

func TestBindAuthority(t *testing.T) {
	t.Run("binds once", func(t *testing.T) {
		s, _ := newTestService(t, false)
		require.NoError(t, s.BindAuthority(as(admin, 1), authority))

		for _, acct := range []models.Principal{authority, "ST4TEST", models.BurnAccount} {
			err := s.BindAuthority(as(outsider, 2), acct)
			assert.ErrorIs(t, err, ErrAlreadyBound)
		}

		r, err := s.GetRegistry()
		require.NoError(t, err)
		assert.Equal(t, authority, r.AuthorityAccount)
	})

	t.Run("rejects the burn account", func(t *testing.T) {
		s, _ := newTestService(t, false)
		err := s.BindAuthority(as(admin, 1), models.BurnAccount)
		assert.ErrorIs(t, err, ErrInvalidAccount)

		err = s.BindAuthority(as(admin, 1), "")
		assert.ErrorIs(t, err, ErrInvalidAccount)

		r, err := s.GetRegistry()
		require.NoError(t, err)
		assert.Empty(t, r.AuthorityAccount)
	})
}

func TestSetActivationFee(t *testing.T) {
	t.Run("requires a bound authority", func(t *testing.T) {
		s, _ := newTestService(t, false)
		err := s.SetActivationFee(as(admin, 1), 10)
		assert.ErrorIs(t, err, ErrAuthorityNotBound)

		r, err := s.GetRegistry()
		require.NoError(t, err)
		assert.Equal(t, uint64(500), r.ActivationFee)
	})

	t.Run("any caller may change the fee", func(t *testing.T) {
		s, bank := newTestService(t, true)
		require.NoError(t, s.SetActivationFee(as(outsider, 1), 75))

		mustCreate(t, s, admin, validParams("Visa2025"))
		assert.Equal(t, []ledger.Transfer{{Amount: 75, From: admin, To: authority}}, bank.Transfers())
	})
}
