package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetCountryQuota(t *testing.T) {
	s, _ := newTestService(t, true)
	id := mustCreate(t, s, admin, validParams("Visa2025"))
	us := []byte{85, 83}

	t.Run("creator sets and overwrites", func(t *testing.T) {
		require.NoError(t, s.SetCountryQuota(as(admin, 2), id, us, 200))
		require.NoError(t, s.SetCountryQuota(as(admin, 3), id, us, 150))

		q, ok, err := s.GetCountryQuota(id, us)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, int64(150), q)
	})

	t.Run("other callers are rejected", func(t *testing.T) {
		err := s.SetCountryQuota(as(outsider, 4), id, us, 999)
		assert.ErrorIs(t, err, ErrFailed)

		q, _, err := s.GetCountryQuota(id, us)
		require.NoError(t, err)
		assert.Equal(t, int64(150), q)
	})

	t.Run("non-positive quota and unknown lottery are rejected", func(t *testing.T) {
		fr := []byte("FR")
		assert.ErrorIs(t, s.SetCountryQuota(as(admin, 5), id, fr, 0), ErrFailed)
		assert.ErrorIs(t, s.SetCountryQuota(as(admin, 5), id, fr, -1), ErrFailed)
		assert.ErrorIs(t, s.SetCountryQuota(as(admin, 5), 42, fr, 10), ErrFailed)

		_, ok, err := s.GetCountryQuota(id, fr)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("quota does not touch the lottery record", func(t *testing.T) {
		before := mustGet(t, s, id)
		require.NoError(t, s.SetCountryQuota(as(admin, 6), id, []byte("MX"), 5))
		assert.Equal(t, before, mustGet(t, s, id))
	})
}
