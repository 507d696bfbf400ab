package oracle

import (
	"encoding/binary"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeebo/blake3"
)

func TestBeacon_Deterministic(t *testing.T) {
	genesis := strings.Repeat("ab", 32)
	a, err := NewBeaconFromHex(genesis)
	require.NoError(t, err)
	b, err := NewBeaconFromHex(genesis)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		sa, err := a.GetRandomSeed()
		require.NoError(t, err)
		sb, err := b.GetRandomSeed()
		require.NoError(t, err)
		assert.Equal(t, sa, sb)
	}
	assert.Equal(t, uint64(5), a.Round())
}

func TestBeacon_FirstSeed(t *testing.T) {
	var g [32]byte
	b := NewBeacon(g)

	var buf [40]byte
	want := blake3.Sum256(buf[:])

	seed, err := b.GetRandomSeed()
	require.NoError(t, err)
	assert.Equal(t, binary.BigEndian.Uint64(want[:8]), seed)

	next, err := b.GetRandomSeed()
	require.NoError(t, err)
	assert.NotEqual(t, seed, next)
}

func TestNewBeaconFromHex_Invalid(t *testing.T) {
	_, err := NewBeaconFromHex("zz")
	assert.Error(t, err)

	_, err = NewBeaconFromHex("abcd")
	assert.Error(t, err)

	b, err := NewBeaconFromHex("")
	require.NoError(t, err)
	_, err = b.GetRandomSeed()
	assert.NoError(t, err)
}
