// Package oracle supplies draw seeds from a blake3 hash chain.
package oracle

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/zeebo/blake3"
)

// Beacon is a hash-chain randomness source. Given the same genesis it yields
// the same sequence of seeds, so draws can be audited after the fact.
type Beacon struct {
	mu      sync.Mutex
	state   [32]byte
	counter uint64
}

// NewBeacon creates a beacon from a 32-byte genesis value.
func NewBeacon(genesis [32]byte) *Beacon {
	return &Beacon{state: genesis}
}

// NewBeaconFromHex creates a beacon from a hex genesis. An empty string draws
// the genesis from crypto/rand.
func NewBeaconFromHex(genesis string) (*Beacon, error) {
	var g [32]byte
	if genesis == "" {
		if _, err := rand.Read(g[:]); err != nil {
			return nil, fmt.Errorf("generating beacon genesis: %w", err)
		}
		return NewBeacon(g), nil
	}
	raw, err := hex.DecodeString(genesis)
	if err != nil {
		return nil, fmt.Errorf("decoding beacon genesis: %w", err)
	}
	if len(raw) != len(g) {
		return nil, fmt.Errorf("beacon genesis must be %d bytes, got %d", len(g), len(raw))
	}
	copy(g[:], raw)
	return NewBeacon(g), nil
}

// GetRandomSeed advances the chain and returns the next seed.
func (b *Beacon) GetRandomSeed() (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var buf [40]byte
	copy(buf[:32], b.state[:])
	binary.BigEndian.PutUint64(buf[32:], b.counter)
	b.state = blake3.Sum256(buf[:])
	b.counter++
	return binary.BigEndian.Uint64(b.state[:8]), nil
}

// Round returns how many seeds have been produced.
func (b *Beacon) Round() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.counter
}
