package store

import (
	"slices"
	"sync"

	"drawregistry/internal/models"
)

type quotaKey struct {
	id      uint64
	country string
}

// MemoryStore keeps the registry in maps. Writes made by a transaction are
// staged and only applied once the transaction function succeeds.
type MemoryStore struct {
	mu        sync.RWMutex
	registry  *models.Registry
	height    uint64
	lotteries map[uint64]models.Lottery
	winners   map[uint64][]models.Principal
	updates   map[uint64]models.LotteryUpdate
	names     map[string]uint64
	quotas    map[quotaKey]int64
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		lotteries: make(map[uint64]models.Lottery),
		winners:   make(map[uint64][]models.Principal),
		updates:   make(map[uint64]models.LotteryUpdate),
		names:     make(map[string]uint64),
		quotas:    make(map[quotaKey]int64),
	}
}

func (s *MemoryStore) Init(r models.Registry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.registry == nil {
		s.registry = &r
	}
	return nil
}

func (s *MemoryStore) View(fn func(Tx) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.begin(true))
}

func (s *MemoryStore) Update(fn func(Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx := s.begin(false)
	if err := fn(tx); err != nil {
		return err
	}
	tx.commit(s)
	return nil
}

func (s *MemoryStore) LedgerHeight() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.height, nil
}

func (s *MemoryStore) SaveLedgerHeight(h uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.height = h
	return nil
}

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) begin(readOnly bool) *memTx {
	return &memTx{
		readOnly:  readOnly,
		registry:  s.registry,
		lotteries: newOverlay(s.lotteries),
		winners:   newOverlay(s.winners),
		updates:   newOverlay(s.updates),
		names:     newOverlay(s.names),
		quotas:    newOverlay(s.quotas),
	}
}

// overlay stages writes on top of a base map. A nil entry in dirty marks a
// deletion.
type overlay[K comparable, V any] struct {
	base  map[K]V
	dirty map[K]*V
}

func newOverlay[K comparable, V any](base map[K]V) *overlay[K, V] {
	return &overlay[K, V]{base: base, dirty: make(map[K]*V)}
}

func (o *overlay[K, V]) get(k K) (V, bool) {
	if v, ok := o.dirty[k]; ok {
		if v == nil {
			var zero V
			return zero, false
		}
		return *v, true
	}
	v, ok := o.base[k]
	return v, ok
}

func (o *overlay[K, V]) put(k K, v V) { o.dirty[k] = &v }

func (o *overlay[K, V]) del(k K) { o.dirty[k] = nil }

func (o *overlay[K, V]) apply() {
	for k, v := range o.dirty {
		if v == nil {
			delete(o.base, k)
			continue
		}
		o.base[k] = *v
	}
}

type memTx struct {
	readOnly      bool
	registry      *models.Registry
	registryDirty bool
	lotteries     *overlay[uint64, models.Lottery]
	winners       *overlay[uint64, []models.Principal]
	updates       *overlay[uint64, models.LotteryUpdate]
	names         *overlay[string, uint64]
	quotas        *overlay[quotaKey, int64]
}

func (t *memTx) commit(s *MemoryStore) {
	if t.registryDirty {
		s.registry = t.registry
	}
	t.lotteries.apply()
	t.winners.apply()
	t.updates.apply()
	t.names.apply()
	t.quotas.apply()
}

func (t *memTx) Registry() (models.Registry, error) {
	if t.registry == nil {
		return models.Registry{}, ErrNotInitialized
	}
	return *t.registry, nil
}

func (t *memTx) PutRegistry(r models.Registry) error {
	if t.readOnly {
		return ErrReadOnly
	}
	t.registry = &r
	t.registryDirty = true
	return nil
}

func (t *memTx) Lottery(id uint64) (models.Lottery, error) {
	l, ok := t.lotteries.get(id)
	if !ok {
		return models.Lottery{}, ErrNotFound
	}
	return l, nil
}

func (t *memTx) PutLottery(id uint64, l models.Lottery) error {
	if t.readOnly {
		return ErrReadOnly
	}
	t.lotteries.put(id, l)
	return nil
}

func (t *memTx) Winners(id uint64) ([]models.Principal, error) {
	w, ok := t.winners.get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return slices.Clone(w), nil
}

func (t *memTx) PutWinners(id uint64, winners []models.Principal) error {
	if t.readOnly {
		return ErrReadOnly
	}
	t.winners.put(id, slices.Clone(winners))
	return nil
}

func (t *memTx) DeleteWinners(id uint64) error {
	if t.readOnly {
		return ErrReadOnly
	}
	t.winners.del(id)
	return nil
}

func (t *memTx) LotteryUpdate(id uint64) (models.LotteryUpdate, error) {
	u, ok := t.updates.get(id)
	if !ok {
		return models.LotteryUpdate{}, ErrNotFound
	}
	return u, nil
}

func (t *memTx) PutLotteryUpdate(id uint64, u models.LotteryUpdate) error {
	if t.readOnly {
		return ErrReadOnly
	}
	t.updates.put(id, u)
	return nil
}

func (t *memTx) LotteryIDByName(name string) (uint64, error) {
	id, ok := t.names.get(name)
	if !ok {
		return 0, ErrNotFound
	}
	return id, nil
}

func (t *memTx) PutName(name string, id uint64) error {
	if t.readOnly {
		return ErrReadOnly
	}
	t.names.put(name, id)
	return nil
}

func (t *memTx) DeleteName(name string) error {
	if t.readOnly {
		return ErrReadOnly
	}
	t.names.del(name)
	return nil
}

func (t *memTx) CountryQuota(id uint64, country []byte) (int64, error) {
	q, ok := t.quotas.get(quotaKey{id, string(country)})
	if !ok {
		return 0, ErrNotFound
	}
	return q, nil
}

func (t *memTx) PutCountryQuota(id uint64, country []byte, quota int64) error {
	if t.readOnly {
		return ErrReadOnly
	}
	t.quotas.put(quotaKey{id, string(country)}, quota)
	return nil
}
