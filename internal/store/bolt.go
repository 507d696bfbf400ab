package store

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"
	bolt "go.etcd.io/bbolt"

	"drawregistry/internal/models"
)

var (
	bucketRegistry  = []byte("registry")
	bucketLotteries = []byte("lotteries")
	bucketWinners   = []byte("lotteryWinners")
	bucketUpdates   = []byte("lotteryUpdates")
	bucketNames     = []byte("lotteriesByName")
	bucketQuotas    = []byte("countryQuotas")

	registryKey = []byte("state")
	heightKey   = []byte("height")
)

// BoltStore persists the registry in a bbolt file, one bucket per table.
// Values are CBOR encoded.
type BoltStore struct {
	db *bolt.DB
}

// OpenBolt opens (or creates) the database at path and ensures all buckets exist.
func OpenBolt(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening bolt db %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketRegistry, bucketLotteries, bucketWinners, bucketUpdates, bucketNames, bucketQuotas} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("creating bucket %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Init(r models.Registry) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketRegistry)
		if b.Get(registryKey) != nil {
			return nil
		}
		return putCBOR(b, registryKey, r)
	})
}

func (s *BoltStore) View(fn func(Tx) error) error {
	return s.db.View(func(tx *bolt.Tx) error {
		return fn(&boltTx{tx: tx})
	})
}

func (s *BoltStore) Update(fn func(Tx) error) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return fn(&boltTx{tx: tx})
	})
}

func (s *BoltStore) LedgerHeight() (uint64, error) {
	var h uint64
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketRegistry).Get(heightKey); v != nil {
			h = binary.BigEndian.Uint64(v)
		}
		return nil
	})
	return h, err
}

func (s *BoltStore) SaveLedgerHeight(h uint64) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketRegistry).Put(heightKey, itob(h))
	})
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

type boltTx struct {
	tx *bolt.Tx
}

func itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

func quotaKeyBytes(id uint64, country []byte) []byte {
	return append(itob(id), country...)
}

func putCBOR(b *bolt.Bucket, key []byte, v any) error {
	buf, err := cbor.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	return b.Put(key, buf)
}

func getCBOR(b *bolt.Bucket, key []byte, v any) error {
	buf := b.Get(key)
	if buf == nil {
		return ErrNotFound
	}
	if err := cbor.Unmarshal(buf, v); err != nil {
		return fmt.Errorf("decoding %s: %w", key, err)
	}
	return nil
}

func (t *boltTx) Registry() (models.Registry, error) {
	var r models.Registry
	err := getCBOR(t.tx.Bucket(bucketRegistry), registryKey, &r)
	if err == ErrNotFound {
		return r, ErrNotInitialized
	}
	return r, err
}

func (t *boltTx) PutRegistry(r models.Registry) error {
	return putCBOR(t.tx.Bucket(bucketRegistry), registryKey, r)
}

func (t *boltTx) Lottery(id uint64) (models.Lottery, error) {
	var l models.Lottery
	err := getCBOR(t.tx.Bucket(bucketLotteries), itob(id), &l)
	return l, err
}

func (t *boltTx) PutLottery(id uint64, l models.Lottery) error {
	return putCBOR(t.tx.Bucket(bucketLotteries), itob(id), l)
}

func (t *boltTx) Winners(id uint64) ([]models.Principal, error) {
	var w []models.Principal
	err := getCBOR(t.tx.Bucket(bucketWinners), itob(id), &w)
	return w, err
}

func (t *boltTx) PutWinners(id uint64, winners []models.Principal) error {
	return putCBOR(t.tx.Bucket(bucketWinners), itob(id), winners)
}

func (t *boltTx) DeleteWinners(id uint64) error {
	return t.tx.Bucket(bucketWinners).Delete(itob(id))
}

func (t *boltTx) LotteryUpdate(id uint64) (models.LotteryUpdate, error) {
	var u models.LotteryUpdate
	err := getCBOR(t.tx.Bucket(bucketUpdates), itob(id), &u)
	return u, err
}

func (t *boltTx) PutLotteryUpdate(id uint64, u models.LotteryUpdate) error {
	return putCBOR(t.tx.Bucket(bucketUpdates), itob(id), u)
}

func (t *boltTx) LotteryIDByName(name string) (uint64, error) {
	v := t.tx.Bucket(bucketNames).Get([]byte(name))
	if v == nil {
		return 0, ErrNotFound
	}
	return binary.BigEndian.Uint64(v), nil
}

func (t *boltTx) PutName(name string, id uint64) error {
	return t.tx.Bucket(bucketNames).Put([]byte(name), itob(id))
}

func (t *boltTx) DeleteName(name string) error {
	return t.tx.Bucket(bucketNames).Delete([]byte(name))
}

func (t *boltTx) CountryQuota(id uint64, country []byte) (int64, error) {
	var q int64
	err := getCBOR(t.tx.Bucket(bucketQuotas), quotaKeyBytes(id, country), &q)
	return q, err
}

func (t *boltTx) PutCountryQuota(id uint64, country []byte, quota int64) error {
	return putCBOR(t.tx.Bucket(bucketQuotas), quotaKeyBytes(id, country), quota)
}
