package services

import (
	"errors"
	"testing"

	"drawregistry/internal/ledger"
	"drawregistry/internal/models"
	"drawregistry/internal/store"
)

const (
	admin     models.Principal = "ST1TEST"
	authority models.Principal = "ST2TEST"
	outsider  models.Principal = "ST3TEST"
)

type fixedOracle struct {
	seed uint64
	err  error
}

func (o fixedOracle) GetRandomSeed() (uint64, error) { return o.seed, o.err }

type fixedApplicants struct {
	total uint64
	err   error
}

func (a fixedApplicants) GetTotalApplicants() (uint64, error) { return a.total, a.err }

func (a fixedApplicants) GetApplicantsByCountry([]byte) ([]models.Principal, error) {
	return nil, nil
}

// failingStore makes PutName fail inside every Update, after earlier writes
// and external calls have already happened.
type failingStore struct {
	store.Store
}

type failingTx struct {
	store.Tx
}

var errDiskFull = errors.New("disk full")

func (s failingStore) Update(fn func(store.Tx) error) error {
	return s.Store.Update(func(tx store.Tx) error {
		return fn(failingTx{tx})
	})
}

func (failingTx) PutName(string, uint64) error { return errDiskFull }

func as(caller models.Principal, height uint64) models.TxContext {
	return models.TxContext{Caller: caller, Height: height}
}

func validParams(name string) CreateLotteryParams {
	return CreateLotteryParams{
		Name:        name,
		Slots:       1000,
		MinSlots:    500,
		MaxSlots:    2000,
		QuotaRate:   50,
		LotteryType: models.LotteryTypeVisa,
		GracePeriod: 7,
		Region:      "Global",
		Currency:    models.CurrencyNative,
	}
}

func newStore(t *testing.T, maxLotteries uint64) *store.MemoryStore {
	t.Helper()
	st := store.NewMemoryStore()
	err := st.Init(models.Registry{MaxLotteries: maxLotteries, ActivationFee: 500, Admin: admin})
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	return st
}

// newTestService returns a service whose admin holds enough funds for a few
// activation fees. If bind is set the authority is already bound.
func newTestService(t *testing.T, bind bool) (*LotteryService, *ledger.Bank) {
	t.Helper()
	bank := ledger.NewBank(map[models.Principal]uint64{admin: 10_000, outsider: 10_000})
	s, err := NewLotteryService(newStore(t, 100), bank)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	if bind {
		if err := s.BindAuthority(as(admin, 0), authority); err != nil {
			t.Fatalf("bind authority: %v", err)
		}
	}
	return s, bank
}

func mustCreate(t *testing.T, s *LotteryService, caller models.Principal, p CreateLotteryParams) uint64 {
	t.Helper()
	id, err := s.CreateLottery(as(caller, 1), p)
	if err != nil {
		t.Fatalf("create lottery %q: %v", p.Name, err)
	}
	return id
}

func mustGet(t *testing.T, s *LotteryService, id uint64) models.Lottery {
	t.Helper()
	l, ok, err := s.GetLottery(id)
	if err != nil || !ok {
		t.Fatalf("get lottery %d: ok=%v err=%v", id, ok, err)
	}
	return l
}
