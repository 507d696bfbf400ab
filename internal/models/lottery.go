package models

// Principal identifies an account on the ledger: a lottery creator, the admin,
// the authority that receives activation fees, or a drawn winner.
type Principal string

// BurnAccount is the reserved sentinel that can never be bound as authority.
const BurnAccount Principal = "SP000000000000000000002Q6VF78"

// LotteryType is the kind of allocation a lottery performs.
type LotteryType string

const (
	LotteryTypeVisa        LotteryType = "visa"
	LotteryTypeImmigration LotteryType = "immigration"
	LotteryTypeDiversity   LotteryType = "diversity"
)

// Valid reports whether t is one of the supported lottery types.
func (t LotteryType) Valid() bool {
	switch t {
	case LotteryTypeVisa, LotteryTypeImmigration, LotteryTypeDiversity:
		return true
	}
	return false
}

// Currency is the denomination a lottery is priced in.
type Currency string

const (
	CurrencyNative Currency = "STX" // native token
	CurrencyFiat   Currency = "USD" // fiat reference
	CurrencyCrypto Currency = "BTC" // crypto reference
)

// Valid reports whether c is one of the supported currencies.
func (c Currency) Valid() bool {
	switch c {
	case CurrencyNative, CurrencyFiat, CurrencyCrypto:
		return true
	}
	return false
}

// Lottery is a single allocation draw. Records are never deleted; Status and
// DrawPerformed carry the lifecycle instead.
type Lottery struct {
	Name        string      `json:"name" cbor:"1,keyasint"`
	Slots       int64       `json:"slots" cbor:"2,keyasint"`
	MinSlots    int64       `json:"minSlots" cbor:"3,keyasint"`
	MaxSlots    int64       `json:"maxSlots" cbor:"4,keyasint"`
	QuotaRate   uint32      `json:"quotaRate" cbor:"5,keyasint"`
	Timestamp   uint64      `json:"timestamp" cbor:"6,keyasint"` // ledger height at creation or last update
	Creator     Principal   `json:"creator" cbor:"7,keyasint"`
	LotteryType LotteryType `json:"lotteryType" cbor:"8,keyasint"`
	GracePeriod uint32      `json:"gracePeriod" cbor:"9,keyasint"`
	Region      string      `json:"region" cbor:"10,keyasint"`
	Currency    Currency    `json:"currency" cbor:"11,keyasint"`
	// Status is true while the lottery is active. It only ever goes true -> false.
	Status        bool `json:"status" cbor:"12,keyasint"`
	DrawPerformed bool `json:"drawPerformed" cbor:"13,keyasint"`
}

// LotteryUpdate is the latest-only audit record of a rename/resize.
type LotteryUpdate struct {
	UpdateName      string    `json:"updateName" cbor:"1,keyasint"`
	UpdateSlots     int64     `json:"updateSlots" cbor:"2,keyasint"`
	UpdateTimestamp uint64    `json:"updateTimestamp" cbor:"3,keyasint"`
	Updater         Principal `json:"updater" cbor:"4,keyasint"`
}

// Registry holds the scalar state shared by every lottery.
type Registry struct {
	NextLotteryID uint64 `json:"nextLotteryId" cbor:"1,keyasint"`
	MaxLotteries  uint64 `json:"maxLotteries" cbor:"2,keyasint"`
	ActivationFee uint64 `json:"activationFee" cbor:"3,keyasint"`
	// AuthorityAccount is empty until bound, then immutable.
	AuthorityAccount Principal `json:"authorityAccount" cbor:"4,keyasint"`
	Admin            Principal `json:"admin" cbor:"5,keyasint"`
	// MaxWinners caps the slots a single draw may fill. Zero means the
	// built-in default.
	MaxWinners uint64 `json:"maxWinners" cbor:"6,keyasint"`
}

// TxContext is what the ledger hands to every operation: who submitted it and
// at which height it executes.
type TxContext struct {
	Caller Principal
	Height uint64
}

// Applicant is an entry in the applicant registry.
type Applicant struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
}
