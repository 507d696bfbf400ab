package services

import (
	"errors"
	"fmt"
)

// Code is the numeric failure code returned to ledger callers.
type Code uint32

const (
	CodeFailed               Code = 100
	CodeInvalidSlots         Code = 102
	CodeAlreadyActive        Code = 106
	CodeAuthorityNotVerified Code = 109
	CodeInvalidMinSlots      Code = 110
	CodeInvalidMaxSlots      Code = 111
	CodeInvalidName          Code = 113
	CodeCapacityExceeded     Code = 114
	CodeInvalidLotteryType   Code = 115
	CodeInvalidQuotaRate     Code = 116
	CodeInvalidGracePeriod   Code = 117
	CodeInvalidRegion        Code = 118
	CodeInvalidCurrency      Code = 119
	CodeAlreadyBound         Code = 120
	CodeInvalidAccount       Code = 121
	CodeAuthorityNotBound    Code = 122
	CodeTransferFailed       Code = 123
)

// Error is a coded operation failure.
type Error struct {
	Code Code
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (code %d)", e.Msg, e.Code)
}

var (
	// ErrFailed is the undistinguished failure of update, draw, quota and
	// lifecycle operations. Callers cannot tell "not found" from "wrong caller"
	// from "wrong state".
	ErrFailed = &Error{CodeFailed, "operation failed"}

	ErrCapacityExceeded     = &Error{CodeCapacityExceeded, "maximum number of lotteries reached"}
	ErrInvalidName          = &Error{CodeInvalidName, "invalid lottery name"}
	ErrInvalidSlots         = &Error{CodeInvalidSlots, "invalid slots"}
	ErrInvalidMinSlots      = &Error{CodeInvalidMinSlots, "invalid minimum slots"}
	ErrInvalidMaxSlots      = &Error{CodeInvalidMaxSlots, "invalid maximum slots"}
	ErrInvalidQuotaRate     = &Error{CodeInvalidQuotaRate, "invalid quota rate"}
	ErrInvalidLotteryType   = &Error{CodeInvalidLotteryType, "invalid lottery type"}
	ErrInvalidGracePeriod   = &Error{CodeInvalidGracePeriod, "invalid grace period"}
	ErrInvalidRegion        = &Error{CodeInvalidRegion, "invalid region"}
	ErrInvalidCurrency      = &Error{CodeInvalidCurrency, "invalid currency"}
	ErrAlreadyActive        = &Error{CodeAlreadyActive, "lottery name already in use"}
	ErrAuthorityNotVerified = &Error{CodeAuthorityNotVerified, "authority account not verified"}
	ErrTransferFailed       = &Error{CodeTransferFailed, "activation fee transfer failed"}

	ErrAlreadyBound      = &Error{CodeAlreadyBound, "authority account already bound"}
	ErrInvalidAccount    = &Error{CodeInvalidAccount, "invalid authority account"}
	ErrAuthorityNotBound = &Error{CodeAuthorityNotBound, "authority account not bound"}
)

// CodeOf returns the failure code carried by err, if any. Storage errors carry
// no code.
func CodeOf(err error) (Code, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Code, true
	}
	return 0, false
}
