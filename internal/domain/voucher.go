package domain

import "time"

// Voucher kinds.
const (
	VoucherAbsolute   = "absolute"
	VoucherPercentage = "percentage"
)

// Voucher state messages. Absence of a voucher is a message, not an error.
const (
	MsgVoucherValid             = "The voucher is valid."
	MsgVoucherNotActive         = "The voucher is not active."
	MsgVoucherExpired           = "The voucher is expired."
	MsgVoucherNotActiveYet      = "The voucher is not active yet."
	MsgVoucherMinimumNotReached = "The voucher is not valid for this cart price."
	MsgVoucherAlreadyUsed       = "The voucher is already used."
	MsgVoucherNotFound          = "The voucher doesn't exist."
)

// Voucher grants a discount when its effectiveness predicate holds for a
// cart. Looked up by its unique number.
type Voucher struct {
	ID            string     `json:"id"`
	Number        string     `json:"number"`
	Kind          string     `json:"kind"`
	ValueCents    int64      `json:"valueCents,omitempty"`
	Percentage    float64    `json:"percentage,omitempty"`
	TaxRate       float64    `json:"taxRate"`
	MinCartCents  int64      `json:"minCartCents"`
	EffectiveFrom *time.Time `json:"effectiveFrom,omitempty"`
	EffectiveTo   *time.Time `json:"effectiveTo,omitempty"`
	MaxUses       int        `json:"maxUses"`
	Uses          int        `json:"uses"`
	Active        bool       `json:"active"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// IsEffective reports whether the voucher currently applies to a cart with
// the given total, along with the message describing its state.
func (v Voucher) IsEffective(now time.Time, cartCents int64) (bool, string) {
	if !v.Active {
		return false, MsgVoucherNotActive
	}
	if v.EffectiveFrom != nil && now.Before(*v.EffectiveFrom) {
		return false, MsgVoucherNotActiveYet
	}
	if v.EffectiveTo != nil && now.After(*v.EffectiveTo) {
		return false, MsgVoucherExpired
	}
	if v.MinCartCents > 0 && cartCents < v.MinCartCents {
		return false, MsgVoucherMinimumNotReached
	}
	if v.MaxUses > 0 && v.Uses >= v.MaxUses {
		return false, MsgVoucherAlreadyUsed
	}
	return true, MsgVoucherValid
}
