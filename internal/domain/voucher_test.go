package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestVoucherIsEffective(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	base := Voucher{
		Number: "SUMMER",
		Kind:   VoucherAbsolute,
		Active: true,
	}

	tests := []struct {
		name      string
		mutate    func(v *Voucher)
		cartCents int64
		want      bool
		message   string
	}{
		{
			name:    "valid",
			mutate:  func(v *Voucher) {},
			want:    true,
			message: MsgVoucherValid,
		},
		{
			name:    "inactive",
			mutate:  func(v *Voucher) { v.Active = false },
			message: MsgVoucherNotActive,
		},
		{
			name:    "not active yet",
			mutate:  func(v *Voucher) { v.EffectiveFrom = &future },
			message: MsgVoucherNotActiveYet,
		},
		{
			name:    "expired",
			mutate:  func(v *Voucher) { v.EffectiveTo = &past },
			message: MsgVoucherExpired,
		},
		{
			name:      "minimum not reached",
			mutate:    func(v *Voucher) { v.MinCartCents = 5000 },
			cartCents: 4999,
			message:   MsgVoucherMinimumNotReached,
		},
		{
			name:      "minimum exactly reached",
			mutate:    func(v *Voucher) { v.MinCartCents = 5000 },
			cartCents: 5000,
			want:      true,
			message:   MsgVoucherValid,
		},
		{
			name:    "exhausted",
			mutate:  func(v *Voucher) { v.MaxUses, v.Uses = 3, 3 },
			message: MsgVoucherAlreadyUsed,
		},
		{
			name:    "unlimited uses",
			mutate:  func(v *Voucher) { v.Uses = 1000 },
			want:    true,
			message: MsgVoucherValid,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := base
			tt.mutate(&v)
			got, msg := v.IsEffective(now, tt.cartCents)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.message, msg)
		})
	}
}
