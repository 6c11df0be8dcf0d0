package payment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
)

func process(t *testing.T, kind string, pc Context) Result {
	t.Helper()
	res, err := NewRegistry().For(kind).Process(context.Background(), pc)
	require.NoError(t, err)
	return res
}

func TestAcceptKinds(t *testing.T) {
	pc := Context{ThankYouURL: "/checkout/thank-you"}
	for _, kind := range []string{domain.PaymentPrepayment, domain.PaymentCashOnDelivery, "unknown"} {
		res := process(t, kind, pc)
		assert.True(t, res.Success, kind)
		assert.Equal(t, "/checkout/thank-you", res.NextURL, kind)
	}
}

func TestDirectDebitNeedsBankAccount(t *testing.T) {
	res := process(t, domain.PaymentDirectDebit, Context{})
	assert.False(t, res.Success)
	assert.Equal(t, "bank-account_number", res.MessageKey)

	res = process(t, domain.PaymentDirectDebit, Context{
		BankAccount: &domain.BankAccount{AccountNumber: "12345678"},
		ThankYouURL: "/checkout/thank-you",
	})
	assert.True(t, res.Success)
}

func TestCreditCard(t *testing.T) {
	res := process(t, domain.PaymentCreditCard, Context{})
	assert.False(t, res.Success)
	assert.Equal(t, "card-number", res.MessageKey)

	// The designated decline number fails even with spacing.
	res = process(t, domain.PaymentCreditCard, Context{Card: &Card{Number: "4000 0000 0000 0002"}})
	assert.False(t, res.Success)
	assert.Equal(t, "The credit card was declined.", res.Message)

	res = process(t, domain.PaymentCreditCard, Context{Card: &Card{Number: "4111111111111111"}, ThankYouURL: "/t"})
	assert.True(t, res.Success)
}

func TestPayPalHandsBackPayLink(t *testing.T) {
	res := process(t, domain.PaymentPayPal, Context{PayLink: "/orders/ABC/pay"})
	assert.True(t, res.Success)
	assert.Equal(t, "/orders/ABC/pay", res.NextURL)
}
