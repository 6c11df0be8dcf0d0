package payment

import (
	"context"
	"strings"
)

// acceptProcessor accepts immediately. Prepayment, cash on delivery and
// invoice payments are settled outside the shop.
type acceptProcessor struct{}

func (acceptProcessor) Process(_ context.Context, pc Context) (Result, error) {
	return Result{Success: true, NextURL: pc.ThankYouURL}, nil
}

// directDebitProcessor requires a captured bank account.
type directDebitProcessor struct{}

func (directDebitProcessor) Process(_ context.Context, pc Context) (Result, error) {
	if pc.BankAccount == nil || strings.TrimSpace(pc.BankAccount.AccountNumber) == "" {
		return Result{
			Message:    "Please enter your bank account details.",
			MessageKey: "bank-account_number",
		}, nil
	}
	return Result{Success: true, NextURL: pc.ThankYouURL}, nil
}

// declineNumber is the designated test card that always fails authorization.
const declineNumber = "4000000000000002"

// creditCardProcessor simulates an authorization against the submitted card.
type creditCardProcessor struct{}

func (creditCardProcessor) Process(_ context.Context, pc Context) (Result, error) {
	if pc.Card == nil || strings.TrimSpace(pc.Card.Number) == "" {
		return Result{
			Message:    "Please enter your credit card details.",
			MessageKey: "card-number",
		}, nil
	}
	if strings.ReplaceAll(pc.Card.Number, " ", "") == declineNumber {
		return Result{
			Message:    "The credit card was declined.",
			MessageKey: "card-number",
		}, nil
	}
	return Result{Success: true, NextURL: pc.ThankYouURL}, nil
}

// paypalProcessor succeeds and hands back the pay link; whether the shopper
// is redirected there or to the thank-you page is shop policy.
type paypalProcessor struct{}

func (paypalProcessor) Process(_ context.Context, pc Context) (Result, error) {
	return Result{Success: true, NextURL: pc.PayLink}, nil
}
