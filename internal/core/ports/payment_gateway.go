package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/payment"
)

// DepositStatus is the provider's current view of one deposit. Amount is the
// amount the provider reports having collected, when it reports one; callers
// must verify it against the expected amount before treating a SUCCESS as paid.
type DepositStatus struct {
	Status payment.AttemptStatus
	Amount *kernel.Money
}

// PaymentGateway defines the contract with the mobile-money deposit provider.
type PaymentGateway interface {
	// InitiateDeposit asks the provider to charge the payer's mobile-money
	// account. The depositID is client-generated so the call is idempotent at
	// the provider. A transport or provider error here means the deposit never
	// started and the caller must not begin reconciliation.
	InitiateDeposit(
		ctx context.Context,
		depositID kernel.UUID,
		amount kernel.Money,
		payerPhone string,
		statementDescription string,
	) error

	// CheckPayment returns the provider's current view of the deposit.
	// PENDING means keep polling; SUCCESS, FAILURE and TIMEOUT are terminal.
	CheckPayment(ctx context.Context, depositID kernel.UUID) (DepositStatus, error)
}
