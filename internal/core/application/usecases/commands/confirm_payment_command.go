package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrConfirmPaymentCommandIsNotConstructed = errors.New(
	"ConfirmPaymentCommand must be created via NewConfirmPaymentCommand constructor",
)

// ConfirmPaymentCommand represents a resolved courier-fee deposit that should
// advance its order to payment_ok. Issued by the payment reconciler, never
// directly by a client.
type ConfirmPaymentCommand struct { //nolint:recvcheck //using for validation
	depositID kernel.UUID

	guard guard.ConstructorGuard
}

// NewConfirmPaymentCommand creates a command to confirm an order's courier-fee payment.
func NewConfirmPaymentCommand(depositID kernel.UUID) (ConfirmPaymentCommand, error) {
	cmd := ConfirmPaymentCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setDepositID(depositID); err != nil {
		return ConfirmPaymentCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ConfirmPaymentCommand) Validate() error {
	return c.guard.Validate(ErrConfirmPaymentCommandIsNotConstructed)
}

// DepositID returns the deposit that was confirmed.
func (c ConfirmPaymentCommand) DepositID() kernel.UUID {
	return c.depositID
}

func (c *ConfirmPaymentCommand) setDepositID(depositID kernel.UUID) error {
	if err := depositID.Validate(); err != nil {
		return err
	}

	c.depositID = depositID
	return nil
}
