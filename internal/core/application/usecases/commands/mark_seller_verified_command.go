package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrMarkSellerVerifiedCommandIsNotConstructed = errors.New(
	"MarkSellerVerifiedCommand must be created via NewMarkSellerVerifiedCommand constructor",
)

// MarkSellerVerifiedCommand represents a resolved verification-subscription
// deposit that should grant the seller thirty days of verified status.
// Issued by the payment reconciler, never directly by a client.
type MarkSellerVerifiedCommand struct { //nolint:recvcheck //using for validation
	sellerID kernel.UUID

	guard guard.ConstructorGuard
}

// NewMarkSellerVerifiedCommand creates a command to grant verified status.
func NewMarkSellerVerifiedCommand(sellerID kernel.UUID) (MarkSellerVerifiedCommand, error) {
	cmd := MarkSellerVerifiedCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setSellerID(sellerID); err != nil {
		return MarkSellerVerifiedCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c MarkSellerVerifiedCommand) Validate() error {
	return c.guard.Validate(ErrMarkSellerVerifiedCommandIsNotConstructed)
}

// SellerID returns the subscribing seller.
func (c MarkSellerVerifiedCommand) SellerID() kernel.UUID {
	return c.sellerID
}

func (c *MarkSellerVerifiedCommand) setSellerID(sellerID kernel.UUID) error {
	if err := sellerID.Validate(); err != nil {
		return err
	}

	c.sellerID = sellerID
	return nil
}
