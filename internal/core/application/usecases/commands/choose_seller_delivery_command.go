package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrChooseSellerDeliveryCommandIsNotConstructed = errors.New(
	"ChooseSellerDeliveryCommand must be created via NewChooseSellerDeliveryCommand constructor",
)

// ChooseSellerDeliveryCommand represents a seller's decision to deliver an
// order themselves instead of requesting a driver.
type ChooseSellerDeliveryCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewChooseSellerDeliveryCommand creates a command to put an order on the
// seller-delivery path.
func NewChooseSellerDeliveryCommand(orderID kernel.UUID) (ChooseSellerDeliveryCommand, error) {
	cmd := ChooseSellerDeliveryCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setOrderID(orderID); err != nil {
		return ChooseSellerDeliveryCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ChooseSellerDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrChooseSellerDeliveryCommandIsNotConstructed)
}

// OrderID returns the order being put on the seller-delivery path.
func (c ChooseSellerDeliveryCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c *ChooseSellerDeliveryCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}
