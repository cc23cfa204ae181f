package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrAssignDriverCommandIsNotConstructed = errors.New(
	"AssignDriverCommand must be created via NewAssignDriverCommand constructor",
)

// AssignDriverCommand represents a seller's request to hand an order's
// courier leg to a specific driver picked from the candidate list.
type AssignDriverCommand struct { //nolint:recvcheck //using for validation
	orderID            kernel.UUID
	driverID           kernel.UUID
	fee                kernel.Money
	requiresPrepayment bool

	guard guard.ConstructorGuard
}

// NewAssignDriverCommand creates a command to assign a driver to an order.
// The fee is the courier-leg price quoted to the seller for this driver.
// requiresPrepayment is false when the courier fee was already collected, in
// which case the order skips straight past the awaiting-payment state.
func NewAssignDriverCommand(
	orderID, driverID kernel.UUID, fee kernel.Money, requiresPrepayment bool,
) (AssignDriverCommand, error) {
	cmd := AssignDriverCommand{
		requiresPrepayment: requiresPrepayment,
		guard:              guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setDriverID(driverID),
		cmd.setFee(fee),
	); err != nil {
		return AssignDriverCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c AssignDriverCommand) Validate() error {
	return c.guard.Validate(ErrAssignDriverCommandIsNotConstructed)
}

// OrderID returns the order whose courier leg is being assigned.
func (c AssignDriverCommand) OrderID() kernel.UUID {
	return c.orderID
}

// DriverID returns the driver picked by the seller.
func (c AssignDriverCommand) DriverID() kernel.UUID {
	return c.driverID
}

// Fee returns the courier-leg price for this assignment.
func (c AssignDriverCommand) Fee() kernel.Money {
	return c.fee
}

// RequiresPrepayment reports whether the courier fee still has to be collected.
func (c AssignDriverCommand) RequiresPrepayment() bool {
	return c.requiresPrepayment
}

func (c *AssignDriverCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *AssignDriverCommand) setDriverID(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	c.driverID = driverID
	return nil
}

func (c *AssignDriverCommand) setFee(fee kernel.Money) error {
	if err := fee.Validate(); err != nil {
		return err
	}

	c.fee = fee
	return nil
}
