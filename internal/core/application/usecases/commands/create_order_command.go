package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
	ErrItemsAreRequired = errors.New("at least one item is required")
)

// CreateOrderCommand represents a request to register a new customer order.
// Encapsulates customer contact details, the drop-off point and the ordered items.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(
//	    kernel.NewUUID(), sellerID,
//	    "Mireille K.", "+243811234567", "12 Av. Kasavubu, Gombe",
//	    dropoff, total, items,
//	)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	handler := NewCreateOrderCommandHandler(uowFactory, publisher)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to create order: %w", err)
//	}
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID       kernel.UUID
	sellerID      kernel.UUID
	customerName  string
	customerPhone string
	address       string
	dropoff       kernel.GeoPoint
	total         kernel.Money
	items         []order.Item

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to register a new customer order.
// Validates identifiers, the drop-off point, the total and the item list.
// Returns an error if any validation fails.
func NewCreateOrderCommand(
	orderID kernel.UUID,
	sellerID kernel.UUID,
	customerName string,
	customerPhone string,
	address string,
	dropoff kernel.GeoPoint,
	total kernel.Money,
	items []order.Item,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		customerName:  customerName,
		customerPhone: customerPhone,
		address:       address,
		guard:         guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setSellerID(sellerID),
		cmd.setDropoff(dropoff),
		cmd.setTotal(total),
		cmd.setItems(items),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateOrderCommandIsNotConstructed if validation fails.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the unique identifier for the order.
func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// SellerID returns the seller the order belongs to.
func (c CreateOrderCommand) SellerID() kernel.UUID {
	return c.sellerID
}

// CustomerName returns the customer's display name.
func (c CreateOrderCommand) CustomerName() string {
	return c.customerName
}

// CustomerPhone returns the customer's contact phone number.
func (c CreateOrderCommand) CustomerPhone() string {
	return c.customerPhone
}

// Address returns the delivery destination street address.
func (c CreateOrderCommand) Address() string {
	return c.address
}

// Dropoff returns the delivery destination coordinates.
func (c CreateOrderCommand) Dropoff() kernel.GeoPoint {
	return c.dropoff
}

// Total returns the order total.
func (c CreateOrderCommand) Total() kernel.Money {
	return c.total
}

// Items returns the ordered items.
func (c CreateOrderCommand) Items() []order.Item {
	return c.items
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setSellerID(sellerID kernel.UUID) error {
	if err := sellerID.Validate(); err != nil {
		return err
	}

	c.sellerID = sellerID
	return nil
}

func (c *CreateOrderCommand) setDropoff(dropoff kernel.GeoPoint) error {
	if err := dropoff.Validate(); err != nil {
		return err
	}

	c.dropoff = dropoff
	return nil
}

func (c *CreateOrderCommand) setTotal(total kernel.Money) error {
	if err := total.Validate(); err != nil {
		return err
	}

	c.total = total
	return nil
}

func (c *CreateOrderCommand) setItems(items []order.Item) error {
	if len(items) == 0 {
		return ErrItemsAreRequired
	}

	c.items = items
	return nil
}
