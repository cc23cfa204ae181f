package order

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// ErrItemIsNotConstructed is returned when an Item instance was not created
// through the NewItem factory method.
var ErrItemIsNotConstructed = errors.New("Item must be created via NewItem constructor")

// Item is a line item on an order: a product name, a positive quantity and a
// unit price. Item is an immutable value object.
type Item struct { //nolint:recvcheck //using for validation
	name      string
	quantity  int
	unitPrice kernel.Money
	guard     guard.ConstructorGuard
}

// NewItem creates a validated order line item.
//
// Parameters:
//   - name: Product name (must be non-empty)
//   - quantity: Number of units (must be positive)
//   - unitPrice: Price per unit
//
// Returns:
//   - Item: The created line item if all validations pass
//   - error: Validation error if any parameter is invalid
func NewItem(name string, quantity int, unitPrice kernel.Money) (Item, error) {
	item := Item{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		item.setName(name),
		item.setQuantity(quantity),
		item.setUnitPrice(unitPrice),
	); err != nil {
		return Item{}, err
	}

	return item, nil
}

// Validate ensures the Item instance was properly constructed through NewItem.
func (i Item) Validate() error {
	return i.guard.Validate(ErrItemIsNotConstructed)
}

// Name returns the product name.
func (i Item) Name() string {
	return i.name
}

// Quantity returns the number of units ordered.
func (i Item) Quantity() int {
	return i.quantity
}

// UnitPrice returns the price per unit.
func (i Item) UnitPrice() kernel.Money {
	return i.unitPrice
}

// setName validates and sets the product name.
// This is a private method used only during construction.
func (i *Item) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	i.name = name
	return nil
}

// setQuantity validates and sets the quantity.
// Quantity must be positive (greater than 0).
// This is a private method used only during construction.
func (i *Item) setQuantity(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is not greater than 0", quantity))
	}
	i.quantity = quantity
	return nil
}

// setUnitPrice validates and sets the unit price.
// This is a private method used only during construction.
func (i *Item) setUnitPrice(unitPrice kernel.Money) error {
	if err := unitPrice.Validate(); err != nil {
		return err
	}
	i.unitPrice = unitPrice
	return nil
}
