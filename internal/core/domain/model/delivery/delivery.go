// Package delivery provides the Delivery aggregate: the courier-leg record
// created atomically with an order's transition to platform delivery.
//
// A Delivery is 1:1 with an Order once the order's delivery method becomes
// platform delivery. It is created once, mutated by driver-side acceptance
// and completion actions, and never deleted.
package delivery

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// ErrDeliveryIsNotConstructed is returned when using an improperly initialized Delivery.
var ErrDeliveryIsNotConstructed = errors.New(
	"Delivery must be created via NewDelivery or RestoreDelivery constructors")

// Delivery represents the platform-arranged courier leg for one order.
type Delivery struct {
	// id uniquely identifies the delivery
	id kernel.UUID
	// orderID references the order this courier leg belongs to
	orderID kernel.UUID
	// sellerID and pickup identify where the driver collects the order
	sellerID kernel.UUID
	pickup   kernel.GeoPoint
	// driverID is the assigned driver (nil until a driver accepts)
	driverID *kernel.UUID
	// dropoff is the buyer's position
	dropoff kernel.GeoPoint
	// fee is the amount owed for the courier leg
	fee kernel.Money
	// depositID references the mobile-money deposit collecting the fee
	depositID *kernel.UUID
	// status represents the current state of the courier leg
	status Status
	// guard ensures the delivery was properly constructed
	guard guard.ConstructorGuard
}

// NewDelivery creates a Pending delivery record for an order's courier leg.
//
// Parameters:
//   - id: Unique identifier for the delivery (must be valid UUID)
//   - orderID: The order being delivered (must be valid UUID)
//   - sellerID: The seller handing over the order (must be valid UUID)
//   - pickup: The seller's position at assignment time
//   - dropoff: The buyer's position
//   - fee: Amount owed for the courier leg (must be positive)
//   - driverID: The driver selected at assignment, may be nil for open offers
//
// Returns:
//   - *Delivery: The created delivery if all validations pass
//   - error: Validation error if any parameter is invalid
func NewDelivery(
	id kernel.UUID,
	orderID kernel.UUID,
	sellerID kernel.UUID,
	pickup kernel.GeoPoint,
	dropoff kernel.GeoPoint,
	fee kernel.Money,
	driverID *kernel.UUID,
) (*Delivery, error) {
	d := &Delivery{
		status: Pending,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		d.setID(id),
		d.setOrderID(orderID),
		d.setSellerID(sellerID),
		d.setPickup(pickup),
		d.setDropoff(dropoff),
		d.setFee(fee),
		d.setDriverID(driverID),
	); err != nil {
		return nil, err
	}

	return d, nil
}

// RestoreDelivery reconstructs a Delivery aggregate from persistent storage.
func RestoreDelivery(
	id kernel.UUID,
	orderID kernel.UUID,
	sellerID kernel.UUID,
	pickup kernel.GeoPoint,
	dropoff kernel.GeoPoint,
	fee kernel.Money,
	driverID *kernel.UUID,
	depositID *kernel.UUID,
	status Status,
) (*Delivery, error) {
	d, err := NewDelivery(id, orderID, sellerID, pickup, dropoff, fee, driverID)
	if err != nil {
		return nil, err
	}

	if err := status.Validate(); err != nil {
		return nil, err
	}

	d.status = status
	d.depositID = depositID
	return d, nil
}

// Validate ensures the Delivery instance was properly constructed.
func (d *Delivery) Validate() error {
	if d == nil {
		return ErrDeliveryIsNotConstructed
	}
	return d.guard.Validate(ErrDeliveryIsNotConstructed)
}

// ID returns the delivery's unique identifier.
func (d *Delivery) ID() kernel.UUID {
	return d.id
}

// OrderID returns the order this courier leg belongs to.
func (d *Delivery) OrderID() kernel.UUID {
	return d.orderID
}

// SellerID returns the seller handing over the order.
func (d *Delivery) SellerID() kernel.UUID {
	return d.sellerID
}

// Pickup returns the seller's position at assignment time.
func (d *Delivery) Pickup() kernel.GeoPoint {
	return d.pickup
}

// Dropoff returns the buyer's position.
func (d *Delivery) Dropoff() kernel.GeoPoint {
	return d.dropoff
}

// Fee returns the amount owed for the courier leg.
func (d *Delivery) Fee() kernel.Money {
	return d.fee
}

// Driver returns the assigned driver's ID, or nil.
func (d *Delivery) Driver() *kernel.UUID {
	return d.driverID
}

// Deposit returns the deposit collecting the courier fee, or nil.
func (d *Delivery) Deposit() *kernel.UUID {
	return d.depositID
}

// Status returns the current state of the courier leg.
func (d *Delivery) Status() Status {
	return d.status
}

// AttachDeposit records the mobile-money deposit collecting the courier fee.
func (d *Delivery) AttachDeposit(depositID kernel.UUID) error {
	if err := depositID.Validate(); err != nil {
		return err
	}
	d.depositID = &depositID
	return nil
}

// Accept records driver acceptance and moves the leg to InTransit.
func (d *Delivery) Accept() error {
	newStatus, err := d.status.Accept()
	if err != nil {
		return err
	}
	d.status = newStatus
	return nil
}

// Complete marks the courier leg as Delivered.
func (d *Delivery) Complete() error {
	newStatus, err := d.status.Complete()
	if err != nil {
		return err
	}
	d.status = newStatus
	return nil
}

// setID validates and sets the delivery's unique identifier.
// This is a private method used only during construction.
func (d *Delivery) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	d.id = id
	return nil
}

// setOrderID validates and sets the order reference.
// This is a private method used only during construction.
func (d *Delivery) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	d.orderID = orderID
	return nil
}

// setSellerID validates and sets the seller reference.
// This is a private method used only during construction.
func (d *Delivery) setSellerID(sellerID kernel.UUID) error {
	if err := sellerID.Validate(); err != nil {
		return err
	}
	d.sellerID = sellerID
	return nil
}

// setPickup validates and sets the pickup position.
// This is a private method used only during construction.
func (d *Delivery) setPickup(pickup kernel.GeoPoint) error {
	if err := pickup.Validate(); err != nil {
		return err
	}
	d.pickup = pickup
	return nil
}

// setDropoff validates and sets the drop-off position.
// This is a private method used only during construction.
func (d *Delivery) setDropoff(dropoff kernel.GeoPoint) error {
	if err := dropoff.Validate(); err != nil {
		return err
	}
	d.dropoff = dropoff
	return nil
}

// setFee validates and sets the courier-leg fee.
// This is a private method used only during construction.
func (d *Delivery) setFee(fee kernel.Money) error {
	if err := fee.Validate(); err != nil {
		return err
	}
	if fee.IsZero() {
		return errs.NewValueIsInvalidErrorWithCause("fee",
			errors.New("fee must be greater than zero"))
	}
	d.fee = fee
	return nil
}

// setDriverID validates and sets the optional driver reference.
// This is a private method used only during construction.
func (d *Delivery) setDriverID(driverID *kernel.UUID) error {
	if driverID == nil {
		return nil
	}
	if err := driverID.Validate(); err != nil {
		return err
	}
	d.driverID = driverID
	return nil
}
