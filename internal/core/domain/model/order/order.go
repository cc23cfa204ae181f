package order

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// the NewOrder or RestoreOrder factory methods. This ensures all orders are properly validated.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructors")

	// ErrProofIsRequired is returned when attempting to complete a delivery without
	// both proof artifact references persisted.
	ErrProofIsRequired = errors.New("proof image and signature references are required to complete delivery")

	// ErrDepositRequiresPlatformDelivery is returned when attaching a deposit to an
	// order whose courier leg is not platform-delivered.
	ErrDepositRequiresPlatformDelivery = errors.New("deposit can only be attached to a platform delivery")
)

// Order represents a marketplace order in the fulfillment engine. It is the
// aggregate root that manages the order lifecycle from the delivery decision
// through driver assignment, payment confirmation and proof-of-delivery capture.
//
// Order follows these invariants:
//   - Must have valid unique identifiers for the order and the seller
//   - Must have a validated drop-off point and a positive total amount
//   - A driver may only be set while the delivery method is platform delivery
//   - A deposit may only be attached while the delivery method is platform delivery
//   - Proof references may only be set on a delivered order
//   - Status transitions follow the table defined on Status
//
// Orders are never deleted; they are only moved to a terminal status.
// Writes to the shared store must be conditioned on the status observed when
// the aggregate was read (see OrderRepository.UpdateConditional).
type Order struct {
	// id is the unique identifier for the order
	id kernel.UUID

	// sellerID identifies the seller fulfilling the order
	sellerID kernel.UUID

	// customerName and customerPhone identify the buyer for the courier leg
	customerName  string
	customerPhone string

	// address is the human-readable delivery address
	address string

	// dropoff is the delivery destination
	dropoff kernel.GeoPoint

	// total is the order amount in minor currency units
	total kernel.Money

	// items are the order line items
	items []Item

	// status represents the current state in the order lifecycle
	status Status

	// deliveryMethod records the seller's delivery decision
	deliveryMethod DeliveryMethod

	// driverID is the assigned driver's ID (nil while unassigned)
	driverID *kernel.UUID

	// depositID references the courier-leg deposit (nil until initiated)
	depositID *kernel.UUID

	// proofImageRef and proofSignatureRef reference the persisted completion evidence
	proofImageRef     *string
	proofSignatureRef *string

	createdAt   time.Time
	updatedAt   time.Time
	deliveredAt *time.Time

	// isConstructed ensures the order was created via a constructor
	isConstructed bool
}

// NewOrder creates a new Order in PendingDeliveryChoice status.
// This is the entry point used by the order-placement flow.
//
// Parameters:
//   - id: Unique identifier for the order (must be valid UUID)
//   - sellerID: Identifier of the fulfilling seller (must be valid UUID)
//   - customerName, customerPhone: Buyer contact details (must be non-empty)
//   - address: Human-readable delivery address (must be non-empty)
//   - dropoff: Delivery destination with validated coordinates
//   - total: Total order amount (must be positive)
//   - items: Order line items (must be non-empty, each validated)
//
// Returns:
//   - *Order: The created order if all validations pass
//   - error: Validation error if any parameter is invalid
func NewOrder(
	id kernel.UUID,
	sellerID kernel.UUID,
	customerName string,
	customerPhone string,
	address string,
	dropoff kernel.GeoPoint,
	total kernel.Money,
	items []Item,
) (*Order, error) {
	now := time.Now().UTC()
	order := &Order{
		status:         PendingDeliveryChoice,
		deliveryMethod: MethodUnset,
		createdAt:      now,
		updatedAt:      now,
		isConstructed:  true,
	}

	if err := errors.Join(
		order.setID(id),
		order.setSellerID(sellerID),
		order.setCustomer(customerName, customerPhone),
		order.setAddress(address),
		order.setDropoff(dropoff),
		order.setTotal(total),
		order.setItems(items),
	); err != nil {
		return nil, err
	}

	return order, nil
}

// RestoreOrder reconstructs an Order aggregate from persistent storage.
// Unlike NewOrder, it accepts the full persisted state and re-validates every
// cross-field invariant. Records that violate an invariant fail closed rather
// than being silently coerced, since arbitrary actors write to the shared store.
func RestoreOrder(
	id kernel.UUID,
	sellerID kernel.UUID,
	customerName string,
	customerPhone string,
	address string,
	dropoff kernel.GeoPoint,
	total kernel.Money,
	items []Item,
	status Status,
	deliveryMethod DeliveryMethod,
	driverID *kernel.UUID,
	depositID *kernel.UUID,
	proofImageRef *string,
	proofSignatureRef *string,
	createdAt time.Time,
	updatedAt time.Time,
	deliveredAt *time.Time,
) (*Order, error) {
	order := &Order{
		status:            status,
		deliveryMethod:    deliveryMethod,
		driverID:          driverID,
		depositID:         depositID,
		proofImageRef:     proofImageRef,
		proofSignatureRef: proofSignatureRef,
		createdAt:         createdAt,
		updatedAt:         updatedAt,
		deliveredAt:       deliveredAt,
		isConstructed:     true,
	}

	if err := errors.Join(
		order.setID(id),
		order.setSellerID(sellerID),
		order.setCustomer(customerName, customerPhone),
		order.setAddress(address),
		order.setDropoff(dropoff),
		order.setTotal(total),
		order.setItems(items),
		status.Validate(),
		deliveryMethod.Validate(),
	); err != nil {
		return nil, err
	}

	if err := order.validateInvariants(); err != nil {
		return nil, err
	}

	return order, nil
}

// Validate ensures the Order instance was properly constructed through a constructor.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}

	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// SellerID returns the identifier of the fulfilling seller.
func (o *Order) SellerID() kernel.UUID {
	return o.sellerID
}

// CustomerName returns the buyer's name.
func (o *Order) CustomerName() string {
	return o.customerName
}

// CustomerPhone returns the buyer's phone number.
func (o *Order) CustomerPhone() string {
	return o.customerPhone
}

// Address returns the human-readable delivery address.
func (o *Order) Address() string {
	return o.address
}

// Dropoff returns the delivery destination.
func (o *Order) Dropoff() kernel.GeoPoint {
	return o.dropoff
}

// Total returns the total order amount.
func (o *Order) Total() kernel.Money {
	return o.total
}

// Items returns a copy of the order line items.
func (o *Order) Items() []Item {
	items := make([]Item, len(o.items))
	copy(items, o.items)
	return items
}

// Status returns the current status of the order.
func (o *Order) Status() Status {
	return o.status
}

// DeliveryMethod returns the seller's delivery decision.
func (o *Order) DeliveryMethod() DeliveryMethod {
	return o.deliveryMethod
}

// Driver returns the assigned driver's ID, or nil if no driver is assigned.
func (o *Order) Driver() *kernel.UUID {
	return o.driverID
}

// Deposit returns the courier-leg deposit ID, or nil if no deposit was initiated.
func (o *Order) Deposit() *kernel.UUID {
	return o.depositID
}

// ProofImageRef returns the persisted proof image reference, or nil.
func (o *Order) ProofImageRef() *string {
	return o.proofImageRef
}

// ProofSignatureRef returns the persisted proof signature reference, or nil.
func (o *Order) ProofSignatureRef() *string {
	return o.proofSignatureRef
}

// CreatedAt returns the creation timestamp.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// UpdatedAt returns the last modification timestamp.
func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// DeliveredAt returns the delivery timestamp, or nil if not delivered.
func (o *Order) DeliveredAt() *time.Time {
	return o.deliveredAt
}

// ChooseSellerDelivery records the seller's decision to deliver the order
// themselves and transitions the order to SellerDelivering.
//
// Returns an error if the order is not awaiting a delivery decision.
func (o *Order) ChooseSellerDelivery() error {
	newStatus, err := o.status.TransitionTo(SellerDelivering)
	if err != nil {
		return err
	}

	o.status = newStatus
	o.deliveryMethod = MethodSellerDelivery
	o.touch()
	return nil
}

// AssignDriver assigns the courier leg to a platform driver and transitions
// the order to AppDelivering.
//
// This method enforces the following business rules:
//   - The driver ID must be valid
//   - The order must be awaiting a delivery decision
//
// Returns an error if the driver ID is invalid or the transition is not allowed.
func (o *Order) AssignDriver(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	newStatus, err := o.status.TransitionTo(AppDelivering)
	if err != nil {
		return err
	}

	o.status = newStatus
	o.deliveryMethod = MethodPlatformDelivery
	o.driverID = &driverID
	o.touch()
	return nil
}

// AttachDeposit records the courier-leg deposit initiated for this order.
// A deposit may only exist while the delivery method is platform delivery.
func (o *Order) AttachDeposit(depositID kernel.UUID) error {
	if err := depositID.Validate(); err != nil {
		return err
	}

	if o.deliveryMethod != MethodPlatformDelivery {
		return ErrDepositRequiresPlatformDelivery
	}

	o.depositID = &depositID
	o.touch()
	return nil
}

// ConfirmPayment transitions the order to PaymentOK once the courier-leg
// deposit has been confirmed through one of the reconciliation channels.
func (o *Order) ConfirmPayment() error {
	newStatus, err := o.status.TransitionTo(PaymentOK)
	if err != nil {
		return err
	}

	o.status = newStatus
	o.touch()
	return nil
}

// CompleteDelivery transitions the order to Delivered, recording both proof
// artifact references and the delivery timestamp.
//
// Both references must already point at persisted artifacts: the transition
// must never occur without the evidence stored first.
func (o *Order) CompleteDelivery(proofImageRef, proofSignatureRef string, deliveredAt time.Time) error {
	if proofImageRef == "" || proofSignatureRef == "" {
		return ErrProofIsRequired
	}

	newStatus, err := o.status.TransitionTo(Delivered)
	if err != nil {
		return err
	}

	o.status = newStatus
	o.proofImageRef = &proofImageRef
	o.proofSignatureRef = &proofSignatureRef
	o.deliveredAt = &deliveredAt
	o.touch()
	return nil
}

// Cancel moves the order to the Cancelled terminal status.
// Any non-terminal order may be cancelled.
func (o *Order) Cancel() error {
	newStatus, err := o.status.TransitionTo(Cancelled)
	if err != nil {
		return err
	}

	o.status = newStatus
	o.touch()
	return nil
}

// validateInvariants re-checks the cross-field invariants on restored state.
func (o *Order) validateInvariants() error {
	if o.driverID != nil && o.deliveryMethod != MethodPlatformDelivery {
		return errs.NewValueIsInvalidErrorWithCause("driverId",
			fmt.Errorf("driver is set while delivery method is %s", o.deliveryMethod))
	}

	if o.depositID != nil && o.deliveryMethod != MethodPlatformDelivery {
		return errs.NewValueIsInvalidErrorWithCause("depositId",
			fmt.Errorf("deposit is set while delivery method is %s", o.deliveryMethod))
	}

	if (o.proofImageRef != nil || o.proofSignatureRef != nil) && o.status != Delivered {
		return errs.NewValueIsInvalidErrorWithCause("proofImageRef",
			fmt.Errorf("proof is set while status is %s", o.status))
	}

	if (o.status == AppDelivering || o.status == PaymentOK) && o.deliveryMethod != MethodPlatformDelivery {
		return errs.NewValueIsInvalidErrorWithCause("deliveryMethod",
			fmt.Errorf("%s requires platform delivery", o.status))
	}

	if o.status == SellerDelivering && o.deliveryMethod != MethodSellerDelivery {
		return errs.NewValueIsInvalidErrorWithCause("deliveryMethod",
			fmt.Errorf("%s requires seller delivery", o.status))
	}

	return nil
}

// touch bumps the modification timestamp.
func (o *Order) touch() {
	o.updatedAt = time.Now().UTC()
}

// setID validates and sets the order's unique identifier.
// This is a private method used only during construction.
func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

// setSellerID validates and sets the seller identifier.
// This is a private method used only during construction.
func (o *Order) setSellerID(sellerID kernel.UUID) error {
	if err := sellerID.Validate(); err != nil {
		return err
	}
	o.sellerID = sellerID
	return nil
}

// setCustomer validates and sets the buyer contact details.
// This is a private method used only during construction.
func (o *Order) setCustomer(name, phone string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("customerName")
	}
	if phone == "" {
		return errs.NewValueIsRequiredError("customerPhone")
	}
	o.customerName = name
	o.customerPhone = phone
	return nil
}

// setAddress validates and sets the delivery address.
// This is a private method used only during construction.
func (o *Order) setAddress(address string) error {
	if address == "" {
		return errs.NewValueIsRequiredError("address")
	}
	o.address = address
	return nil
}

// setDropoff validates and sets the delivery destination.
// This is a private method used only during construction.
func (o *Order) setDropoff(dropoff kernel.GeoPoint) error {
	if err := dropoff.Validate(); err != nil {
		return err
	}
	o.dropoff = dropoff
	return nil
}

// setTotal validates and sets the order total.
// The total must be a positive amount.
// This is a private method used only during construction.
func (o *Order) setTotal(total kernel.Money) error {
	if err := total.Validate(); err != nil {
		return err
	}
	if total.IsZero() {
		return errs.NewValueIsInvalidErrorWithCause("total",
			errors.New("total must be greater than zero"))
	}
	o.total = total
	return nil
}

// setItems validates and sets the order line items.
// This is a private method used only during construction.
func (o *Order) setItems(items []Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	o.items = make([]Item, len(items))
	copy(o.items, items)
	return nil
}
