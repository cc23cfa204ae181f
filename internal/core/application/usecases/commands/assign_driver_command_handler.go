package commands

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
)

// ErrDriverNoLongerAvailable is returned when the picked driver went offline
// or took another job between the candidate listing and the assignment.
// Eligibility is a snapshot, so the live feed is re-checked at claim time.
var ErrDriverNoLongerAvailable = errors.New("driver no longer available")

// AssignDriverCommandHandler hands an order's courier leg to a chosen driver.
// The order moves to app_delivering and a delivery record is created for the
// driver, all within one transaction.
//
// Concurrency: the order status write is a compare-and-swap, so of two sellers'
// devices (or a seller racing a cancellation) exactly one assignment wins; the
// loser gets a ConcurrentModificationError or an InvalidTransitionError after
// the retry re-read.
//
// Example:
//
//	handler := NewAssignDriverCommandHandler(uowFactory, locations, publisher)
//	cmd, _ := NewAssignDriverCommand(orderID, driverID, fee)
//	err := handler.Handle(ctx, cmd)
//	if errors.Is(err, ErrDriverNoLongerAvailable) {
//	    // Refresh the candidate list and let the seller pick again.
//	}
type AssignDriverCommandHandler struct {
	uowFactory AssignmentUoWFactory
	locations  ports.DriverLocations
	publisher  ports.EventPublisher
}

// NewAssignDriverCommandHandler creates a handler for driver assignment.
// Requires the live location feed to re-check driver availability at claim time.
func NewAssignDriverCommandHandler(
	uowFactory AssignmentUoWFactory,
	locations ports.DriverLocations,
	publisher ports.EventPublisher,
) AssignDriverCommandHandler {
	return AssignDriverCommandHandler{
		uowFactory: uowFactory,
		locations:  locations,
		publisher:  publisher,
	}
}

// Handle processes the driver assignment command.
// Opens the transaction, re-checks the driver against the live feed just
// before the conditional status write that claims the order, and creates the
// delivery record for the driver's app.
func (h AssignDriverCommandHandler) Handle(ctx context.Context, cmd AssignDriverCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if _, err := uow.DriverRepository().Get(ctx, cmd.DriverID()); err != nil {
		return err
	}

	// Re-checked inside the transaction, right before the claim write, so the
	// window between the eligibility snapshot and the commit stays as narrow
	// as the live feed allows.
	position, err := h.locations.Get(ctx, cmd.DriverID())
	if err != nil {
		return err
	}
	if position == nil || !position.Available {
		return ErrDriverNoLongerAvailable
	}

	aggregate, err := applyOrderTransition(ctx, uow.OrderRepository(), cmd.OrderID(),
		func(o *order.Order) error {
			if err := o.AssignDriver(cmd.DriverID()); err != nil {
				return err
			}
			if !cmd.RequiresPrepayment() {
				// Fee already collected: skip the awaiting-payment state
				return o.ConfirmPayment()
			}
			return nil
		})
	if err != nil {
		return err
	}

	storeOwner, err := uow.SellerRepository().Get(ctx, aggregate.SellerID())
	if err != nil {
		return err
	}

	driverID := cmd.DriverID()
	record, err := delivery.NewDelivery(
		kernel.NewUUID(), aggregate.ID(), aggregate.SellerID(),
		storeOwner.Store(), aggregate.Dropoff(), cmd.Fee(), &driverID,
	)
	if err != nil {
		return err
	}

	if err = uow.DeliveryRepository().Add(ctx, record); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	_ = h.publisher.PublishOrderStatusChanged(
		ctx, aggregate.ID(), order.PendingDeliveryChoice, aggregate.Status())

	return nil
}
