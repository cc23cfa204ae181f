package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
)

// ChooseSellerDeliveryCommandHandler moves an order onto the seller-delivery
// path. No driver, no deposit: the seller hands the package over personally
// and later marks the order delivered with proof.
//
// Example:
//
//	handler := NewChooseSellerDeliveryCommandHandler(uowFactory, publisher)
//	cmd, _ := NewChooseSellerDeliveryCommand(orderID)
//	err := handler.Handle(ctx, cmd)
//	if errors.Is(err, errs.ErrConcurrentModification) {
//	    // Someone else moved the order first; re-read before deciding again.
//	}
type ChooseSellerDeliveryCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.EventPublisher
}

// NewChooseSellerDeliveryCommandHandler creates a handler for the
// seller-delivery choice.
func NewChooseSellerDeliveryCommandHandler(
	uowFactory OrderUoWFactory, publisher ports.EventPublisher,
) ChooseSellerDeliveryCommandHandler {
	return ChooseSellerDeliveryCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle processes the seller-delivery choice.
// The status write is conditional on the status the order was read at, with a
// single retry on conflict, so two parallel choices cannot both win.
func (h ChooseSellerDeliveryCommandHandler) Handle(
	ctx context.Context, cmd ChooseSellerDeliveryCommand,
) error {
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

	aggregate, err := applyOrderTransition(ctx, uow.OrderRepository(), cmd.OrderID(),
		func(o *order.Order) error {
			return o.ChooseSellerDelivery()
		})
	if err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	_ = h.publisher.PublishOrderStatusChanged(
		ctx, aggregate.ID(), order.PendingDeliveryChoice, aggregate.Status())

	return nil
}
