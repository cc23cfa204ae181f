package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
)

// CreateOrderCommandHandler handles the business logic for order registration.
// New orders start in pending_delivery_choice status, waiting for the seller
// to pick a delivery path.
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.EventPublisher
}

// NewCreateOrderCommandHandler creates a handler for order registration.
// Requires an OrderUoWFactory for transactional persistence and an
// EventPublisher for lifecycle notifications.
func NewCreateOrderCommandHandler(
	uowFactory OrderUoWFactory, publisher ports.EventPublisher,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle processes the order registration command.
// Uses a transaction to ensure the order is properly persisted or rolled back
// on error. The creation notification is published after commit, best effort.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) error {
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

	aggregate, err := order.NewOrder(
		cmd.OrderID(), cmd.SellerID(),
		cmd.CustomerName(), cmd.CustomerPhone(), cmd.Address(),
		cmd.Dropoff(), cmd.Total(), cmd.Items(),
	)
	if err != nil {
		return err
	}

	if err = uow.OrderRepository().Add(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	_ = h.publisher.PublishOrderStatusChanged(ctx, aggregate.ID(), order.Unknown, aggregate.Status())

	return nil
}
