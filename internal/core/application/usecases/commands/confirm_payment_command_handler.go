package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
)

// ConfirmPaymentCommandHandler advances an order to payment_ok once its
// courier-fee deposit resolved successfully. The order is located through the
// deposit reference attached at initiation time.
type ConfirmPaymentCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.EventPublisher
}

// NewConfirmPaymentCommandHandler creates a handler for payment confirmation.
func NewConfirmPaymentCommandHandler(
	uowFactory OrderUoWFactory, publisher ports.EventPublisher,
) ConfirmPaymentCommandHandler {
	return ConfirmPaymentCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle processes the payment confirmation command.
// The status write is conditional with a single retry; if the order left
// app_delivering in the meantime (a cancellation won the race), the transition
// fails with an InvalidTransitionError and nothing is written.
func (h ConfirmPaymentCommandHandler) Handle(ctx context.Context, cmd ConfirmPaymentCommand) error {
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

	repo := uow.OrderRepository()
	located, err := repo.GetByDeposit(ctx, cmd.DepositID())
	if err != nil {
		return err
	}

	aggregate, err := applyOrderTransition(ctx, repo, located.ID(),
		func(o *order.Order) error {
			return o.ConfirmPayment()
		})
	if err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	_ = h.publisher.PublishOrderStatusChanged(
		ctx, aggregate.ID(), order.AppDelivering, aggregate.Status())

	return nil
}
