package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// EventPublisher pushes lifecycle notifications to interested consumers (the
// seller and driver apps). Publishing is best effort: the state transition has
// already been committed when these are called, and a lost notification must
// never fail the operation.
type EventPublisher interface {
	// PublishOrderStatusChanged announces that an order reached a new status.
	PublishOrderStatusChanged(ctx context.Context, orderID kernel.UUID, from, to order.Status) error

	// PublishPaymentProgress announces a reconciliation step for a deposit so
	// the payer's app can show live progress.
	PublishPaymentProgress(ctx context.Context, depositID kernel.UUID, stage string) error
}
