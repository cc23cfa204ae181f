package commands

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// applyOrderTransition loads the order, applies mutate, and writes the result
// back conditioned on the status the order was read at. If another writer got
// there first, the order is re-read and the transition retried exactly once;
// a second conflict surfaces to the caller as a ConcurrentModificationError.
//
// mutate sees the freshly read order on every attempt, so a transition that is
// no longer legal after the re-read fails with an InvalidTransitionError
// instead of being retried blindly.
func applyOrderTransition(
	ctx context.Context,
	repo ports.OrderRepository,
	orderID kernel.UUID,
	mutate func(*order.Order) error,
) (*order.Order, error) {
	const attempts = 2

	for i := 0; i < attempts; i++ {
		aggregate, err := repo.Get(ctx, orderID)
		if err != nil {
			return nil, err
		}

		expected := aggregate.Status()
		if err = mutate(aggregate); err != nil {
			return nil, err
		}

		err = repo.UpdateConditional(ctx, aggregate, expected)
		if errors.Is(err, errs.ErrConcurrentModification) && i == 0 {
			continue
		}
		if err != nil {
			return nil, err
		}

		return aggregate, nil
	}

	return nil, errs.NewConcurrentModificationError("order", orderID)
}
