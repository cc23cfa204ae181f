package commands

import (
	"context"
	"time"
)

// MarkSellerVerifiedCommandHandler grants a seller verified status for the
// subscription period after their verification deposit resolved successfully.
// Re-subscribing before expiry restarts the window from now rather than
// stacking periods.
type MarkSellerVerifiedCommandHandler struct {
	uowFactory SellerUoWFactory
}

// NewMarkSellerVerifiedCommandHandler creates a handler for verification grants.
func NewMarkSellerVerifiedCommandHandler(uowFactory SellerUoWFactory) MarkSellerVerifiedCommandHandler {
	return MarkSellerVerifiedCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the verification grant command.
func (h MarkSellerVerifiedCommandHandler) Handle(ctx context.Context, cmd MarkSellerVerifiedCommand) error {
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

	repo := uow.SellerRepository()
	aggregate, err := repo.Get(ctx, cmd.SellerID())
	if err != nil {
		return err
	}

	aggregate.MarkVerified(time.Now().UTC())

	if err = repo.Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
