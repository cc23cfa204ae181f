package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// uploadAttempts is how many times each proof artifact upload is tried before
// the whole capture fails. The status transition only happens after both
// uploads succeeded, so a flaky connection can never yield a proof-less
// delivered order.
const uploadAttempts = 3

// CaptureProofCommandHandler completes a delivery with handover evidence.
// Uploads the photo and signature to object storage first, then moves the
// order to delivered via conditional status write.
//
// Example:
//
//	handler := NewCaptureProofCommandHandler(uowFactory, storage, publisher)
//	cmd, _ := NewCaptureProofCommand(orderID, photoBytes, signatureBytes)
//	err := handler.Handle(ctx, cmd)
//	if errors.Is(err, errs.ErrUploadFailed) {
//	    // Storage is down; the order is untouched, ask the courier to retry.
//	}
type CaptureProofCommandHandler struct {
	uowFactory FulfillmentUoWFactory
	storage    ports.ObjectStorage
	publisher  ports.EventPublisher
}

// NewCaptureProofCommandHandler creates a handler for delivery completion.
func NewCaptureProofCommandHandler(
	uowFactory FulfillmentUoWFactory,
	storage ports.ObjectStorage,
	publisher ports.EventPublisher,
) CaptureProofCommandHandler {
	return CaptureProofCommandHandler{
		uowFactory: uowFactory,
		storage:    storage,
		publisher:  publisher,
	}
}

// Handle processes the delivery completion command.
// Upload order: photo, then signature, each with up to three attempts. Only
// when both references exist does the order transition run; the delivery
// record on the platform path is completed in the same transaction.
func (h CaptureProofCommandHandler) Handle(ctx context.Context, cmd CaptureProofCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	imageRef, err := h.upload(ctx, "image",
		fmt.Sprintf("proofs/%s/photo.jpg", cmd.OrderID()), "image/jpeg", cmd.Image())
	if err != nil {
		return err
	}

	signatureRef, err := h.upload(ctx, "signature",
		fmt.Sprintf("proofs/%s/signature.png", cmd.OrderID()), "image/png", cmd.Signature())
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	var previous order.Status
	aggregate, err := applyOrderTransition(ctx, uow.OrderRepository(), cmd.OrderID(),
		func(o *order.Order) error {
			previous = o.Status()
			return o.CompleteDelivery(imageRef, signatureRef, time.Now().UTC())
		})
	if err != nil {
		return err
	}

	if aggregate.DeliveryMethod() == order.MethodPlatformDelivery {
		record, recErr := uow.DeliveryRepository().GetByOrder(ctx, aggregate.ID())
		if recErr != nil {
			return recErr
		}

		// Conditioned on the status seen at the read, like the order write.
		observed := record.Status()
		if recErr = h.completeDelivery(record); recErr != nil {
			return recErr
		}

		if recErr = uow.DeliveryRepository().UpdateConditional(ctx, record, observed); recErr != nil {
			return recErr
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	_ = h.publisher.PublishOrderStatusChanged(ctx, aggregate.ID(), previous, aggregate.Status())

	return nil
}

// upload stores one proof artifact, retrying transient storage failures.
func (h CaptureProofCommandHandler) upload(
	ctx context.Context, name, key, contentType string, body io.ReadSeeker,
) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= uploadAttempts; attempt++ {
		if _, err := body.Seek(0, io.SeekStart); err != nil {
			return "", err
		}

		ref, err := h.storage.Upload(ctx, key, contentType, body)
		if err == nil {
			return ref, nil
		}
		lastErr = err
	}

	return "", errs.NewUploadFailedError(name, uploadAttempts, lastErr)
}

// completeDelivery walks the delivery record to its terminal status. A record
// still pending (the driver app never acknowledged) is accepted on the way.
func (h CaptureProofCommandHandler) completeDelivery(record *delivery.Delivery) error {
	if record.Status() == delivery.Pending {
		if err := record.Accept(); err != nil {
			return err
		}
	}

	if err := record.Complete(); err != nil && !errors.Is(err, errs.ErrInvalidTransition) {
		return err
	}

	return nil
}
