package commands

import (
	"bytes"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrCaptureProofCommandIsNotConstructed = errors.New(
		"CaptureProofCommand must be created via NewCaptureProofCommand constructor",
	)
	ErrProofImageIsRequired     = errors.New("proof image is required")
	ErrProofSignatureIsRequired = errors.New("proof signature is required")
)

// CaptureProofCommand represents a request to mark an order delivered with the
// handover evidence collected at the door: a photo of the delivered package
// and the customer's signature.
type CaptureProofCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	image     []byte
	signature []byte

	guard guard.ConstructorGuard
}

// NewCaptureProofCommand creates a command to complete a delivery with proof.
// Both artifacts are mandatory; an order can never become delivered without them.
func NewCaptureProofCommand(orderID kernel.UUID, image, signature []byte) (CaptureProofCommand, error) {
	cmd := CaptureProofCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setImage(image),
		cmd.setSignature(signature),
	); err != nil {
		return CaptureProofCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CaptureProofCommand) Validate() error {
	return c.guard.Validate(ErrCaptureProofCommandIsNotConstructed)
}

// OrderID returns the order being completed.
func (c CaptureProofCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Image returns a reader over the package photo bytes.
func (c CaptureProofCommand) Image() *bytes.Reader {
	return bytes.NewReader(c.image)
}

// Signature returns a reader over the customer signature bytes.
func (c CaptureProofCommand) Signature() *bytes.Reader {
	return bytes.NewReader(c.signature)
}

func (c *CaptureProofCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CaptureProofCommand) setImage(image []byte) error {
	if len(image) == 0 {
		return ErrProofImageIsRequired
	}

	c.image = image
	return nil
}

func (c *CaptureProofCommand) setSignature(signature []byte) error {
	if len(signature) == 0 {
		return ErrProofSignatureIsRequired
	}

	c.signature = signature
	return nil
}
