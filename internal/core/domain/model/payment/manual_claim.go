package payment

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// ErrManualClaimIsNotConstructed is returned when using an improperly initialized ManualClaim.
var ErrManualClaimIsNotConstructed = errors.New("ManualClaim must be created via NewManualClaim constructor")

// ManualClaim records a user-pasted confirmation SMS for out-of-band human
// review when automatic verification failed. Recording a claim does not
// resolve the payment attempt; it is an explicit "awaiting human review"
// outcome, not an error and not a success.
type ManualClaim struct {
	// depositID identifies the deposit the claim is about
	depositID kernel.UUID
	// smsText is the raw confirmation message pasted by the user
	smsText string
	// transactionID is the gateway transaction id the user claims
	transactionID string
	// submittedAt is when the claim was recorded
	submittedAt time.Time
	// guard ensures the claim was properly constructed
	guard guard.ConstructorGuard
}

// NewManualClaim creates a validated manual-confirmation claim.
func NewManualClaim(
	depositID kernel.UUID, smsText, transactionID string, submittedAt time.Time,
) (*ManualClaim, error) {
	c := &ManualClaim{
		submittedAt: submittedAt,
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		c.setDepositID(depositID),
		c.setSMSText(smsText),
		c.setTransactionID(transactionID),
	); err != nil {
		return nil, err
	}

	return c, nil
}

// Validate ensures the ManualClaim instance was properly constructed.
func (c *ManualClaim) Validate() error {
	if c == nil {
		return ErrManualClaimIsNotConstructed
	}
	return c.guard.Validate(ErrManualClaimIsNotConstructed)
}

// DepositID returns the deposit the claim is about.
func (c *ManualClaim) DepositID() kernel.UUID {
	return c.depositID
}

// SMSText returns the raw confirmation message pasted by the user.
func (c *ManualClaim) SMSText() string {
	return c.smsText
}

// TransactionID returns the claimed gateway transaction id.
func (c *ManualClaim) TransactionID() string {
	return c.transactionID
}

// SubmittedAt returns when the claim was recorded.
func (c *ManualClaim) SubmittedAt() time.Time {
	return c.submittedAt
}

// setDepositID validates and sets the deposit reference.
// This is a private method used only during construction.
func (c *ManualClaim) setDepositID(depositID kernel.UUID) error {
	if err := depositID.Validate(); err != nil {
		return err
	}
	c.depositID = depositID
	return nil
}

// setSMSText validates and sets the pasted message text.
// This is a private method used only during construction.
func (c *ManualClaim) setSMSText(smsText string) error {
	if smsText == "" {
		return errs.NewValueIsRequiredError("smsText")
	}
	c.smsText = smsText
	return nil
}

// setTransactionID validates and sets the claimed transaction id.
// This is a private method used only during construction.
func (c *ManualClaim) setTransactionID(transactionID string) error {
	if transactionID == "" {
		return errs.NewValueIsRequiredError("transactionId")
	}
	c.transactionID = transactionID
	return nil
}
