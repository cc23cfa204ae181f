// Package payment provides the PaymentAttempt aggregate tracked by the
// reconciliation engine while a mobile-money deposit is being confirmed,
// together with the manual-confirmation claim recorded when automatic
// verification fails.
package payment

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	// ErrAttemptIsNotConstructed is returned when using an improperly initialized Attempt.
	ErrAttemptIsNotConstructed = errors.New("Attempt must be created via NewAttempt or RestoreAttempt constructors")

	// ErrAttemptAlreadyResolved is returned when a channel tries to resolve an
	// attempt that already reached a terminal status. Exactly one channel may
	// resolve a given deposit.
	ErrAttemptAlreadyResolved = errors.New("payment attempt is already resolved")
)

// Kind distinguishes what a deposit pays for.
type Kind int

const (
	// KindUnknown represents an invalid or undefined kind.
	KindUnknown Kind = iota

	// KindCourierFee is a deposit collecting the courier-leg fee for an order.
	KindCourierFee

	// KindSellerVerification is a subscription deposit buying thirty days of
	// verified-seller status.
	KindSellerVerification
)

// getKindStrings returns a map of Kind values to their string representations.
func getKindStrings() map[Kind]string {
	return map[Kind]string{
		KindUnknown:            "unknown",
		KindCourierFee:         "courier_fee",
		KindSellerVerification: "seller_verification",
	}
}

// KindFromString converts a persisted string representation back into a Kind.
// Unrecognized representations fail closed.
func KindFromString(s string) (Kind, error) {
	for kind, str := range getKindStrings() {
		if kind != KindUnknown && str == s {
			return kind, nil
		}
	}
	return KindUnknown, errs.NewValueIsInvalidError("kind")
}

// Validate checks if the Kind value is one of the defined kinds.
func (k Kind) Validate() error {
	if k != KindCourierFee && k != KindSellerVerification {
		return errs.NewValueIsInvalidError("kind")
	}
	return nil
}

// String returns the persisted snake_case name of the kind.
// Implements the fmt.Stringer interface.
func (k Kind) String() string {
	if str, ok := getKindStrings()[k]; ok {
		return str
	}
	return "unknown"
}

// Attempt tracks one deposit collection from initiation to its terminal outcome.
// The attempt is the synchronization point between the three racing
// confirmation channels: whichever channel resolves it first wins, and every
// later resolution is rejected with ErrAttemptAlreadyResolved.
type Attempt struct {
	// depositID identifies the deposit at the payment gateway
	depositID kernel.UUID
	// orderID references the order whose courier leg this deposit pays for
	// (nil for seller-verification subscriptions)
	orderID *kernel.UUID
	// sellerID references the subscribing seller for verification deposits
	sellerID *kernel.UUID
	// kind records what the deposit pays for
	kind Kind
	// amount is the expected deposit amount
	amount kernel.Money
	// payerPhone is the mobile-money account being charged
	payerPhone string
	// status is the current reconciliation state
	status AttemptStatus
	// startedAt is when the deposit was initiated
	startedAt time.Time
	// polls counts gateway status checks performed so far
	polls int
	// guard ensures the attempt was properly constructed
	guard guard.ConstructorGuard
}

// NewAttempt creates a PENDING payment attempt for a freshly initiated deposit.
//
// Parameters:
//   - depositID: Client-generated deposit identifier (must be valid UUID)
//   - orderID: Order the deposit pays for, nil for subscriptions
//   - sellerID: Subscribing seller for verification deposits, nil otherwise
//   - kind: What the deposit pays for
//   - amount: Expected deposit amount (must be positive)
//   - payerPhone: Mobile-money account being charged (must be non-empty)
//   - startedAt: Initiation time
//
// Returns:
//   - *Attempt: The created attempt if all validations pass
//   - error: Validation error if any parameter is invalid
func NewAttempt(
	depositID kernel.UUID,
	orderID *kernel.UUID,
	sellerID *kernel.UUID,
	kind Kind,
	amount kernel.Money,
	payerPhone string,
	startedAt time.Time,
) (*Attempt, error) {
	a := &Attempt{
		orderID:   orderID,
		sellerID:  sellerID,
		status:    StatusPending,
		startedAt: startedAt,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		a.setDepositID(depositID),
		a.setKind(kind),
		a.setAmount(amount),
		a.setPayerPhone(payerPhone),
	); err != nil {
		return nil, err
	}

	return a, nil
}

// RestoreAttempt reconstructs an Attempt from persistent storage.
func RestoreAttempt(
	depositID kernel.UUID,
	orderID *kernel.UUID,
	sellerID *kernel.UUID,
	kind Kind,
	amount kernel.Money,
	payerPhone string,
	status AttemptStatus,
	startedAt time.Time,
	polls int,
) (*Attempt, error) {
	a, err := NewAttempt(depositID, orderID, sellerID, kind, amount, payerPhone, startedAt)
	if err != nil {
		return nil, err
	}

	if err := status.Validate(); err != nil {
		return nil, err
	}

	a.status = status
	a.polls = polls
	return a, nil
}

// Validate ensures the Attempt instance was properly constructed.
func (a *Attempt) Validate() error {
	if a == nil {
		return ErrAttemptIsNotConstructed
	}
	return a.guard.Validate(ErrAttemptIsNotConstructed)
}

// DepositID returns the deposit identifier.
func (a *Attempt) DepositID() kernel.UUID {
	return a.depositID
}

// OrderID returns the order the deposit pays for, or nil for subscriptions.
func (a *Attempt) OrderID() *kernel.UUID {
	return a.orderID
}

// SellerID returns the subscribing seller for verification deposits, or nil.
func (a *Attempt) SellerID() *kernel.UUID {
	return a.sellerID
}

// Kind returns what the deposit pays for.
func (a *Attempt) Kind() Kind {
	return a.kind
}

// Amount returns the expected deposit amount.
func (a *Attempt) Amount() kernel.Money {
	return a.amount
}

// PayerPhone returns the mobile-money account being charged.
func (a *Attempt) PayerPhone() string {
	return a.payerPhone
}

// Status returns the current reconciliation state.
func (a *Attempt) Status() AttemptStatus {
	return a.status
}

// StartedAt returns the initiation time.
func (a *Attempt) StartedAt() time.Time {
	return a.startedAt
}

// Polls returns the number of gateway status checks performed so far.
func (a *Attempt) Polls() int {
	return a.polls
}

// RecordPoll counts one gateway status check.
func (a *Attempt) RecordPoll() {
	a.polls++
}

// IsResolved reports whether the attempt already reached a terminal status.
func (a *Attempt) IsResolved() bool {
	return a.status.IsTerminal()
}

// Resolve moves the attempt to a terminal status. The first resolution wins;
// any subsequent call returns ErrAttemptAlreadyResolved so a late timer tick
// or duplicate SMS can never re-resolve the deposit.
func (a *Attempt) Resolve(status AttemptStatus) error {
	if !status.IsTerminal() {
		return errs.NewValueIsInvalidError("attemptStatus")
	}
	if a.IsResolved() {
		return ErrAttemptAlreadyResolved
	}

	a.status = status
	return nil
}

// setDepositID validates and sets the deposit identifier.
// This is a private method used only during construction.
func (a *Attempt) setDepositID(depositID kernel.UUID) error {
	if err := depositID.Validate(); err != nil {
		return err
	}
	a.depositID = depositID
	return nil
}

// setKind validates and sets the deposit kind.
// This is a private method used only during construction.
func (a *Attempt) setKind(kind Kind) error {
	if err := kind.Validate(); err != nil {
		return err
	}
	a.kind = kind
	return nil
}

// setAmount validates and sets the expected amount.
// This is a private method used only during construction.
func (a *Attempt) setAmount(amount kernel.Money) error {
	if err := amount.Validate(); err != nil {
		return err
	}
	if amount.IsZero() {
		return errs.NewValueIsInvalidErrorWithCause("amount",
			errors.New("amount must be greater than zero"))
	}
	a.amount = amount
	return nil
}

// setPayerPhone validates and sets the payer phone number.
// This is a private method used only during construction.
func (a *Attempt) setPayerPhone(payerPhone string) error {
	if payerPhone == "" {
		return errs.NewValueIsRequiredError("payerPhone")
	}
	a.payerPhone = payerPhone
	return nil
}
