package order

import (
	"fulfillment/internal/pkg/errs"
)

// Status represents the lifecycle state of a marketplace order.
// It implements a state machine with defined transitions to ensure
// orders follow the correct fulfillment workflow.
//
// State transitions:
//
//	PendingDeliveryChoice ──┬──> SellerDelivering ─────────────────> Delivered
//	                        │
//	                        └──> AppDelivering ──┬──> PaymentOK ──> Delivered
//	                                             └────────────────> Delivered
//
//	(any non-terminal state) ──> Cancelled
//
// Delivered and Cancelled are terminal: no further transitions are permitted.
// Status is a value object that validates state transitions and provides
// string representations for persistence and display.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// PendingDeliveryChoice is the initial status when an order is placed.
	// The seller has not yet decided between self-delivery and platform delivery.
	PendingDeliveryChoice

	// SellerDelivering indicates the seller chose to deliver the order themselves.
	SellerDelivering

	// AppDelivering indicates a platform driver was assigned to the courier leg.
	AppDelivering

	// PaymentOK indicates the courier-leg deposit was confirmed (platform delivery only).
	PaymentOK

	// Delivered indicates the order was handed over with completion proof captured.
	// This is a terminal state.
	Delivered

	// Cancelled indicates the order was abandoned before delivery.
	// This is a terminal state.
	Cancelled
)

// getStatusStrings returns a map of Status values to their string representations.
// All statuses are included for string conversion.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:               "unknown",
		PendingDeliveryChoice: "pending_delivery_choice",
		SellerDelivering:      "seller_delivering",
		AppDelivering:         "app_delivering",
		PaymentOK:             "payment_ok",
		Delivered:             "delivered",
		Cancelled:             "cancelled",
	}
}

// getValidStatusStrings returns a map of only valid Status values.
// Only valid statuses are included to support validation.
func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		PendingDeliveryChoice: "pending_delivery_choice",
		SellerDelivering:      "seller_delivering",
		AppDelivering:         "app_delivering",
		PaymentOK:             "payment_ok",
		Delivered:             "delivered",
		Cancelled:             "cancelled",
	}
}

// getTransitionTable returns the set of permitted transitions keyed by source status.
// Cancellation of non-terminal statuses is handled separately in ValidateTransition.
func getTransitionTable() map[Status][]Status {
	return map[Status][]Status{
		PendingDeliveryChoice: {SellerDelivering, AppDelivering},
		SellerDelivering:      {Delivered},
		AppDelivering:         {PaymentOK, Delivered},
		PaymentOK:             {Delivered},
	}
}

// StatusFromString converts a persisted string representation back into a Status.
// Unknown or unrecognized representations fail closed with a validation error
// rather than silently defaulting, since statuses read off store records drive
// state-machine decisions.
func StatusFromString(s string) (Status, error) {
	for status, str := range getValidStatusStrings() {
		if str == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidError("status")
}

// Validate checks if the Status value is valid.
//
// Returns:
//   - nil if the status is valid
//   - error with details if the status is invalid
//
// This method is used to ensure Status values from external sources
// (e.g., database, API) are valid before use.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidError("status")
	}
	return nil
}

// String returns the persisted snake_case name of the status.
// Implements the fmt.Stringer interface and is safe to call on any
// Status value, including invalid ones.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether the status permits no further transitions.
// Delivered and Cancelled are the only terminal statuses.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}

// ValidateTransition checks whether the requested status is reachable from the
// current status without performing the transition. Any valid non-terminal
// status may transition to Cancelled.
//
// Returns:
//   - nil if the transition is allowed
//   - InvalidTransitionError{From, To} otherwise
//
// This method is pure and must be consulted before any write to the shared
// store; the write itself must additionally be conditioned on the store still
// reflecting the current status.
func (s Status) ValidateTransition(to Status) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if err := to.Validate(); err != nil {
		return err
	}

	if to == Cancelled {
		if s.IsTerminal() {
			return errs.NewInvalidTransitionError(s.String(), to.String())
		}
		return nil
	}

	for _, next := range getTransitionTable()[s] {
		if next == to {
			return nil
		}
	}

	return errs.NewInvalidTransitionError(s.String(), to.String())
}

// TransitionTo applies the state machine and returns the new status.
//
// Returns:
//   - (to, nil) when the transition is permitted
//   - (0, InvalidTransitionError) otherwise
func (s Status) TransitionTo(to Status) (Status, error) {
	if err := s.ValidateTransition(to); err != nil {
		return 0, err
	}

	return to, nil
}
