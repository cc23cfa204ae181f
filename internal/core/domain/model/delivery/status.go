package delivery

import (
	"fulfillment/internal/pkg/errs"
)

// Status represents the lifecycle state of a delivery record.
//
// State transitions:
//
//	Pending ──> InTransit ──> Delivered
//
// Pending deliveries are awaiting driver acceptance; the driver app moves the
// record to InTransit on pickup and Delivered on completion.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	Unknown Status = iota

	// Pending indicates the delivery awaits driver acceptance.
	Pending

	// InTransit indicates the driver picked up the order.
	InTransit

	// Delivered indicates the courier leg was completed.
	Delivered
)

// getStatusStrings returns a map of Status values to their string representations.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "unknown",
		Pending:   "pending",
		InTransit: "in_transit",
		Delivered: "delivered",
	}
}

// getValidStatusStrings returns a map of only valid Status values.
func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Pending:   "pending",
		InTransit: "in_transit",
		Delivered: "delivered",
	}
}

// StatusFromString converts a persisted string representation back into a Status.
// Unrecognized representations fail closed.
func StatusFromString(s string) (Status, error) {
	for status, str := range getValidStatusStrings() {
		if str == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidError("status")
}

// Validate checks if the Status value is valid.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidError("status")
	}
	return nil
}

// String returns the persisted snake_case name of the status.
// Implements the fmt.Stringer interface.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// Accept transitions the status to InTransit.
//
// Returns:
//   - (InTransit, nil) when the delivery is Pending
//   - (0, error) otherwise
func (s Status) Accept() (Status, error) {
	if s != Pending {
		return 0, errs.NewInvalidTransitionError(s.String(), InTransit.String())
	}
	return InTransit, nil
}

// Complete transitions the status to Delivered.
//
// Returns:
//   - (Delivered, nil) when the delivery is InTransit
//   - (0, error) otherwise
func (s Status) Complete() (Status, error) {
	if s != InTransit {
		return 0, errs.NewInvalidTransitionError(s.String(), Delivered.String())
	}
	return Delivered, nil
}
