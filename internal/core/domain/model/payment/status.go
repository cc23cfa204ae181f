package payment

import (
	"fulfillment/internal/pkg/errs"
)

// AttemptStatus represents the state of a deposit collection attempt.
// PENDING attempts are still being reconciled; SUCCESS, FAILURE and TIMEOUT
// are terminal. Once an attempt reaches a terminal status no channel may
// change it again.
type AttemptStatus int

const (
	// StatusUnknown represents an invalid or undefined status.
	StatusUnknown AttemptStatus = iota

	// StatusPending indicates the deposit is awaiting confirmation.
	StatusPending

	// StatusSuccess indicates the deposit was confirmed.
	StatusSuccess

	// StatusFailure indicates the gateway reported a definitive failure.
	StatusFailure

	// StatusTimeout indicates the confirmation window elapsed without a
	// terminal gateway status. Surfaced to callers as a failure requiring retry.
	StatusTimeout
)

// getStatusStrings returns a map of AttemptStatus values to their wire representations.
func getStatusStrings() map[AttemptStatus]string {
	return map[AttemptStatus]string{
		StatusUnknown: "UNKNOWN",
		StatusPending: "PENDING",
		StatusSuccess: "SUCCESS",
		StatusFailure: "FAILURE",
		StatusTimeout: "TIMEOUT",
	}
}

// getValidStatusStrings returns a map of only valid AttemptStatus values.
func getValidStatusStrings() map[AttemptStatus]string {
	//nolint:exhaustive // StatusUnknown is intentionally excluded as it's invalid
	return map[AttemptStatus]string{
		StatusPending: "PENDING",
		StatusSuccess: "SUCCESS",
		StatusFailure: "FAILURE",
		StatusTimeout: "TIMEOUT",
	}
}

// AttemptStatusFromString converts a persisted or gateway-reported string into
// an AttemptStatus. Unrecognized representations fail closed.
func AttemptStatusFromString(s string) (AttemptStatus, error) {
	for status, str := range getValidStatusStrings() {
		if str == s {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidError("attemptStatus")
}

// Validate checks if the AttemptStatus value is valid.
func (s AttemptStatus) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidError("attemptStatus")
	}
	return nil
}

// String returns the wire representation of the status.
// Implements the fmt.Stringer interface.
func (s AttemptStatus) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// IsTerminal reports whether the status permits no further resolution.
func (s AttemptStatus) IsTerminal() bool {
	return s == StatusSuccess || s == StatusFailure || s == StatusTimeout
}
