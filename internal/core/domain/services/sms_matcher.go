package services

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/payment"
)

// MaxSMSAge is how old a confirmation message may be and still confirm a
// deposit. Older messages are assumed to belong to an earlier payment.
const MaxSMSAge = 3 * time.Minute

// ErrSMSDoesNotMatch is returned when a message cannot confirm the attempt:
// wrong provider, missing transaction id, stale, or amount mismatch. The
// reconciler keeps waiting on the other channels in that case.
var ErrSMSDoesNotMatch = errors.New("sms does not match payment attempt")

// transactionIDPattern matches gateway transaction references such as
// "QGH7382941" or "MP12345678".
var transactionIDPattern = regexp.MustCompile(`\b[A-Z]{2,4}[0-9]{4,}\b`)

// amountPattern matches monetary amounts, allowing thousands separators and up
// to two decimal places. The leading group keeps digits glued to letters (the
// tail of a transaction id) from being read as an amount.
var amountPattern = regexp.MustCompile(`(?:^|[^A-Z0-9.])([0-9][0-9,]*(?:\.[0-9]{1,2})?)`)

// getProviderMarkers returns the mobile-money provider names a genuine
// confirmation message must carry at least one of.
func getProviderMarkers() []string {
	return []string{"PAWAPAY", "MPESA", "ORANGE MONEY", "AIRTEL MONEY"}
}

// SMSMatcher is a domain service that decides whether a forwarded mobile-money
// confirmation message proves a given deposit. It is the fast path of the
// reconciliation race: a matching message confirms the payment without waiting
// for the gateway poll.
//
// A message matches when all of the following hold:
//   - it carries a recognized provider marker
//   - it carries a gateway transaction reference
//   - it carries the attempt's exact amount
//   - it is no older than MaxSMSAge
type SMSMatcher struct{}

// NewSMSMatcher creates a new SMSMatcher instance.
func NewSMSMatcher() SMSMatcher {
	return SMSMatcher{}
}

// Match checks a confirmation message against a pending payment attempt.
//
// Parameters:
//   - attempt: The attempt the message is claimed to confirm (must be valid)
//   - smsText: Raw message text
//   - receivedAt: When the message arrived on the payer's device
//   - now: Current time, injected for testability
//
// Returns:
//   - string: The extracted gateway transaction id on a match
//   - error: ErrSMSDoesNotMatch when the message cannot confirm the attempt
func (m SMSMatcher) Match(
	attempt *payment.Attempt, smsText string, receivedAt, now time.Time,
) (string, error) {
	if err := attempt.Validate(); err != nil {
		return "", err
	}

	if now.Sub(receivedAt) > MaxSMSAge {
		return "", ErrSMSDoesNotMatch
	}

	upper := strings.ToUpper(smsText)
	if !m.hasProviderMarker(upper) {
		return "", ErrSMSDoesNotMatch
	}

	transactionID := transactionIDPattern.FindString(upper)
	if transactionID == "" {
		return "", ErrSMSDoesNotMatch
	}

	if !m.containsAmount(upper, attempt.Amount()) {
		return "", ErrSMSDoesNotMatch
	}

	return transactionID, nil
}

// hasProviderMarker reports whether the uppercased text names a known provider.
func (m SMSMatcher) hasProviderMarker(upper string) bool {
	for _, marker := range getProviderMarkers() {
		if strings.Contains(upper, marker) {
			return true
		}
	}
	return false
}

// containsAmount reports whether any amount in the uppercased text equals the
// expected amount exactly, down to the minor unit.
func (m SMSMatcher) containsAmount(upper string, expected kernel.Money) bool {
	for _, match := range amountPattern.FindAllStringSubmatch(upper, -1) {
		raw := strings.ReplaceAll(match[1], ",", "")

		amount, err := kernel.MoneyFromDecimalString(raw, expected.Currency())
		if err != nil {
			continue
		}

		if equal, err := amount.IsEqual(expected); err == nil && equal {
			return true
		}
	}
	return false
}
