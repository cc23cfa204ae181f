package kernel

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// DefaultCurrency is the currency used when no explicit currency is provided.
const DefaultCurrency = "CDF"

// minorUnitsPerMajor is the number of minor currency units in one major unit.
const minorUnitsPerMajor = 100

// ErrMoneyIsNotConstructed is returned when attempting to use an improperly initialized Money value.
var ErrMoneyIsNotConstructed = errs.NewValueIsRequiredError(
	"money must be created via NewMoney or MoneyFromDecimalString constructors")

// Money represents a monetary amount as an integer count of minor currency units
// (e.g. centimes) together with an ISO 4217 currency code. Carrying amounts as
// integer minor units end-to-end avoids floating point comparison problems when
// reconciling payment confirmations against expected deposit amounts.
//
// Money is an immutable value object; the zero value is invalid and will fail
// validation - use the constructors to create instances.
//
// Example:
//
//	fee, err := kernel.NewMoney(150000, "CDF") // 1500.00 CDF
//	if err != nil {
//	    // Handle validation error
//	}
//	fmt.Println(fee) // Output: 1500.00 CDF
type Money struct { //nolint:recvcheck //using for validation
	minorUnits int64
	currency   string
	guard      guard.ConstructorGuard
}

// NewMoney creates a Money value from an amount in minor units and a currency code.
// The amount must not be negative and the currency must be a three-letter
// uppercase ISO 4217 code.
//
// Parameters:
//   - minorUnits: Amount in minor currency units (150000 = 1500.00)
//   - currency: Three-letter uppercase currency code (e.g. "CDF")
//
// Returns:
//   - Money: A valid monetary value
//   - error: Validation error if the amount or currency is invalid
func NewMoney(minorUnits int64, currency string) (Money, error) {
	money := Money{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(money.setMinorUnits(minorUnits), money.setCurrency(currency)); err != nil {
		return Money{}, err
	}

	return money, nil
}

// MoneyFromDecimalString parses a decimal amount string such as "1500.00" or
// "1500" into a Money value. At most two fractional digits are accepted;
// anything else fails closed rather than being rounded, since payment amounts
// from external messages must match exactly.
//
// Example:
//
//	amount, err := kernel.MoneyFromDecimalString("1500.00", "CDF")
//	// amount.MinorUnits() == 150000, err = nil
func MoneyFromDecimalString(s string, currency string) (Money, error) {
	whole, fraction, found := strings.Cut(strings.TrimSpace(s), ".")

	major, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount", err)
	}
	if major < 0 {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount",
			fmt.Errorf("%s is negative", s))
	}

	minor := int64(0)
	if found {
		if len(fraction) == 0 || len(fraction) > 2 {
			return Money{}, errs.NewValueIsInvalidErrorWithCause("amount",
				fmt.Errorf("%s has an unsupported fraction", s))
		}
		minor, err = strconv.ParseInt(fraction, 10, 64)
		if err != nil || minor < 0 {
			return Money{}, errs.NewValueIsInvalidErrorWithCause("amount",
				fmt.Errorf("%s has an invalid fraction", s))
		}
		if len(fraction) == 1 {
			minor *= 10
		}
	}

	return NewMoney(major*minorUnitsPerMajor+minor, currency)
}

// Validate checks if the Money value was properly constructed using a constructor.
func (m Money) Validate() error {
	return m.guard.Validate(ErrMoneyIsNotConstructed)
}

// MinorUnits returns the amount in minor currency units.
func (m Money) MinorUnits() int64 {
	return m.minorUnits
}

// Currency returns the three-letter currency code.
func (m Money) Currency() string {
	return m.currency
}

// String returns the amount formatted with two decimal places followed by the
// currency code, e.g. "1500.00 CDF". Implements fmt.Stringer.
func (m Money) String() string {
	return fmt.Sprintf("%d.%02d %s", m.minorUnits/minorUnitsPerMajor, m.minorUnits%minorUnitsPerMajor, m.currency)
}

// IsEqual compares two monetary values. Amounts are equal only when both the
// minor-unit count and the currency match exactly. Both values must be
// properly constructed for the comparison to succeed.
func (m Money) IsEqual(other Money) (bool, error) {
	if err := errors.Join(m.Validate(), other.Validate()); err != nil {
		return false, err
	}

	return m.minorUnits == other.minorUnits && m.currency == other.currency, nil
}

// IsZero reports whether the amount is zero minor units.
func (m Money) IsZero() bool {
	return m.minorUnits == 0
}

// setMinorUnits sets the amount with validation.
// Note: We intentionally use a pointer receiver here while other methods use value
// receivers, enabling self-encapsulated validation during object construction.
func (m *Money) setMinorUnits(minorUnits int64) error {
	if minorUnits < 0 {
		return errs.NewValueIsInvalidErrorWithCause("minorUnits",
			fmt.Errorf("%d is negative", minorUnits))
	}

	m.minorUnits = minorUnits
	return nil
}

// setCurrency sets the currency code with validation.
// Note: We intentionally use a pointer receiver here while other methods use value
// receivers, enabling self-encapsulated validation during object construction.
func (m *Money) setCurrency(currency string) error {
	if len(currency) != 3 || strings.ToUpper(currency) != currency {
		return errs.NewValueIsInvalidErrorWithCause("currency",
			fmt.Errorf("%q is not a three-letter uppercase code", currency))
	}

	m.currency = currency
	return nil
}
