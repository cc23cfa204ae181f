package kernel_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("valid_amount", func(t *testing.T) {
		money, err := kernel.NewMoney(150000, "CDF")

		require.NoError(t, err)
		assert.Equal(t, int64(150000), money.MinorUnits())
		assert.Equal(t, "CDF", money.Currency())
		require.NoError(t, money.Validate())
	})

	t.Run("zero_amount_is_allowed", func(t *testing.T) {
		money, err := kernel.NewMoney(0, "CDF")

		require.NoError(t, err)
		assert.True(t, money.IsZero())
	})

	t.Run("negative_amount_is_rejected", func(t *testing.T) {
		_, err := kernel.NewMoney(-1, "CDF")

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("invalid_currency_is_rejected", func(t *testing.T) {
		for _, currency := range []string{"", "C", "cdf", "CDFX"} {
			_, err := kernel.NewMoney(100, currency)
			require.Error(t, err, "currency %q", currency)
		}
	})
}

func TestMoneyFromDecimalString(t *testing.T) {
	t.Run("accepted_formats", func(t *testing.T) {
		tests := []struct {
			input string
			minor int64
		}{
			{"1500.00", 150000},
			{"1500", 150000},
			{"1500.5", 150050},
			{"0.05", 5},
			{" 1500.00 ", 150000},
		}

		for _, tt := range tests {
			t.Run(tt.input, func(t *testing.T) {
				money, err := kernel.MoneyFromDecimalString(tt.input, "CDF")

				require.NoError(t, err)
				assert.Equal(t, tt.minor, money.MinorUnits())
			})
		}
	})

	t.Run("rejected_formats", func(t *testing.T) {
		for _, input := range []string{"", "abc", "1500.505", "1500.", "-1500.00", "1500.x5"} {
			t.Run(input, func(t *testing.T) {
				_, err := kernel.MoneyFromDecimalString(input, "CDF")
				require.Error(t, err)
			})
		}
	})
}

func TestMoney_IsEqual(t *testing.T) {
	t.Run("equal_amounts", func(t *testing.T) {
		a, _ := kernel.NewMoney(150000, "CDF")
		b, _ := kernel.MoneyFromDecimalString("1500.00", "CDF")

		equal, err := a.IsEqual(b)

		require.NoError(t, err)
		assert.True(t, equal)
	})

	t.Run("amount_off_by_one_minor_unit", func(t *testing.T) {
		a, _ := kernel.NewMoney(150000, "CDF")
		b, _ := kernel.NewMoney(150001, "CDF")

		equal, err := a.IsEqual(b)

		require.NoError(t, err)
		assert.False(t, equal)
	})

	t.Run("different_currency", func(t *testing.T) {
		a, _ := kernel.NewMoney(150000, "CDF")
		b, _ := kernel.NewMoney(150000, "USD")

		equal, err := a.IsEqual(b)

		require.NoError(t, err)
		assert.False(t, equal)
	})

	t.Run("zero_value_fails", func(t *testing.T) {
		a, _ := kernel.NewMoney(150000, "CDF")
		var b kernel.Money

		_, err := a.IsEqual(b)

		require.Error(t, err)
	})
}

func TestMoney_String(t *testing.T) {
	money, _ := kernel.NewMoney(150050, "CDF")

	assert.Equal(t, "1500.50 CDF", money.String())
}
