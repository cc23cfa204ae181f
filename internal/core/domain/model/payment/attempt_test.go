package payment_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/payment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAttempt(t *testing.T) *payment.Attempt {
	t.Helper()

	amount, err := kernel.NewMoney(150000, "CDF")
	require.NoError(t, err)
	orderID := kernel.NewUUID()

	attempt, err := payment.NewAttempt(
		kernel.NewUUID(), &orderID, nil,
		payment.KindCourierFee, amount, "+243811234567", time.Now().UTC(),
	)
	require.NoError(t, err)
	return attempt
}

func TestNewAttempt(t *testing.T) {
	t.Run("valid_attempt", func(t *testing.T) {
		attempt := testAttempt(t)

		assert.Equal(t, payment.StatusPending, attempt.Status())
		assert.Equal(t, payment.KindCourierFee, attempt.Kind())
		assert.Zero(t, attempt.Polls())
		assert.False(t, attempt.IsResolved())
		require.NoError(t, attempt.Validate())
	})

	t.Run("zero_amount_is_rejected", func(t *testing.T) {
		amount, _ := kernel.NewMoney(0, "CDF")

		_, err := payment.NewAttempt(
			kernel.NewUUID(), nil, nil,
			payment.KindSellerVerification, amount, "+243811234567", time.Now(),
		)

		require.Error(t, err)
	})

	t.Run("missing_payer_phone_is_rejected", func(t *testing.T) {
		amount, _ := kernel.NewMoney(150000, "CDF")

		_, err := payment.NewAttempt(
			kernel.NewUUID(), nil, nil,
			payment.KindSellerVerification, amount, "", time.Now(),
		)

		require.Error(t, err)
	})

	t.Run("invalid_kind_is_rejected", func(t *testing.T) {
		amount, _ := kernel.NewMoney(150000, "CDF")

		_, err := payment.NewAttempt(
			kernel.NewUUID(), nil, nil,
			payment.KindUnknown, amount, "+243811234567", time.Now(),
		)

		require.Error(t, err)
	})
}

func TestAttempt_Resolve(t *testing.T) {
	t.Run("first_resolution_wins", func(t *testing.T) {
		attempt := testAttempt(t)

		require.NoError(t, attempt.Resolve(payment.StatusSuccess))

		assert.Equal(t, payment.StatusSuccess, attempt.Status())
		assert.True(t, attempt.IsResolved())
	})

	t.Run("second_resolution_is_rejected", func(t *testing.T) {
		attempt := testAttempt(t)
		require.NoError(t, attempt.Resolve(payment.StatusSuccess))

		err := attempt.Resolve(payment.StatusFailure)

		require.ErrorIs(t, err, payment.ErrAttemptAlreadyResolved)
		assert.Equal(t, payment.StatusSuccess, attempt.Status())
	})

	t.Run("resolving_to_pending_is_rejected", func(t *testing.T) {
		attempt := testAttempt(t)

		require.Error(t, attempt.Resolve(payment.StatusPending))
		assert.False(t, attempt.IsResolved())
	})

	t.Run("timeout_is_terminal", func(t *testing.T) {
		attempt := testAttempt(t)

		require.NoError(t, attempt.Resolve(payment.StatusTimeout))
		require.ErrorIs(t, attempt.Resolve(payment.StatusSuccess), payment.ErrAttemptAlreadyResolved)
	})
}

func TestAttempt_RecordPoll(t *testing.T) {
	attempt := testAttempt(t)

	attempt.RecordPoll()
	attempt.RecordPoll()

	assert.Equal(t, 2, attempt.Polls())
}

func TestAttemptStatusFromString(t *testing.T) {
	t.Run("gateway_statuses", func(t *testing.T) {
		tests := map[string]payment.AttemptStatus{
			"PENDING": payment.StatusPending,
			"SUCCESS": payment.StatusSuccess,
			"FAILURE": payment.StatusFailure,
			"TIMEOUT": payment.StatusTimeout,
		}

		for s, want := range tests {
			got, err := payment.AttemptStatusFromString(s)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		}
	})

	t.Run("unrecognized_fails_closed", func(t *testing.T) {
		for _, s := range []string{"", "success", "COMPLETED"} {
			_, err := payment.AttemptStatusFromString(s)
			require.Error(t, err, s)
		}
	})
}

func TestKindFromString(t *testing.T) {
	for _, kind := range []payment.Kind{payment.KindCourierFee, payment.KindSellerVerification} {
		parsed, err := payment.KindFromString(kind.String())
		require.NoError(t, err)
		assert.Equal(t, kind, parsed)
	}

	_, err := payment.KindFromString("unknown")
	require.Error(t, err)
}
