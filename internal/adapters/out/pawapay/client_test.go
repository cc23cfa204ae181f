package pawapay_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"fulfillment/internal/adapters/out/pawapay"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/payment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAmount(t *testing.T) kernel.Money {
	t.Helper()
	amount, err := kernel.NewMoney(150000, "CDF")
	require.NoError(t, err)
	return amount
}

func TestClient_InitiateDeposit(t *testing.T) {
	depositID := kernel.NewUUID()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/deposits", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, depositID.String(), body["depositId"])
		assert.Equal(t, "1500.00", body["amount"])
		assert.Equal(t, "CDF", body["currency"])

		payer, ok := body["payer"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "MSISDN", payer["type"])
		assert.Equal(t, "+243811234567", payer["address"])

		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client := pawapay.NewClient(server.URL, "test-token")

	err := client.InitiateDeposit(context.Background(), depositID, testAmount(t), "+243811234567", "Courier fee")
	assert.NoError(t, err)
}

func TestClient_InitiateDeposit_ProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"errorMessage":"duplicate depositId"}`, http.StatusConflict)
	}))
	defer server.Close()

	client := pawapay.NewClient(server.URL, "test-token")

	err := client.InitiateDeposit(context.Background(), kernel.NewUUID(), testAmount(t), "+243811234567", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "409")
}

func TestClient_CheckPayment(t *testing.T) {
	tests := []struct {
		name           string
		providerStatus string
		expected       payment.AttemptStatus
	}{
		{"completed_maps_to_success", "COMPLETED", payment.StatusSuccess},
		{"failed_maps_to_failure", "FAILED", payment.StatusFailure},
		{"rejected_maps_to_failure", "REJECTED", payment.StatusFailure},
		{"accepted_keeps_polling", "ACCEPTED", payment.StatusPending},
		{"submitted_keeps_polling", "SUBMITTED", payment.StatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			depositID := kernel.NewUUID()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, "/deposits/"+depositID.String(), r.URL.Path)

				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode([]map[string]string{{
					"depositId":       depositID.String(),
					"status":          tt.providerStatus,
					"requestedAmount": "1500.00",
					"currency":        "CDF",
				}})
			}))
			defer server.Close()

			client := pawapay.NewClient(server.URL, "test-token")

			status, err := client.CheckPayment(context.Background(), depositID)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, status.Status)

			require.NotNil(t, status.Amount)
			equal, err := status.Amount.IsEqual(testAmount(t))
			require.NoError(t, err)
			assert.True(t, equal)
		})
	}
}

func TestClient_CheckPayment_EmptyResponseKeepsPolling(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("[]"))
	}))
	defer server.Close()

	client := pawapay.NewClient(server.URL, "test-token")

	status, err := client.CheckPayment(context.Background(), kernel.NewUUID())
	require.NoError(t, err)
	assert.Equal(t, payment.StatusPending, status.Status)
	assert.Nil(t, status.Amount)
}
