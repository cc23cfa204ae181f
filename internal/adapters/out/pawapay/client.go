// Package pawapay implements the payment gateway port against the pawaPay
// deposits API.
package pawapay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/payment"
	"fulfillment/internal/core/ports"
)

// Client talks to the pawaPay deposits API. Deposit ids are client-generated
// UUIDs, which makes initiation idempotent at the provider.
type Client struct {
	baseURL    string
	apiToken   string
	httpClient *http.Client
}

// NewClient creates a gateway client for the given API endpoint.
func NewClient(baseURL, apiToken string) *Client {
	return &Client{
		baseURL:  baseURL,
		apiToken: apiToken,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// depositRequest is the initiation payload.
type depositRequest struct {
	DepositID            string       `json:"depositId"`
	Amount               string       `json:"amount"`
	Currency             string       `json:"currency"`
	Payer                depositPayer `json:"payer"`
	StatementDescription string       `json:"statementDescription,omitempty"`
}

type depositPayer struct {
	Type    string `json:"type"`
	Address string `json:"address"`
}

// depositStatus is one entry of the provider's deposit lookup response.
type depositStatus struct {
	DepositID string `json:"depositId"`
	Status    string `json:"status"`
	Amount    string `json:"requestedAmount"`
	Currency  string `json:"currency"`
}

// InitiateDeposit asks the provider to charge the payer's mobile-money account.
func (c *Client) InitiateDeposit(
	ctx context.Context,
	depositID kernel.UUID,
	amount kernel.Money,
	payerPhone string,
	statementDescription string,
) error {
	body, err := json.Marshal(depositRequest{
		DepositID: depositID.String(),
		Amount:    decimalAmount(amount),
		Currency:  amount.Currency(),
		Payer: depositPayer{
			Type:    "MSISDN",
			Address: payerPhone,
		},
		StatementDescription: statementDescription,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/deposits", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("pawapay deposit initiation failed: status %d: %s", resp.StatusCode, payload)
	}

	return nil
}

// CheckPayment returns the provider's current view of the deposit.
func (c *Client) CheckPayment(ctx context.Context, depositID kernel.UUID) (ports.DepositStatus, error) {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, c.baseURL+"/deposits/"+depositID.String(), nil)
	if err != nil {
		return ports.DepositStatus{}, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ports.DepositStatus{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return ports.DepositStatus{},
			fmt.Errorf("pawapay deposit lookup failed: status %d: %s", resp.StatusCode, payload)
	}

	var statuses []depositStatus
	if err := json.NewDecoder(resp.Body).Decode(&statuses); err != nil {
		return ports.DepositStatus{}, err
	}
	if len(statuses) == 0 {
		return ports.DepositStatus{Status: payment.StatusPending}, nil
	}

	result := ports.DepositStatus{Status: mapProviderStatus(statuses[0].Status)}
	if statuses[0].Amount != "" {
		amount, err := kernel.MoneyFromDecimalString(statuses[0].Amount, statuses[0].Currency)
		if err == nil {
			result.Amount = &amount
		}
	}

	return result, nil
}

// decimalAmount renders the amount the way the provider expects, e.g. "1500.00".
func decimalAmount(m kernel.Money) string {
	return fmt.Sprintf("%d.%02d", m.MinorUnits()/100, m.MinorUnits()%100)
}

// mapProviderStatus translates provider statuses into reconciliation statuses.
// Unrecognized statuses are treated as still pending so polling continues
// until the confirmation window closes.
func mapProviderStatus(providerStatus string) payment.AttemptStatus {
	switch providerStatus {
	case "COMPLETED":
		return payment.StatusSuccess
	case "FAILED", "REJECTED":
		return payment.StatusFailure
	default:
		return payment.StatusPending
	}
}
