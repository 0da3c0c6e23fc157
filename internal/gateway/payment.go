package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// PaymentProcessor is the slice of the processor API the settlement core
// relies on. Amounts cross this boundary in minor units (cents).
type PaymentProcessor interface {
	CreateRefund(ctx context.Context, paymentRef string, amountCents int64, metadata map[string]string) (string, error)
	CreateTransfer(ctx context.Context, amountCents int64, destinationAccount, transferGroup string, metadata map[string]string) (string, error)
}

// Client talks to the processor's REST API. Each call carries a fresh
// idempotency key; retries of a whole operation are de-duplicated higher
// up through the transfer ledger, not here.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

type refundRequest struct {
	PaymentRef string            `json:"payment_ref"`
	Amount     int64             `json:"amount"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

type transferRequest struct {
	Amount        int64             `json:"amount"`
	Destination   string            `json:"destination"`
	TransferGroup string            `json:"transfer_group"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

type apiResponse struct {
	ID    string `json:"id"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) CreateRefund(ctx context.Context, paymentRef string, amountCents int64, metadata map[string]string) (string, error) {
	if paymentRef == "" {
		return "", fmt.Errorf("payment reference is empty")
	}
	if amountCents <= 0 {
		return "", fmt.Errorf("refund amount must be positive, got %d", amountCents)
	}
	return c.post(ctx, "/refunds", refundRequest{
		PaymentRef: paymentRef,
		Amount:     amountCents,
		Metadata:   metadata,
	})
}

func (c *Client) CreateTransfer(ctx context.Context, amountCents int64, destinationAccount, transferGroup string, metadata map[string]string) (string, error) {
	if destinationAccount == "" {
		return "", fmt.Errorf("destination account is empty")
	}
	if amountCents <= 0 {
		return "", fmt.Errorf("transfer amount must be positive, got %d", amountCents)
	}
	return c.post(ctx, "/transfers", transferRequest{
		Amount:        amountCents,
		Destination:   destinationAccount,
		TransferGroup: transferGroup,
		Metadata:      metadata,
	})
}

func (c *Client) post(ctx context.Context, path string, payload any) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Idempotency-Key", uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("payment api %s: %w", path, err)
	}
	defer resp.Body.Close()

	var out apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("payment api %s: decode response: %w", path, err)
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("payment api %s: status %d: %s", path, resp.StatusCode, out.Error.Message)
	}
	if out.ID == "" {
		return "", fmt.Errorf("payment api %s: response missing id", path)
	}
	return out.ID, nil
}

// Cents converts a major-unit amount to minor units, rounding to the
// nearest cent.
func Cents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
