package square

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	apperrors "epc-api/pkg/errors"
	"epc-api/pkg/logger"

	"github.com/google/uuid"
)

// Square API hosts per environment
const (
	SandboxBaseURL    = "https://connect.squareupsandbox.com"
	ProductionBaseURL = "https://connect.squareup.com"
)

// Client creates payments through the Square REST API
type Client struct {
	baseURL       string
	accessToken   string
	applicationID string
	locationID    string
	environment   string
	production    bool
	httpClient    *http.Client
	logger        *logger.Logger
}

// NewClient creates a new Square client. environment selects the sandbox or
// production host unless baseURL overrides it.
func NewClient(baseURL, accessToken, applicationID, locationID, environment string, production bool, logger *logger.Logger) *Client {
	if baseURL == "" {
		baseURL = SandboxBaseURL
		if environment == "production" {
			baseURL = ProductionBaseURL
		}
	}

	return &Client{
		baseURL:       baseURL,
		accessToken:   accessToken,
		applicationID: applicationID,
		locationID:    locationID,
		environment:   environment,
		production:    production,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Configured reports whether the payment provider credentials are present
func (c *Client) Configured() bool {
	return c.accessToken != "" && c.applicationID != "" && c.locationID != ""
}

// Config is the client-side configuration the payment form needs
type Config struct {
	ApplicationID string `json:"applicationId"`
	LocationID    string `json:"locationId"`
	Environment   string `json:"environment"`
}

// Config returns the payment form configuration
func (c *Client) Config() Config {
	return Config{
		ApplicationID: c.applicationID,
		LocationID:    c.locationID,
		Environment:   c.environment,
	}
}

// createPaymentRequest is the create-payment payload
type createPaymentRequest struct {
	SourceID       string      `json:"source_id"`
	IdempotencyKey string      `json:"idempotency_key"`
	AmountMoney    amountMoney `json:"amount_money"`
	LocationID     string      `json:"location_id"`
	Note           string      `json:"note,omitempty"`
}

type amountMoney struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// Payment is the subset of Square's payment object the API reports back
type Payment struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	ReceiptURL  string `json:"receipt_url,omitempty"`
	AmountCents int64  `json:"amount_cents"`
}

// paymentResponse is Square's create-payment envelope
type paymentResponse struct {
	Payment struct {
		ID          string `json:"id"`
		Status      string `json:"status"`
		ReceiptURL  string `json:"receipt_url"`
		AmountMoney struct {
			Amount int64 `json:"amount"`
		} `json:"amount_money"`
	} `json:"payment"`
	Errors []struct {
		Category string `json:"category"`
		Code     string `json:"code"`
		Detail   string `json:"detail"`
	} `json:"errors"`
}

// CreatePayment charges the given card token for the given amount. Each call
// carries a fresh idempotency key, so retrying at the HTTP layer is on the
// caller, not this client; the pipeline does not retry.
func (c *Client) CreatePayment(ctx context.Context, sourceID string, amountCents int64, note string) (*Payment, error) {
	if !c.Configured() {
		return nil, apperrors.NewUnavailableError("payment provider is not configured")
	}

	jsonBody, err := json.Marshal(createPaymentRequest{
		SourceID:       sourceID,
		IdempotencyKey: uuid.NewString(),
		AmountMoney:    amountMoney{Amount: amountCents, Currency: "USD"},
		LocationID:     c.locationID,
		Note:           note,
	})
	if err != nil {
		return nil, apperrors.NewInternalError("failed to marshal payment payload", err)
	}

	endpoint := fmt.Sprintf("%s/v2/payments", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, apperrors.NewInternalError("failed to create request", err)
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.accessToken))
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewExternalError("payment provider request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.NewExternalError("failed to read payment provider response", err)
	}

	var parsed paymentResponse
	if unmarshalErr := json.Unmarshal(body, &parsed); unmarshalErr != nil && resp.StatusCode < 300 {
		return nil, apperrors.NewExternalError("failed to parse payment provider response", unmarshalErr)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail := ""
		if len(parsed.Errors) > 0 {
			detail = parsed.Errors[0].Detail
		}

		c.logger.WithFields(map[string]interface{}{
			"status_code": resp.StatusCode,
			"detail":      detail,
		}).Error("Payment provider returned an error")

		appErr := apperrors.NewExternalError("payment failed", nil)
		if !c.production && detail != "" {
			appErr.Details = map[string]interface{}{"upstream": detail}
		}
		return nil, appErr
	}

	payment := &Payment{
		ID:          parsed.Payment.ID,
		Status:      parsed.Payment.Status,
		ReceiptURL:  parsed.Payment.ReceiptURL,
		AmountCents: parsed.Payment.AmountMoney.Amount,
	}

	c.logger.WithFields(map[string]interface{}{
		"payment_id": payment.ID,
		"status":     payment.Status,
	}).Info("Payment created")

	return payment, nil
}
