package square

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "epc-api/pkg/errors"
	"epc-api/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(baseURL string, production bool) *Client {
	return NewClient(baseURL, "sq_token", "sq_app", "sq_loc", "sandbox", production, logger.NewNop())
}

func TestCreatePayment_Success(t *testing.T) {
	var gotBody createPaymentRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/payments", r.URL.Path)
		assert.Equal(t, "Bearer sq_token", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"payment":{"id":"pay123","status":"COMPLETED","receipt_url":"https://squareup.com/receipt/abc","amount_money":{"amount":15000}}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, false)
	payment, err := client.CreatePayment(context.Background(), "cnon:card-nonce", 15000, "Winter Ball deposit")

	require.NoError(t, err)
	assert.Equal(t, "pay123", payment.ID)
	assert.Equal(t, "COMPLETED", payment.Status)
	assert.Equal(t, int64(15000), payment.AmountCents)

	assert.Equal(t, "cnon:card-nonce", gotBody.SourceID)
	assert.NotEmpty(t, gotBody.IdempotencyKey)
	assert.Equal(t, int64(15000), gotBody.AmountMoney.Amount)
	assert.Equal(t, "USD", gotBody.AmountMoney.Currency)
	assert.Equal(t, "sq_loc", gotBody.LocationID)
}

func TestCreatePayment_FreshIdempotencyKeyPerCall(t *testing.T) {
	var keys []string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body createPaymentRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		keys = append(keys, body.IdempotencyKey)

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"payment":{"id":"pay123","status":"COMPLETED","amount_money":{"amount":100}}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, false)
	for i := 0; i < 2; i++ {
		_, err := client.CreatePayment(context.Background(), "cnon:card-nonce", 100, "")
		require.NoError(t, err)
	}

	require.Len(t, keys, 2)
	assert.NotEqual(t, keys[0], keys[1])
}

func TestCreatePayment_NotConfigured(t *testing.T) {
	client := NewClient("", "", "", "", "sandbox", false, logger.NewNop())
	payment, err := client.CreatePayment(context.Background(), "cnon:card-nonce", 100, "")

	assert.Nil(t, payment)
	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusServiceUnavailable, appErr.StatusCode)
}

func TestCreatePayment_UpstreamDecline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(`{"errors":[{"category":"PAYMENT_METHOD_ERROR","code":"CARD_DECLINED","detail":"Card declined."}]}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, false)
	payment, err := client.CreatePayment(context.Background(), "cnon:card-nonce", 100, "")

	assert.Nil(t, payment)
	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusBadGateway, appErr.StatusCode)
	require.NotNil(t, appErr.Details)
	assert.Equal(t, "Card declined.", appErr.Details["upstream"])
}

func TestCreatePayment_ProductionWithholdsDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(`{"errors":[{"category":"PAYMENT_METHOD_ERROR","code":"CARD_DECLINED","detail":"Card declined."}]}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, true)
	_, err := client.CreatePayment(context.Background(), "cnon:card-nonce", 100, "")

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Nil(t, appErr.Details)
}

func TestConfig(t *testing.T) {
	client := newTestClient("", false)
	cfg := client.Config()

	assert.Equal(t, "sq_app", cfg.ApplicationID)
	assert.Equal(t, "sq_loc", cfg.LocationID)
	assert.Equal(t, "sandbox", cfg.Environment)
}

func TestNewClient_EnvironmentSelectsHost(t *testing.T) {
	sandbox := NewClient("", "tok", "app", "loc", "sandbox", false, logger.NewNop())
	assert.Equal(t, SandboxBaseURL, sandbox.baseURL)

	production := NewClient("", "tok", "app", "loc", "production", true, logger.NewNop())
	assert.Equal(t, ProductionBaseURL, production.baseURL)
}
