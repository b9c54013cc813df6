package resend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"epc-api/internal/domain"
	"epc-api/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEmail() *domain.NotificationEmail {
	return &domain.NotificationEmail{
		Subject:    "New Contact Form Submission: Training availability",
		Recipients: []string{"info@epcla.com"},
		HTML:       "<h2>New Contact Form Submission</h2>",
	}
}

func TestSend_Success(t *testing.T) {
	var gotAuth string
	var gotBody sendRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id":"email123"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "re_key", "EPC <noreply@epcla.com>", logger.NewNop())
	sent, err := client.Send(context.Background(), testEmail())

	require.NoError(t, err)
	assert.True(t, sent)
	assert.Equal(t, "Bearer re_key", gotAuth)
	assert.Equal(t, "EPC <noreply@epcla.com>", gotBody.From)
	assert.Equal(t, []string{"info@epcla.com"}, gotBody.To)
	assert.Contains(t, gotBody.Subject, "Training availability")
}

func TestSend_CredentialAbsent(t *testing.T) {
	client := NewClient(DefaultBaseURL, "", "EPC <noreply@epcla.com>", logger.NewNop())
	sent, err := client.Send(context.Background(), testEmail())

	// Not an error: the pipeline just reports the email as unsent
	assert.NoError(t, err)
	assert.False(t, sent)
}

func TestSend_ProviderFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"message":"rate limited"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "re_key", "EPC <noreply@epcla.com>", logger.NewNop())
	sent, err := client.Send(context.Background(), testEmail())

	assert.False(t, sent)
	assert.Error(t, err)
}
