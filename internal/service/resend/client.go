package resend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"epc-api/internal/domain"
	"epc-api/pkg/logger"
)

// DefaultBaseURL is the Resend REST API host
const DefaultBaseURL = "https://api.resend.com"

// Client sends notification emails through the Resend API. Every call is
// best-effort: the submission pipeline never fails because a notification
// could not be sent.
type Client struct {
	baseURL    string
	apiKey     string
	from       string
	httpClient *http.Client
	logger     *logger.Logger
}

// NewClient creates a new Resend client
func NewClient(baseURL, apiKey, from string, logger *logger.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		from:    from,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Configured reports whether the provider credential is present
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// sendRequest is the send-email payload
type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// Send delivers a notification email. The returned bool reports whether the
// email was sent; it is false without an error when the credential is absent.
// Failures are logged by the caller and must never fail the submission - the
// authoritative action (record persisted) already succeeded by the time this
// runs.
func (c *Client) Send(ctx context.Context, email *domain.NotificationEmail) (bool, error) {
	if !c.Configured() {
		c.logger.Warn("Email provider credential absent, skipping notification")
		return false, nil
	}

	jsonBody, err := json.Marshal(sendRequest{
		From:    c.from,
		To:      email.Recipients,
		Subject: email.Subject,
		HTML:    email.HTML,
	})
	if err != nil {
		return false, fmt.Errorf("failed to marshal email payload: %w", err)
	}

	endpoint := fmt.Sprintf("%s/emails", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(jsonBody))
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("failed to call email provider: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, fmt.Errorf("failed to read email provider response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return false, fmt.Errorf("email provider returned status %d: %s", resp.StatusCode, string(body))
	}

	c.logger.WithFields(map[string]interface{}{
		"subject":    email.Subject,
		"recipients": len(email.Recipients),
	}).Debug("Notification email sent")

	return true, nil
}
