package airtable

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"epc-api/internal/domain"
	apperrors "epc-api/pkg/errors"
	"epc-api/pkg/logger"
)

// DefaultBaseURL is the Airtable REST API host
const DefaultBaseURL = "https://api.airtable.com"

// Client talks to the Airtable REST API for one base. It is the only
// mandatory outbound dependency of the submission pipeline: when a create
// fails, the whole submission fails.
type Client struct {
	baseURL    string
	baseID     string
	apiKey     string
	production bool
	httpClient *http.Client
	logger     *logger.Logger
}

// NewClient creates a new Airtable client. production controls whether
// upstream error details are withheld from classified errors.
func NewClient(baseURL, baseID, apiKey string, production bool, logger *logger.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		baseID:     baseID,
		apiKey:     apiKey,
		production: production,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Configured reports whether the credential and base are both present
func (c *Client) Configured() bool {
	return c.baseID != "" && c.apiKey != ""
}

// createRequest is the create-record payload
type createRequest struct {
	Fields   domain.Record `json:"fields"`
	Typecast bool          `json:"typecast,omitempty"`
}

// apiError is the error envelope Airtable returns on failures
type apiError struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// ListedRecord is one record returned by ListRecords
type ListedRecord struct {
	ID          string        `json:"id"`
	CreatedTime string        `json:"createdTime"`
	Fields      domain.Record `json:"fields"`
}

// listResponse is the list-records envelope
type listResponse struct {
	Records []ListedRecord `json:"records"`
}

// CreateRecord posts one record to the given table. Non-success responses are
// classified: 4xx means the store rejected the payload (client error), 5xx
// means the store itself failed (upstream error, surfaced as bad gateway).
func (c *Client) CreateRecord(ctx context.Context, table string, record domain.Record, typecast bool) error {
	if !c.Configured() {
		return apperrors.NewInternalError("record store is not configured", nil)
	}

	jsonBody, err := json.Marshal(createRequest{Fields: record, Typecast: typecast})
	if err != nil {
		return apperrors.NewInternalError("failed to marshal record", err)
	}

	endpoint := fmt.Sprintf("%s/v0/%s/%s", c.baseURL, c.baseID, url.PathEscape(table))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(jsonBody))
	if err != nil {
		return apperrors.NewInternalError("failed to create request", err)
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.NewExternalError("record store request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.NewExternalError("failed to read record store response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.classifyFailure(table, resp.StatusCode, body)
	}

	c.logger.WithFields(map[string]interface{}{
		"table":  table,
		"fields": len(record),
	}).Debug("Record created successfully")

	return nil
}

// ListRecords fetches up to maxRecords records from the given table
func (c *Client) ListRecords(ctx context.Context, table string, maxRecords int) ([]ListedRecord, error) {
	if !c.Configured() {
		return nil, apperrors.NewInternalError("record store is not configured", nil)
	}

	endpoint := fmt.Sprintf("%s/v0/%s/%s?maxRecords=%d", c.baseURL, c.baseID, url.PathEscape(table), maxRecords)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to create request", err)
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewExternalError("record store request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.NewExternalError("failed to read record store response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.classifyFailure(table, resp.StatusCode, body)
	}

	var listed listResponse
	if err := json.Unmarshal(body, &listed); err != nil {
		return nil, apperrors.NewExternalError("failed to parse record store response", err)
	}

	return listed.Records, nil
}

// classifyFailure maps a non-success store response onto the error taxonomy,
// preserving the upstream message outside production so operators can
// diagnose schema mismatches
func (c *Client) classifyFailure(table string, statusCode int, body []byte) error {
	upstream := parseUpstreamMessage(body)

	c.logger.WithFields(map[string]interface{}{
		"table":       table,
		"status_code": statusCode,
		"upstream":    upstream,
	}).Error("Record store returned an error")

	var details map[string]interface{}
	if !c.production && upstream != "" {
		details = map[string]interface{}{"upstream": upstream}
	}

	// Both classes surface as bad gateway: a 4xx here means the store
	// rejected a payload that already passed input validation, which is a
	// schema mismatch an operator has to fix, not something the submitter
	// can correct.
	message := "record store is unavailable"
	if statusCode >= 400 && statusCode < 500 {
		message = "record store rejected the submission"
	}

	return &apperrors.AppError{
		Type:       apperrors.ErrorTypeExternal,
		Message:    message,
		StatusCode: http.StatusBadGateway,
		Details:    details,
	}
}

// parseUpstreamMessage best-effort extracts the error message from a failure
// body, falling back to the raw body text
func parseUpstreamMessage(body []byte) string {
	var parsed apiError
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error.Message != "" {
		return parsed.Error.Message
	}
	if len(body) > 500 {
		body = body[:500]
	}
	return string(body)
}
