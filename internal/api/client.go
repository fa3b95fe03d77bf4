package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/amellido/triagetui/internal/models"
	"github.com/rs/zerolog"
)

// Client is a thin typed wrapper over the triage backend's REST surface.
// Every operation maps one HTTP round trip to a typed result or one of the
// error kinds in errors.go. The client never retries; mutating endpoints are
// not idempotent on the backend, so duplicate suppression is the action
// coordinator's job, not this layer's.
type Client struct {
	baseURL string
	http    *http.Client
	logger  zerolog.Logger
}

// NewClient creates a backend client for the given base URL.
func NewClient(baseURL string, timeout time.Duration, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger.With().Str("component", "api").Logger(),
	}
}

// statusBody is the backend's generic response envelope for mutations.
type statusBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// LoadSample asks the backend to ingest its bundled sample emails.
func (c *Client) LoadSample(ctx context.Context) error {
	return c.post(ctx, "load sample", "/load_sample_data", nil)
}

// ListEmails fetches every triaged email, backend-ordered (urgent first).
func (c *Client) ListEmails(ctx context.Context) ([]models.EmailRecord, error) {
	var out []models.EmailRecord
	if err := c.get(ctx, "list emails", "/emails", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FilterEmails fetches the email list narrowed by priority and/or sentiment.
func (c *Client) FilterEmails(ctx context.Context, filter models.EmailFilter) ([]models.EmailRecord, error) {
	q := url.Values{}
	if filter.Priority != "" {
		q.Set("priority", string(filter.Priority))
	}
	if filter.Sentiment != "" {
		q.Set("sentiment", string(filter.Sentiment))
	}
	var out []models.EmailRecord
	if err := c.get(ctx, "filter emails", "/filter_emails", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ProcessEmail submits a new email for triage and AI drafting.
func (c *Client) ProcessEmail(ctx context.Context, draft models.EmailDraft) error {
	return c.post(ctx, "process email", "/process_email", draft)
}

// GetAnalytics fetches the aggregate counts over the current email set.
func (c *Client) GetAnalytics(ctx context.Context) (*models.AnalyticsSnapshot, error) {
	var out models.AnalyticsSnapshot
	if err := c.get(ctx, "get analytics", "/analytics", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SendResponse asks the backend to send the drafted response and mark the
// email resolved.
func (c *Client) SendResponse(ctx context.Context, emailID int) error {
	return c.post(ctx, "send response", "/send_response", map[string]int{"email_id": emailID})
}

// RegenerateResponse asks the backend to redraft the AI response.
func (c *Client) RegenerateResponse(ctx context.Context, emailID int) error {
	return c.post(ctx, "regenerate response", "/regenerate_response", map[string]int{"email_id": emailID})
}

func (c *Client) get(ctx context.Context, op, path string, query url.Values, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	return c.do(op, req, out)
}

func (c *Client) post(ctx context.Context, op, path string, body interface{}) error {
	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return &TransportError{Op: op, Err: err}
		}
		payload = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, payload)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(op, req, nil)
}

func (c *Client) do(op string, req *http.Request, out interface{}) error {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug().Str("op", op).Err(err).Msg("request failed before response")
		return &TransportError{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}

	c.logger.Debug().
		Str("op", op).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("request completed")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		he := &HTTPError{Op: op, Status: resp.StatusCode, StatusText: http.StatusText(resp.StatusCode)}
		var sb statusBody
		if json.Unmarshal(raw, &sb) == nil && sb.Error != "" {
			he.Message = sb.Error
		}
		return he
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &DecodeError{Op: op, Err: fmt.Errorf("decoding response body: %w", err)}
	}
	return nil
}
