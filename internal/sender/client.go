// Package sender submits the contact form to the contact API and turns every
// possible result of that exchange into a contact.Outcome.
package sender

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Zachkp/zach-dev/internal/contact"
)

const (
	// DefaultBaseURL is used when no base URL is configured.
	DefaultBaseURL = "http://localhost:8000/api/v1"
	// DefaultTimeout bounds a single submission.
	DefaultTimeout = 15 * time.Second
	// SendPath is appended to the base URL.
	SendPath = "/contact/send"

	defaultBodyLimit = 64 * 1024
)

// ErrInvalidConfig is returned by New for unusable configuration.
var ErrInvalidConfig = errors.New("sender: invalid config")

// Config configures a Client.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// HTTPClient abstracts the http.Client Do method for easier testing.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client used to reach the API.
func WithHTTPClient(client HTTPClient) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBodyLimit adjusts how many response bytes are read.
func WithBodyLimit(limit int64) Option {
	return func(c *Client) {
		if limit > 0 {
			c.maxBodyBytes = limit
		}
	}
}

// Client performs one POST per Send call. It never retries.
type Client struct {
	logger       zerolog.Logger
	endpoint     string
	timeout      time.Duration
	httpClient   HTTPClient
	maxBodyBytes int64
}

// New builds a Client. An empty BaseURL or zero Timeout falls back to the defaults.
func New(cfg Config, logger zerolog.Logger, opts ...Option) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		return nil, fmt.Errorf("%w: base url %q must be http or https", ErrInvalidConfig, cfg.BaseURL)
	}
	if cfg.Timeout < 0 {
		return nil, fmt.Errorf("%w: negative timeout %v", ErrInvalidConfig, cfg.Timeout)
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	c := &Client{
		logger:       logger,
		endpoint:     base + SendPath,
		timeout:      timeout,
		httpClient:   &http.Client{},
		maxBodyBytes: defaultBodyLimit,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	c.httpClient = loggingClient{next: c.httpClient, logger: logger}

	return c, nil
}

// Endpoint returns the URL submissions are posted to.
func (c *Client) Endpoint() string { return c.endpoint }

// Timeout returns the per-submission timeout.
func (c *Client) Timeout() time.Duration { return c.timeout }

// Send normalizes in, posts it once and classifies the result.
func (c *Client) Send(ctx context.Context, in contact.Input) contact.Outcome {
	body, terr := c.post(ctx, in.Normalized())
	outcome := c.classify(body, terr)

	ev := c.logger.Info()
	if !contact.IsSuccess(outcome) {
		ev = c.logger.Warn()
	}
	ev.Str("outcome", string(outcome.Kind())).Msg("contact submission finished")
	return outcome
}

func (c *Client) post(ctx context.Context, in contact.Input) (SuccessBody, *TransportError) {
	payload, err := json.Marshal(in)
	if err != nil {
		return SuccessBody{}, &TransportError{Kind: Other, Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return SuccessBody{}, &TransportError{Kind: Other, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return SuccessBody{}, transportFailure(ctx, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodyBytes))
	if err != nil {
		return SuccessBody{}, transportFailure(ctx, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb ErrorBody
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &eb); err != nil {
				c.logger.Debug().Err(err).Int("status", resp.StatusCode).Msg("error body is not json")
			}
		}
		return SuccessBody{}, &TransportError{Kind: StatusError, Status: resp.StatusCode, Body: eb}
	}

	var sb SuccessBody
	if err := json.Unmarshal(raw, &sb); err != nil {
		return SuccessBody{}, &TransportError{Kind: Other, Err: fmt.Errorf("decode response: %w", err)}
	}
	return sb, nil
}

// transportFailure separates timeouts from connection level failures.
func transportFailure(ctx context.Context, err error) *TransportError {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &TransportError{Kind: TimedOut, Err: err}
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return &TransportError{Kind: TimedOut, Err: err}
	}
	if errors.Is(err, context.Canceled) {
		return &TransportError{Kind: Other, Err: err}
	}
	return &TransportError{Kind: NoResponse, Err: err}
}

func (c *Client) classify(body SuccessBody, terr *TransportError) contact.Outcome {
	if terr == nil {
		if body.Data != nil {
			c.logger.Debug().
				Str("id", body.Data.ID).
				Str("category", body.Data.Category).
				Str("priority", body.Data.Priority).
				Str("status", body.Data.Status).
				Msg("contact message accepted")
		}
		return Classify(body, nil)
	}

	c.logger.Debug().
		Str("kind", terr.Kind.String()).
		Int("status", terr.Status).
		AnErr("cause", terr.Err).
		Msg("contact submission failed")

	if terr.Kind == StatusError && terr.Status == http.StatusUnprocessableEntity {
		if _, dropped, ok := fieldErrors(terr.Body.Data); ok && dropped > 0 {
			c.logger.Warn().Int("dropped_keys", dropped).Msg("validation error objects carried more than one key")
		}
	}
	return Classify(body, terr)
}

// Classify maps the result of one exchange onto a contact.Outcome.
func Classify(body SuccessBody, terr *TransportError) contact.Outcome {
	if terr == nil {
		if body.Success {
			return contact.Success{Message: body.Message}
		}
		return contact.UnknownError{Message: body.Message}
	}

	switch terr.Kind {
	case TimedOut:
		return contact.Timeout{}
	case NoResponse:
		return contact.NetworkError{}
	case StatusError:
		return classifyStatus(terr.Status, terr.Body)
	default:
		return contact.UnknownError{}
	}
}

func classifyStatus(status int, body ErrorBody) contact.Outcome {
	switch status {
	case http.StatusUnprocessableEntity:
		if fields, _, ok := fieldErrors(body.Data); ok {
			return contact.ValidationRejected{Fields: fields, Message: body.Message}
		}
	case http.StatusTooManyRequests:
		return contact.RateLimited{}
	case http.StatusBadRequest:
		return contact.BadRequest{Message: body.Message}
	case http.StatusInternalServerError:
		return contact.ServerError{}
	}
	return contact.UnexpectedStatus(status, body.Message)
}

// fieldErrors reads a 422 data list of single-pair objects. Only the first
// key of each object is used and unknown field names are dropped. dropped
// counts the extra keys that were ignored.
func fieldErrors(data json.RawMessage) (fields contact.FieldErrors, dropped int, ok bool) {
	if len(data) == 0 {
		return fields, 0, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return fields, 0, false
	}
	for _, item := range items {
		key, value, extra, found := firstPair(item)
		dropped += extra
		if !found {
			continue
		}
		if f, known := contact.ParseField(key); known {
			fields.Set(f, value)
		}
	}
	return fields, dropped, true
}

// firstPair returns the first key of a JSON object in document order along
// with its value when that value is a string.
func firstPair(raw json.RawMessage) (key, value string, extra int, ok bool) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil || len(obj) == 0 {
		return "", "", 0, false
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	if _, err := dec.Token(); err != nil {
		return "", "", 0, false
	}
	tok, err := dec.Token()
	if err != nil {
		return "", "", 0, false
	}
	key, isKey := tok.(string)
	if !isKey {
		return "", "", 0, false
	}
	if err := json.Unmarshal(obj[key], &value); err != nil {
		return key, "", len(obj) - 1, false
	}
	return key, value, len(obj) - 1, true
}
