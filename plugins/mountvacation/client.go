package mountvacation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/va6996/mountvacation-mcp/config"
	"github.com/va6996/mountvacation-mcp/log"
	"golang.org/x/time/rate"
)

const (
	BaseURLProduction = "https://api.mountvacation.com"
	SearchEndpoint    = "/accommodations/search/"
	userAgent         = "MountVacation-MCP/1.0"
)

// ErrorKind classifies upstream failures.
type ErrorKind string

const (
	KindTimeout    ErrorKind = "timeout"
	KindConnection ErrorKind = "connection"
	KindAuth       ErrorKind = "auth"
	KindRateLimit  ErrorKind = "rate_limit"
	KindStatus     ErrorKind = "status"
	KindDecode     ErrorKind = "decode"
	KindRemote     ErrorKind = "remote"
	KindCancelled  ErrorKind = "cancelled"
)

// APIError is returned by every failed Client call.
type APIError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Terminal reports whether retrying with another location strategy is pointless.
func (e *APIError) Terminal() bool {
	return e.Kind == KindAuth || e.Kind == KindRateLimit
}

// SearchParams is one upstream search call.
type SearchParams struct {
	Strategy    Strategy
	Arrival     string
	Departure   string
	PersonsAges []int
	Currency    string
}

// Query builds the request query without credentials.
func (p SearchParams) Query(lang string) url.Values {
	q := p.Strategy.Params()
	q.Set("arrival", p.Arrival)
	q.Set("departure", p.Departure)
	q.Set("personsAges", joinAges(p.PersonsAges))
	q.Set("currency", p.Currency)
	q.Set("lang", lang)
	return q
}

func joinAges(ages []int) string {
	parts := make([]string, len(ages))
	for i, a := range ages {
		parts[i] = strconv.Itoa(a)
	}
	return strings.Join(parts, ",")
}

// Client is the MountVacation API client
type Client struct {
	APIKey     string
	BaseURL    string
	Language   string
	HTTPClient *retryablehttp.Client
	Limiter    *rate.Limiter
}

// NewClient creates a client with a retrying transport and a client-side rate limit.
func NewClient(cfg config.MountVacationConfig) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = BaseURLProduction
	}
	lang := cfg.Language
	if lang == "" {
		lang = "en"
	}

	hc := retryablehttp.NewClient()
	hc.RetryMax = 2
	hc.RetryWaitMin = 1 * time.Second
	hc.RetryWaitMax = 4 * time.Second
	hc.CheckRetry = retryPolicy
	hc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	hc.HTTPClient.Timeout = cfg.Timeout()
	hc.Logger = &redactingLogger{next: log.NewLeveledLogger("mountvacation"), secret: cfg.APIKey}

	return &Client{
		APIKey:     cfg.APIKey,
		BaseURL:    baseURL,
		Language:   lang,
		HTTPClient: hc,
		Limiter:    newLimiter(cfg.RateLimitPerMinute),
	}
}

func newLimiter(perMinute int) *rate.Limiter {
	if perMinute <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), perMinute)
}

// retryPolicy retries connection failures and {429, 500, 502, 503, 504}.
func retryPolicy(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if err != nil || resp == nil {
		return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
	}
	switch resp.StatusCode {
	case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true, nil
	}
	return false, nil
}

// Search performs one GET /accommodations/search/ call.
func (c *Client) Search(ctx context.Context, p SearchParams) (*SearchResponse, error) {
	q := p.Query(c.Language)
	body, status, err := c.get(ctx, SearchEndpoint, q)
	if err != nil {
		return nil, err
	}

	var result SearchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		log.Errorf(ctx, "MountVacation: failed to decode response: %v", err)
		return nil, &APIError{Kind: KindDecode, StatusCode: status, Message: "Invalid JSON response from API", Err: err}
	}
	if result.HasError() {
		msg := result.ErrorMessage()
		log.Warnf(ctx, "MountVacation: API reported error: %s", msg)
		return nil, &APIError{Kind: KindRemote, StatusCode: status, Message: msg}
	}

	log.Debugf(ctx, "MountVacation: received %d accommodations", len(result.Accommodations))
	return &result, nil
}

// AccommodationProperties performs GET /accommodations/{id}/properties and returns the body as sent.
func (c *Client) AccommodationProperties(ctx context.Context, accommodationID int64, lang string, includeFacilities bool) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("lang", c.lang(lang))
	if includeFacilities {
		q.Set("includeFacilitiesProperties", "true")
	}
	return c.getProperties(ctx, fmt.Sprintf("/accommodations/%d/properties", accommodationID), q)
}

// FacilityProperties performs GET /accommodations/{id}/facilities/{facilityID}/properties.
func (c *Client) FacilityProperties(ctx context.Context, accommodationID, facilityID int64, lang string) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("lang", c.lang(lang))
	return c.getProperties(ctx, fmt.Sprintf("/accommodations/%d/facilities/%d/properties", accommodationID, facilityID), q)
}

func (c *Client) lang(lang string) string {
	if lang = strings.TrimSpace(lang); lang != "" {
		return lang
	}
	return c.Language
}

func (c *Client) getProperties(ctx context.Context, path string, q url.Values) (json.RawMessage, error) {
	body, status, err := c.get(ctx, path, q)
	if err != nil {
		return nil, err
	}
	var envelope struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		log.Errorf(ctx, "MountVacation: failed to decode %s: %v", path, err)
		return nil, &APIError{Kind: KindDecode, StatusCode: status, Message: "Invalid JSON response from API", Err: err}
	}
	if truthy(envelope.Error) {
		msg := (&SearchResponse{Error: envelope.Error}).ErrorMessage()
		log.Warnf(ctx, "MountVacation: API reported error for %s: %s", path, msg)
		return nil, &APIError{Kind: KindRemote, StatusCode: status, Message: msg}
	}
	return json.RawMessage(body), nil
}

// get sends one authenticated GET and returns the body of a 200 response.
// Every failure comes back as an *APIError.
func (c *Client) get(ctx context.Context, path string, q url.Values) ([]byte, int, error) {
	if err := c.Limiter.Wait(ctx); err != nil {
		if ctx.Err() != nil {
			return nil, 0, classifyTransportError(ctx, ctx.Err())
		}
		return nil, 0, &APIError{Kind: KindRateLimit, Message: "Rate limit exceeded. Please try again later.", Err: err}
	}

	log.Infof(ctx, "MountVacation: GET %s?%s", path, q.Encode())
	q.Set("apiKey", c.APIKey)

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return nil, 0, &APIError{Kind: KindConnection, Message: "Failed to build request", Err: err}
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, 0, classifyTransportError(ctx, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		log.Errorf(ctx, "MountVacation: authentication failed - check credentials")
		return nil, resp.StatusCode, &APIError{Kind: KindAuth, StatusCode: resp.StatusCode, Message: "Authentication failed. Please check your API credentials."}
	case http.StatusTooManyRequests:
		log.Warnf(ctx, "MountVacation: rate limit exceeded")
		return nil, resp.StatusCode, &APIError{Kind: KindRateLimit, StatusCode: resp.StatusCode, Message: "Rate limit exceeded. Please try again later."}
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		log.Warnf(ctx, "MountVacation: API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		return nil, resp.StatusCode, &APIError{Kind: KindStatus, StatusCode: resp.StatusCode, Message: fmt.Sprintf("API request failed with status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, classifyTransportError(ctx, err)
	}
	return body, resp.StatusCode, nil
}

func classifyTransportError(ctx context.Context, err error) error {
	if errors.Is(err, context.Canceled) {
		log.Infof(ctx, "MountVacation: API request cancelled by caller")
		return &APIError{Kind: KindCancelled, Message: "Request cancelled.", Err: err}
	}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		log.Errorf(ctx, "MountVacation: API request timeout")
		return &APIError{Kind: KindTimeout, Message: "Request timeout. Please try again.", Err: err}
	}
	log.Errorf(ctx, "MountVacation: API connection error")
	return &APIError{Kind: KindConnection, Message: "Connection error. Please check your internet connection.", Err: err}
}

// redactingLogger keeps the API key out of the retry client's request logs.
type redactingLogger struct {
	next   retryablehttp.LeveledLogger
	secret string
}

func (l *redactingLogger) Error(msg string, kv ...interface{}) { l.next.Error(msg, l.redact(kv)...) }
func (l *redactingLogger) Info(msg string, kv ...interface{})  { l.next.Info(msg, l.redact(kv)...) }
func (l *redactingLogger) Debug(msg string, kv ...interface{}) { l.next.Debug(msg, l.redact(kv)...) }
func (l *redactingLogger) Warn(msg string, kv ...interface{})  { l.next.Warn(msg, l.redact(kv)...) }

func (l *redactingLogger) redact(kv []interface{}) []interface{} {
	if l.secret == "" {
		return kv
	}
	out := make([]interface{}, len(kv))
	for i, v := range kv {
		var s string
		switch t := v.(type) {
		case string:
			s = t
		case fmt.Stringer:
			s = t.String()
		case error:
			s = t.Error()
		default:
			out[i] = v
			continue
		}
		s = strings.ReplaceAll(s, l.secret, "REDACTED")
		out[i] = strings.ReplaceAll(s, url.QueryEscape(l.secret), "REDACTED")
	}
	return out
}
