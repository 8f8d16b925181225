// Package shopware implements a typed client for the Shopware 6 admin and
// store APIs: OAuth2 token management, a retrying request engine, and
// offset pagination on top of the criteria query DSL.
package shopware

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/rotekhq/shopware6-client/internal/metrics"
	"github.com/rotekhq/shopware6-client/pkg/criteria"
)

const tracerName = "github.com/rotekhq/shopware6-client/pkg/shopware"

// RawPayload carries a pre-encoded request body, for instance a file
// upload. ContentType is a full MIME type like "application/octet-stream".
// JSON content must be passed as a Criteria or map instead; mixing raw
// bytes with a JSON content type is rejected before any network call.
type RawPayload struct {
	ContentType string
	Body        []byte
}

// AdminClient issues authenticated requests against the admin API. One
// client instance owns one token record; concurrent use from multiple
// goroutines requires external synchronization.
type AdminClient struct {
	cfg       Config
	transport Transport
	tokens    *TokenManager
	logger    *slog.Logger
	limiter   *RateLimiter
	tracer    trace.Tracer
	nowFunc   func() time.Time
}

// AdminOption configures the AdminClient.
type AdminOption func(*AdminClient)

// WithTransport overrides the default net/http transport.
func WithTransport(t Transport) AdminOption {
	return func(c *AdminClient) {
		c.transport = t
	}
}

// WithHTTPClient overrides the http.Client of the default transport.
func WithHTTPClient(hc *http.Client) AdminOption {
	return func(c *AdminClient) {
		c.transport = NewHTTPTransport(hc)
	}
}

// WithLogger sets the logger. Without one the client is silent.
func WithLogger(l *slog.Logger) AdminOption {
	return func(c *AdminClient) {
		c.logger = l
	}
}

// WithRateLimiter injects a rate limiter that every request passes through
// before hitting the wire.
func WithRateLimiter(r *RateLimiter) AdminOption {
	return func(c *AdminClient) {
		c.limiter = r
	}
}

// WithNowFunc overrides the token expiry clock for testing. It is only
// consulted during construction, to hand the clock down to the token
// manager.
func WithNowFunc(f func() time.Time) AdminOption {
	return func(c *AdminClient) {
		c.nowFunc = f
	}
}

// NewAdminClient creates an admin API client for the given configuration.
func NewAdminClient(cfg Config, opts ...AdminOption) *AdminClient {
	c := &AdminClient{
		cfg:    cfg,
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.transport == nil {
		c.transport = NewHTTPTransport(nil)
	}
	tokenOpts := []TokenOption{}
	if c.nowFunc != nil {
		tokenOpts = append(tokenOpts, WithTokenNowFunc(c.nowFunc))
	}
	if c.logger != nil {
		tokenOpts = append(tokenOpts, WithTokenLogger(c.logger))
	}
	c.tokens = NewTokenManager(cfg, c.transport, tokenOpts...)
	return c
}

// Tokens exposes the client's token manager, mainly so callers can switch
// the grant strategy between calls.
func (c *AdminClient) Tokens() *TokenManager {
	return c.tokens
}

// Get makes a GET request. A map or Criteria payload is sent as query
// parameters.
func (c *AdminClient) Get(ctx context.Context, endpoint string, payload any, headers map[string]string) (map[string]any, error) {
	return c.Execute(ctx, http.MethodGet, endpoint, payload, headers)
}

// Post makes a POST request.
func (c *AdminClient) Post(ctx context.Context, endpoint string, payload any, headers map[string]string) (map[string]any, error) {
	return c.Execute(ctx, http.MethodPost, endpoint, payload, headers)
}

// Put makes a PUT request.
func (c *AdminClient) Put(ctx context.Context, endpoint string, payload any, headers map[string]string) (map[string]any, error) {
	return c.Execute(ctx, http.MethodPut, endpoint, payload, headers)
}

// Patch makes a PATCH request.
func (c *AdminClient) Patch(ctx context.Context, endpoint string, payload any, headers map[string]string) (map[string]any, error) {
	return c.Execute(ctx, http.MethodPatch, endpoint, payload, headers)
}

// Delete makes a DELETE request.
func (c *AdminClient) Delete(ctx context.Context, endpoint string, payload any, headers map[string]string) (map[string]any, error) {
	return c.Execute(ctx, http.MethodDelete, endpoint, payload, headers)
}

// Execute issues one authenticated call: it resolves a valid token,
// serializes the payload, performs the request and decodes the JSON
// response. Known transient failures are retried at most once beyond the
// first attempt: a spurious "token could not be verified" rejection is
// simply retried, a remote token-expiry signal re-runs the token
// resolution first. Everything else propagates unchanged.
func (c *AdminClient) Execute(ctx context.Context, method, endpoint string, payload any, headers map[string]string) (map[string]any, error) {
	return c.execute(ctx, method, endpoint, payload, headers, nil)
}

// ExecuteWithParams is Execute with additional query parameters, used by
// write endpoints such as /_action/sync. Query parameters for GET requests
// must be provided as the payload instead.
func (c *AdminClient) ExecuteWithParams(ctx context.Context, method, endpoint string, payload any, headers map[string]string, params url.Values) (map[string]any, error) {
	if method == http.MethodGet && len(params) > 0 {
		return nil, fmt.Errorf("shopware: query parameters for GET requests need to be provided as payload")
	}
	return c.execute(ctx, method, endpoint, payload, headers, params)
}

// retry budget: at most one extra attempt beyond the first.
const maxRetries = 1

func (c *AdminClient) execute(ctx context.Context, method, endpoint string, payload any, headers map[string]string, params url.Values) (map[string]any, error) {
	if err := validateEndpoint(endpoint); err != nil {
		return nil, err
	}

	body, query, contentType, err := serializePayload(method, payload)
	if err != nil {
		return nil, err
	}
	for key, vals := range params {
		for _, v := range vals {
			query.Add(key, v)
		}
	}

	ctx, span := c.tracer.Start(ctx, "shopware.admin.request", trace.WithAttributes(
		attribute.String("http.request.method", method),
		attribute.String("shopware.endpoint", endpoint),
	))
	defer span.End()

	start := time.Now()
	defer func() {
		metrics.APIRequestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	}()

	for attempt := 0; ; attempt++ {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("rate limit: %w", err)
			}
		}

		token, err := c.tokens.EnsureValidToken(ctx)
		if err != nil {
			span.SetStatus(codes.Error, "token resolution failed")
			span.RecordError(err)
			return nil, err
		}

		requestID := uuid.NewString()
		reqHeaders := map[string]string{
			"Content-Type":  contentType,
			"Accept":        "application/json",
			"Authorization": "Bearer " + token,
			"X-Request-Id":  requestID,
		}
		for key, value := range headers {
			reqHeaders[key] = value
		}

		if c.logger != nil {
			c.logger.Debug("admin API request",
				"method", method,
				"endpoint", endpoint,
				"attempt", attempt+1,
				"request_id", requestID,
			)
		}

		status, respBody, err := c.transport.Send(ctx, method, formatURL(c.cfg.AdminAPIURL, endpoint), reqHeaders, query, body)
		if err != nil {
			span.SetStatus(codes.Error, "transport failure")
			span.RecordError(err)
			return nil, fmt.Errorf("executing %s %s: %w", method, endpoint, err)
		}

		metrics.APICallsTotal.WithLabelValues(method, strconv.Itoa(status/100*100)).Inc()

		if status >= 200 && status <= 299 {
			return decodeDocument(respBody), nil
		}

		apiErr := &APIError{Status: status, Body: string(respBody)}

		if attempt < maxRetries {
			// A spurious "token could not be verified" rejection is a known
			// remote race condition; one plain retry resolves it.
			if apiErr.IsTokenUnverifiable() {
				metrics.APIRetriesTotal.WithLabelValues("token_unverifiable").Inc()
				if c.logger != nil {
					c.logger.Warn("token could not be verified, retrying once",
						"endpoint", endpoint, "request_id", requestID)
				}
				continue
			}
			if apiErr.IsTokenExpired() {
				metrics.APIRetriesTotal.WithLabelValues("token_expired").Inc()
				if c.logger != nil {
					c.logger.Warn("token expired remotely, re-resolving and retrying once",
						"endpoint", endpoint, "request_id", requestID)
				}
				c.tokens.Invalidate()
				continue
			}
		}

		span.SetStatus(codes.Error, "API error")
		span.RecordError(apiErr)
		return nil, apiErr
	}
}

// serializePayload turns the caller's payload into a request body or, for
// GET, query parameters. Criteria serialize through ToMap first.
func serializePayload(method string, payload any) (body []byte, query url.Values, contentType string, err error) {
	contentType = "application/json"
	query = url.Values{}

	var doc map[string]any
	switch p := payload.(type) {
	case nil:
	case *criteria.Criteria:
		doc = p.ToMap()
	case map[string]any:
		doc = p
	case RawPayload:
		return rawBody(method, p, query)
	case *RawPayload:
		return rawBody(method, *p, query)
	default:
		return nil, nil, "", fmt.Errorf("shopware: unsupported payload type %T", payload)
	}

	if method == http.MethodGet {
		query, err = documentToQuery(doc)
		if err != nil {
			return nil, nil, "", err
		}
		return nil, query, contentType, nil
	}

	if doc == nil {
		doc = map[string]any{}
	}
	body, err = json.Marshal(doc)
	if err != nil {
		return nil, nil, "", fmt.Errorf("encoding payload: %w", err)
	}
	return body, query, contentType, nil
}

func rawBody(method string, p RawPayload, query url.Values) ([]byte, url.Values, string, error) {
	if strings.Contains(strings.ToLower(p.ContentType), "json") {
		return nil, nil, "", fmt.Errorf("shopware: content type %q does not match the raw bytes payload", p.ContentType)
	}
	if method == http.MethodGet {
		return nil, nil, "", fmt.Errorf("shopware: raw payloads are not supported on GET requests")
	}
	return p.Body, query, p.ContentType, nil
}

// documentToQuery flattens a query document into URL parameters: scalars
// are printed, nested structures are JSON-encoded.
func documentToQuery(doc map[string]any) (url.Values, error) {
	query := url.Values{}
	for key, value := range doc {
		switch v := value.(type) {
		case string:
			query.Set(key, v)
		case bool:
			query.Set(key, strconv.FormatBool(v))
		case int:
			query.Set(key, strconv.Itoa(v))
		case int64:
			query.Set(key, strconv.FormatInt(v, 10))
		case float64:
			query.Set(key, strconv.FormatFloat(v, 'f', -1, 64))
		default:
			encoded, err := json.Marshal(v)
			if err != nil {
				return nil, fmt.Errorf("encoding query parameter %q: %w", key, err)
			}
			query.Set(key, string(encoded))
		}
	}
	return query, nil
}

// decodeDocument parses a JSON object response. An empty or undecodable
// body degrades to an empty document so 204 responses pass through cleanly.
func decodeDocument(body []byte) map[string]any {
	doc := map[string]any{}
	if len(body) == 0 {
		return doc
	}
	if err := json.Unmarshal(body, &doc); err != nil {
		return map[string]any{}
	}
	return doc
}
