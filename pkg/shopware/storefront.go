package shopware

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/rotekhq/shopware6-client/internal/metrics"
)

// accessKeyHeader authenticates store API requests; no OAuth token is
// involved.
const accessKeyHeader = "sw-access-key"

// StorefrontClient issues requests against the store API of one sales
// channel. Authentication is the channel's access key only, and there is
// no retry: the token races of the admin API do not exist here.
type StorefrontClient struct {
	cfg       Config
	transport Transport
	logger    *slog.Logger
	tracer    trace.Tracer
}

// StorefrontOption configures the StorefrontClient.
type StorefrontOption func(*StorefrontClient)

// WithStorefrontTransport overrides the default net/http transport.
func WithStorefrontTransport(t Transport) StorefrontOption {
	return func(c *StorefrontClient) {
		c.transport = t
	}
}

// WithStorefrontLogger sets the logger.
func WithStorefrontLogger(l *slog.Logger) StorefrontOption {
	return func(c *StorefrontClient) {
		c.logger = l
	}
}

// NewStorefrontClient creates a store API client for the given
// configuration.
func NewStorefrontClient(cfg Config, opts ...StorefrontOption) *StorefrontClient {
	c := &StorefrontClient{
		cfg:    cfg,
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.transport == nil {
		c.transport = NewHTTPTransport(nil)
	}
	return c
}

// Get makes a GET request and expects a single JSON document back.
func (c *StorefrontClient) Get(ctx context.Context, endpoint string, payload any, headers map[string]string) (map[string]any, error) {
	result, err := c.Execute(ctx, http.MethodGet, endpoint, payload, headers)
	if err != nil {
		return nil, err
	}
	doc, ok := result.(map[string]any)
	if !ok {
		return nil, &APIError{Status: http.StatusOK, Body: fmt.Sprintf("expected a JSON object from %s, got %T", endpoint, result)}
	}
	return doc, nil
}

// GetList makes a GET request and expects a JSON list back, for endpoints
// like /store-api/sitemap.
func (c *StorefrontClient) GetList(ctx context.Context, endpoint string, payload any, headers map[string]string) ([]any, error) {
	result, err := c.Execute(ctx, http.MethodGet, endpoint, payload, headers)
	if err != nil {
		return nil, err
	}
	list, ok := result.([]any)
	if !ok {
		return nil, &APIError{Status: http.StatusOK, Body: fmt.Sprintf("expected a JSON list from %s, got %T", endpoint, result)}
	}
	return list, nil
}

// Post makes a POST request.
func (c *StorefrontClient) Post(ctx context.Context, endpoint string, payload any, headers map[string]string) (map[string]any, error) {
	result, err := c.Execute(ctx, http.MethodPost, endpoint, payload, headers)
	if err != nil {
		return nil, err
	}
	doc, _ := result.(map[string]any)
	if doc == nil {
		doc = map[string]any{}
	}
	return doc, nil
}

// Put makes a PUT request.
func (c *StorefrontClient) Put(ctx context.Context, endpoint string, payload any, headers map[string]string) (map[string]any, error) {
	result, err := c.Execute(ctx, http.MethodPut, endpoint, payload, headers)
	if err != nil {
		return nil, err
	}
	doc, _ := result.(map[string]any)
	if doc == nil {
		doc = map[string]any{}
	}
	return doc, nil
}

// Patch makes a PATCH request.
func (c *StorefrontClient) Patch(ctx context.Context, endpoint string, payload any, headers map[string]string) (map[string]any, error) {
	result, err := c.Execute(ctx, http.MethodPatch, endpoint, payload, headers)
	if err != nil {
		return nil, err
	}
	doc, _ := result.(map[string]any)
	if doc == nil {
		doc = map[string]any{}
	}
	return doc, nil
}

// Delete makes a DELETE request.
func (c *StorefrontClient) Delete(ctx context.Context, endpoint string, payload any, headers map[string]string) (map[string]any, error) {
	result, err := c.Execute(ctx, http.MethodDelete, endpoint, payload, headers)
	if err != nil {
		return nil, err
	}
	doc, _ := result.(map[string]any)
	if doc == nil {
		doc = map[string]any{}
	}
	return doc, nil
}

// Execute issues one store API call and returns the decoded JSON value,
// which can be an object or a list depending on the endpoint.
func (c *StorefrontClient) Execute(ctx context.Context, method, endpoint string, payload any, headers map[string]string) (any, error) {
	if c.cfg.StorefrontAPIURL == "" {
		return nil, &ConfigurationError{Field: "storefront_api_url"}
	}
	if c.cfg.StoreAPIAccessKey == "" {
		return nil, &ConfigurationError{Field: "store_api_access_key"}
	}
	if err := validateEndpoint(endpoint); err != nil {
		return nil, err
	}

	body, query, contentType, err := serializePayload(method, payload)
	if err != nil {
		return nil, err
	}

	ctx, span := c.tracer.Start(ctx, "shopware.store.request", trace.WithAttributes(
		attribute.String("http.request.method", method),
		attribute.String("shopware.endpoint", endpoint),
	))
	defer span.End()

	start := time.Now()
	defer func() {
		metrics.APIRequestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	}()

	reqHeaders := map[string]string{
		"Content-Type":  contentType,
		"Accept":        "application/json",
		accessKeyHeader: c.cfg.StoreAPIAccessKey,
		"X-Request-Id":  uuid.NewString(),
	}
	for key, value := range headers {
		reqHeaders[key] = value
	}

	if c.logger != nil {
		c.logger.Debug("store API request", "method", method, "endpoint", endpoint)
	}

	status, respBody, err := c.transport.Send(ctx, method, formatURL(c.cfg.StorefrontAPIURL, endpoint), reqHeaders, query, body)
	if err != nil {
		span.SetStatus(codes.Error, "transport failure")
		span.RecordError(err)
		return nil, fmt.Errorf("executing %s %s: %w", method, endpoint, err)
	}

	metrics.APICallsTotal.WithLabelValues(method, strconv.Itoa(status/100*100)).Inc()

	if status < 200 || status > 299 {
		apiErr := &APIError{Status: status, Body: string(respBody)}
		span.SetStatus(codes.Error, "API error")
		span.RecordError(apiErr)
		return nil, apiErr
	}

	if len(respBody) == 0 {
		return map[string]any{}, nil
	}
	var result any
	if err := json.Unmarshal(respBody, &result); err != nil {
		return map[string]any{}, nil
	}
	return result, nil
}
