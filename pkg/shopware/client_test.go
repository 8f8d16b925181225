package shopware_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rotekhq/shopware6-client/pkg/criteria"
	"github.com/rotekhq/shopware6-client/pkg/shopware"
)

// adminServer serves the token endpoint plus one scripted API endpoint.
// Each API call pops the next response from the script.
type adminServer struct {
	t          *testing.T
	srv        *httptest.Server
	tokenCalls int
	requests   []*http.Request
	bodies     [][]byte
	script     []scripted
}

type scripted struct {
	status int
	body   string
}

func newAdminServer(t *testing.T, script ...scripted) *adminServer {
	s := &adminServer{t: t, script: script}
	s.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/oauth/token" {
			s.tokenCalls++
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"access_token":"at","token_type":"Bearer","expires_in":600,"refresh_token":"rt"}`))
			return
		}
		body, _ := io.ReadAll(r.Body)
		s.requests = append(s.requests, r)
		s.bodies = append(s.bodies, body)

		next := scripted{status: http.StatusOK, body: `{"data":[]}`}
		if len(s.script) > 0 {
			next = s.script[0]
			s.script = s.script[1:]
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(next.status)
		w.Write([]byte(next.body))
	}))
	t.Cleanup(s.srv.Close)
	return s
}

func (s *adminServer) client(opts ...shopware.AdminOption) *shopware.AdminClient {
	cfg := shopware.Config{
		AdminAPIURL: s.srv.URL + "/api",
		Username:    "admin",
		Password:    "secret",
		GrantType:   shopware.GrantUserCredentials,
	}
	return shopware.NewAdminClient(cfg, opts...)
}

func TestAdminClientDefaultHeaders(t *testing.T) {
	t.Parallel()

	s := newAdminServer(t, scripted{http.StatusOK, `{"total":0}`})
	c := s.client()

	_, err := c.Post(context.Background(), "search/product", nil, nil)
	require.NoError(t, err)

	require.Len(t, s.requests, 1)
	r := s.requests[0]
	assert.Equal(t, "/api/search/product", r.URL.Path)
	assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
	assert.Equal(t, "application/json", r.Header.Get("Accept"))
	assert.Equal(t, "Bearer at", r.Header.Get("Authorization"))
	assert.NotEmpty(t, r.Header.Get("X-Request-Id"))
}

func TestAdminClientCustomHeadersOverride(t *testing.T) {
	t.Parallel()

	s := newAdminServer(t, scripted{http.StatusOK, `{}`})
	c := s.client()

	headers := shopware.MergeHeaders(
		shopware.HeadersIndexingDisable,
		shopware.HeadersFailOnErrorOff,
		map[string]string{"Accept": "application/vnd.api+json"},
	)
	_, err := c.Post(context.Background(), "_action/sync", map[string]any{}, headers)
	require.NoError(t, err)

	r := s.requests[0]
	assert.Equal(t, "disable-indexing", r.Header.Get("indexing-behavior"))
	assert.Equal(t, "false", r.Header.Get("fail-on-error"))
	assert.Equal(t, "application/vnd.api+json", r.Header.Get("Accept"))
	assert.Equal(t, "Bearer at", r.Header.Get("Authorization"))
}

func TestBulkWriteHeaderValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		headers map[string]string
		key     string
		value   string
	}{
		{"single transaction", shopware.HeadersWriteInSingleTransaction, "single-operation", "true"},
		{"separate transactions", shopware.HeadersWriteInSeparateTransactions, "single-operation", "false"},
		{"synchronous indexing", shopware.HeadersIndexingSynchronous, "indexing-behavior", "null"},
		{"queue indexing", shopware.HeadersIndexingQueue, "indexing-behavior", "use-queue-indexing"},
		{"disabled indexing", shopware.HeadersIndexingDisable, "indexing-behavior", "disable-indexing"},
		{"fail on error", shopware.HeadersFailOnErrorOn, "fail-on-error", "true"},
		{"continue on error", shopware.HeadersFailOnErrorOff, "fail-on-error", "false"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := newAdminServer(t, scripted{http.StatusOK, `{}`})
			c := s.client()

			_, err := c.Post(context.Background(), "_action/sync", map[string]any{}, tt.headers)
			require.NoError(t, err)

			assert.Equal(t, tt.value, s.requests[0].Header.Get(tt.key))
		})
	}
}

func TestAdminClientRetriesUnverifiableTokenOnce(t *testing.T) {
	t.Parallel()

	s := newAdminServer(t,
		scripted{http.StatusUnauthorized, `{"errors":[{"detail":"The resource owner or authorization server denied the request. Access token could not be verified."}]}`},
		scripted{http.StatusOK, `{"total":3}`},
	)
	c := s.client()

	resp, err := c.Post(context.Background(), "search/product", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, float64(3), resp["total"])
	assert.Len(t, s.requests, 2)
}

func TestAdminClientUnverifiableTokenRetryBudget(t *testing.T) {
	t.Parallel()

	unverified := scripted{http.StatusUnauthorized, `{"errors":[{"detail":"Access token could not be verified."}]}`}
	s := newAdminServer(t, unverified, unverified, unverified)
	c := s.client()

	_, err := c.Post(context.Background(), "search/product", nil, nil)

	var apiErr *shopware.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	// One attempt plus exactly one retry.
	assert.Len(t, s.requests, 2)
}

func TestAdminClientReresolvesExpiredToken(t *testing.T) {
	t.Parallel()

	s := newAdminServer(t,
		scripted{http.StatusUnauthorized, `{"errors":[{"detail":"Access token is expired"}]}`},
		scripted{http.StatusOK, `{"total":1}`},
	)
	c := s.client()

	resp, err := c.Post(context.Background(), "search/product", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, float64(1), resp["total"])
	assert.Len(t, s.requests, 2)
	// The expiry signal forces a second token resolution before the retry.
	assert.Equal(t, 2, s.tokenCalls)
}

func TestAdminClientPropagatesOtherErrors(t *testing.T) {
	t.Parallel()

	s := newAdminServer(t, scripted{http.StatusInternalServerError, `{"errors":[{"title":"boom"}]}`})
	c := s.client()

	_, err := c.Post(context.Background(), "search/product", nil, nil)

	var apiErr *shopware.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Contains(t, apiErr.Body, "boom")
	assert.Len(t, s.requests, 1)
}

func TestAdminClientEndpointValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		endpoint string
		valid    bool
	}{
		{"plain entity path", "product", true},
		{"nested search path", "search/product", true},
		{"leading slash tolerated", "/search/product", true},
		{"action path", "_action/sync", true},
		{"empty", "", false},
		{"bare slash", "/", false},
		{"path traversal", "product/../../etc/passwd", false},
		{"whitespace", "prod uct", false},
		{"query injection", "product?page=1", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := newAdminServer(t, scripted{http.StatusOK, `{}`})
			c := s.client()

			_, err := c.Post(context.Background(), tt.endpoint, nil, nil)
			if tt.valid {
				require.NoError(t, err)
				require.Len(t, s.requests, 1)
			} else {
				require.ErrorIs(t, err, shopware.ErrInvalidEndpoint)
				assert.Empty(t, s.requests)
			}
		})
	}
}

func TestAdminClientCriteriaPayload(t *testing.T) {
	t.Parallel()

	s := newAdminServer(t, scripted{http.StatusOK, `{}`})
	c := s.client()

	crit := criteria.New()
	require.NoError(t, crit.SetLimit(5))
	crit.Filter = append(crit.Filter, criteria.NewEqualsFilter("active", true))

	_, err := c.Post(context.Background(), "search/product", crit, nil)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(s.bodies[0], &doc))
	assert.Equal(t, float64(5), doc["limit"])
	assert.Equal(t, []any{map[string]any{
		"type":  "equals",
		"field": "active",
		"value": true,
	}}, doc["filter"])
}

func TestAdminClientGetSendsQueryParameters(t *testing.T) {
	t.Parallel()

	s := newAdminServer(t, scripted{http.StatusOK, `{}`})
	c := s.client()

	crit := criteria.New()
	require.NoError(t, crit.SetLimit(10))
	crit.Page = criteria.Int(2)
	crit.Filter = append(crit.Filter, criteria.NewEqualsFilter("active", true))

	_, err := c.Get(context.Background(), "product", crit, nil)
	require.NoError(t, err)

	q := s.requests[0].URL.Query()
	assert.Equal(t, "10", q.Get("limit"))
	assert.Equal(t, "2", q.Get("page"))
	// Nested values travel JSON-encoded.
	assert.JSONEq(t, `[{"type":"equals","field":"active","value":true}]`, q.Get("filter"))
	assert.Empty(t, s.bodies[0])
}

func TestAdminClientEmptyResponseBody(t *testing.T) {
	t.Parallel()

	s := newAdminServer(t, scripted{http.StatusNoContent, ``})
	c := s.client()

	resp, err := c.Delete(context.Background(), "product/0190", nil, nil)
	require.NoError(t, err)
	assert.Empty(t, resp)
}

func TestAdminClientRawPayload(t *testing.T) {
	t.Parallel()

	s := newAdminServer(t, scripted{http.StatusOK, `{}`})
	c := s.client()

	payload := shopware.RawPayload{
		ContentType: "application/octet-stream",
		Body:        []byte{0x89, 0x50, 0x4e, 0x47},
	}
	_, err := c.Post(context.Background(), "_action/media/0190/upload", payload, nil)
	require.NoError(t, err)

	r := s.requests[0]
	assert.Equal(t, "application/octet-stream", r.Header.Get("Content-Type"))
	assert.Equal(t, payload.Body, s.bodies[0])
}

func TestAdminClientRawPayloadRejectsJSONContentType(t *testing.T) {
	t.Parallel()

	s := newAdminServer(t)
	c := s.client()

	payload := shopware.RawPayload{ContentType: "application/json", Body: []byte(`{}`)}
	_, err := c.Post(context.Background(), "product", payload, nil)

	require.Error(t, err)
	// Rejected before any network traffic.
	assert.Empty(t, s.requests)
	assert.Zero(t, s.tokenCalls)
}

func TestAdminClientUnsupportedPayloadType(t *testing.T) {
	t.Parallel()

	s := newAdminServer(t)
	c := s.client()

	_, err := c.Post(context.Background(), "product", 42, nil)
	require.Error(t, err)
	assert.Empty(t, s.requests)
}

func TestExecuteWithParams(t *testing.T) {
	t.Parallel()

	s := newAdminServer(t, scripted{http.StatusOK, `{}`})
	c := s.client()

	params := url.Values{"indexing-behavior": {"disable-indexing"}}
	_, err := c.ExecuteWithParams(context.Background(), http.MethodPost, "_action/sync", map[string]any{}, nil, params)
	require.NoError(t, err)

	assert.Equal(t, "disable-indexing", s.requests[0].URL.Query().Get("indexing-behavior"))
}

func TestExecuteWithParamsRejectsGET(t *testing.T) {
	t.Parallel()

	s := newAdminServer(t)
	c := s.client()

	_, err := c.ExecuteWithParams(context.Background(), http.MethodGet, "product", nil, nil, url.Values{"limit": {"1"}})
	require.Error(t, err)
	assert.Empty(t, s.requests)
}
