package shopware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rotekhq/shopware6-client/pkg/criteria"
	"github.com/rotekhq/shopware6-client/pkg/shopware"
)

func newStorefrontServer(t *testing.T, status int, body string) (*httptest.Server, *[]*http.Request) {
	requests := &[]*http.Request{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*requests = append(*requests, r)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, requests
}

func storefrontConfig(baseURL string) shopware.Config {
	return shopware.Config{
		StorefrontAPIURL:  baseURL + "/store-api",
		StoreAPIAccessKey: "SWSC1234",
	}
}

func TestStorefrontClientSendsAccessKey(t *testing.T) {
	t.Parallel()

	srv, requests := newStorefrontServer(t, http.StatusOK, `{"elements":[]}`)
	c := shopware.NewStorefrontClient(storefrontConfig(srv.URL))

	resp, err := c.Post(context.Background(), "product", criteria.New(), nil)
	require.NoError(t, err)
	assert.Equal(t, []any{}, resp["elements"])

	require.Len(t, *requests, 1)
	r := (*requests)[0]
	assert.Equal(t, "/store-api/product", r.URL.Path)
	assert.Equal(t, "SWSC1234", r.Header.Get("sw-access-key"))
	assert.Empty(t, r.Header.Get("Authorization"))
	assert.NotEmpty(t, r.Header.Get("X-Request-Id"))
}

func TestStorefrontClientGetRejectsListResponse(t *testing.T) {
	t.Parallel()

	srv, _ := newStorefrontServer(t, http.StatusOK, `[{"filename":"sitemap.xml.gz"}]`)
	c := shopware.NewStorefrontClient(storefrontConfig(srv.URL))

	_, err := c.Get(context.Background(), "sitemap", nil, nil)

	var apiErr *shopware.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, apiErr.Body, "expected a JSON object")
}

func TestStorefrontClientGetList(t *testing.T) {
	t.Parallel()

	srv, _ := newStorefrontServer(t, http.StatusOK, `[{"filename":"sitemap.xml.gz"}]`)
	c := shopware.NewStorefrontClient(storefrontConfig(srv.URL))

	list, err := c.GetList(context.Background(), "sitemap", nil, nil)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestStorefrontClientGetListRejectsObjectResponse(t *testing.T) {
	t.Parallel()

	srv, _ := newStorefrontServer(t, http.StatusOK, `{"apiAlias":"product"}`)
	c := shopware.NewStorefrontClient(storefrontConfig(srv.URL))

	_, err := c.GetList(context.Background(), "product/0190", nil, nil)

	var apiErr *shopware.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, apiErr.Body, "expected a JSON list")
}

func TestStorefrontClientNoRetry(t *testing.T) {
	t.Parallel()

	srv, requests := newStorefrontServer(t, http.StatusUnauthorized,
		`{"errors":[{"detail":"Access token could not be verified."}]}`)
	c := shopware.NewStorefrontClient(storefrontConfig(srv.URL))

	_, err := c.Post(context.Background(), "product", nil, nil)

	var apiErr *shopware.APIError
	require.ErrorAs(t, err, &apiErr)
	// The admin engine would retry this; the store client never does.
	assert.Len(t, *requests, 1)
}

func TestStorefrontClientMissingConfiguration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		cfg   shopware.Config
		field string
	}{
		{"no base URL", shopware.Config{StoreAPIAccessKey: "SWSC1234"}, "storefront_api_url"},
		{"no access key", shopware.Config{StorefrontAPIURL: "https://shop.example.com/store-api"}, "store_api_access_key"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := shopware.NewStorefrontClient(tt.cfg)
			_, err := c.Post(context.Background(), "product", nil, nil)

			var cfgErr *shopware.ConfigurationError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestStorefrontClientEndpointValidation(t *testing.T) {
	t.Parallel()

	c := shopware.NewStorefrontClient(storefrontConfig("https://shop.example.com"))

	_, err := c.Get(context.Background(), "product/../../etc/passwd", nil, nil)
	require.ErrorIs(t, err, shopware.ErrInvalidEndpoint)
}
