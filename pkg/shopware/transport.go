package shopware

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const defaultHTTPTimeout = 30 * time.Second

// Transport issues one HTTP round trip. It exists so tests and embedders can
// substitute the wire layer; the default implementation sits on net/http.
// Timeouts and cancellation are the transport's concern, not the request
// engine's.
type Transport interface {
	Send(ctx context.Context, method, rawURL string, headers map[string]string, query url.Values, body []byte) (status int, respBody []byte, err error)
}

type httpTransport struct {
	client *http.Client
}

// NewHTTPTransport returns the default Transport on top of the given
// http.Client. A nil client gets a bounded default timeout.
func NewHTTPTransport(client *http.Client) Transport {
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &httpTransport{client: client}
}

// Send implements Transport.
func (t *httpTransport) Send(
	ctx context.Context,
	method, rawURL string,
	headers map[string]string,
	query url.Values,
	body []byte,
) (int, []byte, error) {
	if len(query) > 0 {
		u, err := url.Parse(rawURL)
		if err != nil {
			return 0, nil, fmt.Errorf("parsing request URL: %w", err)
		}
		values := u.Query()
		for key, vals := range query {
			for _, v := range vals {
				values.Add(key, v)
			}
		}
		u.RawQuery = values.Encode()
		rawURL = u.String()
	}

	var reader io.Reader = http.NoBody
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("creating HTTP request: %w", err)
	}

	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("executing HTTP request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("reading response body: %w", err)
	}

	return resp.StatusCode, respBody, nil
}
