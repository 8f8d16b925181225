package shopware

import (
	"fmt"
	"strings"
)

// ConfigurationError reports a required credential or URL missing from the
// client configuration before a token request could be made.
type ConfigurationError struct {
	Field string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("shopware: %s needed", e.Field)
}

// AuthenticationError reports the token endpoint rejecting an acquisition
// or refresh request.
type AuthenticationError struct {
	Status int
	Body   string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("shopware: token endpoint rejected the request (status %d): %s", e.Status, e.Body)
}

// APIError reports a non-2xx response from a business endpoint. Body carries
// the remote response text verbatim for diagnosability.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("shopware: API error (status %d): %s", e.Status, e.Body)
}

// IsTokenUnverifiable reports the known intermittent false rejection from
// the remote service: error code 9, status 401, "Access token could not be
// verified". A single retry is safe for exactly this class; any other 401
// is not retried on this path.
func (e *APIError) IsTokenUnverifiable() bool {
	return e.Status == 401 && strings.Contains(e.Body, "could not be verified")
}

// IsTokenExpired reports a remote token-expiry signal, which calls for a
// token re-resolution before a single retry.
func (e *APIError) IsTokenExpired() bool {
	return e.Status == 401 && strings.Contains(strings.ToLower(e.Body), "expired")
}
