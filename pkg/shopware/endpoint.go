package shopware

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidEndpoint marks an endpoint string rejected before URL
// construction.
var ErrInvalidEndpoint = errors.New("invalid endpoint")

var endpointPattern = regexp.MustCompile(`^[A-Za-z0-9\-_./]+$`)

// validateEndpoint guards URL construction against free-form caller input:
// empty paths, path traversal and characters outside [A-Za-z0-9-_./] are
// rejected. A leading slash is tolerated and stripped by formatURL.
func validateEndpoint(endpoint string) error {
	trimmed := strings.TrimPrefix(endpoint, "/")
	if trimmed == "" {
		return fmt.Errorf("shopware: %w: empty path", ErrInvalidEndpoint)
	}
	if strings.Contains(trimmed, "..") {
		return fmt.Errorf("shopware: %w %q: path traversal", ErrInvalidEndpoint, endpoint)
	}
	if !endpointPattern.MatchString(trimmed) {
		return fmt.Errorf("shopware: %w %q: disallowed characters", ErrInvalidEndpoint, endpoint)
	}
	return nil
}

// formatURL joins a base URL and a request endpoint, like
// https://shop.example.com/api + oauth/token.
func formatURL(base, endpoint string) string {
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(endpoint, "/")
}
