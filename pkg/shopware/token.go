package shopware

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/rotekhq/shopware6-client/internal/metrics"
)

const (
	tokenEndpoint = "oauth/token"

	// adminClientID is the fixed OAuth2 client of the password and refresh
	// grants against the admin API.
	adminClientID = "administration"

	// refreshBuffer widens the expiry check so a token is renewed shortly
	// before the remote side would reject it.
	refreshBuffer = 60 * time.Second
)

// TokenState classifies the stored token record. The state is computed from
// two facts: is a token present, and does it carry a refresh token while
// being time-expired.
type TokenState int

const (
	// StateNoToken means no token has been acquired yet.
	StateNoToken TokenState = iota
	// StateValid means the stored token is inside its expiry window.
	StateValid
	// StateRefreshable means the token is expiring or expired and carries a
	// refresh token.
	StateRefreshable
	// StateRequiresReacquire means the token is expiring or expired without
	// a refresh token; a full acquisition is needed.
	StateRequiresReacquire
)

// Token is one OAuth2 token record as stored by the TokenManager.
type Token struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	ExpiresAt    time.Time
}

// Refreshable reports whether the record carries a refresh token. The test
// is purely structural, independent of the grant that produced the token,
// so grant strategies may be swapped across calls on one client instance.
func (t *Token) Refreshable() bool {
	return t != nil && t.RefreshToken != ""
}

// TokenManager acquires and refreshes OAuth2 bearer tokens for the admin
// API under the configured grant strategy. It owns exactly one mutable
// token record and is not safe for concurrent use without external
// synchronization.
type TokenManager struct {
	cfg       Config
	transport Transport
	logger    *slog.Logger
	nowFunc   func() time.Time
	token     *Token
}

// TokenOption configures the TokenManager.
type TokenOption func(*TokenManager)

// WithTokenNowFunc overrides the time function for testing.
func WithTokenNowFunc(f func() time.Time) TokenOption {
	return func(m *TokenManager) {
		m.nowFunc = f
	}
}

// WithTokenLogger sets the logger.
func WithTokenLogger(l *slog.Logger) TokenOption {
	return func(m *TokenManager) {
		m.logger = l
	}
}

// NewTokenManager creates a TokenManager for the given configuration.
func NewTokenManager(cfg Config, transport Transport, opts ...TokenOption) *TokenManager {
	m := &TokenManager{
		cfg:       cfg,
		transport: transport,
		nowFunc:   time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.transport == nil {
		m.transport = NewHTTPTransport(nil)
	}
	return m
}

// SetGrantType switches the grant strategy for subsequent acquisitions.
// An already stored token record is kept; refreshability stays a property
// of the record, not of the strategy.
func (m *TokenManager) SetGrantType(grantType string) {
	m.cfg.GrantType = grantType
}

// State returns the classification of the stored token record.
func (m *TokenManager) State() TokenState {
	if m.token == nil {
		return StateNoToken
	}
	if m.nowFunc().Before(m.token.ExpiresAt.Add(-refreshBuffer)) {
		return StateValid
	}
	if m.token.Refreshable() {
		return StateRefreshable
	}
	return StateRequiresReacquire
}

// EnsureValidToken returns a bearer access token, acquiring, refreshing or
// re-acquiring as the token state demands.
func (m *TokenManager) EnsureValidToken(ctx context.Context) (string, error) {
	switch m.State() {
	case StateValid:
		return m.token.AccessToken, nil
	case StateRefreshable:
		if err := m.refresh(ctx); err != nil {
			return "", err
		}
	default:
		if err := m.acquire(ctx); err != nil {
			return "", err
		}
	}
	return m.token.AccessToken, nil
}

// Invalidate marks the stored token as expired so the next
// EnsureValidToken re-runs the refresh-or-reacquire resolution. Used by the
// request engine when the remote side signals token expiry.
func (m *TokenManager) Invalidate() {
	if m.token != nil {
		m.token.ExpiresAt = m.nowFunc().Add(-time.Second)
	}
}

func (m *TokenManager) acquire(ctx context.Context) error {
	switch m.cfg.GrantType {
	case GrantUserCredentials:
		return m.acquireByUserCredentials(ctx)
	case GrantResourceOwner:
		return m.acquireByResourceOwner(ctx)
	default:
		return &ConfigurationError{Field: "grant_type"}
	}
}

// acquireByUserCredentials runs the password grant against the
// "administration" client. The issued token carries a refresh token.
func (m *TokenManager) acquireByUserCredentials(ctx context.Context) error {
	if m.cfg.AdminAPIURL == "" {
		return &ConfigurationError{Field: "admin_api_url"}
	}
	if m.cfg.Username == "" {
		return &ConfigurationError{Field: "username"}
	}
	if m.cfg.Password == "" {
		return &ConfigurationError{Field: "password"}
	}

	form := url.Values{
		"grant_type": {"password"},
		"client_id":  {adminClientID},
		"scopes":     {"write"},
		"username":   {m.cfg.Username},
		"password":   {m.cfg.Password},
	}

	if err := m.fetchToken(ctx, form); err != nil {
		return err
	}
	metrics.TokenAcquisitionsTotal.WithLabelValues(GrantUserCredentials).Inc()
	return nil
}

// acquireByResourceOwner runs the client-credentials grant using an
// integration's access id and secret. No refresh token is issued.
func (m *TokenManager) acquireByResourceOwner(ctx context.Context) error {
	if m.cfg.AdminAPIURL == "" {
		return &ConfigurationError{Field: "admin_api_url"}
	}
	if m.cfg.ClientID == "" {
		return &ConfigurationError{Field: "client_id"}
	}
	if m.cfg.ClientSecret == "" {
		return &ConfigurationError{Field: "client_secret"}
	}

	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {m.cfg.ClientID},
		"client_secret": {m.cfg.ClientSecret},
	}

	if err := m.fetchToken(ctx, form); err != nil {
		return err
	}
	metrics.TokenAcquisitionsTotal.WithLabelValues(GrantResourceOwner).Inc()
	return nil
}

// refresh renews the stored token in place using its refresh token.
func (m *TokenManager) refresh(ctx context.Context) error {
	if m.logger != nil {
		m.logger.Debug("refreshing access token")
	}

	form := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {m.token.RefreshToken},
		"client_id":     {adminClientID},
	}

	previous := m.token
	if err := m.fetchToken(ctx, form); err != nil {
		return err
	}
	// Some platform versions rotate the refresh token, some omit it from
	// the refresh response. Keep the old one when none came back.
	if m.token.RefreshToken == "" {
		m.token.RefreshToken = previous.RefreshToken
	}
	metrics.TokenRefreshesTotal.Inc()
	return nil
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

func (m *TokenManager) fetchToken(ctx context.Context, form url.Values) error {
	headers := map[string]string{
		"Content-Type": "application/x-www-form-urlencoded",
		"Accept":       "application/json",
	}

	status, body, err := m.transport.Send(
		ctx,
		"POST",
		formatURL(m.cfg.AdminAPIURL, tokenEndpoint),
		headers,
		nil,
		[]byte(form.Encode()),
	)
	if err != nil {
		return fmt.Errorf("requesting token: %w", err)
	}

	if status < 200 || status > 299 {
		return &AuthenticationError{Status: status, Body: string(body)}
	}

	var resp tokenResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("parsing token response: %w", err)
	}

	m.token = &Token{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		TokenType:    resp.TokenType,
		ExpiresAt:    m.nowFunc().Add(time.Duration(resp.ExpiresIn) * time.Second),
	}
	return nil
}
