package shopware

// OAuth2 grant types understood by the admin API token endpoint.
const (
	// GrantUserCredentials is the password grant against the
	// "administration" client. The issued token carries a refresh token.
	// Recommended for client applications performing administrative actions
	// that require a user-based authentication.
	GrantUserCredentials = "user_credentials"

	// GrantResourceOwner is the client-credentials grant using an
	// integration's access id and secret. No refresh token is issued.
	// Intended for machine-to-machine communication such as CLI jobs.
	GrantResourceOwner = "resource_owner"
)

// Config carries the connection settings for one shop. It is passed
// explicitly into the client constructors; the client never reads
// environment state itself.
type Config struct {
	// AdminAPIURL is the admin API base, like https://shop.example.com/api.
	AdminAPIURL string

	// StorefrontAPIURL is the store API base, like
	// https://shop.example.com/store-api.
	StorefrontAPIURL string

	// Username and Password authenticate the user-credentials grant,
	// set up at admin/settings/system/users.
	Username string
	Password string

	// ClientID and ClientSecret authenticate the resource-owner grant,
	// set up at admin/settings/system/integrations.
	ClientID     string
	ClientSecret string

	// GrantType selects the grant strategy: GrantUserCredentials or
	// GrantResourceOwner.
	GrantType string

	// StoreAPIAccessKey is the sw-access-key of the sales channel, set in
	// Administration / Sales Channels / API.
	StoreAPIAccessKey string
}
