package models

// DefaultClientID is the OAuth client identifier TrackVia expects from API
// integrations.
const DefaultClientID = "TrackViaAPI"

// Credentials holds everything needed to open a session with the TrackVia
// API. Credentials are supplied once at construction and never modified.
type Credentials struct {
	// Username is the TrackVia account login.
	Username string

	// Password is the plaintext password for Username. It is only sent to the
	// token endpoint during the initial password grant.
	Password string

	// ClientID is the OAuth client identifier. Empty means [DefaultClientID].
	ClientID string

	// APIKey is the per-application key sent as user_key on every call.
	APIKey string
}

// OAuthClientID returns ClientID, or [DefaultClientID] when it is empty.
func (c Credentials) OAuthClientID() string {
	if c.ClientID == "" {
		return DefaultClientID
	}
	return c.ClientID
}
