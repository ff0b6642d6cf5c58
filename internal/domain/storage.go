package domain

// TokenStore is the durable home of the bearer token.
// It outlives the process; the in-memory session is rebuilt from it at startup.
type TokenStore interface {
	// Token returns the stored token and whether one exists
	Token() (string, bool)

	// SaveToken persists the token, replacing any previous one
	SaveToken(token string) error

	// ClearToken removes the token; clearing an empty store is not an error
	ClearToken() error

	// Close releases the underlying storage
	Close() error
}
