package colleague

import "context"

// TokenInfo holds the identity and permission data for a validated access
// token. Tokens are stored as HMAC-SHA256 hashes; the raw token never touches
// the database.
type TokenInfo struct {
	ID          string
	ColleagueID string
	TokenHash   string
	Name        string
	Scopes      []string
}

// TokenRepository provides lookup of access tokens by their hash.
type TokenRepository interface {
	FindByHash(ctx context.Context, hash string) (*TokenInfo, error)
	Create(ctx context.Context, t *TokenInfo) error
}
