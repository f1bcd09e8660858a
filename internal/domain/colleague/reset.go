package colleague

import (
	"context"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

// Reset token lifecycle states.
const (
	ResetStatusNew     = "new"
	ResetStatusUsed    = "used"
	ResetStatusExpired = "expired"
)

var (
	// ErrResetTokenNotFound is returned when a reset token does not exist.
	ErrResetTokenNotFound = errors.New("reset token not found")
	// ErrResetTokenUsed is returned when a reset token was already consumed.
	ErrResetTokenUsed = errors.New("reset token already used")
	// ErrResetTokenExpired is returned when a reset token is past its TTL.
	ErrResetTokenExpired = errors.New("reset token expired")
)

// ResetPassword is an issued password-reset token. Tokens expire a fixed
// duration after creation and are single use.
type ResetPassword struct {
	ID        string
	Email     string
	Token     string
	Status    string
	CreatedAt time.Time
}

// NewResetToken generates a short reset token. The tail segment of a UUID v4
// keeps tokens URL-safe and hard to guess while staying short enough to type.
func NewResetToken() string {
	parts := strings.Split(uuid.New().String(), "-")
	return parts[len(parts)-1]
}

// ResetRepository defines persistence operations for password-reset tokens.
type ResetRepository interface {
	Create(ctx context.Context, r *ResetPassword) error
	GetByToken(ctx context.Context, token string) (*ResetPassword, error)
	SetStatus(ctx context.Context, id, status string) error
}
