package colleague

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

var (
	// ErrNotFound is returned when a colleague does not exist.
	ErrNotFound = errors.New("colleague not found")
	// ErrEmailTaken is returned when registering with an email that is
	// already in use.
	ErrEmailTaken = errors.New("colleague with this email already exists")
	// ErrEmailRequired is returned when registering without an email.
	ErrEmailRequired = errors.New("email is required to create an account")
)

// Colleague is a staff or customer account. The walk-in colleague is a seeded
// placeholder row that anonymous orders are attributed to.
type Colleague struct {
	ID           string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	DateOfBirth  *time.Time
	Address      string
	PhoneNumber  string
	Country      string
	IsActive     bool
	IsStaff      bool
	IsAdmin      bool
	CreatedAt    time.Time
}

// FullName joins the first and last name for display.
func (c *Colleague) FullName() string {
	switch {
	case c.FirstName == "":
		return c.LastName
	case c.LastName == "":
		return c.FirstName
	default:
		return c.FirstName + " " + c.LastName
	}
}

// UpdateParams holds the mutable profile fields of a colleague account.
type UpdateParams struct {
	FirstName   string
	LastName    string
	DateOfBirth *time.Time
	Address     string
	PhoneNumber string
	Country     string
	IsActive    *bool
}

// Repository defines persistence operations for colleague accounts.
type Repository interface {
	Create(ctx context.Context, c *Colleague) error
	List(ctx context.Context) ([]Colleague, error)
	GetByID(ctx context.Context, id string) (*Colleague, error)
	GetByEmail(ctx context.Context, email string) (*Colleague, error)
	Update(ctx context.Context, id string, p UpdateParams) (*Colleague, error)
	Delete(ctx context.Context, id string) error
	SetPassword(ctx context.Context, email, passwordHash string) error
}
