package promo

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrInvalidCode is returned when a promo code does not resolve to a valid,
// active code. An unknown code aborts the whole order rather than being
// silently ignored.
var ErrInvalidCode = errors.New("invalid promo code")

// Status enumerates promo code lifecycle states.
type Status string

const (
	StatusValid   Status = "valid"
	StatusInvalid Status = "invalid"
)

// Code is a discount code. Value is a flat monetary reduction applied once to
// the order total; ValuePercentage is kept alongside for codes expressed as a
// percentage of the items cost.
type Code struct {
	ID              string
	Code            string
	Value           decimal.Decimal
	ValuePercentage decimal.Decimal
	Status          Status
	CreatedAt       time.Time
}

// Repository provides lookup and mutation of promo codes.
type Repository interface {
	// FindByCode resolves an active promo code (case-insensitive).
	// Returns ErrInvalidCode when no valid matching code exists.
	FindByCode(ctx context.Context, code string) (*Code, error)
	Upsert(ctx context.Context, c *Code) error
	List(ctx context.Context) ([]Code, error)
}
