package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/verbstore/backoffice/internal/domain/promo"
)

const (
	getPromoByCodeSQL = `SELECT id, code, value, value_percentage, status, created_at
		FROM promo_codes WHERE UPPER(code) = UPPER($1) AND status = 'valid'`

	upsertPromoSQL = `INSERT INTO promo_codes (id, code, value, value_percentage, status)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (code) DO UPDATE SET
			value = EXCLUDED.value,
			value_percentage = EXCLUDED.value_percentage,
			status = EXCLUDED.status`

	listPromosSQL = `SELECT id, code, value, value_percentage, status, created_at
		FROM promo_codes ORDER BY created_at DESC`
)

var _ promo.Repository = (*PromoRepository)(nil)

// PromoRepository implements promo.Repository backed by PostgreSQL.
type PromoRepository struct {
	pool *pgxpool.Pool
}

// NewPromoRepository returns a PromoRepository that uses the given pool.
func NewPromoRepository(pool *pgxpool.Pool) *PromoRepository {
	return &PromoRepository{pool: pool}
}

// FindByCode looks up a valid promo code (case-insensitive).
// Returns promo.ErrInvalidCode when no valid matching code exists.
func (r *PromoRepository) FindByCode(ctx context.Context, code string) (*promo.Code, error) {
	rows, err := r.pool.Query(ctx, getPromoByCodeSQL, code)
	if err != nil {
		return nil, fmt.Errorf("finding promo code %q: %w", code, err)
	}

	c, err := pgx.CollectExactlyOneRow(rows, scanPromo)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, promo.ErrInvalidCode
		}
		return nil, fmt.Errorf("finding promo code %q: %w", code, err)
	}
	return &c, nil
}

// Upsert inserts or replaces a promo code by its unique code.
func (r *PromoRepository) Upsert(ctx context.Context, c *promo.Code) error {
	_, err := r.pool.Exec(ctx, upsertPromoSQL, c.ID, c.Code, c.Value, c.ValuePercentage, string(c.Status))
	if err != nil {
		return fmt.Errorf("upserting promo code %q: %w", c.Code, err)
	}
	return nil
}

// List returns all promo codes, newest first.
func (r *PromoRepository) List(ctx context.Context) ([]promo.Code, error) {
	rows, err := r.pool.Query(ctx, listPromosSQL)
	if err != nil {
		return nil, fmt.Errorf("listing promo codes: %w", err)
	}
	return pgx.CollectRows(rows, scanPromo)
}

func scanPromo(row pgx.CollectableRow) (promo.Code, error) {
	var (
		c      promo.Code
		status string
	)
	err := row.Scan(&c.ID, &c.Code, &c.Value, &c.ValuePercentage, &status, &c.CreatedAt)
	c.Status = promo.Status(status)
	return c, err
}
