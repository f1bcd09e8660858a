package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/verbstore/backoffice/internal/domain/colleague"
)

const (
	insertResetSQL = `INSERT INTO reset_passwords (id, email, token, status)
		VALUES ($1, $2, $3, $4)`

	getResetByTokenSQL = `SELECT id, email, token, status, created_at
		FROM reset_passwords WHERE token = $1`

	setResetStatusSQL = `UPDATE reset_passwords SET status = $2 WHERE id = $1`
)

var _ colleague.ResetRepository = (*ResetPasswordRepository)(nil)

// ResetPasswordRepository implements colleague.ResetRepository backed by
// PostgreSQL.
type ResetPasswordRepository struct {
	pool *pgxpool.Pool
}

// NewResetPasswordRepository returns a ResetPasswordRepository that uses the
// given pool.
func NewResetPasswordRepository(pool *pgxpool.Pool) *ResetPasswordRepository {
	return &ResetPasswordRepository{pool: pool}
}

// Create stores a new reset token.
func (r *ResetPasswordRepository) Create(ctx context.Context, rp *colleague.ResetPassword) error {
	_, err := r.pool.Exec(ctx, insertResetSQL, rp.ID, rp.Email, rp.Token, rp.Status)
	if err != nil {
		return fmt.Errorf("creating reset token for %q: %w", rp.Email, err)
	}
	return nil
}

// GetByToken returns a reset record by its token.
func (r *ResetPasswordRepository) GetByToken(ctx context.Context, token string) (*colleague.ResetPassword, error) {
	rows, err := r.pool.Query(ctx, getResetByTokenSQL, token)
	if err != nil {
		return nil, fmt.Errorf("getting reset token: %w", err)
	}

	rp, err := pgx.CollectExactlyOneRow(rows, func(row pgx.CollectableRow) (colleague.ResetPassword, error) {
		var rp colleague.ResetPassword
		err := row.Scan(&rp.ID, &rp.Email, &rp.Token, &rp.Status, &rp.CreatedAt)
		return rp, err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, colleague.ErrResetTokenNotFound
		}
		return nil, fmt.Errorf("getting reset token: %w", err)
	}
	return &rp, nil
}

// SetStatus moves a reset record to the given lifecycle state.
func (r *ResetPasswordRepository) SetStatus(ctx context.Context, id, status string) error {
	_, err := r.pool.Exec(ctx, setResetStatusSQL, id, status)
	if err != nil {
		return fmt.Errorf("setting reset token status: %w", err)
	}
	return nil
}
