package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/verbstore/backoffice/internal/domain/colleague"
)

const colleagueColumns = `id, email, COALESCE(password_hash, ''), COALESCE(first_name, ''),
	COALESCE(last_name, ''), date_of_birth, COALESCE(address, ''), COALESCE(phone_number, ''),
	COALESCE(country, ''), is_active, is_staff, is_admin, created_at`

const (
	insertColleagueSQL = `INSERT INTO colleagues
		(id, email, password_hash, first_name, last_name, date_of_birth, address, phone_number, country, is_staff)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), $6, NULLIF($7, ''), NULLIF($8, ''), NULLIF($9, ''), $10)`

	listColleaguesSQL    = `SELECT ` + colleagueColumns + ` FROM colleagues ORDER BY created_at`
	getColleagueByIDSQL  = `SELECT ` + colleagueColumns + ` FROM colleagues WHERE id = $1`
	getColleagueEmailSQL = `SELECT ` + colleagueColumns + ` FROM colleagues WHERE email = $1`

	updateColleagueSQL = `UPDATE colleagues SET
		first_name = NULLIF($2, ''), last_name = NULLIF($3, ''), date_of_birth = $4,
		address = NULLIF($5, ''), phone_number = NULLIF($6, ''), country = NULLIF($7, ''),
		is_active = COALESCE($8, is_active)
		WHERE id = $1`

	deleteColleagueSQL = `DELETE FROM colleagues WHERE id = $1`

	setPasswordSQL = `UPDATE colleagues SET password_hash = $2 WHERE email = $1`

	getTokenByHashSQL = `SELECT id, colleague_id, token_hash, name, scopes
		FROM colleague_tokens WHERE token_hash = $1 AND active = TRUE`

	insertTokenSQL = `INSERT INTO colleague_tokens (id, colleague_id, token_hash, name, scopes)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (token_hash) DO NOTHING`
)

var _ colleague.Repository = (*ColleagueRepository)(nil)

// ColleagueRepository implements colleague.Repository backed by PostgreSQL.
type ColleagueRepository struct {
	pool *pgxpool.Pool
}

// NewColleagueRepository returns a ColleagueRepository that uses the given pool.
func NewColleagueRepository(pool *pgxpool.Pool) *ColleagueRepository {
	return &ColleagueRepository{pool: pool}
}

// Create inserts a new colleague account. A duplicate email maps to
// colleague.ErrEmailTaken.
func (r *ColleagueRepository) Create(ctx context.Context, c *colleague.Colleague) error {
	_, err := r.pool.Exec(ctx, insertColleagueSQL,
		c.ID, c.Email, c.PasswordHash, c.FirstName, c.LastName, c.DateOfBirth,
		c.Address, c.PhoneNumber, c.Country, c.IsStaff,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return colleague.ErrEmailTaken
		}
		return fmt.Errorf("creating colleague %q: %w", c.Email, err)
	}
	return nil
}

// List returns all colleague accounts, oldest first.
func (r *ColleagueRepository) List(ctx context.Context) ([]colleague.Colleague, error) {
	rows, err := r.pool.Query(ctx, listColleaguesSQL)
	if err != nil {
		return nil, fmt.Errorf("listing colleagues: %w", err)
	}
	return pgx.CollectRows(rows, scanColleague)
}

// GetByID returns a single colleague by id.
func (r *ColleagueRepository) GetByID(ctx context.Context, id string) (*colleague.Colleague, error) {
	return r.getOne(ctx, getColleagueByIDSQL, id)
}

// GetByEmail returns a single colleague by email.
func (r *ColleagueRepository) GetByEmail(ctx context.Context, email string) (*colleague.Colleague, error) {
	return r.getOne(ctx, getColleagueEmailSQL, email)
}

// Update rewrites the mutable profile fields of a colleague.
func (r *ColleagueRepository) Update(ctx context.Context, id string, p colleague.UpdateParams) (*colleague.Colleague, error) {
	tag, err := r.pool.Exec(ctx, updateColleagueSQL,
		id, p.FirstName, p.LastName, p.DateOfBirth, p.Address, p.PhoneNumber, p.Country, p.IsActive,
	)
	if err != nil {
		return nil, fmt.Errorf("updating colleague %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, colleague.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// Delete removes a colleague account.
func (r *ColleagueRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, deleteColleagueSQL, id)
	if err != nil {
		return fmt.Errorf("deleting colleague %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return colleague.ErrNotFound
	}
	return nil
}

// SetPassword replaces the stored password hash for the given email.
func (r *ColleagueRepository) SetPassword(ctx context.Context, email, passwordHash string) error {
	tag, err := r.pool.Exec(ctx, setPasswordSQL, email, passwordHash)
	if err != nil {
		return fmt.Errorf("setting password for %q: %w", email, err)
	}
	if tag.RowsAffected() == 0 {
		return colleague.ErrNotFound
	}
	return nil
}

func (r *ColleagueRepository) getOne(ctx context.Context, sql, arg string) (*colleague.Colleague, error) {
	rows, err := r.pool.Query(ctx, sql, arg)
	if err != nil {
		return nil, fmt.Errorf("getting colleague: %w", err)
	}

	c, err := pgx.CollectExactlyOneRow(rows, scanColleague)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, colleague.ErrNotFound
		}
		return nil, fmt.Errorf("getting colleague: %w", err)
	}
	return &c, nil
}

func scanColleague(row pgx.CollectableRow) (colleague.Colleague, error) {
	var c colleague.Colleague
	err := row.Scan(
		&c.ID, &c.Email, &c.PasswordHash, &c.FirstName, &c.LastName, &c.DateOfBirth,
		&c.Address, &c.PhoneNumber, &c.Country, &c.IsActive, &c.IsStaff, &c.IsAdmin, &c.CreatedAt,
	)
	return c, err
}

var _ colleague.TokenRepository = (*TokenRepository)(nil)

// TokenRepository provides access-token lookups backed by PostgreSQL.
type TokenRepository struct {
	pool *pgxpool.Pool
}

// NewTokenRepository returns a TokenRepository that uses the given pool.
func NewTokenRepository(pool *pgxpool.Pool) *TokenRepository {
	return &TokenRepository{pool: pool}
}

// FindByHash looks up an active token by its HMAC-SHA256 hash.
func (r *TokenRepository) FindByHash(ctx context.Context, hash string) (*colleague.TokenInfo, error) {
	var info colleague.TokenInfo
	err := r.pool.QueryRow(ctx, getTokenByHashSQL, hash).Scan(
		&info.ID, &info.ColleagueID, &info.TokenHash, &info.Name, &info.Scopes,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("token not found: %w", err)
		}
		return nil, fmt.Errorf("finding token by hash: %w", err)
	}
	return &info, nil
}

// Create stores a new access token hash.
func (r *TokenRepository) Create(ctx context.Context, t *colleague.TokenInfo) error {
	_, err := r.pool.Exec(ctx, insertTokenSQL, t.ID, t.ColleagueID, t.TokenHash, t.Name, t.Scopes)
	if err != nil {
		return fmt.Errorf("creating token %q: %w", t.Name, err)
	}
	return nil
}
