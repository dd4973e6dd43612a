// Package accounts provides a PostgreSQL-backed repository for tenant
// accounts: lookups by email/login, refresh-token fingerprint updates, and
// the monotonic confirmation flag.
package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrijs2005/contactbook/internal/common"
	"github.com/dmitrijs2005/contactbook/internal/dbx"
	"github.com/dmitrijs2005/contactbook/internal/server/models"
)

const uniqueViolation = "23505"

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new unconfirmed account. A duplicate email or login
// yields common.ErrAlreadyExists.
func (r *PostgresRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	query := `
		INSERT INTO accounts (login, email, password_hash, avatar)
		VALUES ($1, $2, $3, $4)
		RETURNING id, confirmed, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		account.Login, account.Email, account.PasswordHash, account.Avatar).
		Scan(&account.ID, &account.Confirmed, &account.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.ErrAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return account, nil
}

// FindByEmail returns the account with the given email.
// If not found, it returns common.ErrNotFound.
func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	query := `
		SELECT id, login, email, password_hash, avatar, refresh_fingerprint, confirmed, created_at
		FROM accounts
		WHERE email = $1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, email))
}

// FindByLogin returns the account with the given login name.
// If not found, it returns common.ErrNotFound.
func (r *PostgresRepository) FindByLogin(ctx context.Context, login string) (*models.Account, error) {
	query := `
		SELECT id, login, email, password_hash, avatar, refresh_fingerprint, confirmed, created_at
		FROM accounts
		WHERE login = $1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, login))
}

// UpdateRefreshFingerprint overwrites the stored refresh-token fingerprint.
// Passing an invalid NullString clears it, forcing a re-login.
func (r *PostgresRepository) UpdateRefreshFingerprint(ctx context.Context, accountID int64, fingerprint sql.NullString) error {
	query := `
		UPDATE accounts SET refresh_fingerprint = $2
		WHERE id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, accountID, fingerprint); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// SetConfirmed flips the confirmation flag to true for the given email.
// The flag is monotonic; there is no way back to unconfirmed.
func (r *PostgresRepository) SetConfirmed(ctx context.Context, email string) error {
	query := `
		UPDATE accounts SET confirmed = TRUE
		WHERE email = $1
	`
	if _, err := r.db.ExecContext(ctx, query, email); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// SetAvatar stores the uploaded avatar URL on the account.
func (r *PostgresRepository) SetAvatar(ctx context.Context, accountID int64, url string) error {
	query := `
		UPDATE accounts SET avatar = $2
		WHERE id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, accountID, url); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) scanOne(row *sql.Row) (*models.Account, error) {
	account := &models.Account{}
	err := row.Scan(&account.ID, &account.Login, &account.Email, &account.PasswordHash,
		&account.Avatar, &account.RefreshFingerprint, &account.Confirmed, &account.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return account, nil
}
