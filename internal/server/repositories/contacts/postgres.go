// Package contacts provides a PostgreSQL-backed repository for contact
// records. All queries conjoin account_id with the requested filter, so a
// contact is never visible outside its owning account.
package contacts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/contactbook/internal/common"
	"github.com/dmitrijs2005/contactbook/internal/dbx"
	"github.com/dmitrijs2005/contactbook/internal/server/models"
)

const contactColumns = "id, account_id, name, surname, email, phone, birthdate, additional_data, created_at"

// timeNow is a seam for testing the birthday window query.
var timeNow = time.Now

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// List returns a page of the owner's contacts ordered by id.
func (r *PostgresRepository) List(ctx context.Context, ownerID int64, offset, limit int) ([]*models.Contact, error) {
	query := `
		SELECT ` + contactColumns + `
		FROM contacts
		WHERE account_id = $1
		ORDER BY id
		OFFSET $2 LIMIT $3
	`
	rows, err := r.db.QueryContext(ctx, query, ownerID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()
	return scanContacts(rows)
}

// GetByID returns the owner's contact with the given id.
// A contact owned by another account yields common.ErrNotFound.
func (r *PostgresRepository) GetByID(ctx context.Context, ownerID, id int64) (*models.Contact, error) {
	query := `
		SELECT ` + contactColumns + `
		FROM contacts
		WHERE account_id = $1 AND id = $2
	`
	return scanContact(r.db.QueryRowContext(ctx, query, ownerID, id))
}

// Find returns the first of the owner's contacts matching all provided
// filters. Nil filters are skipped.
func (r *PostgresRepository) Find(ctx context.Context, ownerID int64, name, surname, email *string) (*models.Contact, error) {
	query := `
		SELECT ` + contactColumns + `
		FROM contacts
		WHERE account_id = $1`
	args := []any{ownerID}

	if name != nil {
		args = append(args, *name)
		query += fmt.Sprintf(" AND name = $%d", len(args))
	}
	if surname != nil {
		args = append(args, *surname)
		query += fmt.Sprintf(" AND surname = $%d", len(args))
	}
	if email != nil {
		args = append(args, *email)
		query += fmt.Sprintf(" AND email = $%d", len(args))
	}

	query += " ORDER BY id LIMIT 1"

	return scanContact(r.db.QueryRowContext(ctx, query, args...))
}

// UpcomingBirthdays returns the owner's contacts whose birthday month+day
// falls within [today, today+days]. When the window crosses a month
// boundary the two range clauses are OR'd; within a single month they
// collapse to one bounded range.
func (r *PostgresRepository) UpcomingBirthdays(ctx context.Context, ownerID int64, days int) ([]*models.Contact, error) {
	today := timeNow()
	end := today.AddDate(0, 0, days)

	var condition string
	var args []any
	if today.Month() == end.Month() {
		condition = `EXTRACT(MONTH FROM birthdate) = $2 AND EXTRACT(DAY FROM birthdate) BETWEEN $3 AND $4`
		args = []any{ownerID, int(today.Month()), today.Day(), end.Day()}
	} else {
		condition = `(EXTRACT(MONTH FROM birthdate) = $2 AND EXTRACT(DAY FROM birthdate) >= $3)
			OR (EXTRACT(MONTH FROM birthdate) = $4 AND EXTRACT(DAY FROM birthdate) <= $5)`
		args = []any{ownerID, int(today.Month()), today.Day(), int(end.Month()), end.Day()}
	}

	query := `
		SELECT ` + contactColumns + `
		FROM contacts
		WHERE account_id = $1 AND birthdate IS NOT NULL AND (` + condition + `)
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()
	return scanContacts(rows)
}

// Create inserts a contact owned by ownerID.
func (r *PostgresRepository) Create(ctx context.Context, ownerID int64, fields models.ContactFields) (*models.Contact, error) {
	query := `
		INSERT INTO contacts (account_id, name, surname, email, phone, birthdate, additional_data)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`
	contact := &models.Contact{
		AccountID:      ownerID,
		Name:           fields.Name,
		Surname:        fields.Surname,
		Email:          fields.Email,
		Phone:          fields.Phone,
		Birthdate:      fields.Birthdate,
		AdditionalData: fields.AdditionalData,
	}
	err := r.db.QueryRowContext(ctx, query, ownerID,
		fields.Name, fields.Surname, fields.Email, fields.Phone, fields.Birthdate, fields.AdditionalData).
		Scan(&contact.ID, &contact.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return contact, nil
}

// Update replaces all mutable fields of the owner's contact.
// A miss (wrong id or wrong owner) yields common.ErrNotFound.
func (r *PostgresRepository) Update(ctx context.Context, ownerID, id int64, fields models.ContactFields) (*models.Contact, error) {
	query := `
		UPDATE contacts
		SET name = $3, surname = $4, email = $5, phone = $6, birthdate = $7, additional_data = $8
		WHERE account_id = $1 AND id = $2
		RETURNING ` + contactColumns + `
	`
	return scanContact(r.db.QueryRowContext(ctx, query, ownerID, id,
		fields.Name, fields.Surname, fields.Email, fields.Phone, fields.Birthdate, fields.AdditionalData))
}

// Delete removes the owner's contact with the given id.
// A miss yields common.ErrNotFound.
func (r *PostgresRepository) Delete(ctx context.Context, ownerID, id int64) error {
	query := `
		DELETE FROM contacts
		WHERE account_id = $1 AND id = $2
	`
	result, err := r.db.ExecContext(ctx, query, ownerID, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}

func scanContact(row *sql.Row) (*models.Contact, error) {
	contact := &models.Contact{}
	err := row.Scan(&contact.ID, &contact.AccountID, &contact.Name, &contact.Surname,
		&contact.Email, &contact.Phone, &contact.Birthdate, &contact.AdditionalData, &contact.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return contact, nil
}

func scanContacts(rows *sql.Rows) ([]*models.Contact, error) {
	var result []*models.Contact
	for rows.Next() {
		contact := &models.Contact{}
		err := rows.Scan(&contact.ID, &contact.AccountID, &contact.Name, &contact.Surname,
			&contact.Email, &contact.Phone, &contact.Birthdate, &contact.AdditionalData, &contact.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, contact)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
