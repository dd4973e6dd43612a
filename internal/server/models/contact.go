package models

import (
	"database/sql"
	"time"
)

// Contact is a single contact-book record owned by one account.
// Only Name is mandatory; the rest of the fields are optional.
type Contact struct {
	ID             int64
	AccountID      int64
	Name           string
	Surname        sql.NullString
	Email          sql.NullString
	Phone          sql.NullString
	Birthdate      sql.NullTime
	AdditionalData sql.NullString
	CreatedAt      time.Time
}

// ContactFields carries the mutable fields for create/update operations.
// Update replaces all of them (full replace, not a patch).
type ContactFields struct {
	Name           string
	Surname        sql.NullString
	Email          sql.NullString
	Phone          sql.NullString
	Birthdate      sql.NullTime
	AdditionalData sql.NullString
}
