package models

import (
	"database/sql"
	"time"
)

// Account is the tenant identity. Every contact row belongs to exactly one
// account, and all contact queries are scoped by Account.ID.
//
// RefreshFingerprint stores the sha256 of the most recently issued refresh
// token; at most one refresh token per account is valid at a time.
type Account struct {
	ID                 int64
	Login              string
	Email              string
	PasswordHash       string
	Avatar             sql.NullString
	RefreshFingerprint sql.NullString
	Confirmed          bool
	CreatedAt          time.Time
}
