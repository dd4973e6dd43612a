package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/contactbook/internal/dbx"
	"github.com/dmitrijs2005/contactbook/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/contactbook/internal/server/repositories/contacts"
)

// RepositoryManager vends repositories bound to a DBTX (pool or
// transaction) and exposes a schema migration hook.
type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
	Contacts(db dbx.DBTX) contacts.Repository
}
