package accounts

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/contactbook/internal/server/models"
)

// Repository is the credential store: it persists tenant identities and the
// auth-related columns the login/refresh/confirmation flows depend on.
type Repository interface {
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	FindByLogin(ctx context.Context, login string) (*models.Account, error)
	UpdateRefreshFingerprint(ctx context.Context, accountID int64, fingerprint sql.NullString) error
	SetConfirmed(ctx context.Context, email string) error
	SetAvatar(ctx context.Context, accountID int64, url string) error
}
