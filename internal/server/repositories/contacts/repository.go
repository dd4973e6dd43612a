package contacts

import (
	"context"

	"github.com/dmitrijs2005/contactbook/internal/server/models"
)

// Repository is the owner-scoped contact store. Every method takes the
// owning account id as its first parameter; there is deliberately no way
// to query contacts without it.
type Repository interface {
	List(ctx context.Context, ownerID int64, offset, limit int) ([]*models.Contact, error)
	GetByID(ctx context.Context, ownerID, id int64) (*models.Contact, error)
	Find(ctx context.Context, ownerID int64, name, surname, email *string) (*models.Contact, error)
	UpcomingBirthdays(ctx context.Context, ownerID int64, days int) ([]*models.Contact, error)
	Create(ctx context.Context, ownerID int64, fields models.ContactFields) (*models.Contact, error)
	Update(ctx context.Context, ownerID, id int64, fields models.ContactFields) (*models.Contact, error)
	Delete(ctx context.Context, ownerID, id int64) error
}
