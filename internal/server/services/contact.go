package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/contactbook/internal/common"
	"github.com/dmitrijs2005/contactbook/internal/server/models"
	"github.com/dmitrijs2005/contactbook/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/contactbook/internal/validation"
)

// Pagination and birthday-window defaults for contact listings.
const (
	DefaultPageLimit   = 10
	MaxPageLimit       = 100
	BirthdayWindowDays = 7
)

// ContactService exposes the owner-scoped contact operations. The owner id
// is a mandatory first argument on every call; handlers take it from the
// authenticated account, never from request input.
type ContactService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewContactService(db *sql.DB, m repomanager.RepositoryManager) *ContactService {
	return &ContactService{db: db, repomanager: m}
}

// List returns a page of the owner's contacts. Out-of-range offset/limit
// values are clamped rather than rejected.
func (s *ContactService) List(ctx context.Context, ownerID int64, offset, limit int) ([]*models.Contact, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > MaxPageLimit {
		limit = DefaultPageLimit
	}
	return s.repomanager.Contacts(s.db).List(ctx, ownerID, offset, limit)
}

func (s *ContactService) Get(ctx context.Context, ownerID, id int64) (*models.Contact, error) {
	return s.repomanager.Contacts(s.db).GetByID(ctx, ownerID, id)
}

// Find returns the first of the owner's contacts matching all provided
// filters. At least one filter must be set.
func (s *ContactService) Find(ctx context.Context, ownerID int64, name, surname, email *string) (*models.Contact, error) {
	if name == nil && surname == nil && email == nil {
		return nil, fmt.Errorf("%w: at least one search parameter is required", common.ErrValidation)
	}
	return s.repomanager.Contacts(s.db).Find(ctx, ownerID, name, surname, email)
}

// UpcomingBirthdays lists the owner's contacts whose birthday falls within
// the next BirthdayWindowDays days.
func (s *ContactService) UpcomingBirthdays(ctx context.Context, ownerID int64) ([]*models.Contact, error) {
	return s.repomanager.Contacts(s.db).UpcomingBirthdays(ctx, ownerID, BirthdayWindowDays)
}

func (s *ContactService) Create(ctx context.Context, ownerID int64, fields models.ContactFields) (*models.Contact, error) {
	if err := validation.ValidateContactName(fields.Name); err != nil {
		return nil, err
	}
	return s.repomanager.Contacts(s.db).Create(ctx, ownerID, fields)
}

// Update replaces every mutable field of the contact (full replace, not a
// patch).
func (s *ContactService) Update(ctx context.Context, ownerID, id int64, fields models.ContactFields) (*models.Contact, error) {
	if err := validation.ValidateContactName(fields.Name); err != nil {
		return nil, err
	}
	return s.repomanager.Contacts(s.db).Update(ctx, ownerID, id, fields)
}

func (s *ContactService) Delete(ctx context.Context, ownerID, id int64) error {
	return s.repomanager.Contacts(s.db).Delete(ctx, ownerID, id)
}
