// Package services contains server-side business logic. This file implements
// AccountService: signup, password login, refresh-token rotation with stored
// fingerprints, email confirmation, and avatar updates.
package services

import (
	"context"
	"crypto/md5"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/contactbook/internal/common"
	"github.com/dmitrijs2005/contactbook/internal/dbx"
	"github.com/dmitrijs2005/contactbook/internal/logging"
	"github.com/dmitrijs2005/contactbook/internal/server/auth"
	"github.com/dmitrijs2005/contactbook/internal/server/config"
	"github.com/dmitrijs2005/contactbook/internal/server/models"
	"github.com/dmitrijs2005/contactbook/internal/server/repositories/repomanager"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Login failure modes. All three match common.ErrUnauthenticated via
// errors.Is, but carry distinct messages for the client.
var (
	ErrUnknownLogin      = fmt.Errorf("%w: unknown login", common.ErrUnauthenticated)
	ErrEmailNotConfirmed = fmt.Errorf("%w: email is not confirmed", common.ErrUnauthenticated)
	ErrInvalidPassword   = fmt.Errorf("%w: invalid password", common.ErrUnauthenticated)
)

// AccountService provides authentication-related operations:
// - Signup: create unconfirmed accounts and dispatch confirmation mail
// - Login: verify credentials and mint token pairs
// - Refresh: rotate refresh tokens against the stored fingerprint
// - ConfirmEmail / ResendConfirmation: email verification flow
// - UpdateAvatar: upload an avatar image and persist its URL
type AccountService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	tokens      *auth.TokenEngine
	mailer      Mailer
	avatars     AvatarStore
	logger      logging.Logger

	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
	emailTokenValidityDuration   time.Duration
}

// NewAccountService constructs an AccountService from its collaborators and
// the server config.
func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, tokens *auth.TokenEngine,
	mailer Mailer, avatars AvatarStore, logger logging.Logger, cfg *config.Config) *AccountService {
	return &AccountService{
		db:                           db,
		repomanager:                  m,
		tokens:                       tokens,
		mailer:                       mailer,
		avatars:                      avatars,
		logger:                       logger,
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
		emailTokenValidityDuration:   cfg.EmailTokenValidityDuration,
	}
}

// Signup creates an unconfirmed account and dispatches a confirmation email.
// A duplicate email yields common.ErrAlreadyExists. Mail dispatch is
// fire-and-forget: a send failure is logged, never returned.
func (s *AccountService) Signup(ctx context.Context, login, email, password string) (*models.Account, error) {
	repo := s.repomanager.Accounts(s.db)

	if _, err := repo.FindByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("%w: account with this email already exists", common.ErrAlreadyExists)
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, common.ErrInternal
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, common.ErrInternal
	}

	account := &models.Account{
		Login:        login,
		Email:        email,
		PasswordHash: hash,
		Avatar:       sql.NullString{String: gravatarURL(email), Valid: true},
	}

	created, err := repo.Create(ctx, account)
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, err
		}
		return nil, common.ErrInternal
	}

	s.dispatchConfirmation(created)
	return created, nil
}

// Login resolves the account by login name, then by email, and checks the
// confirmation flag and password in that order; each step fails with its own
// error. On success it issues a token pair and stores the refresh
// fingerprint.
func (s *AccountService) Login(ctx context.Context, login, password string) (*TokenPair, error) {
	repo := s.repomanager.Accounts(s.db)

	byLogin, err := repo.FindByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, ErrUnknownLogin
		}
		return nil, common.ErrInternal
	}

	account, err := repo.FindByEmail(ctx, byLogin.Email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, ErrUnknownLogin
		}
		return nil, common.ErrInternal
	}

	if !account.Confirmed {
		return nil, ErrEmailNotConfirmed
	}
	if !auth.VerifyPassword(password, account.PasswordHash) {
		return nil, ErrInvalidPassword
	}

	return s.issueTokenPair(ctx, account)
}

// Refresh validates a refresh token and rotates it. The token's fingerprint
// must match the one stored on the account; a mismatch is treated as
// evidence of theft, so the stored fingerprint is cleared and the caller
// gets a generic unauthenticated error.
func (s *AccountService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	email, err := s.tokens.Validate(refreshToken, auth.ScopeRefresh)
	if err != nil {
		return nil, common.ErrUnauthenticated
	}

	repo := s.repomanager.Accounts(s.db)
	account, err := repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthenticated
		}
		return nil, common.ErrInternal
	}

	if !account.RefreshFingerprint.Valid || account.RefreshFingerprint.String != auth.Fingerprint(refreshToken) {
		if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
			return s.repomanager.Accounts(tx).UpdateRefreshFingerprint(ctx, account.ID, sql.NullString{})
		}); err != nil {
			s.logger.Error(ctx, "clearing refresh fingerprint", "error", err, "account_id", account.ID)
		}
		return nil, common.ErrUnauthenticated
	}

	return s.issueTokenPair(ctx, account)
}

// ConfirmEmail resolves the emailed token to an account and marks it
// confirmed. The returned bool reports whether the account was already
// confirmed (the operation is idempotent).
func (s *AccountService) ConfirmEmail(ctx context.Context, token string) (bool, error) {
	email, err := s.tokens.ValidateEmailToken(token)
	if err != nil {
		return false, fmt.Errorf("%w: invalid token for email verification", common.ErrUnauthenticated)
	}

	repo := s.repomanager.Accounts(s.db)
	account, err := repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return false, common.ErrNotFound
		}
		return false, common.ErrInternal
	}

	if account.Confirmed {
		return true, nil
	}
	if err := repo.SetConfirmed(ctx, email); err != nil {
		return false, common.ErrInternal
	}
	return false, nil
}

// ResendConfirmation re-dispatches the confirmation email unless the account
// is already confirmed. The returned bool reports the already-confirmed case.
func (s *AccountService) ResendConfirmation(ctx context.Context, email string) (bool, error) {
	repo := s.repomanager.Accounts(s.db)
	account, err := repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return false, common.ErrNotFound
		}
		return false, common.ErrInternal
	}

	if account.Confirmed {
		return true, nil
	}
	s.dispatchConfirmation(account)
	return false, nil
}

// ResolveAccessToken maps a bearer access token to its account. Any failure
// collapses to the generic unauthenticated error; the reason is never
// disclosed to the caller.
func (s *AccountService) ResolveAccessToken(ctx context.Context, token string) (*models.Account, error) {
	email, err := s.tokens.Validate(token, auth.ScopeAccess)
	if err != nil {
		return nil, common.ErrUnauthenticated
	}
	account, err := s.repomanager.Accounts(s.db).FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthenticated
		}
		return nil, common.ErrInternal
	}
	return account, nil
}

// UpdateAvatar uploads the image to object storage and persists the public
// URL on the account. Non-image payloads are rejected.
func (s *AccountService) UpdateAvatar(ctx context.Context, account *models.Account, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty file", common.ErrValidation)
	}
	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return "", fmt.Errorf("%w: unsupported file type %s", common.ErrValidation, mtype.String())
	}

	key := avatarStorageKey(account.ID, mtype.Extension())
	url, err := s.avatars.Upload(ctx, key, mtype.String(), data)
	if err != nil {
		return "", fmt.Errorf("error uploading avatar: %w", err)
	}

	if err := s.repomanager.Accounts(s.db).SetAvatar(ctx, account.ID, url); err != nil {
		return "", common.ErrInternal
	}
	return url, nil
}

// --- helpers below ---

func (s *AccountService) issueTokenPair(ctx context.Context, account *models.Account) (*TokenPair, error) {
	access, err := s.tokens.Issue(account.Email, auth.ScopeAccess, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrInternal
	}
	refresh, err := s.tokens.Issue(account.Email, auth.ScopeRefresh, s.refreshTokenValidityDuration)
	if err != nil {
		return nil, common.ErrInternal
	}

	fingerprint := sql.NullString{String: auth.Fingerprint(refresh), Valid: true}
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.repomanager.Accounts(tx).UpdateRefreshFingerprint(ctx, account.ID, fingerprint)
	}); err != nil {
		return nil, common.ErrInternal
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// dispatchConfirmation issues an email-verification token and sends the
// confirmation mail in the background. Failures are logged only.
func (s *AccountService) dispatchConfirmation(account *models.Account) {
	token, err := s.tokens.IssueEmailToken(account.Email, s.emailTokenValidityDuration)
	if err != nil {
		s.logger.Error(context.Background(), "issuing email verification token", "error", err, "email", account.Email)
		return
	}
	go func() {
		ctx := context.Background()
		if err := s.mailer.SendConfirmation(ctx, account.Email, account.Login, token); err != nil {
			s.logger.Error(ctx, "sending confirmation email", "error", err, "email", account.Email)
		}
	}()
}

func gravatarURL(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%x?d=identicon", sum)
}

func avatarStorageKey(accountID int64, ext string) string {
	return fmt.Sprintf("avatars/%d/%v%s", accountID, uuid.New(), ext)
}
