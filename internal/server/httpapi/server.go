// Package httpapi exposes the contact book over a JSON HTTP API: the auth
// flows, the owner-scoped contact operations, and the profile endpoints.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/dmitrijs2005/contactbook/internal/logging"
	"github.com/dmitrijs2005/contactbook/internal/server/models"
	"github.com/dmitrijs2005/contactbook/internal/server/services"
)

// AccountService is the slice of the account service the transport needs.
type AccountService interface {
	Signup(ctx context.Context, login, email, password string) (*models.Account, error)
	Login(ctx context.Context, login, password string) (*services.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	ConfirmEmail(ctx context.Context, token string) (bool, error)
	ResendConfirmation(ctx context.Context, email string) (bool, error)
	ResolveAccessToken(ctx context.Context, token string) (*models.Account, error)
	UpdateAvatar(ctx context.Context, account *models.Account, data []byte) (string, error)
}

// ContactService is the slice of the contact service the transport needs.
type ContactService interface {
	List(ctx context.Context, ownerID int64, offset, limit int) ([]*models.Contact, error)
	Get(ctx context.Context, ownerID, id int64) (*models.Contact, error)
	Find(ctx context.Context, ownerID int64, name, surname, email *string) (*models.Contact, error)
	UpcomingBirthdays(ctx context.Context, ownerID int64) ([]*models.Contact, error)
	Create(ctx context.Context, ownerID int64, fields models.ContactFields) (*models.Contact, error)
	Update(ctx context.Context, ownerID, id int64, fields models.ContactFields) (*models.Contact, error)
	Delete(ctx context.Context, ownerID, id int64) error
}

// Per-route rate limits, requests per minute per client IP.
const (
	signupRatePerMinute = 1
	listRatePerMinute   = 5
)

type HTTPServer struct {
	address  string
	logger   logging.Logger
	accounts AccountService
	contacts ContactService

	signupLimiter *RateLimiter
	listLimiter   *RateLimiter
}

func NewHTTPServer(address string, logger logging.Logger, accounts AccountService, contacts ContactService) *HTTPServer {
	return &HTTPServer{
		address:       address,
		logger:        logger.With("module", "http_server"),
		accounts:      accounts,
		contacts:      contacts,
		signupLimiter: NewRateLimiter(signupRatePerMinute),
		listLimiter:   NewRateLimiter(listRatePerMinute),
	}
}

// router assembles the route table. Auth endpoints are public; contacts and
// profile require an access token.
func (s *HTTPServer) router() http.Handler {
	r := mux.NewRouter()

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)

	auth := api.PathPrefix("/auth").Subrouter()
	auth.Handle("/signup", s.signupLimiter.Wrap(http.HandlerFunc(s.handleSignup))).Methods(http.MethodPost)
	auth.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)
	auth.HandleFunc("/refresh_token", s.handleRefreshToken).Methods(http.MethodGet)
	auth.HandleFunc("/confirmed_email/{token}", s.handleConfirmEmail).Methods(http.MethodGet)
	auth.HandleFunc("/request_email", s.handleRequestEmail).Methods(http.MethodPost)

	contacts := api.PathPrefix("/contacts").Subrouter()
	contacts.Use(s.withAccount)
	contacts.Handle("", s.listLimiter.Wrap(http.HandlerFunc(s.handleListContacts))).Methods(http.MethodGet)
	contacts.HandleFunc("", s.handleCreateContact).Methods(http.MethodPost)
	contacts.HandleFunc("/find", s.handleFindContact).Methods(http.MethodGet)
	contacts.HandleFunc("/upcoming-birthdays", s.handleUpcomingBirthdays).Methods(http.MethodGet)
	contacts.HandleFunc("/{id:[0-9]+}", s.handleGetContact).Methods(http.MethodGet)
	contacts.HandleFunc("/{id:[0-9]+}", s.handleUpdateContact).Methods(http.MethodPut)
	contacts.HandleFunc("/{id:[0-9]+}", s.handleDeleteContact).Methods(http.MethodDelete)

	profile := api.PathPrefix("/profile").Subrouter()
	profile.Use(s.withAccount)
	profile.HandleFunc("/my_profile", s.handleMyProfile).Methods(http.MethodGet)
	profile.HandleFunc("/avatar", s.handleUpdateAvatar).Methods(http.MethodPatch)

	return handlers.RecoveryHandler()(handlers.ProxyHeaders(r))
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *HTTPServer) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
