package httpapi

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dmitrijs2005/contactbook/internal/logging"
	"github.com/dmitrijs2005/contactbook/internal/server/models"
	"github.com/dmitrijs2005/contactbook/internal/server/services"
)

// --- fakes ---

type fakeAccounts struct {
	signupOut *models.Account
	signupErr error

	loginOut *services.TokenPair
	loginErr error

	refreshIn  string
	refreshOut *services.TokenPair
	refreshErr error

	confirmToken   string
	confirmAlready bool
	confirmErr     error

	resendEmail   string
	resendAlready bool
	resendErr     error

	resolveToken string
	resolveOut   *models.Account
	resolveErr   error

	avatarData []byte
	avatarURL  string
	avatarErr  error
}

func (f *fakeAccounts) Signup(ctx context.Context, login, email, password string) (*models.Account, error) {
	if f.signupErr != nil {
		return nil, f.signupErr
	}
	return f.signupOut, nil
}

func (f *fakeAccounts) Login(ctx context.Context, login, password string) (*services.TokenPair, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return f.loginOut, nil
}

func (f *fakeAccounts) Refresh(ctx context.Context, refreshToken string) (*services.TokenPair, error) {
	f.refreshIn = refreshToken
	if f.refreshErr != nil {
		return nil, f.refreshErr
	}
	return f.refreshOut, nil
}

func (f *fakeAccounts) ConfirmEmail(ctx context.Context, token string) (bool, error) {
	f.confirmToken = token
	return f.confirmAlready, f.confirmErr
}

func (f *fakeAccounts) ResendConfirmation(ctx context.Context, email string) (bool, error) {
	f.resendEmail = email
	return f.resendAlready, f.resendErr
}

func (f *fakeAccounts) ResolveAccessToken(ctx context.Context, token string) (*models.Account, error) {
	f.resolveToken = token
	if f.resolveErr != nil {
		return nil, f.resolveErr
	}
	return f.resolveOut, nil
}

func (f *fakeAccounts) UpdateAvatar(ctx context.Context, account *models.Account, data []byte) (string, error) {
	f.avatarData = data
	if f.avatarErr != nil {
		return "", f.avatarErr
	}
	return f.avatarURL, nil
}

type fakeContacts struct {
	owner int64

	listOut []*models.Contact
	listErr error

	getID  int64
	getOut *models.Contact
	getErr error

	findOut *models.Contact
	findErr error

	birthdaysOut []*models.Contact

	createOut *models.Contact
	createErr error

	updateOut *models.Contact
	updateErr error

	deleteID  int64
	deleteErr error
}

func (f *fakeContacts) List(ctx context.Context, ownerID int64, offset, limit int) ([]*models.Contact, error) {
	f.owner = ownerID
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listOut, nil
}

func (f *fakeContacts) Get(ctx context.Context, ownerID, id int64) (*models.Contact, error) {
	f.owner, f.getID = ownerID, id
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeContacts) Find(ctx context.Context, ownerID int64, name, surname, email *string) (*models.Contact, error) {
	f.owner = ownerID
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.findOut, nil
}

func (f *fakeContacts) UpcomingBirthdays(ctx context.Context, ownerID int64) ([]*models.Contact, error) {
	f.owner = ownerID
	return f.birthdaysOut, nil
}

func (f *fakeContacts) Create(ctx context.Context, ownerID int64, fields models.ContactFields) (*models.Contact, error) {
	f.owner = ownerID
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.createOut, nil
}

func (f *fakeContacts) Update(ctx context.Context, ownerID, id int64, fields models.ContactFields) (*models.Contact, error) {
	f.owner = ownerID
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return f.updateOut, nil
}

func (f *fakeContacts) Delete(ctx context.Context, ownerID, id int64) error {
	f.owner, f.deleteID = ownerID, id
	return f.deleteErr
}

// --- helpers ---

func newTestServer(t *testing.T, accounts *fakeAccounts, contacts *fakeContacts) http.Handler {
	t.Helper()
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return NewHTTPServer(":0", logger, accounts, contacts).router()
}

func doRequest(t *testing.T, h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	h := newTestServer(t, &fakeAccounts{}, &fakeContacts{})

	rec := doRequest(t, h, httptest.NewRequest(http.MethodGet, "/api/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, want 200", rec.Code)
	}
}
