package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/contactbook/internal/common"
	"github.com/dmitrijs2005/contactbook/internal/server/models"
)

type ctxKey string

const accountKey ctxKey = "account"

// withAccount authenticates the request with a bearer access token and puts
// the resolved account into the request context. Every failure collapses to
// the same generic 401; the reason is never disclosed.
func (s *HTTPServer) withAccount(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeError(w, common.ErrUnauthenticated)
			return
		}

		account, err := s.accounts.ResolveAccessToken(r.Context(), token)
		if err != nil {
			writeError(w, common.ErrUnauthenticated)
			return
		}

		ctx := context.WithValue(r.Context(), accountKey, account)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// accountFrom returns the authenticated account, or nil outside the
// withAccount middleware.
func accountFrom(ctx context.Context) *models.Account {
	account, _ := ctx.Value(accountKey).(*models.Account)
	return account
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
