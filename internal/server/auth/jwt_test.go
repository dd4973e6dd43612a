package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/contactbook/internal/common"
)

func newEngine(t *testing.T) *TokenEngine {
	t.Helper()
	e, err := NewTokenEngine("test-secret")
	if err != nil {
		t.Fatalf("NewTokenEngine error: %v", err)
	}
	return e
}

func TestNewTokenEngine_EmptySecret(t *testing.T) {
	_, err := NewTokenEngine("")
	if !errors.Is(err, common.ErrConfig) {
		t.Fatalf("want ErrConfig, got %v", err)
	}
}

func TestIssueValidate_RoundTrip(t *testing.T) {
	e := newEngine(t)

	token, err := e.Issue("alice@example.com", ScopeAccess, 15*time.Minute)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if strings.Count(token, ".") != 2 {
		t.Fatalf("expected compact JWT with three segments, got %q", token)
	}

	subject, err := e.Validate(token, ScopeAccess)
	if err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if subject != "alice@example.com" {
		t.Fatalf("unexpected subject: %q", subject)
	}
}

func TestValidate_ScopeMismatch(t *testing.T) {
	e := newEngine(t)

	refresh, err := e.Issue("alice@example.com", ScopeRefresh, time.Hour)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	if _, err := e.Validate(refresh, ScopeAccess); !errors.Is(err, common.ErrTokenScopeInvalid) {
		t.Fatalf("refresh token used as access token: want ErrTokenScopeInvalid, got %v", err)
	}

	access, err := e.Issue("alice@example.com", ScopeAccess, time.Hour)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if _, err := e.Validate(access, ScopeRefresh); !errors.Is(err, common.ErrTokenScopeInvalid) {
		t.Fatalf("access token used as refresh token: want ErrTokenScopeInvalid, got %v", err)
	}
}

func TestValidate_Expired(t *testing.T) {
	e := newEngine(t)

	token, err := e.Issue("alice@example.com", ScopeAccess, -time.Second)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if _, err := e.Validate(token, ScopeAccess); !errors.Is(err, common.ErrTokenExpired) {
		t.Fatalf("want ErrTokenExpired, got %v", err)
	}
}

func TestValidate_ExpiryBoundaryInclusive(t *testing.T) {
	e := newEngine(t)

	// A zero TTL token expires at its issue instant; validating it even
	// immediately afterwards must report expiry.
	token, err := e.Issue("alice@example.com", ScopeAccess, 0)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if _, err := e.Validate(token, ScopeAccess); !errors.Is(err, common.ErrTokenExpired) {
		t.Fatalf("want ErrTokenExpired at exact expiry, got %v", err)
	}
}

func TestValidate_BadSignatureAndGarbage(t *testing.T) {
	e := newEngine(t)
	other := func() *TokenEngine {
		o, _ := NewTokenEngine("another-secret")
		return o
	}()

	token, err := other.Issue("alice@example.com", ScopeAccess, time.Hour)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if _, err := e.Validate(token, ScopeAccess); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("foreign signature: want ErrInvalidToken, got %v", err)
	}

	if _, err := e.Validate("not.a.jwt", ScopeAccess); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("garbage token: want ErrInvalidToken, got %v", err)
	}
}

func TestValidate_RejectsUnexpectedAlg(t *testing.T) {
	e := newEngine(t)

	// alg=none must never validate, whatever the claims say.
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "alice@example.com",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Scope: ScopeAccess,
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("signing error: %v", err)
	}
	if _, err := e.Validate(token, ScopeAccess); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("want ErrInvalidToken for alg=none, got %v", err)
	}
}

func TestEmailToken_NoScopeClaim(t *testing.T) {
	e := newEngine(t)

	token, err := e.IssueEmailToken("alice@example.com", 7*24*time.Hour)
	if err != nil {
		t.Fatalf("IssueEmailToken error: %v", err)
	}

	subject, err := e.ValidateEmailToken(token)
	if err != nil {
		t.Fatalf("ValidateEmailToken error: %v", err)
	}
	if subject != "alice@example.com" {
		t.Fatalf("unexpected subject: %q", subject)
	}

	// The missing scope claim means an email token can never pass as an
	// access or refresh token.
	if _, err := e.Validate(token, ScopeAccess); !errors.Is(err, common.ErrTokenScopeInvalid) {
		t.Fatalf("email token as access token: want ErrTokenScopeInvalid, got %v", err)
	}

	// And the claim must be absent from the payload, not just empty.
	claims := &Claims{}
	if _, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	}); err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if claims.Scope != "" {
		t.Fatalf("email token must carry no scope, got %q", claims.Scope)
	}
}

func TestEmailToken_Expired(t *testing.T) {
	e := newEngine(t)

	token, err := e.IssueEmailToken("alice@example.com", -time.Minute)
	if err != nil {
		t.Fatalf("IssueEmailToken error: %v", err)
	}
	if _, err := e.ValidateEmailToken(token); !errors.Is(err, common.ErrTokenExpired) {
		t.Fatalf("want ErrTokenExpired, got %v", err)
	}
}
