// Package auth implements the authentication core: scoped JWT issuance and
// validation, bcrypt password hashing, and refresh-token fingerprints.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/contactbook/internal/common"
)

// Scope distinguishes access tokens from refresh tokens signed with the
// same key, so one kind cannot be replayed as the other.
type Scope string

const (
	ScopeAccess  Scope = "access_token"
	ScopeRefresh Scope = "refresh_token"
)

// Claims is the signed claims bundle. Email-verification tokens carry no
// scope claim at all (omitempty), matching the shape of the links already
// in circulation; access and refresh tokens always set it.
type Claims struct {
	jwt.RegisteredClaims
	Scope Scope `json:"scope,omitempty"`
}

// TokenEngine signs and validates tokens with a process-wide HS256 secret.
// It is stateless per call; tokens are self-contained and never persisted.
type TokenEngine struct {
	secret []byte
}

// NewTokenEngine builds a TokenEngine. An empty secret is a configuration
// error and must abort startup.
func NewTokenEngine(secret string) (*TokenEngine, error) {
	if secret == "" {
		return nil, fmt.Errorf("%w: JWT signing secret is not set", common.ErrConfig)
	}
	return &TokenEngine{secret: []byte(secret)}, nil
}

// Issue signs a token for the given subject email with the given scope,
// expiring ttl from now.
func (e *TokenEngine) Issue(subject string, scope Scope, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Scope: scope,
	})
	return token.SignedString(e.secret)
}

// IssueEmailToken signs an email-verification token: same key and claims
// shape as the others, but with no scope claim.
func (e *TokenEngine) IssueEmailToken(subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
	return token.SignedString(e.secret)
}

// Validate verifies the signature and expiry, checks the scope claim
// against expected, and returns the subject email.
//
// Failure taxonomy: malformed or badly signed tokens yield ErrInvalidToken,
// expired tokens ErrTokenExpired, and a scope other than expected
// ErrTokenScopeInvalid. A token validated at exactly its expiry instant is
// expired.
func (e *TokenEngine) Validate(tokenString string, expected Scope) (string, error) {
	claims, err := e.parse(tokenString)
	if err != nil {
		return "", err
	}
	if claims.Scope != expected {
		return "", common.ErrTokenScopeInvalid
	}
	return claims.Subject, nil
}

// ValidateEmailToken verifies signature and expiry only; email-verification
// tokens have no scope claim to check.
func (e *TokenEngine) ValidateEmailToken(tokenString string) (string, error) {
	claims, err := e.parse(tokenString)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

func (e *TokenEngine) parse(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return e.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
