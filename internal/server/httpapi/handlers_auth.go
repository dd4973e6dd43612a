package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/dmitrijs2005/contactbook/internal/common"
	"github.com/dmitrijs2005/contactbook/internal/validation"
)

func (s *HTTPServer) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationError(w, "invalid request body")
		return
	}

	if err := validation.ValidateLogin(req.Login); err != nil {
		writeError(w, err)
		return
	}
	if err := validation.ValidateEmail(req.Email); err != nil {
		writeError(w, err)
		return
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		writeError(w, err)
		return
	}

	account, err := s.accounts.Signup(r.Context(), req.Login, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, newAccountResponse(account))
}

func (s *HTTPServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationError(w, "invalid request body")
		return
	}

	pair, err := s.accounts.Login(r.Context(), req.Login, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "bearer",
	})
}

// handleRefreshToken rotates the pair; the refresh token arrives as a bearer
// credential.
func (s *HTTPServer) handleRefreshToken(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		writeError(w, common.ErrUnauthenticated)
		return
	}

	pair, err := s.accounts.Refresh(r.Context(), token)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "bearer",
	})
}

func (s *HTTPServer) handleConfirmEmail(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]

	already, err := s.accounts.ConfirmEmail(r.Context(), token)
	if err != nil {
		writeError(w, err)
		return
	}

	if already {
		writeJSON(w, http.StatusOK, messageResponse{Message: "Your email is already confirmed"})
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Email confirmed"})
}

func (s *HTTPServer) handleRequestEmail(w http.ResponseWriter, r *http.Request) {
	var req requestEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationError(w, "invalid request body")
		return
	}
	if err := validation.ValidateEmail(req.Email); err != nil {
		writeError(w, err)
		return
	}

	already, err := s.accounts.ResendConfirmation(r.Context(), req.Email)
	if err != nil {
		writeError(w, err)
		return
	}

	if already {
		writeJSON(w, http.StatusOK, messageResponse{Message: "Your email is already confirmed"})
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Check your email for confirmation"})
}
