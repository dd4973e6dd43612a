package httpapi

import (
	"database/sql"
	"time"

	"github.com/dmitrijs2005/contactbook/internal/server/models"
)

// Wire DTOs. Dates travel as "2006-01-02"; nullable columns become nullable
// JSON fields.

const dateLayout = "2006-01-02"

type signupRequest struct {
	Login    string `json:"login"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type requestEmailRequest struct {
	Email string `json:"email"`
}

type accountResponse struct {
	ID        int64   `json:"id"`
	Login     string  `json:"login"`
	Email     string  `json:"email"`
	Avatar    *string `json:"avatar"`
	Confirmed bool    `json:"confirmed"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type avatarResponse struct {
	Avatar string `json:"avatar"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

type contactRequest struct {
	Name           string  `json:"name"`
	Surname        *string `json:"surname"`
	Email          *string `json:"email"`
	Phone          *string `json:"phone"`
	Birthdate      *string `json:"birthdate"`
	AdditionalData *string `json:"additional_data"`
}

type contactResponse struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Surname        *string   `json:"surname"`
	Email          *string   `json:"email"`
	Phone          *string   `json:"phone"`
	Birthdate      *string   `json:"birthdate"`
	AdditionalData *string   `json:"additional_data"`
	CreatedAt      time.Time `json:"created_at"`
}

func newAccountResponse(a *models.Account) accountResponse {
	return accountResponse{
		ID:        a.ID,
		Login:     a.Login,
		Email:     a.Email,
		Avatar:    nullableString(a.Avatar),
		Confirmed: a.Confirmed,
	}
}

func newContactResponse(c *models.Contact) contactResponse {
	resp := contactResponse{
		ID:             c.ID,
		Name:           c.Name,
		Surname:        nullableString(c.Surname),
		Email:          nullableString(c.Email),
		Phone:          nullableString(c.Phone),
		AdditionalData: nullableString(c.AdditionalData),
		CreatedAt:      c.CreatedAt,
	}
	if c.Birthdate.Valid {
		s := c.Birthdate.Time.Format(dateLayout)
		resp.Birthdate = &s
	}
	return resp
}

func newContactListResponse(list []*models.Contact) []contactResponse {
	out := make([]contactResponse, 0, len(list))
	for _, c := range list {
		out = append(out, newContactResponse(c))
	}
	return out
}

// fields converts the request DTO to the model field set; an unparseable
// birthdate is reported by the caller as a validation failure.
func (r *contactRequest) fields() (models.ContactFields, error) {
	f := models.ContactFields{
		Name:           r.Name,
		Surname:        nullString(r.Surname),
		Email:          nullString(r.Email),
		Phone:          nullString(r.Phone),
		AdditionalData: nullString(r.AdditionalData),
	}
	if r.Birthdate != nil && *r.Birthdate != "" {
		d, err := time.Parse(dateLayout, *r.Birthdate)
		if err != nil {
			return models.ContactFields{}, err
		}
		f.Birthdate = sql.NullTime{Time: d, Valid: true}
	}
	return f, nil
}

func nullableString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
