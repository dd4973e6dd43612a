package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

func (s *HTTPServer) handleListContacts(w http.ResponseWriter, r *http.Request) {
	account := accountFrom(r.Context())

	offset := queryInt(r, "offset", 0)
	limit := queryInt(r, "limit", 0)

	list, err := s.contacts.List(r.Context(), account.ID, offset, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newContactListResponse(list))
}

func (s *HTTPServer) handleGetContact(w http.ResponseWriter, r *http.Request) {
	account := accountFrom(r.Context())
	id := pathID(r)

	contact, err := s.contacts.Get(r.Context(), account.ID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newContactResponse(contact))
}

func (s *HTTPServer) handleFindContact(w http.ResponseWriter, r *http.Request) {
	account := accountFrom(r.Context())

	contact, err := s.contacts.Find(r.Context(), account.ID,
		queryString(r, "name"), queryString(r, "surname"), queryString(r, "email"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newContactResponse(contact))
}

func (s *HTTPServer) handleUpcomingBirthdays(w http.ResponseWriter, r *http.Request) {
	account := accountFrom(r.Context())

	list, err := s.contacts.UpcomingBirthdays(r.Context(), account.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newContactListResponse(list))
}

func (s *HTTPServer) handleCreateContact(w http.ResponseWriter, r *http.Request) {
	account := accountFrom(r.Context())

	var req contactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationError(w, "invalid request body")
		return
	}
	fields, err := req.fields()
	if err != nil {
		writeValidationError(w, "invalid birthdate, expected YYYY-MM-DD")
		return
	}

	contact, err := s.contacts.Create(r.Context(), account.ID, fields)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newContactResponse(contact))
}

func (s *HTTPServer) handleUpdateContact(w http.ResponseWriter, r *http.Request) {
	account := accountFrom(r.Context())
	id := pathID(r)

	var req contactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationError(w, "invalid request body")
		return
	}
	fields, err := req.fields()
	if err != nil {
		writeValidationError(w, "invalid birthdate, expected YYYY-MM-DD")
		return
	}

	contact, err := s.contacts.Update(r.Context(), account.ID, id, fields)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newContactResponse(contact))
}

func (s *HTTPServer) handleDeleteContact(w http.ResponseWriter, r *http.Request) {
	account := accountFrom(r.Context())
	id := pathID(r)

	if err := s.contacts.Delete(r.Context(), account.ID, id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// pathID parses the {id} route variable; the route pattern guarantees it is
// numeric.
func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id
}

func queryInt(r *http.Request, name string, fallback int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func queryString(r *http.Request, name string) *string {
	if !r.URL.Query().Has(name) {
		return nil
	}
	v := r.URL.Query().Get(name)
	return &v
}
