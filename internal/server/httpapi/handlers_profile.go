package httpapi

import (
	"io"
	"net/http"
)

// maxAvatarSize caps the multipart upload at 5 MiB.
const maxAvatarSize = 5 << 20

// handleMyProfile returns the authenticated account's own profile.
func (s *HTTPServer) handleMyProfile(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newAccountResponse(accountFrom(r.Context())))
}

// handleUpdateAvatar accepts a multipart form with a "file" field, uploads
// the image to object storage and returns the persisted URL.
func (s *HTTPServer) handleUpdateAvatar(w http.ResponseWriter, r *http.Request) {
	account := accountFrom(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxAvatarSize)
	if err := r.ParseMultipartForm(maxAvatarSize); err != nil {
		writeValidationError(w, "invalid multipart form")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeValidationError(w, "missing file field")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeValidationError(w, "could not read file")
		return
	}

	url, err := s.accounts.UpdateAvatar(r.Context(), account, data)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, avatarResponse{Avatar: url})
}
