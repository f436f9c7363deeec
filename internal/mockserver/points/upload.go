package points

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"ecomapa/internal/mockserver/store"
)

// maxUploadBytes caps one image upload at 10 MiB.
const maxUploadBytes = 10 << 20

// UploadImage accepts one multipart image for an existing point. It is
// mounted straight on the router because the payload is form data, not JSON.
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	header := r.Header.Get("Authorization")
	if len(header) < 7 || header[:7] != "Bearer " {
		writeDetail(w, http.StatusUnauthorized, "Authentication credentials were not provided.")
		return
	}
	if _, err := h.store.ValidateAccess(header[7:]); err != nil {
		detail := store.DetailNotValid
		var tokenErr *store.TokenError
		if errors.As(err, &tokenErr) {
			detail = tokenErr.Detail
		}
		writeDetail(w, http.StatusUnauthorized, detail)
		return
	}

	pointID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeDetail(w, http.StatusNotFound, "Not found.")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid multipart payload.")
		return
	}
	file, fileHeader, err := r.FormFile("image")
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "No image file provided.")
		return
	}
	defer file.Close()

	if err := h.store.AddImage(pointID, fileHeader.Filename); err != nil {
		writeDetail(w, http.StatusNotFound, "Not found.")
		return
	}

	h.log.Info("image uploaded", "point", pointID, "filename", fileHeader.Filename)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"status": "uploaded"})
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}
