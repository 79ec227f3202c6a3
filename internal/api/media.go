package api

import (
	"io"
	"net/http"

	"github.com/erazemk/najdeno/internal/service"
)

// MaxUploadSize bounds media uploads.
const MaxUploadSize = 5 << 20

// MediaHandler handles photo uploads.
type MediaHandler struct {
	Items *service.ItemService
}

type uploadResponse struct {
	Locator string `json:"media_locator"`
}

// Upload handles POST /api/media. The returned locator goes on a draft.
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)

	if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "image file required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to read image")
		return
	}

	locator, err := h.Items.UploadMedia(r.Context(), GetActor(r.Context()), data, header.Filename)
	if err != nil {
		writeError(w, err)
		return
	}
	jsonResponse(w, http.StatusCreated, uploadResponse{Locator: locator})
}
