package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	apperrors "looma-api/internal/errors"
	"looma-api/internal/photo"
)

// HandleExtract accepts a multipart image upload and returns the combined
// photo state: dimensions, extracted metadata and the privacy verdict.
// An image without metadata gets a normal 200 with an empty exif record,
// the same as one whose metadata failed to parse.
func (h *Handler) HandleExtract(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	name, contentType, data, ok := h.readUpload(w, r)
	if !ok {
		return
	}

	state, err := photo.Process(name, contentType, data)
	if err != nil {
		log.Printf("[EXIF] Failed to process %s: %v", name, err)
		if errors.Is(err, apperrors.ErrDecode) || errors.Is(err, apperrors.ErrInvalidInput) {
			http.Error(w, "Unsupported or corrupt image", http.StatusUnprocessableEntity)
		} else {
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	log.Printf("[EXIF] Extracted %s in %v", name, time.Since(start))

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(state); err != nil {
		log.Printf("[EXIF] Failed to encode response: %v", err)
	}
}
