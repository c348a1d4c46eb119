package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"looma-api/internal/convert"
	apperrors "looma-api/internal/errors"
	"looma-api/internal/sanitize"
)

// HandleClean accepts a multipart image upload, strips all metadata by
// re-rasterizing, and streams the result back as an attachment so the
// client saves it under the derived "_cleaned" filename.
func (h *Handler) HandleClean(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	name, contentType, data, ok := h.readUpload(w, r)
	if !ok {
		return
	}

	clean, outType, err := sanitize.Sanitize(data, contentType)
	if err != nil {
		log.Printf("[Clean] Failed to sanitize %s: %v", name, err)
		if errors.Is(err, apperrors.ErrDecode) {
			http.Error(w, "Unsupported or corrupt image", http.StatusUnprocessableEntity)
		} else {
			http.Error(w, "Failed to re-encode image", http.StatusInternalServerError)
		}
		return
	}

	// HEIC input comes back as JPEG, so the saved name should match.
	if convert.IsHeifLike(contentType) && outType == "image/jpeg" {
		if ext := filepath.Ext(name); ext != "" {
			name = strings.TrimSuffix(name, ext) + ".jpg"
		}
	}

	log.Printf("[Clean] Sanitized %s (%d -> %d bytes) in %v", name, len(data), len(clean), time.Since(start))

	w.Header().Set("Content-Type", outType)
	w.Header().Set("Content-Length", strconv.Itoa(len(clean)))
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", sanitize.CleanedFilename(name)))
	if _, err := w.Write(clean); err != nil {
		log.Printf("[Clean] Failed to write response: %v", err)
	}
}
