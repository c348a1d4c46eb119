package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	apperrors "looma-api/internal/errors"
)

const maxListLimit = 1000

// HandleGalleryList returns one page of library items as JSON.
func (h *Handler) HandleGalleryList(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.gallery == nil {
		http.Error(w, "Gallery not configured", http.StatusServiceUnavailable)
		return
	}

	query := r.URL.Query()

	limit := 100
	if limitStr := query.Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 || parsed > maxListLimit {
			http.Error(w, "Invalid limit parameter", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	page := 0
	if pageStr := query.Get("page"); pageStr != "" {
		parsed, err := strconv.Atoi(pageStr)
		if err != nil || parsed < 0 {
			http.Error(w, "Invalid page parameter", http.StatusBadRequest)
			return
		}
		page = parsed
	}

	items := h.gallery.List(limit, page)
	log.Printf("[Gallery] Served %d items (limit=%d, page=%d) in %v", len(items), limit, page, time.Since(start))

	w.Header().Set("Content-Type", "application/json")
	if items == nil {
		// Keep the empty page as [] rather than null.
		w.Write([]byte("[]"))
		return
	}
	if err := json.NewEncoder(w).Encode(items); err != nil {
		log.Printf("[Gallery] Failed to encode response: %v", err)
	}
}

// HandleGalleryImage serves original bytes or a thumbnail for one item.
func (h *Handler) HandleGalleryImage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.gallery == nil {
		http.Error(w, "Gallery not configured", http.StatusServiceUnavailable)
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "Missing id parameter", http.StatusBadRequest)
		return
	}

	var data []byte
	var contentType string
	var err error
	if r.URL.Query().Get("thumb") != "" {
		data, err = h.gallery.Thumbnail(id)
		contentType = "image/jpeg"
	} else {
		data, contentType, err = h.gallery.Image(id)
	}
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			http.Error(w, "Image not found", http.StatusNotFound)
		} else {
			log.Printf("[Gallery] Failed to serve %s: %v", id, err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=900")
	if _, err := w.Write(data); err != nil {
		log.Printf("[Gallery] Failed to write response: %v", err)
	}
}
