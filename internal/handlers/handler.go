package handlers

import "looma-api/internal/gallery"

type Handler struct {
	gallery        *gallery.Store // nil when no library directory is configured
	maxUploadBytes int64
}

func New(gallery *gallery.Store, maxUploadBytes int64) *Handler {
	return &Handler{
		gallery:        gallery,
		maxUploadBytes: maxUploadBytes,
	}
}
