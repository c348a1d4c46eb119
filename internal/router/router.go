package router

import (
	"net/http"

	"looma-api/internal/handlers"
)

// Setup configures and returns the HTTP router with all application routes.
func Setup(h *handlers.Handler) http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", h.HandleHealth)

	// Metadata endpoints
	mux.HandleFunc("/exif", h.HandleExtract)
	mux.HandleFunc("/image/clean", h.HandleClean)

	// Gallery endpoints
	mux.HandleFunc("/gallery/list", h.HandleGalleryList)
	mux.HandleFunc("/gallery/image", h.HandleGalleryImage)

	return mux
}
