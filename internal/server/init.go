package server

import (
	"context"
	"log"
	"net/http"

	"golang.org/x/time/rate"

	"looma-api/internal/config"
	"looma-api/internal/daemon"
	"looma-api/internal/gallery"
	"looma-api/internal/handlers"
	"looma-api/internal/middleware"
	"looma-api/internal/router"
)

// Services holds all initialized services for the application
type Services struct {
	Cache   *gallery.Cache
	Gallery *gallery.Store  // nil when LIBRARY_DIR is unset
	Watcher *daemon.Watcher // nil when WATCH_DIR is unset
}

// InitServices initializes all application services based on configuration.
// Returns the initialized services or an error if initialization fails.
func InitServices(cfg *config.Config) (*Services, error) {
	cache := gallery.NewCache(cfg.CacheTTL, cfg.CacheCleanupInterval)

	svcs := &Services{Cache: cache}

	if cfg.LibraryDir != "" {
		store := gallery.NewStore(cfg.LibraryDir, cfg.ThumbnailWidth, cache)
		if err := store.Reload(); err != nil {
			return nil, err
		}
		svcs.Gallery = store
	} else {
		log.Println("LIBRARY_DIR not set, gallery endpoints disabled")
	}

	if cfg.WatchDir != "" {
		svcs.Watcher = daemon.New(cfg.WatchDir, cfg.CleanedDir)
	}

	return svcs, nil
}

// CreateHandler creates an HTTP handler with all middleware applied
func CreateHandler(svcs *Services, cfg *config.Config) http.Handler {
	h := handlers.New(svcs.Gallery, cfg.MaxUploadBytes)

	mux := router.Setup(h)

	limiter := middleware.NewRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)

	wrapped := limiter.Limit(mux)
	if len(cfg.APIKeys) > 0 {
		wrapped = middleware.APIKeyAuth(cfg.APIKeys)(wrapped)
	}
	wrapped = middleware.RequestID(wrapped)
	wrapped = middleware.Logger(wrapped)
	wrapped = middleware.CORS(wrapped, cfg.AllowedOrigins)

	return wrapped
}

// StartWatcher runs the auto-clean watcher in the background.
// Returns a cancel function to stop it gracefully.
func StartWatcher(ctx context.Context, w *daemon.Watcher) context.CancelFunc {
	if w == nil {
		return func() {}
	}

	watchCtx, cancel := context.WithCancel(ctx)
	go func() {
		if err := w.Run(watchCtx); err != nil && err != context.Canceled {
			log.Printf("[Daemon] Watcher exited: %v", err)
		}
	}()
	return cancel
}
