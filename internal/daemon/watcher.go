// Package daemon watches an inbox directory and automatically writes a
// metadata-free copy of every new privacy-sensitive image to the cleaned
// directory.
package daemon

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"looma-api/internal/convert"
	"looma-api/internal/exif"
	"looma-api/internal/sanitize"
)

var imageExts = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".heic": "image/heic",
	".heif": "image/heif",
}

// Watcher auto-cleans images dropped into the watch directory.
type Watcher struct {
	watchDir   string
	cleanedDir string

	// Delay between the create event and the read, so the writer has a
	// chance to finish. Crude but sufficient for drop-folder usage.
	settleDelay time.Duration
}

func New(watchDir, cleanedDir string) *Watcher {
	return &Watcher{
		watchDir:    watchDir,
		cleanedDir:  cleanedDir,
		settleDelay: 200 * time.Millisecond,
	}
}

// Run watches until the context is canceled. Per-file failures are logged
// and never stop the loop.
func (w *Watcher) Run(ctx context.Context) error {
	if err := os.MkdirAll(w.cleanedDir, 0755); err != nil {
		return fmt.Errorf("failed to create cleaned dir: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.watchDir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.watchDir, err)
	}

	log.Printf("[Daemon] Watching %s -> %s", w.watchDir, w.cleanedDir)

	for {
		select {
		case <-ctx.Done():
			log.Println("[Daemon] Watcher stopped")
			return ctx.Err()
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) {
				w.handle(event.Name)
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			log.Printf("[Daemon] Watch error: %v", err)
		}
	}
}

func (w *Watcher) handle(path string) {
	contentType, ok := imageExts[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return
	}

	time.Sleep(w.settleDelay)

	if err := w.CleanFile(path, contentType); err != nil {
		log.Printf("[Daemon] Failed to clean %s: %v", path, err)
	}
}

// CleanFile sanitizes one file into the cleaned directory when it carries
// privacy-sensitive metadata; files without such metadata are left alone.
func (w *Watcher) CleanFile(path, contentType string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read failed: %w", err)
	}

	info := exif.ExtractFromImage(data)
	if !exif.HasPrivacyData(&info) {
		log.Printf("[Daemon] %s has no privacy data, skipping", filepath.Base(path))
		return nil
	}

	clean, outType, err := sanitize.Sanitize(data, contentType)
	if err != nil {
		return err
	}

	// HEIC input comes back as JPEG; the saved name should match.
	name := filepath.Base(path)
	if convert.IsHeifLike(contentType) && outType == "image/jpeg" {
		if ext := filepath.Ext(name); ext != "" {
			name = strings.TrimSuffix(name, ext) + ".jpg"
		}
	}

	out := filepath.Join(w.cleanedDir, sanitize.CleanedFilename(name))
	if err := os.WriteFile(out, clean, 0644); err != nil {
		return fmt.Errorf("write failed: %w", err)
	}

	log.Printf("[Daemon] Cleaned %s -> %s", filepath.Base(path), out)
	return nil
}
