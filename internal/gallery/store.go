// Package gallery serves a paginated view over a local image library:
// scanned items with dimensions and privacy classification, plus original
// and thumbnail bytes behind a TTL cache.
package gallery

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	_ "image/gif"
	_ "image/png"

	"github.com/anthonynsimon/bild/transform"
	"github.com/google/uuid"
	"github.com/karrick/godirwalk"

	apperrors "looma-api/internal/errors"
	"looma-api/internal/exif"
	"looma-api/internal/models"
)

var imageContentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
}

type libraryEntry struct {
	item *models.GalleryItem
	path string
}

// Store is the in-memory library index over a directory of images.
// The cache is injected so the owner controls its lifetime; Reload is the
// single invalidation trigger and flushes it.
type Store struct {
	dir        string
	thumbWidth int
	cache      *Cache

	mu    sync.RWMutex
	items []*models.GalleryItem
	byID  map[string]libraryEntry
}

func NewStore(dir string, thumbWidth int, cache *Cache) *Store {
	return &Store{
		dir:        dir,
		thumbWidth: thumbWidth,
		cache:      cache,
		byID:       make(map[string]libraryEntry),
	}
}

// Reload rescans the library directory, rebuilds the index and flushes the
// cache. Unreadable files are skipped with a warning, never fatal.
func (s *Store) Reload() error {
	var items []*models.GalleryItem
	byID := make(map[string]libraryEntry)

	err := godirwalk.Walk(s.dir, &godirwalk.Options{
		Unsorted: true,
		Callback: func(path string, de *godirwalk.Dirent) error {
			if de.IsDir() {
				return nil
			}
			contentType, ok := imageContentTypes[strings.ToLower(filepath.Ext(path))]
			if !ok {
				return nil
			}

			item, err := s.scanFile(path, contentType)
			if err != nil {
				log.Printf("[Gallery] Skipping %s: %v", path, err)
				return nil
			}
			items = append(items, item)
			byID[item.Id] = libraryEntry{item: item, path: path}
			return nil
		},
	})
	if err != nil {
		return fmt.Errorf("failed to scan library %s: %w", s.dir, err)
	}

	// Newest first, filename as tiebreaker for stable pagination.
	sort.Slice(items, func(i, j int) bool {
		if !items[i].TakenAt.Equal(items[j].TakenAt) {
			return items[i].TakenAt.After(items[j].TakenAt)
		}
		return items[i].FileName < items[j].FileName
	})

	s.mu.Lock()
	s.items = items
	s.byID = byID
	s.mu.Unlock()
	s.cache.Flush()

	log.Printf("[Gallery] Indexed %d images from %s", len(items), s.dir)
	return nil
}

func (s *Store) scanFile(path, contentType string) (*models.GalleryItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrDecode, err)
	}

	info := exif.ExtractFromImage(data)

	item := &models.GalleryItem{
		Id:             uuid.New().String(),
		FileName:       filepath.Base(path),
		ContentType:    contentType,
		Size:           int64(len(data)),
		Width:          cfg.Width,
		Height:         cfg.Height,
		HasPrivacyData: exif.HasPrivacyData(&info),
	}
	if info.DateTimeOriginal != "" {
		if t, err := time.Parse("2006:01:02 15:04:05", info.DateTimeOriginal); err == nil {
			item.TakenAt = t
		}
	}
	return item, nil
}

// List returns one page of gallery items.
func (s *Store) List(limit, page int) []*models.GalleryItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || page < 0 {
		return nil
	}
	start := page * limit
	if start >= len(s.items) {
		return nil
	}
	end := min(start+limit, len(s.items))
	return s.items[start:end]
}

// Len reports the number of indexed images.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Image returns the original bytes for an item, cache first.
func (s *Store) Image(id string) ([]byte, string, error) {
	if entry, ok := s.cache.Get(id); ok {
		return entry.Data, entry.ContentType, nil
	}

	s.mu.RLock()
	entry, ok := s.byID[id]
	s.mu.RUnlock()
	if !ok {
		return nil, "", fmt.Errorf("%w: image %s", apperrors.ErrNotFound, id)
	}

	data, err := os.ReadFile(entry.path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read %s: %w", entry.path, err)
	}

	s.cache.Set(id, data, entry.item.ContentType)
	return data, entry.item.ContentType, nil
}

// Thumbnail returns a JPEG thumbnail at the configured width, preserving
// aspect ratio. Thumbnails are cached under a derived key.
func (s *Store) Thumbnail(id string) ([]byte, error) {
	key := "thumb:" + id
	if entry, ok := s.cache.Get(key); ok {
		return entry.Data, nil
	}

	data, _, err := s.Image(id)
	if err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrDecode, err)
	}

	bounds := img.Bounds()
	width := s.thumbWidth
	if bounds.Dx() <= width {
		width = bounds.Dx()
	}
	height := bounds.Dy() * width / bounds.Dx()
	if height < 1 {
		height = 1
	}
	small := transform.Resize(img, width, height, transform.Linear)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, small, &jpeg.Options{Quality: 85}); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrEncode, err)
	}

	s.cache.Set(key, buf.Bytes(), "image/jpeg")
	return buf.Bytes(), nil
}
