// Package photo assembles the combined per-upload state: metadata
// extraction and pixel-dimension decoding over the same bytes.
package photo

import (
	"bytes"
	"fmt"
	"image"
	"log"
	"sync"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/adrium/goheif"

	"looma-api/internal/convert"
	apperrors "looma-api/internal/errors"
	"looma-api/internal/exif"
	"looma-api/internal/models"
)

// Process builds a PhotoState from one uploaded file. EXIF extraction and
// the dimension decode are independent and run concurrently, each on its
// own reader; the state is ready only once both complete. Each call owns
// its buffer — nothing is shared between uploads.
//
// An image with no (or unreadable) metadata is a normal outcome and yields
// an empty ExifInfo; a file that cannot be decoded at all fails with a
// wrapped ErrDecode.
func Process(name, contentType string, data []byte) (*models.PhotoState, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty file", apperrors.ErrInvalidInput)
	}

	var (
		wg        sync.WaitGroup
		info      models.ExifInfo
		cfg       image.Config
		decodeErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		info = exif.ExtractFromImage(data)
	}()
	go func() {
		defer wg.Done()
		if convert.IsHeifLike(contentType) {
			cfg, decodeErr = goheif.DecodeConfig(bytes.NewReader(data))
		} else {
			cfg, _, decodeErr = image.DecodeConfig(bytes.NewReader(data))
		}
	}()
	wg.Wait()

	if decodeErr != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrDecode, decodeErr)
	}

	state := &models.PhotoState{
		FileName:       name,
		ContentType:    contentType,
		Size:           len(data),
		Width:          cfg.Width,
		Height:         cfg.Height,
		Exif:           info,
		HasPrivacyData: exif.HasPrivacyData(&info),
	}

	log.Printf("[Photo] Processed %s (%dx%d, privacy=%v)", name, state.Width, state.Height, state.HasPrivacyData)
	return state, nil
}
