// Package sanitize strips all embedded metadata from an image by
// re-rasterizing it: the original bytes are decoded to a fresh pixel
// surface and re-encoded, so EXIF/ICC/XMP container segments are dropped
// by construction rather than by deleting tags one by one.
package sanitize

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"log"
	"strings"

	"github.com/adrium/goheif"

	"looma-api/internal/convert"
	apperrors "looma-api/internal/errors"
)

// Re-encode quality for lossy output, matching the product's fixed 0.95
// canvas quality factor.
const jpegQuality = 95

// Sanitize decodes data into pixels and re-encodes it at native resolution.
// The output format follows the input format (HEIC and unrecognized formats
// re-encode as JPEG). Returns the clean bytes and their content type.
//
// Failures are terminal for the single operation: a wrapped ErrDecode when
// the image cannot be decoded, a wrapped ErrEncode when re-encoding fails.
// No partial output is ever returned; the original bytes are untouched and
// the caller may simply retry.
func Sanitize(data []byte, contentType string) ([]byte, string, error) {
	var img image.Image
	var format string
	var err error

	if convert.IsHeifLike(contentType) {
		img, err = goheif.Decode(bytes.NewReader(data))
		format = "heic"
	} else {
		img, format, err = image.Decode(bytes.NewReader(data))
	}
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", apperrors.ErrDecode, err)
	}

	var buf bytes.Buffer
	outType := "image/jpeg"
	switch format {
	case "png":
		outType = "image/png"
		err = png.Encode(&buf, img)
	case "gif":
		outType = "image/gif"
		err = gif.Encode(&buf, img, nil)
	case "jpeg":
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality})
	default:
		// HEIC and anything exotic re-encodes as JPEG.
		log.Printf("[Sanitize] Re-encoding %q input as JPEG", format)
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality})
	}
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", apperrors.ErrEncode, err)
	}

	return buf.Bytes(), outType, nil
}

// CleanedFilename derives the output filename for a sanitized image by
// inserting "_cleaned" before the extension. A name without an extension
// keeps the suffix and gains a bare trailing dot ("photo" becomes
// "photo_cleaned."); that quirk is long-standing observable behavior.
func CleanedFilename(name string) string {
	base, ext := name, ""
	if i := strings.LastIndex(name, "."); i >= 0 {
		base, ext = name[:i], name[i+1:]
	}
	return fmt.Sprintf("%s_cleaned.%s", base, ext)
}
