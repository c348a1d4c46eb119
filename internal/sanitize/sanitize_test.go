package sanitize

import (
	"bytes"
	"errors"
	"image"
	"testing"

	apperrors "looma-api/internal/errors"
	"looma-api/internal/exif"
	"looma-api/internal/exif/exiftest"
)

func TestSanitizeStripsAllMetadata(t *testing.T) {
	dirty := exiftest.FullTags().JPEG()

	// Confirm the fixture actually carries metadata first.
	before := exif.ExtractFromImage(dirty)
	if before.IsEmpty() {
		t.Fatal("fixture image carries no metadata")
	}

	clean, contentType, err := Sanitize(dirty, "image/jpeg")
	if err != nil {
		t.Fatalf("Sanitize() error: %v", err)
	}
	if contentType != "image/jpeg" {
		t.Errorf("content type = %q, want image/jpeg", contentType)
	}

	after := exif.ExtractFromImage(clean)
	if !after.IsEmpty() {
		t.Errorf("sanitized image still carries metadata: %+v", after)
	}
	if exif.HasPrivacyData(&after) {
		t.Error("sanitized image still classified as privacy-sensitive")
	}
}

func TestSanitizePreservesDimensions(t *testing.T) {
	orig := exiftest.PlainJPEG(37, 21)

	clean, _, err := Sanitize(orig, "image/jpeg")
	if err != nil {
		t.Fatalf("Sanitize() error: %v", err)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(clean))
	if err != nil {
		t.Fatalf("decoding sanitized output: %v", err)
	}
	if cfg.Width != 37 || cfg.Height != 21 {
		t.Errorf("dimensions = %dx%d, want 37x21", cfg.Width, cfg.Height)
	}
}

func TestSanitizeDecodeFailure(t *testing.T) {
	_, _, err := Sanitize([]byte("definitely not an image"), "image/jpeg")
	if err == nil {
		t.Fatal("Sanitize() expected error for undecodable input")
	}
	if !errors.Is(err, apperrors.ErrDecode) {
		t.Errorf("error = %v, want ErrDecode", err)
	}
}

func TestCleanedFilename(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "jpg extension", in: "beach.jpg", want: "beach_cleaned.jpg"},
		{name: "nested dots", in: "trip.day.2.png", want: "trip.day.2_cleaned.png"},
		// Extensionless names keep the bare trailing dot; intentional
		// preservation of observed behavior, do not "fix".
		{name: "no extension", in: "photo", want: "photo_cleaned."},
		{name: "dotfile", in: ".hidden", want: "_cleaned.hidden"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanedFilename(tt.in); got != tt.want {
				t.Errorf("CleanedFilename(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
