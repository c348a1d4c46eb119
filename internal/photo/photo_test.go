package photo

import (
	"errors"
	"testing"

	apperrors "looma-api/internal/errors"
	"looma-api/internal/exif/exiftest"
)

func TestProcessWithMetadata(t *testing.T) {
	data := exiftest.FullTags().JPEG()

	state, err := Process("holiday.jpg", "image/jpeg", data)
	if err != nil {
		t.Fatalf("Process() error: %v", err)
	}

	if state.Width != 16 || state.Height != 16 {
		t.Errorf("dimensions = %dx%d, want 16x16", state.Width, state.Height)
	}
	if !state.HasPrivacyData {
		t.Error("HasPrivacyData = false for image with GPS and camera identity")
	}
	if state.Exif.Make != "Canon" {
		t.Errorf("Make = %q, want Canon", state.Exif.Make)
	}
	if state.Size != len(data) {
		t.Errorf("Size = %d, want %d", state.Size, len(data))
	}
}

func TestProcessWithoutMetadata(t *testing.T) {
	state, err := Process("plain.jpg", "image/jpeg", exiftest.PlainJPEG(12, 7))
	if err != nil {
		t.Fatalf("Process() error: %v", err)
	}
	if !state.Exif.IsEmpty() {
		t.Errorf("Exif = %+v, want empty", state.Exif)
	}
	if state.HasPrivacyData {
		t.Error("HasPrivacyData = true for image without metadata")
	}
	if state.Width != 12 || state.Height != 7 {
		t.Errorf("dimensions = %dx%d, want 12x7", state.Width, state.Height)
	}
}

func TestProcessUndecodable(t *testing.T) {
	_, err := Process("bad.bin", "application/octet-stream", []byte("not an image"))
	if err == nil {
		t.Fatal("Process() expected error for undecodable data")
	}
	if !errors.Is(err, apperrors.ErrDecode) {
		t.Errorf("error = %v, want ErrDecode", err)
	}
}

func TestProcessEmptyInput(t *testing.T) {
	_, err := Process("empty.jpg", "image/jpeg", nil)
	if !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Errorf("error = %v, want ErrInvalidInput", err)
	}
}
