package exif

import (
	"bytes"
	"errors"
	"testing"

	apperrors "looma-api/internal/errors"
	"looma-api/internal/exif/exiftest"
)

func TestParseFullTagSet(t *testing.T) {
	raw, err := Parse(exiftest.FullTags().JPEG())
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}
	if raw == nil {
		t.Fatal("Parse() returned nil for an image with metadata")
	}

	if got := raw.Zeroth.Str(TagMake); got != "Canon" {
		t.Errorf("Make = %q, want %q", got, "Canon")
	}
	if got := raw.Exif.Str(TagDateTimeOriginal); got != "2025:01:15 14:29:58" {
		t.Errorf("DateTimeOriginal = %q, want %q", got, "2025:01:15 14:29:58")
	}
	if r, ok := raw.Exif.Rat(TagExposureTime); !ok || r.Num != 1 || r.Den != 200 {
		t.Errorf("ExposureTime = %+v (ok=%v), want 1/200", r, ok)
	}
	if rats, ok := raw.GPS.Rats(TagGPSLatitude); !ok || len(rats) != 3 {
		t.Errorf("GPSLatitude = %v (ok=%v), want 3 rationals", rats, ok)
	}
	if got := raw.GPS.Str(TagGPSLatitudeRef); got != "S" {
		t.Errorf("GPSLatitudeRef = %q, want %q", got, "S")
	}
	if n, ok := raw.Exif.Int(TagISOSpeedRatings); !ok || n != 100 {
		t.Errorf("ISO = %d (ok=%v), want 100", n, ok)
	}
}

func TestParseKeepsGPSRefWithInteropIFD(t *testing.T) {
	// Interoperability tag 0x0001 ("R98") shares its numeric ID with
	// GPSLatitudeRef; the decoder hands tags back in map order, so run the
	// parse repeatedly to cover both visit orders.
	data := exiftest.FullTags().JPEG()

	for i := 0; i < 25; i++ {
		raw, err := Parse(data)
		if err != nil {
			t.Fatalf("Parse() error: %v", err)
		}
		if got := raw.GPS.Str(TagGPSLatitudeRef); got != "S" {
			t.Fatalf("GPSLatitudeRef = %q, want %q (run %d)", got, "S", i)
		}

		info := Extract(raw)
		if info.GPS == nil || info.GPS.Latitude >= 0 {
			t.Fatalf("GPS = %+v, want negative latitude for ref S (run %d)", info.GPS, i)
		}
	}
}

func TestParseNoMetadata(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{name: "plain JPEG", data: exiftest.PlainJPEG(8, 8)},
		{name: "not a JPEG", data: []byte("\x89PNG\r\n\x1a\nnot really a png")},
		{name: "empty input", data: nil},
		{name: "truncated SOI", data: []byte{0xFF, 0xD8}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := Parse(tt.data)
			if err != nil {
				t.Fatalf("Parse() unexpected error: %v", err)
			}
			if raw != nil {
				t.Errorf("Parse() = %+v, want nil for input without metadata", raw)
			}
		})
	}
}

func TestParseMalformedSegment(t *testing.T) {
	// APP1 header announces EXIF but the body is not a TIFF block.
	data := exiftest.SpliceAPP1(exiftest.PlainJPEG(8, 8), []byte("garbage, not a TIFF header"))

	raw, err := Parse(data)
	if err == nil {
		t.Fatal("Parse() expected error for malformed metadata segment")
	}
	if !errors.Is(err, apperrors.ErrMalformedExif) {
		t.Errorf("Parse() error = %v, want ErrMalformedExif", err)
	}
	if raw != nil {
		t.Errorf("Parse() returned tags %+v alongside an error", raw)
	}
}

func TestParseHeicWithoutMetadata(t *testing.T) {
	// A bare ftyp box: a recognizable HEIC container with no Exif item.
	heic := append([]byte{0, 0, 0, 16}, []byte("ftypheicmif1")...)

	raw, err := Parse(heic)
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}
	if raw != nil {
		t.Errorf("Parse() = %+v, want nil for HEIC without metadata", raw)
	}
}

func TestIsHeifContainer(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want bool
	}{
		{name: "heic brand", data: append([]byte{0, 0, 0, 24}, []byte("ftypheic")...), want: true},
		{name: "mif1 brand", data: append([]byte{0, 0, 0, 24}, []byte("ftypmif1")...), want: true},
		{name: "jpeg", data: exiftest.PlainJPEG(8, 8), want: false},
		{name: "unknown brand", data: append([]byte{0, 0, 0, 24}, []byte("ftypisom")...), want: false},
		{name: "too short", data: []byte("ftyp"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isHeifContainer(tt.data); got != tt.want {
				t.Errorf("isHeifContainer() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTiffPayloadFraming(t *testing.T) {
	tiffData := exiftest.FullTags().TIFF()

	tests := []struct {
		name  string
		block []byte
	}{
		{name: "bare tiff", block: tiffData},
		{name: "exif header", block: append([]byte("Exif\x00\x00"), tiffData...)},
		{name: "offset word", block: append([]byte{0, 0, 0, 0}, tiffData...)},
		{name: "offset word and exif header",
			block: append([]byte{0, 0, 0, 6, 'E', 'x', 'i', 'f', 0, 0}, tiffData...)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tiffPayload(tt.block)
			if !bytes.Equal(got, tiffData) {
				t.Errorf("tiffPayload() = %d bytes, want the bare %d-byte TIFF block", len(got), len(tiffData))
			}
		})
	}
}

func TestHasExifSegment(t *testing.T) {
	withExif := exiftest.FullTags().JPEG()
	if !hasExifSegment(withExif) {
		t.Error("hasExifSegment = false for JPEG with APP1/Exif")
	}
	if hasExifSegment(exiftest.PlainJPEG(8, 8)) {
		t.Error("hasExifSegment = true for JPEG without APP1")
	}
	// Truncating mid-segment must not panic or report a segment.
	if hasExifSegment(withExif[:10]) {
		t.Error("hasExifSegment = true for truncated stream")
	}
}
