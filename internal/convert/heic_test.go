package convert

import (
	"testing"
)

func TestIsHeifLike(t *testing.T) {
	tests := []struct {
		mime string
		want bool
	}{
		{mime: "image/heic", want: true},
		{mime: "image/heif", want: true},
		{mime: "image/HEIC", want: true},
		{mime: "image/heic-sequence", want: true},
		{mime: "image/jpeg", want: false},
		{mime: "image/png", want: false},
		{mime: "", want: false},
	}

	for _, tt := range tests {
		if got := IsHeifLike(tt.mime); got != tt.want {
			t.Errorf("IsHeifLike(%q) = %v, want %v", tt.mime, got, tt.want)
		}
	}
}

func TestHeicToJpegRejectsBadInput(t *testing.T) {
	if _, err := HeicToJpeg([]byte("not a heic file")); err == nil {
		t.Error("HeicToJpeg() expected error for undecodable input")
	}
}
