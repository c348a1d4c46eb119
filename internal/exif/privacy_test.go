package exif

import (
	"testing"

	"looma-api/internal/models"
)

func TestHasPrivacyData(t *testing.T) {
	tests := []struct {
		name string
		info *models.ExifInfo
		want bool
	}{
		{name: "nil record", info: nil, want: false},
		{name: "empty record", info: &models.ExifInfo{}, want: false},
		{name: "gps only", info: &models.ExifInfo{GPS: &models.GPSCoordinate{Latitude: 1, Longitude: 2}}, want: true},
		{name: "make only", info: &models.ExifInfo{Make: "Canon"}, want: true},
		{name: "model only", info: &models.ExifInfo{Model: "EOS R5"}, want: true},
		{name: "capture timestamp only", info: &models.ExifInfo{DateTimeOriginal: "2025:01:15 14:29:58"}, want: true},
		{name: "non-sensitive fields only", info: &models.ExifInfo{Orientation: 6, XResolution: 72, Software: "Darktable"}, want: false},
		{name: "file timestamp only", info: &models.ExifInfo{DateTime: "2025:01:15 14:30:00"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasPrivacyData(tt.info); got != tt.want {
				t.Errorf("HasPrivacyData() = %v, want %v", got, tt.want)
			}
		})
	}
}
