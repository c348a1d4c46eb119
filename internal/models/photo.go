package models

import "time"

// GPSCoordinate is a decoded GPS position in signed decimal degrees.
// The sign of Latitude/Longitude always agrees with the reference letter:
// negative latitude iff LatitudeRef == "S", negative longitude iff
// LongitudeRef == "W".
type GPSCoordinate struct {
	Latitude     float64  `json:"latitude"`
	Longitude    float64  `json:"longitude"`
	LatitudeRef  string   `json:"latitudeRef,omitempty"`
	LongitudeRef string   `json:"longitudeRef,omitempty"`
	Altitude     *float64 `json:"altitude,omitempty"` // meters
}

// ExifInfo is the semantic metadata record extracted from an image.
// Every field is optional; an empty string (or nil/zero) means the source
// image did not carry the corresponding tag. Timestamps stay in EXIF's
// native "YYYY:MM:DD HH:MM:SS" form so malformed values survive round-trips.
type ExifInfo struct {
	Make             string         `json:"make,omitempty"`
	Model            string         `json:"model,omitempty"`
	Software         string         `json:"software,omitempty"`
	DateTime         string         `json:"dateTime,omitempty"`
	DateTimeOriginal string         `json:"dateTimeOriginal,omitempty"`
	ExposureTime     string         `json:"exposureTime,omitempty"` // "num/den"
	FNumber          string         `json:"fNumber,omitempty"`      // "f/X.X"
	ISO              string         `json:"iso,omitempty"`
	FocalLength      string         `json:"focalLength,omitempty"` // "X.Xmm"
	GPS              *GPSCoordinate `json:"gps,omitempty"`
	Orientation      int            `json:"orientation,omitempty"`
	XResolution      float64        `json:"xResolution,omitempty"`
	YResolution      float64        `json:"yResolution,omitempty"`
}

// IsEmpty reports whether no tag was extracted at all.
func (e *ExifInfo) IsEmpty() bool {
	if e == nil {
		return true
	}
	return e.Make == "" && e.Model == "" && e.Software == "" &&
		e.DateTime == "" && e.DateTimeOriginal == "" &&
		e.ExposureTime == "" && e.FNumber == "" && e.ISO == "" &&
		e.FocalLength == "" && e.GPS == nil && e.Orientation == 0 &&
		e.XResolution == 0 && e.YResolution == 0
}

// PhotoState is the combined per-upload result: file identity, pixel
// dimensions and extracted metadata. Built fresh for every upload and
// discarded afterwards; never persisted or shared between files.
type PhotoState struct {
	FileName       string   `json:"fileName"`
	ContentType    string   `json:"contentType"`
	Size           int      `json:"size"`
	Width          int      `json:"width"`
	Height         int      `json:"height"`
	Exif           ExifInfo `json:"exif"`
	HasPrivacyData bool     `json:"hasPrivacyData"`
}

// GalleryItem describes one image in the local library.
type GalleryItem struct {
	Id             string    `json:"id"`
	FileName       string    `json:"fileName"`
	ContentType    string    `json:"contentType"`
	Size           int64     `json:"size"`
	Width          int       `json:"width"`
	Height         int       `json:"height"`
	TakenAt        time.Time `json:"takenAt,omitzero"`
	HasPrivacyData bool      `json:"hasPrivacyData"`
}

// CacheEntry is a cached blob with its content type and expiry.
type CacheEntry struct {
	Data        []byte
	ContentType string
	Expires     time.Time
}
