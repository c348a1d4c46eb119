package exif

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"looma-api/internal/models"
)

// Extract converts a raw tag map into the semantic ExifInfo record.
// Pure function: absent tags simply leave the corresponding field empty,
// and no defaults are fabricated for capture parameters.
func Extract(raw *RawTags) models.ExifInfo {
	var info models.ExifInfo
	if raw == nil {
		return info
	}

	info.Make = strings.TrimSpace(raw.Zeroth.Str(TagMake))
	info.Model = strings.TrimSpace(raw.Zeroth.Str(TagModel))
	info.Software = strings.TrimSpace(raw.Zeroth.Str(TagSoftware))
	info.DateTime = raw.Zeroth.Str(TagDateTime)
	info.DateTimeOriginal = raw.Exif.Str(TagDateTimeOriginal)

	if n, ok := raw.Zeroth.Int(TagOrientation); ok {
		info.Orientation = int(n)
	}
	if r, ok := raw.Zeroth.Rat(TagXResolution); ok && r.Den != 0 {
		info.XResolution = float64(r.Num) / float64(r.Den)
	}
	if r, ok := raw.Zeroth.Rat(TagYResolution); ok && r.Den != 0 {
		info.YResolution = float64(r.Num) / float64(r.Den)
	}

	if r, ok := raw.Exif.Rat(TagExposureTime); ok && r.Den != 0 {
		info.ExposureTime = fmt.Sprintf("%d/%d", r.Num, r.Den)
	}
	if r, ok := raw.Exif.Rat(TagFNumber); ok && r.Den != 0 {
		info.FNumber = fmt.Sprintf("f/%.1f", float64(r.Num)/float64(r.Den))
	}
	if r, ok := raw.Exif.Rat(TagFocalLength); ok && r.Den != 0 {
		info.FocalLength = fmt.Sprintf("%.1fmm", float64(r.Num)/float64(r.Den))
	}
	if n, ok := raw.Exif.Int(TagISOSpeedRatings); ok {
		info.ISO = strconv.FormatInt(n, 10)
	} else if s := raw.Exif.Str(TagISOSpeedRatings); s != "" {
		info.ISO = s
	}

	info.GPS = extractGPS(raw.GPS)

	return info
}

// extractGPS converts the degrees/minutes/seconds rationals into a signed
// decimal coordinate. Missing reference letters default to 'N'/'E'; a
// missing latitude or longitude yields no coordinate at all.
func extractGPS(gps TagMap) *models.GPSCoordinate {
	latRats, latOK := gps.Rats(TagGPSLatitude)
	lonRats, lonOK := gps.Rats(TagGPSLongitude)
	if !latOK || !lonOK {
		return nil
	}

	latRef := refLetter(gps.Str(TagGPSLatitudeRef), "N")
	lonRef := refLetter(gps.Str(TagGPSLongitudeRef), "E")

	lat := dmsToDecimal(latRats)
	lon := dmsToDecimal(lonRats)
	if latRef == "S" {
		lat = -lat
	}
	if lonRef == "W" {
		lon = -lon
	}

	coord := &models.GPSCoordinate{
		Latitude:     lat,
		Longitude:    lon,
		LatitudeRef:  latRef,
		LongitudeRef: lonRef,
	}

	if r, ok := gps.Rat(TagGPSAltitude); ok && r.Den != 0 {
		alt := float64(r.Num) / float64(r.Den)
		coord.Altitude = &alt
	}

	return coord
}

// dmsToDecimal computes degrees + minutes/60 + seconds/3600, tolerating
// fewer than three components.
func dmsToDecimal(rats []Rational) float64 {
	divisors := [3]float64{1, 60, 3600}
	var dec float64
	for i, r := range rats {
		if i >= len(divisors) || r.Den == 0 {
			break
		}
		dec += float64(r.Num) / float64(r.Den) / divisors[i]
	}
	return dec
}

func refLetter(raw, fallback string) string {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" {
		return fallback
	}
	return s[:1]
}

// ExtractFromImage is the one-call entry point: locate, parse and extract
// in a single step. Parse failures degrade to an empty ExifInfo and are
// logged at warning level; an image without metadata is a normal outcome,
// never an error.
func ExtractFromImage(data []byte) models.ExifInfo {
	raw, err := Parse(data)
	if err != nil {
		log.Printf("[EXIF] Warning: failed to parse metadata: %v", err)
		return models.ExifInfo{}
	}
	return Extract(raw)
}
