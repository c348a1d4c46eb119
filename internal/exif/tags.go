package exif

// Numeric tag IDs for the three EXIF namespaces this package decodes.
// IDs follow the EXIF 2.3 / TIFF 6.0 tables; only the tags the semantic
// extractor consumes are listed.
const (
	// Baseline image tags ("0th" IFD)
	TagMake        uint16 = 0x010F
	TagModel       uint16 = 0x0110
	TagOrientation uint16 = 0x0112
	TagXResolution uint16 = 0x011A
	TagYResolution uint16 = 0x011B
	TagSoftware    uint16 = 0x0131
	TagDateTime    uint16 = 0x0132

	// Capture-parameter tags (Exif sub-IFD)
	TagExposureTime     uint16 = 0x829A
	TagFNumber          uint16 = 0x829D
	TagISOSpeedRatings  uint16 = 0x8827
	TagDateTimeOriginal uint16 = 0x9003
	TagFocalLength      uint16 = 0x920A

	// Location tags (GPS sub-IFD)
	TagGPSLatitudeRef  uint16 = 0x0001
	TagGPSLatitude     uint16 = 0x0002
	TagGPSLongitudeRef uint16 = 0x0003
	TagGPSLongitude    uint16 = 0x0004
	TagGPSAltitudeRef  uint16 = 0x0005
	TagGPSAltitude     uint16 = 0x0006
)

// zerothTagNames maps baseline image tag IDs to their semantic names.
var zerothTagNames = map[uint16]string{
	TagMake:        "Make",
	TagModel:       "Model",
	TagOrientation: "Orientation",
	TagXResolution: "XResolution",
	TagYResolution: "YResolution",
	TagSoftware:    "Software",
	TagDateTime:    "DateTime",
}

// exifTagNames maps capture-parameter tag IDs to their semantic names.
var exifTagNames = map[uint16]string{
	TagExposureTime:     "ExposureTime",
	TagFNumber:          "FNumber",
	TagISOSpeedRatings:  "ISOSpeedRatings",
	TagDateTimeOriginal: "DateTimeOriginal",
	TagFocalLength:      "FocalLength",
}

// gpsTagNames maps GPS tag IDs to their semantic names.
var gpsTagNames = map[uint16]string{
	TagGPSLatitudeRef:  "GPSLatitudeRef",
	TagGPSLatitude:     "GPSLatitude",
	TagGPSLongitudeRef: "GPSLongitudeRef",
	TagGPSLongitude:    "GPSLongitude",
	TagGPSAltitudeRef:  "GPSAltitudeRef",
	TagGPSAltitude:     "GPSAltitude",
}

// TagName returns the semantic name for a tag ID across all three
// namespaces, or the empty string if the tag is not part of the dictionary.
func TagName(id uint16) string {
	if name, ok := gpsTagNames[id]; ok {
		return name
	}
	if name, ok := exifTagNames[id]; ok {
		return name
	}
	if name, ok := zerothTagNames[id]; ok {
		return name
	}
	return ""
}
