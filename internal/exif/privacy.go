package exif

import "looma-api/internal/models"

// HasPrivacyData reports whether the extracted metadata contains anything
// privacy-sensitive: a GPS position, a device identity (make/model) or the
// capture timestamp. A nil or empty record is not sensitive. The verdict
// depends only on the record itself, so callers may re-derive it at any
// point.
func HasPrivacyData(info *models.ExifInfo) bool {
	if info == nil {
		return false
	}
	return info.GPS != nil ||
		info.Make != "" ||
		info.Model != "" ||
		info.DateTimeOriginal != ""
}
