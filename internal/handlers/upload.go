package handlers

import (
	"io"
	"log"
	"mime"
	"net/http"
	"path/filepath"
)

// readUpload pulls the "file" part out of a multipart upload, enforcing the
// configured size cap. On failure it writes the error response itself and
// returns ok=false.
func (h *Handler) readUpload(w http.ResponseWriter, r *http.Request) (name, contentType string, data []byte, ok bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		log.Printf("[Upload] Rejected upload: %v", err)
		http.Error(w, "Missing or oversized file upload", http.StatusBadRequest)
		return "", "", nil, false
	}
	defer file.Close()

	data, err = io.ReadAll(file)
	if err != nil {
		log.Printf("[Upload] Failed to read upload: %v", err)
		http.Error(w, "Failed to read file", http.StatusBadRequest)
		return "", "", nil, false
	}

	name = filepath.Base(header.Filename)
	contentType = header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(name))
	}

	return name, contentType, data, true
}
