package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/Lllllllleong/documentassistant/internal/upload"
)

// maxRequestBytes leaves room for multipart framing around a maximum-size file.
const maxRequestBytes = upload.MaxFileSize + 1<<20

// IsMultipart reports whether r carries multipart form data.
func IsMultipart(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "multipart/form-data"
}

// ReadUpload reads the "file" part and the "extractActionItems" field of a
// multipart request. extractActionItems defaults to true.
func ReadUpload(w http.ResponseWriter, r *http.Request) (*Upload, bool, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)
	if err := r.ParseMultipartForm(upload.MaxFileSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, false, &upload.ValidationError{Field: "size", Reason: "request exceeds the 10MB limit"}
		}
		return nil, false, fmt.Errorf("%w: could not parse multipart form: %v", ErrInvalidRequest, err)
	}

	extract := true
	if v := r.FormValue("extractActionItems"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, false, fmt.Errorf("%w: extractActionItems must be a boolean", ErrInvalidRequest)
		}
		extract = b
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, false, fmt.Errorf("%w: missing file field: %v", ErrInvalidRequest, err)
	}
	defer file.Close()

	// Read one byte past the limit so oversize files are detected without
	// buffering more than necessary.
	data, err := io.ReadAll(io.LimitReader(file, upload.MaxFileSize+1))
	if err != nil {
		return nil, false, fmt.Errorf("failed to read uploaded file: %w", err)
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		if byExt := upload.TypeForExtension(filepath.Ext(header.Filename)); byExt != "" {
			mimeType = byExt
		}
	}

	return &Upload{Filename: header.Filename, MIMEType: mimeType, Data: data}, extract, nil
}

// DecodeJSON decodes a JSON request body into v.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: could not parse JSON: %v", ErrInvalidRequest, err)
	}
	return nil
}

