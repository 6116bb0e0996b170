// Package upload holds the checks applied to a file before it is sent for
// summarization. The remote service is the final authority on acceptance;
// these checks only reject what it would certainly refuse.
package upload

import (
	"fmt"
	"mime"
	"strings"
)

// MaxFileSize is the largest accepted upload, 10 MiB.
const MaxFileSize int64 = 10 * 1024 * 1024

// Accepted MIME types.
const (
	MIMEPDF  = "application/pdf"
	MIMEDoc  = "application/msword"
	MIMEDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MIMEXls  = "application/vnd.ms-excel"
	MIMEXlsx = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	MIMEText = "text/plain"
)

var allowedTypes = map[string]bool{
	MIMEPDF:  true,
	MIMEDoc:  true,
	MIMEDocx: true,
	MIMEXls:  true,
	MIMEXlsx: true,
	MIMEText: true,
}

// extensionTypes maps file extensions to accepted types without relying on
// the host's mime tables, which often lack the Office formats.
var extensionTypes = map[string]string{
	".pdf":  MIMEPDF,
	".doc":  MIMEDoc,
	".docx": MIMEDocx,
	".xls":  MIMEXls,
	".xlsx": MIMEXlsx,
	".txt":  MIMEText,
}

// TypeForExtension returns the accepted MIME type for a file extension such
// as ".docx", case-insensitively. It falls back to mime.TypeByExtension and
// returns "" when the extension is unknown.
func TypeForExtension(ext string) string {
	if t, ok := extensionTypes[strings.ToLower(ext)]; ok {
		return t
	}
	return mime.TypeByExtension(ext)
}

// AllowedTypes returns the accepted MIME types.
func AllowedTypes() []string {
	return []string{MIMEPDF, MIMEDoc, MIMEDocx, MIMEXls, MIMEXlsx, MIMEText}
}

// ValidationError reports an upload rejected before any network call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Validate checks the declared size and MIME type of an upload.
func Validate(size int64, mimeType string) error {
	if size > MaxFileSize {
		return &ValidationError{
			Field:  "size",
			Reason: fmt.Sprintf("file is %d bytes, the limit is %d bytes (10MB)", size, MaxFileSize),
		}
	}
	if size < 0 {
		return &ValidationError{Field: "size", Reason: "negative size"}
	}
	if !IsAllowedType(mimeType) {
		return &ValidationError{
			Field:  "type",
			Reason: fmt.Sprintf("%q is not supported; upload a PDF, Word, Excel or plain text file", mimeType),
		}
	}
	return nil
}

// IsAllowedType reports whether mimeType, ignoring parameters such as charset,
// is in the accepted set.
func IsAllowedType(mimeType string) bool {
	return allowedTypes[BaseType(mimeType)]
}

// BaseType strips parameters from a MIME type and lowercases it.
func BaseType(mimeType string) string {
	if mt, _, err := mime.ParseMediaType(mimeType); err == nil {
		return mt
	}
	return strings.ToLower(strings.TrimSpace(mimeType))
}
