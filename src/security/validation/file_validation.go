package validation

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/username/tradejournal/backend/src/logger"
)

// ErrPDFNotSupported is returned for PDF statements; its message is shown to users as is.
var ErrPDFNotSupported = errors.New("PDF statements are not supported. Please upload the confirmation email as .eml or save it as .html")

// AllowedExtensions lists the file extensions accepted for upload.
var AllowedExtensions = map[string]bool{
	".eml":  true,
	".html": true,
	".htm":  true,
}

// AllowedClientContentTypes is a map for quick lookup of allowed client-declared MIME types.
var AllowedClientContentTypes = map[string]bool{
	"message/rfc822":           true,
	"text/html":                true,
	"text/plain":               true,
	"application/octet-stream": true, // Browsers send .eml files without a registered type this way
	"application/pdf":          false,
}

// ValidateFileName checks the extension of an uploaded file.
func ValidateFileName(name string) error {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == ".pdf" {
		return ErrPDFNotSupported
	}
	if !AllowedExtensions[ext] {
		logger.L.Warn("Disallowed upload extension", "filename", name, "extension", ext)
		return fmt.Errorf("%w: file type '%s' is not supported, expected .eml, .html or .htm", ErrValidationFailed, ext)
	}
	return nil
}

// ValidateClientContentType checks the Content-Type header provided by the client.
// An empty header is accepted; the content check still runs.
func ValidateClientContentType(contentType string) error {
	mediaType := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	if mediaType == "" {
		return nil
	}
	if mediaType == "application/pdf" {
		return ErrPDFNotSupported
	}
	if allowed, exists := AllowedClientContentTypes[mediaType]; !exists || !allowed {
		logger.L.Warn("Disallowed client-declared Content-Type", "contentType", contentType)
		return fmt.Errorf("%w: client-declared file type '%s' is not allowed for email upload", ErrValidationFailed, contentType)
	}
	return nil
}

// maxControlRatio is the share of C0 control bytes above which a text upload is treated
// as binary.
const maxControlRatio = 0.1

// isBinaryContent reports whether buf looks like binary data rather than an email or HTML
// document. Bytes above 0x7F are allowed since 8-bit emails and latin-1 or windows-1252
// pages are not valid UTF-8.
func isBinaryContent(buf []byte) bool {
	if bytes.IndexByte(buf, 0) != -1 {
		return true
	}
	controls := 0
	for _, b := range buf {
		switch {
		case b == '\t', b == '\n', b == '\r', b == '\f', b == 0x1b:
		case b < 0x20, b == 0x7f:
			controls++
		}
	}
	return float64(controls) > maxControlRatio*float64(len(buf))
}

// ValidateFileContentByMagicBytes checks the actual file content signature (magic bytes)
// and inspects the content to ensure it is text-based.
func ValidateFileContentByMagicBytes(file io.ReadSeeker) (string, error) {
	if file == nil {
		return "", fmt.Errorf("file is nil")
	}

	buffer := make([]byte, 1024)
	n, err := io.ReadFull(file, buffer)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", fmt.Errorf("failed to read file for content type checking: %w", err)
	}

	// Reset the read pointer so the parser can read the full file.
	if _, seekErr := file.Seek(0, io.SeekStart); seekErr != nil {
		return "", fmt.Errorf("failed to reset file read pointer: %w", seekErr)
	}

	if n == 0 {
		return "", fmt.Errorf("%w: file is empty", ErrValidationFailed)
	}

	if bytes.HasPrefix(buffer[:n], []byte("%PDF-")) {
		logger.L.Warn("File rejected: PDF content uploaded")
		return "application/pdf", ErrPDFNotSupported
	}

	if isBinaryContent(buffer[:n]) {
		logger.L.Warn("File rejected: Binary content detected in text upload")
		return "application/octet-stream", fmt.Errorf("%w: file appears to be binary, not an email or HTML document", ErrValidationFailed)
	}

	detectedContentType := http.DetectContentType(buffer[:n])
	detectedContentType = strings.ToLower(strings.Split(detectedContentType, ";")[0])

	allowedDetectedTypes := map[string]bool{
		"text/plain":     true,
		"text/html":      true,
		"text/xml":       true,
		"message/rfc822": true,
	}
	if !allowedDetectedTypes[detectedContentType] {
		logger.L.Warn("Disallowed detected file content type", "detectedContentType", detectedContentType)
		return detectedContentType, fmt.Errorf("%w: detected file content type '%s' is not allowed", ErrValidationFailed, detectedContentType)
	}

	logger.L.Debug("File content type validated", "detectedContentType", detectedContentType)
	return detectedContentType, nil
}
