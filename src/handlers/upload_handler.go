// backend/src/handlers/upload_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/username/tradejournal/backend/src/logger"
	"github.com/username/tradejournal/backend/src/security/validation"
	"github.com/username/tradejournal/backend/src/services"
	"github.com/username/tradejournal/backend/src/utils"
)

const defaultHistoryLimit = 50

type UploadHandler struct {
	uploadService      services.UploadService
	maxUploadSizeBytes int64
	defaultSource      string
}

func NewUploadHandler(service services.UploadService, maxUploadSizeBytes int64, defaultSource string) *UploadHandler {
	return &UploadHandler{
		uploadService:      service,
		maxUploadSizeBytes: maxUploadSizeBytes,
		defaultSource:      defaultSource,
	}
}

// readUpload validates the multipart request and returns the uploaded file. It writes the
// error response itself and reports false when the request is rejected.
func (h *UploadHandler) readUpload(w http.ResponseWriter, r *http.Request) (multipart.File, *multipart.FileHeader, string, bool) {
	ctxLogger := logger.FromContext(r.Context())
	maxMB := h.maxUploadSizeBytes / (1024 * 1024)

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSizeBytes+1024*1024)
	if err := r.ParseMultipartForm(h.maxUploadSizeBytes); err != nil {
		ctxLogger.Warn("Failed to parse multipart form or request too large", "error", err, "limit", h.maxUploadSizeBytes)
		utils.SendJSONError(w, fmt.Sprintf("Failed to process the upload or the file is too large (max %d MB)", maxMB), http.StatusBadRequest)
		return nil, nil, "", false
	}

	source := r.FormValue("source")
	if source == "" {
		source = h.defaultSource
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		ctxLogger.Warn("Failed to retrieve file from request", "error", err)
		utils.SendJSONError(w, "Failed to retrieve file from request. Ensure 'file' field is used.", http.StatusBadRequest)
		return nil, nil, "", false
	}

	fail := func(msg string, logMsg string, args ...any) (multipart.File, *multipart.FileHeader, string, bool) {
		file.Close()
		ctxLogger.Warn(logMsg, args...)
		utils.SendJSONError(w, msg, http.StatusBadRequest)
		return nil, nil, "", false
	}

	if fileHeader.Size > h.maxUploadSizeBytes {
		return fail(fmt.Sprintf("File too large, max %d MB", maxMB),
			"Uploaded file too large", "fileSize", fileHeader.Size, "limit", h.maxUploadSizeBytes)
	}
	if err := validation.ValidateFileName(fileHeader.Filename); err != nil {
		return fail(err.Error(), "Rejected upload file name", "filename", fileHeader.Filename, "error", err)
	}
	clientContentType := fileHeader.Header.Get("Content-Type")
	if err := validation.ValidateClientContentType(clientContentType); err != nil {
		return fail(err.Error(), "Invalid client-declared file type", "contentType", clientContentType, "error", err)
	}
	detectedContentType, err := validation.ValidateFileContentByMagicBytes(file)
	if err != nil {
		return fail(err.Error(), "Server-side file content validation failed", "filename", fileHeader.Filename, "error", err)
	}
	ctxLogger.Info("File content validated", "filename", fileHeader.Filename, "clientType", clientContentType, "detectedType", detectedContentType)

	return file, fileHeader, source, true
}

// sendServiceError maps upload service errors to HTTP responses.
func sendServiceError(w http.ResponseWriter, r *http.Request, err error) {
	ctxLogger := logger.FromContext(r.Context())
	switch {
	case errors.Is(err, validation.ErrPDFNotSupported):
		utils.SendJSONError(w, validation.ErrPDFNotSupported.Error(), http.StatusBadRequest)
	case errors.Is(err, services.ErrUnsupportedFile):
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, services.ErrNoAccountsFound):
		ctxLogger.Warn("Upload contained no trading accounts")
		utils.SendJSONError(w, "No trading accounts were found in the uploaded email.", http.StatusBadRequest)
	case errors.Is(err, services.ErrParsingFailed):
		ctxLogger.Warn("Upload could not be parsed", "error", err)
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
	default:
		ctxLogger.Error("Upload processing failed", "error", err)
		utils.SendJSONError(w, "Failed to process the uploaded file", http.StatusInternalServerError)
	}
}

func (h *UploadHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	file, fileHeader, source, ok := h.readUpload(w, r)
	if !ok {
		return
	}
	defer file.Close()

	logger.FromContext(r.Context()).Info("Processing upload request", "filename", fileHeader.Filename, "source", source)
	result, err := h.uploadService.ProcessUpload(file, source, fileHeader.Filename, fileHeader.Size)
	if err != nil {
		sendServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(result); err != nil {
		logger.FromContext(r.Context()).Error("Error encoding JSON response for upload result", "error", err)
	}
}

func (h *UploadHandler) HandlePreview(w http.ResponseWriter, r *http.Request) {
	file, fileHeader, source, ok := h.readUpload(w, r)
	if !ok {
		return
	}
	defer file.Close()

	parsed, err := h.uploadService.PreviewUpload(file, source, fileHeader.Filename)
	if err != nil {
		sendServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(parsed); err != nil {
		logger.FromContext(r.Context()).Error("Error encoding JSON response for upload preview", "error", err)
	}
}

func (h *UploadHandler) HandleGetUploadHistory(w http.ResponseWriter, r *http.Request) {
	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 500 {
			utils.SendJSONError(w, "limit must be a number between 1 and 500", http.StatusBadRequest)
			return
		}
		limit = n
	}

	history, err := h.uploadService.GetUploadHistory(limit)
	if err != nil {
		logger.FromContext(r.Context()).Error("Error retrieving upload history", "error", err)
		utils.SendJSONError(w, "Error retrieving upload history", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(history)
}
