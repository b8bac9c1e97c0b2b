package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/BerylCAtieno/legalease/internal/models"
	"github.com/BerylCAtieno/legalease/internal/services"
	"github.com/BerylCAtieno/legalease/internal/utils"
)

const (
	UploadField = "document"
	Version     = "1.0.0"

	// Parts larger than this spill to temp files during multipart parsing.
	multipartMemory = 32 << 20
)

type DocumentHandler struct {
	service services.DocumentService
	logger  *utils.Logger
	devMode bool
	now     func() time.Time
}

func NewDocumentHandler(service services.DocumentService, logger *utils.Logger, devMode bool) *DocumentHandler {
	return &DocumentHandler{
		service: service,
		logger:  logger,
		devMode: devMode,
		now:     time.Now,
	}
}

func (h *DocumentHandler) Health(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, r, http.StatusOK, models.HealthResponse{
		Status:    "healthy",
		Timestamp: h.now().UTC(),
		Version:   Version,
	})
}

// TestUpload echoes the received file without extracting anything.
func (h *DocumentHandler) TestUpload(w http.ResponseWriter, r *http.Request) {
	file, header, err := h.formFile(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	defer file.Close()

	mediaType := resolveMediaType(header)
	utils.LoggerFromContext(r.Context(), h.logger).Info("test_upload.received",
		"file_name", header.Filename,
		"mime_type", mediaType,
		"size", header.Size)

	h.respondJSON(w, r, http.StatusOK, models.TestUploadResponse{
		Success:  true,
		FileName: header.Filename,
		MimeType: string(mediaType),
		Size:     header.Size,
		Message:  "File uploaded successfully (test endpoint)",
	})
}

func (h *DocumentHandler) AnalyzeDocument(w http.ResponseWriter, r *http.Request) {
	file, header, err := h.formFile(r)
	if err != nil {
		h.respondError(w, r, h.service.RejectUpload(r.Context(), models.UploadedFile{}, err))
		return
	}
	defer file.Close()

	upload := models.UploadedFile{
		Name:      header.Filename,
		MediaType: resolveMediaType(header),
		Size:      header.Size,
	}

	// Reject on type and declared size before buffering the file.
	if err := h.service.ValidateUpload(r.Context(), upload); err != nil {
		h.respondError(w, r, err)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		h.respondError(w, r, h.service.RejectUpload(r.Context(), upload,
			utils.NewInternalError(utils.CodeInternal, "Failed to read file", err)))
		return
	}
	upload.Data = data
	upload.Size = int64(len(data))

	resp, err := h.service.AnalyzeUpload(r.Context(), upload)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respondJSON(w, r, http.StatusOK, resp)
}

// TestAI analyzes raw text from the body, or a canned sample when none is sent.
func (h *DocumentHandler) TestAI(w http.ResponseWriter, r *http.Request) {
	var req models.TestAIRequest
	if r.Body != nil {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			if isBodyTooLarge(err) {
				h.respondError(w, r, utils.NewTooLargeError("Request payload too large"))
				return
			}
			req.Text = ""
		}
	}

	resp, err := h.service.AnalyzeText(r.Context(), req.Text)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respondJSON(w, r, http.StatusOK, resp)
}

func (h *DocumentHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.respondError(w, r, utils.NewNotFoundError("Endpoint not found"))
}

func (h *DocumentHandler) formFile(r *http.Request) (multipart.File, *multipart.FileHeader, error) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		if isBodyTooLarge(err) {
			return nil, nil, utils.NewTooLargeError("Request payload too large")
		}
		if !errors.Is(err, http.ErrNotMultipart) && !errors.Is(err, http.ErrMissingBoundary) {
			return nil, nil, utils.NewAppError(http.StatusBadRequest, utils.CodeNoFile, services.MsgNoFile, err)
		}
	}

	file, header, err := r.FormFile(UploadField)
	if err != nil {
		return nil, nil, utils.NewBadRequestError(utils.CodeNoFile, services.MsgNoFile)
	}
	return file, header, nil
}

func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return true
	}
	// Some multipart paths flatten the error into text.
	return strings.Contains(err.Error(), "request body too large")
}

// resolveMediaType trusts the declared part type, falling back to the file
// extension when the client sent nothing useful.
func resolveMediaType(header *multipart.FileHeader) models.MediaType {
	declared := models.ParseMediaType(header.Header.Get("Content-Type"))
	if declared == "" || declared == "application/octet-stream" {
		if inferred := models.MediaTypeFromFilename(header.Filename); inferred != "" {
			return inferred
		}
	}
	return declared
}

func (h *DocumentHandler) respondJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	if err := utils.WriteJSON(w, status, data); err != nil {
		utils.LoggerFromContext(r.Context(), h.logger).Error("Failed to encode JSON response", "error", err)
	}
}

func (h *DocumentHandler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := utils.WriteError(w, err, h.devMode)

	log := utils.LoggerFromContext(r.Context(), h.logger)
	if appErr.StatusCode >= http.StatusInternalServerError {
		log.Error("Request error", "status", appErr.StatusCode, "code", appErr.Code, "error", err)
		return
	}
	log.Warn("Request rejected", "status", appErr.StatusCode, "code", appErr.Code, "error", appErr.Message)
}
