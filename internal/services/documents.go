package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/BerylCAtieno/legalease/internal/analyzer"
	"github.com/BerylCAtieno/legalease/internal/extractor"
	"github.com/BerylCAtieno/legalease/internal/models"
	"github.com/BerylCAtieno/legalease/internal/repository"
	"github.com/BerylCAtieno/legalease/internal/utils"
)

const (
	DefaultTestText = "This is a simple rental agreement for testing purposes."
	MockMessage     = "Mock analysis - add xAI Grok or OpenAI API key for real results"
)

// User-facing messages for each failure class.
const (
	MsgNoFile           = "No file uploaded"
	MsgInvalidFileType  = "Invalid file type. Only PDF, DOC, DOCX, and TXT files are allowed."
	MsgFileTooLarge     = "File too large. Maximum size is 10MB."
	MsgEmptyExtraction  = "No text could be extracted from the file"
	MsgExtractionFailed = "Text extraction failed"
	MsgAnalysisFailed   = "Document analysis failed"
	MsgTestAIFailed     = "AI test failed"
)

type DocumentService interface {
	ValidateUpload(ctx context.Context, file models.UploadedFile) error
	RejectUpload(ctx context.Context, file models.UploadedFile, err error) error
	AnalyzeUpload(ctx context.Context, file models.UploadedFile) (*models.AnalysisResponse, error)
	AnalyzeText(ctx context.Context, text string) (*models.TestAIResponse, error)
	AIEnabled() bool
	ProviderName() string
}

// ExtractFunc turns an uploaded file into plain text.
type ExtractFunc func(file models.UploadedFile) (models.ExtractedText, error)

type Option func(*documentService)

func WithExtractor(fn ExtractFunc) Option {
	return func(s *documentService) {
		s.extract = fn
	}
}

// WithAuditRepository enables the analysis ledger.
func WithAuditRepository(repo repository.AuditRepository) Option {
	return func(s *documentService) {
		s.audit = repo
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *documentService) {
		s.now = now
	}
}

type documentService struct {
	analyzer    analyzer.Analyzer
	extract     ExtractFunc
	audit       repository.AuditRepository
	maxFileSize int64
	logger      *utils.Logger
	now         func() time.Time
}

func NewService(a analyzer.Analyzer, maxFileSize int64, logger *utils.Logger, opts ...Option) DocumentService {
	s := &documentService{
		analyzer:    a,
		extract:     extractor.Extract,
		maxFileSize: maxFileSize,
		logger:      logger,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *documentService) AIEnabled() bool {
	return s.analyzer.Enabled()
}

func (s *documentService) ProviderName() string {
	return s.analyzer.ProviderName()
}

// ValidateUpload checks an upload before its bytes are read. A rejected
// upload is recorded in the audit ledger.
func (s *documentService) ValidateUpload(ctx context.Context, file models.UploadedFile) error {
	if err := s.validate(file); err != nil {
		return s.RejectUpload(ctx, file, err)
	}
	return nil
}

// RejectUpload records an analyze-document request that failed before
// analysis started and returns err as an *utils.AppError.
func (s *documentService) RejectUpload(ctx context.Context, file models.UploadedFile, err error) error {
	appErr := utils.AsAppError(err)
	s.record(ctx, file, 0, nil, appErr, s.now())
	utils.LoggerFromContext(ctx, s.logger).Warn("document.rejected",
		"file_name", file.Name,
		"code", appErr.Code)
	return appErr
}

// validate checks the media type allow-list and the per-file size limit.
func (s *documentService) validate(file models.UploadedFile) error {
	if !file.MediaType.IsAllowed() {
		return utils.NewBadRequestError(utils.CodeInvalidFileType, MsgInvalidFileType)
	}
	if file.Size > s.maxFileSize || int64(len(file.Data)) > s.maxFileSize {
		return utils.NewBadRequestError(utils.CodeFileTooLarge, MsgFileTooLarge)
	}
	return nil
}

func (s *documentService) AnalyzeUpload(ctx context.Context, file models.UploadedFile) (*models.AnalysisResponse, error) {
	log := utils.LoggerFromContext(ctx, s.logger)
	uploadDate := s.now()

	resp, textLength, err := s.analyzeUpload(ctx, file)
	s.record(ctx, file, textLength, resp, err, uploadDate)
	if err != nil {
		appErr := utils.AsAppError(err)
		log.Warn("document.analyze_failed",
			"file_name", file.Name,
			"code", appErr.Code,
			"error", err)
		return nil, appErr
	}

	resp.Metadata.UploadDate = uploadDate
	log.Info("document.analyzed",
		"file_name", file.Name,
		"mime_type", file.MediaType,
		"text_length", textLength,
		"ai_provider", resp.AIProvider)

	return resp, nil
}

func (s *documentService) analyzeUpload(ctx context.Context, file models.UploadedFile) (*models.AnalysisResponse, int, error) {
	if err := s.validate(file); err != nil {
		return nil, 0, err
	}

	extracted, err := s.extract(file)
	if err != nil {
		if errors.Is(err, extractor.ErrUnsupportedMediaType) {
			return nil, 0, utils.NewAppError(http.StatusBadRequest, utils.CodeInvalidFileType, MsgInvalidFileType, err)
		}
		return nil, 0, utils.NewInternalError(utils.CodeExtractionFailed, MsgExtractionFailed, err)
	}

	if strings.TrimSpace(extracted.Content) == "" {
		return nil, 0, utils.NewBadRequestError(utils.CodeEmptyExtraction, MsgEmptyExtraction)
	}
	textLength := utf8.RuneCountInString(extracted.Content)

	analysis, err := s.analyzer.Analyze(ctx, extracted.Content)
	if err != nil {
		return nil, textLength, utils.NewInternalError(utils.CodeAIAnalysisFailed, MsgAnalysisFailed, err)
	}

	provider := analysis.AIProvider
	if provider == "" {
		provider = analyzer.MockProvider
	}

	return &models.AnalysisResponse{
		DocumentAnalysis: *analysis,
		Metadata: models.AnalysisMetadata{
			FileName:       file.Name,
			FileSize:       file.Size,
			MimeType:       string(file.MediaType),
			TextLength:     textLength,
			ProcessingTime: s.now(),
			AIEnabled:      s.analyzer.Enabled(),
			AIProvider:     provider,
		},
	}, textLength, nil
}

// AnalyzeText runs the analyzer on raw text with no extraction step.
func (s *documentService) AnalyzeText(ctx context.Context, text string) (*models.TestAIResponse, error) {
	if text == "" {
		text = DefaultTestText
	}

	analysis, err := s.analyzer.Analyze(ctx, text)
	if err != nil {
		return nil, utils.NewInternalError(utils.CodeAIAnalysisFailed, MsgTestAIFailed, err)
	}

	message := MockMessage
	if s.analyzer.Enabled() {
		message = "Real AI analysis using " + analysis.AIProvider
	}

	return &models.TestAIResponse{
		DocumentAnalysis: *analysis,
		AIEnabled:        s.analyzer.Enabled(),
		Message:          message,
	}, nil
}

func (s *documentService) record(ctx context.Context, file models.UploadedFile, textLength int, resp *models.AnalysisResponse, err error, start time.Time) {
	if s.audit == nil {
		return
	}

	event := &repository.AnalysisEvent{
		ID:         utils.GenerateID(),
		CreatedAt:  start.UTC(),
		FileName:   file.Name,
		MimeType:   string(file.MediaType),
		FileSize:   file.Size,
		TextLength: textLength,
		Outcome:    repository.OutcomeSucceeded,
		DurationMS: s.now().Sub(start).Milliseconds(),
	}
	if resp != nil {
		event.AIProvider = resp.AIProvider
	}
	if err != nil {
		event.Outcome = repository.OutcomeFailed
		event.ErrorCode = utils.AsAppError(err).Code
	}

	if recErr := s.audit.Record(ctx, event); recErr != nil {
		utils.LoggerFromContext(ctx, s.logger).Error("audit.record_failed", "error", recErr)
	}
}
