package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/BerylCAtieno/legalease/internal/analyzer"
	"github.com/BerylCAtieno/legalease/internal/extractor"
	"github.com/BerylCAtieno/legalease/internal/models"
	"github.com/BerylCAtieno/legalease/internal/repository"
	"github.com/BerylCAtieno/legalease/internal/utils"
)

type fakeAnalyzer struct {
	enabled  bool
	name     string
	result   *models.DocumentAnalysis
	err      error
	lastText string
}

func (f *fakeAnalyzer) Analyze(_ context.Context, text string) (*models.DocumentAnalysis, error) {
	f.lastText = text
	if f.err != nil {
		return nil, f.err
	}
	res := *f.result
	return &res, nil
}

func (f *fakeAnalyzer) Enabled() bool        { return f.enabled }
func (f *fakeAnalyzer) ProviderName() string { return f.name }

type memoryAudit struct {
	events []repository.AnalysisEvent
	err    error
}

func (m *memoryAudit) Record(_ context.Context, e *repository.AnalysisEvent) error {
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, *e)
	return nil
}

func (m *memoryAudit) ListRecent(context.Context, int) ([]repository.AnalysisEvent, error) {
	return m.events, nil
}

var fixedNow = time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)

func txtFile(content string) models.UploadedFile {
	return models.UploadedFile{
		Name:      "lease.txt",
		MediaType: models.MediaTypeTXT,
		Size:      int64(len(content)),
		Data:      []byte(content),
	}
}

func TestAnalyzeUploadMockMode(t *testing.T) {
	audit := &memoryAudit{}
	svc := NewService(analyzer.New(nil, utils.NopLogger()), 10<<20, utils.NopLogger(),
		WithAuditRepository(audit),
		WithClock(func() time.Time { return fixedNow }))

	resp, err := svc.AnalyzeUpload(context.Background(), txtFile("Monthly rent is $1200."))
	if err != nil {
		t.Fatalf("AnalyzeUpload returned error: %v", err)
	}
	if resp.AIProvider != "mock" || resp.Summary == "" {
		t.Errorf("unexpected analysis %+v", resp.DocumentAnalysis)
	}

	md := resp.Metadata
	if md.FileName != "lease.txt" || md.MimeType != "text/plain" || md.FileSize != 22 {
		t.Errorf("unexpected metadata %+v", md)
	}
	if md.TextLength != 22 || md.AIEnabled || md.AIProvider != "mock" || !md.UploadDate.Equal(fixedNow) {
		t.Errorf("unexpected metadata %+v", md)
	}

	if len(audit.events) != 1 || audit.events[0].Outcome != repository.OutcomeSucceeded || audit.events[0].AIProvider != "mock" {
		t.Errorf("audit events = %+v", audit.events)
	}
}

func TestAnalyzeUploadValidation(t *testing.T) {
	tests := []struct {
		name     string
		file     models.UploadedFile
		wantCode string
	}{
		{
			name:     "disallowed media type",
			file:     models.UploadedFile{Name: "a.png", MediaType: "image/png", Size: 3, Data: []byte("png")},
			wantCode: utils.CodeInvalidFileType,
		},
		{
			name:     "oversized",
			file:     models.UploadedFile{Name: "big.txt", MediaType: models.MediaTypeTXT, Size: 10<<20 + 1},
			wantCode: utils.CodeFileTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			svc := NewService(analyzer.New(nil, nil), 10<<20, utils.NopLogger(),
				WithExtractor(func(models.UploadedFile) (models.ExtractedText, error) {
					called = true
					return models.ExtractedText{}, nil
				}))

			_, err := svc.AnalyzeUpload(context.Background(), tt.file)
			var appErr *utils.AppError
			if !errors.As(err, &appErr) {
				t.Fatalf("err = %v, want *AppError", err)
			}
			if appErr.StatusCode != http.StatusBadRequest || appErr.Code != tt.wantCode {
				t.Errorf("got %d %s, want 400 %s", appErr.StatusCode, appErr.Code, tt.wantCode)
			}
			if called {
				t.Errorf("extractor invoked for rejected upload")
			}
		})
	}
}

func TestAnalyzeUploadErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		extract    ExtractFunc
		analyzeErr error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{
			name: "empty extraction",
			extract: func(models.UploadedFile) (models.ExtractedText, error) {
				return models.ExtractedText{Content: "  \n\t"}, nil
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   utils.CodeEmptyExtraction,
			wantMsg:    MsgEmptyExtraction,
		},
		{
			name: "corrupt document",
			extract: func(models.UploadedFile) (models.ExtractedText, error) {
				return models.ExtractedText{}, fmt.Errorf("%w: bad xref", extractor.ErrExtractionFailed)
			},
			wantStatus: http.StatusInternalServerError,
			wantCode:   utils.CodeExtractionFailed,
			wantMsg:    MsgExtractionFailed,
		},
		{
			name: "transport failure",
			extract: func(models.UploadedFile) (models.ExtractedText, error) {
				return models.ExtractedText{Content: "text"}, nil
			},
			analyzeErr: fmt.Errorf("%w: timeout", analyzer.ErrAIAnalysisFailed),
			wantStatus: http.StatusInternalServerError,
			wantCode:   utils.CodeAIAnalysisFailed,
			wantMsg:    MsgAnalysisFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			audit := &memoryAudit{}
			fa := &fakeAnalyzer{enabled: true, name: "test", result: &models.DocumentAnalysis{}, err: tt.analyzeErr}
			svc := NewService(fa, 10<<20, utils.NopLogger(), WithExtractor(tt.extract), WithAuditRepository(audit))

			_, err := svc.AnalyzeUpload(context.Background(), txtFile("x"))
			var appErr *utils.AppError
			if !errors.As(err, &appErr) {
				t.Fatalf("err = %v, want *AppError", err)
			}
			if appErr.StatusCode != tt.wantStatus || appErr.Code != tt.wantCode || appErr.Message != tt.wantMsg {
				t.Errorf("got %d %s %q", appErr.StatusCode, appErr.Code, appErr.Message)
			}
			if len(audit.events) != 1 || audit.events[0].ErrorCode != tt.wantCode {
				t.Errorf("audit events = %+v", audit.events)
			}
		})
	}
}

func TestAnalyzeUploadAuditFailureIgnored(t *testing.T) {
	svc := NewService(analyzer.New(nil, nil), 10<<20, utils.NopLogger(),
		WithAuditRepository(&memoryAudit{err: errors.New("disk full")}))

	if _, err := svc.AnalyzeUpload(context.Background(), txtFile("Monthly rent is $1200.")); err != nil {
		t.Fatalf("audit failure leaked into request: %v", err)
	}
}

func TestAnalyzeText(t *testing.T) {
	fa := &fakeAnalyzer{
		enabled: true,
		name:    "xAI Grok 4 Fast",
		result:  &models.DocumentAnalysis{Summary: "A lease.", AIProvider: "xAI Grok 4 Fast"},
	}
	svc := NewService(fa, 10<<20, utils.NopLogger())

	resp, err := svc.AnalyzeText(context.Background(), "")
	if err != nil {
		t.Fatalf("AnalyzeText returned error: %v", err)
	}
	if fa.lastText != DefaultTestText {
		t.Errorf("analyzer received %q, want default sample", fa.lastText)
	}
	if !resp.AIEnabled || resp.Message != "Real AI analysis using xAI Grok 4 Fast" {
		t.Errorf("unexpected response %+v", resp)
	}

	mock := NewService(analyzer.New(nil, nil), 10<<20, utils.NopLogger())
	resp, err = mock.AnalyzeText(context.Background(), "Some text")
	if err != nil {
		t.Fatalf("AnalyzeText returned error: %v", err)
	}
	if resp.AIEnabled || resp.Message != MockMessage || resp.AIProvider != "mock" {
		t.Errorf("unexpected mock response %+v", resp)
	}
}
