// Package client is the HTTP consumer of the LegalEase API. Its file checks
// only save a round trip; the server re-validates every upload.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BerylCAtieno/legalease/internal/models"
)

const (
	DefaultBaseURL     = "http://localhost:3001"
	DefaultMaxFileSize = 10 << 20
)

var (
	ErrUnsupportedFile = errors.New("unsupported file type: only PDF, DOC, DOCX and TXT are accepted")
	ErrFileTooLarge    = errors.New("file too large: maximum size is 10MB")
)

// APIError is a non-2xx response decoded from {error, details}.
type APIError struct {
	StatusCode int
	Message    string
	Details    string
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("api error %d: %s (%s)", e.StatusCode, e.Message, e.Details)
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

type Client struct {
	BaseURL     string
	HTTPClient  *http.Client
	MaxFileSize int64
}

func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL:     strings.TrimRight(baseURL, "/"),
		HTTPClient:  &http.Client{Timeout: 3 * time.Minute},
		MaxFileSize: DefaultMaxFileSize,
	}
}

func (c *Client) Health(ctx context.Context) (*models.HealthResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url("/api/health"), nil)
	if err != nil {
		return nil, err
	}
	var out models.HealthResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) TestAI(ctx context.Context, text string) (*models.TestAIResponse, error) {
	body, err := json.Marshal(models.TestAIRequest{Text: text})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url("/api/test-ai"), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var out models.TestAIResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AnalyzeDocument uploads the file at path. onStatus, when set, receives
// every status transition; the last one is always terminal.
func (c *Client) AnalyzeDocument(ctx context.Context, path string, onStatus func(UploadStatus)) (*models.AnalysisResponse, error) {
	name := filepath.Base(path)
	report := func(s UploadStatus) {
		if onStatus != nil {
			onStatus(s)
		}
	}
	fail := func(err error) (*models.AnalysisResponse, error) {
		report(StatusFailed{FileName: name, Err: err})
		return nil, err
	}

	report(StatusPending{FileName: name})

	info, err := os.Stat(path)
	if err != nil {
		return fail(err)
	}
	if err := c.Precheck(name, info.Size()); err != nil {
		return fail(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fail(err)
	}

	resp, err := c.analyzeBytes(ctx, name, data, report)
	if err != nil {
		return fail(err)
	}
	report(StatusSucceeded{FileName: name, Analysis: resp})
	return resp, nil
}

// Precheck mirrors the server's type and size rules.
func (c *Client) Precheck(name string, size int64) error {
	if models.MediaTypeFromFilename(name) == "" {
		return ErrUnsupportedFile
	}
	limit := c.MaxFileSize
	if limit <= 0 {
		limit = DefaultMaxFileSize
	}
	if size > limit {
		return ErrFileTooLarge
	}
	return nil
}

func (c *Client) analyzeBytes(ctx context.Context, name string, data []byte, report func(UploadStatus)) (*models.AnalysisResponse, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="document"; filename=%q`, name))
	header.Set("Content-Type", string(models.MediaTypeFromFilename(name)))
	part, err := mw.CreatePart(header)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(data); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	progress := &progressReader{
		r:     bytes.NewReader(body.Bytes()),
		total: int64(body.Len()),
		onProgress: func(pct int) {
			report(StatusUploading{FileName: name, Progress: pct})
		},
	}
	report(StatusUploading{FileName: name, Progress: 0})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url("/api/analyze-document"), progress)
	if err != nil {
		return nil, err
	}
	req.ContentLength = progress.total
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out models.AnalysisResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(req *http.Request, out any) error {
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode/100 != 2 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var e models.ErrorResponse
		if json.Unmarshal(body, &e) == nil && e.Error != "" {
			apiErr.Message = e.Error
			apiErr.Details = e.Details
		}
		return apiErr
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) url(path string) string {
	base := c.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	return strings.TrimRight(base, "/") + path
}

// progressReader reports whole-percent progress as the body is consumed.
type progressReader struct {
	r          io.Reader
	total      int64
	read       int64
	last       int
	onProgress func(int)
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	p.read += int64(n)
	if p.total > 0 && p.onProgress != nil {
		pct := int(p.read * 100 / p.total)
		if pct > p.last {
			p.last = pct
			p.onProgress(pct)
		}
	}
	return n, err
}
