package analyzer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/BerylCAtieno/legalease/internal/models"
	"github.com/BerylCAtieno/legalease/internal/utils"
)

var ErrAIAnalysisFailed = errors.New("ai analysis failed")

// Analyzer turns extracted document text into a DocumentAnalysis.
type Analyzer interface {
	Analyze(ctx context.Context, text string) (*models.DocumentAnalysis, error)
	Enabled() bool
	ProviderName() string
}

type Option func(*documentAnalyzer)

// WithCompletionClient replaces the HTTP chat client, mostly for tests.
func WithCompletionClient(client CompletionClient) Option {
	return func(a *documentAnalyzer) {
		a.client = client
	}
}

// WithDocumentType overrides the document kind named in the prompt.
func WithDocumentType(documentType string) Option {
	return func(a *documentAnalyzer) {
		a.documentType = documentType
	}
}

type documentAnalyzer struct {
	provider     *Provider
	client       CompletionClient
	documentType string
	logger       *utils.Logger
}

// New builds an Analyzer. A nil provider gives the mock analyzer, which never
// touches the network.
func New(provider *Provider, logger *utils.Logger, opts ...Option) Analyzer {
	if logger == nil {
		logger = utils.NopLogger()
	}
	a := &documentAnalyzer{
		provider:     provider,
		documentType: DefaultDocumentType,
		logger:       logger,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.provider != nil && a.client == nil {
		a.client = NewChatClient(a.provider, logger)
	}
	return a
}

func (a *documentAnalyzer) Enabled() bool {
	return a.provider != nil
}

func (a *documentAnalyzer) ProviderName() string {
	if a.provider == nil {
		return MockProvider
	}
	return a.provider.DisplayName()
}

func (a *documentAnalyzer) Analyze(ctx context.Context, text string) (*models.DocumentAnalysis, error) {
	if a.provider == nil {
		return MockAnalysis(), nil
	}

	log := utils.LoggerFromContext(ctx, a.logger)
	start := time.Now()

	prompt := BuildPrompt(text, a.provider.Capability.ContextChars, a.documentType)
	log.Info("analysis.start",
		"provider", a.provider.Name,
		"model", a.provider.Model,
		"text_length", len([]rune(text)),
		"prompt_text_length", prompt.TruncatedLength)

	content, err := a.client.Complete(ctx, ChatRequest{
		Model: a.provider.Model,
		Messages: []Message{
			{Role: "system", Content: SystemInstruction},
			{Role: "user", Content: prompt.Instruction},
		},
		MaxTokens:   a.provider.Capability.MaxTokens,
		Temperature: a.provider.Temperature,
	})
	if err != nil {
		log.Error("analysis.error", "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return nil, fmt.Errorf("%w: %v", ErrAIAnalysisFailed, err)
	}

	analysis, err := ParseCompletion(content)
	if err != nil {
		log.Warn("analysis.fallback", "reason", err.Error(), "content_length", len(content))
		analysis = FallbackAnalysis(content)
	}
	analysis.AIProvider = a.provider.DisplayName()

	log.Info("analysis.done",
		"complexity", analysis.Complexity,
		"risk_level", analysis.RiskLevel,
		"elapsed_ms", time.Since(start).Milliseconds())

	return analysis, nil
}
