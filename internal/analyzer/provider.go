package analyzer

import (
	"strings"
	"time"

	"github.com/BerylCAtieno/legalease/internal/config"
)

const (
	ProviderOpenRouter = "openrouter"
	ProviderOpenAI     = "openai"

	DefaultTemperature = 0.3
)

// Capability is the prompt budget and response cap for a model.
type Capability struct {
	Label        string
	ContextChars int
	MaxTokens    int
}

var (
	LargeContextTier = Capability{ContextChars: 50000, MaxTokens: 4000}
	SmallContextTier = Capability{ContextChars: 8000, MaxTokens: 2000}
)

var knownModels = map[string]Capability{
	"x-ai/grok-4-fast:free": withLabel(LargeContextTier, "xAI Grok 4 Fast"),
	"x-ai/grok-4-fast":      withLabel(LargeContextTier, "xAI Grok 4 Fast"),
	"gpt-4o":                withLabel(LargeContextTier, "OpenAI GPT-4o"),
	"gpt-4o-mini":           withLabel(LargeContextTier, "OpenAI GPT-4o mini"),
	"openai/gpt-4o-mini":    withLabel(LargeContextTier, "OpenAI GPT-4o mini"),
	"gpt-4":                 withLabel(SmallContextTier, "OpenAI GPT-4"),
	"openai/gpt-4":          withLabel(SmallContextTier, "OpenAI GPT-4"),
}

var providerLabels = map[string]string{
	ProviderOpenRouter: "OpenRouter",
	ProviderOpenAI:     "OpenAI",
}

func withLabel(c Capability, label string) Capability {
	c.Label = label
	return c
}

// LookupCapability returns the tier for model. Unknown models get the small tier
// and a label built from the provider name and model id.
func LookupCapability(providerName, model string) Capability {
	model = strings.TrimSpace(model)
	if c, ok := knownModels[strings.ToLower(model)]; ok {
		return c
	}
	label := providerLabels[providerName]
	if label == "" {
		label = providerName
	}
	return withLabel(SmallContextTier, strings.TrimSpace(label+" "+model))
}

// Provider is the remote model selection, fixed at startup.
type Provider struct {
	Name        string
	Model       string
	BaseURL     string
	APIKey      string
	Timeout     time.Duration
	Temperature float64
	Capability  Capability
}

func (p *Provider) DisplayName() string {
	return p.Capability.Label
}

// ProviderFromConfig picks OpenRouter when its key is set, then OpenAI.
// It returns nil when no credential is configured, which means mock mode.
func ProviderFromConfig(cfg *config.Config) *Provider {
	var name, model, baseURL, apiKey string

	switch {
	case strings.TrimSpace(cfg.OpenRouterAPIKey) != "":
		name, model, baseURL, apiKey = ProviderOpenRouter, cfg.OpenRouterModel, cfg.OpenRouterBaseURL, cfg.OpenRouterAPIKey
	case strings.TrimSpace(cfg.OpenAIAPIKey) != "":
		name, model, baseURL, apiKey = ProviderOpenAI, cfg.OpenAIModel, cfg.OpenAIBaseURL, cfg.OpenAIAPIKey
	default:
		return nil
	}

	return &Provider{
		Name:        name,
		Model:       model,
		BaseURL:     strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		APIKey:      strings.TrimSpace(apiKey),
		Timeout:     cfg.AITimeout,
		Temperature: DefaultTemperature,
		Capability:  LookupCapability(name, model),
	}
}
