package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/BerylCAtieno/legalease/internal/utils"
)

// CompletionClient submits one chat completion and returns the reply text.
type CompletionClient interface {
	Complete(ctx context.Context, req ChatRequest) (string, error)
}

type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature"`
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatResponse struct {
	Choices []Choice `json:"choices"`
	Error   *struct {
		Message string `json:"message"`
		Code    any    `json:"code"`
	} `json:"error,omitempty"`
}

type Choice struct {
	Message Message `json:"message"`
}

type chatClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *utils.Logger
}

// NewChatClient talks to any OpenAI-compatible /chat/completions endpoint.
func NewChatClient(provider *Provider, logger *utils.Logger) CompletionClient {
	timeout := provider.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &chatClient{
		baseURL: strings.TrimRight(provider.BaseURL, "/"),
		apiKey:  provider.APIKey,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

func (c *chatClient) Complete(ctx context.Context, chatReq ChatRequest) (string, error) {
	log := utils.LoggerFromContext(ctx, c.logger)
	callID := utils.GenerateID()
	start := time.Now()

	jsonData, err := json.Marshal(chatReq)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := c.baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	req.Header.Set("HTTP-Referer", "https://github.com/BerylCAtieno/legalease")
	req.Header.Set("X-Title", "LegalEase")

	log.Info("llm.http.request",
		"call_id", callID,
		"url", endpoint,
		"model", chatReq.Model,
		"content_length", len(jsonData))

	resp, err := c.client.Do(req)
	if err != nil {
		log.Error("llm.http.send_error", "call_id", callID, "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	log.Info("llm.http.response",
		"call_id", callID,
		"status", resp.StatusCode,
		"bytes", len(body),
		"elapsed_ms", time.Since(start).Milliseconds())

	var chatResp ChatResponse
	decodeErr := json.Unmarshal(body, &chatResp)

	if resp.StatusCode/100 != 2 {
		if decodeErr == nil && chatResp.Error != nil && chatResp.Error.Message != "" {
			return "", fmt.Errorf("model API returned status %d: %s", resp.StatusCode, chatResp.Error.Message)
		}
		return "", fmt.Errorf("model API returned status %d", resp.StatusCode)
	}

	if decodeErr != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", decodeErr)
	}

	if chatResp.Error != nil {
		return "", fmt.Errorf("model API error: %s", chatResp.Error.Message)
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	return chatResp.Choices[0].Message.Content, nil
}
