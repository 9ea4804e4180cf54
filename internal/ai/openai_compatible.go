// Package ai wraps the upstream OpenAI-compatible chat completion API.
// One attempt per call, no retries; every upstream failure surfaces as an
// AIServiceError with the original cause preserved.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ai-code-reviewer/internal/apperr"
)

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatConfig struct {
	BaseURL string
	APIKey  string
	Model   string
}

// CompleteOptions bound the sampling behavior of a single completion call.
// Zero-valued fields are omitted and the upstream defaults apply.
type CompleteOptions struct {
	MaxTokens   int
	Temperature float64
	TopP        float64
}

type OpenAICompatibleClient struct {
	httpClient *http.Client
}

func NewOpenAICompatibleClient() *OpenAICompatibleClient {
	return &OpenAICompatibleClient{
		httpClient: &http.Client{Timeout: 90 * time.Second},
	}
}

func (c *OpenAICompatibleClient) Complete(ctx context.Context, cfg ChatConfig, messages []ChatMessage, opts CompleteOptions) (string, error) {
	reqBody := map[string]interface{}{
		"model":    cfg.Model,
		"messages": messages,
		"stream":   false,
	}
	if opts.MaxTokens > 0 {
		reqBody["max_tokens"] = opts.MaxTokens
	}
	if opts.Temperature > 0 {
		reqBody["temperature"] = opts.Temperature
	}
	if opts.TopP > 0 {
		reqBody["top_p"] = opts.TopP
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", apperr.AIService("marshal completion request failed", err)
	}

	url := strings.TrimRight(cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", apperr.AIService("build completion request failed", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", apperr.AIService("completion request failed", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperr.AIService("read completion response failed", err)
	}
	if resp.StatusCode >= 300 {
		return "", apperr.AIService("completion upstream error", fmt.Errorf("status %d: %s", resp.StatusCode, string(raw)))
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", apperr.AIService("parse completion response failed", err)
	}
	if len(parsed.Choices) == 0 {
		return "", apperr.AIService("completion returned no choices", nil)
	}
	content := parsed.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", apperr.AIService("completion returned empty content", nil)
	}
	return content, nil
}
