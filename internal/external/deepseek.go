package external

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

const (
	deepSeekAPIBase      = "https://api.deepseek.com"
	deepSeekDefaultModel = "deepseek-chat"
)

type DeepSeekClientConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// DeepSeekClient calls the OpenAI-compatible chat completions endpoint.
type DeepSeekClient struct {
	base    *BaseClient
	apiKey  string
	baseURL string
	model   string
}

func NewDeepSeekClient(httpClient *http.Client, cfg DeepSeekClientConfig) *DeepSeekClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = deepSeekAPIBase
	}
	model := cfg.Model
	if model == "" {
		model = deepSeekDefaultModel
	}
	return &DeepSeekClient{
		base:    NewBaseClient(httpClient, "deepseek", "realty-backoffice/1.0"),
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		model:   model,
	}
}

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
	Stream      bool          `json:"stream"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message ChatMessage `json:"message"`
	} `json:"choices"`
}

func (c *DeepSeekClient) Complete(ctx context.Context, messages []ChatMessage) (string, error) {
	body, err := json.Marshal(chatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: 0.7,
		MaxTokens:   500,
	})
	if err != nil {
		return "", fmt.Errorf("Complete: marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("Complete: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.base.Do(req)
	if err != nil {
		return "", fmt.Errorf("Complete: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("Complete: %w", providerStatusError("deepseek", resp))
	}

	var out chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("Complete: decode: %w", err)
	}
	if len(out.Choices) == 0 || strings.TrimSpace(out.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("Complete: empty completion")
	}
	return out.Choices[0].Message.Content, nil
}

func (c *DeepSeekClient) State() string {
	return c.base.State()
}
