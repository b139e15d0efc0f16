package external

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

const resendAPIBase = "https://api.resend.com"

type ResendClientConfig struct {
	APIKey  string
	BaseURL string
}

// ResendClient sends transactional email through the Resend REST API.
type ResendClient struct {
	base    *BaseClient
	apiKey  string
	baseURL string
}

func NewResendClient(httpClient *http.Client, cfg ResendClientConfig) *ResendClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = resendAPIBase
	}
	return &ResendClient{
		base:    NewBaseClient(httpClient, "resend", "realty-backoffice/1.0"),
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

type Email struct {
	From    string
	To      []string
	ReplyTo string
	Subject string
	HTML    string
	Text    string
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	ReplyTo string   `json:"reply_to,omitempty"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	Text    string   `json:"text,omitempty"`
}

type resendResponse struct {
	ID string `json:"id"`
}

// Send returns the provider message id.
func (c *ResendClient) Send(ctx context.Context, email Email) (string, error) {
	body, err := json.Marshal(resendRequest{
		From:    email.From,
		To:      email.To,
		ReplyTo: email.ReplyTo,
		Subject: email.Subject,
		HTML:    email.HTML,
		Text:    email.Text,
	})
	if err != nil {
		return "", fmt.Errorf("Send: marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("Send: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.base.Do(req)
	if err != nil {
		return "", fmt.Errorf("Send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("Send: %w", providerStatusError("resend", resp))
	}

	var out resendResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("Send: decode: %w", err)
	}
	return out.ID, nil
}

// State reports the circuit breaker state for health checks.
func (c *ResendClient) State() string {
	return c.base.State()
}
