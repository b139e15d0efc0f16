package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/realtyhub/backoffice/internal/domain"
	"github.com/realtyhub/backoffice/internal/external"
)

// Relay sends through the send-contact-email HTTP function instead of
// calling the provider in-process. It authenticates with the service-role
// key.
type Relay struct {
	base           *external.BaseClient
	url            string
	serviceRoleKey string
}

func NewRelay(client *http.Client, url, serviceRoleKey string) *Relay {
	return &Relay{
		base:           external.NewBaseClient(client, "contact-relay", "realty-backoffice/1.0"),
		url:            url,
		serviceRoleKey: serviceRoleKey,
	}
}

// State reports the relay circuit breaker state.
func (r *Relay) State() string {
	return r.base.State()
}

type relayRequest struct {
	Record domain.ContactSubmission `json:"record"`
}

type relayResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (r *Relay) Send(ctx context.Context, sub domain.ContactSubmission) error {
	body, err := json.Marshal(relayRequest{Record: sub})
	if err != nil {
		return fmt.Errorf("Relay.Send: marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("Relay.Send: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+r.serviceRoleKey)

	resp, err := r.base.Do(req)
	if err != nil {
		return fmt.Errorf("Relay.Send: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return fmt.Errorf("Relay.Send: read response: %w: %v", domain.ErrProviderUnavailable, err)
	}
	var out relayResponse
	decodeErr := json.Unmarshal(raw, &out)

	if resp.StatusCode != http.StatusOK {
		msg := string(raw)
		if decodeErr == nil && out.Error != nil {
			msg = out.Error.Message
		}
		return fmt.Errorf("Relay.Send: status %d: %w: %s", resp.StatusCode, relayStatusError(resp.StatusCode), msg)
	}
	if decodeErr != nil {
		return fmt.Errorf("Relay.Send: decode response: %w: %v", domain.ErrProviderRejected, decodeErr)
	}
	if !out.Success {
		return fmt.Errorf("Relay.Send: %w: response reported failure", domain.ErrProviderRejected)
	}
	return nil
}

func relayStatusError(status int) error {
	if status >= http.StatusInternalServerError || status == http.StatusTooManyRequests {
		return domain.ErrProviderUnavailable
	}
	return domain.ErrProviderRejected
}
