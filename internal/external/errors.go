package external

import (
	"fmt"
	"net/http"

	"github.com/realtyhub/backoffice/internal/domain"
)

// providerStatusError maps a non-success response onto the domain errors.
// 5xx and 429 are unavailability; everything else is a rejection.
func providerStatusError(provider string, resp *http.Response) error {
	snippet := readSnippet(resp.Body)
	if resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%s: status %d: %w: %s", provider, resp.StatusCode, domain.ErrProviderUnavailable, snippet)
	}
	return fmt.Errorf("%s: status %d: %w: %s", provider, resp.StatusCode, domain.ErrProviderRejected, snippet)
}
