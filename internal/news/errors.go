package news

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCategory    = errors.New("invalid category")
	ErrInvalidCredentials = errors.New("invalid API key")
	ErrQuotaExceeded      = errors.New("API quota exceeded")
)

// ProviderError carries a non-2xx provider response that does not map to a
// more specific error. The raw message is preserved.
type ProviderError struct {
	Status  int
	Message string
}

func (e *ProviderError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("news provider error: HTTP %d", e.Status)
	}
	return fmt.Sprintf("news provider error: HTTP %d: %s", e.Status, e.Message)
}
