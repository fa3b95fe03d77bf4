package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/amellido/triagetui/internal/api"
	"github.com/amellido/triagetui/internal/models"
)

// Standard service errors surfaced by the coordination layer
var (
	ErrActionInFlight = errors.New("action already in flight")
	ErrEmailResolved  = errors.New("email already resolved")
	ErrSyncStopped    = errors.New("synchronizer stopped")
)

// ValidationError rejects an email draft before any network call is made.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Missing, ", "))
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ValidateDraft checks the operator form before submission. Whitespace-only
// values count as missing.
func ValidateDraft(draft models.EmailDraft) error {
	var missing []string
	if strings.TrimSpace(draft.Sender) == "" {
		missing = append(missing, "sender")
	}
	if strings.TrimSpace(draft.Subject) == "" {
		missing = append(missing, "subject")
	}
	if strings.TrimSpace(draft.Body) == "" {
		missing = append(missing, "body")
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}

// summarizeError turns any backend failure into the human-readable text the
// notification queue shows. Typed api errors keep their detail (an HTTP
// failure keeps its status code so the operator sees e.g. "500").
func summarizeError(operation string, err error) string {
	switch {
	case api.IsTransport(err):
		return fmt.Sprintf("%s failed: backend unreachable", operation)
	case api.IsDecode(err):
		return fmt.Sprintf("%s failed: unexpected response from backend", operation)
	default:
		if he, ok := api.AsHTTP(err); ok {
			if he.Message != "" {
				return fmt.Sprintf("%s failed: %d %s (%s)", operation, he.Status, he.StatusText, he.Message)
			}
			return fmt.Sprintf("%s failed: %d %s", operation, he.Status, he.StatusText)
		}
		return fmt.Sprintf("%s failed: %v", operation, err)
	}
}
