package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/amellido/triagetui/internal/api"
	"github.com/amellido/triagetui/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestValidateDraft(t *testing.T) {
	assert.NoError(t, ValidateDraft(models.EmailDraft{Sender: "a@b.c", Subject: "s", Body: "b"}))

	err := ValidateDraft(models.EmailDraft{Sender: "  ", Subject: "s", Body: "b"})
	assert.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "sender")

	err = ValidateDraft(models.EmailDraft{})
	assert.Contains(t, err.Error(), "sender")
	assert.Contains(t, err.Error(), "subject")
	assert.Contains(t, err.Error(), "body")

	// Wrapped validation errors still classify.
	assert.True(t, IsValidation(fmt.Errorf("submit: %w", err)))
	assert.False(t, IsValidation(errors.New("other")))
}

func TestSummarizeError_Taxonomy(t *testing.T) {
	transport := &api.TransportError{Op: "list emails", Err: errors.New("dial tcp: refused")}
	assert.Equal(t, "Refresh failed: backend unreachable", summarizeError("Refresh", transport))

	decode := &api.DecodeError{Op: "get analytics", Err: errors.New("unexpected EOF")}
	assert.Equal(t, "Refresh failed: unexpected response from backend", summarizeError("Refresh", decode))

	httpErr := &api.HTTPError{Op: "send response", Status: 500, StatusText: "Internal Server Error"}
	assert.Contains(t, summarizeError("send response", httpErr), "500")

	withBody := &api.HTTPError{Op: "send response", Status: 404, StatusText: "Not Found", Message: "Email not found"}
	summary := summarizeError("send response", withBody)
	assert.Contains(t, summary, "404")
	assert.Contains(t, summary, "Email not found")

	plain := errors.New("boom")
	assert.Equal(t, "load sample data failed: boom", summarizeError("load sample data", plain))
}
