package llm

import (
	"context"

	"github.com/iam-sarthakdev/MockMate-AI/internal/models"
)

// named response shapes a provider may enforce natively
const (
	SchemaNone         = ""
	SchemaQuestionList = "question_list"
	SchemaFeedback     = "feedback"
)

type GenerateOptions struct {
	RequestID string
	// JSON asks the provider for a JSON-only response; Schema optionally pins its shape.
	JSON   bool
	Schema string
}

// defines the interface for LLM providers
type Provider interface {
	GenerateContent(ctx context.Context, prompt string, opts GenerateOptions) (*models.GenerationResponse, error)
	GetProviderName() string
}

// represents an error from an LLM provider
type ProviderError struct {
	Provider string
	Code     string
	Message  string
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return e.Provider + " error: " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Provider + " error: " + e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeAPIKey       = "invalid_api_key"
	ErrCodeRateLimit    = "rate_limit_exceeded"
	ErrCodeServiceDown  = "service_unavailable"
	ErrCodeInvalidInput = "invalid_input"
	ErrCodeTimeout      = "timeout"
)
