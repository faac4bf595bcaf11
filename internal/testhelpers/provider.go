package testhelpers

import (
	"context"
	"sync"

	"github.com/iam-sarthakdev/MockMate-AI/internal/llm"
	"github.com/iam-sarthakdev/MockMate-AI/internal/models"
)

// MockProvider is an llm.Provider driven by a function field. It records every prompt it receives.
type MockProvider struct {
	GenerateContentFn func(ctx context.Context, prompt string, opts llm.GenerateOptions) (*models.GenerationResponse, error)

	mu      sync.Mutex
	prompts []string
}

// Respond returns a provider that always answers with content.
func Respond(content string) *MockProvider {
	return &MockProvider{
		GenerateContentFn: func(context.Context, string, llm.GenerateOptions) (*models.GenerationResponse, error) {
			return &models.GenerationResponse{Content: content}, nil
		},
	}
}

// Fail returns a provider that always fails with err.
func Fail(err error) *MockProvider {
	return &MockProvider{
		GenerateContentFn: func(context.Context, string, llm.GenerateOptions) (*models.GenerationResponse, error) {
			return nil, err
		},
	}
}

func (m *MockProvider) GenerateContent(ctx context.Context, prompt string, opts llm.GenerateOptions) (*models.GenerationResponse, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()

	if m.GenerateContentFn == nil {
		return &models.GenerationResponse{}, nil
	}
	return m.GenerateContentFn(ctx, prompt, opts)
}

func (m *MockProvider) GetProviderName() string {
	return "mock"
}

// Prompts returns the prompts received so far.
func (m *MockProvider) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prompts...)
}

// Calls returns how many generation calls were made.
func (m *MockProvider) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}
