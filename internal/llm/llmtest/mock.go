// Package llmtest provides a scriptable in-memory Client for tests.
package llmtest

import (
	"context"
	"fmt"
	"sync"

	"github.com/tailorcv/tailorcv/internal/llm"
)

// Response is one scripted reply. Err takes precedence over Text.
type Response struct {
	Text string
	Err  error
}

// Mock is a scriptable llm.Client that records every call. Responses are
// consumed in order; when the script runs out the last response repeats.
// Safe for concurrent use.
type Mock struct {
	mu        sync.Mutex
	responses []Response
	prompts   []string
	calls     int
}

// NewMock creates a mock that replies with the given responses in order.
func NewMock(responses ...Response) *Mock {
	return &Mock{responses: responses}
}

// AlwaysReply creates a mock that returns the same text for every call.
func AlwaysReply(text string) *Mock {
	return NewMock(Response{Text: text})
}

// AlwaysFail creates a mock whose every call returns an error.
func AlwaysFail() *Mock {
	return NewMock(Response{Err: fmt.Errorf("mock: provider unavailable")})
}

func (m *Mock) next(prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.prompts = append(m.prompts, prompt)
	idx := m.calls
	m.calls++

	if len(m.responses) == 0 {
		return "", fmt.Errorf("mock: no responses scripted")
	}
	if idx >= len(m.responses) {
		idx = len(m.responses) - 1
	}
	r := m.responses[idx]
	if r.Err != nil {
		return "", r.Err
	}
	return r.Text, nil
}

// GenerateContent implements llm.Client.
func (m *Mock) GenerateContent(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
	return m.next(prompt)
}

// GenerateJSON implements llm.Client.
func (m *Mock) GenerateJSON(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
	text, err := m.next(prompt)
	if err != nil {
		return "", err
	}
	return llm.CleanJSONBlock(text), nil
}

// GetModel implements llm.Client.
func (m *Mock) GetModel(tier llm.ModelTier) string {
	return "mock-" + string(tier)
}

// Close implements llm.Client.
func (m *Mock) Close() error { return nil }

// Calls returns how many generate calls were made.
func (m *Mock) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Prompts returns a copy of every prompt seen, in call order.
func (m *Mock) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.prompts))
	copy(out, m.prompts)
	return out
}

// LastPrompt returns the most recent prompt, or "" when no calls were made.
func (m *Mock) LastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.prompts) == 0 {
		return ""
	}
	return m.prompts[len(m.prompts)-1]
}
