package llm

import (
	"context"
	"fmt"
)

// UnavailableClient satisfies Client when no credential is configured.
// Every call fails with the same error shape as a provider outage, so the
// fallback paths that handle outages also carry runs without an API key.
type UnavailableClient struct {
	provider Provider
}

// NewUnavailableClient creates a client for a provider that cannot be
// reached. Calls never leave the process.
func NewUnavailableClient(provider Provider) *UnavailableClient {
	return &UnavailableClient{provider: provider}
}

// GenerateContent always fails.
func (c *UnavailableClient) GenerateContent(_ context.Context, _ string, _ ModelTier) (string, error) {
	return "", fmt.Errorf("%s client unavailable: no API key configured", c.provider)
}

// GenerateJSON always fails.
func (c *UnavailableClient) GenerateJSON(_ context.Context, _ string, _ ModelTier) (string, error) {
	return "", fmt.Errorf("%s client unavailable: no API key configured", c.provider)
}

// GetModel returns an empty model name.
func (c *UnavailableClient) GetModel(_ ModelTier) string { return "" }

// Close is a no-op.
func (c *UnavailableClient) Close() error { return nil }
