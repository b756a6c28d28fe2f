package client

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SaveToken writes a session token to path with owner-only permissions,
// creating parent directories as needed. 'rosterctl login' uses this to
// persist the session between invocations.
func SaveToken(path, token string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	return nil
}

// LoadToken reads a session token previously written by SaveToken.
func LoadToken(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	token := strings.TrimSpace(string(b))
	if token == "" {
		return "", fmt.Errorf("token file %s is empty", path)
	}
	return token, nil
}

// NewFromTokenFile creates an authenticated SDK client from a token saved by
// 'rosterctl login'.
//
// Additional options (e.g. WithCacheTTL) can be appended:
//
//	c, err := client.NewFromTokenFile(
//	    "https://roster.example.com",
//	    os.ExpandEnv("$HOME/.roster/token"),
//	    client.WithCacheTTL(60*time.Second),
//	)
func NewFromTokenFile(baseURL, path string, opts ...Option) (*Client, error) {
	token, err := LoadToken(path)
	if err != nil {
		return nil, err
	}
	return New(baseURL, append([]Option{WithBearerToken(token)}, opts...)...)
}

// WithTokenFile is the functional-option form of NewFromTokenFile.
// Use it when you need to combine token loading with other New() options:
//
//	c, err := client.New(baseURL,
//	    client.WithTokenFile(tokenPath),
//	    client.WithCacheTTL(30*time.Second),
//	)
func WithTokenFile(path string) Option {
	return func(c *Client) error {
		token, err := LoadToken(path)
		if err != nil {
			return err
		}
		return WithBearerToken(token)(c)
	}
}
