// Package client provides the roster Go SDK for registering accounts and
// managing user profiles against a roster API server.
package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// User is the outward account representation returned by every endpoint.
// Optional profile fields are pointers so null and empty stay distinct.
type User struct {
	ID                 string  `json:"id"`
	Email              string  `json:"email"`
	Nickname           string  `json:"nickname"`
	FirstName          *string `json:"first_name"`
	LastName           *string `json:"last_name"`
	Bio                *string `json:"bio"`
	ProfilePictureURL  *string `json:"profile_picture_url"`
	LinkedinProfileURL *string `json:"linkedin_profile_url"`
	GithubProfileURL   *string `json:"github_profile_url"`
	Role               string  `json:"role"`
	IsProfessional     bool    `json:"is_professional"`
}

// UserPage is one page of a user listing.
type UserPage struct {
	Items []User `json:"items"`
	Total int    `json:"total"`
	Page  int    `json:"page"`
	Size  int    `json:"size"`
}

// CreateUserRequest is the payload for CreateUser. Email, Role, and Password
// are required by the server; leave Nickname nil to have one assigned.
type CreateUserRequest struct {
	Email              string  `json:"email"`
	Nickname           *string `json:"nickname,omitempty"`
	FirstName          *string `json:"first_name,omitempty"`
	LastName           *string `json:"last_name,omitempty"`
	Bio                *string `json:"bio,omitempty"`
	ProfilePictureURL  *string `json:"profile_picture_url,omitempty"`
	LinkedinProfileURL *string `json:"linkedin_profile_url,omitempty"`
	GithubProfileURL   *string `json:"github_profile_url,omitempty"`
	Role               string  `json:"role"`
	Password           string  `json:"password"`
}

// UpdateUserRequest is the payload for UpdateUser. Only non-nil fields are
// sent; the server rejects an update that carries no fields at all.
type UpdateUserRequest struct {
	Email              *string `json:"email,omitempty"`
	Nickname           *string `json:"nickname,omitempty"`
	FirstName          *string `json:"first_name,omitempty"`
	LastName           *string `json:"last_name,omitempty"`
	Bio                *string `json:"bio,omitempty"`
	ProfilePictureURL  *string `json:"profile_picture_url,omitempty"`
	LinkedinProfileURL *string `json:"linkedin_profile_url,omitempty"`
	GithubProfileURL   *string `json:"github_profile_url,omitempty"`
	Role               *string `json:"role,omitempty"`
}

// LoginResult holds the authenticated user and the session token returned by
// Login. The token is also stored on the client for subsequent calls.
type LoginResult struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// FieldViolation is one field-level validation failure from the server.
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Kind    string `json:"kind"`
}

// APIError is a non-2xx response decoded from the server's error envelope.
type APIError struct {
	StatusCode int              `json:"-"`
	Message    string           `json:"error"`
	Details    string           `json:"details,omitempty"`
	Fields     []FieldViolation `json:"fields,omitempty"`
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = fmt.Sprintf("server error %d", e.StatusCode)
	}
	if e.Details != "" {
		return msg + ": " + e.Details
	}
	return msg
}

// AsAPIError unwraps err into an *APIError when the failure came from the
// server rather than the transport.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	ok := errors.As(err, &apiErr)
	return apiErr, ok
}

// Client is the roster SDK entry point.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      *profileCache

	// session state, guarded by mu
	mu          sync.Mutex
	bearerToken string
}

// Option is a functional option for configuring a Client.
type Option func(*Client) error

// WithHTTPClient sets a custom http.Client, overriding any TLS options.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		c.httpClient = hc
		return nil
	}
}

// WithCacheTTL enables in-memory caching of GetUser lookups with the given
// TTL. Any mutating call through this client clears the cache.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) error {
		c.cache = newProfileCache(ttl)
		return nil
	}
}

// WithBearerToken attaches a pre-obtained session token to every request.
func WithBearerToken(token string) Option {
	return func(c *Client) error {
		c.bearerToken = token
		return nil
	}
}

// WithInsecureSkipVerify disables TLS certificate verification.
// Only use this in development against a self-signed certificate.
func WithInsecureSkipVerify() Option {
	return func(c *Client) error {
		c.httpClient = &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, //nolint:gosec
			},
			Timeout: 10 * time.Second,
		}
		return nil
	}
}

// New creates a new roster SDK Client connected to baseURL.
//
//	c, err := client.New("https://roster.example.com",
//	    client.WithBearerToken(token),
//	    client.WithCacheTTL(60*time.Second),
//	)
func New(baseURL string, opts ...Option) (*Client, error) {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, o := range opts {
		if err := o(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// MustNew is like New but panics on error. Useful in tests and program init.
func MustNew(baseURL string, opts ...Option) *Client {
	c, err := New(baseURL, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// Token returns the session token currently attached to requests, either set
// via WithBearerToken or obtained from the most recent Login.
func (c *Client) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bearerToken
}

// CreateUser registers a new account via POST /api/v1/users.
// Registration is public; no session token is required.
func (c *Client) CreateUser(ctx context.Context, reg CreateUserRequest) (*User, error) {
	payload, err := json.Marshal(reg)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	url := c.baseURL + "/api/v1/users"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var u User
	if err := json.Unmarshal(body, &u); err != nil {
		return nil, fmt.Errorf("decode user response: %w", err)
	}
	return &u, nil
}

// Login authenticates via POST /api/v1/auth/login. On success the session
// token is stored on the client and attached to subsequent requests; persist
// it across runs with SaveToken.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	payload, _ := json.Marshal(map[string]string{"email": email, "password": password})
	url := c.baseURL + "/api/v1/auth/login"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var result LoginResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode login response: %w", err)
	}

	c.mu.Lock()
	c.bearerToken = result.Token
	c.mu.Unlock()
	return &result, nil
}

// Me returns the account behind the client's session token from
// GET /api/v1/auth/me.
func (c *Client) Me(ctx context.Context) (*User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/auth/me", nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var u User
	if err := json.Unmarshal(body, &u); err != nil {
		return nil, fmt.Errorf("decode user response: %w", err)
	}
	return &u, nil
}

// GetUser fetches a single account from GET /api/v1/users/:id.
// The argument may be the account UUID or its nickname.
func (c *Client) GetUser(ctx context.Context, idOrNickname string) (*User, error) {
	if c.cache != nil {
		if u, ok := c.cache.get(idOrNickname); ok {
			return u, nil
		}
	}

	url := c.baseURL + "/api/v1/users/" + idOrNickname
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var u User
	if err := json.Unmarshal(body, &u); err != nil {
		return nil, fmt.Errorf("decode user response: %w", err)
	}

	if c.cache != nil {
		c.cache.set(idOrNickname, &u)
	}
	return &u, nil
}

// ListUsers returns one page of accounts from GET /api/v1/users.
// Page starts at 1; out-of-range sizes are clamped server-side.
func (c *Client) ListUsers(ctx context.Context, page, size int) (*UserPage, error) {
	endpoint := fmt.Sprintf("%s/api/v1/users?page=%d&size=%d", c.baseURL, page, size)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var result UserPage
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &result, nil
}

// UpdateUser applies a partial update via PATCH /api/v1/users/:id.
// At least one field must be non-nil or the server rejects the request.
func (c *Client) UpdateUser(ctx context.Context, id string, upd UpdateUserRequest) (*User, error) {
	payload, err := json.Marshal(upd)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	url := c.baseURL + "/api/v1/users/" + id
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}
	c.invalidate()

	var u User
	if err := json.Unmarshal(body, &u); err != nil {
		return nil, fmt.Errorf("decode user response: %w", err)
	}
	return &u, nil
}

// DeleteUser removes an account via DELETE /api/v1/users/:id.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/api/v1/users/"+id, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	if _, err := c.do(req); err != nil {
		return err
	}
	c.invalidate()
	return nil
}

// SetProfessionalStatus flips the professional flag via
// PUT /api/v1/users/:id/professional-status.
func (c *Client) SetProfessionalStatus(ctx context.Context, id string, professional bool) (*User, error) {
	payload, _ := json.Marshal(map[string]bool{"is_professional": professional})
	url := c.baseURL + "/api/v1/users/" + id + "/professional-status"
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}
	c.invalidate()

	var u User
	if err := json.Unmarshal(body, &u); err != nil {
		return nil, fmt.Errorf("decode user response: %w", err)
	}
	return &u, nil
}

// do executes an HTTP request, attaching the session token if present.
// Non-2xx responses come back as *APIError.
func (c *Client) do(req *http.Request) ([]byte, error) {
	if tok := c.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, decodeError(resp.StatusCode, body)
	}
	return body, nil
}

// decodeError maps a non-2xx body onto APIError, falling back to the raw
// body when it is not the JSON error envelope.
func decodeError(status int, body []byte) error {
	apiErr := &APIError{StatusCode: status}
	if err := json.Unmarshal(body, apiErr); err == nil && apiErr.Message != "" {
		return apiErr
	}
	return &APIError{
		StatusCode: status,
		Message:    http.StatusText(status),
		Details:    strings.TrimSpace(string(body)),
	}
}

func (c *Client) invalidate() {
	if c.cache != nil {
		c.cache.clear()
	}
}

// --- simple in-memory profile cache ---

type cacheEntry struct {
	user      *User
	expiresAt time.Time
}

type profileCache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
	ttl     time.Duration
}

func newProfileCache(ttl time.Duration) *profileCache {
	return &profileCache{entries: make(map[string]*cacheEntry), ttl: ttl}
}

func (pc *profileCache) get(key string) (*User, bool) {
	pc.mu.RLock()
	defer pc.mu.RUnlock()
	e, ok := pc.entries[key]
	if !ok || time.Now().After(e.expiresAt) {
		return nil, false
	}
	return e.user, true
}

func (pc *profileCache) set(key string, u *User) {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	pc.entries[key] = &cacheEntry{user: u, expiresAt: time.Now().Add(pc.ttl)}
}

func (pc *profileCache) clear() {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	pc.entries = make(map[string]*cacheEntry)
}
