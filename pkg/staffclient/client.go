// Package staffclient is a Go client for the staff session endpoint. It keeps
// the session in a Store, reports when it is about to expire and demotes the
// caller to unauthenticated once it has.
package staffclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	staffAuthPath        = "/api/staff-auth"
	defaultWarningWindow = 5 * time.Minute
	defaultTimeout       = 15 * time.Second
	codeSessionInvalid   = "SESSION_INVALID"
)

var (
	// ErrNetwork means the server could not be reached. The stored session is kept.
	ErrNetwork = errors.New("staffclient: server unreachable")
	// ErrNotAuthenticated means no usable session is stored.
	ErrNotAuthenticated = errors.New("staffclient: not authenticated")
)

// APIError is an error envelope returned by the server.
type APIError struct {
	Status  int    `json:"-"`
	Message string `json:"error"`
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
}

func (e *APIError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s (%s): %s", e.Code, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// User is the staff account attached to a session.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role"`
	IsActive bool   `json:"is_active"`
}

// State is the client's view of its authentication.
type State string

const (
	Unauthenticated State = "unauthenticated"
	Authenticated   State = "authenticated"
	Expired         State = "expired"
)

// Status describes the stored session at a point in time.
type Status struct {
	State     State
	ExpiresAt time.Time
	// Warn is true while the session is inside the warning window.
	Warn bool
}

// Option configures a Client.
type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithWarningWindow sets how long before expiry Status starts warning.
func WithWarningWindow(d time.Duration) Option {
	return func(c *Client) { c.warningWindow = d }
}

func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.nowFunc = now }
}

// Client talks to POST /api/staff-auth on behalf of one staff user.
type Client struct {
	baseURL       string
	http          *http.Client
	store         Store
	warningWindow time.Duration
	nowFunc       func() time.Time

	mu   sync.Mutex
	last *StoredSession // last session seen, used to tell expired from never logged in
}

func New(baseURL string, store Store, opts ...Option) *Client {
	c := &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		http:          &http.Client{Timeout: defaultTimeout},
		store:         store,
		warningWindow: defaultWarningWindow,
		nowFunc:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Login authenticates and stores the new session.
func (c *Client) Login(ctx context.Context, username, password string) (*User, error) {
	var resp struct {
		Token     string    `json:"token"`
		User      *User     `json:"user"`
		ExpiresAt time.Time `json:"expires_at"`
	}
	err := c.post(ctx, map[string]any{"action": "login", "username": username, "password": password}, &resp)
	if err != nil {
		return nil, err
	}

	s := StoredSession{Token: resp.Token, ExpiresAt: resp.ExpiresAt, User: resp.User}
	if err := c.store.Save(s); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	c.remember(&s)
	return resp.User, nil
}

// Validate asks the server whether the stored session still grants access.
// A negative answer clears the store; a network failure does not.
func (c *Client) Validate(ctx context.Context) (bool, error) {
	s, err := c.store.Load()
	if err != nil {
		return false, err
	}
	if s == nil {
		return false, nil
	}

	var resp struct {
		Valid bool  `json:"valid"`
		User  *User `json:"user"`
	}
	if err := c.post(ctx, map[string]any{"action": "validate", "token": s.Token}, &resp); err != nil {
		return false, err
	}
	if !resp.Valid {
		return false, c.forget()
	}
	return true, nil
}

// Extend pushes the stored session's expiry forward. The token is unchanged.
func (c *Client) Extend(ctx context.Context) (time.Time, error) {
	s, err := c.store.Load()
	if err != nil {
		return time.Time{}, err
	}
	if s == nil {
		return time.Time{}, ErrNotAuthenticated
	}

	var resp struct {
		Success   bool      `json:"success"`
		ExpiresAt time.Time `json:"expires_at"`
	}
	if err := c.post(ctx, map[string]any{"action": "extend", "token": s.Token}, &resp); err != nil {
		return time.Time{}, err
	}
	if !resp.Success {
		if err := c.forget(); err != nil {
			return time.Time{}, err
		}
		return time.Time{}, ErrNotAuthenticated
	}

	s.ExpiresAt = resp.ExpiresAt
	if err := c.store.Save(*s); err != nil {
		return time.Time{}, fmt.Errorf("save session: %w", err)
	}
	c.remember(s)
	return resp.ExpiresAt, nil
}

// Logout revokes the session on the server and always clears local state,
// even when the request fails.
func (c *Client) Logout(ctx context.Context) error {
	s, err := c.store.Load()
	if err != nil {
		return err
	}
	var reqErr error
	if s != nil {
		reqErr = c.post(ctx, map[string]any{"action": "logout", "token": s.Token}, nil)
	}
	if err := c.forget(); err != nil {
		return err
	}
	return reqErr
}

// Do runs an authenticated action with the stored token. payload fields are
// merged into the request body next to action and token. A SESSION_INVALID
// answer clears the store.
func (c *Client) Do(ctx context.Context, action string, payload map[string]any, out any) error {
	s, err := c.store.Load()
	if err != nil {
		return err
	}
	if s == nil {
		return ErrNotAuthenticated
	}

	body := make(map[string]any, len(payload)+2)
	for k, v := range payload {
		body[k] = v
	}
	body["action"] = action
	body["token"] = s.Token

	err = c.post(ctx, body, out)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Code == codeSessionInvalid {
		if ferr := c.forget(); ferr != nil {
			return ferr
		}
	}
	return err
}

// Status reports the stored session without contacting the server.
func (c *Client) Status() (Status, error) {
	s, err := c.store.Load()
	if err != nil {
		return Status{}, err
	}
	now := c.nowFunc()

	if s != nil && s.ExpiresAt.After(now) {
		c.remember(s)
		return Status{
			State:     Authenticated,
			ExpiresAt: s.ExpiresAt,
			Warn:      s.ExpiresAt.Sub(now) <= c.warningWindow,
		}, nil
	}

	c.mu.Lock()
	last := c.last
	c.mu.Unlock()
	if s != nil || (last != nil && !last.ExpiresAt.After(now)) {
		exp := last
		if s != nil {
			exp = s
		}
		return Status{State: Expired, ExpiresAt: exp.ExpiresAt}, nil
	}
	return Status{State: Unauthenticated}, nil
}

func (c *Client) remember(s *StoredSession) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := *s
	c.last = &cp
}

// forget clears the store and the remembered session.
func (c *Client) forget() error {
	c.mu.Lock()
	c.last = nil
	c.mu.Unlock()
	return c.store.Clear()
}

func (c *Client) post(ctx context.Context, body map[string]any, out any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+staffAuthPath, bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{Status: resp.StatusCode}
		if err := json.NewDecoder(resp.Body).Decode(apiErr); err != nil || apiErr.Code == "" {
			apiErr.Code = "HTTP_" + fmt.Sprint(resp.StatusCode)
			if apiErr.Message == "" {
				apiErr.Message = http.StatusText(resp.StatusCode)
			}
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
