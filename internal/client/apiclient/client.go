// Package apiclient talks to the back-office HTTP API and turns its error
// envelopes back into domain errors.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopadmin/backoffice/internal/core/domain"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the default client, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Error is a non-2xx answer from the API.
type Error struct {
	Status  int
	Name    string
	Message string
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if e.Name != "" {
		return fmt.Sprintf("%s (%d %s)", msg, e.Status, e.Name)
	}
	return fmt.Sprintf("%s (%d)", msg, e.Status)
}

// Unwrap resolves the error name first and falls back on the status code.
func (e *Error) Unwrap() error {
	if err, ok := domain.ErrorByName(e.Name); ok {
		return err
	}
	switch {
	case e.Status >= http.StatusInternalServerError:
		return domain.ErrUnavailable
	case e.Status == http.StatusUnauthorized:
		return domain.ErrTokenInvalid
	case e.Status == http.StatusForbidden:
		return domain.ErrForbidden
	case e.Status == http.StatusNotFound:
		return domain.ErrUserNotFound
	case e.Status == http.StatusConflict:
		return domain.ErrDuplicateEmail
	case e.Status == http.StatusBadRequest:
		return domain.ErrInvalidInput
	}
	return nil
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Name    string `json:"name"`
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Login is a successful login answer.
type Login struct {
	Message   string    `json:"message"`
	Token     string    `json:"token"`
	UserID    string    `json:"userId"`
	RoleID    int       `json:"roleId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// SignUp registers a customer account and returns the server's message.
func (c *Client) SignUp(ctx context.Context, email, password string) (string, error) {
	var res messageResponse
	if err := c.do(ctx, http.MethodPost, "/signup", "", credentials{email, password}, &res); err != nil {
		return "", err
	}
	return res.Message, nil
}

func (c *Client) LogIn(ctx context.Context, email, password string) (*Login, error) {
	var res Login
	if err := c.do(ctx, http.MethodPost, "/login", "", credentials{email, password}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) Roles(ctx context.Context, token string) ([]domain.Role, error) {
	var res struct {
		Roles []domain.Role `json:"roles"`
	}
	if err := c.do(ctx, http.MethodGet, "/roles", token, nil, &res); err != nil {
		return nil, err
	}
	return res.Roles, nil
}

func (c *Client) ListUsers(ctx context.Context, token string) ([]*domain.User, error) {
	var res struct {
		Users []*domain.User `json:"users"`
	}
	if err := c.do(ctx, http.MethodGet, "/users", token, nil, &res); err != nil {
		return nil, err
	}
	return res.Users, nil
}

func (c *Client) GetUser(ctx context.Context, token, userID string) (*domain.User, error) {
	var res struct {
		User *domain.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(userID), token, nil, &res); err != nil {
		return nil, err
	}
	return res.User, nil
}

// DeleteUser returns how many accounts were removed, 0 or 1.
func (c *Client) DeleteUser(ctx context.Context, token, userID string) (int64, error) {
	var res struct {
		Result struct {
			DeletedCount int64 `json:"deletedCount"`
		} `json:"result"`
	}
	if err := c.do(ctx, http.MethodDelete, "/users/"+url.PathEscape(userID), token, nil, &res); err != nil {
		return 0, err
	}
	return res.Result.DeletedCount, nil
}

func (c *Client) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", domain.ErrUnavailable, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &Error{Status: resp.StatusCode}

	var body errorBody
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if json.Unmarshal(data, &body) == nil {
		apiErr.Name = body.Name
		apiErr.Message = body.Message
		if apiErr.Message == "" {
			apiErr.Message = body.Error
		}
	}
	return apiErr
}
