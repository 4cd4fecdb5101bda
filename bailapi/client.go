// Package bailapi is a thin client for the external auth and
// bail-application service.
package bailapi

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
	"sync"

	"bailbridge-backend/models"
)

// APIError is a failed call. StatusCode is 0 when no response arrived.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("bailapi: status %d: %s", e.StatusCode, e.Message)
	}
	return "bailapi: " + e.Message
}

// Client calls the bail-application service
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

// ClientOption configures a Client
type ClientOption func(*Client)

// WithHTTPClient sets the HTTP client
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithToken sets the initial bearer token
func WithToken(token string) ClientOption {
	return func(c *Client) {
		c.token = token
	}
}

// NewClient creates a new client for the service at baseURL
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetAuthToken sets the bearer token sent on every request. An empty token clears it.
func (c *Client) SetAuthToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) authToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Register creates an account. Role defaults to user.
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	if req.Role == "" {
		req.Role = models.RoleUser
	}
	var out models.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/register", req, &out, "Registration failed"); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login exchanges credentials for a token
func (c *Client) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	var out models.AuthResponse
	req := models.LoginRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/login", req, &out, "Login failed"); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateBailApplication submits a new application
func (c *Client) CreateBailApplication(ctx context.Context, app models.CreateBailApplication) (*models.BailApplicationResponse, error) {
	var out models.BailApplicationResponse
	if err := c.do(ctx, http.MethodPost, "/bail-applications", app, &out, "Failed to create bail application"); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetMyBailApplications lists the caller's applications
func (c *Client) GetMyBailApplications(ctx context.Context) ([]models.BailApplicationSummary, error) {
	var out []models.BailApplicationSummary
	if err := c.do(ctx, http.MethodGet, "/bail-applications/my", nil, &out, "Failed to fetch applications"); err != nil {
		return nil, err
	}
	return out, nil
}

// GetBailApplication fetches one application by number
func (c *Client) GetBailApplication(ctx context.Context, applicationNumber string) (*models.BailApplication, error) {
	var out models.BailApplication
	path := "/bail-applications/" + url.PathEscape(applicationNumber)
	if err := c.do(ctx, http.MethodGet, path, nil, &out, "Failed to fetch application"); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetAllBailApplications lists every application. Lawyers only.
func (c *Client) GetAllBailApplications(ctx context.Context) ([]models.BailApplicationSummary, error) {
	var out []models.BailApplicationSummary
	if err := c.do(ctx, http.MethodGet, "/bail-applications/all", nil, &out, "Failed to fetch all applications"); err != nil {
		return nil, err
	}
	return out, nil
}

// AssignLawyerToCase assigns the calling lawyer to an application
func (c *Client) AssignLawyerToCase(ctx context.Context, applicationNumber string) (*models.BailApplicationResponse, error) {
	var out models.BailApplicationResponse
	path := "/bail-applications/" + url.PathEscape(applicationNumber) + "/assign"
	if err := c.do(ctx, http.MethodPost, path, nil, &out, "Failed to assign lawyer"); err != nil {
		return nil, err
	}
	return &out, nil
}

// do sends one JSON request. Failures carry the response body text, else
// the transport message, else fallback.
func (c *Client) do(ctx context.Context, method, path string, in, out any, fallback string) error {
	var body io.Reader
	if in != nil {
		jsonData, err := json.Marshal(in)
		if err != nil {
			return &APIError{Message: orFallback(err.Error(), fallback)}
		}
		body = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &APIError{Message: orFallback(err.Error(), fallback)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token := c.authToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return &APIError{Message: orFallback(err.Error(), fallback)}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{StatusCode: resp.StatusCode, Message: orFallback(err.Error(), fallback)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Message: orFallback(strings.TrimSpace(string(respBody)), fallback)}
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return &APIError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("%s: decode response: %v", fallback, err)}
	}
	return nil
}

func orFallback(msg, fallback string) string {
	if msg == "" {
		return fallback
	}
	return msg
}
