package gemini

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
)

// RESTClient calls generateContent over plain HTTP
type RESTClient struct {
	apiKey     string
	baseURL    string
	model      string
	config     GenerationConfig
	httpClient *http.Client
}

// RESTClientOption configures a RESTClient
type RESTClientOption func(*RESTClient)

// WithBaseURL overrides the API root
func WithBaseURL(baseURL string) RESTClientOption {
	return func(c *RESTClient) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithModel overrides the completion model
func WithModel(model string) RESTClientOption {
	return func(c *RESTClient) {
		if model != "" {
			c.model = model
		}
	}
}

// WithHTTPClient sets the HTTP client
func WithHTTPClient(client *http.Client) RESTClientOption {
	return func(c *RESTClient) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithGenerationConfig replaces the default generation settings
func WithGenerationConfig(cfg GenerationConfig) RESTClientOption {
	return func(c *RESTClient) {
		c.config = cfg
	}
}

// NewRESTClient creates a new REST completion client
func NewRESTClient(apiKey string, opts ...RESTClientOption) *RESTClient {
	c := &RESTClient{
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		model:      DefaultModel,
		config:     DefaultGenerationConfig,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type generateRequest struct {
	Contents         []Content        `json:"contents"`
	GenerationConfig generationParams `json:"generationConfig"`
	SafetySettings   []SafetySetting  `json:"safetySettings"`
}

type generationParams struct {
	Temperature     float32 `json:"temperature"`
	MaxOutputTokens int32   `json:"maxOutputTokens"`
}

type errorBody struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// GenerateContent sends a single generateContent request. No retries.
func (c *RESTClient) GenerateContent(ctx context.Context, prompt string) (*Response, error) {
	reqBody := generateRequest{
		Contents: []Content{{Parts: []Part{{Text: prompt}}}},
		GenerationConfig: generationParams{
			Temperature:     c.config.Temperature,
			MaxOutputTokens: c.config.MaxOutputTokens,
		},
		SafetySettings: c.config.SafetySettings(),
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, &APIError{Message: fmt.Sprintf("failed to marshal request: %v", err)}
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, url.PathEscape(c.model), url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return nil, &APIError{Message: "failed to create request"}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &APIError{Message: transportMessage(err)}
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{StatusCode: errorStatus(resp.StatusCode), Message: transportMessage(err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: errorMessage(resp.StatusCode, bodyBytes)}
	}

	var out Response
	if err := json.Unmarshal(bodyBytes, &out); err != nil {
		return nil, &APIError{Message: fmt.Sprintf("failed to decode response: %v", err)}
	}
	return &out, nil
}

// transportMessage drops the request URL, which carries the key
func transportMessage(err error) string {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		err = uerr.Err
	}
	return err.Error()
}

func errorStatus(code int) int {
	if code >= 400 {
		return code
	}
	return 0
}

func errorMessage(code int, body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil && eb.Error.Message != "" {
		return eb.Error.Message
	}
	return fmt.Sprintf("Request failed with status code %d", code)
}
