package reference

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/rotisserie/eris"
)

// HTTPLoader fetches the dataset as a static text resource
type HTTPLoader struct {
	baseURL string
	path    string
	http    *http.Client
}

// HTTPOption configures an HTTPLoader
type HTTPOption func(*HTTPLoader)

// WithBaseURL pins the origin instead of using the inbound request's
func WithBaseURL(url string) HTTPOption {
	return func(l *HTTPLoader) {
		l.baseURL = url
	}
}

// WithPath overrides the resource path
func WithPath(path string) HTTPOption {
	return func(l *HTTPLoader) {
		if path != "" {
			l.path = path
		}
	}
}

// WithHTTPClient overrides the default http.Client
func WithHTTPClient(hc *http.Client) HTTPOption {
	return func(l *HTTPLoader) {
		l.http = hc
	}
}

// NewHTTPLoader creates a loader reading DefaultPath from the request origin
func NewHTTPLoader(opts ...HTTPOption) *HTTPLoader {
	l := &HTTPLoader{
		path: DefaultPath,
		http: http.DefaultClient,
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Load issues one GET for the dataset. Non-2xx responses fail.
func (l *HTTPLoader) Load(ctx context.Context, origin string) ([]string, error) {
	base := l.baseURL
	if base == "" {
		base = origin
	}
	if base == "" {
		return nil, ErrNoOrigin
	}

	url := strings.TrimRight(base, "/") + "/" + strings.TrimLeft(l.path, "/")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, eris.Wrap(err, "reference: create request")
	}

	resp, err := l.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "reference: fetch dataset")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, eris.Errorf("reference: unexpected status %d fetching %s", resp.StatusCode, l.path)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "reference: read dataset")
	}

	return SplitLines(string(body)), nil
}
