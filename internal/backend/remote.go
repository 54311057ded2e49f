package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/yiblet/sipp/internal/store"
)

// APIKeyHeader carries the shared secret on mutating API requests.
const APIKeyHeader = "x-api-key"

// DefaultTimeout bounds every remote request.
const DefaultTimeout = 10 * time.Second

// Messages reported for the two authorization failures a server can return.
const (
	MsgInvalidAPIKey = "Invalid API key"
	MsgNoServerKey   = "No API key configured on server"
)

// Remote talks to a sipp server over HTTP.
type Remote struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *slog.Logger
}

var _ Backend = (*Remote)(nil)

// RemoteOption customizes a Remote.
type RemoteOption func(*Remote)

// WithHTTPClient replaces the default client (10s timeout).
func WithHTTPClient(c *http.Client) RemoteOption {
	return func(r *Remote) { r.client = c }
}

// WithLogger logs each request at debug level.
func WithLogger(l *slog.Logger) RemoteOption {
	return func(r *Remote) { r.logger = l }
}

// NewRemote returns a backend for the server at baseURL. An empty apiKey
// sends no key header.
func NewRemote(baseURL, apiKey string, opts ...RemoteOption) *Remote {
	r := &Remote{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: DefaultTimeout},
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// BaseURL returns the server URL without a trailing slash.
func (r *Remote) BaseURL() string {
	return r.baseURL
}

func (r *Remote) IsRemote() bool { return true }

type snippetInput struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

func (r *Remote) List(ctx context.Context) ([]*store.Snippet, error) {
	resp, err := r.do(ctx, http.MethodGet, "/api/snippets", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}
	var snippets []*store.Snippet
	if err := decode(resp.Body, &snippets); err != nil {
		return nil, err
	}
	return snippets, nil
}

func (r *Remote) Create(ctx context.Context, name, content string) (*store.Snippet, error) {
	resp, err := r.do(ctx, http.MethodPost, "/api/snippets", snippetInput{Name: name, Content: content})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, statusError(resp)
	}
	var s store.Snippet
	if err := decode(resp.Body, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *Remote) Delete(ctx context.Context, shortID string) (bool, error) {
	resp, err := r.do(ctx, http.MethodDelete, "/api/snippets/"+shortID, nil)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	}
	return false, statusError(resp)
}

func (r *Remote) Update(ctx context.Context, shortID, name, content string) (*store.Snippet, error) {
	resp, err := r.do(ctx, http.MethodPut, "/api/snippets/"+shortID, snippetInput{Name: name, Content: content})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, nil
	default:
		return nil, statusError(resp)
	}
	var s store.Snippet
	if err := decode(resp.Body, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *Remote) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, Network("%v", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, reader)
	if err != nil {
		return nil, Network("%v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.apiKey != "" {
		req.Header.Set(APIKeyHeader, r.apiKey)
	}

	start := time.Now()
	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Debug("remote request failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return nil, Network("%v", err)
	}
	r.logger.Debug("remote request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)
	return resp, nil
}

func statusError(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return Unauthorized(MsgInvalidAPIKey)
	case http.StatusForbidden:
		return Unauthorized(MsgNoServerKey)
	}
	return Network("HTTP %s", resp.Status)
}

func decode(body io.Reader, v any) error {
	if err := json.NewDecoder(body).Decode(v); err != nil {
		return Network("invalid response: %v", err)
	}
	return nil
}
