package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"visionforge/internal/render"
	"visionforge/internal/script"
	"visionforge/internal/services"
)

// Client talks to a running daemon's HTTP API. It backs the CLI commands.
type Client struct {
	baseURL string
	client  *http.Client
}

// ClientOption configures the client.
type ClientOption func(*Client)

// WithHTTPClient substitutes the underlying transport, mainly for tests.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		if httpClient != nil {
			c.client = httpClient
		}
	}
}

// NewClient builds a client for the given base URL, e.g.
// "http://127.0.0.1:8787".
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		client:  &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Script fetches the current persisted scene list.
func (c *Client) Script(ctx context.Context) ([]script.Scene, error) {
	var scenes []script.Scene
	if err := c.getJSON(ctx, "/api/script", &scenes); err != nil {
		return nil, err
	}
	return scenes, nil
}

// Save submits a full replacement scene list.
func (c *Client) Save(ctx context.Context, req SaveRequest) (*SaveResponse, error) {
	var resp SaveResponse
	if err := c.postJSON(ctx, "/api/save", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// StartRender submits a render-input document.
func (c *Client) StartRender(ctx context.Context, input render.Input) (*RenderAccepted, error) {
	var resp RenderAccepted
	if err := c.postJSON(ctx, "/api/render", input, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RenderStatus polls the current render state.
func (c *Client) RenderStatus(ctx context.Context) (*RenderStatus, error) {
	var resp RenderStatus
	if err := c.getJSON(ctx, "/api/render/status", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RenderHistory lists journaled render attempts.
func (c *Client) RenderHistory(ctx context.Context, limit int) (*RenderHistoryResponse, error) {
	endpoint := "/api/render/history"
	if limit > 0 {
		endpoint += "?" + url.Values{"limit": []string{strconv.Itoa(limit)}}.Encode()
	}
	var resp RenderHistoryResponse
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Status fetches daemon runtime information.
func (c *Client) Status(ctx context.Context) (*DaemonStatus, error) {
	var resp DaemonStatus
	if err := c.getJSON(ctx, "/api/status", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return services.Wrap(services.ErrTransient, "api", "request", "build request", err)
	}
	return c.do(req, out)
}

func (c *Client) postJSON(ctx context.Context, endpoint string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return services.Wrap(services.ErrTransient, "api", "request", "marshal payload", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return services.Wrap(services.ErrTransient, "api", "request", "build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return services.Wrap(services.ErrTransient, "api", "request", "daemon unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return services.Wrap(services.ErrTransient, "api", "request", "decode response", err)
	}
	return nil
}

// decodeError maps an error response back onto the service error taxonomy
// so callers can distinguish conflicts and missing resources.
func decodeError(resp *http.Response) error {
	message := strings.TrimSpace(readErrorMessage(resp.Body))
	if message == "" {
		message = fmt.Sprintf("unexpected status %d", resp.StatusCode)
	}

	marker := services.ErrTransient
	switch resp.StatusCode {
	case http.StatusBadRequest:
		marker = services.ErrValidation
	case http.StatusNotFound:
		marker = services.ErrNotFound
	case http.StatusConflict:
		marker = services.ErrConflict
	}
	return services.Wrap(marker, "api", "request", message, nil)
}

func readErrorMessage(body io.Reader) string {
	var envelope ErrorResponse
	if err := json.NewDecoder(body).Decode(&envelope); err != nil {
		return ""
	}
	return envelope.Error
}
