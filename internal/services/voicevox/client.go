package voicevox

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

	"visionforge/internal/services"
)

// Request carries the text and tuning for one synthesis call.
type Request struct {
	Text             string
	SpeakerID        int
	SpeedScale       float64
	IntonationScale  float64
	PrePhonemeLength float64
}

// Client defines speech synthesis behaviour.
type Client interface {
	Synthesize(ctx context.Context, req Request) ([]byte, error)
}

// Option configures the HTTP client.
type Option func(*HTTP)

// WithBaseURL overrides the default service endpoint.
func WithBaseURL(baseURL string) Option {
	return func(c *HTTP) {
		if trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/"); trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// WithTimeout overrides the default request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *HTTP) {
		if timeout > 0 {
			c.client.Timeout = timeout
		}
	}
}

// WithHTTPClient substitutes the underlying transport, mainly for tests.
func WithHTTPClient(client *http.Client) Option {
	return func(c *HTTP) {
		if client != nil {
			c.client = client
		}
	}
}

// HTTP talks to a running VOICEVOX engine.
type HTTP struct {
	baseURL string
	client  *http.Client
}

// NewHTTP constructs a client using defaults.
func NewHTTP(opts ...Option) *HTTP {
	c := &HTTP{
		baseURL: "http://127.0.0.1:50021",
		client:  &http.Client{Timeout: 120 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Synthesize runs the two-step flow: build an audio query for the text,
// apply the tuning parameters to it, then request waveform synthesis.
// The returned bytes are a complete WAV file.
func (c *HTTP) Synthesize(ctx context.Context, req Request) ([]byte, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, services.Wrap(services.ErrValidation, "voicevox", "synthesize", "text required", nil)
	}

	query, err := c.audioQuery(ctx, req)
	if err != nil {
		return nil, err
	}

	// The query document is treated as opaque apart from the tuning keys;
	// VOICEVOX owns its schema.
	if req.SpeedScale > 0 {
		query["speedScale"] = req.SpeedScale
	}
	if req.IntonationScale > 0 {
		query["intonationScale"] = req.IntonationScale
	}
	if req.PrePhonemeLength > 0 {
		query["prePhonemeLength"] = req.PrePhonemeLength
	}

	return c.synthesis(ctx, req.SpeakerID, query)
}

func (c *HTTP) audioQuery(ctx context.Context, req Request) (map[string]any, error) {
	params := url.Values{}
	params.Set("text", req.Text)
	params.Set("speaker", strconv.Itoa(req.SpeakerID))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/audio_query?"+params.Encode(), nil)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "voicevox", "audio_query", "build request", err)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "voicevox", "audio_query", "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, services.Wrap(services.ErrExternalTool, "voicevox", "audio_query",
			fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	var query map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&query); err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "voicevox", "audio_query", "decode response", err)
	}
	return query, nil
}

func (c *HTTP) synthesis(ctx context.Context, speakerID int, query map[string]any) ([]byte, error) {
	body, err := json.Marshal(query)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "voicevox", "synthesis", "marshal query", err)
	}

	params := url.Values{}
	params.Set("speaker", strconv.Itoa(speakerID))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/synthesis?"+params.Encode(), bytes.NewReader(body))
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "voicevox", "synthesis", "build request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "voicevox", "synthesis", "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, services.Wrap(services.ErrExternalTool, "voicevox", "synthesis",
			fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "voicevox", "synthesis", "read audio", err)
	}
	if len(audio) == 0 {
		return nil, services.Wrap(services.ErrExternalTool, "voicevox", "synthesis", "empty audio response", nil)
	}
	return audio, nil
}

var _ Client = (*HTTP)(nil)
