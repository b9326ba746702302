package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

var (
	// ErrDisabled is returned when no API key is configured.
	ErrDisabled = errors.New("assistant is not configured")

	// ErrTimeout indicates the completion exceeded the configured timeout.
	ErrTimeout = errors.New("assistant request timed out")

	// ErrUnavailable indicates the provider could not be reached.
	ErrUnavailable = errors.New("assistant provider unavailable")

	// ErrEmptyResponse indicates the provider answered without any text.
	ErrEmptyResponse = errors.New("assistant returned no text")
)

// CompletionRequest is a single question with its system context.
type CompletionRequest struct {
	System string
	Prompt string
}

// Completer produces text for a prompt.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

type Config struct {
	APIKey   string
	Model    string
	Endpoint string
	Timeout  time.Duration
}

// NewCompleter returns a Gemini client, or Disabled when no key is set.
func NewCompleter(cfg Config) Completer {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return Disabled{}
	}
	return NewGeminiClient(cfg)
}

// Disabled always fails with ErrDisabled.
type Disabled struct{}

func (Disabled) Complete(context.Context, CompletionRequest) (string, error) {
	return "", ErrDisabled
}

// GeminiClient calls the generateContent REST endpoint.
type GeminiClient struct {
	cfg  Config
	http *http.Client
}

func NewGeminiClient(cfg Config) *GeminiClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	cfg.Endpoint = strings.TrimRight(cfg.Endpoint, "/")
	return &GeminiClient{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent `json:"systemInstruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// Complete sends one request. It never retries.
func (c *GeminiClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	body := geminiRequest{
		Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: req.Prompt}}}},
	}
	if req.System != "" {
		body.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: req.System}}}
	}

	text, err := c.doRequest(ctx, body)
	if err != nil {
		if ctx.Err() != nil {
			return "", ErrTimeout
		}
		var netErr *net.OpError
		if errors.As(err, &netErr) {
			return "", ErrUnavailable
		}
		return "", err
	}
	return text, nil
}

func (c *GeminiClient) doRequest(ctx context.Context, body geminiRequest) (string, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.cfg.Endpoint, c.cfg.Model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.cfg.APIKey)

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}
	if httpResp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini returned status %d: %s", httpResp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var resp geminiResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}

	var sb strings.Builder
	for _, cand := range resp.Candidates {
		for _, p := range cand.Content.Parts {
			sb.WriteString(p.Text)
		}
		if sb.Len() > 0 {
			break
		}
	}
	if sb.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return sb.String(), nil
}
