package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vidproof/vidproof/internal/config"
	"github.com/vidproof/vidproof/internal/errors"
	"github.com/vidproof/vidproof/internal/util"
)

// FrameInput is one encoded frame plus where in the video it was taken.
type FrameInput struct {
	Timestamp float64
	MediaType string
	Data      string // base64
}

// Analyzer scores a set of ordered frames against an expectation.
// Implementations must respect ctx cancellation.
type Analyzer interface {
	Analyze(ctx context.Context, frames []FrameInput, exp Expectation) (*Analysis, error)
}

// ClientOptions configures the HTTP analyzer.
type ClientOptions struct {
	APIKey     string
	BaseURL    string
	Model      string
	MaxTokens  int
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client talks to an Anthropic-style messages endpoint.
type Client struct {
	apiKey    string
	baseURL   string
	model     string
	maxTokens int
	timeout   time.Duration
	http      *http.Client
}

// NewClient creates an HTTP analyzer, filling unset options with defaults.
// The API key is required.
func NewClient(opts ClientOptions) (*Client, error) {
	if opts.APIKey == "" {
		return nil, errors.NewConfigError("vision service API key is not set")
	}
	if opts.BaseURL == "" {
		opts.BaseURL = config.DefaultVisionBaseURL
	}
	if opts.Model == "" {
		opts.Model = config.DefaultVisionModel
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = config.DefaultVisionMaxTokens
	}
	if opts.Timeout <= 0 {
		opts.Timeout = config.DefaultVisionTimeout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{}
	}
	return &Client{
		apiKey:    opts.APIKey,
		baseURL:   opts.BaseURL,
		model:     opts.Model,
		maxTokens: opts.MaxTokens,
		timeout:   opts.Timeout,
		http:      opts.HTTPClient,
	}, nil
}

type messageRequest struct {
	Model     string         `json:"model"`
	MaxTokens int            `json:"max_tokens"`
	Messages  []message      `json:"messages"`
}

type message struct {
	Role    string         `json:"role"`
	Content []contentBlock `json:"content"`
}

type contentBlock struct {
	Type   string       `json:"type"`
	Text   string       `json:"text,omitempty"`
	Source *imageSource `json:"source,omitempty"`
}

type imageSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type messageResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Analyze submits the frames in order with the scoring rubric and parses the
// service's reply.
func (c *Client) Analyze(ctx context.Context, frames []FrameInput, exp Expectation) (*Analysis, error) {
	if len(frames) == 0 {
		return nil, errors.NewServiceError("no frames to analyze", nil)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(c.buildRequest(frames, exp))
	if err != nil {
		return nil, errors.NewServiceError("failed to encode request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return nil, errors.NewServiceError("failed to build request", err)
	}
	req.Header.Set("content-type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, errors.NewServiceError(fmt.Sprintf("vision service timed out after %s", c.timeout), err)
		}
		if ctx.Err() == context.Canceled {
			return nil, errors.NewCancelledError()
		}
		return nil, errors.NewServiceError("vision service request failed", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewServiceError("failed to read response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewServiceError(
			fmt.Sprintf("vision service returned %d: %s", resp.StatusCode, util.Truncate(string(data), config.MaxRawResponseBytes)),
			nil,
		)
	}

	var msg messageResponse
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, errors.NewServiceError("vision service returned malformed envelope", err)
	}
	if msg.Error != nil {
		return nil, errors.NewServiceError(fmt.Sprintf("vision service error: %s", msg.Error.Message), nil)
	}

	var text bytes.Buffer
	for _, block := range msg.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	return ParseResponse(text.String())
}

// buildRequest interleaves a position tag before each image so the service
// can reason about frame order.
func (c *Client) buildRequest(frames []FrameInput, exp Expectation) messageRequest {
	blocks := make([]contentBlock, 0, 2*len(frames)+1)
	for i, f := range frames {
		blocks = append(blocks, contentBlock{
			Type: "text",
			Text: fmt.Sprintf("Frame %d/%d at %s", i+1, len(frames), util.FormatTimestamp(f.Timestamp)),
		})
		blocks = append(blocks, contentBlock{
			Type: "image",
			Source: &imageSource{
				Type:      "base64",
				MediaType: f.MediaType,
				Data:      f.Data,
			},
		})
	}
	blocks = append(blocks, contentBlock{
		Type: "text",
		Text: BuildPrompt(exp, len(frames)),
	})

	return messageRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages:  []message{{Role: "user", Content: blocks}},
	}
}
