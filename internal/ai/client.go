// Package ai relays explanation requests to an OpenAI-compatible
// chat-completions endpoint, either collecting the full response or
// demultiplexing the SSE stream into incremental chunks.
package ai

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"quizdesk/internal/domain"
	"quizdesk/internal/settings"
)

const ssePrefix = "data: "
const sseDone = "[DONE]"

// StreamSink receives incremental content chunks in arrival order.
type StreamSink func(chunk string)

// Result is a finished explanation. SkippedFrames counts SSE frames
// that failed to parse and were dropped without aborting the stream.
type Result struct {
	Content       string
	SkippedFrames int
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type streamFrame struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// Client issues chat-completion requests. The zero timeout means the
// http.Client default (none); cancellation always works through ctx.
type Client struct {
	httpClient *http.Client
}

func NewClient(timeout time.Duration) *Client {
	return &Client{httpClient: &http.Client{Timeout: timeout}}
}

// Explain asks the configured endpoint to explain a question. When
// sink is non-nil the request streams: each delta chunk is forwarded
// to sink as it arrives and also accumulated into the result. A
// missing API key fails before any network I/O.
func (c *Client) Explain(ctx context.Context, cfg settings.AIConfig, stem, answer string, sink StreamSink) (*Result, error) {
	if cfg.APIKey == "" {
		return nil, domain.NewMissingAPIKeyError()
	}

	endpoint := normalizeBaseURL(cfg.BaseURL) + "/chat/completions"
	body, err := json.Marshal(chatRequest{
		Model:    cfg.Model,
		Messages: buildMessages(stem, answer),
		Stream:   sink != nil,
	})
	if err != nil {
		return nil, domain.NewInternalError("failed to encode request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, domain.NewUpstreamAPIError("failed to build API request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domain.NewUpstreamAPIError("network error", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return nil, domain.NewUpstreamAPIError(
			fmt.Sprintf("API request failed with status %d: %s", resp.StatusCode, string(raw)), nil)
	}

	if sink != nil {
		return c.readStream(ctx, resp.Body, sink)
	}
	return c.readCompletion(resp.Body)
}

func (c *Client) readCompletion(body io.Reader) (*Result, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, domain.NewUpstreamAPIError("failed to read API response", err)
	}
	var parsed completionResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, domain.NewResponseParseError(err)
	}
	if len(parsed.Choices) == 0 {
		return nil, domain.NewResponseParseError(fmt.Errorf("response contains no choices"))
	}
	return &Result{Content: parsed.Choices[0].Message.Content}, nil
}

// readStream parses newline-delimited SSE frames. Malformed frames are
// skipped (counted, not fatal): one broken chunk must not kill an
// in-progress explanation.
func (c *Client) readStream(ctx context.Context, body io.Reader, sink StreamSink) (*Result, error) {
	result := &Result{}
	var content strings.Builder

	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, ssePrefix) {
			continue
		}
		payload := strings.TrimSpace(line[len(ssePrefix):])
		if payload == sseDone {
			continue
		}

		var frame streamFrame
		if err := json.Unmarshal([]byte(payload), &frame); err != nil {
			result.SkippedFrames++
			continue
		}
		if len(frame.Choices) == 0 {
			result.SkippedFrames++
			continue
		}
		if chunk := frame.Choices[0].Delta.Content; chunk != "" {
			content.WriteString(chunk)
			sink(chunk)
		}
	}
	if err := scanner.Err(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, domain.NewUpstreamAPIError("stream interrupted", err)
	}

	result.Content = content.String()
	return result, nil
}

// normalizeBaseURL prefixes https:// when the scheme is absent and
// strips one trailing slash.
func normalizeBaseURL(baseURL string) string {
	url := baseURL
	if !strings.HasPrefix(url, "http") {
		url = "https://" + url
	}
	return strings.TrimSuffix(url, "/")
}
