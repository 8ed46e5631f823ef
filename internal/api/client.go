package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/bz888/stockchat/internal/logger"
)

// Client sends chat messages to a single configured endpoint.
type Client struct {
	endpoint   *url.URL
	http       *http.Client
	promptID   string
	threadID   string
	responseID string
}

// ClientConfig holds the configuration for the client
type ClientConfig struct {
	Endpoint   string
	PromptID   string
	ThreadID   string
	ResponseID string
	// Timeout bounds a whole exchange. Zero means no timeout.
	Timeout time.Duration
}

func NewClient(config ClientConfig) (*Client, error) {
	if config.Endpoint == "" {
		return nil, errors.New("chat endpoint is required")
	}
	endpoint, err := url.Parse(config.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse chat endpoint: %w", err)
	}
	if endpoint.Scheme != "http" && endpoint.Scheme != "https" {
		return nil, fmt.Errorf("unsupported chat endpoint scheme %q", endpoint.Scheme)
	}

	return &Client{
		endpoint:   endpoint,
		http:       &http.Client{Timeout: config.Timeout},
		promptID:   config.PromptID,
		threadID:   config.ThreadID,
		responseID: config.ResponseID,
	}, nil
}

func (c *Client) GetChatURL() string {
	return c.endpoint.String()
}

// SendMessage posts text to the chat endpoint and returns the reply. A body
// without a truthy "response" field yields FallbackReply; transport failures
// and non-JSON bodies are returned as errors.
func (c *Client) SendMessage(ctx context.Context, text string) (string, error) {
	localLogger := logger.NewLogger("api client")

	chatReq := ChatRequest{
		Prompt: Prompt{
			Content: text,
			Role:    RoleUser,
			ID:      c.promptID,
		},
		ThreadID:   c.threadID,
		ResponseID: c.responseID,
	}

	requestData, err := json.Marshal(chatReq)
	if err != nil {
		return "", fmt.Errorf("serialize request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.GetChatURL(), bytes.NewReader(requestData))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	localLogger.Debug("Sending request: ", string(requestData))

	resp, err := c.http.Do(req)
	if err != nil {
		localLogger.Error("Failed to send request: ", err)
		return "", fmt.Errorf("send request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			localLogger.Error("Failed to close response body: ", err)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	localLogger.Debug("Backend response (", resp.Status, "): ", string(body))

	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()
	var data any
	if err := decoder.Decode(&data); err != nil {
		localLogger.Error("Failed to decode response: ", err)
		return "", fmt.Errorf("decode response: %w", err)
	}
	if _, err := decoder.Token(); err != io.EOF {
		localLogger.Error("Trailing data after response body")
		return "", errors.New("decode response: trailing data after JSON value")
	}

	return extractReply(data), nil
}

// extractReply returns the "response" field of a top-level object when it is
// truthy, and FallbackReply otherwise.
func extractReply(data any) string {
	obj, ok := data.(map[string]any)
	if !ok {
		return FallbackReply
	}

	switch v := obj["response"].(type) {
	case nil:
		return FallbackReply
	case string:
		if v == "" {
			return FallbackReply
		}
		return v
	case bool:
		if !v {
			return FallbackReply
		}
		return strconv.FormatBool(v)
	case json.Number:
		if f, err := v.Float64(); err == nil && f == 0 {
			return FallbackReply
		}
		return v.String()
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return FallbackReply
		}
		return string(encoded)
	}
}
