// Package llm talks to the Anthropic Messages API for free-text recommendations.
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/meditrack/meditrack-api/pkg/config"
	pkgerrors "github.com/meditrack/meditrack-api/pkg/errors"
)

const apiVersion = "2023-06-01"

// Completer produces a single text completion.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system,omitempty"`
	Messages  []message `json:"messages"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type messagesResponse struct {
	Content []contentBlock `json:"content"`
}

type apiError struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

type Client struct {
	http      *resty.Client
	model     string
	maxTokens int
	enabled   bool
}

func NewClient(cfg config.LLMConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(timeout).
		SetRetryCount(1).
		SetRetryWaitTime(500 * time.Millisecond).
		SetHeader("x-api-key", cfg.APIKey).
		SetHeader("anthropic-version", apiVersion).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{
		http:      httpClient,
		model:     cfg.Model,
		maxTokens: maxTokens,
		enabled:   cfg.Configured(),
	}
}

func (c *Client) Enabled() bool {
	return c != nil && c.enabled
}

// Complete returns the first text block of the model's reply. An unusable key
// yields SERVICE_NOT_CONFIGURED; transport and API failures yield DEPENDENCY_ERROR.
func (c *Client) Complete(ctx context.Context, system, prompt string) (string, error) {
	if !c.Enabled() {
		return "", pkgerrors.New(pkgerrors.CodeNotConfigured, "AI service is not available")
	}

	var ok messagesResponse
	var failed apiError
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(messagesRequest{
			Model:     c.model,
			MaxTokens: c.maxTokens,
			System:    system,
			Messages:  []message{{Role: "user", Content: prompt}},
		}).
		SetResult(&ok).
		SetError(&failed).
		Post("/v1/messages")
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "calling llm")
	}
	if resp.IsError() {
		return "", pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("llm returned status %d", resp.StatusCode())).
			WithDetails(map[string]any{"upstream": failed.Error.Type})
	}

	for _, block := range ok.Content {
		if block.Type == "text" || block.Type == "" {
			return block.Text, nil
		}
	}
	return "", pkgerrors.New(pkgerrors.CodeDependency, "llm returned no text content")
}
