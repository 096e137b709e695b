// package llm wraps the generative text collaborator behind the [Generator] interface.
//
// The concrete client speaks the OpenAI chat-completions protocol. Model
// output is treated as untrusted free text; see parse.go for how replies are
// coerced into song lists.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"moodlist/internal/shared"
)

const (
	defaultBaseURL     = "https://api.openai.com/v1"
	defaultModel       = "gpt-3.5-turbo"
	defaultTemperature = 0.4
	defaultTimeout     = 60 * time.Second

	// Token floor keeps small song counts from truncating the reply.
	minMaxTokens  = 3000
	tokensPerSong = 80
)

// Generator produces free text from a composed instruction.
//
// Implementations are treated as untrusted and non-deterministic.
type Generator interface {
	Complete(ctx context.Context, prompt string, songCount int) (string, error)
}

// Client is an OpenAI-style chat-completions HTTP client.
type Client struct {
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	httpClient  *http.Client
	logger      *log.Logger
}

// NewClient creates a chat-completions client from the given configuration.
//
// Zero-valued fields fall back to defaults; a nil httpClient gets a client
// with the default per-call timeout.
func NewClient(cfg shared.OpenAIConfig, httpClient *http.Client, logger *log.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: OpenAI api_key not configured", shared.ErrMissingCredentials)
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = defaultTemperature
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &Client{
		baseURL:     cfg.BaseURL,
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		httpClient:  httpClient,
		logger:      logger,
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends a single user-role instruction and returns the raw reply text.
func (c *Client) Complete(ctx context.Context, prompt string, songCount int) (string, error) {
	maxTokens := songCount * tokensPerSong
	if maxTokens < minMaxTokens {
		maxTokens = minMaxTokens
	}

	payload := chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: c.temperature,
		MaxTokens:   maxTokens,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Error("completion request failed", "status", resp.StatusCode, "body_length", len(respBody))
		return "", fmt.Errorf("%w: completion API status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	var data chatResponse
	if err := json.Unmarshal(respBody, &data); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(data.Choices) == 0 {
		return "", fmt.Errorf("%w: completion returned no choices", shared.ErrAPIRequest)
	}

	return data.Choices[0].Message.Content, nil
}
