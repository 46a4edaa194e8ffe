package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/yungbote/click-backend/internal/platform/envutil"
	"github.com/yungbote/click-backend/internal/platform/httpx"
	"github.com/yungbote/click-backend/internal/platform/logger"
	"github.com/yungbote/click-backend/internal/platform/promptstyle"
	"github.com/yungbote/click-backend/internal/platform/textgen"
)

type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	MaxRetries int

	// InitialBackoff is the first retry delay; doubled per attempt up to 10s.
	InitialBackoff time.Duration
}

func ConfigFromEnv(log *logger.Logger) Config {
	return Config{
		APIKey:         envutil.String("OPENAI_API_KEY", "", log),
		BaseURL:        envutil.String("OPENAI_BASE_URL", "https://api.openai.com", log),
		Model:          envutil.String("OPENAI_MODEL", "gpt-4", log),
		Timeout:        envutil.Seconds("OPENAI_TIMEOUT_SECONDS", 120*time.Second, log),
		MaxRetries:     envutil.Int("OPENAI_MAX_RETRIES", 3, log),
		InitialBackoff: time.Second,
	}
}

type client struct {
	log            *logger.Logger
	baseURL        string
	apiKey         string
	model          string
	httpClient     *http.Client
	maxRetries     int
	initialBackoff time.Duration
}

// NewClient reads OPENAI_* from the environment.
func NewClient(log *logger.Logger) (textgen.Generator, error) {
	return NewClientWithConfig(log, ConfigFromEnv(log))
}

func NewClientWithConfig(log *logger.Logger, cfg Config) (textgen.Generator, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("missing OPENAI_API_KEY: %w", textgen.ErrNotConfigured)
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com"
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = "gpt-4"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = time.Second
	}
	return &client{
		log:            log.With("service", "OpenAIClient"),
		baseURL:        baseURL,
		apiKey:         strings.TrimSpace(cfg.APIKey),
		model:          model,
		httpClient:     &http.Client{Timeout: timeout},
		maxRetries:     cfg.MaxRetries,
		initialBackoff: cfg.InitialBackoff,
	}, nil
}

func (c *client) Name() string { return c.model }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model            string            `json:"model"`
	Messages         []chatMessage     `json:"messages"`
	Temperature      *float64          `json:"temperature,omitempty"`
	MaxTokens        int               `json:"max_tokens,omitempty"`
	TopP             *float64          `json:"top_p,omitempty"`
	FrequencyPenalty *float64          `json:"frequency_penalty,omitempty"`
	PresencePenalty  *float64          `json:"presence_penalty,omitempty"`
	ResponseFormat   map[string]string `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
			Refusal string `json:"refusal,omitempty"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

func (c *client) GenerateText(ctx context.Context, req textgen.Request) (string, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return "", errors.New("prompt required")
	}
	mode := "text"
	if req.JSON {
		mode = "json"
	}
	body := chatRequest{
		Model:            c.model,
		Temperature:      req.Temperature,
		MaxTokens:        req.MaxTokens,
		TopP:             req.TopP,
		FrequencyPenalty: req.FrequencyPenalty,
		PresencePenalty:  req.PresencePenalty,
	}
	if system := promptstyle.ApplySystem(req.System, mode); system != "" {
		body.Messages = append(body.Messages, chatMessage{Role: "system", Content: system})
	}
	body.Messages = append(body.Messages, chatMessage{Role: "user", Content: req.Prompt})
	if req.JSON {
		body.ResponseFormat = map[string]string{"type": "json_object"}
	}

	var resp chatResponse
	err := c.post(ctx, "/v1/chat/completions", &body, &resp)
	if err != nil && body.Temperature != nil && isUnsupportedTemperature(err) {
		c.log.Warn("Model rejected temperature; retrying without it", "model", c.model)
		body.Temperature = nil
		err = c.post(ctx, "/v1/chat/completions", &body, &resp)
	}
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: no choices in response")
	}
	msg := resp.Choices[0].Message
	if msg.Refusal != "" {
		return "", fmt.Errorf("model refused: %s", msg.Refusal)
	}
	if strings.TrimSpace(msg.Content) == "" {
		return "", fmt.Errorf("openai: empty completion")
	}
	return msg.Content, nil
}

func (c *client) post(ctx context.Context, path string, body any, out any) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.initialBackoff
	b.MaxInterval = 10 * time.Second
	b.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(c.maxRetries)), ctx)

	attempt := 0
	op := func() error {
		attempt++
		err := c.doOnce(ctx, path, body, out)
		if err == nil {
			return nil
		}
		if !httpx.IsRetryableError(err) {
			return backoff.Permanent(err)
		}
		var se *httpx.StatusError
		if errors.As(err, &se) && se.RetryAfter > 0 {
			select {
			case <-ctx.Done():
				return backoff.Permanent(ctx.Err())
			case <-time.After(se.RetryAfter):
			}
		}
		return err
	}
	notify := func(err error, next time.Duration) {
		c.log.Warn("OpenAI request retrying",
			"path", path,
			"attempt", attempt,
			"max_retries", c.maxRetries,
			"sleep", next.String(),
			"error", err.Error(),
		)
	}
	return backoff.RetryNotify(op, policy, notify)
}

func (c *client) doOnce(ctx context.Context, path string, body any, out any) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return readErr
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &httpx.StatusError{
			StatusCode: resp.StatusCode,
			Body:       string(raw),
			RetryAfter: httpx.RetryAfter(resp, 10*time.Second),
		}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("openai decode error: %w", err)
	}
	return nil
}

func isUnsupportedTemperature(err error) bool {
	var se *httpx.StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusBadRequest {
		return false
	}
	msg := strings.ToLower(se.Body)
	if !strings.Contains(msg, "temperature") {
		return false
	}
	for _, needle := range []string{"unsupported", "unknown parameter", "not supported", "does not support", "only the default"} {
		if strings.Contains(msg, needle) {
			return true
		}
	}
	return false
}
