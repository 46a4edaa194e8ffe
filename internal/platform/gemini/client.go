package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/yungbote/click-backend/internal/platform/envutil"
	"github.com/yungbote/click-backend/internal/platform/logger"
	"github.com/yungbote/click-backend/internal/platform/promptstyle"
	"github.com/yungbote/click-backend/internal/platform/textgen"
)

type Config struct {
	APIKey string
	Model  string
}

func ConfigFromEnv(log *logger.Logger) Config {
	return Config{
		APIKey: envutil.String("GOOGLE_AI_API_KEY", "", log),
		Model:  envutil.String("GEMINI_MODEL", "gemini-2.0-flash", log),
	}
}

type client struct {
	log   *logger.Logger
	genai *genai.Client
	model string
}

func NewClient(ctx context.Context, log *logger.Logger) (textgen.Generator, error) {
	return NewClientWithConfig(ctx, log, ConfigFromEnv(log))
}

func NewClientWithConfig(ctx context.Context, log *logger.Logger, cfg Config) (textgen.Generator, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("missing GOOGLE_AI_API_KEY: %w", textgen.ErrNotConfigured)
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = "gemini-2.0-flash"
	}
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  strings.TrimSpace(cfg.APIKey),
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &client{
		log:   log.With("service", "GeminiClient"),
		genai: gc,
		model: model,
	}, nil
}

func (c *client) Name() string { return c.model }

func (c *client) GenerateText(ctx context.Context, req textgen.Request) (string, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return "", fmt.Errorf("prompt required")
	}
	mode := "text"
	if req.JSON {
		mode = "json"
	}

	cfg := &genai.GenerateContentConfig{}
	if system := promptstyle.ApplySystem(req.System, mode); system != "" {
		cfg.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}
	if req.Temperature != nil {
		cfg.Temperature = genai.Ptr(float32(*req.Temperature))
	}
	if req.TopP != nil {
		cfg.TopP = genai.Ptr(float32(*req.TopP))
	}
	if req.FrequencyPenalty != nil {
		cfg.FrequencyPenalty = genai.Ptr(float32(*req.FrequencyPenalty))
	}
	if req.PresencePenalty != nil {
		cfg.PresencePenalty = genai.Ptr(float32(*req.PresencePenalty))
	}
	if req.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(req.MaxTokens)
	}
	if req.JSON {
		cfg.ResponseMIMEType = "application/json"
	}

	contents := []*genai.Content{genai.NewContentFromText(req.Prompt, genai.RoleUser)}
	resp, err := c.genai.Models.GenerateContent(ctx, c.model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("GenAI generate failed: %w", err)
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("GenAI returned empty text")
	}
	return text, nil
}
