package templates

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/click-backend/internal/domain"
	"github.com/yungbote/click-backend/internal/modules/compliance"
	"github.com/yungbote/click-backend/internal/modules/confidence"
	"github.com/yungbote/click-backend/internal/platform/apierr"
	"github.com/yungbote/click-backend/internal/platform/dbctx"
	"github.com/yungbote/click-backend/internal/platform/textgen"
)

const DefaultSystemMessage = "You are a professional content writer."

type GenerateOptions struct {
	Platform string `json:"platform,omitempty"`
	Title    string `json:"title,omitempty"`
	// SkipConfidence disables the post-generation confidence analysis.
	SkipConfidence bool `json:"skipConfidence,omitempty"`
}

type TemplateSummary struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Version int       `json:"version"`
}

type GenerateResult struct {
	Content    string                     `json:"content"`
	ContentID  uuid.UUID                  `json:"contentId"`
	Validation compliance.GuardrailResult `json:"validation"`
	Template   TemplateSummary            `json:"template"`
	Confidence *types.ConfidenceScore     `json:"confidence,omitempty"`
}

// Generate renders the template prompt, calls the generator, validates the
// output against the template guardrails, records usage and stores the
// content. Confidence analysis afterwards is best effort.
func (s *Service) Generate(ctx context.Context, templateID uuid.UUID, input string, opts GenerateOptions) (*GenerateResult, error) {
	if s.deps.Generator == nil {
		return nil, apierr.Unavailable("generator_not_configured", ErrGeneratorNotConfigured)
	}
	if strings.TrimSpace(input) == "" {
		return nil, apierr.BadRequest("missing_input", errors.New("input required"))
	}
	tmpl, err := s.Get(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if !tmpl.IsActive {
		return nil, apierr.Conflict("template_inactive", errors.New("template is inactive"))
	}

	prompt := BuildPrompt(tmpl, input, PromptOptions{Platform: opts.Platform})
	settings := tmpl.Settings.Data()
	system := tmpl.SystemMessage
	if strings.TrimSpace(system) == "" {
		system = DefaultSystemMessage
	}

	text, err := s.deps.Generator.GenerateText(ctx, textgen.Request{
		System:           system,
		Prompt:           prompt,
		Temperature:      textgen.Float(settings.Temperature),
		MaxTokens:        settings.MaxTokens,
		TopP:             textgen.Float(settings.TopP),
		FrequencyPenalty: textgen.Float(settings.FrequencyPenalty),
		PresencePenalty:  textgen.Float(settings.PresencePenalty),
	})
	if err != nil {
		s.deps.Metrics.IncGeneration("error")
		s.log.Error("Error generating content with template", "template_id", templateID, "error", err)
		return nil, apierr.New(http.StatusBadGateway, "generation_failed", err)
	}
	text = strings.TrimSpace(text)

	validation := compliance.ValidateGuardrails(text, tmpl.GuardrailList())

	meta, err := json.Marshal(map[string]any{
		types.MetaTemplateID:      tmpl.ID.String(),
		types.MetaTemplateVersion: tmpl.CurrentVersion,
		types.MetaGeneratedBy:     s.deps.Generator.Name(),
	})
	if err != nil {
		return nil, apierr.Internal("encode_metadata_failed", err)
	}
	item := &types.Content{
		AgencyWorkspaceID: tmpl.AgencyWorkspaceID,
		ClientWorkspaceID: tmpl.ClientWorkspaceID,
		Title:             opts.Title,
		Text:              text,
		Platform:          opts.Platform,
		Metadata:          datatypes.JSON(meta),
	}

	now := time.Now().UTC()
	err = s.deps.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if err := s.deps.Templates.IncrementUsage(dbc, tmpl.ID, now); err != nil {
			return err
		}
		_, err := s.deps.Contents.Create(dbc, item)
		return err
	})
	if err != nil {
		s.deps.Metrics.IncGeneration("error")
		return nil, apierr.Internal("persist_generation_failed", err)
	}
	s.invalidate(ctx, tmpl.ID)
	s.deps.Metrics.IncGeneration("ok")

	out := &GenerateResult{
		Content:    text,
		ContentID:  item.ID,
		Validation: validation,
		Template:   TemplateSummary{ID: tmpl.ID, Name: tmpl.Name, Version: tmpl.CurrentVersion},
	}

	if !opts.SkipConfidence && s.deps.Confidence != nil && s.deps.Confidence.Configured() {
		tid := tmpl.ID
		score, err := s.deps.Confidence.AnalyzeContentConfidence(ctx, item.ID, confidence.Text(text), confidence.Context{
			Platform:        opts.Platform,
			BrandGuidelines: brandGuidelines(tmpl),
			TemplateID:      &tid,
		})
		if err != nil {
			s.log.Warn("Confidence analysis after generation failed", "template_id", tmpl.ID, "content_id", item.ID, "error", err)
		} else {
			out.Confidence = score
		}
	}

	// New usage and any new score change the all-time aggregate.
	s.invalidatePerformance(ctx, tmpl.ID)

	s.log.Info("Content generated with template",
		"template_id", tmpl.ID,
		"content_id", item.ID,
		"guardrails_valid", validation.IsValid,
	)
	return out, nil
}

func brandGuidelines(tmpl *types.AITemplate) map[string]any {
	raw, err := json.Marshal(tmpl.BrandStyle.Data())
	if err != nil {
		return nil
	}
	out := map[string]any{}
	if err := json.Unmarshal(raw, &out); err != nil || len(out) == 0 {
		return nil
	}
	return out
}

// PreviewPrompt renders the prompt without calling the generator.
func (s *Service) PreviewPrompt(ctx context.Context, templateID uuid.UUID, input string, opts PromptOptions) (string, error) {
	tmpl, err := s.Get(ctx, templateID)
	if err != nil {
		return "", err
	}
	return BuildPrompt(tmpl, input, opts), nil
}
