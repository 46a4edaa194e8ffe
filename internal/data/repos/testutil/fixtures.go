package testutil

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/click-backend/internal/domain"
)

func SeedContent(tb testing.TB, ctx context.Context, tx *gorm.DB, text string, meta map[string]any) *types.Content {
	tb.Helper()
	raw := []byte("{}")
	if meta != nil {
		var err error
		if raw, err = json.Marshal(meta); err != nil {
			tb.Fatalf("marshal content metadata: %v", err)
		}
	}
	c := &types.Content{
		ID:                uuid.New(),
		AgencyWorkspaceID: uuid.New(),
		Text:              text,
		Platform:          "twitter",
		Metadata:          datatypes.JSON(raw),
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed content: %v", err)
	}
	return c
}

func SeedTemplate(tb testing.TB, ctx context.Context, tx *gorm.DB, agencyWorkspaceID uuid.UUID, name string) *types.AITemplate {
	tb.Helper()
	t := &types.AITemplate{
		ID:                uuid.New(),
		AgencyWorkspaceID: agencyWorkspaceID,
		Name:              name,
		Prompt:            "Write a post about {{input}}",
		Guardrails:        datatypes.JSONSlice[types.Guardrail]{},
		BrandStyle:        datatypes.NewJSONType(types.BrandStyle{Tone: "friendly"}),
		ContentRules:      datatypes.NewJSONType(types.ContentRules{}),
		PlatformRules:     datatypes.NewJSONType(types.PlatformRules{}),
		Settings:          datatypes.NewJSONType(types.TemplateSettings{Temperature: 0.7, MaxTokens: 500, TopP: 1}),
		IsActive:          true,
	}
	if err := tx.WithContext(ctx).Create(t).Error; err != nil {
		tb.Fatalf("seed template: %v", err)
	}
	return t
}

// SeedScore persists a score with uniform aspect values; derived fields come from the save hook.
func SeedScore(tb testing.TB, ctx context.Context, tx *gorm.DB, contentID uuid.UUID, templateID *uuid.UUID, value, effort int, createdAt time.Time, flags ...types.UncertaintyFlag) *types.ConfidenceScore {
	tb.Helper()
	s := &types.ConfidenceScore{
		ContentID:  contentID,
		TemplateID: templateID,
		AspectConfidence: datatypes.NewJSONType(types.AspectConfidence{
			Tone: value, Humor: value, Sarcasm: value, Sensitivity: value,
			BrandAlignment: value, Clarity: value, Engagement: value,
		}),
		ConfidenceBreakdown: datatypes.NewJSONType(types.ConfidenceBreakdown{
			TextAnalysis: value, ContextAnalysis: value, BrandCompliance: value, PlatformFit: value,
		}),
		UncertaintyFlags: datatypes.JSONSlice[types.UncertaintyFlag](flags),
		EditEffort:       effort,
		CreatedAt:        createdAt,
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed score: %v", err)
	}
	return s
}
