package templates

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"

	types "github.com/yungbote/click-backend/internal/domain"
)

func promptTemplate() *types.AITemplate {
	return &types.AITemplate{
		ID:     uuid.New(),
		Name:   "Launch",
		Prompt: "Write about {{input}} for {{input}} fans",
		BrandStyle: datatypes.NewJSONType(types.BrandStyle{
			Tone:         "friendly",
			Voice:        "warm",
			DoUse:        []string{"fresh", "bold"},
			DontUse:      []string{"cheap"},
			NeverInclude: []string{"competitor"},
		}),
		ContentRules: datatypes.NewJSONType(types.ContentRules{
			MinLength:       10,
			MaxLength:       200,
			RequireCTA:      true,
			RequireHashtags: true,
			MinHashtags:     2,
		}),
		PlatformRules: datatypes.NewJSONType(types.PlatformRules{
			"twitter": {"maxLength": 280},
		}),
		Guardrails: datatypes.JSONSlice[types.Guardrail]{
			{Type: types.GuardrailAvoidPhrase, Value: "trust me"},
			{Type: types.GuardrailBrandVoice, Value: "ignored in prompt"},
			{Type: types.GuardrailRequirePhrase, Value: "#ad"},
		},
	}
}

func TestBuildPromptSectionOrder(t *testing.T) {
	got := BuildPrompt(promptTemplate(), "shoes", PromptOptions{Platform: "twitter"})
	want := "Write about shoes for shoes fans" +
		"\n\nTone: friendly" +
		"\n\nBrand Voice: warm" +
		"\n\nUse these phrases/words: fresh, bold" +
		"\n\nAvoid these phrases/words: cheap" +
		"\n\nNever include: competitor" +
		"\n\nMinimum length: 10 characters" +
		"\n\nMaximum length: 200 characters" +
		"\n\nInclude a call-to-action (CTA) at the end" +
		"\n\nInclude 2-5 hashtags" +
		"\n\nPlatform-specific rules for twitter: {\"maxLength\":280}" +
		"\n\nGuardrails:\n- DO NOT use: \"trust me\"\n- MUST include: \"#ad\""
	assert.Equal(t, want, got)
}

func TestBuildPromptSkipsUnknownPlatformAndEmptySections(t *testing.T) {
	tmpl := &types.AITemplate{
		Prompt: "Post about {{input}}",
		ContentRules: datatypes.NewJSONType(types.ContentRules{
			RequireCTA:      true,
			CTAPlacement:    types.CTABeginning,
			RequireHashtags: true,
		}),
		PlatformRules: datatypes.NewJSONType(types.PlatformRules{"twitter": {"maxLength": 280}}),
		Guardrails: datatypes.JSONSlice[types.Guardrail]{
			{Type: types.GuardrailLengthRequirement, Value: "short"},
		},
	}
	got := BuildPrompt(tmpl, "tea", PromptOptions{Platform: "linkedin"})
	assert.Equal(t, "Post about tea\n\nInclude a call-to-action (CTA) at the beginning\n\nInclude 3-5 hashtags", got)
	assert.NotContains(t, got, "Guardrails:")
}

func TestBuildPromptToneAndCTADirectives(t *testing.T) {
	tmpl := &types.AITemplate{
		Prompt: "{{input}}",
		Guardrails: datatypes.JSONSlice[types.Guardrail]{
			{Type: types.GuardrailToneRequirement, Value: "upbeat"},
			{Type: types.GuardrailCTARequirement, Value: "link in bio"},
		},
	}
	got := BuildPrompt(tmpl, "x", PromptOptions{})
	assert.Equal(t, "x\n\nGuardrails:\n- Tone must be: upbeat\n- CTA requirement: link in bio", got)
}

func TestBuildPromptNilTemplate(t *testing.T) {
	assert.Equal(t, "raw", BuildPrompt(nil, "raw", PromptOptions{}))
}
