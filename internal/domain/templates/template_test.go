package templates

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func validTemplate() *AITemplate {
	return &AITemplate{
		AgencyWorkspaceID: uuid.New(),
		Name:              "Launch post",
		Prompt:            "Write about {{input}}",
		Settings:          datatypes.NewJSONType(DefaultSettings()),
	}
}

func TestValidateDefaultsGuardrailSeverity(t *testing.T) {
	tpl := validTemplate()
	tpl.Guardrails = datatypes.JSONSlice[Guardrail]{{Type: GuardrailAvoidPhrase, Value: "trust me"}}
	require.NoError(t, tpl.Validate())
	assert.Equal(t, SeverityWarning, tpl.Guardrails[0].Severity)
}

func TestValidateRejectsBadConfig(t *testing.T) {
	cases := map[string]func(*AITemplate){
		"missing name":     func(t *AITemplate) { t.Name = "" },
		"missing prompt":   func(t *AITemplate) { t.Prompt = "" },
		"missing agency":   func(t *AITemplate) { t.AgencyWorkspaceID = uuid.Nil },
		"unknown guardrail": func(t *AITemplate) {
			t.Guardrails = datatypes.JSONSlice[Guardrail]{{Type: "shout", Value: "x"}}
		},
		"unknown severity": func(t *AITemplate) {
			t.Guardrails = datatypes.JSONSlice[Guardrail]{{Type: GuardrailAvoidPhrase, Value: "x", Severity: "fatal"}}
		},
		"unknown tone":      func(t *AITemplate) { t.BrandStyle = datatypes.NewJSONType(BrandStyle{Tone: "snarky"}) },
		"bad placement":     func(t *AITemplate) { t.ContentRules = datatypes.NewJSONType(ContentRules{CTAPlacement: "footer"}) },
		"min over max":      func(t *AITemplate) { t.ContentRules = datatypes.NewJSONType(ContentRules{MinLength: 10, MaxLength: 5}) },
		"temperature high":  func(t *AITemplate) { s := DefaultSettings(); s.Temperature = 2.5; t.Settings = datatypes.NewJSONType(s) },
		"max tokens zero":   func(t *AITemplate) { s := DefaultSettings(); s.MaxTokens = 0; t.Settings = datatypes.NewJSONType(s) },
		"max tokens high":   func(t *AITemplate) { s := DefaultSettings(); s.MaxTokens = 4001; t.Settings = datatypes.NewJSONType(s) },
		"topP high":         func(t *AITemplate) { s := DefaultSettings(); s.TopP = 1.1; t.Settings = datatypes.NewJSONType(s) },
		"frequency penalty": func(t *AITemplate) { s := DefaultSettings(); s.FrequencyPenalty = -3; t.Settings = datatypes.NewJSONType(s) },
		"presence penalty":  func(t *AITemplate) { s := DefaultSettings(); s.PresencePenalty = 2.1; t.Settings = datatypes.NewJSONType(s) },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			tpl := validTemplate()
			mutate(tpl)
			assert.Error(t, tpl.Validate())
		})
	}
}

func TestSeverityErrorClass(t *testing.T) {
	assert.False(t, SeverityWarning.IsErrorClass())
	assert.True(t, SeverityError.IsErrorClass())
	assert.True(t, SeverityBlock.IsErrorClass())
}
