package templates

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type GuardrailType string

const (
	GuardrailAvoidPhrase           GuardrailType = "avoid_phrase"
	GuardrailRequirePhrase         GuardrailType = "require_phrase"
	GuardrailToneRequirement       GuardrailType = "tone_requirement"
	GuardrailLengthRequirement     GuardrailType = "length_requirement"
	GuardrailHashtagRequirement    GuardrailType = "hashtag_requirement"
	GuardrailCTARequirement        GuardrailType = "cta_requirement"
	GuardrailBrandVoice            GuardrailType = "brand_voice"
	GuardrailStyleRequirement      GuardrailType = "style_requirement"
	GuardrailComplianceRequirement GuardrailType = "compliance_requirement"
)

var guardrailTypes = map[GuardrailType]bool{
	GuardrailAvoidPhrase:           true,
	GuardrailRequirePhrase:         true,
	GuardrailToneRequirement:       true,
	GuardrailLengthRequirement:     true,
	GuardrailHashtagRequirement:    true,
	GuardrailCTARequirement:        true,
	GuardrailBrandVoice:            true,
	GuardrailStyleRequirement:      true,
	GuardrailComplianceRequirement: true,
}

type GuardrailSeverity string

const (
	SeverityWarning GuardrailSeverity = "warning"
	SeverityError   GuardrailSeverity = "error"
	SeverityBlock   GuardrailSeverity = "block"
)

// IsErrorClass reports whether the severity invalidates content.
func (s GuardrailSeverity) IsErrorClass() bool { return s == SeverityError || s == SeverityBlock }

type Guardrail struct {
	Type        GuardrailType     `json:"type"`
	Value       string            `json:"value"`
	Description string            `json:"description,omitempty"`
	Severity    GuardrailSeverity `json:"severity"`
}

func (g *Guardrail) Validate() error {
	if !guardrailTypes[g.Type] {
		return fmt.Errorf("unknown guardrail type %q", g.Type)
	}
	switch g.Severity {
	case "":
		g.Severity = SeverityWarning
	case SeverityWarning, SeverityError, SeverityBlock:
	default:
		return fmt.Errorf("unknown guardrail severity %q", g.Severity)
	}
	return nil
}

var BrandTones = []string{"professional", "casual", "friendly", "formal", "humorous", "inspirational", "authoritative"}

type BrandStyle struct {
	Tone          string   `json:"tone,omitempty"`
	Voice         string   `json:"voice,omitempty"`
	DoUse         []string `json:"doUse,omitempty"`
	DontUse       []string `json:"dontUse,omitempty"`
	AlwaysInclude []string `json:"alwaysInclude,omitempty"`
	NeverInclude  []string `json:"neverInclude,omitempty"`
	CTAStyle      string   `json:"ctaStyle,omitempty"`
	HashtagStyle  string   `json:"hashtagStyle,omitempty"`
}

func (b BrandStyle) Validate() error {
	if b.Tone == "" {
		return nil
	}
	for _, t := range BrandTones {
		if b.Tone == t {
			return nil
		}
	}
	return fmt.Errorf("unknown brand tone %q", b.Tone)
}

const (
	CTABeginning = "beginning"
	CTAMiddle    = "middle"
	CTAEnd       = "end"
	CTAAnywhere  = "anywhere"
)

type ContentRules struct {
	MinLength       int    `json:"minLength,omitempty"`
	MaxLength       int    `json:"maxLength,omitempty"`
	RequireHashtags bool   `json:"requireHashtags,omitempty"`
	MinHashtags     int    `json:"minHashtags,omitempty"`
	MaxHashtags     int    `json:"maxHashtags,omitempty"`
	RequireCTA      bool   `json:"requireCTA,omitempty"`
	CTAPlacement    string `json:"ctaPlacement,omitempty"`
}

func (r ContentRules) Validate() error {
	if r.MinLength < 0 || r.MaxLength < 0 || r.MinHashtags < 0 || r.MaxHashtags < 0 {
		return fmt.Errorf("content rule counts must be non-negative")
	}
	if r.MaxLength > 0 && r.MinLength > r.MaxLength {
		return fmt.Errorf("minLength %d exceeds maxLength %d", r.MinLength, r.MaxLength)
	}
	switch r.CTAPlacement {
	case "", CTABeginning, CTAMiddle, CTAEnd, CTAAnywhere:
		return nil
	default:
		return fmt.Errorf("unknown ctaPlacement %q", r.CTAPlacement)
	}
}

type Settings struct {
	Temperature      float64 `json:"temperature"`
	MaxTokens        int     `json:"maxTokens"`
	TopP             float64 `json:"topP"`
	FrequencyPenalty float64 `json:"frequencyPenalty"`
	PresencePenalty  float64 `json:"presencePenalty"`
}

func DefaultSettings() Settings {
	return Settings{Temperature: 0.7, MaxTokens: 500, TopP: 1}
}

func (s Settings) Validate() error {
	switch {
	case s.Temperature < 0 || s.Temperature > 2:
		return fmt.Errorf("temperature must be within [0,2]")
	case s.MaxTokens < 1 || s.MaxTokens > 4000:
		return fmt.Errorf("maxTokens must be within [1,4000]")
	case s.TopP < 0 || s.TopP > 1:
		return fmt.Errorf("topP must be within [0,1]")
	case s.FrequencyPenalty < -2 || s.FrequencyPenalty > 2:
		return fmt.Errorf("frequencyPenalty must be within [-2,2]")
	case s.PresencePenalty < -2 || s.PresencePenalty > 2:
		return fmt.Errorf("presencePenalty must be within [-2,2]")
	}
	return nil
}

type PlatformRules map[string]map[string]any

type AITemplate struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	AgencyWorkspaceID uuid.UUID  `gorm:"type:uuid;not null;index" json:"agencyWorkspaceId"`
	ClientWorkspaceID *uuid.UUID `gorm:"type:uuid;index" json:"clientWorkspaceId,omitempty"`

	Name          string `gorm:"not null" json:"name"`
	Description   string `gorm:"type:text" json:"description,omitempty"`
	Prompt        string `gorm:"type:text;not null" json:"prompt"`
	SystemMessage string `gorm:"type:text" json:"systemMessage,omitempty"`

	Guardrails    datatypes.JSONSlice[Guardrail]    `json:"guardrails"`
	BrandStyle    datatypes.JSONType[BrandStyle]    `json:"brandStyle"`
	ContentRules  datatypes.JSONType[ContentRules]  `json:"contentRules"`
	PlatformRules datatypes.JSONType[PlatformRules] `json:"platformRules"`
	Settings      datatypes.JSONType[Settings]      `json:"settings"`

	UsageCount     int        `gorm:"not null;default:0" json:"usageCount"`
	LastUsed       *time.Time `json:"lastUsed,omitempty"`
	IsActive       bool       `gorm:"not null;index" json:"isActive"`
	IsDefault      bool       `gorm:"not null" json:"isDefault"`
	CurrentVersion int        `gorm:"not null;default:0" json:"currentVersion"`
	CreatedBy      *uuid.UUID `gorm:"type:uuid" json:"createdBy,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}

func (AITemplate) TableName() string { return "ai_template" }

func (t *AITemplate) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

func (t *AITemplate) GuardrailList() []Guardrail { return []Guardrail(t.Guardrails) }

// Validate checks every nested section and fills guardrail severity defaults.
func (t *AITemplate) Validate() error {
	if t.AgencyWorkspaceID == uuid.Nil {
		return fmt.Errorf("agencyWorkspaceId required")
	}
	if t.Name == "" {
		return fmt.Errorf("name required")
	}
	if t.Prompt == "" {
		return fmt.Errorf("prompt required")
	}
	for i := range t.Guardrails {
		if err := t.Guardrails[i].Validate(); err != nil {
			return fmt.Errorf("guardrails[%d]: %w", i, err)
		}
	}
	if err := t.BrandStyle.Data().Validate(); err != nil {
		return fmt.Errorf("brandStyle: %w", err)
	}
	if err := t.ContentRules.Data().Validate(); err != nil {
		return fmt.Errorf("contentRules: %w", err)
	}
	if err := t.Settings.Data().Validate(); err != nil {
		return fmt.Errorf("settings: %w", err)
	}
	return nil
}
