package confidence

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ErrScoreImmutable is returned when an existing score row is written again.
var ErrScoreImmutable = errors.New("confidence score is append-only")

const DefaultModel = "gpt-4"

type FlagType string

const (
	FlagHumorDetected     FlagType = "humor_detected"
	FlagSarcasmDetected   FlagType = "sarcasm_detected"
	FlagSensitiveTopic    FlagType = "sensitive_topic"
	FlagAmbiguousTone     FlagType = "ambiguous_tone"
	FlagBrandMismatch     FlagType = "brand_mismatch"
	FlagLowClarity        FlagType = "low_clarity"
	FlagComplexLanguage   FlagType = "complex_language"
	FlagCulturalReference FlagType = "cultural_reference"
	FlagFactualClaim      FlagType = "factual_claim"
	FlagPlatformMismatch  FlagType = "platform_mismatch"
)

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

func (s Severity) IsHighPriority() bool { return s == SeverityHigh || s == SeverityCritical }

type UncertaintyFlag struct {
	Type       FlagType `json:"type"`
	Severity   Severity `json:"severity"`
	Message    string   `json:"message"`
	Suggestion string   `json:"suggestion"`
}

type AspectConfidence struct {
	Tone           int `json:"tone"`
	Humor          int `json:"humor"`
	Sarcasm        int `json:"sarcasm"`
	Sensitivity    int `json:"sensitivity"`
	BrandAlignment int `json:"brandAlignment"`
	Clarity        int `json:"clarity"`
	Engagement     int `json:"engagement"`
}

func (a AspectConfidence) Values() []int {
	return []int{a.Tone, a.Humor, a.Sarcasm, a.Sensitivity, a.BrandAlignment, a.Clarity, a.Engagement}
}

func (a AspectConfidence) Clamped() AspectConfidence {
	return AspectConfidence{
		Tone:           Clamp(a.Tone),
		Humor:          Clamp(a.Humor),
		Sarcasm:        Clamp(a.Sarcasm),
		Sensitivity:    Clamp(a.Sensitivity),
		BrandAlignment: Clamp(a.BrandAlignment),
		Clarity:        Clamp(a.Clarity),
		Engagement:     Clamp(a.Engagement),
	}
}

type ConfidenceBreakdown struct {
	TextAnalysis    int `json:"textAnalysis"`
	ContextAnalysis int `json:"contextAnalysis"`
	BrandCompliance int `json:"brandCompliance"`
	PlatformFit     int `json:"platformFit"`
}

func (b ConfidenceBreakdown) Values() []int {
	return []int{b.TextAnalysis, b.ContextAnalysis, b.BrandCompliance, b.PlatformFit}
}

func (b ConfidenceBreakdown) Clamped() ConfidenceBreakdown {
	return ConfidenceBreakdown{
		TextAnalysis:    Clamp(b.TextAnalysis),
		ContextAnalysis: Clamp(b.ContextAnalysis),
		BrandCompliance: Clamp(b.BrandCompliance),
		PlatformFit:     Clamp(b.PlatformFit),
	}
}

type AnalysisMetadata struct {
	DetectedTopics     []string `json:"detectedTopics"`
	DetectedSentiment  string   `json:"detectedSentiment"`
	LanguageComplexity string   `json:"languageComplexity"`
	ReadingLevel       string   `json:"readingLevel"`
}

// ConfidenceScore is one analysis run for a content item. Rows are never updated.
type ConfidenceScore struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ContentID uuid.UUID  `gorm:"type:uuid;not null;index:idx_confidence_score_content,priority:1" json:"contentId"`
	PostID    *uuid.UUID `gorm:"type:uuid;index" json:"postId,omitempty"`
	// TemplateID is copied from the content's metadata so analytics can filter without a join.
	TemplateID *uuid.UUID `gorm:"type:uuid;index" json:"templateId,omitempty"`

	OverallConfidence   int                                     `gorm:"not null" json:"overallConfidence"`
	AspectConfidence    datatypes.JSONType[AspectConfidence]    `json:"aspectConfidence"`
	ConfidenceBreakdown datatypes.JSONType[ConfidenceBreakdown] `json:"confidenceBreakdown"`
	UncertaintyFlags    datatypes.JSONSlice[UncertaintyFlag]    `json:"uncertaintyFlags"`
	EditEffort          int                                     `gorm:"not null" json:"editEffort"`
	NeedsHumanReview    bool                                    `gorm:"not null;index" json:"needsHumanReview"`
	ReviewReason        string                                  `gorm:"type:text" json:"reviewReason,omitempty"`
	AnalysisMetadata    datatypes.JSONType[AnalysisMetadata]    `json:"analysisMetadata"`
	Model               string                                  `gorm:"not null" json:"model"`
	AnalysisFallback    bool                                    `gorm:"not null" json:"analysisFallback"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index:idx_confidence_score_content,priority:2" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}

func (ConfidenceScore) TableName() string { return "confidence_score" }

func (s *ConfidenceScore) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// BeforeSave recomputes every derived field so stored rows always satisfy
// the review invariant regardless of what the caller set.
func (s *ConfidenceScore) BeforeSave(tx *gorm.DB) error {
	s.Normalize()
	return nil
}

func (s *ConfidenceScore) BeforeUpdate(tx *gorm.DB) error {
	return ErrScoreImmutable
}

// Normalize clamps inputs and derives OverallConfidence, NeedsHumanReview and ReviewReason.
func (s *ConfidenceScore) Normalize() {
	aspects := s.AspectConfidence.Data().Clamped()
	breakdown := s.ConfidenceBreakdown.Data().Clamped()
	s.AspectConfidence = datatypes.NewJSONType(aspects)
	s.ConfidenceBreakdown = datatypes.NewJSONType(breakdown)
	if s.UncertaintyFlags == nil {
		s.UncertaintyFlags = datatypes.JSONSlice[UncertaintyFlag]{}
	}
	meta := s.AnalysisMetadata.Data()
	if meta.DetectedTopics == nil {
		meta.DetectedTopics = []string{}
		s.AnalysisMetadata = datatypes.NewJSONType(meta)
	}
	s.EditEffort = Clamp(s.EditEffort)
	if s.Model == "" {
		s.Model = DefaultModel
	}

	flags := []UncertaintyFlag(s.UncertaintyFlags)
	s.OverallConfidence = OverallConfidence(aspects, breakdown)
	s.NeedsHumanReview = NeedsHumanReview(s.OverallConfidence, s.EditEffort, flags)
	if s.NeedsHumanReview {
		s.ReviewReason = ReviewReason(flags, s.OverallConfidence)
	} else {
		s.ReviewReason = ""
	}
}

func (s *ConfidenceScore) Flags() []UncertaintyFlag { return []UncertaintyFlag(s.UncertaintyFlags) }
