package domain

import (
	"github.com/yungbote/click-backend/internal/domain/confidence"
	"github.com/yungbote/click-backend/internal/domain/content"
	"github.com/yungbote/click-backend/internal/domain/templates"
)

type (
	ConfidenceScore     = confidence.ConfidenceScore
	AspectConfidence    = confidence.AspectConfidence
	ConfidenceBreakdown = confidence.ConfidenceBreakdown
	AnalysisMetadata    = confidence.AnalysisMetadata
	UncertaintyFlag     = confidence.UncertaintyFlag
	FlagType            = confidence.FlagType
	FlagSeverity        = confidence.Severity

	AITemplate         = templates.AITemplate
	AITemplateVersion  = templates.AITemplateVersion
	Guardrail          = templates.Guardrail
	GuardrailType      = templates.GuardrailType
	GuardrailSeverity  = templates.GuardrailSeverity
	BrandStyle         = templates.BrandStyle
	ContentRules       = templates.ContentRules
	PlatformRules      = templates.PlatformRules
	TemplateSettings   = templates.Settings
	VersionPerformance = templates.VersionPerformance

	Content     = content.Content
	TemplateRef = content.TemplateRef
)

const (
	FlagHumorDetected     = confidence.FlagHumorDetected
	FlagSarcasmDetected   = confidence.FlagSarcasmDetected
	FlagSensitiveTopic    = confidence.FlagSensitiveTopic
	FlagAmbiguousTone     = confidence.FlagAmbiguousTone
	FlagBrandMismatch     = confidence.FlagBrandMismatch
	FlagLowClarity        = confidence.FlagLowClarity
	FlagComplexLanguage   = confidence.FlagComplexLanguage
	FlagCulturalReference = confidence.FlagCulturalReference
	FlagFactualClaim      = confidence.FlagFactualClaim
	FlagPlatformMismatch  = confidence.FlagPlatformMismatch

	FlagSeverityLow      = confidence.SeverityLow
	FlagSeverityMedium   = confidence.SeverityMedium
	FlagSeverityHigh     = confidence.SeverityHigh
	FlagSeverityCritical = confidence.SeverityCritical

	GuardrailAvoidPhrase           = templates.GuardrailAvoidPhrase
	GuardrailRequirePhrase         = templates.GuardrailRequirePhrase
	GuardrailToneRequirement       = templates.GuardrailToneRequirement
	GuardrailLengthRequirement     = templates.GuardrailLengthRequirement
	GuardrailHashtagRequirement    = templates.GuardrailHashtagRequirement
	GuardrailCTARequirement        = templates.GuardrailCTARequirement
	GuardrailBrandVoice            = templates.GuardrailBrandVoice
	GuardrailStyleRequirement      = templates.GuardrailStyleRequirement
	GuardrailComplianceRequirement = templates.GuardrailComplianceRequirement

	CTABeginning = templates.CTABeginning
	CTAMiddle    = templates.CTAMiddle
	CTAEnd       = templates.CTAEnd
	CTAAnywhere  = templates.CTAAnywhere

	SeverityWarning = templates.SeverityWarning
	SeverityError   = templates.SeverityError
	SeverityBlock   = templates.SeverityBlock

	MetaTemplateID      = content.MetaTemplateID
	MetaTemplateVersion = content.MetaTemplateVersion
	MetaGeneratedBy     = content.MetaGeneratedBy
)

var ErrScoreImmutable = confidence.ErrScoreImmutable

const DefaultModel = confidence.DefaultModel

func DefaultTemplateSettings() TemplateSettings { return templates.DefaultSettings() }

func ClampScore(v int) int { return confidence.Clamp(v) }

func OverallConfidence(a AspectConfidence, b ConfidenceBreakdown) int {
	return confidence.OverallConfidence(a, b)
}

func NeedsHumanReview(overall, editEffort int, flags []UncertaintyFlag) bool {
	return confidence.NeedsHumanReview(overall, editEffort, flags)
}

func ReviewReason(flags []UncertaintyFlag, overall int) string {
	return confidence.ReviewReason(flags, overall)
}

// Models lists every table owned by the service, in migration order.
func Models() []any {
	return []any{
		&content.Content{},
		&templates.AITemplate{},
		&templates.AITemplateVersion{},
		&confidence.ConfidenceScore{},
	}
}
