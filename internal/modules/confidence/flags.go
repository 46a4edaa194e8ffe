package confidence

import (
	"math"

	types "github.com/yungbote/click-backend/internal/domain"
)

// DetectFlags evaluates every threshold rule independently; output order is fixed.
func DetectFlags(content ContentInput, analysis Analysis) []types.UncertaintyFlag {
	a := analysis.Aspects
	flags := make([]types.UncertaintyFlag, 0, 4)

	if a.Humor > 30 && a.Humor < 70 {
		flags = append(flags, types.UncertaintyFlag{
			Type:       types.FlagHumorDetected,
			Severity:   highIfBelow(a.Humor, 50, types.FlagSeverityMedium),
			Message:    "Humor detected but confidence is low",
			Suggestion: "Review humor for appropriateness",
		})
	}
	if a.Sarcasm > 30 && a.Sarcasm < 70 {
		flags = append(flags, types.UncertaintyFlag{
			Type:       types.FlagSarcasmDetected,
			Severity:   highIfBelow(a.Sarcasm, 50, types.FlagSeverityMedium),
			Message:    "Sarcasm detected but may be misinterpreted",
			Suggestion: "Clarify tone or remove sarcasm",
		})
	}
	if a.Sensitivity < 60 {
		sev := types.FlagSeverityHigh
		if a.Sensitivity < 40 {
			sev = types.FlagSeverityCritical
		}
		flags = append(flags, types.UncertaintyFlag{
			Type:       types.FlagSensitiveTopic,
			Severity:   sev,
			Message:    "Content may contain sensitive topics",
			Suggestion: "Review for sensitivity and appropriateness",
		})
	}
	if a.Tone < 60 {
		flags = append(flags, types.UncertaintyFlag{
			Type:       types.FlagAmbiguousTone,
			Severity:   types.FlagSeverityMedium,
			Message:    "Tone is ambiguous or unclear",
			Suggestion: "Clarify tone to match brand voice",
		})
	}
	if a.BrandAlignment < 60 {
		flags = append(flags, types.UncertaintyFlag{
			Type:       types.FlagBrandMismatch,
			Severity:   highIfBelow(a.BrandAlignment, 40, types.FlagSeverityMedium),
			Message:    "Content may not align with brand guidelines",
			Suggestion: "Review and adjust to match brand voice",
		})
	}
	if a.Clarity < 60 {
		flags = append(flags, types.UncertaintyFlag{
			Type:       types.FlagLowClarity,
			Severity:   types.FlagSeverityMedium,
			Message:    "Content clarity is low",
			Suggestion: "Simplify language and structure",
		})
	}
	if analysis.Metadata.LanguageComplexity == "high" {
		flags = append(flags, types.UncertaintyFlag{
			Type:       types.FlagComplexLanguage,
			Severity:   types.FlagSeverityLow,
			Message:    "Language complexity is high",
			Suggestion: "Consider simplifying for broader audience",
		})
	}
	return flags
}

func highIfBelow(v, limit int, otherwise types.FlagSeverity) types.FlagSeverity {
	if v < limit {
		return types.FlagSeverityHigh
	}
	return otherwise
}

var severityPenalty = map[types.FlagSeverity]float64{
	types.FlagSeverityCritical: 20,
	types.FlagSeverityHigh:     15,
	types.FlagSeverityMedium:   10,
	types.FlagSeverityLow:      5,
}

// EstimateEditEffort weights tone, brand alignment and clarity gaps and adds
// a fixed penalty per flag by severity.
func EstimateEditEffort(analysis Analysis, flags []types.UncertaintyFlag) int {
	a := analysis.Aspects
	effort := 0.2*float64(100-a.Tone) + 0.3*float64(100-a.BrandAlignment) + 0.2*float64(100-a.Clarity)
	for _, f := range flags {
		effort += severityPenalty[f.Severity]
	}
	return types.ClampScore(int(math.Round(effort)))
}
