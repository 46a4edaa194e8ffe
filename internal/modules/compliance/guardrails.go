package compliance

import (
	"fmt"
	"strings"

	types "github.com/yungbote/click-backend/internal/domain"
)

type GuardrailResult struct {
	IsValid    bool        `json:"isValid"`
	Violations []Violation `json:"violations"`
}

// ValidateGuardrails enforces avoid_phrase and require_phrase rules with
// case-insensitive substring matching. Other guardrail types are
// configuration consumed by prompt construction and the content-rule checks.
func ValidateGuardrails(content string, guardrails []types.Guardrail) GuardrailResult {
	lower := strings.ToLower(content)
	violations := []Violation{}

	for _, g := range guardrails {
		value := strings.TrimSpace(g.Value)
		if value == "" {
			continue
		}
		severity := g.Severity
		if severity == "" {
			severity = types.SeverityWarning
		}
		present := strings.Contains(lower, strings.ToLower(value))

		switch g.Type {
		case types.GuardrailAvoidPhrase:
			if present {
				violations = append(violations, Violation{
					Type:       ViolationAvoidPhrase,
					Severity:   severity,
					Message:    fmt.Sprintf("Found avoided phrase: \"%s\"", value),
					Suggestion: orDefault(g.Description, "Remove or replace this phrase"),
				})
			}
		case types.GuardrailRequirePhrase:
			if !present {
				violations = append(violations, Violation{
					Type:       ViolationRequirePhrase,
					Severity:   severity,
					Message:    fmt.Sprintf("Missing required phrase: \"%s\"", value),
					Suggestion: orDefault(g.Description, "Add this required phrase"),
				})
			}
		}
	}

	return GuardrailResult{IsValid: countErrors(violations) == 0, Violations: violations}
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
