package compliance

import (
	types "github.com/yungbote/click-backend/internal/domain"
)

type ViolationType string

const (
	ViolationAvoidPhrase   ViolationType = ViolationType(types.GuardrailAvoidPhrase)
	ViolationRequirePhrase ViolationType = ViolationType(types.GuardrailRequirePhrase)
	ViolationBrandStyle    ViolationType = "brand_style"
	ViolationContentRules  ViolationType = "content_rules"
)

type Violation struct {
	Type       ViolationType           `json:"type"`
	Severity   types.GuardrailSeverity `json:"severity"`
	Message    string                  `json:"message"`
	Suggestion string                  `json:"suggestion"`
}

func countErrors(vs []Violation) int {
	n := 0
	for _, v := range vs {
		if v.Severity.IsErrorClass() {
			n++
		}
	}
	return n
}
