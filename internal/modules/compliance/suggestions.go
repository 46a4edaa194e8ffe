package compliance

import (
	"strings"
	"unicode/utf8"

	types "github.com/yungbote/click-backend/internal/domain"
)

type Suggestion struct {
	Type       string `json:"type"`
	Priority   string `json:"priority"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion"`
}

var endCTAKeywords = []string{"click", "learn", "visit", "sign up"}

func OptimizationSuggestions(content string, tmpl *types.AITemplate) []Suggestion {
	out := []Suggestion{}
	var rules types.ContentRules
	if tmpl != nil {
		rules = tmpl.ContentRules.Data()
	}

	if rules.MaxLength > 0 && float64(utf8.RuneCountInString(content)) > float64(rules.MaxLength)*0.9 {
		out = append(out, Suggestion{
			Type:       "length",
			Priority:   "medium",
			Message:    "Content is approaching maximum length",
			Suggestion: "Consider shortening to leave room for hashtags/CTA",
		})
	}

	if !strings.ContainsAny(content, "?!") {
		out = append(out, Suggestion{
			Type:       "engagement",
			Priority:   "low",
			Message:    "Content lacks engagement elements",
			Suggestion: "Consider adding questions or exclamations to increase engagement",
		})
	}

	if rules.RequireCTA && rules.CTAPlacement == types.CTAEnd {
		if !containsAny(strings.ToLower(lastSentence(content)), endCTAKeywords) {
			out = append(out, Suggestion{
				Type:       "cta",
				Priority:   "medium",
				Message:    "CTA may not be prominent enough",
				Suggestion: "Consider moving CTA to the end or making it more prominent",
			})
		}
	}
	return out
}

// lastSentence is the final non-empty '.'-separated segment.
func lastSentence(content string) string {
	parts := strings.Split(content, ".")
	for i := len(parts) - 1; i >= 0; i-- {
		if strings.TrimSpace(parts[i]) != "" {
			return parts[i]
		}
	}
	return ""
}
