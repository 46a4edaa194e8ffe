package compliance

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	types "github.com/yungbote/click-backend/internal/domain"
)

var (
	hashtagPattern = regexp.MustCompile(`#\w+`)
	ctaKeywords    = []string{"click", "learn", "visit", "sign up", "buy", "shop", "download"}
)

type GroupResult struct {
	IsCompliant bool        `json:"isCompliant"`
	Violations  []Violation `json:"violations"`
}

type Report struct {
	IsCompliant  bool            `json:"isCompliant"`
	Guardrails   GuardrailResult `json:"guardrails"`
	BrandStyle   GroupResult     `json:"brandStyle"`
	ContentRules GroupResult     `json:"contentRules"`
	Violations   []Violation     `json:"violations"`
	Score        int             `json:"score"`
}

// CheckCompliance runs the guardrail, brand-style and content-rule checks.
// Content is compliant when no group holds an error or block violation.
func CheckCompliance(content string, tmpl *types.AITemplate) Report {
	var (
		guardrails []types.Guardrail
		brand      types.BrandStyle
		rules      types.ContentRules
	)
	if tmpl != nil {
		guardrails = tmpl.GuardrailList()
		brand = tmpl.BrandStyle.Data()
		rules = tmpl.ContentRules.Data()
	}

	g := ValidateGuardrails(content, guardrails)
	b := CheckBrandStyle(content, brand)
	r := CheckContentRules(content, rules)

	all := make([]Violation, 0, len(g.Violations)+len(b.Violations)+len(r.Violations))
	all = append(all, g.Violations...)
	all = append(all, b.Violations...)
	all = append(all, r.Violations...)

	return Report{
		IsCompliant:  g.IsValid && b.IsCompliant && r.IsCompliant,
		Guardrails:   g,
		BrandStyle:   b,
		ContentRules: r,
		Violations:   all,
		Score:        Score(all),
	}
}

// Score is 100 less 20 per error-class violation and 5 per warning, floored at 0.
func Score(violations []Violation) int {
	errs := countErrors(violations)
	score := 100 - 20*errs - 5*(len(violations)-errs)
	if score < 0 {
		return 0
	}
	return score
}

func CheckBrandStyle(content string, brand types.BrandStyle) GroupResult {
	lower := strings.ToLower(content)
	violations := []Violation{}

	for _, phrase := range nonEmpty(brand.DontUse) {
		if strings.Contains(lower, strings.ToLower(phrase)) {
			violations = append(violations, Violation{
				Type:       ViolationBrandStyle,
				Severity:   types.SeverityError,
				Message:    fmt.Sprintf("Found avoided phrase: \"%s\"", phrase),
				Suggestion: fmt.Sprintf("Remove or replace \"%s\"", phrase),
			})
		}
	}
	for _, el := range nonEmpty(brand.AlwaysInclude) {
		if !strings.Contains(lower, strings.ToLower(el)) {
			violations = append(violations, Violation{
				Type:       ViolationBrandStyle,
				Severity:   types.SeverityWarning,
				Message:    fmt.Sprintf("Missing required element: \"%s\"", el),
				Suggestion: fmt.Sprintf("Add \"%s\" to content", el),
			})
		}
	}
	for _, el := range nonEmpty(brand.NeverInclude) {
		if strings.Contains(lower, strings.ToLower(el)) {
			violations = append(violations, Violation{
				Type:       ViolationBrandStyle,
				Severity:   types.SeverityError,
				Message:    fmt.Sprintf("Found prohibited element: \"%s\"", el),
				Suggestion: fmt.Sprintf("Remove \"%s\" from content", el),
			})
		}
	}
	return GroupResult{IsCompliant: countErrors(violations) == 0, Violations: violations}
}

// CheckContentRules measures length in characters (runes). Hashtag counts
// are only checked when RequireHashtags is set; MinHashtags defaults to 1.
func CheckContentRules(content string, rules types.ContentRules) GroupResult {
	violations := []Violation{}
	length := utf8.RuneCountInString(content)

	if rules.MinLength > 0 && length < rules.MinLength {
		violations = append(violations, Violation{
			Type:       ViolationContentRules,
			Severity:   types.SeverityError,
			Message:    fmt.Sprintf("Content is too short (%d < %d)", length, rules.MinLength),
			Suggestion: fmt.Sprintf("Add %d more characters", rules.MinLength-length),
		})
	}
	if rules.MaxLength > 0 && length > rules.MaxLength {
		violations = append(violations, Violation{
			Type:       ViolationContentRules,
			Severity:   types.SeverityWarning,
			Message:    fmt.Sprintf("Content exceeds maximum length (%d > %d)", length, rules.MaxLength),
			Suggestion: fmt.Sprintf("Remove %d characters", length-rules.MaxLength),
		})
	}

	if rules.RequireHashtags {
		found := len(hashtagPattern.FindAllString(content, -1))
		need := rules.MinHashtags
		if need <= 0 {
			need = 1
		}
		if found < need {
			violations = append(violations, Violation{
				Type:       ViolationContentRules,
				Severity:   types.SeverityError,
				Message:    fmt.Sprintf("Missing hashtags (found %d, need %d)", found, need),
				Suggestion: fmt.Sprintf("Add %d more hashtags", need-found),
			})
		}
		if rules.MaxHashtags > 0 && found > rules.MaxHashtags {
			violations = append(violations, Violation{
				Type:       ViolationContentRules,
				Severity:   types.SeverityWarning,
				Message:    fmt.Sprintf("Too many hashtags (%d > %d)", found, rules.MaxHashtags),
				Suggestion: fmt.Sprintf("Remove %d hashtags", found-rules.MaxHashtags),
			})
		}
	}

	if rules.RequireCTA && !HasCTA(content) {
		placement := rules.CTAPlacement
		if placement == "" {
			placement = types.CTAEnd
		}
		violations = append(violations, Violation{
			Type:       ViolationContentRules,
			Severity:   types.SeverityError,
			Message:    "Missing call-to-action (CTA)",
			Suggestion: fmt.Sprintf("Add a CTA at the %s", placement),
		})
	}

	return GroupResult{IsCompliant: countErrors(violations) == 0, Violations: violations}
}

func HasCTA(content string) bool {
	return containsAny(strings.ToLower(content), ctaKeywords)
}

func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func nonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
