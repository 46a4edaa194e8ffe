package templates

import (
	"encoding/json"
	"fmt"
	"strings"

	types "github.com/yungbote/click-backend/internal/domain"
)

const InputPlaceholder = "{{input}}"

type PromptOptions struct {
	Platform string `json:"platform,omitempty"`
}

// BuildPrompt assembles the generation prompt. Sections appear in a fixed
// order, separated by blank lines, and empty sections are omitted.
func BuildPrompt(tmpl *types.AITemplate, input string, opts PromptOptions) string {
	if tmpl == nil {
		return input
	}
	sections := []string{strings.ReplaceAll(tmpl.Prompt, InputPlaceholder, input)}
	add := func(format string, args ...any) {
		sections = append(sections, fmt.Sprintf(format, args...))
	}

	brand := tmpl.BrandStyle.Data()
	if brand.Tone != "" {
		add("Tone: %s", brand.Tone)
	}
	if brand.Voice != "" {
		add("Brand Voice: %s", brand.Voice)
	}
	if len(brand.DoUse) > 0 {
		add("Use these phrases/words: %s", strings.Join(brand.DoUse, ", "))
	}
	if len(brand.DontUse) > 0 {
		add("Avoid these phrases/words: %s", strings.Join(brand.DontUse, ", "))
	}
	if len(brand.AlwaysInclude) > 0 {
		add("Always include: %s", strings.Join(brand.AlwaysInclude, ", "))
	}
	if len(brand.NeverInclude) > 0 {
		add("Never include: %s", strings.Join(brand.NeverInclude, ", "))
	}

	rules := tmpl.ContentRules.Data()
	if rules.MinLength > 0 {
		add("Minimum length: %d characters", rules.MinLength)
	}
	if rules.MaxLength > 0 {
		add("Maximum length: %d characters", rules.MaxLength)
	}
	if rules.RequireCTA {
		placement := rules.CTAPlacement
		if placement == "" {
			placement = types.CTAEnd
		}
		add("Include a call-to-action (CTA) at the %s", placement)
	}
	if rules.RequireHashtags {
		lo, hi := rules.MinHashtags, rules.MaxHashtags
		if lo <= 0 {
			lo = 3
		}
		if hi <= 0 {
			hi = 5
		}
		add("Include %d-%d hashtags", lo, hi)
	}

	if p := strings.TrimSpace(opts.Platform); p != "" {
		if override, ok := tmpl.PlatformRules.Data()[p]; ok && override != nil {
			if raw, err := json.Marshal(override); err == nil {
				add("Platform-specific rules for %s: %s", p, raw)
			}
		}
	}

	var directives []string
	for _, g := range tmpl.GuardrailList() {
		switch g.Type {
		case types.GuardrailAvoidPhrase:
			directives = append(directives, fmt.Sprintf("- DO NOT use: \"%s\"", g.Value))
		case types.GuardrailRequirePhrase:
			directives = append(directives, fmt.Sprintf("- MUST include: \"%s\"", g.Value))
		case types.GuardrailToneRequirement:
			directives = append(directives, "- Tone must be: "+g.Value)
		case types.GuardrailCTARequirement:
			directives = append(directives, "- CTA requirement: "+g.Value)
		}
	}
	if len(directives) > 0 {
		sections = append(sections, "Guardrails:\n"+strings.Join(directives, "\n"))
	}

	return strings.Join(sections, "\n\n")
}
