package promptstyle

import "strings"

const marker = "CLICK_PROMPT_STYLE_V1"

// ApplySystem prepends a short guidance block to a system prompt. It is a no-op
// for empty prompts and for prompts that already carry the block.
func ApplySystem(system string, mode string) string {
	base := strings.TrimSpace(system)
	if base == "" || strings.Contains(base, marker) {
		return base
	}
	var b strings.Builder
	b.WriteString(marker)
	b.WriteString("\nFollow the system and user instructions precisely.")
	if strings.EqualFold(strings.TrimSpace(mode), "json") {
		b.WriteString("\nReturn a single JSON object only. No markdown fences, no commentary, no extra keys.")
	} else {
		b.WriteString("\nReturn only the requested content, without preamble.")
	}
	b.WriteString("\n---\n")
	b.WriteString(base)
	return b.String()
}
