package compliance

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

const (
	RemovedMarker      = "[REMOVED]"
	HashtagPlaceholder = "#hashtag"
	GenericCTA         = " Learn more."
)

var (
	quotedPhrase = regexp.MustCompile(`"([^"]+)"`)
	foundNeed    = regexp.MustCompile(`found (\d+), need (\d+)`)
	firstNumber  = regexp.MustCompile(`\d+`)
)

type FixResult struct {
	Original string   `json:"original"`
	Fixed    string   `json:"fixed"`
	Changed  bool     `json:"changed"`
	Applied  []string `json:"applied"`
}

// AutoFix patches content mechanically for the given violations. The result
// does not depend on violation order: removals run first (longest phrase
// first), then required phrases in sorted order, then placeholder hashtags,
// then a generic CTA. The output is not re-validated.
func AutoFix(content string, violations []Violation) FixResult {
	removals := map[string]string{}
	required := map[string]string{}
	hashtags := 0
	needsCTA := false
	applied := []string{}

	for _, v := range violations {
		msg := v.Message
		switch {
		case isRemoval(v):
			keepPhrase(removals, extractPhrase(msg))
		case isRequirement(v):
			keepPhrase(required, extractPhrase(msg))
		case strings.HasPrefix(msg, "Missing hashtags"):
			if n := hashtagsNeeded(msg); n > hashtags {
				hashtags = n
			}
		case strings.Contains(msg, "CTA") || strings.Contains(msg, "call-to-action"):
			needsCTA = true
		}
	}

	fixed := content

	if phrases := sortedRemovals(removals); len(phrases) > 0 {
		// One pass so a marker is never matched by a later, shorter phrase.
		alts := make([]string, len(phrases))
		for i, p := range phrases {
			alts[i] = regexp.QuoteMeta(p)
		}
		re := regexp.MustCompile(`(?i)(?:` + strings.Join(alts, "|") + `)`)
		hit := map[string]bool{}
		fixed = re.ReplaceAllStringFunc(fixed, func(m string) string {
			hit[strings.ToLower(m)] = true
			return RemovedMarker
		})
		for _, p := range phrases {
			if hit[strings.ToLower(p)] {
				applied = append(applied, fmt.Sprintf("removed \"%s\"", p))
			}
		}
	}

	keys := make([]string, 0, len(required))
	for k := range required {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if strings.Contains(strings.ToLower(fixed), k) {
			continue
		}
		fixed += " " + required[k]
		applied = append(applied, fmt.Sprintf("added \"%s\"", required[k]))
	}

	if hashtags > 0 {
		tags := make([]string, hashtags)
		for i := range tags {
			tags[i] = HashtagPlaceholder
		}
		fixed += " " + strings.Join(tags, " ")
		applied = append(applied, fmt.Sprintf("added %d hashtags", hashtags))
	}

	if needsCTA {
		fixed += GenericCTA
		applied = append(applied, "added call-to-action")
	}

	return FixResult{
		Original: content,
		Fixed:    fixed,
		Changed:  fixed != content,
		Applied:  applied,
	}
}

func isRemoval(v Violation) bool {
	switch v.Type {
	case ViolationAvoidPhrase:
		return true
	case ViolationBrandStyle:
		return strings.Contains(v.Message, "avoided") || strings.Contains(v.Message, "prohibited")
	}
	return false
}

func isRequirement(v Violation) bool {
	switch v.Type {
	case ViolationRequirePhrase:
		return true
	case ViolationBrandStyle:
		return strings.Contains(v.Message, "Missing")
	}
	return false
}

// keepPhrase dedupes case-insensitively, keeping the smallest spelling.
func keepPhrase(into map[string]string, p string) {
	if p == "" {
		return
	}
	k := strings.ToLower(p)
	if cur, ok := into[k]; !ok || p < cur {
		into[k] = p
	}
}

func extractPhrase(msg string) string {
	m := quotedPhrase.FindStringSubmatch(msg)
	if len(m) < 2 {
		return ""
	}
	return strings.TrimSpace(m[1])
}

func hashtagsNeeded(msg string) int {
	if m := foundNeed.FindStringSubmatch(msg); len(m) == 3 {
		found, _ := strconv.Atoi(m[1])
		need, _ := strconv.Atoi(m[2])
		return need - found
	}
	if m := firstNumber.FindString(msg); m != "" {
		n, _ := strconv.Atoi(m)
		return n
	}
	return 0
}

// Longer phrases go first so a shorter phrase cannot split a longer match.
func sortedRemovals(byLower map[string]string) []string {
	out := make([]string, 0, len(byLower))
	for _, p := range byLower {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i]) != len(out[j]) {
			return len(out[i]) > len(out[j])
		}
		return strings.ToLower(out[i]) < strings.ToLower(out[j])
	})
	return out
}
