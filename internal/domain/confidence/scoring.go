package confidence

import (
	"fmt"
	"math"
	"strings"
)

const (
	ReviewConfidenceThreshold = 70
	ReviewEffortThreshold     = 50
)

func Clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func mean(vals []int) float64 {
	if len(vals) == 0 {
		return 0
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return float64(sum) / float64(len(vals))
}

// OverallConfidence is round((mean(aspects) + mean(breakdown)) / 2).
func OverallConfidence(a AspectConfidence, b ConfidenceBreakdown) int {
	return Clamp(int(math.Round((mean(a.Values()) + mean(b.Values())) / 2)))
}

func NeedsHumanReview(overall, editEffort int, flags []UncertaintyFlag) bool {
	if overall < ReviewConfidenceThreshold || editEffort > ReviewEffortThreshold {
		return true
	}
	for _, f := range flags {
		if f.Severity.IsHighPriority() {
			return true
		}
	}
	return false
}

func ReviewReason(flags []UncertaintyFlag, overall int) string {
	var priority []string
	for _, f := range flags {
		if f.Severity.IsHighPriority() {
			priority = append(priority, string(f.Type))
		}
	}
	if len(priority) > 0 {
		return "High priority flags: " + strings.Join(priority, ", ")
	}
	if overall < ReviewConfidenceThreshold {
		return fmt.Sprintf("Low confidence score: %d%%", overall)
	}
	return "Multiple uncertainty flags detected"
}
