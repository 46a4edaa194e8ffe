package confidence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func TestOverallConfidence(t *testing.T) {
	cases := []struct {
		name      string
		aspects   AspectConfidence
		breakdown ConfidenceBreakdown
		want      int
	}{
		{
			name:      "all equal",
			aspects:   AspectConfidence{80, 80, 80, 80, 80, 80, 80},
			breakdown: ConfidenceBreakdown{80, 80, 80, 80},
			want:      80,
		},
		{
			// (600/7 + 80) / 2 = 82.857...
			name:      "high quality post",
			aspects:   AspectConfidence{Tone: 80, Humor: 90, Sarcasm: 90, Sensitivity: 90, BrandAlignment: 85, Clarity: 85, Engagement: 80},
			breakdown: ConfidenceBreakdown{80, 80, 80, 80},
			want:      83,
		},
		{
			name:      "neutral default",
			aspects:   AspectConfidence{75, 50, 50, 75, 75, 80, 75},
			breakdown: ConfidenceBreakdown{75, 70, 75, 75},
			want:      71,
		},
		{
			name: "zeros",
			want: 0,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, OverallConfidence(tc.aspects, tc.breakdown))
		})
	}
}

func TestNeedsHumanReview(t *testing.T) {
	medium := []UncertaintyFlag{{Type: FlagLowClarity, Severity: SeverityMedium}}
	high := []UncertaintyFlag{{Type: FlagSensitiveTopic, Severity: SeverityHigh}}
	critical := []UncertaintyFlag{{Type: FlagSensitiveTopic, Severity: SeverityCritical}}

	assert.False(t, NeedsHumanReview(70, 50, nil))
	assert.False(t, NeedsHumanReview(90, 10, medium))
	assert.True(t, NeedsHumanReview(69, 0, nil))
	assert.True(t, NeedsHumanReview(95, 51, nil))
	assert.True(t, NeedsHumanReview(95, 0, high))
	assert.True(t, NeedsHumanReview(95, 0, critical))
}

func TestReviewReason(t *testing.T) {
	flags := []UncertaintyFlag{
		{Type: FlagHumorDetected, Severity: SeverityHigh},
		{Type: FlagLowClarity, Severity: SeverityMedium},
		{Type: FlagSensitiveTopic, Severity: SeverityCritical},
	}
	assert.Equal(t, "High priority flags: humor_detected, sensitive_topic", ReviewReason(flags, 90))
	assert.Equal(t, "Low confidence score: 64%", ReviewReason(flags[1:2], 64))
	assert.Equal(t, "Multiple uncertainty flags detected", ReviewReason(flags[1:2], 80))
}

func TestNormalizeOverridesCallerValues(t *testing.T) {
	s := &ConfidenceScore{
		AspectConfidence:    datatypes.NewJSONType(AspectConfidence{Tone: 40, Humor: 40, Sarcasm: 40, Sensitivity: 40, BrandAlignment: 40, Clarity: 40, Engagement: 40}),
		ConfidenceBreakdown: datatypes.NewJSONType(ConfidenceBreakdown{40, 40, 40, 40}),
		EditEffort:          30,
		OverallConfidence:   99,
		NeedsHumanReview:    false,
		ReviewReason:        "caller said so",
	}
	s.Normalize()

	assert.Equal(t, 40, s.OverallConfidence)
	assert.True(t, s.NeedsHumanReview)
	assert.Equal(t, "Low confidence score: 40%", s.ReviewReason)
	assert.Equal(t, DefaultModel, s.Model)
	assert.NotNil(t, s.UncertaintyFlags)
}

func TestNormalizeClearsReasonWhenNoReview(t *testing.T) {
	s := &ConfidenceScore{
		AspectConfidence:    datatypes.NewJSONType(AspectConfidence{90, 90, 90, 90, 90, 90, 90}),
		ConfidenceBreakdown: datatypes.NewJSONType(ConfidenceBreakdown{90, 90, 90, 90}),
		EditEffort:          5,
		NeedsHumanReview:    true,
		ReviewReason:        "stale",
	}
	s.Normalize()

	assert.False(t, s.NeedsHumanReview)
	assert.Empty(t, s.ReviewReason)
}

func TestNormalizeClampsOutOfRange(t *testing.T) {
	s := &ConfidenceScore{
		AspectConfidence:    datatypes.NewJSONType(AspectConfidence{Tone: 150, Humor: -20, Sarcasm: 100, Sensitivity: 100, BrandAlignment: 100, Clarity: 100, Engagement: 100}),
		ConfidenceBreakdown: datatypes.NewJSONType(ConfidenceBreakdown{100, 100, 100, 100}),
		EditEffort:          250,
	}
	s.Normalize()

	a := s.AspectConfidence.Data()
	assert.Equal(t, 100, a.Tone)
	assert.Equal(t, 0, a.Humor)
	assert.Equal(t, 100, s.EditEffort)
	assert.True(t, s.NeedsHumanReview)
}
