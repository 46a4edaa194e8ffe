package confidence

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	types "github.com/yungbote/click-backend/internal/domain"
	"github.com/yungbote/click-backend/internal/platform/textgen"
)

func TestAnalyzeDecodesValidResponse(t *testing.T) {
	gen := &fakeGenerator{reply: analyzerReply(t, scenarioB)}
	a := newTestAnalyzer(gen, AnalyzerConfig{})

	got := a.Analyze(context.Background(), Text("Great launch day!"), "linkedin", map[string]any{"tone": "friendly"})

	assert.False(t, got.Fallback)
	assert.Equal(t, "fake-model", got.Model)
	assert.Equal(t, types.AspectConfidence{Tone: 80, Humor: 90, Sarcasm: 90, Sensitivity: 90, BrandAlignment: 85, Clarity: 85, Engagement: 80}, got.Aspects)
	assert.Equal(t, types.ConfidenceBreakdown{TextAnalysis: 80, ContextAnalysis: 80, BrandCompliance: 80, PlatformFit: 80}, got.Breakdown)
	assert.Equal(t, []string{"deals"}, got.Metadata.DetectedTopics)

	require.Len(t, gen.requests, 1)
	req := gen.requests[0]
	assert.True(t, req.JSON)
	assert.Equal(t, 1024, req.MaxTokens)
	require.NotNil(t, req.Temperature)
	assert.InDelta(t, 0.3, *req.Temperature, 1e-9)
	assert.Contains(t, req.System, "content quality analyst")
	assert.Contains(t, req.Prompt, `Content: "Great launch day!"`)
	assert.Contains(t, req.Prompt, "Platform: linkedin")
	assert.Contains(t, req.Prompt, `Brand Guidelines: {"tone":"friendly"}`)
}

func TestAnalyzeStripsCodeFence(t *testing.T) {
	gen := &fakeGenerator{reply: "```json\n" + analyzerReply(t, scenarioB) + "\n```"}
	got := newTestAnalyzer(gen, AnalyzerConfig{}).Analyze(context.Background(), Text("x"), "", nil)
	assert.False(t, got.Fallback)
	assert.Equal(t, 80, got.Aspects.Tone)
}

func TestAnalyzeFallsBackOnInvalidResponses(t *testing.T) {
	missingAspect := map[string]any{}
	require.NoError(t, json.Unmarshal([]byte(analyzerReply(t, scenarioB)), &missingAspect))
	delete(missingAspect, "clarity")
	missingRaw, _ := json.Marshal(missingAspect)

	outOfRange := map[string]any{}
	require.NoError(t, json.Unmarshal([]byte(analyzerReply(t, scenarioB)), &outOfRange))
	outOfRange["tone"] = 140
	outOfRangeRaw, _ := json.Marshal(outOfRange)

	noMeta := map[string]any{}
	require.NoError(t, json.Unmarshal([]byte(analyzerReply(t, scenarioB)), &noMeta))
	delete(noMeta, "metadata")
	noMetaRaw, _ := json.Marshal(noMeta)

	cases := map[string]*fakeGenerator{
		"not json":       {reply: "I think the tone is fine."},
		"missing aspect": {reply: string(missingRaw)},
		"out of range":   {reply: string(outOfRangeRaw)},
		"no metadata":    {reply: string(noMetaRaw)},
		"call error":     {err: errors.New("upstream 500")},
	}
	for name, gen := range cases {
		t.Run(name, func(t *testing.T) {
			got := newTestAnalyzer(gen, AnalyzerConfig{}).Analyze(context.Background(), Text("x"), "", nil)
			want := NeutralAnalysis()
			assert.True(t, got.Fallback)
			assert.Equal(t, want.Aspects, got.Aspects)
			assert.Equal(t, want.Breakdown, got.Breakdown)
			assert.Equal(t, "neutral", got.Metadata.DetectedSentiment)
		})
	}
}

func TestAnalyzeTimesOut(t *testing.T) {
	gen := &fakeGenerator{block: true}
	a := newTestAnalyzer(gen, AnalyzerConfig{Timeout: 20 * time.Millisecond})

	start := time.Now()
	got := a.Analyze(context.Background(), Text("x"), "", nil)
	assert.True(t, got.Fallback)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestAnalyzeBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("boom")}
	a := newTestAnalyzer(gen, AnalyzerConfig{BreakerFailures: 2, BreakerCooldown: time.Minute})

	for i := 0; i < 4; i++ {
		got := a.Analyze(context.Background(), Text("x"), "", nil)
		assert.True(t, got.Fallback)
	}
	assert.Equal(t, 2, gen.Calls())
}

func TestAnalyzeCanceledCallersDoNotOpenBreaker(t *testing.T) {
	gen := &fakeGenerator{block: true}
	a := newTestAnalyzer(gen, AnalyzerConfig{BreakerFailures: 2, BreakerCooldown: time.Minute})

	canceled, cancel := context.WithCancel(context.Background())
	cancel()
	for i := 0; i < 5; i++ {
		got := a.Analyze(canceled, Text("x"), "", nil)
		assert.True(t, got.Fallback)
	}
	require.Equal(t, 5, gen.Calls())

	gen.mu.Lock()
	gen.block = false
	gen.reply = analyzerReply(t, scenarioB)
	gen.mu.Unlock()

	got := a.Analyze(context.Background(), Text("x"), "", nil)
	assert.False(t, got.Fallback)
	assert.Equal(t, 6, gen.Calls())
}

func TestAnalyzeOwnTimeoutCountsAsFailure(t *testing.T) {
	gen := &fakeGenerator{block: true}
	a := newTestAnalyzer(gen, AnalyzerConfig{Timeout: 5 * time.Millisecond, BreakerFailures: 2, BreakerCooldown: time.Minute})

	for i := 0; i < 3; i++ {
		got := a.Analyze(context.Background(), Text("x"), "", nil)
		assert.True(t, got.Fallback)
	}
	assert.Equal(t, 2, gen.Calls())
}

func TestAnalyzeWithoutGenerator(t *testing.T) {
	a := newTestAnalyzer(nil, AnalyzerConfig{})
	assert.False(t, a.Configured())
	got := a.Analyze(context.Background(), Text("x"), "", nil)
	assert.True(t, got.Fallback)
	assert.Equal(t, types.DefaultModel, got.Model)
}

func TestDecodeAnalysisDefaultsEmptyMetadataStrings(t *testing.T) {
	raw := `{"tone":70.6,"humor":50,"sarcasm":50,"sensitivity":80,"brandAlignment":75,"clarity":80,"engagement":75,
	"breakdown":{"textAnalysis":75,"contextAnalysis":70,"brandCompliance":75,"platformFit":75},
	"metadata":{"detectedTopics":[" ",""],"detectedSentiment":"","languageComplexity":"HIGH","readingLevel":""}}`
	got, err := DecodeAnalysis(raw)
	require.NoError(t, err)
	assert.Equal(t, 71, got.Aspects.Tone)
	assert.Equal(t, []string{}, got.Metadata.DetectedTopics)
	assert.Equal(t, "neutral", got.Metadata.DetectedSentiment)
	assert.Equal(t, "high", got.Metadata.LanguageComplexity)
	assert.Equal(t, "8th grade", got.Metadata.ReadingLevel)
}

func TestContentInputDecodesStringOrObject(t *testing.T) {
	var body struct {
		A ContentInput `json:"a"`
		B ContentInput `json:"b"`
		C ContentInput `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"plain text","b":{"text":"object text","title":"t"},"c":null}`), &body))
	assert.Equal(t, "plain text", body.A.Text)
	assert.Equal(t, "object text", body.B.Text)
	assert.True(t, body.C.IsEmpty())

	var bad ContentInput
	assert.Error(t, json.Unmarshal([]byte(`42`), &bad))
}

var _ textgen.Generator = (*fakeGenerator)(nil)
