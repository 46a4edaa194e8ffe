package confidence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	types "github.com/yungbote/click-backend/internal/domain"
	"github.com/yungbote/click-backend/internal/observability"
	"github.com/yungbote/click-backend/internal/platform/logger"
	"github.com/yungbote/click-backend/internal/platform/textgen"
)

const (
	analyzerSystem = "You are a content quality analyst. Analyze content and provide confidence scores. Return valid JSON only."

	analyzerTemperature = 0.3
	analyzerMaxTokens   = 1024

	DefaultAnalyzerTimeout = 30 * time.Second
)

// Analysis is the validated analyzer output before scoring.
type Analysis struct {
	Aspects   types.AspectConfidence    `json:"aspectConfidence"`
	Breakdown types.ConfidenceBreakdown `json:"breakdown"`
	Metadata  types.AnalysisMetadata    `json:"metadata"`
	Model     string                    `json:"model"`
	// Fallback is set when the neutral default replaced a failed call.
	Fallback bool `json:"fallback"`
}

// NeutralAnalysis is substituted whenever the analyzer call or its decode fails.
func NeutralAnalysis() Analysis {
	return Analysis{
		Aspects: types.AspectConfidence{
			Tone:           75,
			Humor:          50,
			Sarcasm:        50,
			Sensitivity:    75,
			BrandAlignment: 75,
			Clarity:        80,
			Engagement:     75,
		},
		Breakdown: types.ConfidenceBreakdown{
			TextAnalysis:    75,
			ContextAnalysis: 70,
			BrandCompliance: 75,
			PlatformFit:     75,
		},
		Metadata: neutralMetadata(),
	}
}

func neutralMetadata() types.AnalysisMetadata {
	return types.AnalysisMetadata{
		DetectedTopics:     []string{},
		DetectedSentiment:  "neutral",
		LanguageComplexity: "medium",
		ReadingLevel:       "8th grade",
	}
}

type AnalyzerConfig struct {
	Timeout time.Duration
	// Breaker trips after this many consecutive failures; zero means 5.
	BreakerFailures uint32
	BreakerCooldown time.Duration
}

type Analyzer struct {
	gen     textgen.Generator
	log     *logger.Logger
	metrics *observability.Metrics
	breaker *gobreaker.CircuitBreaker
	timeout time.Duration
}

func NewAnalyzer(gen textgen.Generator, baseLog *logger.Logger, metrics *observability.Metrics, cfg AnalyzerConfig) *Analyzer {
	log := baseLog.With("service", "ConfidenceAnalyzer")
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultAnalyzerTimeout
	}
	failures := cfg.BreakerFailures
	if failures == 0 {
		failures = 5
	}
	cooldown := cfg.BreakerCooldown
	if cooldown <= 0 {
		cooldown = 30 * time.Second
	}
	settings := gobreaker.Settings{
		Name:        "confidence_analyzer",
		MaxRequests: 1,
		Timeout:     cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		// A caller that went away says nothing about the analyzer's health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("Circuit breaker state change", "name", name, "from", from.String(), "to", to.String())
			metrics.SetBreakerState(name, int(to))
		},
	}
	return &Analyzer{
		gen:     gen,
		log:     log,
		metrics: metrics,
		breaker: gobreaker.NewCircuitBreaker(settings),
		timeout: timeout,
	}
}

func (a *Analyzer) Configured() bool { return a != nil && a.gen != nil }

func (a *Analyzer) Model() string {
	if a == nil || a.gen == nil {
		return types.DefaultModel
	}
	if name := strings.TrimSpace(a.gen.Name()); name != "" {
		return name
	}
	return types.DefaultModel
}

// Analyze never fails: call, timeout, breaker and decode errors all
// degrade to NeutralAnalysis with Fallback set.
func (a *Analyzer) Analyze(ctx context.Context, content ContentInput, platform string, brandGuidelines map[string]any) Analysis {
	ctx, span := observability.Tracer().Start(ctx, "confidence.analyze")
	defer span.End()

	model := a.Model()
	span.SetAttributes(attribute.String("analyzer.model", model), attribute.String("content.platform", platform))

	if !a.Configured() {
		return a.fallback(span, model, "not_configured", errors.New("no generator"))
	}

	prompt := BuildAnalysisPrompt(content, platform, brandGuidelines)
	start := time.Now()
	out, err := a.breaker.Execute(func() (interface{}, error) {
		callCtx, cancel := context.WithTimeout(ctx, a.timeout)
		defer cancel()
		return a.gen.GenerateText(callCtx, textgen.Request{
			System:      analyzerSystem,
			Prompt:      prompt,
			Temperature: textgen.Float(analyzerTemperature),
			MaxTokens:   analyzerMaxTokens,
			JSON:        true,
		})
	})
	dur := time.Since(start)
	if err != nil {
		reason := "call_error"
		switch {
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			reason = "breaker_open"
		case errors.Is(err, context.DeadlineExceeded):
			reason = "timeout"
		case errors.Is(err, context.Canceled):
			reason = "canceled"
		}
		a.metrics.ObserveAnalyzer(model, reason, dur)
		return a.fallback(span, model, reason, err)
	}

	raw, _ := out.(string)
	analysis, err := DecodeAnalysis(raw)
	if err != nil {
		a.metrics.ObserveAnalyzer(model, "invalid_response", dur)
		return a.fallback(span, model, "invalid_response", err)
	}
	a.metrics.ObserveAnalyzer(model, "ok", dur)
	analysis.Model = model
	return analysis
}

func (a *Analyzer) fallback(span trace.Span, model, reason string, cause error) Analysis {
	if a != nil && a.log != nil {
		a.log.Warn("Confidence analysis fell back to neutral default", "reason", reason, "error", cause)
	}
	if a != nil {
		a.metrics.IncAnalyzerFallback(reason)
	}
	span.RecordError(cause)
	span.SetStatus(codes.Error, reason)
	out := NeutralAnalysis()
	out.Model = model
	out.Fallback = true
	return out
}

func BuildAnalysisPrompt(content ContentInput, platform string, brandGuidelines map[string]any) string {
	var b strings.Builder
	b.WriteString(`Analyze the following content for confidence scoring. Provide scores (0-100) for:
1. Tone appropriateness
2. Humor detection (if present, how confident are you it's appropriate?)
3. Sarcasm detection (if present, how confident are you it's appropriate?)
4. Sensitivity (sensitive topics, controversial content)
5. Brand alignment (if brand guidelines provided)
6. Clarity
7. Engagement potential

`)
	fmt.Fprintf(&b, "Content: %q\n", content.Text)
	if p := strings.TrimSpace(platform); p != "" {
		fmt.Fprintf(&b, "\nPlatform: %s\n", p)
	}
	if len(brandGuidelines) > 0 {
		if raw, err := json.Marshal(brandGuidelines); err == nil {
			fmt.Fprintf(&b, "\nBrand Guidelines: %s\n", raw)
		}
	}
	b.WriteString(`
Respond with JSON:
{
  "tone": 85,
  "humor": 60,
  "sarcasm": 30,
  "sensitivity": 70,
  "brandAlignment": 80,
  "clarity": 90,
  "engagement": 75,
  "breakdown": {
    "textAnalysis": 85,
    "contextAnalysis": 70,
    "brandCompliance": 80,
    "platformFit": 75
  },
  "metadata": {
    "detectedTopics": ["topic1", "topic2"],
    "detectedSentiment": "positive",
    "languageComplexity": "medium",
    "readingLevel": "8th grade"
  }
}`)
	return b.String()
}

type wireAnalysis struct {
	Tone           *float64 `json:"tone"`
	Humor          *float64 `json:"humor"`
	Sarcasm        *float64 `json:"sarcasm"`
	Sensitivity    *float64 `json:"sensitivity"`
	BrandAlignment *float64 `json:"brandAlignment"`
	Clarity        *float64 `json:"clarity"`
	Engagement     *float64 `json:"engagement"`

	Breakdown *struct {
		TextAnalysis    *float64 `json:"textAnalysis"`
		ContextAnalysis *float64 `json:"contextAnalysis"`
		BrandCompliance *float64 `json:"brandCompliance"`
		PlatformFit     *float64 `json:"platformFit"`
	} `json:"breakdown"`

	Metadata *struct {
		DetectedTopics     []string `json:"detectedTopics"`
		DetectedSentiment  string   `json:"detectedSentiment"`
		LanguageComplexity string   `json:"languageComplexity"`
		ReadingLevel       string   `json:"readingLevel"`
	} `json:"metadata"`
}

// DecodeAnalysis parses analyzer output strictly: every score must be present
// and within [0,100], and the metadata object is required.
func DecodeAnalysis(raw string) (Analysis, error) {
	body := stripCodeFence(raw)
	if body == "" {
		return Analysis{}, errors.New("empty analyzer response")
	}
	var w wireAnalysis
	if err := json.Unmarshal([]byte(body), &w); err != nil {
		return Analysis{}, fmt.Errorf("decode analyzer response: %w", err)
	}

	var errs []string
	score := func(name string, v *float64) int {
		if v == nil {
			errs = append(errs, name+" missing")
			return 0
		}
		if math.IsNaN(*v) || *v < 0 || *v > 100 {
			errs = append(errs, fmt.Sprintf("%s out of range: %v", name, *v))
			return 0
		}
		return int(math.Round(*v))
	}

	var out Analysis
	out.Aspects = types.AspectConfidence{
		Tone:           score("tone", w.Tone),
		Humor:          score("humor", w.Humor),
		Sarcasm:        score("sarcasm", w.Sarcasm),
		Sensitivity:    score("sensitivity", w.Sensitivity),
		BrandAlignment: score("brandAlignment", w.BrandAlignment),
		Clarity:        score("clarity", w.Clarity),
		Engagement:     score("engagement", w.Engagement),
	}
	if w.Breakdown == nil {
		errs = append(errs, "breakdown missing")
	} else {
		out.Breakdown = types.ConfidenceBreakdown{
			TextAnalysis:    score("breakdown.textAnalysis", w.Breakdown.TextAnalysis),
			ContextAnalysis: score("breakdown.contextAnalysis", w.Breakdown.ContextAnalysis),
			BrandCompliance: score("breakdown.brandCompliance", w.Breakdown.BrandCompliance),
			PlatformFit:     score("breakdown.platformFit", w.Breakdown.PlatformFit),
		}
	}
	if w.Metadata == nil {
		errs = append(errs, "metadata missing")
	} else {
		meta := neutralMetadata()
		for _, t := range w.Metadata.DetectedTopics {
			if t = strings.TrimSpace(t); t != "" {
				meta.DetectedTopics = append(meta.DetectedTopics, t)
			}
		}
		if s := strings.TrimSpace(w.Metadata.DetectedSentiment); s != "" {
			meta.DetectedSentiment = s
		}
		if s := strings.TrimSpace(w.Metadata.LanguageComplexity); s != "" {
			meta.LanguageComplexity = strings.ToLower(s)
		}
		if s := strings.TrimSpace(w.Metadata.ReadingLevel); s != "" {
			meta.ReadingLevel = s
		}
		out.Metadata = meta
	}
	if len(errs) > 0 {
		return Analysis{}, fmt.Errorf("invalid analyzer response: %s", strings.Join(errs, "; "))
	}
	return out, nil
}

func stripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
