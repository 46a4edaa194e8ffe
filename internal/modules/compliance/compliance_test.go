package compliance

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	types "github.com/yungbote/click-backend/internal/domain"
)

func newTemplate(guardrails []types.Guardrail, brand types.BrandStyle, rules types.ContentRules) *types.AITemplate {
	return &types.AITemplate{
		Name:         "t",
		Prompt:       "{{input}}",
		Guardrails:   datatypes.JSONSlice[types.Guardrail](guardrails),
		BrandStyle:   datatypes.NewJSONType(brand),
		ContentRules: datatypes.NewJSONType(rules),
	}
}

func TestScenarioAForbiddenPhraseWithCTA(t *testing.T) {
	tmpl := newTemplate(
		[]types.Guardrail{{Type: types.GuardrailAvoidPhrase, Value: "trust me", Severity: types.SeverityError}},
		types.BrandStyle{},
		types.ContentRules{RequireCTA: true},
	)
	report := CheckCompliance("Buy now!!! This is the best deal ever, trust me.", tmpl)

	assert.False(t, report.IsCompliant)
	want := []Violation{{
		Type:       ViolationAvoidPhrase,
		Severity:   types.SeverityError,
		Message:    `Found avoided phrase: "trust me"`,
		Suggestion: "Remove or replace this phrase",
	}}
	if diff := cmp.Diff(want, report.Violations); diff != "" {
		t.Fatalf("violations mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, report.ContentRules.IsCompliant)
	assert.Empty(t, report.ContentRules.Violations)
	assert.Equal(t, 80, report.Score)
}

func TestValidateGuardrails(t *testing.T) {
	guardrails := []types.Guardrail{
		{Type: types.GuardrailAvoidPhrase, Value: "Guaranteed", Severity: types.SeverityWarning},
		{Type: types.GuardrailRequirePhrase, Value: "#ad", Description: "Disclose sponsorship", Severity: types.SeverityBlock},
		{Type: types.GuardrailToneRequirement, Value: "friendly"},
		{Type: types.GuardrailAvoidPhrase, Value: "  "},
	}

	warnOnly := ValidateGuardrails("GUARANTEED results #AD", guardrails)
	require.Len(t, warnOnly.Violations, 1)
	assert.Equal(t, types.SeverityWarning, warnOnly.Violations[0].Severity)
	assert.True(t, warnOnly.IsValid)

	blocked := ValidateGuardrails("great results", guardrails)
	require.Len(t, blocked.Violations, 1)
	assert.Equal(t, `Missing required phrase: "#ad"`, blocked.Violations[0].Message)
	assert.Equal(t, "Disclose sponsorship", blocked.Violations[0].Suggestion)
	assert.False(t, blocked.IsValid)

	defaulted := ValidateGuardrails("guaranteed", []types.Guardrail{{Type: types.GuardrailAvoidPhrase, Value: "guaranteed"}})
	require.Len(t, defaulted.Violations, 1)
	assert.Equal(t, types.SeverityWarning, defaulted.Violations[0].Severity)
	assert.True(t, defaulted.IsValid)

	empty := ValidateGuardrails("anything", nil)
	assert.True(t, empty.IsValid)
	assert.NotNil(t, empty.Violations)
}

func TestCheckBrandStyle(t *testing.T) {
	got := CheckBrandStyle("Our Cheap deal is here", types.BrandStyle{
		DontUse:       []string{"cheap"},
		AlwaysInclude: []string{"Acme"},
		NeverInclude:  []string{"DEAL"},
	})
	want := []Violation{
		{Type: ViolationBrandStyle, Severity: types.SeverityError, Message: `Found avoided phrase: "cheap"`, Suggestion: `Remove or replace "cheap"`},
		{Type: ViolationBrandStyle, Severity: types.SeverityWarning, Message: `Missing required element: "Acme"`, Suggestion: `Add "Acme" to content`},
		{Type: ViolationBrandStyle, Severity: types.SeverityError, Message: `Found prohibited element: "DEAL"`, Suggestion: `Remove "DEAL" from content`},
	}
	if diff := cmp.Diff(want, got.Violations); diff != "" {
		t.Fatalf("violations mismatch (-want +got):\n%s", diff)
	}
	assert.False(t, got.IsCompliant)
}

func TestCheckContentRules(t *testing.T) {
	rules := types.ContentRules{
		MinLength:       20,
		RequireHashtags: true,
		MinHashtags:     2,
		RequireCTA:      true,
	}
	got := CheckContentRules("short #one", rules)
	msgs := make([]string, 0, len(got.Violations))
	for _, v := range got.Violations {
		msgs = append(msgs, v.Message)
	}
	assert.Equal(t, []string{
		"Content is too short (10 < 20)",
		"Missing hashtags (found 1, need 2)",
		"Missing call-to-action (CTA)",
	}, msgs)
	assert.Equal(t, "Add a CTA at the end", got.Violations[2].Suggestion)
	assert.False(t, got.IsCompliant)

	long := CheckContentRules(strings.Repeat("a", 30)+" #a #b #c click", types.ContentRules{MaxLength: 20, RequireHashtags: true, MaxHashtags: 2})
	require.Len(t, long.Violations, 2)
	assert.Equal(t, types.SeverityWarning, long.Violations[0].Severity)
	assert.Equal(t, "Too many hashtags (3 > 2)", long.Violations[1].Message)
	assert.True(t, long.IsCompliant)

	// hashtags are not counted unless required
	assert.Empty(t, CheckContentRules("no tags", types.ContentRules{MinHashtags: 3}).Violations)
}

func TestScoreBoundaries(t *testing.T) {
	assert.Equal(t, 100, Score(nil))
	assert.Equal(t, 75, Score([]Violation{{Severity: types.SeverityError}, {Severity: types.SeverityWarning}}))
	assert.Equal(t, 80, Score([]Violation{{Severity: types.SeverityBlock}}))

	many := make([]Violation, 6)
	for i := range many {
		many[i] = Violation{Severity: types.SeverityError}
	}
	assert.Equal(t, 0, Score(many))
}

func TestCheckComplianceNilTemplate(t *testing.T) {
	report := CheckCompliance("anything", nil)
	assert.True(t, report.IsCompliant)
	assert.Equal(t, 100, report.Score)
	assert.NotNil(t, report.Violations)
}

func TestOptimizationSuggestions(t *testing.T) {
	tmpl := newTemplate(nil, types.BrandStyle{}, types.ContentRules{MaxLength: 20, RequireCTA: true, CTAPlacement: types.CTAEnd})

	got := OptimizationSuggestions("Visit our shop. It is great", tmpl)
	var kinds []string
	for _, s := range got {
		kinds = append(kinds, s.Type)
	}
	assert.Equal(t, []string{"length", "engagement", "cta"}, kinds)

	roomy := newTemplate(nil, types.BrandStyle{}, types.ContentRules{MaxLength: 100, RequireCTA: true, CTAPlacement: types.CTAEnd})
	assert.Empty(t, OptimizationSuggestions("Fresh news! Learn more.", roomy))
	assert.Empty(t, OptimizationSuggestions("Hi?", nil))
}
