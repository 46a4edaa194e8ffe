package compliance

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	types "github.com/yungbote/click-backend/internal/domain"
)

func TestAutoFixNoViolationsIsIdentity(t *testing.T) {
	content := "Already compliant. Learn more."
	res := AutoFix(content, nil)
	assert.False(t, res.Changed)
	assert.Equal(t, content, res.Fixed)
	assert.Equal(t, content, res.Original)
	assert.Empty(t, res.Applied)
}

func TestAutoFixScenarioA(t *testing.T) {
	tmpl := newTemplate(
		[]types.Guardrail{{Type: types.GuardrailAvoidPhrase, Value: "trust me", Severity: types.SeverityError}},
		types.BrandStyle{},
		types.ContentRules{RequireCTA: true},
	)
	content := "Buy now!!! This is the best deal ever, Trust Me."
	report := CheckCompliance(content, tmpl)

	res := AutoFix(content, report.Violations)
	assert.True(t, res.Changed)
	assert.Equal(t, "Buy now!!! This is the best deal ever, [REMOVED].", res.Fixed)

	again := CheckCompliance(res.Fixed, tmpl)
	assert.True(t, again.IsCompliant)
}

func TestAutoFixAppliesEveryKind(t *testing.T) {
	violations := []Violation{
		{Type: ViolationContentRules, Severity: types.SeverityError, Message: "Missing call-to-action (CTA)"},
		{Type: ViolationContentRules, Severity: types.SeverityError, Message: "Missing hashtags (found 1, need 3)"},
		{Type: ViolationRequirePhrase, Severity: types.SeverityError, Message: `Missing required phrase: "#ad"`},
		{Type: ViolationBrandStyle, Severity: types.SeverityWarning, Message: `Missing required element: "Acme"`},
		{Type: ViolationBrandStyle, Severity: types.SeverityError, Message: `Found prohibited element: "deal"`},
		{Type: ViolationAvoidPhrase, Severity: types.SeverityError, Message: `Found avoided phrase: "best deal ever"`},
		{Type: ViolationContentRules, Severity: types.SeverityWarning, Message: "Too many hashtags (9 > 2)"},
	}
	content := "The best deal ever, and another deal. #one"
	want := "The [REMOVED], and another [REMOVED]. #one #ad Acme #hashtag #hashtag Learn more."

	res := AutoFix(content, violations)
	assert.Equal(t, want, res.Fixed)
	assert.True(t, res.Changed)
	assert.Len(t, res.Applied, 6)

	r := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		shuffled := append([]Violation(nil), violations...)
		r.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		assert.Equal(t, want, AutoFix(content, shuffled).Fixed)
	}
}

func TestAutoFixSkipsRequiredPhraseAlreadyPresent(t *testing.T) {
	res := AutoFix("Made by ACME", []Violation{
		{Type: ViolationRequirePhrase, Message: `Missing required phrase: "acme"`},
	})
	assert.False(t, res.Changed)
}

func TestAutoFixEscapesRegexCharacters(t *testing.T) {
	res := AutoFix("Price (USD) is $5.00 today", []Violation{
		{Type: ViolationAvoidPhrase, Message: `Found avoided phrase: "$5.00"`},
		{Type: ViolationAvoidPhrase, Message: `Found avoided phrase: "(usd)"`},
	})
	assert.Equal(t, "Price [REMOVED] is [REMOVED] today", res.Fixed)
}

func TestAutoFixDoesNotRewriteRemovalMarkers(t *testing.T) {
	tmpl := newTemplate(
		[]types.Guardrail{
			{Type: types.GuardrailAvoidPhrase, Value: "trust me", Severity: types.SeverityError},
			{Type: types.GuardrailAvoidPhrase, Value: "remove", Severity: types.SeverityError},
		},
		types.BrandStyle{},
		types.ContentRules{},
	)
	content := "Please remove this, trust me."
	report := CheckCompliance(content, tmpl)

	res := AutoFix(content, report.Violations)
	assert.Equal(t, "Please [REMOVED] this, [REMOVED].", res.Fixed)
	assert.Equal(t, []string{`removed "trust me"`, `removed "remove"`}, res.Applied)
}

func TestHashtagsNeeded(t *testing.T) {
	assert.Equal(t, 2, hashtagsNeeded("Missing hashtags (found 1, need 3)"))
	assert.Equal(t, 4, hashtagsNeeded("Missing hashtags: 4"))
	assert.Equal(t, 0, hashtagsNeeded("Missing hashtags"))
	assert.True(t, strings.HasPrefix("Missing hashtags (found 0, need 1)", "Missing hashtags"))
}
