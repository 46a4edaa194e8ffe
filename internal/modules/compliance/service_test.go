package compliance

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	types "github.com/yungbote/click-backend/internal/domain"
	"github.com/yungbote/click-backend/internal/platform/apierr"
	"github.com/yungbote/click-backend/internal/platform/logger"
)

type mapLoader map[uuid.UUID]*types.AITemplate

func (m mapLoader) Get(_ context.Context, id uuid.UUID) (*types.AITemplate, error) {
	if t, ok := m[id]; ok {
		return t, nil
	}
	return nil, apierr.NotFound("template_not_found", errors.New("template not found"))
}

func TestServiceCheckAndFix(t *testing.T) {
	id := uuid.New()
	svc := NewService(ServiceDeps{
		Log: logger.Nop(),
		Templates: mapLoader{id: newTemplate(
			[]types.Guardrail{{Type: types.GuardrailAvoidPhrase, Value: "trust me", Severity: types.SeverityError}},
			types.BrandStyle{},
			types.ContentRules{RequireCTA: true},
		)},
	})
	ctx := context.Background()

	report, err := svc.CheckContentCompliance(ctx, "Best deal, trust me", id)
	require.NoError(t, err)
	assert.False(t, report.IsCompliant)
	assert.Len(t, report.Violations, 2)
	assert.Equal(t, 60, report.Score)

	fixed, err := svc.AutoFixContent(ctx, "Best deal, trust me", &id, nil)
	require.NoError(t, err)
	assert.Equal(t, "Best deal, [REMOVED] Learn more.", fixed.Fixed)

	explicit, err := svc.AutoFixContent(ctx, "Best deal, trust me", nil, []Violation{})
	require.NoError(t, err)
	assert.False(t, explicit.Changed)

	suggestions, err := svc.Suggestions(ctx, "Best deal", id)
	require.NoError(t, err)
	assert.NotEmpty(t, suggestions)
}

func TestServiceErrors(t *testing.T) {
	svc := NewService(ServiceDeps{Templates: mapLoader{}})
	ctx := context.Background()

	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"missing content", func() error { _, err := svc.CheckContentCompliance(ctx, "", uuid.New()); return err }(), http.StatusBadRequest},
		{"missing template id", func() error { _, err := svc.CheckContentCompliance(ctx, "x", uuid.Nil); return err }(), http.StatusBadRequest},
		{"unknown template", func() error { _, err := svc.CheckContentCompliance(ctx, "x", uuid.New()); return err }(), http.StatusNotFound},
		{"unknown template suggestions", func() error { _, err := svc.Suggestions(ctx, "x", uuid.New()); return err }(), http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var ae *apierr.Error
			require.True(t, errors.As(tc.err, &ae))
			assert.Equal(t, tc.status, ae.Status)
		})
	}
}
