package content

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/click-backend/internal/data/repos"
	"github.com/yungbote/click-backend/internal/data/repos/testutil"
	"github.com/yungbote/click-backend/internal/platform/apierr"
)

func newService(t *testing.T) *Service {
	t.Helper()
	db := testutil.FreshDB(t)
	log := testutil.Logger(t)
	return NewService(repos.NewContentRepo(db, log), log)
}

func statusOf(t *testing.T, err error) (int, string) {
	t.Helper()
	var ae *apierr.Error
	require.True(t, errors.As(err, &ae), "want *apierr.Error got %T", err)
	return ae.Status, ae.Code
}

func TestCreateAndGet(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	tid := uuid.New()

	row, err := svc.Create(ctx, CreateInput{
		AgencyWorkspaceID: uuid.New(),
		Text:              "Big sale today",
		Platform:          "instagram",
		Metadata:          map[string]any{"template_id": tid.String()},
	})
	require.NoError(t, err)

	got, err := svc.Get(ctx, row.ID)
	require.NoError(t, err)
	assert.Equal(t, "Big sale today", got.Text)
	assert.Equal(t, "instagram", got.Platform)
	require.NotNil(t, got.TemplateUUID())
	assert.Equal(t, tid, *got.TemplateUUID())
}

func TestCreateValidation(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{Text: "x"})
	status, code := statusOf(t, err)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "missing_agency_workspace_id", code)

	_, err = svc.Create(ctx, CreateInput{AgencyWorkspaceID: uuid.New(), Text: "  "})
	_, code = statusOf(t, err)
	assert.Equal(t, "missing_text", code)
}

func TestGetMissing(t *testing.T) {
	svc := newService(t)
	_, err := svc.Get(context.Background(), uuid.New())
	status, code := statusOf(t, err)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "content_not_found", code)
}
