package confidence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/click-backend/internal/data/repos/testutil"
	types "github.com/yungbote/click-backend/internal/domain"
	"github.com/yungbote/click-backend/internal/platform/dbctx"
)

func TestConfidenceScoreRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewConfidenceScoreRepo(db, testutil.Logger(t))

	contentID := uuid.New()
	otherContent := uuid.New()
	templateID := uuid.New()
	base := time.Now().Add(-time.Hour).UTC()

	if got, err := repo.GetLatestByContentID(dbc, contentID); err != nil || got != nil {
		t.Fatalf("GetLatestByContentID(empty): got=%v err=%v", got, err)
	}

	s1 := testutil.SeedScore(t, ctx, tx, contentID, &templateID, 60, 20, base)
	s2 := testutil.SeedScore(t, ctx, tx, contentID, &templateID, 80, 10, base.Add(time.Minute))
	s3 := testutil.SeedScore(t, ctx, tx, contentID, nil, 90, 5, base.Add(2*time.Minute))
	testutil.SeedScore(t, ctx, tx, otherContent, &templateID, 70, 30, base.Add(3*time.Minute))

	latest, err := repo.GetLatestByContentID(dbc, contentID)
	if err != nil || latest == nil || latest.ID != s3.ID {
		t.Fatalf("GetLatestByContentID: got=%v err=%v", latest, err)
	}

	prev, err := repo.GetPreviousByContentID(dbc, contentID, s3)
	if err != nil || prev == nil || prev.ID != s2.ID {
		t.Fatalf("GetPreviousByContentID(s3): got=%v err=%v", prev, err)
	}
	prev, err = repo.GetPreviousByContentID(dbc, contentID, s1)
	if err != nil || prev != nil {
		t.Fatalf("GetPreviousByContentID(s1): want nil got=%v err=%v", prev, err)
	}

	rows, err := repo.ListByContentID(dbc, contentID, 2)
	if err != nil || len(rows) != 2 || rows[0].ID != s3.ID || rows[1].ID != s2.ID {
		t.Fatalf("ListByContentID: err=%v len=%d", err, len(rows))
	}

	rows, err = repo.ListByContentIDs(dbc, []uuid.UUID{contentID, otherContent}, nil, nil)
	if err != nil || len(rows) != 4 {
		t.Fatalf("ListByContentIDs: err=%v len=%d", err, len(rows))
	}
	since := base.Add(30 * time.Second)
	until := base.Add(150 * time.Second)
	rows, err = repo.ListByContentIDs(dbc, []uuid.UUID{contentID}, &since, &until)
	if err != nil || len(rows) != 2 {
		t.Fatalf("ListByContentIDs(period): err=%v len=%d", err, len(rows))
	}

	rows, err = repo.ListByTemplateID(dbc, templateID, nil, nil)
	if err != nil || len(rows) != 3 {
		t.Fatalf("ListByTemplateID: err=%v len=%d", err, len(rows))
	}
}

func TestConfidenceScoreRepoEnforcesReviewInvariant(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewConfidenceScoreRepo(db, testutil.Logger(t))

	row := &types.ConfidenceScore{
		ContentID:           uuid.New(),
		AspectConfidence:    datatypes.NewJSONType(types.AspectConfidence{Tone: 90, Humor: 90, Sarcasm: 90, Sensitivity: 35, BrandAlignment: 90, Clarity: 90, Engagement: 90}),
		ConfidenceBreakdown: datatypes.NewJSONType(types.ConfidenceBreakdown{TextAnalysis: 90, ContextAnalysis: 90, BrandCompliance: 90, PlatformFit: 90}),
		UncertaintyFlags: datatypes.JSONSlice[types.UncertaintyFlag]{
			{Type: types.FlagSensitiveTopic, Severity: types.FlagSeverityCritical},
		},
		EditEffort:        10,
		OverallConfidence: 12,
		NeedsHumanReview:  false,
	}
	if _, err := repo.Create(dbc, row); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByID(dbc, row.ID)
	if err != nil || got == nil {
		t.Fatalf("GetByID: got=%v err=%v", got, err)
	}
	if !got.NeedsHumanReview {
		t.Fatalf("stored score must need review with a critical flag")
	}
	if got.ReviewReason != "High priority flags: sensitive_topic" {
		t.Fatalf("ReviewReason: got=%q", got.ReviewReason)
	}
	if got.OverallConfidence != 86 {
		t.Fatalf("OverallConfidence: want=86 got=%d", got.OverallConfidence)
	}
	if got.Model != "gpt-4" {
		t.Fatalf("Model default: got=%q", got.Model)
	}

	got.EditEffort = 99
	if err := tx.WithContext(ctx).Save(got).Error; !errors.Is(err, types.ErrScoreImmutable) {
		t.Fatalf("Save existing score: want ErrScoreImmutable got=%v", err)
	}
}

func TestConfidenceScoreRepoCreateRequiresContent(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewConfidenceScoreRepo(db, testutil.Logger(t))

	if _, err := repo.Create(dbctx.Context{Ctx: context.Background(), Tx: tx}, &types.ConfidenceScore{}); err == nil {
		t.Fatalf("expected error for missing contentId")
	}
}
