package content

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/click-backend/internal/data/repos/testutil"
	types "github.com/yungbote/click-backend/internal/domain"
	"github.com/yungbote/click-backend/internal/platform/dbctx"
)

func TestContentRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewContentRepo(db, testutil.Logger(t))

	row := &types.Content{AgencyWorkspaceID: uuid.New(), Text: "hello"}
	if _, err := repo.Create(dbc, row); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if row.ID == uuid.Nil || string(row.Metadata) != "{}" {
		t.Fatalf("Create defaults: id=%s metadata=%s", row.ID, row.Metadata)
	}
	if got, err := repo.GetByID(dbc, row.ID); err != nil || got == nil || got.Text != "hello" {
		t.Fatalf("GetByID: got=%v err=%v", got, err)
	}
	if got, err := repo.GetByID(dbc, uuid.New()); err != nil || got != nil {
		t.Fatalf("GetByID(missing): got=%v err=%v", got, err)
	}
}

func TestContentRepoListIDsByTemplate(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewContentRepo(db, testutil.Logger(t))

	tplID := uuid.New()
	c1 := testutil.SeedContent(t, ctx, tx, "a", map[string]any{types.MetaTemplateID: tplID.String(), types.MetaTemplateVersion: 1})
	c2 := testutil.SeedContent(t, ctx, tx, "b", map[string]any{types.MetaTemplateID: tplID.String(), types.MetaTemplateVersion: 2})
	testutil.SeedContent(t, ctx, tx, "c", map[string]any{types.MetaTemplateID: uuid.NewString(), types.MetaTemplateVersion: 1})
	testutil.SeedContent(t, ctx, tx, "d", nil)

	ids, err := repo.ListIDsByTemplate(dbc, tplID, 0)
	if err != nil || len(ids) != 2 {
		t.Fatalf("ListIDsByTemplate(any): err=%v len=%d", err, len(ids))
	}

	ids, err = repo.ListIDsByTemplate(dbc, tplID, 2)
	if err != nil || len(ids) != 1 || ids[0] != c2.ID {
		t.Fatalf("ListIDsByTemplate(v2): err=%v ids=%v", err, ids)
	}

	rows, err := repo.GetByIDs(dbc, []uuid.UUID{c1.ID, c2.ID})
	if err != nil || len(rows) != 2 {
		t.Fatalf("GetByIDs: err=%v len=%d", err, len(rows))
	}
}
