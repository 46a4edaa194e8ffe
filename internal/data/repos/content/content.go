package content

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/click-backend/internal/domain"
	"github.com/yungbote/click-backend/internal/platform/dbctx"
	"github.com/yungbote/click-backend/internal/platform/logger"
)

type ContentRepo interface {
	Create(dbc dbctx.Context, row *types.Content) (*types.Content, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Content, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Content, error)
	// ListIDsByTemplate matches metadata.template_id, and metadata.template_version when version > 0.
	ListIDsByTemplate(dbc dbctx.Context, templateID uuid.UUID, version int) ([]uuid.UUID, error)
}

type contentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewContentRepo(db *gorm.DB, baseLog *logger.Logger) ContentRepo {
	return &contentRepo{db: db, log: baseLog.With("repo", "ContentRepo")}
}

func (r *contentRepo) Create(dbc dbctx.Context, row *types.Content) (*types.Content, error) {
	if row == nil {
		return nil, errors.New("content required")
	}
	if len(row.Metadata) == 0 {
		row.Metadata = datatypes.JSON([]byte("{}"))
	}
	if err := dbc.Conn(r.db).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *contentRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Content, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	rows, err := r.GetByIDs(dbc, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *contentRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Content, error) {
	var out []*types.Content
	if len(ids) == 0 {
		return out, nil
	}
	if err := dbc.Conn(r.db).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *contentRepo) ListIDsByTemplate(dbc dbctx.Context, templateID uuid.UUID, version int) ([]uuid.UUID, error) {
	var out []uuid.UUID
	if templateID == uuid.Nil {
		return out, nil
	}
	q := dbc.Conn(r.db).
		Model(&types.Content{}).
		Where(datatypes.JSONQuery("metadata").Equals(templateID.String(), types.MetaTemplateID))
	if version > 0 {
		q = q.Where(datatypes.JSONQuery("metadata").Equals(version, types.MetaTemplateVersion))
	}
	if err := q.Pluck("id", &out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
