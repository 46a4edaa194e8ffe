package templates

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/click-backend/internal/domain"
	"github.com/yungbote/click-backend/internal/platform/dbctx"
	"github.com/yungbote/click-backend/internal/platform/logger"
)

type AITemplateRepo interface {
	Create(dbc dbctx.Context, row *types.AITemplate) (*types.AITemplate, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.AITemplate, error)

	// ListActive filters by agency workspace and, when set, client workspace.
	ListActive(dbc dbctx.Context, agencyWorkspaceID uuid.UUID, clientWorkspaceID *uuid.UUID) ([]*types.AITemplate, error)
	ListAllActive(dbc dbctx.Context) ([]*types.AITemplate, error)

	Update(dbc dbctx.Context, row *types.AITemplate) error
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
	// IncrementUsage bumps usage_count in SQL so concurrent generations never lose a count.
	IncrementUsage(dbc dbctx.Context, id uuid.UUID, at time.Time) error
	Deactivate(dbc dbctx.Context, id uuid.UUID) error
}

type aiTemplateRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAITemplateRepo(db *gorm.DB, baseLog *logger.Logger) AITemplateRepo {
	return &aiTemplateRepo{db: db, log: baseLog.With("repo", "AITemplateRepo")}
}

func (r *aiTemplateRepo) Create(dbc dbctx.Context, row *types.AITemplate) (*types.AITemplate, error) {
	if row == nil {
		return nil, errors.New("template required")
	}
	if err := dbc.Conn(r.db).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *aiTemplateRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.AITemplate, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var out types.AITemplate
	if err := dbc.Conn(r.db).Where("id = ?", id).First(&out).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &out, nil
}

func (r *aiTemplateRepo) ListActive(dbc dbctx.Context, agencyWorkspaceID uuid.UUID, clientWorkspaceID *uuid.UUID) ([]*types.AITemplate, error) {
	var out []*types.AITemplate
	if agencyWorkspaceID == uuid.Nil {
		return out, nil
	}
	q := dbc.Conn(r.db).Where("agency_workspace_id = ? AND is_active = ?", agencyWorkspaceID, true)
	if clientWorkspaceID != nil && *clientWorkspaceID != uuid.Nil {
		q = q.Where("client_workspace_id = ?", *clientWorkspaceID)
	}
	if err := q.
		Order("is_default DESC").
		Order("usage_count DESC").
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *aiTemplateRepo) ListAllActive(dbc dbctx.Context) ([]*types.AITemplate, error) {
	var out []*types.AITemplate
	if err := dbc.Conn(r.db).
		Where("is_active = ?", true).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *aiTemplateRepo) Update(dbc dbctx.Context, row *types.AITemplate) error {
	if row == nil || row.ID == uuid.Nil {
		return errors.New("template id required")
	}
	// Usage counters are owned by IncrementUsage.
	return dbc.Conn(r.db).Omit("usage_count", "last_used", "created_at").Save(row).Error
}

func (r *aiTemplateRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now().UTC()
	}
	return dbc.Conn(r.db).
		Model(&types.AITemplate{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *aiTemplateRepo) IncrementUsage(dbc dbctx.Context, id uuid.UUID, at time.Time) error {
	if id == uuid.Nil {
		return nil
	}
	return dbc.Conn(r.db).
		Model(&types.AITemplate{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"usage_count": gorm.Expr("usage_count + ?", 1),
			"last_used":   at,
			"updated_at":  at,
		}).Error
}

func (r *aiTemplateRepo) Deactivate(dbc dbctx.Context, id uuid.UUID) error {
	return r.UpdateFields(dbc, id, map[string]interface{}{"is_active": false})
}
