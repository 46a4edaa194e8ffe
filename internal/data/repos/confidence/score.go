package confidence

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/click-backend/internal/domain"
	"github.com/yungbote/click-backend/internal/platform/dbctx"
	"github.com/yungbote/click-backend/internal/platform/logger"
)

// ConfidenceScoreRepo is append-only: it exposes no update or delete.
type ConfidenceScoreRepo interface {
	Create(dbc dbctx.Context, row *types.ConfidenceScore) (*types.ConfidenceScore, error)

	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.ConfidenceScore, error)
	GetLatestByContentID(dbc dbctx.Context, contentID uuid.UUID) (*types.ConfidenceScore, error)
	GetPreviousByContentID(dbc dbctx.Context, contentID uuid.UUID, current *types.ConfidenceScore) (*types.ConfidenceScore, error)

	ListByContentID(dbc dbctx.Context, contentID uuid.UUID, limit int) ([]*types.ConfidenceScore, error)
	ListByContentIDs(dbc dbctx.Context, contentIDs []uuid.UUID, since, until *time.Time) ([]*types.ConfidenceScore, error)
	ListByTemplateID(dbc dbctx.Context, templateID uuid.UUID, since, until *time.Time) ([]*types.ConfidenceScore, error)
}

type confidenceScoreRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewConfidenceScoreRepo(db *gorm.DB, baseLog *logger.Logger) ConfidenceScoreRepo {
	return &confidenceScoreRepo{db: db, log: baseLog.With("repo", "ConfidenceScoreRepo")}
}

func (r *confidenceScoreRepo) Create(dbc dbctx.Context, row *types.ConfidenceScore) (*types.ConfidenceScore, error) {
	if row == nil {
		return nil, errors.New("confidence score required")
	}
	if row.ContentID == uuid.Nil {
		return nil, errors.New("contentId required")
	}
	if err := dbc.Conn(r.db).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *confidenceScoreRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.ConfidenceScore, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var out types.ConfidenceScore
	if err := dbc.Conn(r.db).Where("id = ?", id).First(&out).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &out, nil
}

func (r *confidenceScoreRepo) GetLatestByContentID(dbc dbctx.Context, contentID uuid.UUID) (*types.ConfidenceScore, error) {
	if contentID == uuid.Nil {
		return nil, nil
	}
	var out types.ConfidenceScore
	if err := dbc.Conn(r.db).
		Where("content_id = ?", contentID).
		Order("created_at DESC").
		Order("id DESC").
		First(&out).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &out, nil
}

// GetPreviousByContentID returns the newest score for contentID other than current
// that was created no later than current. Concurrent writers may interleave; the
// answer is best-effort by creation time.
func (r *confidenceScoreRepo) GetPreviousByContentID(dbc dbctx.Context, contentID uuid.UUID, current *types.ConfidenceScore) (*types.ConfidenceScore, error) {
	if contentID == uuid.Nil {
		return nil, nil
	}
	q := dbc.Conn(r.db).Where("content_id = ?", contentID)
	if current != nil {
		q = q.Where("id <> ?", current.ID)
		if !current.CreatedAt.IsZero() {
			q = q.Where("created_at <= ?", current.CreatedAt)
		}
	}
	var out types.ConfidenceScore
	if err := q.Order("created_at DESC").Order("id DESC").First(&out).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &out, nil
}

func (r *confidenceScoreRepo) ListByContentID(dbc dbctx.Context, contentID uuid.UUID, limit int) ([]*types.ConfidenceScore, error) {
	var out []*types.ConfidenceScore
	if contentID == uuid.Nil {
		return out, nil
	}
	q := dbc.Conn(r.db).
		Where("content_id = ?", contentID).
		Order("created_at DESC").
		Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *confidenceScoreRepo) ListByContentIDs(dbc dbctx.Context, contentIDs []uuid.UUID, since, until *time.Time) ([]*types.ConfidenceScore, error) {
	var out []*types.ConfidenceScore
	if len(contentIDs) == 0 {
		return out, nil
	}
	q := withPeriod(dbc.Conn(r.db).Where("content_id IN ?", contentIDs), since, until)
	if err := q.Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *confidenceScoreRepo) ListByTemplateID(dbc dbctx.Context, templateID uuid.UUID, since, until *time.Time) ([]*types.ConfidenceScore, error) {
	var out []*types.ConfidenceScore
	if templateID == uuid.Nil {
		return out, nil
	}
	q := withPeriod(dbc.Conn(r.db).Where("template_id = ?", templateID), since, until)
	if err := q.Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func withPeriod(q *gorm.DB, since, until *time.Time) *gorm.DB {
	if since != nil && !since.IsZero() {
		q = q.Where("created_at >= ?", *since)
	}
	if until != nil && !until.IsZero() {
		q = q.Where("created_at <= ?", *until)
	}
	return q
}
