package templates

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type VersionPerformance struct {
	UsageCount        int      `json:"usageCount"`
	AverageConfidence float64  `json:"averageConfidence"`
	AverageEditEffort float64  `json:"averageEditEffort"`
	ReviewRate        float64  `json:"reviewRate"`
	UserSatisfaction  *float64 `json:"userSatisfaction,omitempty"`
}

// AITemplateVersion is an immutable snapshot of a template.
type AITemplateVersion struct {
	ID                uuid.UUID                              `gorm:"type:uuid;primaryKey" json:"id"`
	TemplateID        uuid.UUID                              `gorm:"type:uuid;not null;uniqueIndex:idx_template_version,priority:1" json:"templateId"`
	VersionNumber     int                                    `gorm:"not null;uniqueIndex:idx_template_version,priority:2" json:"versionNumber"`
	Snapshot          datatypes.JSON                         `gorm:"type:jsonb;not null" json:"snapshot"`
	ChangeDescription string                                 `gorm:"type:text" json:"changeDescription,omitempty"`
	Performance       datatypes.JSONType[VersionPerformance] `json:"performance"`
	CreatedBy         *uuid.UUID                             `gorm:"type:uuid" json:"createdBy,omitempty"`
	CreatedAt         time.Time                              `gorm:"not null;autoCreateTime" json:"createdAt"`
}

func (AITemplateVersion) TableName() string { return "ai_template_version" }

func (v *AITemplateVersion) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
