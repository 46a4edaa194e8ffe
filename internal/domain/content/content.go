package content

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	MetaTemplateID      = "template_id"
	MetaTemplateVersion = "template_version"
	MetaGeneratedBy     = "generated_by"
)

type Content struct {
	ID                uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	AgencyWorkspaceID uuid.UUID      `gorm:"type:uuid;not null;index" json:"agencyWorkspaceId"`
	ClientWorkspaceID *uuid.UUID     `gorm:"type:uuid;index" json:"clientWorkspaceId,omitempty"`
	Title             string         `json:"title,omitempty"`
	Text              string         `gorm:"type:text;not null" json:"text"`
	Platform          string         `json:"platform,omitempty"`
	Metadata          datatypes.JSON `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt         time.Time      `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt         time.Time      `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}

func (Content) TableName() string { return "content_item" }

func (c *Content) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TemplateRef is the generation provenance recorded in Metadata.
type TemplateRef struct {
	TemplateID      string `json:"template_id,omitempty"`
	TemplateVersion int    `json:"template_version,omitempty"`
	GeneratedBy     string `json:"generated_by,omitempty"`
}

func (c *Content) TemplateRef() TemplateRef {
	var ref TemplateRef
	if len(c.Metadata) == 0 {
		return ref
	}
	_ = json.Unmarshal(c.Metadata, &ref)
	return ref
}

// TemplateUUID returns the generating template id, or nil when absent or malformed.
func (c *Content) TemplateUUID() *uuid.UUID {
	raw := strings.TrimSpace(c.TemplateRef().TemplateID)
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}
