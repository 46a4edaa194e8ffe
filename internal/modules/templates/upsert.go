package templates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	types "github.com/yungbote/click-backend/internal/domain"
	"github.com/yungbote/click-backend/internal/platform/apierr"
	"github.com/yungbote/click-backend/internal/platform/dbctx"
)

// UpsertInput creates a template when TemplateID is nil and updates it otherwise.
// On update, empty scalars are left alone, the four object sections are merged
// key by key, and a non-nil Guardrails list replaces the stored one.
type UpsertInput struct {
	TemplateID *uuid.UUID `json:"templateId,omitempty"`

	AgencyWorkspaceID uuid.UUID  `json:"agencyWorkspaceId"`
	ClientWorkspaceID *uuid.UUID `json:"clientWorkspaceId,omitempty"`

	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Prompt        string  `json:"prompt"`
	SystemMessage *string `json:"systemMessage,omitempty"`

	Guardrails    []types.Guardrail `json:"guardrails,omitempty"`
	BrandStyle    map[string]any    `json:"brandStyle,omitempty"`
	ContentRules  map[string]any    `json:"contentRules,omitempty"`
	PlatformRules map[string]any    `json:"platformRules,omitempty"`
	Settings      map[string]any    `json:"settings,omitempty"`

	IsDefault *bool      `json:"isDefault,omitempty"`
	CreatedBy *uuid.UUID `json:"createdBy,omitempty"`
}

func (s *Service) CreateOrUpdate(ctx context.Context, in UpsertInput) (*types.AITemplate, error) {
	if in.TemplateID != nil && *in.TemplateID != uuid.Nil {
		return s.update(ctx, *in.TemplateID, in)
	}
	return s.create(ctx, in)
}

func (s *Service) create(ctx context.Context, in UpsertInput) (*types.AITemplate, error) {
	if in.AgencyWorkspaceID == uuid.Nil {
		return nil, apierr.BadRequest("missing_agency_workspace_id", errors.New("agencyWorkspaceId required"))
	}
	row, err := NewTemplate(in)
	if err != nil {
		return nil, err
	}

	created, err := s.deps.Templates.Create(dbctx.Context{Ctx: ctx}, row)
	if err != nil {
		return nil, apierr.Internal("create_template_failed", err)
	}
	s.log.Info("AI template saved", "template_id", created.ID, "agency_workspace_id", created.AgencyWorkspaceID)
	return created, nil
}

// NewTemplate builds an unsaved active template from in, applying default settings.
func NewTemplate(in UpsertInput) (*types.AITemplate, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, apierr.BadRequest("missing_name", errors.New("name required"))
	}
	if strings.TrimSpace(in.Prompt) == "" {
		return nil, apierr.BadRequest("missing_prompt", errors.New("prompt required"))
	}

	brand, err := mergeSection(types.BrandStyle{}, in.BrandStyle)
	if err != nil {
		return nil, invalidTemplate(fmt.Errorf("brandStyle: %w", err))
	}
	rules, err := mergeSection(types.ContentRules{}, in.ContentRules)
	if err != nil {
		return nil, invalidTemplate(fmt.Errorf("contentRules: %w", err))
	}
	platform, err := mergeSection(types.PlatformRules{}, in.PlatformRules)
	if err != nil {
		return nil, invalidTemplate(fmt.Errorf("platformRules: %w", err))
	}
	settings, err := mergeSection(types.DefaultTemplateSettings(), in.Settings)
	if err != nil {
		return nil, invalidTemplate(fmt.Errorf("settings: %w", err))
	}

	guardrails := in.Guardrails
	if guardrails == nil {
		guardrails = []types.Guardrail{}
	}
	row := &types.AITemplate{
		AgencyWorkspaceID: in.AgencyWorkspaceID,
		ClientWorkspaceID: in.ClientWorkspaceID,
		Name:              strings.TrimSpace(in.Name),
		Description:       in.Description,
		Prompt:            in.Prompt,
		Guardrails:        datatypes.JSONSlice[types.Guardrail](guardrails),
		BrandStyle:        datatypes.NewJSONType(brand),
		ContentRules:      datatypes.NewJSONType(rules),
		PlatformRules:     datatypes.NewJSONType(platform),
		Settings:          datatypes.NewJSONType(settings),
		IsActive:          true,
		CreatedBy:         in.CreatedBy,
	}
	if in.SystemMessage != nil {
		row.SystemMessage = *in.SystemMessage
	}
	if in.IsDefault != nil {
		row.IsDefault = *in.IsDefault
	}
	if err := row.Validate(); err != nil {
		return nil, invalidTemplate(err)
	}
	return row, nil
}

func (s *Service) update(ctx context.Context, id uuid.UUID, in UpsertInput) (*types.AITemplate, error) {
	dbc := dbctx.Context{Ctx: ctx}
	row, err := s.deps.Templates.GetByID(dbc, id)
	if err != nil {
		return nil, apierr.Internal("load_template_failed", err)
	}
	if row == nil {
		return nil, notFound()
	}

	if v := strings.TrimSpace(in.Name); v != "" {
		row.Name = v
	}
	if in.Description != "" {
		row.Description = in.Description
	}
	if strings.TrimSpace(in.Prompt) != "" {
		row.Prompt = in.Prompt
	}
	if in.SystemMessage != nil {
		row.SystemMessage = *in.SystemMessage
	}
	if in.ClientWorkspaceID != nil {
		row.ClientWorkspaceID = in.ClientWorkspaceID
	}
	if in.IsDefault != nil {
		row.IsDefault = *in.IsDefault
	}
	if in.Guardrails != nil {
		row.Guardrails = datatypes.JSONSlice[types.Guardrail](in.Guardrails)
	}

	brand, err := mergeSection(row.BrandStyle.Data(), in.BrandStyle)
	if err != nil {
		return nil, invalidTemplate(fmt.Errorf("brandStyle: %w", err))
	}
	rules, err := mergeSection(row.ContentRules.Data(), in.ContentRules)
	if err != nil {
		return nil, invalidTemplate(fmt.Errorf("contentRules: %w", err))
	}
	platform, err := mergeSection(row.PlatformRules.Data(), in.PlatformRules)
	if err != nil {
		return nil, invalidTemplate(fmt.Errorf("platformRules: %w", err))
	}
	settings, err := mergeSection(row.Settings.Data(), in.Settings)
	if err != nil {
		return nil, invalidTemplate(fmt.Errorf("settings: %w", err))
	}
	row.BrandStyle = datatypes.NewJSONType(brand)
	row.ContentRules = datatypes.NewJSONType(rules)
	row.PlatformRules = datatypes.NewJSONType(platform)
	row.Settings = datatypes.NewJSONType(settings)

	if err := row.Validate(); err != nil {
		return nil, invalidTemplate(err)
	}
	if err := s.deps.Templates.Update(dbc, row); err != nil {
		return nil, apierr.Internal("update_template_failed", err)
	}
	s.invalidate(ctx, id)
	s.log.Info("AI template saved", "template_id", row.ID, "agency_workspace_id", row.AgencyWorkspaceID)
	return row, nil
}

// mergeSection overlays patch onto cur one top-level key at a time.
func mergeSection[T any](cur T, patch map[string]any) (T, error) {
	if len(patch) == 0 {
		return cur, nil
	}
	base := map[string]any{}
	raw, err := json.Marshal(cur)
	if err != nil {
		return cur, err
	}
	if err := json.Unmarshal(raw, &base); err != nil {
		return cur, err
	}
	if base == nil {
		base = map[string]any{}
	}
	for k, v := range patch {
		base[k] = v
	}
	merged, err := json.Marshal(base)
	if err != nil {
		return cur, err
	}
	var out T
	if err := json.Unmarshal(merged, &out); err != nil {
		return cur, err
	}
	return out, nil
}
