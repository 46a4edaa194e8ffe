package handlers

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func pathUUID(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param(name)))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s: %w", name, err)
	}
	return id, nil
}

// optionalUUID parses raw, returning nil for an empty string.
func optionalUUID(raw, field string) (*uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", field, err)
	}
	return &id, nil
}

// requiredUUID parses raw, returning uuid.Nil for an empty string so the
// service layer reports the missing field.
func requiredUUID(raw, field string) (uuid.UUID, error) {
	id, err := optionalUUID(raw, field)
	if err != nil || id == nil {
		return uuid.Nil, err
	}
	return *id, nil
}
