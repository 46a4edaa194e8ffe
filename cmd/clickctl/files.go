package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	types "github.com/yungbote/click-backend/internal/domain"
	"github.com/yungbote/click-backend/internal/modules/templates"
)

// loadTemplate reads a YAML template using the same field names as the
// templates API. A missing agencyWorkspaceId gets a throwaway id.
func loadTemplate(path string) (*types.AITemplate, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template: %w", err)
	}
	return parseTemplate(raw)
}

func parseTemplate(raw []byte) (*types.AITemplate, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse template yaml: %w", err)
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("convert template: %w", err)
	}
	var in templates.UpsertInput
	if err := json.Unmarshal(b, &in); err != nil {
		return nil, fmt.Errorf("decode template: %w", err)
	}
	if in.AgencyWorkspaceID == uuid.Nil {
		in.AgencyWorkspaceID = uuid.New()
	}
	tmpl, err := templates.NewTemplate(in)
	if err != nil {
		return nil, err
	}
	tmpl.ID = uuid.New()
	return tmpl, nil
}

// readText returns inline text when set, otherwise the file at path ("-" reads stdin).
func readText(inline, path string, stdin io.Reader) (string, error) {
	if inline != "" {
		return inline, nil
	}
	switch path {
	case "":
		return "", fmt.Errorf("content required: pass --text or --content")
	case "-":
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return strings.TrimRight(string(b), "\n"), nil
	default:
		b, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read content: %w", err)
		}
		return strings.TrimRight(string(b), "\n"), nil
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
