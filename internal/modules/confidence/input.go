package confidence

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ContentInput is the text under analysis. It decodes from a bare JSON
// string or from an object carrying a "text" field.
type ContentInput struct {
	Text string `json:"text"`
}

func Text(s string) ContentInput { return ContentInput{Text: s} }

func (c *ContentInput) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		c.Text = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		c.Text = s
		return nil
	}
	if b[0] != '{' {
		return fmt.Errorf("content must be a string or an object with a text field")
	}
	var obj struct {
		Text *string `json:"text"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	if obj.Text != nil {
		c.Text = *obj.Text
	}
	return nil
}

func (c ContentInput) IsEmpty() bool { return strings.TrimSpace(c.Text) == "" }

// Context carries optional analysis hints.
type Context struct {
	Platform        string         `json:"platform,omitempty"`
	BrandGuidelines map[string]any `json:"brandGuidelines,omitempty"`
	PostID          *uuid.UUID     `json:"postId,omitempty"`
	TemplateID      *uuid.UUID     `json:"templateId,omitempty"`
}
