// Package content defines the JSON shape every generated item's content
// field must carry, and the structural checks applied to it.
package content

import (
	"encoding/json"
	"fmt"
	"strings"
)

// RequiredFields are the keys a content object must carry, non-empty.
var RequiredFields = []string{"title", "one_liner", "body_md"}

// Content is the parsed form of one item's content field.
type Content struct {
	Title    string `json:"title"`
	OneLiner string `json:"one_liner"`
	BodyMD   string `json:"body_md"`
}

// Parse decodes a content string into its generic JSON form. The full object
// is kept (models may emit extra fields) so re-serialization is lossless.
func Parse(raw string) (map[string]any, error) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(raw), &obj); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return obj, nil
}

// CheckRequired reports the required fields missing from a parsed content
// object. Presence only; emptiness is a separate check.
func CheckRequired(obj map[string]any) []string {
	var missing []string
	for _, field := range RequiredFields {
		if _, ok := obj[field]; !ok {
			missing = append(missing, field)
		}
	}
	return missing
}

// Validate parses raw and checks that every required field is present and
// non-empty. This is the gate translated content must pass before it
// replaces the original.
func Validate(raw string) error {
	obj, err := Parse(raw)
	if err != nil {
		return err
	}

	if missing := CheckRequired(obj); len(missing) > 0 {
		return fmt.Errorf("missing fields: %s", strings.Join(missing, ", "))
	}

	var empty []string
	for _, field := range RequiredFields {
		s, ok := obj[field].(string)
		if !ok || strings.TrimSpace(s) == "" {
			empty = append(empty, field)
		}
	}
	if len(empty) > 0 {
		return fmt.Errorf("empty fields: %s", strings.Join(empty, ", "))
	}

	return nil
}

// Decode parses raw into the typed Content form for consumers that render or
// inspect it (export, verify).
func Decode(raw string) (*Content, error) {
	var c Content
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return &c, nil
}
