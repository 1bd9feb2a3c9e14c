// Package dataset loads the JSON data files that drive prompt generation and
// defines the on-disk shape of generated output files.
package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Record is one structured data item (a zodiac sign, a planet) driving one
// prompt. Records are read-only after loading.
type Record map[string]any

// Key returns the record's identifying key: the "key" field, then "num",
// then a positional fallback.
func (r Record) Key(index int) string {
	if v, ok := r["key"]; ok {
		return stringify(v)
	}
	if v, ok := r["num"]; ok {
		return stringify(v)
	}
	return fmt.Sprintf("item_%d", index)
}

// Field returns the string form of a record field. Lists and objects are
// rendered as compact JSON, nil as the literal "null".
func (r Record) Field(name string) (string, bool) {
	v, ok := r[name]
	if !ok {
		return "", false
	}
	return stringify(v), true
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return t
	case float64:
		// JSON numbers decode as float64; render integers without a decimal point.
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%g", t)
	case bool:
		return fmt.Sprintf("%t", t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprintf("%v", t)
		}
		return string(b)
	}
}

// unwrapKeys are the object fields checked, in order, when a data file is a
// JSON object instead of a bare array.
var unwrapKeys = []string{"planets", "houses", "data"}

// LoadRecords reads a data file as an ordered list of records. A top-level
// array is used directly; a top-level object is unwrapped via a known key
// (planets, houses, data) or, failing that, its first array-valued field in
// document order.
func LoadRecords(path string) ([]Record, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("data config file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read data config %s: %w", path, err)
	}

	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "[") {
		var records []Record
		if err := json.Unmarshal(raw, &records); err != nil {
			return nil, fmt.Errorf("invalid JSON in data config %s: %w", path, err)
		}
		return records, nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("invalid JSON in data config %s: %w", path, err)
	}

	for _, key := range unwrapKeys {
		if inner, ok := obj[key]; ok {
			var records []Record
			if err := json.Unmarshal(inner, &records); err != nil {
				return nil, fmt.Errorf("invalid %q array in data config %s: %w", key, path, err)
			}
			return records, nil
		}
	}

	// No known key; take the first array-valued field in document order.
	if records, ok := firstArrayField(raw); ok {
		return records, nil
	}

	return nil, fmt.Errorf("unsupported data structure in %s", path)
}

// firstArrayField walks the top-level object with a streaming decoder so the
// original field order is preserved (map iteration order is not).
func firstArrayField(raw []byte) ([]Record, bool) {
	dec := json.NewDecoder(strings.NewReader(string(raw)))
	if _, err := dec.Token(); err != nil { // consume '{'
		return nil, false
	}
	for dec.More() {
		if _, err := dec.Token(); err != nil { // field name
			return nil, false
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, false
		}
		if strings.HasPrefix(strings.TrimSpace(string(value)), "[") {
			var records []Record
			if err := json.Unmarshal(value, &records); err != nil {
				return nil, false
			}
			return records, true
		}
	}
	return nil, false
}

// Item is one generated or translated result.
type Item struct {
	Key     string `json:"key"`
	Content string `json:"content"`
}

// OutputFile is the persisted artifact holding all results for one language.
type OutputFile struct {
	GeneratedAt string `json:"generated_at"`
	Language    string `json:"language"`
	TotalItems  int    `json:"total_items"`
	Data        []Item `json:"data"`
}

// LoadOutputFile reads a previously generated output file.
func LoadOutputFile(path string) (*OutputFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("source file %s not found", path)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var out OutputFile
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("invalid JSON in %s: %w", path, err)
	}
	return &out, nil
}

// Save writes the output file as indented JSON, creating the directory if
// needed.
func (o *OutputFile) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	data, err := json.MarshalIndent(o, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// OutputFilename derives the per-language output name for a dataset:
// "rus" + "zodiacs.json" → "rus_zodiacs.json". A missing .json extension on
// the base name is normalized.
func OutputFilename(langCode, baseFilename string) string {
	base := strings.TrimSuffix(baseFilename, ".json")
	return fmt.Sprintf("%s_%s.json", langCode, base)
}

// TargetFilename derives a translation output name from a source file name
// by swapping the source-language prefix for the target locale:
// "eng_planets.json" + "spa" → "spa_planets.json". A source without the
// known prefix keeps its name and just gains the locale prefix.
func TargetFilename(sourceFilename, targetLocale string) string {
	base := strings.TrimPrefix(sourceFilename, "eng_")
	return fmt.Sprintf("%s_%s", targetLocale, base)
}
