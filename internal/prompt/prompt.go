// Package prompt fills {field}-style placeholders in prompt templates from
// data records and language metadata. Filling is pure string substitution:
// no I/O, no state.
package prompt

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/vkozyar/lorekit/internal/config"
	"github.com/vkozyar/lorekit/internal/dataset"
)

// Mode controls how unresolved placeholders are treated.
type Mode int

const (
	// Lenient leaves unresolved placeholders verbatim in the output.
	Lenient Mode = iota
	// Strict makes Fill return an UnresolvedError naming every leftover
	// placeholder.
	Strict
)

// UnresolvedError reports placeholders that survived a strict-mode fill.
type UnresolvedError struct {
	Placeholders []string
}

func (e *UnresolvedError) Error() string {
	return fmt.Sprintf("unresolved placeholders: %s", strings.Join(e.Placeholders, ", "))
}

var placeholderRe = regexp.MustCompile(`\{[a-zA-Z_][a-zA-Z0-9_]*\}`)

// Fill substitutes record fields and language metadata into template.
//
// With a language, {language_name} and {locale_code} (legacy aliases {name}
// and {locale}) resolve first. A record carrying a "names" mapping
// additionally resolves {planet_name_localized} from the language code and
// {planet_<field>} for every sibling field. Every record field then resolves
// its plain {field} placeholder. Lists and objects render as compact JSON,
// nil as "null".
func Fill(template string, record dataset.Record, lang *config.Language, mode Mode) (string, error) {
	filled := template

	if lang != nil {
		filled = strings.ReplaceAll(filled, "{language_name}", lang.Name)
		filled = strings.ReplaceAll(filled, "{locale_code}", lang.Locale)
		filled = strings.ReplaceAll(filled, "{name}", lang.Name)
		filled = strings.ReplaceAll(filled, "{locale}", lang.Locale)
	}

	if names, ok := record["names"].(map[string]any); ok {
		if lang != nil {
			if localized, ok := names[lang.Code].(string); ok {
				filled = strings.ReplaceAll(filled, "{planet_name_localized}", localized)
			}
		}
		for _, field := range sortedFields(record) {
			if field == "names" {
				continue
			}
			value, _ := record.Field(field)
			filled = strings.ReplaceAll(filled, "{planet_"+field+"}", value)
		}
	}

	for _, field := range sortedFields(record) {
		value, _ := record.Field(field)
		filled = strings.ReplaceAll(filled, "{"+field+"}", value)
	}

	if mode == Strict {
		if leftover := placeholderRe.FindAllString(filled, -1); len(leftover) > 0 {
			return filled, &UnresolvedError{Placeholders: dedupe(leftover)}
		}
	}

	return filled, nil
}

// FillVars substitutes a plain name→value map, used for the translation
// prompt ({content}, {target_lang_name}). Always lenient.
func FillVars(template string, vars map[string]string) string {
	filled := template
	for name, value := range vars {
		filled = strings.ReplaceAll(filled, "{"+name+"}", value)
	}
	return filled
}

// LoadTemplate reads a prompt template file, trimming surrounding whitespace.
func LoadTemplate(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("prompt template not found: %s", path)
		}
		return "", fmt.Errorf("failed to read template %s: %w", path, err)
	}
	return strings.TrimSpace(string(raw)), nil
}

// sortedFields returns the record's field names in a stable order so repeated
// fills of the same inputs produce identical output.
func sortedFields(record dataset.Record) []string {
	fields := make([]string, 0, len(record))
	for field := range record {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	var out []string
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}
