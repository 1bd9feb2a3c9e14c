package prompt

import (
	"errors"
	"strings"
	"testing"

	"github.com/vkozyar/lorekit/internal/config"
	"github.com/vkozyar/lorekit/internal/dataset"
)

func TestFill_RecordFields(t *testing.T) {
	record := dataset.Record{"key": "aries", "element": "fire"}

	got, err := Fill("Sign: {key}, Element: {element}", record, nil, Lenient)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Sign: aries, Element: fire" {
		t.Errorf("expected 'Sign: aries, Element: fire', got %q", got)
	}
}

func TestFill_LanguagePlaceholders(t *testing.T) {
	lang := &config.Language{Code: "rus", Name: "Russian", Locale: "ru-RU"}

	got, err := Fill("Write in {language_name} ({locale_code})", dataset.Record{}, lang, Lenient)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Write in Russian (ru-RU)" {
		t.Errorf("unexpected fill result: %q", got)
	}
}

func TestFill_LegacyLanguageAliases(t *testing.T) {
	lang := &config.Language{Code: "spa", Name: "Spanish", Locale: "es-ES"}

	got, err := Fill("{name} / {locale}", dataset.Record{}, lang, Lenient)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Spanish / es-ES" {
		t.Errorf("unexpected fill result: %q", got)
	}
}

func TestFill_PlanetFields(t *testing.T) {
	record := dataset.Record{
		"key":   "mars",
		"names": map[string]any{"eng": "Mars", "rus": "Марс"},
		"rules": []any{"aries"},
		"fall":  nil,
	}
	lang := &config.Language{Code: "rus", Name: "Russian", Locale: "ru-RU"}

	got, err := Fill("{planet_name_localized}: rules {planet_rules}, fall {planet_fall}", record, lang, Lenient)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != `Марс: rules ["aries"], fall null` {
		t.Errorf("unexpected fill result: %q", got)
	}
}

func TestFill_LocalizedNameMissingLanguage(t *testing.T) {
	record := dataset.Record{
		"key":   "venus",
		"names": map[string]any{"eng": "Venus"},
	}
	lang := &config.Language{Code: "deu", Name: "German", Locale: "de-DE"}

	// No German name: the placeholder stays verbatim, which is not an error
	// in lenient mode.
	got, err := Fill("{planet_name_localized}", record, lang, Lenient)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "{planet_name_localized}" {
		t.Errorf("expected placeholder left verbatim, got %q", got)
	}
}

func TestFill_UnresolvedLeftVerbatim(t *testing.T) {
	got, err := Fill("Known: {key}, unknown: {ruler}", dataset.Record{"key": "leo"}, nil, Lenient)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Known: leo, unknown: {ruler}" {
		t.Errorf("unexpected fill result: %q", got)
	}
}

func TestFill_StrictMode(t *testing.T) {
	_, err := Fill("{key} and {missing} and {also_missing}", dataset.Record{"key": "leo"}, nil, Strict)

	var unresolved *UnresolvedError
	if !errors.As(err, &unresolved) {
		t.Fatalf("expected UnresolvedError, got %v", err)
	}
	if len(unresolved.Placeholders) != 2 {
		t.Errorf("expected 2 unresolved placeholders, got %v", unresolved.Placeholders)
	}
	if !strings.Contains(err.Error(), "{missing}") {
		t.Errorf("expected error to name the placeholder, got %q", err.Error())
	}
}

func TestFill_NoFieldPlaceholderSurvives(t *testing.T) {
	record := dataset.Record{"key": "virgo", "element": "earth", "modality": "mutable"}

	got, err := Fill("{key} {element} {modality} {key}", record, nil, Lenient)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for field := range record {
		if strings.Contains(got, "{"+field+"}") {
			t.Errorf("placeholder {%s} survived: %q", field, got)
		}
	}
}

func TestFill_Pure(t *testing.T) {
	record := dataset.Record{"key": "pisces", "keywords": []any{"dreams", "empathy"}}
	lang := &config.Language{Code: "eng", Name: "English", Locale: "en-US"}

	first, err := Fill("{key}: {keywords} in {language_name}", record, lang, Lenient)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := Fill("{key}: {keywords} in {language_name}", record, lang, Lenient)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if again != first {
			t.Fatalf("fill is not deterministic: %q vs %q", first, again)
		}
	}
}

func TestFillVars(t *testing.T) {
	got := FillVars("Translate to {target_lang_name}:\n{content}", map[string]string{
		"target_lang_name": "Spanish",
		"content":          `{"title": "Aries"}`,
	})
	want := "Translate to Spanish:\n{\"title\": \"Aries\"}"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestLoadTemplate_NotFound(t *testing.T) {
	_, err := LoadTemplate("does/not/exist.txt")
	if err == nil {
		t.Error("expected error for missing template")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("expected not-found error, got %v", err)
	}
}
