package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("LOREBOT_API_KEY", "test-key")

	s, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.APIKey != "test-key" {
		t.Errorf("expected API key from env, got %q", s.APIKey)
	}
	if s.Model != "gpt-4" {
		t.Errorf("unexpected default model: %q", s.Model)
	}
	if s.Temperature != 0.7 {
		t.Errorf("unexpected default temperature: %v", s.Temperature)
	}
	if s.MaxTokens != 2000 {
		t.Errorf("unexpected default max tokens: %d", s.MaxTokens)
	}
	if s.DefaultLanguage != "eng" {
		t.Errorf("unexpected default language: %q", s.DefaultLanguage)
	}
	if s.RequestDelay != time.Second {
		t.Errorf("unexpected default request delay: %v", s.RequestDelay)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("LOREBOT_API_KEY", "k")
	t.Setenv("LOREBOT_MODEL", "gpt-5-mini")
	t.Setenv("LOREBOT_OUTPUT_DIR", "/tmp/out")
	t.Setenv("LOREBOT_REQUEST_DELAY", "250ms")

	s, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Model != "gpt-5-mini" {
		t.Errorf("expected model override, got %q", s.Model)
	}
	if s.OutputDir != "/tmp/out" {
		t.Errorf("expected output dir override, got %q", s.OutputDir)
	}
	if s.RequestDelay != 250*time.Millisecond {
		t.Errorf("expected delay override, got %v", s.RequestDelay)
	}
}

func TestLoad_MissingAPIKey(t *testing.T) {
	t.Setenv("LOREBOT_API_KEY", "")

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "LOREBOT_API_KEY") {
		t.Errorf("expected missing API key error, got %v", err)
	}
}

func TestLoad_DebugModeWithoutAPIKey(t *testing.T) {
	t.Setenv("LOREBOT_API_KEY", "")
	t.Setenv("LOREBOT_DEBUG", "true")

	s, err := Load()
	if err != nil {
		t.Fatalf("debug mode must not require an API key: %v", err)
	}
	if !s.DebugMode {
		t.Error("expected debug mode enabled")
	}
}

func writeConfigFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLanguages(t *testing.T) {
	s := &Settings{LanguagesConfig: writeConfigFile(t, "languages.json",
		`{"eng": {"name": "English", "locale": "en-US"}, "rus": {"name": "Russian", "locale": "ru-RU"}}`)}

	langs, err := s.Languages()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(langs) != 2 {
		t.Fatalf("expected 2 languages, got %d", len(langs))
	}

	eng := langs["eng"]
	if eng.Code != "eng" {
		t.Errorf("expected code mirrored from key, got %q", eng.Code)
	}
	if eng.Name != "English" || eng.Locale != "en-US" {
		t.Errorf("unexpected entry: %+v", eng)
	}
}

func TestLanguage_NotFound(t *testing.T) {
	s := &Settings{LanguagesConfig: writeConfigFile(t, "languages.json",
		`{"eng": {"name": "English", "locale": "en-US"}}`)}

	_, err := s.Language("jpn")
	if err == nil || !strings.Contains(err.Error(), "jpn") {
		t.Errorf("expected not-found error naming the code, got %v", err)
	}
}

func TestLanguages_MissingFile(t *testing.T) {
	s := &Settings{LanguagesConfig: "does/not/exist.json"}
	_, err := s.Languages()
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("expected not-found error, got %v", err)
	}
}

func TestZodiac(t *testing.T) {
	s := &Settings{ZodiacConfig: writeConfigFile(t, "zodiac.json",
		`[{"key": "aries", "element": "fire", "modality": "cardinal", "ruler": "Mars", "emoji": "♈"},
		  {"key": "taurus", "element": "earth", "modality": "fixed", "ruler": "Venus", "emoji": "♉"}]`)}

	signs, err := s.Zodiac()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(signs) != 2 || signs[0].Key != "aries" || signs[1].Ruler != "Venus" {
		t.Errorf("unexpected signs: %+v", signs)
	}

	sign, err := s.ZodiacSign("taurus")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sign.Element != "earth" {
		t.Errorf("unexpected sign: %+v", sign)
	}

	if _, err := s.ZodiacSign("ophiuchus"); err == nil {
		t.Error("expected error for unknown sign")
	}
}

func TestSupportLanguages(t *testing.T) {
	s := &Settings{SupportLangsConfig: writeConfigFile(t, "support.json",
		`{"rus": {"name": "Russian"}, "spa": {"name": "Spanish"}}`)}

	langs, err := s.SupportLanguages()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(langs) != 2 || langs["spa"].Name != "Spanish" {
		t.Errorf("unexpected registry: %+v", langs)
	}
}

func TestLanguageInstruction(t *testing.T) {
	s := &Settings{}

	if got := s.LanguageInstruction(Language{Code: "eng", Name: "English"}); !strings.Contains(got, "English-speaking audience") {
		t.Errorf("unexpected English instruction: %q", got)
	}
	if got := s.LanguageInstruction(Language{Code: "rus", Name: "Russian"}); !strings.Contains(got, "русском") {
		t.Errorf("unexpected Russian instruction: %q", got)
	}
	if got := s.LanguageInstruction(Language{Code: "spa", Name: "Spanish"}); got != "Generate content in Spanish language." {
		t.Errorf("unexpected generic instruction: %q", got)
	}
}
