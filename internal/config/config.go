// Package config loads application settings from environment variables and an
// optional config file, and exposes the language/zodiac registries the
// pipeline draws its data from.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Settings holds all runtime configuration for the generation and
// translation pipelines.
type Settings struct {
	APIKey              string        `mapstructure:"api_key"`
	Model               string        `mapstructure:"model"`
	TranslationModel    string        `mapstructure:"translation_model"`
	Temperature         float64       `mapstructure:"temperature"`
	MaxTokens           int           `mapstructure:"max_tokens"`
	TranslationTokens   int           `mapstructure:"translation_max_tokens"`
	BaseURL             string        `mapstructure:"base_url"`
	OutputDir           string        `mapstructure:"output_dir"`
	DefaultLanguage     string        `mapstructure:"default_language"`
	BatchSize           int           `mapstructure:"batch_size"`
	RequestDelay        time.Duration `mapstructure:"request_delay"`
	DebugMode           bool          `mapstructure:"debug"`
	StrictPlaceholders  bool          `mapstructure:"strict_placeholders"`
	DBPath              string        `mapstructure:"db_path"`
	LanguagesConfig     string        `mapstructure:"languages_config"`
	ZodiacConfig        string        `mapstructure:"zodiac_config"`
	SupportLangsConfig  string        `mapstructure:"support_languages_config"`
	TranslationPrompt   string        `mapstructure:"translation_prompt"`
}

// Language describes one target language from the languages registry.
type Language struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Locale string `json:"locale"`
}

// ZodiacSign describes one entry of the zodiac registry.
type ZodiacSign struct {
	Key      string `json:"key"`
	Element  string `json:"element"`
	Modality string `json:"modality"`
	Ruler    string `json:"ruler"`
	Emoji    string `json:"emoji"`
}

// SupportLanguage describes one target locale for translation.
type SupportLanguage struct {
	Name string `json:"name"`
}

// Load reads settings from the environment (LOREBOT_ prefix) and an optional
// lorekit.yaml in the working directory. The API key is required unless
// debug mode is enabled, because debug runs never reach the upstream API.
func Load() (*Settings, error) {
	v := viper.New()

	// An empty default registers the key so AutomaticEnv resolves it during
	// Unmarshal.
	v.SetDefault("api_key", "")
	v.SetDefault("model", "gpt-4")
	v.SetDefault("translation_model", "gpt-4o-mini")
	v.SetDefault("temperature", 0.7)
	v.SetDefault("max_tokens", 2000)
	v.SetDefault("translation_max_tokens", 3000)
	v.SetDefault("base_url", "https://api.openai.com/v1")
	v.SetDefault("output_dir", "data")
	v.SetDefault("default_language", "eng")
	v.SetDefault("batch_size", 5)
	v.SetDefault("request_delay", time.Second)
	v.SetDefault("debug", false)
	v.SetDefault("strict_placeholders", false)
	v.SetDefault("db_path", "./data/lorekit.db")
	v.SetDefault("languages_config", "config/languages.json")
	v.SetDefault("zodiac_config", "config/zodiac.json")
	v.SetDefault("support_languages_config", "config/support_languages.json")
	v.SetDefault("translation_prompt", "config/translation_prompt.txt")

	v.SetEnvPrefix("LOREBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("lorekit")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settings: %w", err)
	}

	if s.APIKey == "" && !s.DebugMode {
		return nil, fmt.Errorf("LOREBOT_API_KEY must be set")
	}

	return &s, nil
}

// Languages loads the languages registry, keyed by language code.
func (s *Settings) Languages() (map[string]Language, error) {
	raw, err := readJSONFile(s.LanguagesConfig)
	if err != nil {
		return nil, err
	}

	var entries map[string]Language
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("invalid JSON in languages config %s: %w", s.LanguagesConfig, err)
	}

	// The registry keys are the language codes; mirror them into the entries
	// so callers can pass a Language around on its own.
	for code, lang := range entries {
		lang.Code = code
		entries[code] = lang
	}
	return entries, nil
}

// Language returns a single registry entry by code.
func (s *Settings) Language(code string) (Language, error) {
	langs, err := s.Languages()
	if err != nil {
		return Language{}, err
	}
	lang, ok := langs[code]
	if !ok {
		return Language{}, fmt.Errorf("language code %q not found in %s", code, s.LanguagesConfig)
	}
	return lang, nil
}

// Zodiac loads the zodiac registry as an ordered list.
func (s *Settings) Zodiac() ([]ZodiacSign, error) {
	raw, err := readJSONFile(s.ZodiacConfig)
	if err != nil {
		return nil, err
	}

	var signs []ZodiacSign
	if err := json.Unmarshal(raw, &signs); err != nil {
		return nil, fmt.Errorf("invalid JSON in zodiac config %s: %w", s.ZodiacConfig, err)
	}
	return signs, nil
}

// ZodiacSign returns a single zodiac entry by key.
func (s *Settings) ZodiacSign(key string) (ZodiacSign, error) {
	signs, err := s.Zodiac()
	if err != nil {
		return ZodiacSign{}, err
	}
	for _, sign := range signs {
		if sign.Key == key {
			return sign, nil
		}
	}
	return ZodiacSign{}, fmt.Errorf("zodiac key %q not found in %s", key, s.ZodiacConfig)
}

// SupportLanguages loads the translation target registry, keyed by locale.
func (s *Settings) SupportLanguages() (map[string]SupportLanguage, error) {
	raw, err := readJSONFile(s.SupportLangsConfig)
	if err != nil {
		return nil, err
	}

	var entries map[string]SupportLanguage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("invalid JSON in support languages config %s: %w", s.SupportLangsConfig, err)
	}
	return entries, nil
}

// LanguageInstruction returns the instruction line prepended to every
// generation prompt so the model produces content in the right language.
func (s *Settings) LanguageInstruction(lang Language) string {
	switch lang.Code {
	case "eng":
		return "Generate content in English with clear, detailed astrological knowledge suitable for English-speaking audience."
	case "rus":
		return "Генерируй контент на русском языке с подробными астрологическими знаниями, подходящими для русскоязычной аудитории."
	default:
		return fmt.Sprintf("Generate content in %s language.", lang.Name)
	}
}

func readJSONFile(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return raw, nil
}
