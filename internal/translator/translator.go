// Package translator re-reads a generated output file and produces one
// translated copy per supported locale through the LLM, falling back to the
// original content whenever a translation fails validation.
package translator

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/vkozyar/lorekit/internal/config"
	"github.com/vkozyar/lorekit/internal/content"
	"github.com/vkozyar/lorekit/internal/dataset"
	"github.com/vkozyar/lorekit/internal/llm"
	"github.com/vkozyar/lorekit/internal/postprocess"
	"github.com/vkozyar/lorekit/internal/prompt"
	"github.com/vkozyar/lorekit/internal/store"
)

// translationTemperature is fixed below the generation temperature; the
// translator must stay close to the source, not improvise.
const translationTemperature = 0.3

// ItemError describes one invalid record found during source validation.
type ItemError struct {
	Key    string
	Reason string
}

// SourceValidationError aborts a translation run: the source file must be
// fully valid before any locale is attempted.
type SourceValidationError struct {
	Items []ItemError
}

func (e *SourceValidationError) Error() string {
	parts := make([]string, len(e.Items))
	for i, item := range e.Items {
		parts[i] = fmt.Sprintf("item %s: %s", item.Key, item.Reason)
	}
	return fmt.Sprintf("source file has %d invalid items: %s", len(e.Items), strings.Join(parts, "; "))
}

// Translator drives the per-locale translation pipeline.
type Translator struct {
	settings  *config.Settings
	log       *slog.Logger
	runs      *store.Store
	newClient func(model string) llm.Requester
}

// Option customizes a Translator.
type Option func(*Translator)

// WithStore enables run-history recording.
func WithStore(s *store.Store) Option {
	return func(t *Translator) { t.runs = s }
}

// WithClientFactory substitutes the LLM client constructor (tests).
func WithClientFactory(f func(model string) llm.Requester) Option {
	return func(t *Translator) { t.newClient = f }
}

func New(settings *config.Settings, log *slog.Logger, opts ...Option) *Translator {
	t := &Translator{
		settings: settings,
		log:      log,
		newClient: func(model string) llm.Requester {
			return llm.New(settings.APIKey, model, llm.WithBaseURL(settings.BaseURL))
		},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// TranslateFile translates sourceFilename (relative to the output directory)
// into every supported locale whose target file does not exist yet.
func (t *Translator) TranslateFile(ctx context.Context, sourceFilename string) error {
	supportLangs, err := t.settings.SupportLanguages()
	if err != nil {
		return err
	}
	template, err := prompt.LoadTemplate(t.settings.TranslationPrompt)
	if err != nil {
		return err
	}

	source, err := dataset.LoadOutputFile(filepath.Join(t.settings.OutputDir, sourceFilename))
	if err != nil {
		return err
	}
	if err := ValidateSource(source); err != nil {
		return err
	}
	t.log.Info("source file validated", "file", sourceFilename, "items", len(source.Data))

	// Deterministic locale order; map iteration is randomized.
	locales := make([]string, 0, len(supportLangs))
	for locale := range supportLangs {
		locales = append(locales, locale)
	}
	sort.Strings(locales)

	for _, locale := range locales {
		targetFilename := dataset.TargetFilename(sourceFilename, locale)
		targetPath := filepath.Join(t.settings.OutputDir, targetFilename)

		if !t.settings.DebugMode && fileExists(targetPath) {
			t.log.Info("target already exists, skipping", "path", targetPath, "locale", locale)
			continue
		}

		langName := supportLangs[locale].Name
		if err := t.translateLocale(ctx, source, template, sourceFilename, locale, langName, targetPath); err != nil {
			return err
		}
	}

	t.log.Info("translation completed", "file", sourceFilename)
	return nil
}

// ValidateSource checks that every record's content parses as JSON and
// carries the required fields. Any violation fails the whole run; the error
// names every offending record.
func ValidateSource(source *dataset.OutputFile) error {
	var invalid []ItemError
	for _, item := range source.Data {
		if strings.TrimSpace(item.Content) == "" {
			invalid = append(invalid, ItemError{Key: item.Key, Reason: "missing 'content' field"})
			continue
		}
		obj, err := content.Parse(item.Content)
		if err != nil {
			invalid = append(invalid, ItemError{Key: item.Key, Reason: err.Error()})
			continue
		}
		if missing := content.CheckRequired(obj); len(missing) > 0 {
			invalid = append(invalid, ItemError{Key: item.Key, Reason: "missing fields: " + strings.Join(missing, ", ")})
		}
	}
	if len(invalid) > 0 {
		return &SourceValidationError{Items: invalid}
	}
	return nil
}

// translateLocale produces one target file. The LLM client lives exactly as
// long as the locale's batch.
func (t *Translator) translateLocale(ctx context.Context, source *dataset.OutputFile, template, sourceFilename, locale, langName, targetPath string) error {
	t.log.Info("translating", "locale", locale, "language", langName)

	var client llm.Requester
	if !t.settings.DebugMode {
		client = t.newClient(t.settings.TranslationModel)
		defer client.Close()
	}

	runID := t.startRun(ctx, sourceFilename, locale)

	translated := make([]dataset.Item, 0, len(source.Data))
	for i, item := range source.Data {
		translated = append(translated, dataset.Item{
			Key:     item.Key,
			Content: t.translateItem(ctx, client, runID, template, item, langName),
		})

		if !t.settings.DebugMode && t.settings.RequestDelay > 0 && i < len(source.Data)-1 {
			sleepCtx(ctx, t.settings.RequestDelay)
		}
	}

	if t.settings.DebugMode {
		t.log.Info("debug mode: no file written", "path", targetPath)
		return nil
	}

	out := &dataset.OutputFile{
		GeneratedAt: source.GeneratedAt,
		Language:    locale,
		TotalItems:  source.TotalItems,
		Data:        translated,
	}
	if err := out.Save(targetPath); err != nil {
		t.finishRun(ctx, runID, store.StatusFailed)
		return err
	}

	t.finishRun(ctx, runID, store.StatusCompleted)
	t.log.Info("translated file saved", "path", targetPath)
	return nil
}

// translateItem translates one record's content. Validation failures degrade
// to the original content; they never abort the locale.
func (t *Translator) translateItem(ctx context.Context, client llm.Requester, runID, template string, item dataset.Item, langName string) string {
	// The source passed validation, so the content is known-good JSON.
	obj, err := content.Parse(item.Content)
	if err != nil {
		t.log.Error("failed to parse content", "key", item.Key, "error", err)
		return item.Content
	}
	pretty, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		t.log.Error("failed to re-serialize content", "key", item.Key, "error", err)
		return item.Content
	}

	filled := prompt.FillVars(template, map[string]string{
		"content":          string(pretty),
		"target_lang_name": langName,
	})

	if t.settings.DebugMode {
		t.log.Debug("debug translation prompt", "key", item.Key, "prompt", filled)
		return fmt.Sprintf("[DEBUG] Translated to %s", langName)
	}

	t.log.Info("translating content", "key", item.Key, "language", langName)

	start := time.Now()
	response, err := client.Complete(ctx, filled, translationTemperature, t.settings.TranslationTokens)
	if err != nil {
		t.logRequest(ctx, runID, item.Key, time.Since(start), err.Error())
		t.log.Warn("translation request failed, using original", "key", item.Key, "error", err)
		return item.Content
	}
	t.logRequest(ctx, runID, item.Key, time.Since(start), "")

	cleaned := postprocess.Clean(response)
	if err := content.Validate(cleaned); err != nil {
		t.log.Warn("translated content failed validation, using original", "key", item.Key, "error", err)
		return item.Content
	}

	// Re-marshal compact so the stored form matches generated content.
	parsed, err := content.Parse(cleaned)
	if err != nil {
		t.log.Warn("failed to parse translated JSON, using original", "key", item.Key, "error", err)
		return item.Content
	}
	compact, err := json.Marshal(parsed)
	if err != nil {
		t.log.Warn("failed to re-serialize translation, using original", "key", item.Key, "error", err)
		return item.Content
	}

	t.log.Info("translated and validated", "key", item.Key)
	return string(compact)
}

func (t *Translator) startRun(ctx context.Context, source, locale string) string {
	if t.runs == nil || t.settings.DebugMode {
		return ""
	}
	id, err := t.runs.StartRun(ctx, store.KindTranslation, source, locale, t.settings.TranslationModel)
	if err != nil {
		t.log.Warn("failed to record run", "error", err)
		return ""
	}
	return id
}

func (t *Translator) finishRun(ctx context.Context, runID, status string) {
	if t.runs == nil || runID == "" {
		return
	}
	if err := t.runs.FinishRun(ctx, runID, status); err != nil {
		t.log.Warn("failed to finish run record", "error", err)
	}
}

func (t *Translator) logRequest(ctx context.Context, runID, key string, latency time.Duration, errMsg string) {
	if t.runs == nil || runID == "" {
		return
	}
	if err := t.runs.LogRequest(ctx, runID, key, latency, errMsg); err != nil {
		t.log.Warn("failed to record request", "key", key, "error", err)
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
