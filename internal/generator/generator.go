// Package generator runs the batch generation pipeline: for each data record
// and target language it fills the prompt template, sends the prompt to the
// LLM, and persists the collected results as one output file per language.
package generator

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vkozyar/lorekit/internal/config"
	"github.com/vkozyar/lorekit/internal/dataset"
	"github.com/vkozyar/lorekit/internal/llm"
	"github.com/vkozyar/lorekit/internal/prompt"
	"github.com/vkozyar/lorekit/internal/store"
)

// Generator drives template filling and LLM requests for one or more target
// languages. Languages are processed strictly sequentially, one client per
// language batch.
type Generator struct {
	settings  *config.Settings
	log       *slog.Logger
	runs      *store.Store
	newClient func(model string) llm.Requester
}

// Option customizes a Generator.
type Option func(*Generator)

// WithStore enables run-history recording.
func WithStore(s *store.Store) Option {
	return func(g *Generator) { g.runs = s }
}

// WithClientFactory substitutes the LLM client constructor (tests).
func WithClientFactory(f func(model string) llm.Requester) Option {
	return func(g *Generator) { g.newClient = f }
}

func New(settings *config.Settings, log *slog.Logger, opts ...Option) *Generator {
	g := &Generator{
		settings: settings,
		log:      log,
		newClient: func(model string) llm.Requester {
			return llm.New(settings.APIKey, model, llm.WithBaseURL(settings.BaseURL))
		},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// GenerateAll produces one output file per target language and returns the
// language code → output path mapping. A language whose output file already
// exists is skipped without any LLM traffic.
func (g *Generator) GenerateAll(ctx context.Context, templatePath, baseFilename, dataPath string, languages []config.Language) (map[string]string, error) {
	template, err := prompt.LoadTemplate(templatePath)
	if err != nil {
		return nil, err
	}
	records, err := dataset.LoadRecords(dataPath)
	if err != nil {
		return nil, err
	}

	results := make(map[string]string, len(languages))
	for _, lang := range languages {
		outPath := filepath.Join(g.settings.OutputDir, dataset.OutputFilename(lang.Code, baseFilename))
		results[lang.Code] = outPath

		if fileExists(outPath) {
			g.log.Info("output already exists, skipping", "path", outPath, "language", lang.Code)
			continue
		}

		lang := lang
		instruction := g.settings.LanguageInstruction(lang)
		if err := g.generateLanguage(ctx, template, records, &lang, instruction, baseFilename, outPath); err != nil {
			return nil, err
		}
	}
	return results, nil
}

// GenerateFile is the single-language variant: no language loop, no language
// instruction, output named with the default language prefix.
func (g *Generator) GenerateFile(ctx context.Context, templatePath, baseFilename, dataPath string) (string, error) {
	template, err := prompt.LoadTemplate(templatePath)
	if err != nil {
		return "", err
	}
	records, err := dataset.LoadRecords(dataPath)
	if err != nil {
		return "", err
	}

	langCode := g.settings.DefaultLanguage
	outPath := filepath.Join(g.settings.OutputDir, dataset.OutputFilename(langCode, baseFilename))

	if fileExists(outPath) {
		g.log.Info("output already exists, skipping", "path", outPath)
		return outPath, nil
	}

	if err := g.generateLanguage(ctx, template, records, nil, "", baseFilename, outPath); err != nil {
		return "", err
	}
	return outPath, nil
}

// generateLanguage runs the full per-record loop for one language batch.
// The LLM client lives exactly as long as the batch.
func (g *Generator) generateLanguage(ctx context.Context, template string, records []dataset.Record, lang *config.Language, instruction, source, outPath string) error {
	langCode := g.settings.DefaultLanguage
	if lang != nil {
		langCode = lang.Code
	}
	g.log.Info("generating", "language", langCode, "records", len(records), "debug", g.settings.DebugMode)

	var client llm.Requester
	if !g.settings.DebugMode {
		client = g.newClient(g.settings.Model)
		defer client.Close()
	}

	runID := g.startRun(ctx, store.KindGeneration, source, langCode, g.settings.Model)

	items := make([]dataset.Item, 0, len(records))
	for i, record := range records {
		key := record.Key(i)
		content := g.processRecord(ctx, client, runID, template, record, lang, instruction, key)
		items = append(items, dataset.Item{Key: key, Content: content})

		// Pacing between sequential requests; debug mode never waits.
		if !g.settings.DebugMode && g.settings.RequestDelay > 0 && i < len(records)-1 {
			sleepCtx(ctx, g.settings.RequestDelay)
		}
	}

	if g.settings.DebugMode {
		g.log.Info("debug mode: no file written", "path", outPath)
		return nil
	}

	out := &dataset.OutputFile{
		GeneratedAt: time.Now().Format(time.RFC3339),
		Language:    langCode,
		TotalItems:  len(items),
		Data:        items,
	}
	if err := out.Save(outPath); err != nil {
		g.finishRun(ctx, runID, store.StatusFailed)
		return err
	}

	g.finishRun(ctx, runID, store.StatusCompleted)
	g.log.Info("generation completed", "path", outPath, "items", len(items))
	return nil
}

// processRecord fills the template and issues one request. Every failure is
// converted to an in-band error marker so a bad record never aborts the
// batch.
func (g *Generator) processRecord(ctx context.Context, client llm.Requester, runID, template string, record dataset.Record, lang *config.Language, instruction, key string) string {
	g.log.Info("processing", "key", key)

	mode := prompt.Lenient
	if g.settings.StrictPlaceholders {
		mode = prompt.Strict
	}

	filled, err := prompt.Fill(template, record, lang, mode)
	if err != nil {
		g.log.Error("template fill failed", "key", key, "error", err)
		return "Error: " + err.Error()
	}
	if instruction != "" {
		filled = instruction + "\n\n" + filled
	}

	if g.settings.DebugMode {
		g.log.Debug("debug prompt", "key", key, "prompt", filled)
		return `{"debug": true, "key": "` + key + `", "prompt_shown": true}`
	}

	start := time.Now()
	response, err := client.Complete(ctx, filled, g.settings.Temperature, g.settings.MaxTokens)
	if err != nil {
		g.logRequest(ctx, runID, key, time.Since(start), err.Error())
		g.log.Error("request failed", "key", key, "error", err)
		return "Error: " + err.Error()
	}

	g.logRequest(ctx, runID, key, time.Since(start), "")
	g.log.Info("processed", "key", key)
	return strings.TrimSpace(response)
}

func (g *Generator) startRun(ctx context.Context, kind, source, language, model string) string {
	if g.runs == nil || g.settings.DebugMode {
		return ""
	}
	id, err := g.runs.StartRun(ctx, kind, source, language, model)
	if err != nil {
		g.log.Warn("failed to record run", "error", err)
		return ""
	}
	return id
}

func (g *Generator) finishRun(ctx context.Context, runID, status string) {
	if g.runs == nil || runID == "" {
		return
	}
	if err := g.runs.FinishRun(ctx, runID, status); err != nil {
		g.log.Warn("failed to finish run record", "error", err)
	}
}

func (g *Generator) logRequest(ctx context.Context, runID, key string, latency time.Duration, errMsg string) {
	if g.runs == nil || runID == "" {
		return
	}
	if err := g.runs.LogRequest(ctx, runID, key, latency, errMsg); err != nil {
		g.log.Warn("failed to record request", "key", key, "error", err)
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// sleepCtx waits for d or until the context is cancelled, whichever comes
// first.
func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
