// Package extractor is the batch driver: it loads a conversations.json
// archive, runs every conversation through the resolution pipeline, writes
// Markdown and/or JSON output, and reports schema drift and per-conversation
// failures without ever aborting the run for a single bad conversation.
package extractor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/go-go-golems/chatsift/pkg/document"
	"github.com/go-go-golems/chatsift/pkg/export"
	"github.com/go-go-golems/chatsift/pkg/render"
	"github.com/go-go-golems/chatsift/pkg/tracker"
)

type OutputFormat string

const (
	FormatMarkdown OutputFormat = "markdown"
	FormatJSON     OutputFormat = "json"
	FormatBoth     OutputFormat = "both"
)

type JSONMode string

const (
	JSONModeSingle   JSONMode = "single"
	JSONModeMultiple JSONMode = "multiple"
)

type Options struct {
	InputFile string
	OutputDir string

	Format   OutputFormat
	JSONMode JSONMode

	// Explicit destination overrides; empty means the md/ and json/
	// subdirectory defaults.
	MarkdownDir string
	JSONDir     string
	JSONFile    string

	PreserveTimestamps bool
	CountTokens        bool

	// Workers caps the processing fan-out; 0 means one worker per CPU.
	Workers int
}

func (o Options) wantMarkdown() bool {
	return o.Format == FormatMarkdown || o.Format == FormatBoth
}

func (o Options) wantJSON() bool {
	return o.Format == FormatJSON || o.Format == FormatBoth
}

func (o Options) validate() error {
	switch o.Format {
	case FormatMarkdown, FormatJSON, FormatBoth:
	default:
		return errors.Errorf("invalid output format %q", o.Format)
	}
	if o.wantJSON() {
		switch o.JSONMode {
		case JSONModeSingle, JSONModeMultiple:
		default:
			return errors.Errorf("invalid JSON mode %q", o.JSONMode)
		}
	}
	return nil
}

type Extractor struct {
	opts  Options
	paths OutputPaths

	schema   *tracker.Schema
	failures *tracker.Failures

	markdownWritten       int
	jsonWritten           int
	timestampSyncFailures int
}

// New validates the options, resolves output paths, and creates the output
// directories so permission problems surface before any work is done.
func New(opts Options) (*Extractor, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}

	paths := opts.resolvePaths()
	if err := paths.createDirectories(opts.OutputDir); err != nil {
		return nil, err
	}

	return &Extractor{
		opts:     opts,
		paths:    paths,
		schema:   tracker.NewSchema(),
		failures: tracker.NewFailures(),
	}, nil
}

// Run processes the whole archive. Conversion happens across workers, each
// with private schema and failure accumulators that are merged afterwards;
// file writing stays sequential because collision handling is stateful.
func (e *Extractor) Run(ctx context.Context) error {
	raws, err := export.LoadArchive(e.opts.InputFile)
	if err != nil {
		return err
	}

	log.Info().
		Int("conversations", len(raws)).
		Str("output_dir", e.opts.OutputDir).
		Str("format", string(e.opts.Format)).
		Int("workers", e.opts.Workers).
		Msg("starting extraction")

	progress := tracker.NewProgress(len(raws))
	results := make([]*Result, len(raws))

	type workerState struct {
		schema   *tracker.Schema
		failures *tracker.Failures
	}
	states := make([]*workerState, e.opts.Workers)

	indices := make(chan int)
	g, gctx := errgroup.WithContext(ctx)

	for w := 0; w < e.opts.Workers; w++ {
		w := w
		state := &workerState{schema: tracker.NewSchema(), failures: tracker.NewFailures()}
		states[w] = state

		g.Go(func() error {
			for i := range indices {
				result, ok := e.processOne(raws[i], state.schema, state.failures)
				results[i] = result
				progress.Update(ok)
			}
			return nil
		})
	}

	g.Go(func() error {
		defer close(indices)
		for i := range raws {
			select {
			case indices <- i:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return errors.Wrap(err, "extraction interrupted")
	}

	for _, state := range states {
		e.schema.Merge(state.schema)
		e.failures.Merge(state.failures)
	}

	if err := e.writeResults(results); err != nil {
		return err
	}

	e.writeSchemaReport()
	e.failures.WriteLog(e.opts.OutputDir)
	e.logSummary(progress.Final())

	return nil
}

// writeResults serializes results in archive order. Only the consolidated
// JSON write can fail the run; individual file errors are logged and counted
// as failures.
func (e *Extractor) writeResults(results []*Result) error {
	var consolidated []*document.Document

	for _, result := range results {
		if result == nil {
			continue
		}

		if e.opts.wantMarkdown() {
			if path, err := e.writeMarkdown(result); err != nil {
				log.Error().Err(err).Str("conversation_id", result.Meta.ID).
					Msg("failed to write markdown")
			} else {
				e.markdownWritten++
				if e.opts.PreserveTimestamps {
					e.syncFileTimestamps(path, result.Meta)
				}
			}
		}

		if e.opts.wantJSON() {
			if e.opts.JSONMode == JSONModeMultiple {
				if path, err := e.writeJSONFile(result); err != nil {
					log.Error().Err(err).Str("conversation_id", result.Meta.ID).
						Msg("failed to write JSON")
				} else {
					e.jsonWritten++
					if e.opts.PreserveTimestamps {
						e.syncFileTimestamps(path, result.Meta)
					}
				}
			} else {
				consolidated = append(consolidated, result.Doc)
			}
		}
	}

	if e.opts.wantJSON() && e.opts.JSONMode == JSONModeSingle && len(consolidated) > 0 {
		if err := e.writeConsolidated(consolidated); err != nil {
			return err
		}
		e.jsonWritten = len(consolidated)
	}

	return nil
}

// outputDirFor returns the destination directory, descending into a project
// subfolder when the conversation belongs to one.
func outputDirFor(base, projectID string) (string, error) {
	if projectID == "" {
		return base, nil
	}
	dir := filepath.Join(base, projectID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.Wrapf(err, "could not create project directory %s", dir)
	}
	return dir, nil
}

func (e *Extractor) writeMarkdown(result *Result) (string, error) {
	content, err := render.Markdown(result.Meta, result.Messages)
	if err != nil {
		return "", err
	}

	dir, err := outputDirFor(e.paths.MarkdownDir, result.Meta.ProjectID)
	if err != nil {
		return "", err
	}

	path := uniquePath(dir, SanitizeFilename(result.Meta.Title), ".md")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", errors.Wrapf(err, "could not write %s", path)
	}
	log.Debug().Str("path", path).Msg("wrote markdown file")
	return path, nil
}

func (e *Extractor) writeJSONFile(result *Result) (string, error) {
	data, err := render.JSON(result.Doc)
	if err != nil {
		return "", err
	}

	dir, err := outputDirFor(e.paths.JSONDir, result.Meta.ProjectID)
	if err != nil {
		return "", err
	}

	path := uniquePath(dir, SanitizeFilename(result.Meta.Title), ".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", errors.Wrapf(err, "could not write %s", path)
	}
	log.Debug().Str("path", path).Msg("wrote JSON file")
	return path, nil
}

func (e *Extractor) writeConsolidated(docs []*document.Document) error {
	exportDoc := document.ConsolidatedExport{
		ExportMetadata: document.ExportMetadata{
			Timestamp:               time.Now().UTC().Format("2006-01-02T15:04:05.000000Z"),
			TotalConversations:      len(docs),
			SuccessfulConversations: len(docs),
			FailedConversations:     e.failures.Len(),
			ExtractorVersion:        Version,
			ExportFormat:            string(JSONModeSingle),
			SourceFile:              e.opts.InputFile,
			TimestampSyncEnabled:    e.opts.PreserveTimestamps,
		},
		Conversations: docs,
	}

	data, err := render.JSON(exportDoc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(e.paths.JSONFile, data, 0644); err != nil {
		return errors.Wrapf(err, "could not write consolidated JSON %s", e.paths.JSONFile)
	}
	log.Info().Str("path", e.paths.JSONFile).Int("conversations", len(docs)).
		Msg("wrote consolidated JSON export")
	return nil
}

func (e *Extractor) writeSchemaReport() {
	path := filepath.Join(e.opts.OutputDir, "schema_evolution.log")
	if err := os.WriteFile(path, []byte(e.schema.Report()), 0644); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("failed to write schema report")
	}
}

func (e *Extractor) logSummary(stats tracker.Stats) {
	event := log.Info().
		Int("total", stats.Total).
		Int("succeeded", stats.Processed-stats.Failed).
		Int("failed", stats.Failed).
		Str("success_rate", formatPercent(stats.SuccessRate)).
		Dur("elapsed", stats.Elapsed).
		Str("output_dir", e.opts.OutputDir)

	if e.opts.wantMarkdown() {
		event = event.Int("markdown_files", e.markdownWritten)
	}
	if e.opts.wantJSON() {
		event = event.Int("json_files", e.jsonWritten)
	}
	if e.opts.PreserveTimestamps && e.timestampSyncFailures > 0 {
		event = event.Int("timestamp_sync_failures", e.timestampSyncFailures)
	}

	event.Msg("extraction complete")
}

func formatPercent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}
