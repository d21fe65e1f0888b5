package analyzer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/text/language"

	"github.com/nao1215/vaultlinks/internal/document"
	"github.com/nao1215/vaultlinks/internal/graph"
	"github.com/nao1215/vaultlinks/internal/model"
	"github.com/nao1215/vaultlinks/internal/params"
	"github.com/nao1215/vaultlinks/internal/pipeline"
	"github.com/nao1215/vaultlinks/internal/report"
)

// TextSink receives a rendered Markdown table.
type TextSink interface {
	Insert(text string) error
}

// ElementSink receives a rendered HTML element.
type ElementSink interface {
	Replace(node *html.Node) error
}

// Recorder archives completed runs.
type Recorder interface {
	Record(ctx context.Context, run model.Run) error
}

// Request describes one analysis invocation.
type Request struct {
	// ActiveFile is the vault-relative path of the document the table is
	// rendered into.
	ActiveFile string

	// Raw holds the parameters of the block or command line.
	Raw params.Raw

	// Defaults holds parameters from the configuration file.
	Defaults params.Raw

	// Trigger names what started the run.
	Trigger model.Trigger
}

// Result is the outcome of Analyze.
type Result struct {
	Analysis *model.Analysis
	Data     *model.PreparedData
}

// Analyzer runs link analyses against one vault.
type Analyzer struct {
	source   graph.FileSource
	cache    graph.LinkCache
	logger   *slog.Logger
	language language.Tag
	recorder Recorder
	vault    string
	now      func() time.Time
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) {
		a.logger = logger
	}
}

// WithLanguage sets the collation language of name sorting.
func WithLanguage(tag language.Tag) Option {
	return func(a *Analyzer) {
		a.language = tag
	}
}

// WithRecorder archives every successful run.
func WithRecorder(r Recorder) Option {
	return func(a *Analyzer) {
		a.recorder = r
	}
}

// WithVault sets the vault path stored with archived runs.
func WithVault(vault string) Option {
	return func(a *Analyzer) {
		a.vault = vault
	}
}

// WithClock sets the clock used for timestamps and execution time.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) {
		a.now = now
	}
}

// New creates an Analyzer reading files from source and links from cache.
func New(source graph.FileSource, cache graph.LinkCache, opts ...Option) *Analyzer {
	a := &Analyzer{
		source:   source,
		cache:    cache,
		language: language.English,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.logger == nil {
		a.logger = slog.Default()
	}

	return a
}

// Analyze validates the request parameters and runs the full pipeline.
// Invalid parameters are fatal for the run.
func (a *Analyzer) Analyze(ctx context.Context, req Request) (*Result, error) {
	if req.ActiveFile == "" {
		return nil, ErrNoActiveFile
	}

	v := params.Validate(req.Raw, req.Defaults)
	for _, f := range v.Fields {
		if !f.OK {
			a.logger.Debug("parameter rejected", "field", f.Field, "reason", f.Reason)
		}
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	analysis := model.NewAnalysis(v.Params, req.ActiveFile, a.now())
	p := pipeline.DefaultPipeline(a.source, a.cache,
		[]pipeline.Option{pipeline.WithLogger(a.logger)},
		pipeline.WithPipelineLanguage(a.language),
		pipeline.WithPipelineClock(a.now),
	)
	if err := p.Execute(ctx, analysis); err != nil {
		return nil, fmt.Errorf("analysis of %s failed: %w", analysis.Self, err)
	}

	return &Result{
		Analysis: analysis,
		Data:     report.Prepare(analysis),
	}, nil
}

// InsertTable renders a Markdown table for req into sink. On failure an
// inline error is written to sink instead and the error is returned.
func (a *Analyzer) InsertTable(ctx context.Context, req Request, sink TextSink) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
		if err == nil || errors.Is(err, ErrNoActiveFile) {
			return
		}
		a.logger.Error("failed to insert link table", "document", req.ActiveFile, "error", err)
		if werr := sink.Insert(report.ErrorText(err)); werr != nil {
			a.logger.Error("failed to write error message", "error", werr)
		}
	}()

	res, err := a.Analyze(ctx, req)
	if errors.Is(err, ErrNoActiveFile) {
		a.logger.Warn("no active file, nothing to insert")
		return err
	}
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if _, err := report.NewMarkdownWriter(&buf).Write(res.Data); err != nil {
		return fmt.Errorf("failed to render markdown table: %w", err)
	}
	text := buf.String()
	if err := sink.Insert(text); err != nil {
		return fmt.Errorf("failed to insert table: %w", err)
	}

	a.record(ctx, req, res)
	return nil
}

// RenderElement renders an HTML table for req into sink. On failure an
// error element replaces the table and the error is returned.
func (a *Analyzer) RenderElement(ctx context.Context, req Request, sink ElementSink) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
		if err == nil || errors.Is(err, ErrNoActiveFile) {
			return
		}
		a.logger.Error("failed to render link table", "document", req.ActiveFile, "error", err)
		if werr := sink.Replace(report.ErrorNode(err)); werr != nil {
			a.logger.Error("failed to write error element", "error", werr)
		}
	}()

	res, err := a.Analyze(ctx, req)
	if errors.Is(err, ErrNoActiveFile) {
		a.logger.Warn("no active file, nothing to render")
		return err
	}
	if err != nil {
		return err
	}

	node := report.NewHTMLWriter(nil).Node(res.Data)
	if err := sink.Replace(node); err != nil {
		return fmt.Errorf("failed to replace element: %w", err)
	}

	a.record(ctx, req, res)
	return nil
}

// record archives a completed run. Archive failures are logged only.
func (a *Analyzer) record(ctx context.Context, req Request, res *Result) {
	if a.recorder == nil {
		return
	}
	trigger := req.Trigger
	if trigger == "" {
		trigger = model.TriggerAnalyze
	}
	run := model.Run{
		Timestamp:   a.now(),
		Vault:       a.vault,
		Document:    res.Analysis.Self,
		Trigger:     trigger,
		Params:      res.Analysis.Params,
		Stats:       res.Data.Stats,
		TableDigest: tableDigest(res.Data),
	}
	if err := a.recorder.Record(ctx, run); err != nil {
		a.logger.Warn("failed to archive run", "document", run.Document, "error", err)
	}
}

// tableDigest hashes headers and cells only, so the execution time of the
// statistics block does not change it.
func tableDigest(data *model.PreparedData) string {
	var b strings.Builder
	b.WriteString(strings.Join(data.Headers(), "\t"))
	b.WriteString("\n")
	for _, row := range data.Rows {
		b.WriteString(strings.Join(data.Cells(row), "\t"))
		b.WriteString("\n")
	}
	return document.Digest([]byte(b.String()))
}
