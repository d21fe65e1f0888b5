package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
	"golang.org/x/net/html"

	"github.com/nao1215/vaultlinks/internal/analyzer"
	"github.com/nao1215/vaultlinks/internal/config"
	"github.com/nao1215/vaultlinks/internal/document"
	"github.com/nao1215/vaultlinks/internal/model"
	"github.com/nao1215/vaultlinks/internal/params"
	"github.com/nao1215/vaultlinks/internal/report"
)

// copyToClipboard writes text to the system clipboard.
var copyToClipboard = clipboard.WriteAll

// NewAnalyzeCmd creates the analyze command.
func NewAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Build the link table for a note",
		Long: `Analyze builds the link table of the vault as seen from one note.

The note given with --file is the active note: it never appears in its own
table. Parameters come from the defaults of the configuration file, a
parameter block file (--params) and --set overrides, in that order.

Without --line the table is printed (or written to --output). With --line
it is inserted into the active note at that 1-based line; --line 0
appends to the note.

Parameter block syntax:
  paths: folder1, folder2, note1.md, !folder1/private
  sort: name | outgoingCount | incomingCount
  sortOrder: asc | desc
  excludeCol: index, name, outgoingCount, incomingCount, outgoing, incoming
  fileType: all | noLinks | onlyOutgoingNoIncoming | onlyIncomingNoOutgoing
            | bothIncomingAndOutgoing | eitherIncomingOrOutgoing
  showStats: true | false

Examples:
  # Print the table for index.md
  vaultlinks analyze -V ~/notes -f index.md

  # Only orphans of the projects folder, as HTML
  vaultlinks analyze -V ~/notes -f index.md --set paths=projects --set fileType=noLinks --html

  # Insert at line 12 of the note and copy to the clipboard
  vaultlinks analyze -V ~/notes -f index.md -l 12 --clipboard`,
		Args: cobra.NoArgs,
		RunE: runAnalyzeCmd,
	}

	cmd.Flags().StringP("file", "f", "",
		"Active note, as a path or relative to the vault root")
	cmd.Flags().IntP("line", "l", 0,
		"Insert the table into the active note at this 1-based line (0 appends)")
	cmd.Flags().StringP("params", "p", "",
		"File holding a parameter block")
	cmd.Flags().StringArray("set", nil,
		"Parameter override as key=value (repeatable)")
	cmd.Flags().Bool("html", false,
		"Render an HTML table instead of Markdown")
	cmd.Flags().StringP("output", "o", "",
		"Write the table to this file instead of stdout")
	cmd.Flags().Bool("clipboard", false,
		"Also copy the table to the clipboard")
	cmd.Flags().Bool("no-history", false,
		"Do not archive this run")

	return cmd
}

// runAnalyzeCmd executes the analyze command.
func runAnalyzeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := applyAnalyzeFlags(cmd, cfg); err != nil {
		return err
	}

	logger := setupLogger(cfg.Verbose)

	s, err := newSession(cfg, logger)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	return runAnalyze(ctx, s, cmd.OutOrStdout())
}

// applyAnalyzeFlags copies the analyze flags into cfg.
func applyAnalyzeFlags(cmd *cobra.Command, cfg *config.Config) error {
	var err error

	if cfg.ActiveFile, err = cmd.Flags().GetString("file"); err != nil {
		return err
	}
	if cfg.Line, err = cmd.Flags().GetInt("line"); err != nil {
		return err
	}
	cfg.Insert = cmd.Flags().Changed("line")
	if cfg.ParamsFile, err = cmd.Flags().GetString("params"); err != nil {
		return err
	}
	if cfg.Set, err = cmd.Flags().GetStringArray("set"); err != nil {
		return err
	}
	if cfg.HTML, err = cmd.Flags().GetBool("html"); err != nil {
		return err
	}
	if cfg.Output, err = cmd.Flags().GetString("output"); err != nil {
		return err
	}
	if cfg.Clipboard, err = cmd.Flags().GetBool("clipboard"); err != nil {
		return err
	}

	return nil
}

// runAnalyze runs one on-demand analysis and delivers the table.
func runAnalyze(ctx context.Context, s *session, stdout io.Writer) error {
	cfg := s.cfg

	raw, err := buildRaw(cfg.ParamsFile, cfg.Set)
	if err != nil {
		return err
	}

	req := analyzer.Request{
		Raw:      raw,
		Defaults: cfg.Defaults,
		Trigger:  model.TriggerAnalyze,
	}
	if cfg.ActiveFile != "" {
		if req.ActiveFile, err = s.resolveNote(cfg.ActiveFile); err != nil {
			return err
		}
	}

	sink, closeSink, err := analyzeSink(s, req.ActiveFile, stdout)
	if err != nil {
		return err
	}
	defer closeSink()

	capture := &captureSink{next: sink}
	if cfg.HTML {
		err = s.analyzer.RenderElement(ctx, req, markupSink{next: capture})
	} else {
		err = s.analyzer.InsertTable(ctx, req, capture)
	}
	if errors.Is(err, analyzer.ErrNoActiveFile) {
		return fmt.Errorf("%w: use --file to name the note the table belongs to", err)
	}
	if err != nil {
		return err
	}

	if cfg.Insert {
		s.logger.Info("inserted link table", "document", req.ActiveFile, "line", cfg.Line)
	}
	if cfg.Clipboard {
		if err := copyToClipboard(capture.text.String()); err != nil {
			return fmt.Errorf("failed to copy table to clipboard: %w", err)
		}
	}

	return nil
}

// analyzeSink chooses where the table goes: the active note, the output
// file or stdout.
func analyzeSink(s *session, activeFile string, stdout io.Writer) (analyzer.TextSink, func(), error) {
	noop := func() {}
	cfg := s.cfg

	if cfg.Insert {
		doc, err := document.Load(s.vault.Abs(activeFile))
		if err != nil {
			return nil, noop, err
		}
		return document.NewCursor(doc, cfg.Line), noop, nil
	}

	if cfg.Output == "" {
		return writerSink{w: stdout}, noop, nil
	}

	dir := filepath.Dir(cfg.Output)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, noop, fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	f, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, noop, fmt.Errorf("failed to create output file: %w", err)
	}
	return writerSink{w: f}, func() { _ = f.Close() }, nil
}

// buildRaw reads the parameter block file and applies --set overrides.
func buildRaw(paramsFile string, sets []string) (params.Raw, error) {
	fileRaw := params.Raw{}
	if paramsFile != "" {
		data, err := os.ReadFile(paramsFile) //nolint:gosec // User-provided path is intentional
		if err != nil {
			return nil, fmt.Errorf("failed to read parameter file: %w", err)
		}
		fileRaw = params.Parse(string(data))
	}

	var lines strings.Builder
	for _, set := range sets {
		key, value, ok := strings.Cut(set, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --set %q: want key=value", set)
		}
		if !slices.Contains(params.Keys(), key) {
			return nil, fmt.Errorf("invalid --set %q: unknown parameter %s (want one of %s)",
				set, key, strings.Join(params.Keys(), ", "))
		}
		fmt.Fprintf(&lines, "%s: %s\n", key, value)
	}

	return params.Merge(fileRaw, params.Parse(lines.String())), nil
}

// writerSink writes the table to an io.Writer.
type writerSink struct {
	w io.Writer
}

// Insert writes text followed by a newline when it has none.
func (s writerSink) Insert(text string) error {
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	_, err := io.WriteString(s.w, text)
	return err
}

// captureSink remembers what was written for the clipboard.
type captureSink struct {
	next analyzer.TextSink
	text strings.Builder
}

// Insert records text and forwards it.
func (s *captureSink) Insert(text string) error {
	s.text.WriteString(text)
	return s.next.Insert(text)
}

// markupSink renders an element and inserts its markup as text.
type markupSink struct {
	next analyzer.TextSink
}

// Replace renders n and inserts the markup.
func (s markupSink) Replace(n *html.Node) error {
	markup, err := report.RenderNode(n)
	if err != nil {
		return err
	}
	return s.next.Insert(markup)
}
