package main

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/spf13/cobra"

	"github.com/nao1215/vaultlinks/internal/config"
	"github.com/nao1215/vaultlinks/internal/document"
	"github.com/nao1215/vaultlinks/internal/model"
	"github.com/nao1215/vaultlinks/internal/pipeline"
)

// NewRenderCmd creates the render command.
func NewRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render NOTE...",
		Short: "Render the embedded link tables of notes",
		Long: "Render finds every ```vaultlinks code block of the given notes and writes\n" +
			"the HTML link table right after it, between\n" +
			"<!-- vaultlinks:begin --> and <!-- vaultlinks:end --> markers.\n" +
			"Rendering is idempotent: the region is replaced on every run and a note\n" +
			"whose tables did not change is not written.\n\n" +
			"Examples:\n" +
			"  # Render one note\n" +
			"  vaultlinks render -V ~/notes index.md\n\n" +
			"  # Render several notes, two at a time\n" +
			"  vaultlinks render -V ~/notes -n 2 index.md projects/overview.md",
		Args: cobra.MinimumNArgs(1),
		RunE: runRenderCmd,
	}

	cmd.Flags().IntP("concurrency", "n", config.DefaultConcurrency,
		"Number of notes rendered at once")
	cmd.Flags().Bool("no-history", false,
		"Do not archive these runs")

	return cmd
}

// runRenderCmd executes the render command.
func runRenderCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("concurrency") {
		if cfg.Concurrency, err = cmd.Flags().GetInt("concurrency"); err != nil {
			return err
		}
	}

	logger := setupLogger(cfg.Verbose)

	s, err := newSession(cfg, logger)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	return runRender(ctx, s, args, cmd.OutOrStdout())
}

// renderNote renders the embedded tables of one vault-relative note.
func renderNote(ctx context.Context, s *session, rel string, trigger model.Trigger) (bool, error) {
	doc, err := document.Load(s.vault.Abs(rel))
	if err != nil {
		return false, err
	}
	return s.analyzer.RenderDocument(ctx, doc, rel, s.cfg.Defaults, trigger)
}

// runRender renders every note as an independent invocation and reports
// one line per note in argument order.
func runRender(ctx context.Context, s *session, notes []string, out io.Writer) error {
	rels := make([]string, len(notes))
	for i, note := range notes {
		rel, err := s.resolveNote(note)
		if err != nil {
			return err
		}
		rels[i] = rel
	}

	var mu sync.Mutex
	changed := make(map[string]bool, len(rels))

	bp := pipeline.NewBatchProcessor(func(ctx context.Context, rel string) error {
		c, err := renderNote(ctx, s, rel, model.TriggerRender)
		mu.Lock()
		changed[rel] = c
		mu.Unlock()
		return err
	},
		pipeline.WithConcurrency(s.cfg.Concurrency),
		pipeline.WithBatchLogger(s.logger),
	)

	results, err := bp.ProcessBatch(ctx, rels)
	if err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		switch {
		case r.Err != nil:
			failed++
			fmt.Fprintf(out, "failed     %s: %v\n", r.Document, r.Err)
		case changed[r.Document]:
			fmt.Fprintf(out, "rendered   %s\n", r.Document)
		default:
			fmt.Fprintf(out, "unchanged  %s\n", r.Document)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d notes failed to render", failed, len(results))
	}
	return nil
}
