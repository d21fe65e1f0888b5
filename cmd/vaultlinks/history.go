package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/nao1215/vaultlinks/internal/config"
	"github.com/nao1215/vaultlinks/internal/database"
	"github.com/nao1215/vaultlinks/internal/model"
	"github.com/nao1215/vaultlinks/internal/report"
	"github.com/nao1215/vaultlinks/internal/vault"
)

// defaultHistoryLimit is the number of runs listed when --limit is not set.
const defaultHistoryLimit = 20

// NewHistoryCmd creates the history command.
// This command reads the run archive written by analyze, render and watch.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [NOTE]",
		Short: "Show archived runs and compare their statistics",
		Long: `History lists the archived runs of a note, or of every note when none is
given. Runs are archived by analyze, render and watch unless history is
disabled in the configuration file or with --no-history.

With --compare, the two latest runs of the note are compared: how each
counter changed and whether the table content changed.

Examples:
  # Latest runs of every note
  vaultlinks history

  # Runs of one note, with their parameters
  vaultlinks history -v index.md

  # What changed since the previous run
  vaultlinks history --compare index.md

  # Keep only the 10 newest runs of a note
  vaultlinks history --prune 10 index.md`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().Bool("compare", false,
		"Compare the two latest runs of the note")
	cmd.Flags().IntP("limit", "n", defaultHistoryLimit,
		"Maximum number of runs to list (0 lists all)")
	cmd.Flags().BoolP("json", "j", false,
		"Output in JSON format")
	cmd.Flags().Bool("show-unchanged", false,
		"List counters that did not change in a comparison")
	cmd.Flags().Int("prune", 0,
		"Delete all but the newest N runs of the note")

	return cmd
}

// historyOptions are the flags of the history command.
type historyOptions struct {
	document      string
	compare       bool
	limit         int
	json          bool
	showUnchanged bool
	prune         int
	verbose       bool
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	opts := historyOptions{verbose: cfg.Verbose}
	if len(args) == 1 {
		opts.document = args[0]
	}
	if opts.compare, err = cmd.Flags().GetBool("compare"); err != nil {
		return err
	}
	if opts.limit, err = cmd.Flags().GetInt("limit"); err != nil {
		return err
	}
	if opts.json, err = cmd.Flags().GetBool("json"); err != nil {
		return err
	}
	if opts.showUnchanged, err = cmd.Flags().GetBool("show-unchanged"); err != nil {
		return err
	}
	if opts.prune, err = cmd.Flags().GetInt("prune"); err != nil {
		return err
	}

	// Validate arguments before opening the database.
	if (opts.compare || opts.prune > 0) && opts.document == "" {
		return errors.New("a note is required with --compare and --prune")
	}
	if opts.prune < 0 {
		return errors.New("--prune must not be negative")
	}

	logger := setupLogger(cfg.Verbose)

	dbOpts := database.DefaultOptions()
	dbOpts.CreateIfNotExists = false
	dbOpts.Logger = logger
	db, err := database.Open(cfg.HistoryDir, dbOpts)
	if errors.Is(err, database.ErrNotFound) {
		return writeHistory(cmd.OutOrStdout(), opts, nil)
	}
	if err != nil {
		return fmt.Errorf("failed to open run history: %w", err)
	}
	defer db.Close()

	return runHistory(cmd.Context(), db, cfg, opts, cmd.OutOrStdout())
}

// runHistory lists, compares or prunes archived runs.
func runHistory(ctx context.Context, db *database.HistoryDB, cfg *config.Config, opts historyOptions, out io.Writer) error {
	if opts.document != "" {
		opts.document = historyDocument(cfg, opts.document)
	}

	if opts.prune > 0 {
		deleted, err := db.Prune(ctx, opts.document, opts.prune)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Deleted %d runs of %s\n", deleted, opts.document)
		return nil
	}

	if opts.compare {
		older, newer, err := db.LatestPair(ctx, opts.document)
		if errors.Is(err, database.ErrNotFound) {
			return fmt.Errorf("%s needs at least two archived runs to compare", opts.document)
		}
		if err != nil {
			return err
		}
		return writeComparison(out, opts, model.Compare(older, newer))
	}

	runs, err := db.List(ctx, opts.document, opts.limit)
	if err != nil {
		return err
	}
	return writeHistory(out, opts, runs)
}

// historyDocument converts a note argument into the vault-relative form
// runs are archived under. Without a vault the argument is used as is.
func historyDocument(cfg *config.Config, note string) string {
	if cfg.Vault == "" {
		return model.NormalizePath(note)
	}
	v, err := vault.Open(cfg.Vault, vault.WithIgnoreDirs(cfg.IgnoreDirs))
	if err != nil {
		return model.NormalizePath(note)
	}
	rel, err := resolveNote(v, note)
	if err != nil {
		// the note may have been deleted since it was archived
		return model.NormalizePath(note)
	}
	return rel
}

func writeHistory(out io.Writer, opts historyOptions, runs []model.Run) error {
	var err error
	if opts.json {
		_, err = report.NewJSONWriter(out, report.WithPrettyPrint()).WriteHistory(runs)
	} else {
		_, err = report.NewSimpleWriter(out, report.WithVerbose(opts.verbose)).WriteHistory(runs)
	}
	return err
}

func writeComparison(out io.Writer, opts historyOptions, cmp model.RunComparison) error {
	var err error
	if opts.json {
		_, err = report.NewJSONWriter(out, report.WithPrettyPrint()).WriteComparison(cmp)
	} else {
		_, err = report.NewSimpleWriter(out,
			report.WithVerbose(opts.verbose),
			report.WithShowEmpty(opts.showUnchanged),
		).WriteComparison(cmp)
	}
	return err
}
