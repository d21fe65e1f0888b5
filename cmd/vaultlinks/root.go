package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for vaultlinks.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vaultlinks",
		Short: "Link tables for Markdown vaults",
		Long: `vaultlinks builds a table of the links between the notes of a Markdown vault.

Each row is a note with its outgoing links, its incoming links and their
counts. Rows can be filtered by folder and link category, sorted, and
rendered as a Markdown table or as an HTML table embedded in a note.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringP("vault", "V", "",
		"Vault root directory (default: $VAULTLINKS_VAULT or the vault key of the config file)")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: .vaultlinks in the vault or current directory)")

	// Add subcommands
	cmd.AddCommand(NewAnalyzeCmd())
	cmd.AddCommand(NewRenderCmd())
	cmd.AddCommand(NewWatchCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
