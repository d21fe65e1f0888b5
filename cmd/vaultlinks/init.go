package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nao1215/vaultlinks/internal/config"
)

//go:embed templates/vaultlinks.yaml
var configTemplate embed.FS

// configFileName is the default configuration file name.
const configFileName = config.DefaultConfigFile

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new vaultlinks configuration file",
		Long: `Initialize creates a new .vaultlinks configuration file. It is written to
the vault root when --vault is given and to the current directory otherwise,
so that every command run against the vault picks it up.

The generated file documents every option:
- Collation language, debounce window and cache size
- Run history settings
- Directories to ignore
- Parameter defaults for every table

Examples:
  # Create .vaultlinks in current directory
  vaultlinks init

  # Create .vaultlinks in the vault root
  vaultlinks init -V ~/notes

  # Create the user-wide configuration file
  vaultlinks init -o ~/.config/vaultlinks/config.yaml

  # Force overwrite existing file
  vaultlinks init -f`,
		Args: cobra.NoArgs,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", configFileName,
		"Output file path for the configuration")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing configuration file")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := initOutputPath(cmd)
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	if err := writeTemplate(outputPath, force); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created configuration file: %s\n", outputPath)
	fmt.Fprintln(out, "\nEdit this file to set, for example:")
	fmt.Fprintln(out, "  - The vault root and directories to ignore")
	fmt.Fprintln(out, "  - Default table parameters (sort, columns, categories)")
	fmt.Fprintln(out, "  - Whether runs are archived for `vaultlinks history`")

	return nil
}

// initOutputPath returns --output, or the file in the vault root when only
// --vault is given.
func initOutputPath(cmd *cobra.Command) (string, error) {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return "", err
	}
	if cmd.Flags().Changed("output") {
		return outputPath, nil
	}
	if root := getStringFlag(cmd, "vault"); root != "" {
		info, err := os.Stat(root)
		if err != nil || !info.IsDir() {
			return "", fmt.Errorf("vault %s is not a directory", root)
		}
		return filepath.Join(root, configFileName), nil
	}
	return outputPath, nil
}

// writeTemplate writes the embedded template to path, refusing to replace
// an existing file unless force is set.
func writeTemplate(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", path)
	}

	content, err := configTemplate.ReadFile("templates/vaultlinks.yaml")
	if err != nil {
		return fmt.Errorf("failed to read config template: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, content, 0600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}
	return nil
}
