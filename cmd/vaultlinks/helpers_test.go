package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// writeVault creates a vault in a temporary directory. A and B link to each
// other, C is isolated and index.md is the note tables are rendered into.
func writeVault(t *testing.T, extra map[string]string) string {
	t.Helper()

	files := map[string]string{
		"index.md":       "# Index\nbody\n",
		"notes/a.md":     "links to [[b]]\n",
		"notes/b.md":     "back to [[a|A]]\n",
		"c.md":           "alone\n",
		".obsidian/x.md": "[[a]]\n",
	}
	for k, v := range extra {
		files[k] = v
	}

	dir := t.TempDir()
	for rel, content := range files {
		writeTestFile(t, filepath.Join(dir, filepath.FromSlash(rel)), content)
	}
	return dir
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
}

// writeConfig writes a configuration file so that tests never pick up the
// configuration of the machine they run on.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeTestFile(t, path, content)
	return path
}

// execute runs the root command with args and returns what it printed.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}
