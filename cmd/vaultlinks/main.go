// Package main provides the entry point for the vaultlinks CLI.
//
// vaultlinks analyzes the links between the notes of a Markdown vault and
// renders them as a table: which notes a note links to, which notes link
// back, and which notes are orphans.
//
// Usage:
//
//	vaultlinks analyze --vault ~/notes --file index.md
//	vaultlinks render --vault ~/notes index.md
//	vaultlinks watch --vault ~/notes index.md
//
// See --help for all available options.
package main

// main is the entry point for vaultlinks.
func main() {
	Execute()
}
