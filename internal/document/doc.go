// Package document edits the Markdown files that link tables are written
// into.
//
// It provides two sinks: Cursor inserts a Markdown table at a line of a
// document, and Region collects the HTML rendered for one embedded
// vaultlinks block. ApplyRegions writes rendered regions back after their
// blocks between begin and end markers, so rendering is idempotent.
//
// Fingerprint hashes a document with its generated regions removed; the
// watch loop uses it to ignore its own writes.
package document
