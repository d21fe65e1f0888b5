// Package params parses and validates the analysis parameters of a
// vaultlinks block.
//
// A block holds one "key: value" pair per line:
//
//	paths: folder1, folder2, note1.md
//	sort: name
//	sortOrder: asc
//	excludeCol: outgoing, incoming
//	fileType: all
//	showStats: true
//
// Parse never fails; it only extracts recognized keys with non-empty values
// into a Raw map. Validate checks every field, reports an outcome per field
// and returns the typed model.Params. The caller decides whether a failed
// validation is fatal.
package params
