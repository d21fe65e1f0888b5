// Package database provides SQLite-based storage for vaultlinks.
//
// The HistoryDB archives one row per completed analysis run: when it ran,
// which document it belonged to, what started it, the parameters, the
// statistics snapshot and a digest of the rendered table. The archive is
// write-mostly and never feeds back into an analysis.
//
// We use SQLite via modernc.org/sqlite, which is CGO-free, so the archive
// is a single file under the user's data directory.
package database
