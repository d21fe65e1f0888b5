package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/vaultlinks/internal/model"
)

// FileName is the name of the archive file inside the data directory.
const FileName = "history.db"

// storedTimeLayout is fixed-width so that timestamps sort as text.
const storedTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// HistoryDB stores completed analysis runs in SQLite.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string

	logger *slog.Logger
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging. The watch command writes
	// while history may read from another process.
	EnableWAL bool

	// Logger receives debug output. Nil means slog.Default().
	Logger *slog.Logger
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the archive inside dbDir.
// If CreateIfNotExists is false and the database doesn't exist, an error
// wrapping ErrNotFound is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database %s: %w", dbPath, ErrNotFound)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file, mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
		logger: logger,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	logger.Debug("opened history database", "path", dbPath)
	return hdb, nil
}

// Path returns the database file path.
func (hdb *HistoryDB) Path() string {
	return hdb.dbPath
}

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (hdb *HistoryDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp TEXT NOT NULL,
		vault TEXT NOT NULL,
		document TEXT NOT NULL,
		run_trigger TEXT NOT NULL,
		params_json TEXT NOT NULL,
		stats_json TEXT NOT NULL,
		table_digest TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_document ON runs(document);
	CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON runs(timestamp);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// Record stores a completed run. The database assigns the ID; a zero
// timestamp means now.
func (hdb *HistoryDB) Record(ctx context.Context, run model.Run) error {
	paramsJSON, err := json.Marshal(run.Params)
	if err != nil {
		return fmt.Errorf("failed to serialize params: %w", err)
	}
	statsJSON, err := json.Marshal(run.Stats)
	if err != nil {
		return fmt.Errorf("failed to serialize stats: %w", err)
	}

	ts := run.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	query := `
	INSERT INTO runs (timestamp, vault, document, run_trigger, params_json, stats_json, table_digest)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := hdb.db.ExecContext(ctx, query,
		ts.UTC().Format(storedTimeLayout),
		run.Vault,
		run.Document,
		string(run.Trigger),
		string(paramsJSON),
		string(statsJSON),
		run.TableDigest,
	)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}

	id, _ := result.LastInsertId()
	hdb.logger.Debug("recorded run", "id", id, "document", run.Document, "trigger", run.Trigger)
	return nil
}

// List returns runs newest first. An empty document lists every document.
// A limit of zero or less means no limit.
func (hdb *HistoryDB) List(ctx context.Context, document string, limit int) ([]model.Run, error) {
	query := `
	SELECT id, timestamp, vault, document, run_trigger, params_json, stats_json, table_digest
	FROM runs
	WHERE (? = '' OR document = ?)
	ORDER BY timestamp DESC, id DESC
	`
	args := []any{document, document}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := hdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// Documents returns every document that has at least one run, sorted.
func (hdb *HistoryDB) Documents(ctx context.Context) ([]string, error) {
	rows, err := hdb.db.QueryContext(ctx, "SELECT DISTINCT document FROM runs ORDER BY document")
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var docs []string
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, doc)
	}

	return docs, rows.Err()
}

// Get retrieves a run by its ID.
func (hdb *HistoryDB) Get(ctx context.Context, id int64) (model.Run, error) {
	query := `
	SELECT id, timestamp, vault, document, run_trigger, params_json, stats_json, table_digest
	FROM runs
	WHERE id = ?
	`

	run, err := scanRun(hdb.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Run{}, fmt.Errorf("run %d: %w", id, ErrNotFound)
	}
	return run, err
}

// LatestPair returns the two most recent runs of a document, older first.
// ErrNotFound is returned when fewer than two runs exist.
func (hdb *HistoryDB) LatestPair(ctx context.Context, document string) (older, newer model.Run, err error) {
	runs, err := hdb.List(ctx, document, 2)
	if err != nil {
		return model.Run{}, model.Run{}, err
	}
	if len(runs) < 2 {
		return model.Run{}, model.Run{}, fmt.Errorf("two runs of %s: %w", document, ErrNotFound)
	}
	return runs[1], runs[0], nil
}

// Prune deletes all but the newest keep runs of a document and returns
// the number of deleted rows.
func (hdb *HistoryDB) Prune(ctx context.Context, document string, keep int) (int64, error) {
	query := `
	DELETE FROM runs
	WHERE document = ? AND id NOT IN (
		SELECT id FROM runs WHERE document = ? ORDER BY timestamp DESC, id DESC LIMIT ?
	)
	`

	result, err := hdb.db.ExecContext(ctx, query, document, document, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to prune runs: %w", err)
	}
	return result.RowsAffected()
}

// rowScanner is implemented by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(s rowScanner) (model.Run, error) {
	var run model.Run
	var timestamp, trigger, paramsJSON, statsJSON string

	err := s.Scan(&run.ID, &timestamp, &run.Vault, &run.Document, &trigger, &paramsJSON, &statsJSON, &run.TableDigest)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Run{}, err
	}
	if err != nil {
		return model.Run{}, fmt.Errorf("failed to scan run: %w", err)
	}

	run.Timestamp = parseTimestamp(timestamp)
	run.Trigger = model.Trigger(trigger)

	if err := json.Unmarshal([]byte(paramsJSON), &run.Params); err != nil {
		return model.Run{}, fmt.Errorf("failed to deserialize params of run %d: %w", run.ID, err)
	}
	if err := json.Unmarshal([]byte(statsJSON), &run.Stats); err != nil {
		return model.Run{}, fmt.Errorf("failed to deserialize stats of run %d: %w", run.ID, err)
	}

	return run, nil
}

// timestampFormats lists the layouts a stored timestamp may use.
// Rows are written with storedTimeLayout; the others cover manual edits
// and SQLite's own datetime() output.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999",
}

// parseTimestamp returns the zero time when no layout matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
