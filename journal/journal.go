// Package journal records merge runs in a SQLite database.
//
// Each import appends one row holding the keys the merge added, updated and
// ignored. The journal is an audit trail only; it is never replayed.
package journal

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Run is one journaled merge.
type Run struct {
	ID            int64
	RanAt         time.Time
	DataFile      string
	Source        string
	Project       string
	IgnoreUnknown bool
	DryRun        bool
	Added         []string
	Updated       []string
	Ignored       []string
}

// Journal is an open merge journal.
type Journal struct {
	DB *sql.DB
	SQ sq.StatementBuilderType
}

// Open opens (creating if needed) the journal at dbPath and applies
// migrations.
func Open(dbPath string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("make journal dir: %w", err)
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pragma journal_mode: %w", err)
	}
	if err := applyMigrations(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Journal{DB: db, SQ: sq.StatementBuilder}, nil
}

// Close closes the database.
func (j *Journal) Close() error {
	return j.DB.Close()
}

// Record appends a run and returns its id.
func (j *Journal) Record(ctx context.Context, r Run) (int64, error) {
	if r.RanAt.IsZero() {
		r.RanAt = time.Now()
	}
	added, err := encodeKeys(r.Added)
	if err != nil {
		return 0, err
	}
	updated, err := encodeKeys(r.Updated)
	if err != nil {
		return 0, err
	}
	ignored, err := encodeKeys(r.Ignored)
	if err != nil {
		return 0, err
	}

	q := j.SQ.Insert("runs").
		Columns("ran_at", "data_file", "source", "project", "ignore_unknown", "dry_run", "added", "updated", "ignored").
		Values(r.RanAt.UTC().Format(time.RFC3339Nano), r.DataFile, r.Source, r.Project, r.IgnoreUnknown, r.DryRun, added, updated, ignored)
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return 0, err
	}
	res, err := j.DB.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return 0, fmt.Errorf("record run: %w", err)
	}
	return res.LastInsertId()
}

// List returns the most recent runs, newest first. A project filter of ""
// matches every project; limit <= 0 means no limit.
func (j *Journal) List(ctx context.Context, project string, limit int) ([]*Run, error) {
	q := j.SQ.Select("id", "ran_at", "data_file", "source", "project", "ignore_unknown", "dry_run", "added", "updated", "ignored").
		From("runs").OrderBy("id DESC")
	if project != "" {
		q = q.Where(sq.Eq{"project": project})
	}
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := j.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []*Run
	for rows.Next() {
		var r Run
		var ranAt, added, updated, ignored string
		if err := rows.Scan(&r.ID, &ranAt, &r.DataFile, &r.Source, &r.Project, &r.IgnoreUnknown, &r.DryRun, &added, &updated, &ignored); err != nil {
			return nil, err
		}
		if r.RanAt, err = time.Parse(time.RFC3339Nano, ranAt); err != nil {
			return nil, fmt.Errorf("run %d: parsing ran_at: %w", r.ID, err)
		}
		if r.Added, err = decodeKeys(added); err != nil {
			return nil, err
		}
		if r.Updated, err = decodeKeys(updated); err != nil {
			return nil, err
		}
		if r.Ignored, err = decodeKeys(ignored); err != nil {
			return nil, err
		}
		out = append(out, &r)
	}
	return out, rows.Err()
}

func encodeKeys(keys []string) (string, error) {
	if keys == nil {
		keys = []string{}
	}
	b, err := json.Marshal(keys)
	if err != nil {
		return "", fmt.Errorf("encode keys: %w", err)
	}
	return string(b), nil
}

func decodeKeys(s string) ([]string, error) {
	var keys []string
	if err := json.Unmarshal([]byte(s), &keys); err != nil {
		return nil, fmt.Errorf("decode keys: %w", err)
	}
	return keys, nil
}

// ---------------------------------------------------------------------------
// Migrations
// ---------------------------------------------------------------------------

func applyMigrations(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        name TEXT NOT NULL UNIQUE,
        applied_at TEXT NOT NULL
    )`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	for _, name := range files {
		var n int
		err := db.QueryRow(`SELECT 1 FROM schema_migrations WHERE name = ?`, name).Scan(&n)
		if err == nil {
			continue
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("check migration %s: %w", name, err)
		}
		b, err := migrationsFS.ReadFile(path.Join("migrations", name))
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := db.Exec(string(b)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
		if _, err := db.Exec(`INSERT INTO schema_migrations(name, applied_at) VALUES (?, ?)`, name, time.Now().UTC().Format(time.RFC3339)); err != nil {
			return fmt.Errorf("record migration %s: %w", name, err)
		}
	}
	return nil
}
