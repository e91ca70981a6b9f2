package journal

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/transync/transync/internal/db"
)

const schema = `
CREATE TABLE IF NOT EXISTS sync_journal (
    path TEXT PRIMARY KEY,
    file_id TEXT NOT NULL,
    locale TEXT NOT NULL,
    checksum TEXT NOT NULL,
    synced_at TEXT NOT NULL -- RFC3339
);

CREATE INDEX IF NOT EXISTS idx_journal_file_id ON sync_journal(file_id);
`

var (
	ErrNotOpen     = errors.New("journal: not open")
	ErrAlreadyOpen = errors.New("journal: already open")
)

// Entry is the state of a file right after its last successful transfer.
type Entry struct {
	Path     string
	FileID   string
	Locale   string
	Checksum string
	SyncedAt time.Time
}

type dbEntry struct {
	Path     string `db:"path"`
	FileID   string `db:"file_id"`
	Locale   string `db:"locale"`
	Checksum string `db:"checksum"`
	SyncedAt string `db:"synced_at"`
}

func (e *dbEntry) toEntry() (*Entry, error) {
	syncedAt, err := time.Parse(time.RFC3339, e.SyncedAt)
	if err != nil {
		return nil, fmt.Errorf("parse synced_at for %s: %w", e.Path, err)
	}
	return &Entry{
		Path:     e.Path,
		FileID:   e.FileID,
		Locale:   e.Locale,
		Checksum: e.Checksum,
		SyncedAt: syncedAt,
	}, nil
}

// Journal remembers the checksum of every file at its last sync, so a later run
// can tell whether the local copy changed since.
type Journal struct {
	db     *sqlx.DB
	dbPath string
}

func New(dbPath string) *Journal {
	return &Journal{dbPath: dbPath}
}

// Open opens the database and creates the schema.
func (j *Journal) Open() error {
	if j.db != nil {
		return ErrAlreadyOpen
	}

	conn, err := db.NewSqliteDB(db.WithPath(j.dbPath), db.WithMaxOpenConns(1))
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}

	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return fmt.Errorf("init journal schema: %w", err)
	}

	j.db = conn
	return nil
}

func (j *Journal) Close() error {
	if j.db == nil {
		return ErrNotOpen
	}
	err := j.db.Close()
	j.db = nil
	if err != nil {
		return fmt.Errorf("close journal: %w", err)
	}
	slog.Debug("journal closed", "path", j.dbPath)
	return nil
}

// Get returns the entry for path, or nil when the path was never synced.
func (j *Journal) Get(path string) (*Entry, error) {
	if j.db == nil {
		return nil, ErrNotOpen
	}

	var row dbEntry
	err := j.db.Get(&row, "SELECT path, file_id, locale, checksum, synced_at FROM sync_journal WHERE path = ?", path)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("query %s: %w", path, err)
	}
	return row.toEntry()
}

// Set records e, replacing any previous entry for the same path.
func (j *Journal) Set(e *Entry) error {
	if j.db == nil {
		return ErrNotOpen
	}
	if e == nil {
		return errors.New("journal: nil entry")
	}

	syncedAt := e.SyncedAt
	if syncedAt.IsZero() {
		syncedAt = time.Now()
	}

	row := dbEntry{
		Path:     e.Path,
		FileID:   e.FileID,
		Locale:   e.Locale,
		Checksum: e.Checksum,
		SyncedAt: syncedAt.UTC().Format(time.RFC3339),
	}

	query := `INSERT OR REPLACE INTO sync_journal (path, file_id, locale, checksum, synced_at)
	          VALUES (:path, :file_id, :locale, :checksum, :synced_at)`
	if _, err := j.db.NamedExec(query, row); err != nil {
		return fmt.Errorf("set %s: %w", e.Path, err)
	}
	slog.Debug("journal set", "path", e.Path, "checksum", e.Checksum)
	return nil
}

// Delete forgets path.
func (j *Journal) Delete(path string) error {
	if j.db == nil {
		return ErrNotOpen
	}
	if _, err := j.db.Exec("DELETE FROM sync_journal WHERE path = ?", path); err != nil {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	return nil
}

// All returns every entry keyed by path. Rows with a corrupt timestamp are skipped.
func (j *Journal) All() (map[string]*Entry, error) {
	if j.db == nil {
		return nil, ErrNotOpen
	}

	var rows []dbEntry
	if err := j.db.Select(&rows, "SELECT path, file_id, locale, checksum, synced_at FROM sync_journal"); err != nil {
		return nil, fmt.Errorf("query journal: %w", err)
	}

	entries := make(map[string]*Entry, len(rows))
	for _, row := range rows {
		e, err := row.toEntry()
		if err != nil {
			slog.Warn("journal", "path", row.Path, "error", err)
			continue
		}
		entries[e.Path] = e
	}
	return entries, nil
}

// Path returns the database file path.
func (j *Journal) Path() string {
	return j.dbPath
}
