package persist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const sqliteDriverName = "sqlite"

const schemaPlannerState = `
CREATE TABLE IF NOT EXISTS planner_state (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    document TEXT NOT NULL,
    updated_at TIMESTAMP NOT NULL
);
`

const (
	plannerStateRowID = 1

	upsertStateSQL = `
		INSERT INTO planner_state (id, document, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			document=excluded.document,
			updated_at=excluded.updated_at
	`

	selectStateSQL = `
		SELECT document, updated_at
		FROM planner_state WHERE id=?
	`
)

// OpenSQLite opens or creates the local planner database and ensures the
// schema exists.
func OpenSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open(sqliteDriverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %q: %w", path, err)
	}

	// One writer; the editor saves after every committed mutation.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA foreign_keys = ON;",
		"PRAGMA busy_timeout = 5000;",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return db, nil
}

func ensureSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin schema transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.Exec(schemaPlannerState); err != nil {
		return fmt.Errorf("apply planner_state schema: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema transaction: %w", err)
	}
	return nil
}

// SQLite keeps the single local planner document in one row. It satisfies
// store.Persister.
type SQLite struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLite(db *sql.DB) *SQLite {
	return &SQLite{db: db, now: time.Now}
}

// Save writes the serialized plan, replacing any previous one.
func (r *SQLite) Save(ctx context.Context, data []byte) error {
	if len(data) == 0 {
		return errors.New("save planner state: empty document")
	}
	_, err := r.db.ExecContext(ctx, upsertStateSQL,
		plannerStateRowID,
		string(data),
		r.now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("save planner state: %w", err)
	}
	return nil
}

// Load returns the stored document, or nil when nothing was saved yet.
func (r *SQLite) Load(ctx context.Context) ([]byte, error) {
	doc, _, err := r.load(ctx)
	return doc, err
}

// UpdatedAt reports when the document was last saved. The zero time means
// nothing is stored.
func (r *SQLite) UpdatedAt(ctx context.Context) (time.Time, error) {
	_, at, err := r.load(ctx)
	return at, err
}

func (r *SQLite) load(ctx context.Context) ([]byte, time.Time, error) {
	row := r.db.QueryRowContext(ctx, selectStateSQL, plannerStateRowID)

	var doc string
	var updatedAt time.Time
	if err := row.Scan(&doc, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, time.Time{}, nil
		}
		return nil, time.Time{}, fmt.Errorf("load planner state: %w", err)
	}
	return []byte(doc), updatedAt.UTC(), nil
}
