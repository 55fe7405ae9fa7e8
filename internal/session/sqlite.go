package session

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/gta-evmap/internal/dashboard"
)

// SQLiteStore implements Store using modernc.org/sqlite, so selections
// survive a server restart.
type SQLiteStore struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string, ttl time.Duration) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db, ttl: ttl, now: time.Now}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS sessions (
	id            TEXT PRIMARY KEY,
	quarter_index INTEGER NOT NULL DEFAULT 0,
	updated_at    DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_sessions_updated_at ON sessions(updated_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// cutoff is the oldest updated_at still considered live.
func (s *SQLiteStore) cutoff() time.Time {
	if s.ttl <= 0 {
		return time.Time{}
	}
	return s.now().UTC().Add(-s.ttl)
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (dashboard.Selection, bool, error) {
	var idx int
	err := s.db.QueryRowContext(ctx,
		`SELECT quarter_index FROM sessions WHERE id = ? AND updated_at >= ?`,
		id, s.cutoff(),
	).Scan(&idx)
	if errors.Is(err, sql.ErrNoRows) {
		return dashboard.Selection{}, false, nil
	}
	if err != nil {
		return dashboard.Selection{}, false, eris.Wrapf(err, "sqlite: get session %s", id)
	}
	return dashboard.Selection{Index: idx}, true, nil
}

func (s *SQLiteStore) Put(ctx context.Context, id string, sel dashboard.Selection) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, quarter_index, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET quarter_index = excluded.quarter_index, updated_at = excluded.updated_at`,
		id, sel.Index, s.now().UTC(),
	)
	return eris.Wrapf(err, "sqlite: put session %s", id)
}

func (s *SQLiteStore) DeleteExpired(ctx context.Context) (int, error) {
	if s.ttl <= 0 {
		return 0, nil
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE updated_at < ?`, s.cutoff())
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: delete expired sessions")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: rows affected")
	}
	return int(n), nil
}
