// Package session keeps each browser session's quarter selection.
package session

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/sells-group/gta-evmap/internal/dashboard"
)

// Store persists selections by session ID.
type Store interface {
	// Get returns the selection for id. ok is false for unknown or expired sessions.
	Get(ctx context.Context, id string) (sel dashboard.Selection, ok bool, err error)
	Put(ctx context.Context, id string, sel dashboard.Selection) error
	DeleteExpired(ctx context.Context) (int, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// NewID returns a fresh session identifier.
func NewID() string { return uuid.New().String() }

// ValidID reports whether id looks like one issued by NewID.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Open returns the store for driver ("memory" or "sqlite"), migrated.
func Open(ctx context.Context, driver, dsn string, ttl time.Duration) (Store, error) {
	var (
		st  Store
		err error
	)
	switch driver {
	case "memory", "":
		st = NewMemory(ttl)
	case "sqlite":
		st, err = NewSQLite(dsn, ttl)
		if err != nil {
			return nil, err
		}
	default:
		return nil, eris.Errorf("session: unknown driver %q", driver)
	}

	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, err
	}
	return st, nil
}
