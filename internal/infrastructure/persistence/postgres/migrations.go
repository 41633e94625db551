package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// ErrMigrationFailed wraps every failure of Migrate and Rollback.
var ErrMigrationFailed = errors.New("postgres: migration failed")

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: CREATE ATTENDANCE DOCUMENTS
// ══════════════════════════════════════════════════════════════════════════════

// The body column is JSON rather than JSONB: JSONB reorders object keys and
// the roster document depends on key order.
const migration001Up = `
CREATE TABLE IF NOT EXISTS attendance_documents (
    name VARCHAR(255) PRIMARY KEY,
    body JSON NOT NULL,
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);
`

const migration001Down = `
DROP TABLE IF EXISTS attendance_documents;
`

// Migration - одна версия схемы. AppliedAt и IsApplied заполняет Status.
type Migration struct {
	Version   int
	Name      string
	UpSQL     string
	DownSQL   string
	AppliedAt time.Time
	IsApplied bool
}

// GetMigrations returns the schema history, oldest first.
func GetMigrations() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "create_attendance_documents",
			UpSQL:   migration001Up,
			DownSQL: migration001Down,
		},
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATOR
// Applied versions are recorded in schema_migrations.
// ══════════════════════════════════════════════════════════════════════════════

const (
	createVersionsTable = `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    INTEGER PRIMARY KEY,
			name       TEXT NOT NULL,
			applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		)`
	selectVersions = `SELECT version, applied_at FROM schema_migrations`
	insertVersion  = `INSERT INTO schema_migrations (version, name) VALUES ($1, $2)`
	deleteVersion  = `DELETE FROM schema_migrations WHERE version = $1`
)

// Migrator применяет и откатывает встроенные миграции.
type Migrator struct {
	conn       *Connection
	migrations []Migration
}

// NewMigrator creates a Migrator over the embedded migrations.
func NewMigrator(conn *Connection) *Migrator {
	return &Migrator{conn: conn, migrations: GetMigrations()}
}

// applied returns version -> applied_at, creating the bookkeeping table first.
func (m *Migrator) applied(ctx context.Context) (map[int]time.Time, error) {
	pool, err := m.conn.acquire()
	if err != nil {
		return nil, err
	}
	if _, err := pool.Exec(ctx, createVersionsTable); err != nil {
		return nil, fmt.Errorf("%w: create schema_migrations: %v", ErrMigrationFailed, err)
	}

	rows, err := pool.Query(ctx, selectVersions)
	if err != nil {
		return nil, fmt.Errorf("%w: read schema_migrations: %v", ErrMigrationFailed, err)
	}

	out := make(map[int]time.Time)
	var (
		version int
		at      time.Time
	)
	_, err = pgx.ForEachRow(rows, []any{&version, &at}, func() error {
		out[version] = at
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: scan schema_migrations: %v", ErrMigrationFailed, err)
	}
	return out, nil
}

// Migrate applies every pending migration, each in its own transaction.
func (m *Migrator) Migrate(ctx context.Context) error {
	done, err := m.applied(ctx)
	if err != nil {
		return err
	}

	for _, mig := range m.migrations {
		if _, ok := done[mig.Version]; ok {
			continue
		}
		err := m.conn.inTx(ctx, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, mig.UpSQL); err != nil {
				return err
			}
			_, err := tx.Exec(ctx, insertVersion, mig.Version, mig.Name)
			return err
		})
		if err != nil {
			return fmt.Errorf("%w: up %03d: %v", ErrMigrationFailed, mig.Version, err)
		}
	}
	return nil
}

// Rollback reverts the newest applied migration. With nothing applied it
// does nothing.
func (m *Migrator) Rollback(ctx context.Context) error {
	done, err := m.applied(ctx)
	if err != nil {
		return err
	}

	for i := len(m.migrations) - 1; i >= 0; i-- {
		mig := m.migrations[i]
		if _, ok := done[mig.Version]; !ok {
			continue
		}
		err := m.conn.inTx(ctx, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, mig.DownSQL); err != nil {
				return err
			}
			_, err := tx.Exec(ctx, deleteVersion, mig.Version)
			return err
		})
		if err != nil {
			return fmt.Errorf("%w: down %03d: %v", ErrMigrationFailed, mig.Version, err)
		}
		return nil
	}
	return nil
}

// Status lists every known migration with its applied state.
func (m *Migrator) Status(ctx context.Context) ([]Migration, error) {
	done, err := m.applied(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]Migration, len(m.migrations))
	copy(out, m.migrations)
	for i := range out {
		out[i].AppliedAt, out[i].IsApplied = done[out[i].Version]
	}
	return out, nil
}
