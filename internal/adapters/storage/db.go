package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

// ErrUnknownDriver is returned by Open for unsupported drivers.
var ErrUnknownDriver = errors.New("unsupported database driver")

// Supported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// sqlitePragmas are appended to file DSNs: WAL, busy timeout, FK enforcement.
const sqlitePragmas = "_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"

// Open connects to the database and verifies the connection.
// PRE: driver is DriverSQLite or DriverPostgres
// POST: Returns a pinged pool configured for the driver
func Open(driver, dsn string) (*sqlx.DB, error) {
	switch driver {
	case DriverSQLite:
		if !strings.Contains(dsn, "?") {
			dsn += "?" + sqlitePragmas
		}
	case DriverPostgres:
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownDriver, driver)
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}
	return db, nil
}

// migration is one schema step. Statements use types both drivers accept:
// TEXT timestamps in TimeLayout, BIGINT money in cents, BOOLEAN flags.
type migration struct {
	version    int
	statements []string
}

var migrations = []migration{
	{
		version: 1,
		statements: []string{
			`CREATE TABLE IF NOT EXISTS accounts (
				id TEXT PRIMARY KEY,
				email TEXT NOT NULL UNIQUE,
				password_hash TEXT NOT NULL,
				created_at TEXT NOT NULL,
				failed_logins INTEGER NOT NULL DEFAULT 0,
				locked_until TEXT
			)`,
			`CREATE TABLE IF NOT EXISTS user_roles (
				user_id TEXT NOT NULL UNIQUE REFERENCES accounts(id) ON DELETE CASCADE,
				role TEXT NOT NULL CHECK (role IN ('admin', 'member'))
			)`,
			`CREATE INDEX IF NOT EXISTS idx_user_roles_role ON user_roles(role)`,
			`CREATE TABLE IF NOT EXISTS profiles (
				id TEXT PRIMARY KEY REFERENCES accounts(id) ON DELETE CASCADE,
				full_name TEXT NOT NULL,
				phone TEXT NOT NULL DEFAULT ''
			)`,
		},
	},
	{
		version: 2,
		statements: []string{
			`CREATE TABLE IF NOT EXISTS membership_plans (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				price BIGINT NOT NULL CHECK (price >= 0),
				duration_months INTEGER NOT NULL,
				is_active BOOLEAN NOT NULL DEFAULT TRUE
			)`,
			`CREATE TABLE IF NOT EXISTS member_memberships (
				id TEXT PRIMARY KEY,
				user_id TEXT NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
				plan_id TEXT NOT NULL REFERENCES membership_plans(id),
				start_date TEXT NOT NULL,
				end_date TEXT NOT NULL,
				status TEXT NOT NULL
			)`,
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_memberships_one_active ON member_memberships(user_id) WHERE status = 'active'`,
			`CREATE TABLE IF NOT EXISTS trainers (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				email TEXT NOT NULL,
				phone TEXT NOT NULL DEFAULT '',
				specialization TEXT NOT NULL DEFAULT '',
				bio TEXT NOT NULL DEFAULT '',
				is_active BOOLEAN NOT NULL DEFAULT TRUE
			)`,
			`CREATE TABLE IF NOT EXISTS classes (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				duration_minutes INTEGER NOT NULL,
				max_capacity INTEGER NOT NULL,
				trainer_id TEXT REFERENCES trainers(id),
				is_active BOOLEAN NOT NULL DEFAULT TRUE
			)`,
		},
	},
	{
		version: 3,
		statements: []string{
			`CREATE TABLE IF NOT EXISTS class_schedules (
				id TEXT PRIMARY KEY,
				class_id TEXT NOT NULL REFERENCES classes(id),
				scheduled_date TEXT NOT NULL,
				start_time TEXT NOT NULL,
				end_time TEXT NOT NULL,
				current_bookings INTEGER NOT NULL DEFAULT 0 CHECK (current_bookings >= 0)
			)`,
			`CREATE INDEX IF NOT EXISTS idx_class_schedules_date ON class_schedules(scheduled_date)`,
			`CREATE TABLE IF NOT EXISTS class_bookings (
				id TEXT PRIMARY KEY,
				user_id TEXT NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
				schedule_id TEXT NOT NULL REFERENCES class_schedules(id) ON DELETE CASCADE,
				status TEXT NOT NULL DEFAULT 'confirmed',
				created_at TEXT NOT NULL,
				UNIQUE (user_id, schedule_id)
			)`,
		},
	},
	{
		version: 4,
		statements: []string{
			`CREATE TABLE IF NOT EXISTS attendance (
				id TEXT PRIMARY KEY,
				user_id TEXT NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
				check_in_time TEXT NOT NULL,
				check_out_time TEXT
			)`,
			`CREATE INDEX IF NOT EXISTS idx_attendance_check_in ON attendance(check_in_time)`,
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_attendance_one_open ON attendance(user_id) WHERE check_out_time IS NULL`,
			`CREATE TABLE IF NOT EXISTS payments (
				id TEXT PRIMARY KEY,
				user_id TEXT NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
				amount BIGINT NOT NULL CHECK (amount >= 0),
				payment_method TEXT NOT NULL,
				status TEXT NOT NULL,
				payment_date TEXT NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_payments_date ON payments(payment_date)`,
		},
	},
}

// LatestSchemaVersion returns the version the schema reaches after MigrateDB.
func LatestSchemaVersion() int {
	return migrations[len(migrations)-1].version
}

// SchemaVersion returns the currently applied schema version (0 for an empty database).
// PRE: db is a valid database connection
// POST: Returns the highest recorded version
func SchemaVersion(ctx context.Context, db SQLDB) (int, error) {
	var version sql.NullInt64
	err := db.QueryRowContext(ctx, "SELECT MAX(version) FROM schema_version").Scan(&version)
	if err != nil {
		return 0, err
	}
	if !version.Valid {
		return 0, nil
	}
	return int(version.Int64), nil
}

// MigrateDB applies every pending migration, each in its own transaction.
// PRE: db is a valid database connection
// POST: Schema is at LatestSchemaVersion
func MigrateDB(ctx context.Context, db SQLDB) error {
	if _, err := db.ExecContext(ctx, "CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL, applied_at TEXT NOT NULL)"); err != nil {
		return fmt.Errorf("failed to create schema_version: %w", err)
	}

	current, err := SchemaVersion(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		err := InTx(ctx, db, func(ctx context.Context) error {
			q := Conn(ctx, db)
			for _, stmt := range m.statements {
				if _, err := q.ExecContext(ctx, stmt); err != nil {
					return err
				}
			}
			_, err := q.ExecContext(ctx, q.Rebind("INSERT INTO schema_version (version, applied_at) VALUES (?, ?)"), m.version, FormatTime(time.Now()))
			return err
		})
		if err != nil {
			return fmt.Errorf("migration %d failed: %w", m.version, err)
		}
		slog.Info("schema_migrated", "version", m.version)
	}
	return nil
}
