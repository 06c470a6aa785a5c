package repos

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

//go:embed migrations
var migrationsFS embed.FS

func init() {
	// modernc registers as "sqlite", which sqlx does not know by default.
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

// SQLiteDSN builds a file DSN with the pragmas the schema relies on
// (cascading deletes need foreign_keys).
func SQLiteDSN(path string) string {
	return "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

func OpenDB(driver, dsn string) (*sqlx.DB, error) {
	switch driver {
	case DriverSQLite, DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if driver == DriverSQLite {
		// SQLite allows one writer; a single connection keeps transactions
		// and guarded stock updates strictly serialized.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(100)
		db.SetMaxIdleConns(10)
	}
	return db, nil
}

// Migrate applies the embedded schema migrations for the db's dialect.
func Migrate(db *sqlx.DB) error {
	src, err := iofs.New(migrationsFS, "migrations/"+db.DriverName())
	if err != nil {
		return fmt.Errorf("could not open migrations: %w", err)
	}

	var driver database.Driver
	switch db.DriverName() {
	case DriverSQLite:
		driver, err = migratesqlite.WithInstance(db.DB, &migratesqlite.Config{})
	case DriverPostgres:
		driver, err = migratepg.WithInstance(db.DB, &migratepg.Config{
			MigrationsTable: "storefront_schema_migrations",
		})
	default:
		err = fmt.Errorf("unsupported database driver %q", db.DriverName())
	}
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, db.DriverName(), driver)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}
	return nil
}

type seedUnit struct {
	unitType, name, symbol, multiplier string
	base                               bool
	order                              int
}

var defaultUnits = []seedUnit{
	{"Weight", "g", "g", "1", true, 1},
	{"Weight", "kg", "kg", "1000", false, 2},
	{"Weight", "mg", "mg", "0.001", false, 3},
	{"Volume", "ml", "ml", "1", true, 1},
	{"Volume", "l", "L", "1000", false, 2},
	{"Count", "piece", "pc", "1", true, 1},
	{"Count", "dozen", "dz", "12", false, 2},
}

// SeedUnitValues inserts the canonical units into an empty registry. Once any
// unit exists the registry belongs to the admins and is left alone, so
// renamed or deactivated units are never re-created on the next boot.
func SeedUnitValues(ctx context.Context, db *sqlx.DB, actor string) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var existing int
	if err := tx.GetContext(ctx, &existing, `SELECT COUNT(*) FROM unit_values`); err != nil {
		return fmt.Errorf("count unit values: %w", err)
	}
	if existing > 0 {
		return nil
	}

	now := time.Now().UTC()
	q := tx.Rebind(`
		INSERT INTO unit_values(
			id, unit_type, name, symbol, multiplier, is_base_unit, display_order, is_active,
			created_by, last_modified_by, created_on_utc, last_modified_on_utc
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING`)
	for _, u := range defaultUnits {
		if _, err := tx.ExecContext(ctx, q,
			uuid.NewString(), u.unitType, u.name, u.symbol, decimal.RequireFromString(u.multiplier),
			u.base, u.order, true, actor, actor, now, now); err != nil {
			return fmt.Errorf("seed unit %s: %w", u.name, err)
		}
	}
	return tx.Commit()
}

// isUniqueViolation recognizes unique-constraint failures from both drivers.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var sqErr *sqlite.Error
	if errors.As(err, &sqErr) {
		return sqErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
			sqErr.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return false
}
