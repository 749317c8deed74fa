package iocache

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/huangsam/repostat/internal/contract"
	"github.com/huangsam/repostat/schema"
)

//go:embed migrations
var migrationsFS embed.FS

// migration is one embedded up script.
type migration struct {
	name  string
	query string
}

// backendMigrations returns the embedded migration directory for backend.
func backendMigrations(backend schema.DatabaseBackend) (fs.FS, error) {
	switch backend {
	case schema.SQLiteBackend, schema.MySQLBackend, schema.PostgreSQLBackend:
		return fs.Sub(migrationsFS, path.Join("migrations", string(backend)))
	default:
		return nil, fmt.Errorf("no migrations for backend: %s", backend)
	}
}

// upMigrations lists the up scripts for backend in version order.
func upMigrations(backend schema.DatabaseBackend) ([]migration, error) {
	dir, err := backendMigrations(backend)
	if err != nil {
		return nil, err
	}
	entries, err := fs.ReadDir(dir, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations: %w", err)
	}

	var result []migration
	for _, entry := range entries { // ReadDir sorts by file name
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".up.sql") {
			continue
		}
		data, err := fs.ReadFile(dir, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %w", entry.Name(), err)
		}
		result = append(result, migration{name: entry.Name(), query: string(data)})
	}
	return result, nil
}

// MigrateStore runs database migrations for the statistics store.
// - If targetVersion < 0, it migrates to the latest version.
// - If targetVersion == 0, it rolls back all migrations.
// - If targetVersion > 0, it migrates to the specified version.
func MigrateStore(backend schema.DatabaseBackend, connStr string, targetVersion int) error {
	if backend == schema.NoneBackend {
		return errors.New("migrations are not supported for the none backend")
	}

	db, _, err := openDatabase(backend, connStr)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	driver, err := migrationDriver(db, backend)
	if err != nil {
		return err
	}

	dir, err := backendMigrations(backend)
	if err != nil {
		return err
	}
	sourceDriver, err := iofs.New(dir, ".")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "repostat", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	currentVersion, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to get current migration version: %w", err)
	}
	if dirty {
		return fmt.Errorf("database is in a dirty state at version %d. Please fix manually or force version", currentVersion)
	}

	log := contract.Logger.WithField("backend", backend)
	switch {
	case targetVersion < 0:
		err = m.Up()
		if err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("failed to migrate to latest version: %w", err)
		}
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("No migration needed. Database is already at the latest version")
		} else {
			newVersion, _, _ := m.Version()
			log.WithField("from", currentVersion).WithField("to", newVersion).Info("Migrated statistics store")
		}
	case targetVersion == 0:
		err = m.Down()
		if err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("failed to roll back to version 0: %w", err)
		}
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("No migration needed. Database is already at version 0")
		} else {
			log.WithField("from", currentVersion).Info("Rolled back statistics store to version 0")
		}
	default:
		err = m.Migrate(uint(targetVersion))
		if err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("failed to migrate to version %d: %w", targetVersion, err)
		}
		if errors.Is(err, migrate.ErrNoChange) {
			log.WithField("version", targetVersion).Info("No migration needed")
		} else {
			log.WithField("from", currentVersion).WithField("to", targetVersion).Info("Migrated statistics store")
		}
	}
	return nil
}

// StoreVersion reports the applied migration version, 0 when none has been applied.
func StoreVersion(backend schema.DatabaseBackend, connStr string) (uint, bool, error) {
	db, _, err := openDatabase(backend, connStr)
	if err != nil {
		return 0, false, err
	}
	defer func() { _ = db.Close() }()

	driver, err := migrationDriver(db, backend)
	if err != nil {
		return 0, false, err
	}
	version, dirty, err := driver.Version()
	if err != nil {
		return 0, false, fmt.Errorf("failed to read migration version: %w", err)
	}
	if version == database.NilVersion {
		return 0, false, nil
	}
	return uint(version), dirty, nil
}

func migrationDriver(db *sql.DB, backend schema.DatabaseBackend) (database.Driver, error) {
	var (
		driver database.Driver
		err    error
	)
	switch backend {
	case schema.SQLiteBackend:
		driver, err = sqlite.WithInstance(db, &sqlite.Config{})
	case schema.MySQLBackend:
		driver, err = mysql.WithInstance(db, &mysql.Config{})
	case schema.PostgreSQLBackend:
		driver, err = pgxmigrate.WithInstance(db, &pgxmigrate.Config{})
	default:
		return nil, fmt.Errorf("unsupported backend: %s", backend)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s migrate driver: %w", backend, err)
	}
	return driver, nil
}
