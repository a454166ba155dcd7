package database

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

//go:embed migrations/catalogue/*.sql migrations/manager/*.sql
var migrationsFS embed.FS

// MigrationSet names an embedded migration directory and the goose version
// table tracking it. Each service keeps its own table so both can share one
// database.
type MigrationSet struct {
	Dir   string
	Table string
}

var (
	CatalogueMigrations = MigrationSet{Dir: "migrations/catalogue", Table: "goose_catalogue_version"}
	ManagerMigrations   = MigrationSet{Dir: "migrations/manager", Table: "goose_manager_version"}
)

func prepare(set MigrationSet) error {
	goose.SetBaseFS(migrationsFS)
	goose.SetTableName(set.Table)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return nil
}

// RunMigrations executes all pending migrations of the given set
func RunMigrations(db *sql.DB, set MigrationSet, logger *zap.Logger) error {
	if err := prepare(set); err != nil {
		return err
	}

	logger.Info("Checking for pending migrations...", zap.String("dir", set.Dir))

	if err := goose.Up(db, set.Dir); err != nil {
		logger.Error("Failed to run migrations", zap.String("dir", set.Dir), zap.Error(err))
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("Migrations completed successfully", zap.String("dir", set.Dir))
	return nil
}

// MigrationVersion returns the current schema version of the given set
func MigrationVersion(db *sql.DB, set MigrationSet) (int64, error) {
	if err := prepare(set); err != nil {
		return 0, err
	}

	version, err := goose.GetDBVersion(db)
	if err != nil {
		return 0, fmt.Errorf("failed to read migration version: %w", err)
	}
	return version, nil
}
