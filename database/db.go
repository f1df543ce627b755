package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"focushub/internal/config"
	"focushub/internal/logging"

	"github.com/golang-migrate/migrate/v4"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Connections holds the primary handle and the reader used for rating
// aggregates. Reader is the primary when no replica is configured.
type Connections struct {
	Primary *gorm.DB
	Reader  *gorm.DB
}

// SQL returns the primary's pool, for pings and migrations.
func (c *Connections) SQL() (*sql.DB, error) {
	return c.Primary.DB()
}

// Close closes both pools.
func (c *Connections) Close() {
	for _, db := range []*gorm.DB{c.Primary, c.Reader} {
		if db == nil {
			continue
		}
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}

func ConnectDB(cfg *config.Config) (*Connections, error) {
	primary, err := open(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	conns := &Connections{Primary: primary, Reader: primary}

	if cfg.DatabaseReplicaURL != "" {
		reader, err := open(cfg.DatabaseReplicaURL, cfg.IsDevelopment())
		if err != nil {
			// averages still work off the primary
			logging.Logger.Warn().Err(err).Msg("replica unavailable, reading from primary")
		} else {
			conns.Reader = reader
		}
	}

	logging.Logger.Info().Bool("replica", conns.Reader != conns.Primary).Msg("connected to the database")
	return conns, nil
}

func open(dsn string, verbose bool) (*gorm.DB, error) {
	level := logger.Warn
	if verbose {
		level = logger.Info
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	// Verify the connection
	if err := sqlDB.Ping(); err != nil {
		// close the handle if ping fails to avoid resource leak
		sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// RunMigrations applies the embedded migrations to db.
func RunMigrations(db *sql.DB) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to open migration source: %w", err)
	}

	driver, err := migratepgx.WithInstance(db, &migratepgx.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "pgx5", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, dirty, _ := m.Version()
	logging.Logger.Info().Uint("version", version).Bool("dirty", dirty).Msg("database migrations applied")
	return nil
}
