package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/nizy/tailor/internal/infrastructure/config"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// sqliteParams are per-connection pragmas, so they travel in the DSN
const sqliteParams = "?_foreign_keys=on&_busy_timeout=5000"

// Database is an open GORM session with its connection pool
type Database struct {
	DB     *gorm.DB
	SQL    *sql.DB
	Driver string
}

// NewDatabase opens a connection that logs nothing
func NewDatabase(cfg *config.DatabaseConfig) (*Database, error) {
	return NewDatabaseWithLogger(cfg, logger.Default.LogMode(logger.Silent))
}

// NewDatabaseWithLogger opens the configured database, sizes the pool and
// pings it once
func NewDatabaseWithLogger(cfg *config.DatabaseConfig, gormLogger logger.Interface) (*Database, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.SQLitePath + sqliteParams)
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.DSN())
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
		PrepareStmt:            cfg.Driver == config.DriverPostgres,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.Driver, err)
	}
	pool, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("connection pool: %w", err)
	}

	configurePool(pool, cfg)
	if err := pool.Ping(); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("ping %s database: %w", cfg.Driver, err)
	}
	return &Database{DB: db, SQL: pool, Driver: cfg.Driver}, nil
}

// configurePool keeps SQLite on a single connection; it allows one writer
// and a second connection only produces "database is locked"
func configurePool(pool *sql.DB, cfg *config.DatabaseConfig) {
	open, idle := cfg.MaxOpenConns, cfg.MaxIdleConns
	if cfg.Driver == config.DriverSQLite {
		open, idle = 1, 1
	}
	pool.SetMaxOpenConns(open)
	pool.SetMaxIdleConns(idle)
	pool.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
	pool.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Minute)
}

// PingContext lets the health check probe the pool
func (d *Database) PingContext(ctx context.Context) error {
	return d.SQL.PingContext(ctx)
}

func (d *Database) Close() error {
	return d.SQL.Close()
}
