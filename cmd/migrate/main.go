package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/nizy/tailor/internal/infrastructure/config"
	"github.com/nizy/tailor/internal/infrastructure/logger"
	"github.com/nizy/tailor/internal/infrastructure/migration"
	"go.uber.org/zap"
)

// migrator is the part of migration.Migrator the commands drive
type migrator interface {
	Up() error
	Down() error
	Steps(n int) error
	Version() (uint, bool, error)
	Force(version int) error
}

type command struct {
	usage string
	help  string
	args  int
	run   func(m migrator, args []string, log *zap.Logger) error
}

var commands = map[string]command{
	"up": {usage: "up", help: "Apply all pending migrations", run: func(m migrator, _ []string, _ *zap.Logger) error {
		return m.Up()
	}},
	"down": {usage: "down", help: "Roll back every migration", run: func(m migrator, _ []string, _ *zap.Logger) error {
		return m.Down()
	}},
	"step": {usage: "step <n>", help: "Apply n migrations, or roll back when n is negative", args: 1,
		run: func(m migrator, args []string, _ *zap.Logger) error {
			n, err := intArg(args[0], "step count")
			if err != nil {
				return err
			}
			return m.Steps(n)
		}},
	"version": {usage: "version", help: "Show the applied schema version", run: showVersion},
	"force": {usage: "force <version>", help: "Mark a version as applied without running it", args: 1,
		run: func(m migrator, args []string, log *zap.Logger) error {
			v, err := intArg(args[0], "version")
			if err != nil {
				return err
			}
			log.Warn("Forcing schema version; the database is not changed", zap.Int("version", v))
			return m.Force(v)
		}},
}

func main() {
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.Usage = printUsage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(2)
	}
	name, rest := args[0], args[1:]

	log, err := logger.New(&logger.Config{
		Level:      *logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}
	driver := cfg.Database.Driver
	log = log.With(zap.String("command", name), zap.String("driver", driver))

	if name == "list" {
		if err := listMigrations(driver, log); err != nil {
			log.Fatal("Failed to list migrations", zap.Error(err))
		}
		return
	}

	cmd, ok := commands[name]
	if !ok {
		log.Error("Unknown command")
		printUsage()
		os.Exit(2)
	}
	if len(rest) < cmd.args {
		log.Fatal("Missing argument", zap.String("usage", "migrate "+cmd.usage))
	}

	db, err := openDB(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	m, err := migration.New(db, driver, log)
	if err != nil {
		log.Fatal("Failed to create migrator", zap.Error(err))
	}
	defer m.Close()

	if err := cmd.run(m, rest, log); err != nil {
		log.Fatal("Migration failed", zap.Error(err))
	}
}

func showVersion(m migrator, _ []string, log *zap.Logger) error {
	version, dirty, err := m.Version()
	if err != nil {
		return err
	}
	if version == 0 {
		log.Info("Schema is empty")
		return nil
	}
	log.Info("Schema version", zap.Uint("version", version), zap.Bool("dirty", dirty))
	return nil
}

// listMigrations reads the embedded files and never opens the database
func listMigrations(driver string, log *zap.Logger) error {
	names, err := migration.ListMigrations(driver)
	if err != nil {
		return err
	}
	log.Info("Embedded migrations", zap.Int("count", len(names)))
	for _, n := range names {
		fmt.Println("  -", n)
	}
	return nil
}

func intArg(raw, what string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", what, raw)
	}
	return n, nil
}

func openDB(cfg *config.DatabaseConfig) (*sql.DB, error) {
	var (
		db  *sql.DB
		err error
	)
	switch cfg.Driver {
	case config.DriverSQLite:
		db, err = sql.Open("sqlite3", cfg.SQLitePath+"?_foreign_keys=on")
	case config.DriverPostgres:
		db, err = sql.Open("postgres", cfg.DSN())
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, errors.Join(err, db.Close())
	}
	return db, nil
}

func printUsage() {
	out := flag.CommandLine.Output()
	fmt.Fprintln(out, "Usage: migrate [-log-level level] <command> [argument]")
	fmt.Fprintln(out, "\nCommands:")
	for _, name := range []string{"up", "down", "step", "version", "force"} {
		fmt.Fprintf(out, "  %-18s %s\n", commands[name].usage, commands[name].help)
	}
	fmt.Fprintf(out, "  %-18s %s\n", "list", "List the migrations embedded for the configured driver")
	fmt.Fprintln(out, "\nThe database comes from config.toml and TAILOR_DATABASE_* variables.")
}
