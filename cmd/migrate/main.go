package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/storelink/backend/internal/infrastructure/config"
	"github.com/storelink/backend/internal/infrastructure/logger"
	"github.com/storelink/backend/internal/infrastructure/migration"
)

const defaultMigrationsPath = "migrations"

func main() {
	var (
		migrationsPath string
		logLevel       string
	)

	flag.StringVar(&migrationsPath, "path", defaultMigrationsPath, "Path to migrations directory")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	log := logger.New(config.LogConfig{
		Level:  logLevel,
		Format: "console",
		Output: "stdout",
	})
	defer func() {
		_ = log.Sync()
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	absPath, err := filepath.Abs(migrationsPath)
	if err != nil {
		log.Fatal("Failed to resolve migrations path", zap.Error(err))
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}
	defer func() {
		_ = db.Close()
	}()

	migrator, err := migration.New(db, absPath, log)
	if err != nil {
		log.Fatal("Failed to create migrator", zap.Error(err))
	}
	defer func() {
		_ = migrator.Close()
	}()

	switch command {
	case "up":
		err = migrator.Up()
	case "down":
		err = migrator.Down()
	case "steps":
		if len(args) < 2 {
			log.Fatal("Step count required. Usage: migrate steps <n>")
		}
		var n int
		n, err = strconv.Atoi(args[1])
		if err != nil {
			log.Fatal("Step count must be an integer", zap.String("got", args[1]))
		}
		err = migrator.Steps(n)
	case "version":
		var version uint
		var dirty bool
		version, dirty, err = migrator.Version()
		if err == nil {
			log.Info("Current migration version",
				zap.Uint("version", version),
				zap.Bool("dirty", dirty),
			)
		}
	case "force":
		if len(args) < 2 {
			log.Fatal("Version required. Usage: migrate force <version>")
		}
		var v int
		v, err = strconv.Atoi(args[1])
		if err != nil {
			log.Fatal("Version must be an integer", zap.String("got", args[1]))
		}
		err = migrator.Force(v)
	default:
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		log.Fatal("Migration failed", zap.Error(err))
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Usage: migrate [flags] <command>

Commands:
  up               Apply all pending migrations
  down             Roll back all migrations
  steps <n>        Apply n migrations (negative rolls back)
  version          Print the current migration version
  force <version>  Set the version without running migrations

Flags:
  -path       Path to migrations directory (default: ./migrations)
  -log-level  Log level (default: info)`)
}
