package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"strconv"

	"github.com/golang-migrate/migrate/v4"

	"github.com/noah-isme/dsa-enrollment-api/pkg/config"
	"github.com/noah-isme/dsa-enrollment-api/pkg/database"
	"github.com/noah-isme/dsa-enrollment-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	var dir string
	flag.StringVar(&dir, "path", cfg.Catalog.MigrationsPath, "Path to migration files")
	flag.Parse()

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck
	sugar := logr.Sugar()

	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		return
	}

	m, err := database.NewMigrator(cfg.Database, dir)
	if err != nil {
		sugar.Fatalw("migrator init failed", "error", err)
	}
	defer m.Close() //nolint:errcheck

	switch args[0] {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			sugar.Fatalw("up failed", "error", err)
		}
		sugar.Infow("migrated up", "path", dir)
	case "down":
		if err := m.Steps(-1); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			sugar.Fatalw("down failed", "error", err)
		}
		sugar.Infow("rolled back one migration", "path", dir)
	case "version":
		version, dirty, err := m.Version()
		if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
			sugar.Fatalw("version failed", "error", err)
		}
		fmt.Printf("Version: %d, Dirty: %t\n", version, dirty)
	case "force":
		if len(args) < 2 {
			sugar.Fatal("force requires a version argument")
		}
		v, err := strconv.Atoi(args[1])
		if err != nil {
			sugar.Fatalw("invalid version", "value", args[1], "error", err)
		}
		if err := m.Force(v); err != nil {
			sugar.Fatalw("force failed", "error", err)
		}
		sugar.Infow("forced version", "version", v)
	default:
		printUsage()
	}
}

func printUsage() {
	fmt.Println("Usage: migrate [flags] <command>")
	fmt.Println("Commands: up, down, version, force <version>")
	fmt.Println("Flags:")
	flag.PrintDefaults()
}
