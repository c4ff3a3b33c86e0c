package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"foodhub-be/internal/config"
	"foodhub-be/internal/db"
	"foodhub-be/internal/logger"

	"go.uber.org/zap"
)

func main() {
	mode := flag.String("mode", "up", "up applies pending migrations, down rolls back the latest")
	dir := flag.String("dir", "./migrations", "directory holding *.sql migration files")
	flag.Parse()

	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()
	log := logger.L()

	database := db.InitDB(cfg)
	defer database.Close()

	if err := run(database, log, *mode, *dir); err != nil {
		log.Fatal("migration run failed", zap.Error(err))
	}
}

func run(database *sql.DB, log *zap.Logger, mode, dir string) error {
	_, err := database.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at TIMESTAMP NOT NULL DEFAULT NOW()
		);
	`)
	if err != nil {
		return fmt.Errorf("ensure schema_migrations table: %w", err)
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	if err != nil {
		return fmt.Errorf("list migrations in %s: %w", dir, err)
	}
	sort.Strings(files)

	switch mode {
	case "up":
		return applyPending(database, log, files)
	case "down":
		return rollbackLatest(database, log, files)
	default:
		return fmt.Errorf("unknown mode %q (use up or down)", mode)
	}
}

func applyPending(database *sql.DB, log *zap.Logger, files []string) error {
	applied := 0
	for _, file := range files {
		version := filepath.Base(file)

		var exists bool
		err := database.QueryRow(`SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)`, version).Scan(&exists)
		if err != nil {
			return fmt.Errorf("check status of %s: %w", version, err)
		}
		if exists {
			log.Info("already applied, skipping", zap.String("version", version))
			continue
		}

		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("read %s: %w", file, err)
		}

		log.Info("applying migration", zap.String("version", version))
		if _, err := database.Exec(sqlSection(string(content), "Up")); err != nil {
			return fmt.Errorf("apply %s: %w", version, err)
		}

		if _, err := database.Exec(`INSERT INTO schema_migrations (version) VALUES ($1)`, version); err != nil {
			return fmt.Errorf("record %s: %w", version, err)
		}
		applied++
	}

	log.Info("migrations up to date", zap.Int("applied", applied))
	return nil
}

func rollbackLatest(database *sql.DB, log *zap.Logger, files []string) error {
	var latest string
	err := database.QueryRow(`SELECT version FROM schema_migrations ORDER BY applied_at DESC LIMIT 1`).Scan(&latest)
	if err == sql.ErrNoRows {
		log.Info("nothing to roll back")
		return nil
	}
	if err != nil {
		return fmt.Errorf("find latest applied migration: %w", err)
	}

	var path string
	for _, f := range files {
		if filepath.Base(f) == latest {
			path = f
			break
		}
	}
	if path == "" {
		return fmt.Errorf("no migration file for applied version %s", latest)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	log.Info("rolling back migration", zap.String("version", latest))
	if _, err := database.Exec(sqlSection(string(content), "Down")); err != nil {
		return fmt.Errorf("roll back %s: %w", latest, err)
	}

	if _, err := database.Exec(`DELETE FROM schema_migrations WHERE version = $1`, latest); err != nil {
		return fmt.Errorf("unrecord %s: %w", latest, err)
	}

	log.Info("rollback complete", zap.String("version", latest))
	return nil
}

// sqlSection extracts the statements between a "-- +migrate <section>"
// marker and the next marker (or end of file).
func sqlSection(content, section string) string {
	var out strings.Builder
	inSection := false

	for _, line := range strings.Split(content, "\n") {
		if strings.Contains(line, "-- +migrate "+section) {
			inSection = true
			continue
		}
		if inSection && strings.HasPrefix(line, "-- +migrate") {
			break
		}
		if inSection {
			out.WriteString(line + "\n")
		}
	}
	return out.String()
}
