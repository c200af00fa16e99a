package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "github.com/lib/pq"

	"github.com/BhanuIITMandi/SprintSync/internal/config"
)

// setupDB drops the existing tables, applies the schema and loads seed data.
func setupDB(env *config.Env, dir string) error {
	db, err := sql.Open("postgres", env.DatabaseEnv.DSN())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if _, err := db.Exec(`DROP TABLE IF EXISTS tasks, users CASCADE`); err != nil {
		return fmt.Errorf("failed to drop tables: %w", err)
	}
	slog.Info("dropped existing tables")

	if err := execFile(db, filepath.Join(dir, "schema.sql")); err != nil {
		return err
	}
	slog.Info("applied schema")

	if err := execFile(db, filepath.Join(dir, "seed.sql")); err != nil {
		return err
	}
	slog.Info("loaded seed data")
	return nil
}

// seedDB loads seed data without touching the schema.
func seedDB(env *config.Env, dir string) error {
	db, err := sql.Open("postgres", env.DatabaseEnv.DSN())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := execFile(db, filepath.Join(dir, "seed.sql")); err != nil {
		return err
	}
	slog.Info("loaded seed data")
	return nil
}

func execFile(db *sql.DB, path string) error {
	script, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if _, err := db.Exec(string(script)); err != nil {
		return fmt.Errorf("failed to execute %s: %w", path, err)
	}
	return nil
}
