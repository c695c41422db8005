package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"github.com/pageza/pantry-chef/backend/internal/database"
)

func applyCmd() *cobra.Command {
	var (
		dryRun bool
		path   string
	)

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply pending migrations in a single transaction",
		Long: `Apply every embedded migration that is not yet recorded in schema_migrations.

Examples:
  migrate apply
  migrate apply --dry-run
  migrate apply --path ./hotfix.sql`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			migrations, err := loadMigrations(path)
			if err != nil {
				return err
			}
			if dryRun {
				printMigrations(cmd.OutOrStdout(), migrations)
				return nil
			}

			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			applied, err := applyPending(cmd.Context(), db, migrations)
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date")
				return nil
			}
			for _, name := range applied {
				fmt.Fprintf(cmd.OutOrStdout(), "Applied %s\n", name)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the migration SQL without touching the database")
	cmd.Flags().StringVar(&path, "path", "", "apply this SQL file instead of the embedded migrations")
	return cmd
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "List migrations and when they were applied",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			migrations, err := database.Migrations()
			if err != nil {
				return err
			}

			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			applied, err := appliedMigrations(cmd.Context(), db)
			if err != nil {
				return err
			}
			printStatus(cmd.OutOrStdout(), migrations, applied)
			return nil
		},
	}
}

// loadMigrations returns the embedded migrations, or the single file at path
func loadMigrations(path string) ([]database.Migration, error) {
	if path == "" {
		return database.Migrations()
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read migration file: %w", err)
	}
	return []database.Migration{{Name: filepath.Base(path), SQL: string(content)}}, nil
}

func openDB() (*sql.DB, error) {
	url := databaseURL
	if url == "" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load .env: %w", err)
		}
		url = os.Getenv("DATABASE_URL")
	}
	if url == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}

	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

func appliedMigrations(ctx context.Context, db *sql.DB) (map[string]time.Time, error) {
	if _, err := db.ExecContext(ctx, database.CreateMigrationsTableSQL); err != nil {
		return nil, fmt.Errorf("failed to create migrations table: %w", err)
	}

	rows, err := db.QueryContext(ctx, "SELECT name, applied_at FROM "+database.MigrationsTable)
	if err != nil {
		return nil, fmt.Errorf("failed to read applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]time.Time)
	for rows.Next() {
		var name string
		var at time.Time
		if err := rows.Scan(&name, &at); err != nil {
			return nil, err
		}
		applied[name] = at
	}
	return applied, rows.Err()
}

// pending returns the migrations missing from applied, in order
func pending(migrations []database.Migration, applied map[string]time.Time) []database.Migration {
	var out []database.Migration
	for _, m := range migrations {
		if _, ok := applied[m.Name]; !ok {
			out = append(out, m)
		}
	}
	return out
}

func applyPending(ctx context.Context, db *sql.DB, migrations []database.Migration) ([]string, error) {
	applied, err := appliedMigrations(ctx, db)
	if err != nil {
		return nil, err
	}
	todo := pending(migrations, applied)
	if len(todo) == 0 {
		return nil, nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	names := make([]string, 0, len(todo))
	for _, m := range todo {
		if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
			return nil, fmt.Errorf("failed to execute migration %s: %w", m.Name, err)
		}
		if _, err := tx.ExecContext(ctx, "INSERT INTO "+database.MigrationsTable+" (name) VALUES ($1)", m.Name); err != nil {
			return nil, fmt.Errorf("failed to record migration %s: %w", m.Name, err)
		}
		names = append(names, m.Name)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit migrations: %w", err)
	}
	return names, nil
}

func printMigrations(w io.Writer, migrations []database.Migration) {
	for _, m := range migrations {
		fmt.Fprintf(w, "-- %s\n%s\n", m.Name, m.SQL)
	}
}

func printStatus(w io.Writer, migrations []database.Migration, applied map[string]time.Time) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "MIGRATION\tAPPLIED AT")
	for _, m := range migrations {
		at := "pending"
		if t, ok := applied[m.Name]; ok {
			at = t.UTC().Format(time.RFC3339)
		}
		fmt.Fprintf(tw, "%s\t%s\n", m.Name, at)
	}
	tw.Flush()
}
