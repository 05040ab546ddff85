// scoutlens-admin runs trusted maintenance tasks directly against the
// database file, bypassing the HTTP layer and its session checks. Keep it
// off shared hosts; it is the offline counterpart of an elevated service
// key.
package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/scoutlens/scoutlens/internal/config"
	dbpkg "github.com/scoutlens/scoutlens/internal/db"
)

// syncTables lists the tables the sync commands may touch. Views and the
// auth tables stay off-limits.
var syncTables = map[string]bool{
	"teams":           true,
	"players":         true,
	"matches":         true,
	"match_targets":   true,
	"scout_reports":   true,
	"shortlists":      true,
	"shortlist_items": true,
	"notes":           true,
	"quick_notes":     true,
}

func main() {
	zl, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer func() { _ = zl.Sync() }()
	logger := zl.Sugar()

	root := &cobra.Command{
		Use:           "scoutlens-admin",
		Short:         "Offline maintenance for the ScoutLens database",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		migrateCmd(logger),
		pullCmd(logger),
		pushCmd(logger),
	)

	if err := root.Execute(); err != nil {
		logger.Errorw("command failed", "err", err)
		os.Exit(1)
	}
}

func openDB() (*sql.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return dbpkg.Open(cfg.DBPath)
}

func migrateCmd(logger *zap.SugaredLogger) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()
			if err := dbpkg.Migrate(db); err != nil {
				return err
			}
			logger.Infow("migrations applied")
			return nil
		},
	}
}

func pullCmd(logger *zap.SugaredLogger) *cobra.Command {
	return &cobra.Command{
		Use:   "pull <table> <file.json>",
		Short: "Dump a table to a JSON file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, path := args[0], args[1]
			if !syncTables[table] {
				return fmt.Errorf("table %q is not syncable", table)
			}
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			rows, err := db.Query("SELECT * FROM " + table)
			if err != nil {
				return err
			}
			defer rows.Close()

			out, err := rowsToMaps(rows)
			if err != nil {
				return err
			}
			b, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				return err
			}
			if err := os.WriteFile(path, b, 0o644); err != nil {
				return err
			}
			logger.Infow("pulled", "table", table, "rows", len(out), "file", path)
			return nil
		},
	}
}

func pushCmd(logger *zap.SugaredLogger) *cobra.Command {
	return &cobra.Command{
		Use:   "push <table> <file.json>",
		Short: "Upsert rows from a JSON file into a table",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, path := args[0], args[1]
			if !syncTables[table] {
				return fmt.Errorf("table %q is not syncable", table)
			}
			b, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			var payload []map[string]any
			if err := json.Unmarshal(b, &payload); err != nil {
				// Accept a single object too, like the original sync tool.
				var one map[string]any
				if err2 := json.Unmarshal(b, &one); err2 != nil {
					return fmt.Errorf("parse %s: %w", path, err)
				}
				payload = []map[string]any{one}
			}

			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			tx, err := db.Begin()
			if err != nil {
				return err
			}
			defer func() { _ = tx.Rollback() }()
			for i, row := range payload {
				if err := upsertRow(tx, table, row); err != nil {
					return fmt.Errorf("row %d: %w", i, err)
				}
			}
			if err := tx.Commit(); err != nil {
				return err
			}
			logger.Infow("pushed", "table", table, "rows", len(payload), "file", path)
			return nil
		},
	}
}

func rowsToMaps(rows *sql.Rows) ([]map[string]any, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0)
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		m := make(map[string]any, len(cols))
		for i, c := range cols {
			switch v := vals[i].(type) {
			case []byte:
				m[c] = string(v)
			default:
				m[c] = v
			}
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func upsertRow(tx *sql.Tx, table string, row map[string]any) error {
	if len(row) == 0 {
		return fmt.Errorf("empty row")
	}
	cols := make([]string, 0, len(row))
	args := make([]any, 0, len(row))
	marks := make([]string, 0, len(row))
	for c, v := range row {
		if !identOK(c) {
			return fmt.Errorf("bad column name %q", c)
		}
		cols = append(cols, c)
		args = append(args, v)
		marks = append(marks, "?")
	}
	q := fmt.Sprintf("INSERT OR REPLACE INTO %s (%s) VALUES (%s)",
		table, strings.Join(cols, ", "), strings.Join(marks, ", "))
	_, err := tx.Exec(q, args...)
	return err
}

func identOK(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !(r == '_' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')) {
			return false
		}
	}
	return true
}
