package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/wakefit-labs/ytrank/internal/engine"
)

// SQLiteStore is a local TabularStore backend. Tabs map to rows of a single
// table keyed (tab, seq); cells are stored as a JSON string array so the
// positional row shape matches the sheet backend exactly.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens (creating if needed) the database at path.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS tabs (
			name TEXT PRIMARY KEY
		);
		CREATE TABLE IF NOT EXISTS tab_rows (
			tab   TEXT NOT NULL,
			seq   INTEGER NOT NULL,
			cells TEXT NOT NULL,
			PRIMARY KEY (tab, seq)
		);`)
	if err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// Close releases the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }

// GetAllRows returns every row of a tab including the header.
func (s *SQLiteStore) GetAllRows(ctx context.Context, tab string) ([][]string, error) {
	ok, err := s.tabExists(ctx, tab)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT cells FROM tab_rows WHERE tab = ? ORDER BY seq`, tab)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", tab, err)
	}
	defer rows.Close()

	var out [][]string
	for rows.Next() {
		var cells string
		if err := rows.Scan(&cells); err != nil {
			return nil, fmt.Errorf("scan %s: %w", tab, err)
		}
		var row []string
		if err := json.Unmarshal([]byte(cells), &row); err != nil {
			return nil, fmt.Errorf("decode row in %s: %w", tab, err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// EnsureTab creates the tab when absent.
func (s *SQLiteStore) EnsureTab(ctx context.Context, tab string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tabs (name) VALUES (?) ON CONFLICT (name) DO NOTHING`, tab)
	if err != nil {
		return fmt.Errorf("ensure tab %s: %w", tab, err)
	}
	return nil
}

// Clear removes all rows from a tab.
func (s *SQLiteStore) Clear(ctx context.Context, tab string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM tab_rows WHERE tab = ?`, tab)
	if err != nil {
		return fmt.Errorf("clear %s: %w", tab, err)
	}
	return nil
}

// WriteHeader sets row 1 of a tab.
func (s *SQLiteStore) WriteHeader(ctx context.Context, tab string, header []string) error {
	cells, err := json.Marshal(header)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO tab_rows (tab, seq, cells) VALUES (?, 0, ?)
		ON CONFLICT (tab, seq) DO UPDATE SET cells = excluded.cells`,
		tab, string(cells))
	if err != nil {
		return fmt.Errorf("write header %s: %w", tab, err)
	}
	engine.IncrStoreWrites()
	return nil
}

// AppendRows appends after the last row of a tab.
func (s *SQLiteStore) AppendRows(ctx context.Context, tab string, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var next int64
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(seq), -1) + 1 FROM tab_rows WHERE tab = ?`, tab).Scan(&next)
	if err != nil {
		return fmt.Errorf("append %s: %w", tab, err)
	}

	for i, row := range rows {
		cells, err := json.Marshal(row)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO tab_rows (tab, seq, cells) VALUES (?, ?, ?)`,
			tab, next+int64(i), string(cells)); err != nil {
			return fmt.Errorf("append %s: %w", tab, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("append %s: %w", tab, err)
	}
	engine.IncrStoreWrites()
	return nil
}

func (s *SQLiteStore) tabExists(ctx context.Context, tab string) (bool, error) {
	var name string
	err := s.db.QueryRowContext(ctx, `SELECT name FROM tabs WHERE name = ?`, tab).Scan(&name)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("tab lookup %s: %w", tab, err)
	}
	return true, nil
}
