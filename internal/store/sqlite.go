package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.

	"backlab/internal/backtest"
	"backlab/internal/domain"
)

// Compile-time interface check.
var _ RunStore = (*SQLiteStore)(nil)

// SQLiteStore implements RunStore backed by a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	symbol       TEXT NOT NULL,
	strategy     TEXT NOT NULL,
	created_at   INTEGER NOT NULL,
	win_rate     REAL NOT NULL,
	return_pct   REAL NOT NULL,
	sharpe       REAL NOT NULL,
	sortino      REAL NOT NULL,
	max_drawdown REAL NOT NULL,
	calmar       REAL NOT NULL,
	total_trades INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS trades (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id      INTEGER NOT NULL REFERENCES runs(id),
	symbol      TEXT NOT NULL,
	side        TEXT NOT NULL,
	entry_time  INTEGER NOT NULL,
	exit_time   INTEGER NOT NULL,
	entry_price REAL NOT NULL,
	exit_price  REAL NOT NULL,
	size        REAL NOT NULL,
	profit      REAL NOT NULL,
	reason      TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_trades_run ON trades(run_id);
`

// NewSQLiteStore opens (or creates) a SQLite database at dbPath, ensures the
// schema exists, and returns a ready-to-use SQLiteStore.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveRun inserts a run record and its trades in one transaction.
func (s *SQLiteStore) SaveRun(ctx context.Context, symbol string, res *backtest.Result) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	m := res.Metrics
	r, err := tx.ExecContext(ctx, `
		INSERT INTO runs (symbol, strategy, created_at, win_rate, return_pct,
		                  sharpe, sortino, max_drawdown, calmar, total_trades)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		symbol, res.Strategy, time.Now().UnixMilli(),
		m.WinRate, m.Return, m.Sharpe, m.Sortino, m.MaxDrawdown, m.Calmar, m.TotalTrades,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	runID, err := r.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, t := range res.Trades {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO trades (run_id, symbol, side, entry_time, exit_time,
			                    entry_price, exit_price, size, profit, reason)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, t.Symbol, string(t.Side), t.EntryTime.UnixMilli(), t.ExitTime.UnixMilli(),
			t.EntryPrice, t.ExitPrice, t.Size, t.Profit, t.Reason,
		); err != nil {
			return 0, fmt.Errorf("inserting trade: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return runID, nil
}

// ListRuns returns the most recent run summaries, newest first.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, symbol, strategy, created_at, win_rate, return_pct,
		       sharpe, sortino, max_drawdown, calmar, total_trades
		FROM runs ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var rec RunRecord
		var createdMs int64
		if err := rows.Scan(&rec.ID, &rec.Symbol, &rec.Strategy, &createdMs,
			&rec.WinRate, &rec.Return, &rec.Sharpe, &rec.Sortino,
			&rec.MaxDrawdown, &rec.Calmar, &rec.TotalTrades); err != nil {
			return nil, err
		}
		rec.CreatedAt = time.UnixMilli(createdMs)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// ListTrades returns the trades recorded for a run, in entry order.
func (s *SQLiteStore) ListTrades(ctx context.Context, runID int64) ([]domain.Trade, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT symbol, side, entry_time, exit_time, entry_price, exit_price,
		       size, profit, reason
		FROM trades WHERE run_id = ? ORDER BY entry_time, id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Trade
	for rows.Next() {
		var t domain.Trade
		var side string
		var entryMs, exitMs int64
		if err := rows.Scan(&t.Symbol, &side, &entryMs, &exitMs,
			&t.EntryPrice, &t.ExitPrice, &t.Size, &t.Profit, &t.Reason); err != nil {
			return nil, err
		}
		t.Side = domain.Side(side)
		t.EntryTime = time.UnixMilli(entryMs)
		t.ExitTime = time.UnixMilli(exitMs)
		out = append(out, t)
	}
	return out, rows.Err()
}
