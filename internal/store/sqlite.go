package store

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rgehrsitz/pengo/internal/domain"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists usage reports and balance snapshots to a SQLite database.
// Money columns are TEXT so decimals round-trip exactly.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so the admin export can read while the API writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS usage_reports (
			id                    TEXT PRIMARY KEY,
			created_at            INTEGER NOT NULL,
			expected_pension      TEXT,
			age                   INTEGER,
			gender                TEXT,
			salary                TEXT,
			included_sick_periods INTEGER,
			account_funds         TEXT,
			real_pension          TEXT,
			adjusted_pension      TEXT,
			postal_code           TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_usage_created ON usage_reports(created_at)`,

		`CREATE TABLE IF NOT EXISTS balance_snapshots (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id       TEXT NOT NULL,
			year         INTEGER NOT NULL,
			main_balance TEXT,
			sub_balance  TEXT,
			salary       TEXT,
			contribution TEXT,
			sick_days    TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_balance_run ON balance_snapshots(run_id, year)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", strings.TrimSpace(s)[:40], err)
		}
	}
	return nil
}

// RecordUsage stores one usage report, assigning an ID and timestamp when missing
func (r *SQLiteRecorder) RecordUsage(ctx context.Context, usage *domain.UsageReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if usage.ID == "" {
		usage.ID = uuid.NewString()
	}
	if usage.CreatedAt.IsZero() {
		usage.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, `INSERT INTO usage_reports
		(id, created_at, expected_pension, age, gender, salary, included_sick_periods,
		 account_funds, real_pension, adjusted_pension, postal_code)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		usage.ID, usage.CreatedAt.UnixMilli(), usage.ExpectedPension.String(),
		usage.Age, string(usage.Gender), usage.Salary.String(), usage.IncludedSickPeriods,
		usage.AccountFunds.String(), usage.RealPension.String(), usage.AdjustedPension.String(),
		usage.PostalCode,
	)
	if err != nil {
		return fmt.Errorf("insert usage report: %w", err)
	}
	return nil
}

// RecordBalances stores a timeline under a run ID in one transaction
func (r *SQLiteRecorder) RecordBalances(ctx context.Context, runID string, balances []domain.YearlyBalance) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO balance_snapshots
		(run_id, year, main_balance, sub_balance, salary, contribution, sick_days)
		VALUES (?,?,?,?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, b := range balances {
		if _, err := stmt.ExecContext(ctx, runID, b.Year,
			b.MainBalance.String(), b.SubBalance.String(),
			b.Salary.String(), b.Contribution.String(), b.SickDays.String(),
		); err != nil {
			return fmt.Errorf("insert balance %d: %w", b.Year, err)
		}
	}
	return tx.Commit()
}

// ListBalances returns the snapshots of one run ordered by year
func (r *SQLiteRecorder) ListBalances(ctx context.Context, runID string) ([]domain.YearlyBalance, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT year, main_balance, sub_balance, salary, contribution, sick_days
		FROM balance_snapshots WHERE run_id = ? ORDER BY year`, runID)
	if err != nil {
		return nil, fmt.Errorf("query balances: %w", err)
	}
	defer rows.Close()

	balances := []domain.YearlyBalance{}
	for rows.Next() {
		var b domain.YearlyBalance
		if err := rows.Scan(&b.Year, &b.MainBalance, &b.SubBalance, &b.Salary, &b.Contribution, &b.SickDays); err != nil {
			return nil, fmt.Errorf("scan balance: %w", err)
		}
		balances = append(balances, b)
	}
	return balances, rows.Err()
}

// ListUsage returns usage reports inside the filter window, oldest first
func (r *SQLiteRecorder) ListUsage(ctx context.Context, filter UsageFilter) ([]domain.UsageReport, error) {
	query := `SELECT id, created_at, expected_pension, age, gender, salary, included_sick_periods,
		account_funds, real_pension, adjusted_pension, postal_code FROM usage_reports`
	var conds []string
	var args []any
	if !filter.From.IsZero() {
		conds = append(conds, "created_at >= ?")
		args = append(args, filter.From.UnixMilli())
	}
	if !filter.To.IsZero() {
		conds = append(conds, "created_at < ?")
		args = append(args, filter.To.UnixMilli())
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at, id"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query usage: %w", err)
	}
	defer rows.Close()

	reports := []domain.UsageReport{}
	for rows.Next() {
		var (
			u         domain.UsageReport
			createdAt int64
			gender    string
		)
		if err := rows.Scan(&u.ID, &createdAt, &u.ExpectedPension, &u.Age, &gender, &u.Salary,
			&u.IncludedSickPeriods, &u.AccountFunds, &u.RealPension, &u.AdjustedPension, &u.PostalCode); err != nil {
			return nil, fmt.Errorf("scan usage: %w", err)
		}
		u.CreatedAt = time.UnixMilli(createdAt).UTC()
		u.Gender = domain.Gender(gender)
		reports = append(reports, u)
	}
	return reports, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
