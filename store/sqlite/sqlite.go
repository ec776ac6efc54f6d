/*
Package sqlite provides a SQLite-backed policy store.

PURPOSE:
  Implements maturity.PolicyStore (and therefore maturity.Source) on top
  of a single policies table. This is the data-access collaborator the
  calculation run reads base records from.

KEY TABLES:
  policies: One row per policy, in insertion order

STORAGE FORMAT:
  - Money and percentages are stored as TEXT decimal strings so values
    round-trip exactly (no REAL columns).
  - Start dates are stored as YYYY-MM-DD.
  - A missing policy number is stored as NULL; non-NULL numbers are unique.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging).

USAGE:
  store, err := sqlite.New("./data/maturity.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  records, err := store.BaseRecords(ctx)

SEE ALSO:
  - maturity/store.go: Interface definition
  - store/memory/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/maturity-engine/maturity"
)

const dateLayout = "2006-01-02"

// Store implements maturity.PolicyStore using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Every connection to ":memory:" is a fresh database.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS policies (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		policy_number TEXT,
		policy_start_date TEXT NOT NULL,
		premiums TEXT NOT NULL,
		membership BOOLEAN NOT NULL DEFAULT FALSE,
		discretionary_bonus TEXT NOT NULL,
		uplift_percentage TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_policies_number
		ON policies(policy_number) WHERE policy_number IS NOT NULL;
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// SOURCE (maturity.Source interface)
// =============================================================================

// BaseRecords returns every stored policy in insertion order.
func (s *Store) BaseRecords(ctx context.Context) ([]maturity.BaseRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT policy_number, policy_start_date, premiums, membership,
		       discretionary_bonus, uplift_percentage
		FROM policies
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query policies: %w", err)
	}
	defer rows.Close()

	records := []maturity.BaseRecord{}
	for rows.Next() {
		rec, err := scanPolicy(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// =============================================================================
// POLICY STORE
// =============================================================================

// SavePolicy inserts a policy record.
func (s *Store) SavePolicy(ctx context.Context, rec maturity.BaseRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.insert(ctx, s.db, rec)
}

// SavePolicies inserts multiple policy records atomically.
func (s *Store) SavePolicies(ctx context.Context, recs []maturity.BaseRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, rec := range recs {
		if err := s.insert(ctx, tx, rec); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ReplacePolicies deletes every policy and inserts recs in one transaction.
func (s *Store) ReplacePolicies(ctx context.Context, recs []maturity.BaseRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM policies"); err != nil {
		return fmt.Errorf("failed to clear policies: %w", err)
	}
	for _, rec := range recs {
		if err := s.insert(ctx, tx, rec); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *Store) insert(ctx context.Context, db interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}, rec maturity.BaseRecord) error {
	query := `
		INSERT INTO policies
		(policy_number, policy_start_date, premiums, membership,
		 discretionary_bonus, uplift_percentage, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.ExecContext(ctx, query,
		nullString(rec.PolicyNumber),
		rec.PolicyStartDate.UTC().Format(dateLayout),
		rec.Premiums.String(),
		rec.Membership,
		rec.DiscretionaryBonus.String(),
		rec.UpliftPercentage.String(),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: %s", maturity.ErrDuplicatePolicyNumber, rec.PolicyNumber)
		}
		return fmt.Errorf("failed to insert policy: %w", err)
	}
	return nil
}

// GetPolicy retrieves a policy by number. Returns nil if not found.
func (s *Store) GetPolicy(ctx context.Context, policyNumber string) (*maturity.BaseRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT policy_number, policy_start_date, premiums, membership,
		       discretionary_bonus, uplift_percentage
		FROM policies
		WHERE policy_number = ?
	`, policyNumber)

	rec, err := scanPolicy(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// DeletePolicy removes a policy by number.
func (s *Store) DeletePolicy(ctx context.Context, policyNumber string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM policies WHERE policy_number = ?", policyNumber)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return maturity.ErrPolicyNotFound
	}
	return nil
}

// Reset clears all data (for demo scenarios).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM policies")
	return err
}

// Helper functions

type scanner interface {
	Scan(dest ...any) error
}

func scanPolicy(row scanner) (maturity.BaseRecord, error) {
	var rec maturity.BaseRecord
	var number sql.NullString
	var startDate, premiums, bonus, uplift string
	if err := row.Scan(&number, &startDate, &premiums, &rec.Membership, &bonus, &uplift); err != nil {
		return rec, err
	}

	var err error
	rec.PolicyNumber = number.String
	if rec.PolicyStartDate, err = time.Parse(dateLayout, startDate); err != nil {
		return rec, fmt.Errorf("policy %q: invalid start date %q: %w", rec.PolicyNumber, startDate, err)
	}
	if rec.Premiums, err = parseDecimal(premiums); err != nil {
		return rec, fmt.Errorf("policy %q: invalid premiums: %w", rec.PolicyNumber, err)
	}
	if rec.DiscretionaryBonus, err = parseDecimal(bonus); err != nil {
		return rec, fmt.Errorf("policy %q: invalid discretionary bonus: %w", rec.PolicyNumber, err)
	}
	if rec.UpliftPercentage, err = parseDecimal(uplift); err != nil {
		return rec, fmt.Errorf("policy %q: invalid uplift percentage: %w", rec.PolicyNumber, err)
	}
	return rec, nil
}

func parseDecimal(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

var _ maturity.PolicyStore = (*Store)(nil)
