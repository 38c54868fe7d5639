package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"wallet/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteGateway persists snapshots in a local SQLite database. It honors
// the same replace-everything contract as the JSON gateway: Save swaps the
// stored state inside one transaction, Load rebuilds the full snapshot.
type SQLiteGateway struct {
	db *sql.DB
}

// NewSQLiteGateway opens (creating if needed) the database at dbPath and
// applies pending schema migrations.
func NewSQLiteGateway(dbPath string) (*SQLiteGateway, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &SQLiteGateway{db: db}, nil
}

// Close releases the database handle.
func (g *SQLiteGateway) Close() error {
	if g.db != nil {
		return g.db.Close()
	}
	return nil
}

// Save replaces the stored snapshot transactionally, so a failure mid-save
// keeps the previous state intact.
func (g *SQLiteGateway) Save(ctx context.Context, snap core.Snapshot) error {
	tx, err := g.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin save: %v", core.ErrPersistence, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM records`); err != nil {
		return fmt.Errorf("%w: clear records: %v", core.ErrPersistence, err)
	}
	const insertRecord = `
		INSERT INTO records (id, kind, category, amount_cents, done, priority, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	for _, r := range snap.Records {
		done := 0
		if r.Done {
			done = 1
		}
		_, err := tx.ExecContext(ctx, insertRecord,
			r.ID, string(r.Kind), r.Category, r.Amount.Cents, done,
			string(r.Priority), r.Description, r.CreatedAt.Format(time.RFC3339))
		if err != nil {
			return fmt.Errorf("%w: insert record %d: %v", core.ErrPersistence, r.ID, err)
		}
	}

	const upsertState = `
		INSERT INTO wallet_state (id, balance_cents, budget_cents, last_updated)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			balance_cents = excluded.balance_cents,
			budget_cents = excluded.budget_cents,
			last_updated = excluded.last_updated`
	if _, err := tx.ExecContext(ctx, upsertState,
		snap.Balance.Cents, snap.Budget.Cents, snap.LastUpdated.Format(time.RFC3339)); err != nil {
		return fmt.Errorf("%w: store wallet state: %v", core.ErrPersistence, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit save: %v", core.ErrPersistence, err)
	}
	return nil
}

// Load rebuilds the snapshot from the database. An empty database yields an
// empty snapshot; rows that fail to decode report core.ErrCorruptData.
func (g *SQLiteGateway) Load(ctx context.Context) (core.Snapshot, error) {
	var snap core.Snapshot

	var balance, budget int64
	var lastUpdated string
	err := g.db.QueryRowContext(ctx,
		`SELECT balance_cents, budget_cents, last_updated FROM wallet_state WHERE id = 1`).
		Scan(&balance, &budget, &lastUpdated)
	switch {
	case err == sql.ErrNoRows:
		// Fresh database.
	case err != nil:
		return core.Snapshot{}, fmt.Errorf("%w: read wallet state: %v", core.ErrCorruptData, err)
	default:
		snap.Balance = core.Money{Cents: balance}
		snap.Budget = core.Money{Cents: budget}
		if ts, perr := time.Parse(time.RFC3339, lastUpdated); perr == nil {
			snap.LastUpdated = ts
		}
	}

	rows, err := g.db.QueryContext(ctx, `
		SELECT id, kind, category, amount_cents, done, priority, description, created_at
		FROM records ORDER BY id ASC`)
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("%w: read records: %v", core.ErrCorruptData, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			r         core.Record
			kind      string
			cents     int64
			done      int
			priority  string
			createdAt string
		)
		if err := rows.Scan(&r.ID, &kind, &r.Category, &cents, &done, &priority, &r.Description, &createdAt); err != nil {
			return core.Snapshot{}, fmt.Errorf("%w: scan record: %v", core.ErrCorruptData, err)
		}
		r.Kind = core.Kind(kind)
		if !r.Kind.IsValid() {
			return core.Snapshot{}, fmt.Errorf("%w: record %d kind %q", core.ErrCorruptData, r.ID, kind)
		}
		r.Amount = core.Money{Cents: cents}
		r.Done = done != 0
		if r.IsTask() {
			r.Priority = core.ParsePriority(priority)
		}
		created, err := time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return core.Snapshot{}, fmt.Errorf("%w: record %d created_at %q", core.ErrCorruptData, r.ID, createdAt)
		}
		r.CreatedAt = created
		snap.Records = append(snap.Records, r)
	}
	if err := rows.Err(); err != nil {
		return core.Snapshot{}, fmt.Errorf("%w: iterate records: %v", core.ErrCorruptData, err)
	}
	return snap, nil
}
