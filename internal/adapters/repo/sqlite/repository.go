package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bnema/summ/internal/domain"
	"github.com/bnema/summ/internal/ports"
	_ "modernc.org/sqlite"
)

const dataDirMode = 0o700

type HistoryRepository struct {
	db *sql.DB
}

var _ ports.HistoryRepository = (*HistoryRepository)(nil)

// Open creates the database file if needed and applies pending migrations.
func Open(ctx context.Context, path string) (*HistoryRepository, error) {
	if err := os.MkdirAll(filepath.Dir(path), dataDirMode); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", "file:"+path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}

	if err := Migrate(ctx, db); err != nil {
		return nil, errors.Join(err, db.Close())
	}

	return NewHistoryRepository(db), nil
}

func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

func (r *HistoryRepository) Close() error {
	return r.db.Close()
}

func (r *HistoryRepository) Get(ctx context.Context, id domain.HistoryEntryID) (domain.HistoryEntry, error) {
	entry := domain.HistoryEntry{ID: id}
	err := r.db.QueryRowContext(ctx,
		`SELECT original_text, summary, created_at_ms FROM history WHERE id = ?`, string(id),
	).Scan(&entry.OriginalText, &entry.Summary, &entry.Timestamp)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.HistoryEntry{}, fmt.Errorf("get history entry %q: %w", id, domain.ErrHistoryEntryNotFound)
	}
	if err != nil {
		return domain.HistoryEntry{}, fmt.Errorf("get history entry %q: %w", id, err)
	}

	return entry, nil
}

// Put inserts a new entry. Entries are immutable, so an existing key is a conflict.
func (r *HistoryRepository) Put(ctx context.Context, entry domain.HistoryEntry) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO history (id, original_text, summary, created_at_ms) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO NOTHING`,
		string(entry.ID), entry.OriginalText, entry.Summary, entry.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("put history entry %q: %w", entry.ID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("put history entry %q: %w", entry.ID, err)
	}
	if n == 0 {
		return fmt.Errorf("put history entry %q: %w", entry.ID, domain.ErrConflict)
	}

	return nil
}

func (r *HistoryRepository) List(ctx context.Context) ([]domain.HistoryEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, original_text, summary, created_at_ms FROM history ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var entries []domain.HistoryEntry
	for rows.Next() {
		var (
			entry domain.HistoryEntry
			id    string
		)
		if err := rows.Scan(&id, &entry.OriginalText, &entry.Summary, &entry.Timestamp); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		entry.ID = domain.HistoryEntryID(id)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history rows: %w", err)
	}

	return entries, nil
}

// DeleteAll removes the given keys inside one transaction. Either every
// key is gone afterwards or none is.
func (r *HistoryRepository) DeleteAll(ctx context.Context, ids []domain.HistoryEntryID) error {
	if len(ids) == 0 {
		return nil
	}

	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `DELETE FROM history WHERE id = ?`)
		if err != nil {
			return fmt.Errorf("prepare history delete: %w", err)
		}
		defer stmt.Close()

		for _, id := range ids {
			if _, err := stmt.ExecContext(ctx, string(id)); err != nil {
				return fmt.Errorf("delete history entry %q: %w", id, err)
			}
		}

		return nil
	})
}

func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}
