package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/m3rciful/finbot/core/logger"
)

const insertExpenseEntry = `
INSERT INTO expense_entries (id, telegram_id, created_at)
VALUES ($1, $2, $3);
`

const insertExpenseItem = `
INSERT INTO expense_items (entry_id, position, category, amount)
VALUES ($1, $2, $3, $4);
`

const selectLatestEntry = `
SELECT id, telegram_id, created_at
FROM expense_entries
WHERE telegram_id = $1
ORDER BY created_at DESC, id DESC
LIMIT 1;
`

const selectEntryItems = `
SELECT category, amount
FROM expense_items
WHERE entry_id = $1
ORDER BY position;
`

// SaveExpense stores e and its items in one transaction. A zero ID or
// CreatedAt is generated and written back to e.
func (s *Store) SaveExpense(ctx context.Context, e *ExpenseEntry) (err error) {
	if e == nil || len(e.Items) == 0 {
		return errors.New("save expense: entry has no items")
	}
	for i, it := range e.Items {
		if it.Amount.IsNegative() {
			return fmt.Errorf("save expense: item %d has negative amount", i+1)
		}
	}
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	start := time.Now()
	defer func() {
		level, status := slog.LevelInfo, "ok"
		attrs := []slog.Attr{}
		if err != nil {
			level, status = slog.LevelError, "fail"
			attrs = append(attrs, logger.Err(err))
		}
		logger.SVCExpenses.LogAttrs(ctx, level, "save expense",
			append(attrs,
				slog.String("event", "expenses.save"),
				slog.String("status", status),
				slog.String("entry_id", e.ID.String()),
				slog.Int("items", len(e.Items)),
				slog.String("total", e.Total().String()),
				slog.Duration("duration", time.Since(start)),
			)...,
		)
	}()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save expense: begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, insertExpenseEntry, e.ID, e.TelegramID, e.CreatedAt); err != nil {
		return fmt.Errorf("save expense: insert entry: %w", err)
	}
	for i, it := range e.Items {
		if _, err = tx.ExecContext(ctx, insertExpenseItem, e.ID, i+1, it.Category, it.Amount); err != nil {
			return fmt.Errorf("save expense: insert item %d: %w", i+1, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("save expense: commit: %w", err)
	}
	return nil
}

// LatestExpense returns the most recent entry of telegramID with its items,
// or ErrNotFound.
func (s *Store) LatestExpense(ctx context.Context, telegramID int64) (*ExpenseEntry, error) {
	var e ExpenseEntry
	if err := s.db.GetContext(ctx, &e, selectLatestEntry, telegramID); err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("latest expense: %w", err)
	}
	if err := s.db.SelectContext(ctx, &e.Items, selectEntryItems, e.ID); err != nil {
		return nil, fmt.Errorf("latest expense items: %w", err)
	}
	return &e, nil
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
