package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/m3rciful/finbot/core/logger"
)

const selectUserExists = `
SELECT EXISTS (SELECT 1 FROM users WHERE telegram_id = $1);
`

const insertUser = `
INSERT INTO users (telegram_id, first_name, last_name, username, registered_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (telegram_id) DO NOTHING;
`

// UserExists reports whether telegramID is registered.
func (s *Store) UserExists(ctx context.Context, telegramID int64) (bool, error) {
	var exists bool
	if err := s.db.GetContext(ctx, &exists, selectUserExists, telegramID); err != nil {
		return false, fmt.Errorf("user exists: %w", err)
	}
	return exists, nil
}

// RegisterUser inserts p unless the user is already registered. It returns
// true when a new profile was created; existing profiles are never changed.
func (s *Store) RegisterUser(ctx context.Context, p Profile) (bool, error) {
	if p.RegisteredAt.IsZero() {
		p.RegisteredAt = time.Now().UTC()
	}
	res, err := s.db.ExecContext(ctx, insertUser, p.TelegramID, p.FirstName, p.LastName, p.Username, p.RegisteredAt)
	if err != nil {
		logger.SVCProfiles.LogAttrs(ctx, slog.LevelError, "register failed",
			slog.String("event", "profiles.register"),
			slog.String("status", "fail"),
			logger.Err(err),
		)
		return false, fmt.Errorf("register user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("register user: rows affected: %w", err)
	}
	created := n > 0
	logger.SVCProfiles.LogAttrs(ctx, slog.LevelInfo, "register",
		slog.String("event", "profiles.register"),
		slog.String("status", "ok"),
		slog.Bool("created", created),
	)
	return created, nil
}
