package middleware

import (
	"log/slog"
	"sync"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/finbot/core/logger"
	tghelpers "github.com/m3rciful/finbot/core/telegram/helpers"
)

const seenTTL = 10 * time.Second

// seenUpdates remembers recently logged update IDs so that a middleware
// applied both globally and per route logs each receipt once.
var seenUpdates = struct {
	sync.Mutex
	m map[int]time.Time
}{m: make(map[int]time.Time)}

func alreadyLogged(updateID int) bool {
	now := time.Now()
	seenUpdates.Lock()
	defer seenUpdates.Unlock()
	for id, ts := range seenUpdates.m {
		if now.Sub(ts) > seenTTL {
			delete(seenUpdates.m, id)
		}
	}
	if _, ok := seenUpdates.m[updateID]; ok {
		return true
	}
	seenUpdates.m[updateID] = now
	return false
}

// LoggerMiddleware sets the request id and update metadata on the context
// and logs one sampled debug line per received update.
func LoggerMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		ctx := tghelpers.BuildContext(c)
		upd := c.Update()

		if logger.ShouldSampleDebug() && !alreadyLogged(upd.ID) {
			attrs := []slog.Attr{slog.String("status", "ok")}
			if chat := c.Chat(); chat != nil {
				attrs = append(attrs, slog.String("chat_type", string(chat.Type)))
			}
			if user := c.Sender(); user != nil && user.Username != "" {
				attrs = append(attrs, slog.String("username", logger.SanitizeLimit(user.Username, 64)))
			}
			if t := c.Text(); t != "" {
				attrs = append(attrs, slog.String("payload", logger.SanitizeLimit(t, 256)))
			}
			logger.LogEvent(ctx, logger.Component("tg"), slog.LevelDebug, "update.received", attrs...)
		}
		return next(c)
	}
}
