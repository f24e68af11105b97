// Package wizard runs the multi-step expense entry conversation.
package wizard

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/m3rciful/finbot/bots/finance/storage"
	"github.com/m3rciful/finbot/bots/finance/ui"
	"github.com/m3rciful/finbot/core/logger"
	"github.com/m3rciful/finbot/core/telegram/format"
	"github.com/m3rciful/finbot/core/telegram/state"
)

// Saver persists a completed entry.
type Saver interface {
	SaveExpense(ctx context.Context, e *storage.ExpenseEntry) error
}

// Session is one user's wizard progress. Step indexes Engine steps.
type Session struct {
	Step  int
	Draft Draft
}

// Engine owns all in-progress wizard sessions.
type Engine struct {
	sessions *state.Store[Session]
	steps    []Step
	saver    Saver
	texts    ui.Catalog
	log      *slog.Logger
}

// New returns an engine running steps. Empty steps default to DefaultSteps.
func New(saver Saver, texts ui.Catalog, steps []Step) *Engine {
	if len(steps) == 0 {
		steps = DefaultSteps(texts, DefaultCategories)
	}
	return &Engine{
		sessions: state.NewStore[Session](),
		steps:    steps,
		saver:    saver,
		texts:    texts,
		log:      logger.Component("wizard"),
	}
}

// Start begins a fresh session for userID, discarding any previous one.
func (e *Engine) Start(ctx context.Context, userID int64) ui.Reply {
	e.sessions.Start(userID, Session{})
	e.log.LogAttrs(ctx, slog.LevelDebug, "wizard start",
		slog.String("event", "wizard.start"),
		slog.String("step", e.steps[0].Name),
	)
	return ui.Reply{Text: e.steps[0].Prompt(Draft{}), Keyboard: ui.KeyboardBack}
}

// Cancel discards the user's session and reports whether there was one.
func (e *Engine) Cancel(ctx context.Context, userID int64) bool {
	ok := e.sessions.Clear(userID)
	if ok {
		e.log.LogAttrs(ctx, slog.LevelInfo, "wizard cancelled",
			slog.String("event", "wizard.cancel"),
			slog.String("outcome", "cancelled"),
		)
	}
	return ok
}

// Active reports whether userID is in the middle of the wizard.
func (e *Engine) Active(userID int64) bool {
	return e.sessions.Active(userID)
}

// Session returns a copy of the user's progress.
func (e *Engine) Session(userID int64) (Session, bool) {
	s, ok := e.sessions.Get(userID)
	if ok {
		s.Draft.Items = slices.Clone(s.Draft.Items)
	}
	return s, ok
}

// Handle feeds one message into the user's session. Without a session the
// user is pointed back to the menu. After the last step the entry is saved
// and the session ends whether or not the save succeeded.
func (e *Engine) Handle(ctx context.Context, userID int64, text string) ui.Reply {
	var reply ui.Reply
	found := e.sessions.Update(userID, func(s *Session) bool {
		step := e.steps[s.Step]
		if !step.Accept(&s.Draft, text) {
			reply = ui.Reply{Text: step.Retry(s.Draft), Keyboard: ui.KeyboardBack}
			return false
		}
		s.Step++
		if s.Step < len(e.steps) {
			reply = ui.Reply{Text: e.steps[s.Step].Prompt(s.Draft), Keyboard: ui.KeyboardBack}
			return false
		}
		reply = e.finish(ctx, userID, s.Draft)
		return true
	})
	if !found {
		return ui.Reply{Text: e.texts.UseMenu, Keyboard: ui.KeyboardMain}
	}
	return reply
}

func (e *Engine) finish(ctx context.Context, userID int64, d Draft) ui.Reply {
	entry := &storage.ExpenseEntry{
		TelegramID: userID,
		Items:      slices.Clone(d.Items),
	}
	if err := e.saver.SaveExpense(ctx, entry); err != nil {
		e.log.LogAttrs(ctx, slog.LevelError, "wizard save failed",
			slog.String("event", "wizard.complete"),
			slog.String("status", "fail"),
			logger.Err(err),
		)
		return ui.Reply{Text: e.texts.Wizard.SaveFailed, Keyboard: ui.KeyboardMain}
	}
	e.log.LogAttrs(ctx, slog.LevelInfo, "wizard complete",
		slog.String("event", "wizard.complete"),
		slog.String("status", "ok"),
		slog.String("entry_id", entry.ID.String()),
	)
	return ui.Reply{Text: Summary(e.texts, entry), Keyboard: ui.KeyboardMain}
}

// Summary renders the saved entry with its exact total.
func Summary(texts ui.Catalog, entry *storage.ExpenseEntry) string {
	var b strings.Builder
	b.WriteString(texts.Wizard.SavedHeader)
	b.WriteString("\n\n")
	writeItems(&b, texts, entry.Items)
	b.WriteString("\n")
	fmt.Fprintf(&b, texts.Wizard.SavedTotal, format.Amount(entry.Total()))
	return b.String()
}

// Items renders one line per item.
func Items(texts ui.Catalog, items []storage.ExpenseItem) string {
	var b strings.Builder
	writeItems(&b, texts, items)
	return strings.TrimSuffix(b.String(), "\n")
}

func writeItems(b *strings.Builder, texts ui.Catalog, items []storage.ExpenseItem) {
	for i, it := range items {
		fmt.Fprintf(b, texts.Wizard.SavedLine, i+1, it.Category, format.Amount(it.Amount))
		b.WriteString("\n")
	}
}
