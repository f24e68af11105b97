// Package dispatch turns incoming finance bot messages into replies. It knows
// nothing about Telegram; the app package adapts it to telebot.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/m3rciful/finbot/bots/finance/rates"
	"github.com/m3rciful/finbot/bots/finance/storage"
	"github.com/m3rciful/finbot/bots/finance/ui"
	"github.com/m3rciful/finbot/bots/finance/wizard"
	"github.com/m3rciful/finbot/core/buildinfo"
	"github.com/m3rciful/finbot/core/logger"
	"github.com/m3rciful/finbot/core/telegram/format"
)

// Store is the persistence the dispatcher needs.
type Store interface {
	wizard.Saver
	UserExists(ctx context.Context, telegramID int64) (bool, error)
	RegisterUser(ctx context.Context, p storage.Profile) (bool, error)
	LatestExpense(ctx context.Context, telegramID int64) (*storage.ExpenseEntry, error)
}

// Rates looks up exchange rates.
type Rates interface {
	RubRate(ctx context.Context) (*rates.RubQuote, error)
	Convert(ctx context.Context, amount decimal.Decimal, from, to string) (*rates.Conversion, error)
}

// Message is the part of an update the dispatcher acts on.
type Message struct {
	UserID    int64
	FirstName string
	LastName  string
	Username  string
	Text      string
}

// Options configures a Dispatcher.
type Options struct {
	Store Store
	Rates Rates
	Texts ui.Catalog
	// Steps overrides the wizard steps; empty means wizard.DefaultSteps.
	Steps []wizard.Step
	// PickTip returns an index in [0, n). Defaults to math/rand/v2.
	PickTip func(n int) int
}

// Dispatcher routes messages by action and owns the expense wizard.
type Dispatcher struct {
	store   Store
	rates   Rates
	texts   ui.Catalog
	wizard  *wizard.Engine
	pickTip func(n int) int
}

// New builds a Dispatcher.
func New(opts Options) *Dispatcher {
	pick := opts.PickTip
	if pick == nil {
		pick = rand.IntN
	}
	return &Dispatcher{
		store:   opts.Store,
		rates:   opts.Rates,
		texts:   opts.Texts,
		wizard:  wizard.New(opts.Store, opts.Texts, opts.Steps),
		pickTip: pick,
	}
}

// Wizard exposes the expense wizard engine.
func (d *Dispatcher) Wizard() *wizard.Engine { return d.wizard }

// Start greets the user and shows the main menu.
func (d *Dispatcher) Start(_ context.Context, m Message) ui.Reply {
	return ui.Reply{
		Text:     fmt.Sprintf(d.texts.Greeting, m.FirstName),
		Keyboard: ui.KeyboardMain,
	}
}

// HandleText routes a non-command message. Menu labels win over an active
// wizard; anything else is fed to the wizard.
func (d *Dispatcher) HandleText(ctx context.Context, m Message) ui.Reply {
	switch d.texts.Resolve(m.Text) {
	case ui.ActionRegister:
		return d.register(ctx, m)
	case ui.ActionRates:
		return d.currentRates(ctx)
	case ui.ActionTip:
		return d.tip()
	case ui.ActionExpenses:
		return d.wizard.Start(ctx, m.UserID)
	case ui.ActionBack:
		if d.wizard.Cancel(ctx, m.UserID) {
			return ui.Reply{Text: d.texts.Wizard.Cancelled, Keyboard: ui.KeyboardMain}
		}
		return ui.Reply{Text: d.texts.UseMenu, Keyboard: ui.KeyboardMain}
	default:
		return d.wizard.Handle(ctx, m.UserID, m.Text)
	}
}

func (d *Dispatcher) register(ctx context.Context, m Message) ui.Reply {
	exists, err := d.store.UserExists(ctx, m.UserID)
	if err != nil {
		logger.Error(ctx, "service.profiles", "profiles.exists", logger.Err(err))
		return ui.Reply{Text: d.texts.RegisterFailed, Keyboard: ui.KeyboardMain}
	}
	if exists {
		return ui.Reply{Text: d.texts.AlreadyRegistered, Keyboard: ui.KeyboardMain}
	}
	created, err := d.store.RegisterUser(ctx, storage.Profile{
		TelegramID: m.UserID,
		FirstName:  m.FirstName,
		LastName:   format.OptionalString(m.LastName),
		Username:   format.OptionalString(m.Username),
	})
	if err != nil {
		return ui.Reply{Text: d.texts.RegisterFailed, Keyboard: ui.KeyboardMain}
	}
	if !created {
		return ui.Reply{Text: d.texts.AlreadyRegistered, Keyboard: ui.KeyboardMain}
	}
	return ui.Reply{Text: d.texts.Registered, Keyboard: ui.KeyboardMain}
}

func (d *Dispatcher) currentRates(ctx context.Context) ui.Reply {
	q, err := d.rates.RubRate(ctx)
	if err != nil {
		return ui.Reply{Text: d.texts.RatesUnavailable, Keyboard: ui.KeyboardMain}
	}
	return ui.Reply{
		Text: fmt.Sprintf(d.texts.Rates,
			format.Fixed(q.USDRUB, 2),
			format.Fixed(q.EURRUB, 2),
			format.Fixed(q.USDEUR, 4),
			q.LastUpdate,
		),
		Keyboard: ui.KeyboardMain,
	}
}

func (d *Dispatcher) tip() ui.Reply {
	if len(d.texts.Tips) == 0 {
		return ui.Reply{Text: d.texts.UseMenu, Keyboard: ui.KeyboardMain}
	}
	i := d.pickTip(len(d.texts.Tips))
	if i < 0 || i >= len(d.texts.Tips) {
		i = 0
	}
	return ui.Reply{Text: d.texts.Tips[i], Keyboard: ui.KeyboardMain}
}

// Last shows the user's most recent expense entry.
func (d *Dispatcher) Last(ctx context.Context, m Message) ui.Reply {
	entry, err := d.store.LatestExpense(ctx, m.UserID)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return ui.Reply{Text: d.texts.NoExpenses, Keyboard: ui.KeyboardMain}
	case err != nil:
		logger.Error(ctx, "service.expenses", "expenses.latest", logger.Err(err))
		return ui.Reply{Text: d.texts.LoadFailed, Keyboard: ui.KeyboardMain}
	}
	var b strings.Builder
	fmt.Fprintf(&b, d.texts.LastExpense, entry.CreatedAt.UTC().Format("2006-01-02 15:04"))
	b.WriteString("\n\n")
	b.WriteString(wizard.Items(d.texts, entry.Items))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, d.texts.Wizard.SavedTotal, format.Amount(entry.Total()))
	return ui.Reply{Text: b.String(), Keyboard: ui.KeyboardMain}
}

// Convert handles "/convert <amount> <FROM> <TO>"; args are the words after
// the command.
func (d *Dispatcher) Convert(ctx context.Context, args []string) ui.Reply {
	usage := ui.Reply{Text: d.texts.ConvertUsage, Keyboard: ui.KeyboardMain}
	if len(args) != 3 {
		return usage
	}
	amount, ok := format.ParseAmount(args[0])
	if !ok {
		return usage
	}
	conv, err := d.rates.Convert(ctx, amount, args[1], args[2])
	switch {
	case errors.Is(err, rates.ErrInvalidCurrency):
		return ui.Reply{Text: d.texts.InvalidCurrency, Keyboard: ui.KeyboardMain}
	case err != nil:
		return ui.Reply{Text: d.texts.RatesUnavailable, Keyboard: ui.KeyboardMain}
	}
	return ui.Reply{
		Text: fmt.Sprintf(d.texts.ConvertResult,
			format.Amount(conv.Amount), conv.From,
			format.Fixed(conv.Result, 2), conv.To,
			format.Fixed(conv.Rate, 4),
			conv.LastUpdate,
		),
		Keyboard: ui.KeyboardMain,
	}
}

// Version reports build information.
func (d *Dispatcher) Version(context.Context) ui.Reply {
	return ui.Reply{Text: fmt.Sprintf(d.texts.Version, buildinfo.Version, buildinfo.Commit, buildinfo.Date)}
}
