// Package app wires the finance bot into the core Telegram runtime.
package app

import (
	"context"
	"log/slog"
	"strings"

	"github.com/jmoiron/sqlx"
	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/finbot/bots/finance/config"
	"github.com/m3rciful/finbot/bots/finance/dispatch"
	"github.com/m3rciful/finbot/bots/finance/rates"
	"github.com/m3rciful/finbot/bots/finance/storage"
	"github.com/m3rciful/finbot/bots/finance/ui"
	"github.com/m3rciful/finbot/core/logger"
	"github.com/m3rciful/finbot/core/telegram"
	"github.com/m3rciful/finbot/core/telegram/commands"
	"github.com/m3rciful/finbot/core/telegram/helpers"
	"github.com/m3rciful/finbot/core/telegram/router"
)

// App is the finance bot. It satisfies core/cmd.TelegramApp.
type App struct {
	cfg        *config.Config
	db         *sqlx.DB
	texts      ui.Catalog
	dispatcher *dispatch.Dispatcher
	registry   *telegram.Registry
}

// New builds the bot on an open database.
func New(cfg *config.Config, db *sqlx.DB) *App {
	client := rates.NewClient(
		telegram.BuildHTTPClient(telegram.HTTPClientOptions{Timeout: cfg.Rates.Timeout()}),
		cfg.Rates.BaseURL,
		cfg.Rates.APIKey,
	)
	a := NewWith(cfg, storage.New(db), client)
	a.db = db
	return a
}

// NewWith builds the bot on the given collaborators.
func NewWith(cfg *config.Config, store dispatch.Store, r dispatch.Rates) *App {
	a := &App{
		cfg:   cfg,
		texts: cfg.Texts,
		dispatcher: dispatch.New(dispatch.Options{
			Store: store,
			Rates: r,
			Texts: cfg.Texts,
		}),
		registry: telegram.NewRegistry(),
	}
	a.registerCommands()
	return a
}

// Registry exposes the command registry.
func (a *App) Registry() *telegram.Registry { return a.registry }

func (a *App) registerCommands() {
	a.registry.RegisterCommand("/start", commands.Command{
		Description: "Главное меню",
		Handler:     a.handleStart,
	})
	a.registry.RegisterCommand("/last", commands.Command{
		Description: "Последняя запись расходов",
		Handler:     a.handleLast,
	})
	a.registry.RegisterCommand("/convert", commands.Command{
		Description: "Конвертация валют: /convert 100 USD RUB",
		Handler:     a.handleConvert,
	})
	a.registry.RegisterCommand("/version", commands.Command{
		Description: "Версия бота",
		Handler:     a.handleVersion,
		AdminOnly:   true,
		Hidden:      true,
	})
	a.registry.SetTextFallback(a.handleText)
}

// TelegramRunOptions assembles middlewares and routes for the core runtime.
func (a *App) TelegramRunOptions() (telegram.RunOptions, error) {
	core := a.cfg.CoreConfig()
	routes := router.CommandRoutes(a.registry, router.CommandRouteOptions{AdminID: core.Telegram.AdminID})
	routes = append(routes, router.TextRoutes(a.registry, router.TextOptions{})...)

	return telegram.RunOptions{
		Config:      core,
		Registry:    a.registry,
		Middlewares: telegram.DefaultMiddlewares(core, a.handleRateLimited),
		Routes:      routes,
		OnStart: func(ctx context.Context, rt telegram.Runtime) error {
			var name string
			if rt.Bot != nil && rt.Bot.Me != nil {
				name = rt.Bot.Me.Username
			}
			logger.Info(ctx, "app", "bot.started",
				slog.String("bot", name),
				slog.Int("commands", len(a.registry.ListCommands(true))),
			)
			return nil
		},
	}, nil
}

// Close releases the database.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

func (a *App) reply(c tele.Context, r ui.Reply) error {
	return helpers.SendText(c, r.Text, a.texts.Markup(r.Keyboard))
}

func (a *App) handleStart(c tele.Context) error {
	return a.reply(c, a.dispatcher.Start(helpers.BuildContext(c), message(c)))
}

func (a *App) handleText(c tele.Context) error {
	return a.reply(c, a.dispatcher.HandleText(helpers.BuildContext(c), message(c)))
}

func (a *App) handleLast(c tele.Context) error {
	return a.reply(c, a.dispatcher.Last(helpers.BuildContext(c), message(c)))
}

func (a *App) handleConvert(c tele.Context) error {
	var args []string
	if fields := strings.Fields(c.Text()); len(fields) > 1 {
		args = fields[1:]
	}
	return a.reply(c, a.dispatcher.Convert(helpers.BuildContext(c), args))
}

func (a *App) handleVersion(c tele.Context) error {
	return a.reply(c, a.dispatcher.Version(helpers.BuildContext(c)))
}

func (a *App) handleRateLimited(c tele.Context) error {
	return helpers.SendText(c, a.texts.RateLimited, nil)
}

func message(c tele.Context) dispatch.Message {
	m := dispatch.Message{Text: c.Text()}
	if u := c.Sender(); u != nil {
		m.UserID = u.ID
		m.FirstName = u.FirstName
		m.LastName = u.LastName
		m.Username = u.Username
	}
	return m
}
