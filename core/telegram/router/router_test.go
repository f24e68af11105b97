package router

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	tg "github.com/m3rciful/finbot/core/telegram"
	"github.com/m3rciful/finbot/core/telegram/commands"
)

type fakeContext struct {
	tele.Context
	upd   tele.Update
	store map[string]any
}

func newFakeContext(userID int64, text string) *fakeContext {
	return &fakeContext{
		upd: tele.Update{ID: 7, Message: &tele.Message{
			Text:   text,
			Sender: &tele.User{ID: userID},
			Chat:   &tele.Chat{ID: userID, Type: tele.ChatPrivate},
		}},
		store: make(map[string]any),
	}
}

func (f *fakeContext) Update() tele.Update   { return f.upd }
func (f *fakeContext) Sender() *tele.User    { return f.upd.Message.Sender }
func (f *fakeContext) Chat() *tele.Chat      { return f.upd.Message.Chat }
func (f *fakeContext) Text() string          { return f.upd.Message.Text }
func (f *fakeContext) Get(key string) any    { return f.store[key] }
func (f *fakeContext) Set(key string, v any) { f.store[key] = v }

func TestTextRoutesDispatch(t *testing.T) {
	var hits []string
	reg := tg.NewRegistry()
	reg.RegisterCommand("/last", commands.Command{
		Description: "Last",
		Handler:     func(tele.Context) error { hits = append(hits, "last"); return nil },
	})
	reg.RegisterCommand("/version", commands.Command{
		Description: "Version",
		AdminOnly:   true,
		Handler:     func(tele.Context) error { hits = append(hits, "version"); return nil },
	})
	reg.SetTextFallback(func(c tele.Context) error {
		hits = append(hits, "fallback:"+c.Text())
		return nil
	})

	routes := TextRoutes(reg, TextOptions{})
	require.Len(t, routes, 1)
	assert.Equal(t, tele.OnText, routes[0].Endpoint)

	h := routes[0].Handler
	for _, text := range []string{"/last", "💱 Курс валют", "/version", "last"} {
		require.NoError(t, h(newFakeContext(1, text)))
	}
	assert.Equal(t, []string{"last", "fallback:💱 Курс валют", "fallback:/version", "fallback:last"}, hits)
}

func TestTextRoutesUnknownText(t *testing.T) {
	called := false
	routes := TextRoutes(tg.NewRegistry(), TextOptions{UnknownText: func(tele.Context) error {
		called = true
		return nil
	}})
	require.NoError(t, routes[0].Handler(newFakeContext(1, "hello")))
	assert.True(t, called)
}

func TestCommandRoutesAliasesAndAdmin(t *testing.T) {
	calls := 0
	reg := tg.NewRegistry()
	reg.RegisterCommand("/convert", commands.Command{
		Description: "Convert",
		Aliases:     []string{"cv"},
		Handler:     func(tele.Context) error { calls++; return nil },
	})
	reg.RegisterCommand("/version", commands.Command{
		Description: "Version",
		AdminOnly:   true,
		Handler:     func(tele.Context) error { calls++; return nil },
	})

	routes := CommandRoutes(reg, CommandRouteOptions{AdminID: 99})
	byEndpoint := make(map[any]tele.HandlerFunc, len(routes))
	for _, r := range routes {
		byEndpoint[r.Endpoint] = r.Handler
	}
	require.Len(t, byEndpoint, 3)
	require.Contains(t, byEndpoint, "/cv")

	require.NoError(t, byEndpoint["/cv"](newFakeContext(1, "/cv 1 USD EUR")))
	require.NoError(t, byEndpoint["/version"](newFakeContext(1, "/version")))
	require.NoError(t, byEndpoint["/version"](newFakeContext(99, "/version")))
	assert.Equal(t, 2, calls)
}

type codedErr struct{}

func (codedErr) Error() string { return "coded" }
func (codedErr) Code() string  { return "rates unavailable" }

type plainErr struct{}

func (*plainErr) Error() string { return "plain" }

func TestDeriveErrorCode(t *testing.T) {
	assert.Equal(t, "", deriveErrorCode(nil))
	assert.Equal(t, "RATES_UNAVAILABLE", deriveErrorCode(fmt.Errorf("wrap: %w", codedErr{})))
	assert.Equal(t, "PLAINERR", deriveErrorCode(&plainErr{}))
	assert.Equal(t, "ERRORSTRING", deriveErrorCode(errors.New("x")))
	assert.Equal(t, "status", normalizeHandlerName("/Status"))
	assert.Equal(t, "unknown", normalizeHandlerName(" "))
}
