package app

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/finbot/bots/finance/config"
	"github.com/m3rciful/finbot/bots/finance/rates"
	"github.com/m3rciful/finbot/bots/finance/storage"
	"github.com/m3rciful/finbot/bots/finance/ui"
)

type sent struct {
	text   string
	markup *tele.ReplyMarkup
}

type fakeContext struct {
	tele.Context
	upd   tele.Update
	store map[string]any
	out   *[]sent
}

func newFakeContext(out *[]sent, userID int64, text string) *fakeContext {
	return &fakeContext{
		upd: tele.Update{ID: 11, Message: &tele.Message{
			Text:   text,
			Sender: &tele.User{ID: userID, FirstName: "Ivan", Username: "ivan"},
			Chat:   &tele.Chat{ID: userID, Type: tele.ChatPrivate},
		}},
		store: make(map[string]any),
		out:   out,
	}
}

func (f *fakeContext) Update() tele.Update   { return f.upd }
func (f *fakeContext) Sender() *tele.User    { return f.upd.Message.Sender }
func (f *fakeContext) Chat() *tele.Chat      { return f.upd.Message.Chat }
func (f *fakeContext) Text() string          { return f.upd.Message.Text }
func (f *fakeContext) Get(key string) any    { return f.store[key] }
func (f *fakeContext) Set(key string, v any) { f.store[key] = v }

func (f *fakeContext) Send(what any, opts ...any) error {
	s := sent{text: what.(string)}
	for _, o := range opts {
		if so, ok := o.(*tele.SendOptions); ok {
			s.markup = so.ReplyMarkup
		}
	}
	*f.out = append(*f.out, s)
	return nil
}

type memStore struct {
	mu      sync.Mutex
	users   map[int64]bool
	entries []storage.ExpenseEntry
}

func (m *memStore) UserExists(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.users[id], nil
}

func (m *memStore) RegisterUser(_ context.Context, p storage.Profile) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.users[p.TelegramID] {
		return false, nil
	}
	m.users[p.TelegramID] = true
	return true, nil
}

func (m *memStore) SaveExpense(_ context.Context, e *storage.ExpenseEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, *e)
	return nil
}

func (m *memStore) LatestExpense(context.Context, int64) (*storage.ExpenseEntry, error) {
	return nil, storage.ErrNotFound
}

type stubRates struct{}

func (stubRates) RubRate(context.Context) (*rates.RubQuote, error) {
	return nil, rates.ErrUnavailable
}

func (stubRates) Convert(_ context.Context, amount decimal.Decimal, from, to string) (*rates.Conversion, error) {
	return &rates.Conversion{From: from, To: to, Amount: amount, Rate: decimal.NewFromInt(2), Result: amount.Mul(decimal.NewFromInt(2)), LastUpdate: "today"}, nil
}

func newTestApp(t *testing.T) (*App, map[any]tele.HandlerFunc) {
	t.Helper()
	cfg := &config.Config{Texts: ui.Default()}
	cfg.Telegram.AdminID = 99
	a := NewWith(cfg, &memStore{users: make(map[int64]bool)}, stubRates{})

	opts, err := a.TelegramRunOptions()
	require.NoError(t, err)
	handlers := make(map[any]tele.HandlerFunc, len(opts.Routes))
	for _, r := range opts.Routes {
		handlers[r.Endpoint] = r.Handler
	}
	return a, handlers
}

func TestRegistryCommands(t *testing.T) {
	a, handlers := newTestApp(t)

	var names []string
	for _, c := range a.Registry().ListCommands(true) {
		names = append(names, c.Text)
	}
	assert.Equal(t, []string{"convert", "last", "start"}, names)
	for _, ep := range []any{"/start", "/last", "/convert", "/version", tele.OnText} {
		assert.Contains(t, handlers, ep)
	}
	assert.NoError(t, a.Close())
}

func TestStartShowsMainMenu(t *testing.T) {
	_, handlers := newTestApp(t)
	var out []sent

	require.NoError(t, handlers["/start"](newFakeContext(&out, 1, "/start")))
	require.Len(t, out, 1)
	assert.Contains(t, out[0].text, "Привет, Ivan!")
	require.NotNil(t, out[0].markup)
	assert.Len(t, out[0].markup.ReplyKeyboard, 4)
}

func TestTextFlowSendsOneReplyPerMessage(t *testing.T) {
	_, handlers := newTestApp(t)
	texts := ui.Default()
	onText := handlers[tele.OnText]
	var out []sent

	for _, in := range []string{texts.Menu.Rates, texts.Menu.Expenses, "Food"} {
		require.NoError(t, onText(newFakeContext(&out, 1, in)))
	}
	require.Len(t, out, 3)
	assert.Equal(t, texts.RatesUnavailable, out[0].text)
	assert.Equal(t, texts.Wizard.FirstPrompt, out[1].text)
	require.NotNil(t, out[1].markup)
	assert.Equal(t, texts.Back, out[1].markup.ReplyKeyboard[0][0].Text)
	assert.Equal(t, "Введите расходы для категории 'Food':", out[2].text)
}

func TestConvertViaTextRoute(t *testing.T) {
	_, handlers := newTestApp(t)
	var out []sent

	require.NoError(t, handlers[tele.OnText](newFakeContext(&out, 1, "/convert 10 usd eur")))
	require.Len(t, out, 1)
	assert.Equal(t, "💱 10 usd = 20.00 eur\nКурс: 2.0000\nДата обновления: today", out[0].text)
}

func TestVersionIsAdminOnly(t *testing.T) {
	_, handlers := newTestApp(t)
	var out []sent

	require.NoError(t, handlers["/version"](newFakeContext(&out, 1, "/version")))
	assert.Empty(t, out)

	require.NoError(t, handlers["/version"](newFakeContext(&out, 99, "/version")))
	require.Len(t, out, 1)
	assert.Contains(t, out[0].text, "finbot ")
}
