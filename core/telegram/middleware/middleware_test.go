package middleware

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"
)

type fakeContext struct {
	tele.Context
	upd   tele.Update
	store map[string]any
	sent  []string
}

func newFakeContext(userID int64, text string) *fakeContext {
	return &fakeContext{
		upd: tele.Update{ID: 100, Message: &tele.Message{
			Text:   text,
			Sender: &tele.User{ID: userID, Username: "tester"},
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

func (f *fakeContext) Send(what any, _ ...any) error {
	f.sent = append(f.sent, fmt.Sprint(what))
	return nil
}

func (f *fakeContext) Reply(what any, opts ...any) error { return f.Send(what, opts...) }

func TestMessageMetricsMiddleware(t *testing.T) {
	c := newFakeContext(1, "hi")
	h := MessageMetricsMiddleware(func(c tele.Context) error {
		require.NoError(t, c.Send("plain"))
		return c.Send("menu", &tele.SendOptions{ReplyMarkup: &tele.ReplyMarkup{}})
	})

	require.NoError(t, h(c))
	msgs, kb := GetCounters(c)
	assert.Equal(t, 2, msgs)
	assert.True(t, kb)
	assert.Equal(t, []string{"plain", "menu"}, c.sent)
}

func TestRateLimitMiddleware(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	limited := 0
	mw := RateLimitMiddleware(RateLimitOptions{
		Interval:  time.Second,
		Now:       func() time.Time { return now },
		OnLimited: func(tele.Context) error { limited++; return nil },
	})
	calls := 0
	h := mw(func(tele.Context) error { calls++; return nil })

	require.NoError(t, h(newFakeContext(1, "a")))
	require.NoError(t, h(newFakeContext(1, "b")))
	require.NoError(t, h(newFakeContext(2, "c")))
	now = now.Add(1500 * time.Millisecond)
	require.NoError(t, h(newFakeContext(1, "d")))

	assert.Equal(t, 3, calls)
	assert.Equal(t, 1, limited)
}

func TestRateLimitMiddlewareExclusions(t *testing.T) {
	mw := RateLimitMiddleware(RateLimitOptions{
		Interval: time.Hour,
		Exclude:  map[string]struct{}{"message": {}},
	})
	calls := 0
	h := mw(func(tele.Context) error { calls++; return nil })
	for range 3 {
		require.NoError(t, h(newFakeContext(1, "x")))
	}
	assert.Equal(t, 3, calls)
}

func TestAdminOnlyMiddleware(t *testing.T) {
	rejected := 0
	mw := AdminOnlyMiddleware(AdminOptions{
		AdminID:  42,
		OnReject: func(tele.Context) error { rejected++; return nil },
	})
	calls := 0
	h := mw(func(tele.Context) error { calls++; return nil })

	require.NoError(t, h(newFakeContext(42, "/version")))
	require.NoError(t, h(newFakeContext(7, "/version")))
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, rejected)

	open := AdminOnlyMiddleware(AdminOptions{})(func(tele.Context) error { calls++; return nil })
	require.NoError(t, open(newFakeContext(42, "/version")))
	assert.Equal(t, 1, calls)
}

func TestRecoverMiddleware(t *testing.T) {
	h := RecoverMiddleware(func(tele.Context) error { panic("boom") })
	assert.NotPanics(t, func() {
		assert.NoError(t, h(newFakeContext(1, "x")))
	})
}

func TestLoggerMiddlewareSetsRID(t *testing.T) {
	c := newFakeContext(5, "hello")
	h := LoggerMiddleware(func(tele.Context) error { return nil })
	require.NoError(t, h(c))
	assert.Equal(t, "100:5:5", c.Get("rid"))
}
