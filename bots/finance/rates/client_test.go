package rates

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const latestUSD = `{
  "result": "success",
  "time_last_update_utc": "Fri, 16 Oct 2026 00:00:01 +0000",
  "base_code": "USD",
  "conversion_rates": {"USD": 1, "EUR": 0.9210, "RUB": 92.3456}
}`

type pathLog struct {
	mu    sync.Mutex
	paths []string
}

func (p *pathLog) add(path string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.paths = append(p.paths, path)
}

func (p *pathLog) get() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.paths...)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *pathLog) {
	t.Helper()
	log := &pathLog{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.add(r.URL.Path)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return NewClient(srv.Client(), srv.URL+"/v6/", "test-key"), log
}

func respond(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func TestRates(t *testing.T) {
	c, paths := newTestClient(t, respond(http.StatusOK, latestUSD))

	snap, err := c.Rates(context.Background(), "usd")
	require.NoError(t, err)
	assert.Equal(t, []string{"/v6/test-key/latest/USD"}, paths.get())
	assert.Equal(t, "USD", snap.Base)
	assert.True(t, decimal.RequireFromString("92.3456").Equal(snap.Rates["RUB"]))
	assert.Equal(t, "Fri, 16 Oct 2026 00:00:01 +0000", snap.LastUpdate)
}

func TestRatesFailures(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"server error":  respond(http.StatusInternalServerError, `{"result":"error"}`),
		"invalid key":   respond(http.StatusForbidden, `{"result":"error","error-type":"invalid-key"}`),
		"error result":  respond(http.StatusOK, `{"result":"error","error-type":"quota-reached"}`),
		"malformed":     respond(http.StatusOK, `{"result":`),
		"empty rates":   respond(http.StatusOK, `{"result":"success","base_code":"USD","conversion_rates":{}}`),
		"not json rate": respond(http.StatusOK, `{"result":"success","conversion_rates":{"EUR":"abc"}}`),
	}
	for name, h := range cases {
		t.Run(name, func(t *testing.T) {
			c, _ := newTestClient(t, h)
			snap, err := c.Rates(context.Background(), "USD")
			assert.Nil(t, snap)
			assert.ErrorIs(t, err, ErrUnavailable)
		})
	}
}

func TestRatesTransportErrorHidesKey(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	c := NewClient(srv.Client(), srv.URL, "secret-key")
	_, err := c.Rates(context.Background(), "USD")
	require.ErrorIs(t, err, ErrUnavailable)
	assert.NotContains(t, err.Error(), "secret-key")
}

func TestRatesInvalidCode(t *testing.T) {
	c, paths := newTestClient(t, respond(http.StatusOK, latestUSD))
	for _, code := range []string{"", "US", "USDT", "U$D", "руб"} {
		_, err := c.Rates(context.Background(), code)
		assert.ErrorIs(t, err, ErrInvalidCurrency, code)
	}
	assert.Empty(t, paths.get())
}

func TestRubRate(t *testing.T) {
	c, paths := newTestClient(t, respond(http.StatusOK, latestUSD))

	q, err := c.RubRate(context.Background())
	require.NoError(t, err)
	assert.Len(t, paths.get(), 1)
	assert.Equal(t, "92.35", q.USDRUB.StringFixed(2))
	assert.Equal(t, "0.9210", q.USDEUR.StringFixed(4))
	assert.Equal(t, "100.27", q.EURRUB.StringFixed(2))
}

func TestRubRateGuards(t *testing.T) {
	cases := map[string]string{
		"no rub":   `{"result":"success","conversion_rates":{"EUR":0.92}}`,
		"no eur":   `{"result":"success","conversion_rates":{"RUB":92.1}}`,
		"zero eur": `{"result":"success","conversion_rates":{"RUB":92.1,"EUR":0}}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			c, _ := newTestClient(t, respond(http.StatusOK, body))
			_, err := c.RubRate(context.Background())
			assert.ErrorIs(t, err, ErrUnavailable)
		})
	}
}

func TestConvert(t *testing.T) {
	c, paths := newTestClient(t, respond(http.StatusOK, `{
		"result": "success",
		"base_code": "EUR",
		"target_code": "RUB",
		"conversion_rate": 100.27,
		"conversion_result": 1002.7
	}`))

	conv, err := c.Convert(context.Background(), decimal.NewFromInt(10), "eur", "rub")
	require.NoError(t, err)
	assert.Equal(t, []string{"/v6/test-key/pair/EUR/RUB/10"}, paths.get())
	assert.Equal(t, "EUR", conv.From)
	assert.Equal(t, "RUB", conv.To)
	assert.Equal(t, "1002.7", conv.Result.String())
	assert.Equal(t, unknownUpdate, conv.LastUpdate)
}

func TestConvertUnsupportedCode(t *testing.T) {
	c, _ := newTestClient(t, respond(http.StatusNotFound, `{"result":"error","error-type":"unsupported-code"}`))
	_, err := c.Convert(context.Background(), decimal.NewFromInt(1), "XXX", "RUB")
	assert.ErrorIs(t, err, ErrInvalidCurrency)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestConvertMissingFields(t *testing.T) {
	c, _ := newTestClient(t, respond(http.StatusOK, `{"result":"success"}`))
	_, err := c.Convert(context.Background(), decimal.NewFromInt(1), "USD", "RUB")
	assert.ErrorIs(t, err, ErrUnavailable)

	_, err = c.Convert(context.Background(), decimal.NewFromInt(-1), "USD", "RUB")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrUnavailable))
}

func TestNormalizeCode(t *testing.T) {
	code, err := NormalizeCode(" gbp ")
	require.NoError(t, err)
	assert.Equal(t, "GBP", code)
	_, err = NormalizeCode("12A")
	assert.True(t, strings.Contains(err.Error(), "invalid currency"))
}
