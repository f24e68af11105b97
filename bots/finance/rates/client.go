// Package rates fetches currency exchange rates from exchangerate-api.com (v6).
package rates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m3rciful/finbot/core/logger"
)

var (
	// ErrUnavailable wraps every failure to obtain rates from the remote service.
	ErrUnavailable = errors.New("rates unavailable")
	// ErrInvalidCurrency reports a currency code that is not three letters
	// or that the service does not support.
	ErrInvalidCurrency = errors.New("invalid currency code")
)

const (
	unknownUpdate = "Unknown"
	maxBodyBytes  = 1 << 20
)

// Snapshot is the set of rates for one base currency: 1 Base = Rates[code] code.
type Snapshot struct {
	Base       string
	Rates      map[string]decimal.Decimal
	LastUpdate string
}

// RubQuote holds the ruble quotes shown in the rates menu.
type RubQuote struct {
	USDRUB     decimal.Decimal
	EURRUB     decimal.Decimal
	USDEUR     decimal.Decimal
	LastUpdate string
}

// Conversion is the result of a pair conversion.
type Conversion struct {
	From, To   string
	Amount     decimal.Decimal
	Rate       decimal.Decimal
	Result     decimal.Decimal
	LastUpdate string
}

type apiResponse struct {
	Result           string                     `json:"result"`
	ErrorType        string                     `json:"error-type"`
	BaseCode         string                     `json:"base_code"`
	TargetCode       string                     `json:"target_code"`
	LastUpdate       string                     `json:"time_last_update_utc"`
	ConversionRates  map[string]decimal.Decimal `json:"conversion_rates"`
	ConversionRate   *decimal.Decimal           `json:"conversion_rate"`
	ConversionResult *decimal.Decimal           `json:"conversion_result"`
}

// Client calls the exchange rate API. It never retries.
type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
}

// NewClient returns a client for baseURL (for example
// "https://v6.exchangerate-api.com/v6") authenticated with apiKey.
func NewClient(httpClient *http.Client, baseURL, apiKey string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		http:    httpClient,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
	}
}

// NormalizeCode upper-cases code and checks it is three ASCII letters.
func NormalizeCode(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 3 {
		return "", fmt.Errorf("%w: %q", ErrInvalidCurrency, code)
	}
	for i := 0; i < len(code); i++ {
		if code[i] < 'A' || code[i] > 'Z' {
			return "", fmt.Errorf("%w: %q", ErrInvalidCurrency, code)
		}
	}
	return code, nil
}

// Rates returns the latest rates for base.
func (c *Client) Rates(ctx context.Context, base string) (*Snapshot, error) {
	base, err := NormalizeCode(base)
	if err != nil {
		return nil, err
	}
	resp, err := c.get(ctx, "latest", "latest", base)
	if err != nil {
		return nil, err
	}
	if len(resp.ConversionRates) == 0 {
		return nil, c.fail(ctx, "latest", "empty_rates", fmt.Errorf("%w: no conversion rates", ErrUnavailable))
	}
	snap := &Snapshot{
		Base:       resp.BaseCode,
		Rates:      resp.ConversionRates,
		LastUpdate: lastUpdate(resp.LastUpdate),
	}
	if snap.Base == "" {
		snap.Base = base
	}
	logger.SVCRates.LogAttrs(ctx, slog.LevelDebug, "rates fetched",
		slog.String("event", "rates.latest"),
		slog.String("status", "ok"),
		slog.String("base", snap.Base),
		slog.Int("items", len(snap.Rates)),
	)
	return snap, nil
}

// RubRate returns USD→RUB, EUR→RUB and USD→EUR from a single USD lookup.
// EUR→RUB is derived as RUB/EUR, so a missing or non-positive EUR rate is a failure.
func (c *Client) RubRate(ctx context.Context) (*RubQuote, error) {
	snap, err := c.Rates(ctx, "USD")
	if err != nil {
		return nil, err
	}
	rub, ok := snap.Rates["RUB"]
	if !ok || !rub.IsPositive() {
		return nil, c.fail(ctx, "latest", "missing_rub", fmt.Errorf("%w: RUB rate missing", ErrUnavailable))
	}
	eur, ok := snap.Rates["EUR"]
	if !ok || !eur.IsPositive() {
		return nil, c.fail(ctx, "latest", "missing_eur", fmt.Errorf("%w: EUR rate missing or not positive", ErrUnavailable))
	}
	return &RubQuote{
		USDRUB:     rub,
		EURRUB:     rub.Div(eur),
		USDEUR:     eur,
		LastUpdate: snap.LastUpdate,
	}, nil
}

// Convert converts amount from one currency to another with the pair endpoint.
func (c *Client) Convert(ctx context.Context, amount decimal.Decimal, from, to string) (*Conversion, error) {
	from, err := NormalizeCode(from)
	if err != nil {
		return nil, err
	}
	to, err = NormalizeCode(to)
	if err != nil {
		return nil, err
	}
	if amount.IsNegative() {
		return nil, fmt.Errorf("rates: negative amount %s", amount)
	}

	resp, err := c.get(ctx, "pair", "pair", from, to, amount.String())
	if err != nil {
		return nil, err
	}
	if resp.ConversionRate == nil || resp.ConversionResult == nil {
		return nil, c.fail(ctx, "pair", "malformed", fmt.Errorf("%w: conversion fields missing", ErrUnavailable))
	}
	logger.SVCRates.LogAttrs(ctx, slog.LevelDebug, "pair converted",
		slog.String("event", "rates.pair"),
		slog.String("status", "ok"),
		slog.String("from", from),
		slog.String("to", to),
	)
	return &Conversion{
		From:       from,
		To:         to,
		Amount:     amount,
		Rate:       *resp.ConversionRate,
		Result:     *resp.ConversionResult,
		LastUpdate: lastUpdate(resp.LastUpdate),
	}, nil
}

// get performs GET {baseURL}/{apiKey}/{segments...} and decodes a successful response.
func (c *Client) get(ctx context.Context, op string, segments ...string) (*apiResponse, error) {
	parts := make([]string, 0, len(segments)+1)
	parts = append(parts, url.PathEscape(c.apiKey))
	for _, s := range segments {
		parts = append(parts, url.PathEscape(s))
	}
	endpoint := c.baseURL + "/" + strings.Join(parts, "/")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, c.fail(ctx, op, "request", fmt.Errorf("%w: build request: %v", ErrUnavailable, redact(err)))
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		return nil, c.fail(ctx, op, "transport", fmt.Errorf("%w: %v", ErrUnavailable, redact(err)))
	}
	defer res.Body.Close()

	var body apiResponse
	decodeErr := json.NewDecoder(io.LimitReader(res.Body, maxBodyBytes)).Decode(&body)

	if res.StatusCode != http.StatusOK {
		if body.ErrorType == "unsupported-code" {
			return nil, c.fail(ctx, op, "unsupported_code", fmt.Errorf("%w: %w", ErrUnavailable, ErrInvalidCurrency))
		}
		return nil, c.fail(ctx, op, "status", fmt.Errorf("%w: http %d %s", ErrUnavailable, res.StatusCode, body.ErrorType))
	}
	if decodeErr != nil {
		return nil, c.fail(ctx, op, "decode", fmt.Errorf("%w: decode: %v", ErrUnavailable, decodeErr))
	}
	if body.Result != "success" {
		if body.ErrorType == "unsupported-code" {
			return nil, c.fail(ctx, op, "unsupported_code", fmt.Errorf("%w: %w", ErrUnavailable, ErrInvalidCurrency))
		}
		return nil, c.fail(ctx, op, "result", fmt.Errorf("%w: result %q %s", ErrUnavailable, body.Result, body.ErrorType))
	}

	logger.SVCRates.LogAttrs(ctx, slog.LevelDebug, "rates call",
		slog.String("event", "rates.http"),
		slog.String("action", op),
		slog.Int("http_code", res.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)
	return &body, nil
}

func (c *Client) fail(ctx context.Context, op, kind string, err error) error {
	logger.SVCRates.LogAttrs(ctx, slog.LevelWarn, "rates failed",
		slog.String("event", "rates."+op),
		slog.String("status", "fail"),
		slog.String("err_kind", kind),
		logger.Err(err),
	)
	return err
}

// redact drops the request URL, which carries the API key, from transport errors.
func redact(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}

func lastUpdate(s string) string {
	if strings.TrimSpace(s) == "" {
		return unknownUpdate
	}
	return s
}
