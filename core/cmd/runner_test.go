package cmd

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreconfig "github.com/m3rciful/finbot/core/config"
	coretelegram "github.com/m3rciful/finbot/core/telegram"
)

type carrier struct{ cfg *coreconfig.Config }

func (c carrier) CoreConfig() *coreconfig.Config { return c.cfg }

type fakeApp struct {
	closed bool
	optErr error
}

func (a *fakeApp) TelegramRunOptions() (coretelegram.RunOptions, error) {
	return coretelegram.RunOptions{}, a.optErr
}

func (a *fakeApp) Close() error {
	a.closed = true
	return nil
}

func TestResolveConfigPath(t *testing.T) {
	t.Setenv("FINBOT_CONFIG", "/etc/finbot.yaml")
	assert.Equal(t, "/tmp/x.yaml", ResolveConfigPath("/tmp/x.yaml", "FINBOT_CONFIG"))
	assert.Equal(t, "/etc/finbot.yaml", ResolveConfigPath("", "FINBOT_CONFIG"))

	t.Setenv("CONFIG_PATH", "")
	assert.Empty(t, ResolveConfigPath("", ""))
}

func TestRunWiresHooksAndCloses(t *testing.T) {
	app := &fakeApp{}
	var gotPath string
	var started, stopped bool

	err := Run(Options{
		ConfigPath: "bot.yaml",
		LoadConfig: func(path string) (ConfigCarrier, error) {
			gotPath = path
			return carrier{cfg: &coreconfig.Config{}}, nil
		},
		Bootstrap:      func(ConfigCarrier) (TelegramApp, error) { return app, nil },
		ShutdownLogger: func() error { return nil },
		RunTelegram: func(ctx context.Context, opts coretelegram.RunOptions) error {
			require.NoError(t, opts.OnStart(ctx, coretelegram.Runtime{}))
			started = true
			require.NoError(t, opts.OnStop(ctx, coretelegram.Runtime{}))
			stopped = true
			return nil
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "bot.yaml", gotPath)
	assert.True(t, started)
	assert.True(t, stopped)
	assert.True(t, app.closed)
}

func TestRunStopsOnLoadError(t *testing.T) {
	err := Run(Options{
		LoadConfig: func(string) (ConfigCarrier, error) { return nil, errors.New("bad yaml") },
		Bootstrap:  func(ConfigCarrier) (TelegramApp, error) { t.Fatal("unexpected bootstrap"); return nil, nil },
	})
	assert.ErrorContains(t, err, "bad yaml")
}

func TestRunClosesAppWhenOptionsFail(t *testing.T) {
	app := &fakeApp{optErr: errors.New("no token")}
	err := Run(Options{
		LoadConfig:     func(string) (ConfigCarrier, error) { return carrier{cfg: &coreconfig.Config{}}, nil },
		Bootstrap:      func(ConfigCarrier) (TelegramApp, error) { return app, nil },
		ShutdownLogger: func() error { return nil },
	})
	assert.ErrorContains(t, err, "no token")
	assert.True(t, app.closed)
}
