package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/examdesk/examdesk/internal/api"
	"github.com/examdesk/examdesk/internal/auth"
	"github.com/examdesk/examdesk/internal/coach"
	"github.com/examdesk/examdesk/internal/config"
	"github.com/examdesk/examdesk/internal/llm"
	"github.com/examdesk/examdesk/internal/logging"
	"github.com/examdesk/examdesk/internal/screen"
	"github.com/examdesk/examdesk/internal/store"
)

// deps is everything a command needs, built from config and flags.
type deps struct {
	cfg     *config.Config
	log     zerolog.Logger
	store   *store.Store
	holder  *auth.Holder
	keyring *auth.Keyring
	client  *api.Client

	logFile io.Closer
}

// loadConfig reads config and applies the persistent flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	override := func(flag string, dst *string) {
		if v, _ := cmd.Flags().GetString(flag); v != "" {
			*dst = v
		}
	}
	override("db", &cfg.DBPath)
	override("api-url", &cfg.APIURL)
	override("log-level", &cfg.LogLevel)
	override("log-format", &cfg.LogFormat)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// setup opens the store and builds the client. Interactive runs log to
// the log file, since the TUI owns the terminal.
func setup(cmd *cobra.Command, interactive bool) (*deps, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	d := &deps{cfg: cfg, holder: &auth.Holder{}}
	if interactive {
		f, err := logging.OpenFile(cfg.LogFile)
		if err != nil {
			return nil, err
		}
		d.logFile = f
		d.log = logging.Setup(cfg.LogLevel, "json", f)
	} else {
		d.log = logging.Setup(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())
	}

	if err := store.EnsureDir(cfg.DBPath); err != nil {
		d.Close()
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}
	d.store = st
	d.keyring = auth.NewKeyring(st.CredentialRepo())
	d.client = api.New(cfg.APIURL, d.holder,
		api.WithTimeout(cfg.Timeout),
		api.WithLogger(d.log),
	)
	return d, nil
}

func (d *deps) Close() {
	if d.store != nil {
		d.store.Close()
	}
	if d.logFile != nil {
		d.logFile.Close()
	}
}

// requireLogin loads the saved login into the holder.
func (d *deps) requireLogin(ctx context.Context) (auth.Credentials, error) {
	c, err := d.keyring.Load(ctx)
	if errors.Is(err, auth.ErrNotLoggedIn) {
		return auth.Credentials{}, errors.New("not logged in; run `examdesk login` first")
	}
	if err != nil {
		return auth.Credentials{}, err
	}
	d.holder.Set(c)
	return c, nil
}

// coach returns the study coach, or nil when no provider is configured.
func (d *deps) coach(ctx context.Context) *coach.Coach {
	cfg := d.cfg.LLM
	cfg.MockReply = []byte(coach.SampleReply)
	p, err := llm.New(ctx, cfg, d.store.EventRepo(), d.log)
	if err != nil {
		if !errors.Is(err, llm.ErrDisabled) {
			d.log.Warn().Err(err).Msg("study coach unavailable")
		}
		return nil
	}
	return coach.New(p, cfg.Timeout)
}

// env builds the collaborators shared by the screens.
func (d *deps) env(ctx context.Context) *screen.Env {
	return &screen.Env{
		API:     d.client,
		Login:   d.holder,
		Keyring: d.keyring,
		Events:  d.store.EventRepo(),
		Results: d.store.ResultRepo(),
		Coach:   d.coach(ctx),
		Log:     d.log,
	}
}
