package app

import (
	"context"
	"fmt"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/aybee/nickbot/internal/bot"
	"github.com/aybee/nickbot/internal/catalog"
	"github.com/aybee/nickbot/internal/config"
	"github.com/aybee/nickbot/internal/history"
	historysqlite "github.com/aybee/nickbot/internal/history/sqlite"
	"github.com/aybee/nickbot/internal/lookup"
	"github.com/aybee/nickbot/internal/session"
	transporthttp "github.com/aybee/nickbot/internal/transport/http"
	"github.com/aybee/nickbot/internal/transport/telegram"
)

// App wires the catalog, session store, gate, router, and transports.
type App struct {
	dispatcher      *telegram.Dispatcher
	statusServer    *stdhttp.Server
	sessions        *session.Store
	history         history.Store
	shutdownTimeout time.Duration
	log             *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(cfg config.Config, logger *zerolog.Logger) (*App, error) {
	if cfg.BotToken == "" {
		return nil, config.ErrMissingBotToken
	}

	hist, err := historysqlite.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("init history store: %w", err)
	}
	logger.Info().Str("db_path", cfg.DatabasePath).Msg("history store initialized")

	sessions := session.NewStore(cfg.SessionTTL, logger)
	lookupClient := lookup.NewClient(cfg.LookupBaseURL, cfg.LookupTimeout, logger)
	tg := telegram.NewClient(cfg.TelegramAPIBase, cfg.BotToken, logger)

	gate := bot.NewGate(tg, tg, cfg.RequiredGroup, cfg.GroupJoinLink(), logger)
	router := bot.NewRouter(catalog.New(), sessions, gate, lookupClient, tg, hist, logger)

	return &App{
		dispatcher:      telegram.NewDispatcher(tg, router, cfg.PollTimeout, logger),
		statusServer:    transporthttp.NewServer(cfg.StatusAddr, hist, sessions, logger),
		sessions:        sessions,
		history:         hist,
		shutdownTimeout: cfg.ShutdownTimeout,
		log:             logger,
	}, nil
}

// Run starts the poll loop, the session janitor, and the status server, and
// blocks until context cancellation or a fatal error.
func (a *App) Run(ctx context.Context) error {
	go a.sessions.Run(ctx)

	serverErr := make(chan error, 1)
	go func() {
		if err := a.statusServer.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	pollErr := make(chan error, 1)
	go func() {
		pollErr <- a.dispatcher.Run(ctx)
	}()

	select {
	case err := <-serverErr:
		a.cleanup()
		return err
	case err := <-pollErr:
		a.cleanup()
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down status server")
		if err := a.statusServer.Shutdown(shutdownCtx); err != nil {
			a.log.Warn().Err(err).Msg("status server shutdown failed")
		}

		// The dispatcher returns nil once the context is cancelled.
		<-pollErr
		a.cleanup()
		return nil
	}
}

// cleanup closes the history store.
func (a *App) cleanup() {
	if a.history != nil {
		if err := a.history.Close(); err != nil {
			a.log.Warn().Err(err).Msg("failed to close history store")
		} else {
			a.log.Info().Msg("history store closed")
		}
	}
}
