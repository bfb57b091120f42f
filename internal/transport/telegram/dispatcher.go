package telegram

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aybee/nickbot/internal/bot"
	"github.com/aybee/nickbot/internal/session"
)

const pollRetryDelay = 3 * time.Second

// Dispatcher runs the getUpdates loop and maps updates onto router
// operations. Each update is handled in its own goroutine; per-user ordering
// is provided by the session store's acquire lock, which every user-scoped
// router operation takes first.
type Dispatcher struct {
	client      *Client
	router      *bot.Router
	pollTimeout time.Duration
	log         *zerolog.Logger
}

// NewDispatcher creates a dispatcher for the given client and router.
func NewDispatcher(client *Client, router *bot.Router, pollTimeout time.Duration, logger *zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		client:      client,
		router:      router,
		pollTimeout: pollTimeout,
		log:         logger,
	}
}

// Run polls for updates until the context is cancelled.
func (d *Dispatcher) Run(ctx context.Context) error {
	var offset int64
	for {
		updates, err := d.client.GetUpdates(ctx, offset, d.pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			d.log.Error().Err(err).Msg("getUpdates failed, retrying")
			select {
			case <-time.After(pollRetryDelay):
				continue
			case <-ctx.Done():
				return nil
			}
		}

		for _, upd := range updates {
			offset = upd.UpdateID + 1
			go d.dispatch(ctx, upd)
		}
	}
}

// dispatch routes one update. A panicking handler must not take down the
// poll loop.
func (d *Dispatcher) dispatch(ctx context.Context, upd Update) {
	logger := d.log.With().
		Int64("update_id", upd.UpdateID).
		Str("correlation_id", uuid.NewString()).
		Logger()

	defer func() {
		if r := recover(); r != nil {
			logger.Error().Any("panic", r).Msg("handler panicked")
		}
	}()

	switch {
	case upd.CallbackQuery != nil:
		d.dispatchCallback(ctx, &logger, upd.CallbackQuery)
	case upd.Message != nil && upd.Message.From != nil:
		d.dispatchMessage(ctx, &logger, upd.Message)
	default:
		logger.Debug().Msg("ignoring unsupported update")
	}
}

func (d *Dispatcher) dispatchCallback(ctx context.Context, logger *zerolog.Logger, cb *CallbackQuery) {
	if err := d.client.AnswerCallbackQuery(ctx, cb.ID); err != nil {
		logger.Warn().Err(err).Msg("failed to answer callback query")
	}
	if cb.Message == nil {
		logger.Debug().Msg("callback without originating message")
		return
	}

	logger.Debug().Int64("user_id", cb.From.ID).Str("game", cb.Data).Msg("game selected")
	ref := session.MessageRef{ChatID: cb.Message.Chat.ID, MessageID: cb.Message.MessageID}
	d.router.Select(ctx, cb.From.ID, ref, cb.Data)
}

func (d *Dispatcher) dispatchMessage(ctx context.Context, logger *zerolog.Logger, msg *Message) {
	text := strings.TrimSpace(msg.Text)

	switch {
	case isCommand(text, "/start"):
		logger.Debug().Int64("user_id", msg.From.ID).Msg("/start")
		d.router.Start(ctx, msg.From.ID, msg.Chat.ID)
	case isCommand(text, "/help"):
		d.router.Help(ctx, msg.Chat.ID)
	case strings.HasPrefix(text, "/"):
		logger.Debug().Str("text", text).Msg("ignoring unknown command")
	default:
		d.router.Input(ctx, msg.From.ID, msg.Chat.ID, text)
	}
}

// isCommand matches "/cmd" and "/cmd@botname" forms.
func isCommand(text, cmd string) bool {
	if !strings.HasPrefix(text, cmd) {
		return false
	}
	rest := text[len(cmd):]
	return rest == "" || strings.HasPrefix(rest, "@") || strings.HasPrefix(rest, " ")
}
