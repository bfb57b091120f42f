package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/aybee/nickbot/internal/catalog"
	"github.com/aybee/nickbot/internal/history"
	"github.com/aybee/nickbot/internal/lookup"
	"github.com/aybee/nickbot/internal/session"
)

// Router drives the per-user conversation: /start renders the catalog, a
// selection records the game, free text carries the player id (and optional
// server) and triggers the lookup. The selection persists until overwritten,
// so a second message resolves against the same game.
type Router struct {
	catalog  *catalog.Catalog
	sessions *session.Store
	gate     *Gate
	lookup   LookupService
	msgr     Messenger
	history  history.Store
	log      *zerolog.Logger
}

// NewRouter wires the conversation router. The history store may be nil.
func NewRouter(cat *catalog.Catalog, sessions *session.Store, gate *Gate,
	lookupSvc LookupService, msgr Messenger, hist history.Store, logger *zerolog.Logger) *Router {
	return &Router{
		catalog:  cat,
		sessions: sessions,
		gate:     gate,
		lookup:   lookupSvc,
		msgr:     msgr,
		history:  hist,
		log:      logger,
	}
}

// Start handles the /start command: gate check, then the catalog keyboard.
func (r *Router) Start(ctx context.Context, userID, chatID int64) {
	sess, release := r.sessions.Acquire(userID)
	defer release()

	if !r.gate.Check(ctx, chatID, userID, sess) {
		return
	}

	entries := r.catalog.All()
	buttons := make([][]Button, 0, len(entries))
	for _, entry := range entries {
		buttons = append(buttons, []Button{{Text: entry.Name, CallbackData: entry.Name}})
	}

	if _, err := r.msgr.SendWithButtons(ctx, chatID, replySelectGame, buttons); err != nil {
		r.log.Error().Err(err).Int64("chat_id", chatID).Msg("failed to send game keyboard")
	}
}

// Help handles the /help command. No gating, no session access.
func (r *Router) Help(ctx context.Context, chatID int64) {
	r.sendText(ctx, chatID, replyHelp)
}

// Select records the chosen game and turns the keyboard message into an input
// prompt. Valid from any state; re-selection overwrites the prior choice.
func (r *Router) Select(ctx context.Context, userID int64, prompt session.MessageRef, game string) {
	sess, release := r.sessions.Acquire(userID)
	defer release()

	if _, ok := r.catalog.Lookup(game); !ok {
		// Selections only ever come from rendered catalog buttons; a miss
		// means forged callback data or a defect.
		r.log.Error().Int64("user_id", userID).Str("game", game).Msg("selection not in catalog")
		if err := r.msgr.EditMessageText(ctx, prompt, replyLookupFailed); err != nil {
			r.log.Warn().Err(err).Msg("failed to edit selection message")
		}
		return
	}

	sess.SelectedGame = game
	if err := r.msgr.EditMessageText(ctx, prompt, fmt.Sprintf(replySelectedFmt, game)); err != nil {
		r.log.Warn().Err(err).Int64("user_id", userID).Msg("failed to edit selection message")
	}
}

// Input handles a free-text message: gate check, parse player id and optional
// server, resolve the endpoint, fetch, reply.
func (r *Router) Input(ctx context.Context, userID, chatID int64, text string) {
	sess, release := r.sessions.Acquire(userID)
	defer release()

	if !r.gate.Check(ctx, chatID, userID, sess) {
		return
	}

	if sess.SelectedGame == "" {
		r.sendText(ctx, chatID, replySelectFirst)
		return
	}

	fields := strings.Fields(text)
	var playerID, server string
	if len(fields) > 0 {
		playerID = fields[0]
	}
	if len(fields) > 1 {
		server = fields[1]
	}
	if playerID == "" {
		r.sendText(ctx, chatID, replyInvalidID)
		return
	}

	entry, ok := r.catalog.Lookup(sess.SelectedGame)
	if !ok {
		// Invariant violation: a recorded selection is always a catalog key.
		r.log.Error().Int64("user_id", userID).Str("game", sess.SelectedGame).
			Msg("selected game missing from catalog")
		r.sendText(ctx, chatID, replyLookupFailed)
		return
	}

	endpoint, err := entry.Endpoint.Build(playerID, server)
	if err != nil {
		r.sendText(ctx, chatID, replyInvalidID)
		return
	}

	res := r.lookup.Fetch(ctx, endpoint)
	r.record(ctx, userID, entry.Name, playerID, server, res)
	r.sendText(ctx, chatID, formatResult(res))
}

func (r *Router) sendText(ctx context.Context, chatID int64, text string) {
	if _, err := r.msgr.SendText(ctx, chatID, text); err != nil {
		r.log.Error().Err(err).Int64("chat_id", chatID).Msg("failed to send reply")
	}
}

func (r *Router) record(ctx context.Context, userID int64, game, playerID, server string, res lookup.Result) {
	if r.history == nil {
		return
	}
	err := r.history.Insert(ctx, history.Record{
		UserID:   userID,
		Game:     game,
		PlayerID: playerID,
		Server:   server,
		Success:  res.Success,
		Name:     res.Name,
	})
	if err != nil {
		r.log.Warn().Err(err).Int64("user_id", userID).Msg("failed to record lookup")
	}
}
