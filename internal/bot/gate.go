package bot

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/aybee/nickbot/internal/session"
)

// allowedStatuses are the membership statuses that pass the gate. Anything
// else, including a failed check, blocks (fail-closed).
var allowedStatuses = map[string]bool{
	"member":        true,
	"administrator": true,
	"creator":       true,
}

// Gate enforces membership in the required group before any catalog or lookup
// interaction, and keeps the chat free of stale join prompts.
type Gate struct {
	checker  MembershipChecker
	msgr     Messenger
	group    string
	joinLink string
	log      *zerolog.Logger
}

// NewGate creates a join gate for the given group.
func NewGate(checker MembershipChecker, msgr Messenger, group, joinLink string, logger *zerolog.Logger) *Gate {
	return &Gate{
		checker:  checker,
		msgr:     msgr,
		group:    group,
		joinLink: joinLink,
		log:      logger,
	}
}

// Check reports whether the user may proceed. On a blocked user it sends the
// join prompt at most once while one is pending. On an allowed user with a
// pending prompt it deletes the prompt and clears the reference, whether or
// not the deletion succeeds. The caller must hold the user's session.
func (g *Gate) Check(ctx context.Context, chatID, userID int64, sess *session.Session) bool {
	status, err := g.checker.GetMembershipStatus(ctx, g.group, userID)
	if err != nil {
		g.log.Error().Err(err).Int64("user_id", userID).Msg("membership check failed, blocking")
	}

	if err == nil && allowedStatuses[status] {
		if sess.PendingJoinPrompt != nil {
			if delErr := g.msgr.DeleteMessage(ctx, *sess.PendingJoinPrompt); delErr != nil {
				g.log.Warn().Err(delErr).Int64("user_id", userID).Msg("failed to delete join prompt")
			}
			sess.PendingJoinPrompt = nil
		}
		return true
	}

	if sess.PendingJoinPrompt != nil {
		// A prompt is already pending; do not spam another one.
		return false
	}

	ref, sendErr := g.msgr.SendWithButtons(ctx, chatID, joinPromptText(g.joinLink), [][]Button{
		{{Text: "Join Group", URL: g.joinLink}},
	})
	if sendErr != nil {
		g.log.Error().Err(sendErr).Int64("user_id", userID).Msg("failed to send join prompt")
		return false
	}
	sess.PendingJoinPrompt = &ref
	return false
}
