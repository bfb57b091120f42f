// Package bot contains the conversation router and the join gate. It talks to
// the chat platform only through the interfaces below, so the core never
// depends on a concrete transport.
package bot

import (
	"context"

	"github.com/aybee/nickbot/internal/lookup"
	"github.com/aybee/nickbot/internal/session"
)

// Button is one inline button. URL buttons open a link; callback buttons
// deliver their data back through the transport.
type Button struct {
	Text         string
	URL          string
	CallbackData string
}

// Messenger is the outbound side of the chat transport.
type Messenger interface {
	SendText(ctx context.Context, chatID int64, text string) (session.MessageRef, error)
	SendWithButtons(ctx context.Context, chatID int64, text string, buttons [][]Button) (session.MessageRef, error)
	EditMessageText(ctx context.Context, ref session.MessageRef, text string) error
	DeleteMessage(ctx context.Context, ref session.MessageRef) error
}

// MembershipChecker reports a user's membership status in a group.
// Statuses follow the platform's vocabulary (member, administrator, creator,
// left, kicked, restricted).
type MembershipChecker interface {
	GetMembershipStatus(ctx context.Context, group string, userID int64) (string, error)
}

// LookupService is the lookup client's surface as the router sees it.
type LookupService interface {
	Fetch(ctx context.Context, endpoint string) lookup.Result
}
