package bot

import (
	"fmt"

	"github.com/aybee/nickbot/internal/lookup"
)

const (
	replySelectGame   = "Please select a game to check the user ID:"
	replySelectFirst  = "Please select a game first using /start."
	replyInvalidID    = "Please provide a valid player ID."
	replyLookupFailed = "❌ Failed to check the ID. Please try again later."
	replyHelp         = "Use /start to check a player ID for supported games."

	replySelectedFmt = "You selected: %s\nPlease enter the player ID (and server if required). Example: 123456789 (server if needed)"
)

func joinPromptText(joinLink string) string {
	return fmt.Sprintf("🚫 Kindly join our group to access the bot's features.\n👉 Join here: %s", joinLink)
}

// formatResult renders a lookup result as a chat reply. An unsuccessful
// result without a service message is a transport failure and gets the
// generic reply.
func formatResult(res lookup.Result) string {
	if res.Success {
		return fmt.Sprintf("✅ Success!\n\nGame: %s\nID: %s\nServer: %s\nName: %s",
			res.Game, res.ID, res.Server, res.Name)
	}
	if res.Message != "" {
		return "❌ Error: " + res.Message
	}
	return replyLookupFailed
}
