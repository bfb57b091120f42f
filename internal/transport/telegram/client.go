// Package telegram adapts the Bot API to the interfaces the core consumes.
// Only the handful of methods the bot needs are implemented; everything goes
// through the same call/envelope path.
package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/aybee/nickbot/internal/bot"
	"github.com/aybee/nickbot/internal/session"
)

const callTimeout = 10 * time.Second

// Client talks to the Telegram Bot API.
type Client struct {
	base string // e.g. https://api.telegram.org/bot<token>
	http *http.Client
	log  *zerolog.Logger
}

// NewClient creates a Bot API client. apiBase is the server root without the
// token segment. No global http timeout is set because getUpdates long-polls;
// every call carries its own context deadline.
func NewClient(apiBase, token string, logger *zerolog.Logger) *Client {
	return &Client{
		base: strings.TrimSuffix(apiBase, "/") + "/bot" + token,
		http: &http.Client{},
		log:  logger,
	}
}

// call posts a Bot API method and unmarshals the envelope result into out.
func (c *Client) call(ctx context.Context, method string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/"+method,
		strings.NewReader(params.Encode()))
	if err != nil {
		return fmt.Errorf("build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	defer resp.Body.Close()

	var envelope apiEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decode %s response: %w", method, err)
	}
	if !envelope.OK {
		return fmt.Errorf("%s: api error: %s", method, envelope.Description)
	}
	if out != nil {
		if err := json.Unmarshal(envelope.Result, out); err != nil {
			return fmt.Errorf("unmarshal %s result: %w", method, err)
		}
	}
	return nil
}

// SendText implements bot.Messenger.
func (c *Client) SendText(ctx context.Context, chatID int64, text string) (session.MessageRef, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	params := url.Values{}
	params.Set("chat_id", strconv.FormatInt(chatID, 10))
	params.Set("text", text)

	var msg Message
	if err := c.call(ctx, "sendMessage", params, &msg); err != nil {
		return session.MessageRef{}, err
	}
	return session.MessageRef{ChatID: msg.Chat.ID, MessageID: msg.MessageID}, nil
}

// SendWithButtons implements bot.Messenger.
func (c *Client) SendWithButtons(ctx context.Context, chatID int64, text string, buttons [][]bot.Button) (session.MessageRef, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	markup, err := json.Marshal(toKeyboard(buttons))
	if err != nil {
		return session.MessageRef{}, fmt.Errorf("marshal keyboard: %w", err)
	}

	params := url.Values{}
	params.Set("chat_id", strconv.FormatInt(chatID, 10))
	params.Set("text", text)
	params.Set("reply_markup", string(markup))

	var msg Message
	if err := c.call(ctx, "sendMessage", params, &msg); err != nil {
		return session.MessageRef{}, err
	}
	return session.MessageRef{ChatID: msg.Chat.ID, MessageID: msg.MessageID}, nil
}

// EditMessageText implements bot.Messenger.
func (c *Client) EditMessageText(ctx context.Context, ref session.MessageRef, text string) error {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	params := url.Values{}
	params.Set("chat_id", strconv.FormatInt(ref.ChatID, 10))
	params.Set("message_id", strconv.FormatInt(ref.MessageID, 10))
	params.Set("text", text)
	return c.call(ctx, "editMessageText", params, nil)
}

// DeleteMessage implements bot.Messenger.
func (c *Client) DeleteMessage(ctx context.Context, ref session.MessageRef) error {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	params := url.Values{}
	params.Set("chat_id", strconv.FormatInt(ref.ChatID, 10))
	params.Set("message_id", strconv.FormatInt(ref.MessageID, 10))
	return c.call(ctx, "deleteMessage", params, nil)
}

// GetMembershipStatus implements bot.MembershipChecker.
func (c *Client) GetMembershipStatus(ctx context.Context, group string, userID int64) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	params := url.Values{}
	params.Set("chat_id", group)
	params.Set("user_id", strconv.FormatInt(userID, 10))

	var member ChatMember
	if err := c.call(ctx, "getChatMember", params, &member); err != nil {
		return "", err
	}
	return member.Status, nil
}

// AnswerCallbackQuery acknowledges a button press so the client stops its
// loading indicator.
func (c *Client) AnswerCallbackQuery(ctx context.Context, callbackID string) error {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	params := url.Values{}
	params.Set("callback_query_id", callbackID)
	return c.call(ctx, "answerCallbackQuery", params, nil)
}

// GetUpdates long-polls for inbound updates starting at offset.
func (c *Client) GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]Update, error) {
	// The deadline leaves headroom over the server-side poll timeout.
	ctx, cancel := context.WithTimeout(ctx, timeout+callTimeout)
	defer cancel()

	params := url.Values{}
	params.Set("offset", strconv.FormatInt(offset, 10))
	params.Set("timeout", strconv.FormatInt(int64(timeout/time.Second), 10))

	var updates []Update
	if err := c.call(ctx, "getUpdates", params, &updates); err != nil {
		return nil, err
	}
	return updates, nil
}

func toKeyboard(buttons [][]bot.Button) InlineKeyboardMarkup {
	rows := make([][]InlineKeyboardButton, 0, len(buttons))
	for _, row := range buttons {
		wire := make([]InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			wire = append(wire, InlineKeyboardButton{
				Text:         b.Text,
				URL:          b.URL,
				CallbackData: b.CallbackData,
			})
		}
		rows = append(rows, wire)
	}
	return InlineKeyboardMarkup{InlineKeyboard: rows}
}
