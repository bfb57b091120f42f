// Package lookup calls the external nickname-resolution service and
// normalizes its responses.
package lookup

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Result is the normalized outcome of one lookup call. On success the four
// echoed fields are carried verbatim from the service. On failure, Message
// holds the service-provided text; an empty Message means a transport-level
// failure, rendered by the caller as a generic reply.
type Result struct {
	Success bool
	Game    string
	ID      string
	Server  string
	Name    string
	Message string
}

// apiResponse mirrors the lookup service's JSON body.
type apiResponse struct {
	Success bool   `json:"success"`
	Game    string `json:"game"`
	ID      string `json:"id"`
	Server  string `json:"server"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

// Client performs lookups against a single fixed base URL. One attempt per
// request, no retries; the caller is a live chat session and can resend.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zerolog.Logger
}

// NewClient creates a lookup client with an explicit request timeout.
func NewClient(baseURL string, timeout time.Duration, logger *zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		log:     logger,
	}
}

// Fetch resolves an endpoint path against the base URL and performs the call.
// It never fails past this boundary: every transport or parse problem comes
// back as an unsuccessful Result.
func (c *Client) Fetch(ctx context.Context, endpoint string) Result {
	url := c.baseURL + endpoint

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		c.log.Error().Err(err).Str("url", url).Msg("failed to build lookup request")
		return Result{}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error().Err(err).Str("url", url).Msg("lookup request failed")
		return Result{}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Error().Int("status", resp.StatusCode).Str("url", url).Msg("lookup service returned non-2xx")
		return Result{}
	}

	var body apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		c.log.Error().Err(err).Str("url", url).Msg("failed to decode lookup response")
		return Result{}
	}

	if !body.Success {
		return Result{Message: body.Message}
	}

	return Result{
		Success: true,
		Game:    body.Game,
		ID:      body.ID,
		Server:  body.Server,
		Name:    body.Name,
	}
}
