// Package http serves the keep-alive/status surface the hosting platform
// polls. It exposes no bot functionality.
package http

import (
	stdhttp "net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/aybee/nickbot/internal/history"
	"github.com/aybee/nickbot/internal/session"
)

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse represents the /status response body.
type StatusResponse struct {
	Uptime           string `json:"uptime"`
	LiveSessions     int    `json:"live_sessions"`
	Lookups          int64  `json:"lookups"`
	LookupsSucceeded int64  `json:"lookups_succeeded"`
}

// StatusHandlers provides the health and status endpoints.
type StatusHandlers struct {
	history  history.Store
	sessions *session.Store
	started  time.Time
	log      *zerolog.Logger
}

// NewServer builds the status HTTP server. The history store may be nil, in
// which case lookup counters are reported as zero.
func NewServer(addr string, hist history.Store, sessions *session.Store, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), LoggerMiddleware(logger))

	h := &StatusHandlers{
		history:  hist,
		sessions: sessions,
		started:  time.Now(),
		log:      logger,
	}
	engine.GET("/health", h.Health)
	engine.GET("/status", h.Status)

	return &stdhttp.Server{
		Addr:              addr,
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// Health responds to keep-alive probes.
// GET /health
func (h *StatusHandlers) Health(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}

// Status reports uptime and lookup counters.
// GET /status
func (h *StatusHandlers) Status(c *gin.Context) {
	resp := StatusResponse{
		Uptime:       time.Since(h.started).Round(time.Second).String(),
		LiveSessions: h.sessions.Len(),
	}

	if h.history != nil {
		counts, err := h.history.Count(c.Request.Context())
		if err != nil {
			h.log.Error().Err(err).Msg("failed to count lookups")
			c.JSON(stdhttp.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
			return
		}
		resp.Lookups = counts.Total
		resp.LookupsSucceeded = counts.Succeeded
	}

	c.JSON(stdhttp.StatusOK, resp)
}
