package rest

import (
	"context"
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/playtime/internal/app/aggregate"
	"github.com/osa030/playtime/internal/domain/catalog"
	"github.com/osa030/playtime/internal/infra/config"
)

// Summarizer computes a playlist summary.
type Summarizer interface {
	Summarize(ctx context.Context, rawURL string) (*aggregate.Summary, error)
}

// SummarizeRequest is the body of POST /api/playlist.
type SummarizeRequest struct {
	URL string `json:"url"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Handler serves the playlist endpoints.
type Handler struct {
	summarizer Summarizer
	config     *config.Config
}

// NewHandler creates a new Handler.
func NewHandler(summarizer Summarizer, cfg *config.Config) *Handler {
	return &Handler{
		summarizer: summarizer,
		config:     cfg,
	}
}

// Healthz reports that the server is up.
func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetPlaylist handles GET /api/playlist?url=...
func (h *Handler) GetPlaylist(c *gin.Context) {
	h.summarize(c, c.Query("url"))
}

// PostPlaylist handles POST /api/playlist with a JSON body.
func (h *Handler) PostPlaylist(c *gin.Context) {
	var req SummarizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, catalog.Mark(errors.Wrap(err, "failed to decode request"), catalog.KindInvalidInput))
		return
	}
	h.summarize(c, req.URL)
}

func (h *Handler) summarize(c *gin.Context, rawURL string) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		h.fail(c, catalog.Mark(errors.New("url is required"), catalog.KindInvalidInput))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.config.RequestTimeout())
	defer cancel()

	summary, err := h.summarizer.Summarize(ctx, rawURL)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// fail writes the user-facing message for the kind of err.
// The detailed cause is only logged.
func (h *Handler) fail(c *gin.Context, err error) {
	kind := catalog.KindOf(err)
	if kind == catalog.KindInternal {
		zlog.Error().Msgf("summarize failed: request_id=%s error=%+v", c.GetString(requestIDKey), err)
	} else {
		zlog.Debug().Msgf("summarize rejected: request_id=%s kind=%s error=%v", c.GetString(requestIDKey), kind, err)
	}
	c.JSON(StatusFor(kind), ErrorResponse{Error: h.config.GetMessage(string(kind))})
}

// StatusFor maps an error kind to an HTTP status code.
func StatusFor(kind catalog.Kind) int {
	switch kind {
	case catalog.KindInvalidInput:
		return http.StatusBadRequest
	case catalog.KindNotFound:
		return http.StatusNotFound
	case catalog.KindForbidden:
		return http.StatusForbidden
	case catalog.KindInvalidCredential:
		return http.StatusUnauthorized
	case catalog.KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
