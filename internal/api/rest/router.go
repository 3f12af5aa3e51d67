// Package rest provides the JSON HTTP API served to browser clients.
package rest

import (
	"net/http"
	"slices"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/osa030/playtime/internal/infra/config"
)

// APITokenHeader is the header name for the shared API token.
const APITokenHeader = "X-Api-Token"

// NewRouter creates the gin engine serving the playlist API.
// Extra handlers, such as RPC services, can be mounted on the result.
func NewRouter(summarizer Summarizer, cfg *config.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger())

	// cors.New rejects an empty origin list, so only install it when configured
	if len(cfg.Server.AllowedOrigins) > 0 {
		r.Use(cors.New(corsConfig(cfg.Server.AllowedOrigins)))
	}

	h := NewHandler(summarizer, cfg)
	r.GET("/healthz", h.Healthz)

	api := r.Group("/api", TokenAuth(cfg))
	api.GET("/playlist", h.GetPlaylist)
	api.POST("/playlist", h.PostPlaylist)

	return r
}

// Mount serves handler for every path below prefix, which must end in "/".
func Mount(r *gin.Engine, prefix string, handler http.Handler) {
	r.Any(prefix+"*path", gin.WrapH(handler))
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{
			"Origin", "Content-Type", APITokenHeader,
			"Connect-Protocol-Version", "Connect-Timeout-Ms",
		},
		ExposeHeaders: []string{RequestIDHeader},
	}
	if slices.Contains(origins, "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
	}
	return c
}
