package rest

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/playtime/internal/infra/config"
)

// RequestIDHeader carries the id assigned to each request.
const RequestIDHeader = "X-Request-Id"

const requestIDKey = "request_id"

// RequestLogger assigns a request id and logs every request once it completes.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)
		// Handlers mounted below the router, such as the RPC service, reuse the id
		c.Request.Header.Set(RequestIDHeader, requestID)

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		event := zlog.Info()
		if status >= http.StatusInternalServerError {
			event = zlog.Error()
		} else if status >= http.StatusBadRequest {
			event = zlog.Warn()
		}
		event.Msgf("http request: request_id=%s method=%s path=%s status=%d client=%s elapsed=%s",
			requestID, c.Request.Method, c.Request.URL.Path, status, c.ClientIP(), time.Since(start))
	}
}

// TokenAuth rejects requests without the configured API token.
// Without a configured token every request passes.
func TokenAuth(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.Server.APIToken == "" {
			c.Next()
			return
		}

		token := c.GetHeader(APITokenHeader)
		if token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(cfg.Server.APIToken)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: cfg.GetMessage("unauthorized")})
			return
		}
		c.Next()
	}
}
