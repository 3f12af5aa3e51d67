package connect

import (
	"context"
	"crypto/subtle"

	"connectrpc.com/connect"
	"github.com/cockroachdb/errors"

	"github.com/osa030/playtime/internal/infra/config"
)

const (
	// APITokenHeader is the header name for the shared API token.
	APITokenHeader = "X-Api-Token"
)

// NewTokenInterceptor creates an interceptor that validates the shared API
// token from request metadata. Without a configured token every request passes.
func NewTokenInterceptor(cfg *config.Config) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if cfg.Server.APIToken == "" || req.Spec().IsClient {
				return next(ctx, req)
			}

			// Extract token from metadata
			token := req.Header().Get(APITokenHeader)
			if token == "" {
				return nil, connect.NewError(connect.CodeUnauthenticated, errors.New(cfg.GetMessage("unauthorized")))
			}

			// Validate token
			if subtle.ConstantTimeCompare([]byte(token), []byte(cfg.Server.APIToken)) != 1 {
				return nil, connect.NewError(connect.CodeUnauthenticated, errors.New(cfg.GetMessage("unauthorized")))
			}

			return next(ctx, req)
		}
	}
}

// WithToken creates a client interceptor that attaches the API token to
// outgoing requests. An empty token adds nothing.
func WithToken(token string) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if token != "" && req.Spec().IsClient {
				req.Header().Set(APITokenHeader, token)
			}
			return next(ctx, req)
		}
	}
}
