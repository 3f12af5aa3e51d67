package connect

import (
	"context"
	"time"

	"connectrpc.com/connect"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"
)

// RequestIDHeader carries the id assigned to each RPC.
const RequestIDHeader = "X-Request-Id"

// NewLoggingInterceptor creates an interceptor that logs the outcome of every
// RPC under a request id. An id already present on the request was assigned
// and echoed upstream; otherwise a new one is minted and echoed here.
func NewLoggingInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if req.Spec().IsClient {
				return next(ctx, req)
			}

			requestID := req.Header().Get(RequestIDHeader)
			minted := requestID == ""
			if minted {
				requestID = uuid.NewString()
			}
			start := time.Now()

			resp, err := next(ctx, req)

			elapsed := time.Since(start)
			if err != nil {
				zlog.Warn().Msgf("rpc failed: request_id=%s procedure=%s peer=%s code=%s elapsed=%s error=%v",
					requestID, req.Spec().Procedure, req.Peer().Addr, connect.CodeOf(err), elapsed, err)
				var connectErr *connect.Error
				if minted && errors.As(err, &connectErr) {
					connectErr.Meta().Set(RequestIDHeader, requestID)
				}
				return nil, err
			}
			if minted {
				resp.Header().Set(RequestIDHeader, requestID)
			}
			zlog.Info().Msgf("rpc completed: request_id=%s procedure=%s peer=%s elapsed=%s",
				requestID, req.Spec().Procedure, req.Peer().Addr, elapsed)
			return resp, nil
		}
	}
}
