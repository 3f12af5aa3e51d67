// Package connect provides Connect RPC service implementations.
package connect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/playtime/internal/app/aggregate"
	"github.com/osa030/playtime/internal/domain/catalog"
	"github.com/osa030/playtime/internal/infra/config"
)

const (
	// PlaylistServiceName is the fully-qualified name of the PlaylistService.
	PlaylistServiceName = "playtime.v1.PlaylistService"
	// SummarizeProcedure is the path of the PlaylistService.Summarize RPC.
	SummarizeProcedure = "/" + PlaylistServiceName + "/Summarize"
)

// SummarizeRequest asks for the summary of one playlist.
type SummarizeRequest struct {
	URL string `json:"url"`
}

// Summarizer computes a playlist summary.
type Summarizer interface {
	Summarize(ctx context.Context, rawURL string) (*aggregate.Summary, error)
}

// PlaylistService implements the PlaylistService RPC.
type PlaylistService struct {
	summarizer Summarizer
	config     *config.Config
}

// NewPlaylistService creates a new PlaylistService.
func NewPlaylistService(summarizer Summarizer, cfg *config.Config) *PlaylistService {
	return &PlaylistService{
		summarizer: summarizer,
		config:     cfg,
	}
}

// Summarize handles playlist summary requests.
func (s *PlaylistService) Summarize(
	ctx context.Context,
	req *connect.Request[SummarizeRequest],
) (*connect.Response[aggregate.Summary], error) {
	rawURL := strings.TrimSpace(req.Msg.URL)
	if rawURL == "" {
		return nil, s.toConnectError(catalog.Mark(errors.New("url is required"), catalog.KindInvalidInput))
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.RequestTimeout())
	defer cancel()

	summary, err := s.summarizer.Summarize(ctx, rawURL)
	if err != nil {
		return nil, s.toConnectError(err)
	}
	return connect.NewResponse(summary), nil
}

// toConnectError replaces err with the user-facing message for its kind.
// The detailed cause is only logged.
func (s *PlaylistService) toConnectError(err error) *connect.Error {
	kind := catalog.KindOf(err)
	if kind == catalog.KindInternal {
		zlog.Error().Msgf("summarize failed: %+v", err)
	} else {
		zlog.Debug().Msgf("summarize rejected: kind=%s error=%v", kind, err)
	}
	return connect.NewError(CodeFor(kind), errors.New(s.config.GetMessage(string(kind))))
}

// CodeFor maps an error kind to a Connect code.
func CodeFor(kind catalog.Kind) connect.Code {
	switch kind {
	case catalog.KindInvalidInput:
		return connect.CodeInvalidArgument
	case catalog.KindNotFound:
		return connect.CodeNotFound
	case catalog.KindForbidden:
		return connect.CodePermissionDenied
	case catalog.KindInvalidCredential:
		return connect.CodeUnauthenticated
	case catalog.KindRateLimited:
		return connect.CodeResourceExhausted
	default:
		return connect.CodeInternal
	}
}

// NewPlaylistServiceHandler builds an HTTP handler for the service and
// returns the path to mount it on.
func NewPlaylistServiceHandler(svc *PlaylistService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)
	summarizeHandler := connect.NewUnaryHandler(SummarizeProcedure, svc.Summarize, opts...)

	return "/" + PlaylistServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case SummarizeProcedure:
			summarizeHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// PlaylistServiceClient is a client for the PlaylistService.
type PlaylistServiceClient struct {
	summarize *connect.Client[SummarizeRequest, aggregate.Summary]
}

// NewPlaylistServiceClient creates a client for the service at baseURL,
// e.g. "http://localhost:8080".
func NewPlaylistServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *PlaylistServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(jsonCodec{})}, opts...)
	return &PlaylistServiceClient{
		summarize: connect.NewClient[SummarizeRequest, aggregate.Summary](httpClient, baseURL+SummarizeProcedure, opts...),
	}
}

// Summarize calls PlaylistService.Summarize.
func (c *PlaylistServiceClient) Summarize(ctx context.Context, rawURL string) (*aggregate.Summary, error) {
	resp, err := c.summarize.CallUnary(ctx, connect.NewRequest(&SummarizeRequest{URL: rawURL}))
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}
