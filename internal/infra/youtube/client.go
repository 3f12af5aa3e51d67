// Package youtube provides a catalog client for the YouTube Data API.
package youtube

import (
	"context"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	ytapi "google.golang.org/api/youtube/v3"

	"github.com/osa030/playtime/internal/domain/catalog"
	"github.com/osa030/playtime/internal/domain/item"
	"github.com/osa030/playtime/internal/domain/playlist"
)

// Name is the catalog name used in config and responses.
const Name = "youtube"

// Client is a YouTube Data API client.
type Client struct {
	service *ytapi.Service
}

// Config represents YouTube client configuration.
type Config struct {
	APIKey string
}

// Ensure Client implements the catalog contract.
var _ catalog.Catalog = (*Client)(nil)

// New creates a new YouTube client.
// A client without an API key is still returned; every call then fails
// before reaching the network.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		zlog.Warn().Msg("youtube API key is not configured, playlist requests will fail")
		return &Client{}, nil
	}

	service, err := ytapi.NewService(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create YouTube service")
	}
	return &Client{service: service}, nil
}

// newWithEndpoint creates a client talking to a custom endpoint.
func newWithEndpoint(ctx context.Context, endpoint string, httpClient *http.Client) (*Client, error) {
	service, err := ytapi.NewService(ctx,
		option.WithEndpoint(endpoint),
		option.WithHTTPClient(httpClient),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create YouTube service")
	}
	return &Client{service: service}, nil
}

// Name returns the catalog name.
func (c *Client) Name() string {
	return Name
}

// ExtractID extracts the playlist ID from the "list" query parameter.
func (c *Client) ExtractID(rawURL string) (string, bool) {
	return playlist.ExtractID(rawURL)
}

// GetPlaylist retrieves the playlist snippet.
// An empty result means the playlist does not exist or is private.
func (c *Client) GetPlaylist(ctx context.Context, playlistID string) (*playlist.Metadata, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}

	resp, err := c.service.Playlists.List([]string{"snippet"}).
		Id(playlistID).
		Context(ctx).
		Do()
	if err != nil {
		return nil, errors.Wrap(classify(err), "failed to get playlist")
	}
	if len(resp.Items) == 0 || resp.Items[0].Snippet == nil {
		return nil, errors.Wrapf(catalog.ErrNotFound, "playlist %s", playlistID)
	}

	snippet := resp.Items[0].Snippet
	meta := &playlist.Metadata{
		Title:        snippet.Title,
		Description:  snippet.Description,
		ChannelTitle: snippet.ChannelTitle,
	}
	if snippet.PublishedAt != "" {
		if t, err := time.Parse(time.RFC3339, snippet.PublishedAt); err == nil {
			meta.PublishedAt = &t
		} else {
			zlog.Debug().Msgf("unparseable playlist publishedAt: %s", snippet.PublishedAt)
		}
	}
	return meta, nil
}

// ListItems retrieves one page of playlist item video IDs.
func (c *Client) ListItems(ctx context.Context, playlistID, pageToken string, pageSize int) (*catalog.Page, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}

	call := c.service.PlaylistItems.List([]string{"contentDetails"}).
		PlaylistId(playlistID).
		MaxResults(int64(clampPageSize(pageSize))).
		Context(ctx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}

	resp, err := call.Do()
	if err != nil {
		return nil, errors.Wrap(classify(err), "failed to list playlist items")
	}

	page := &catalog.Page{
		ItemIDs:       make([]string, 0, len(resp.Items)),
		NextPageToken: resp.NextPageToken,
	}
	for _, it := range resp.Items {
		if it.ContentDetails == nil || it.ContentDetails.VideoId == "" {
			continue
		}
		page.ItemIDs = append(page.ItemIDs, it.ContentDetails.VideoId)
	}
	return page, nil
}

// GetDurations retrieves video durations for a batch of IDs.
func (c *Client) GetDurations(ctx context.Context, itemIDs []string) (map[string]int64, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	if len(itemIDs) > catalog.MaxPageSize {
		return nil, errors.Newf("too many ids in one batch: %d (max %d)", len(itemIDs), catalog.MaxPageSize)
	}

	resp, err := c.service.Videos.List([]string{"contentDetails"}).
		Id(itemIDs...).
		Context(ctx).
		Do()
	if err != nil {
		return nil, errors.Wrap(classify(err), "failed to get video details")
	}

	durations := make(map[string]int64, len(resp.Items))
	for _, v := range resp.Items {
		if v.ContentDetails == nil {
			continue
		}
		durations[v.Id] = item.ParseDuration(v.ContentDetails.Duration)
	}
	return durations, nil
}

// ready reports a local misconfiguration before any call is made.
func (c *Client) ready() error {
	if c.service == nil {
		return errors.New("youtube API key is not configured")
	}
	return nil
}

// clampPageSize keeps pageSize within the API limits.
func clampPageSize(pageSize int) int {
	if pageSize <= 0 || pageSize > catalog.MaxPageSize {
		return catalog.MaxPageSize
	}
	return pageSize
}

// classify marks err with the catalog kind matching the upstream reason.
func classify(err error) error {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	return catalog.Mark(err, kindFor(apiErr))
}

// kindFor maps a googleapi error to a catalog kind, preferring the reason
// code over the HTTP status.
func kindFor(apiErr *googleapi.Error) catalog.Kind {
	for _, e := range apiErr.Errors {
		switch e.Reason {
		case "playlistNotFound", "videoNotFound", "notFound":
			return catalog.KindNotFound
		case "forbidden", "playlistForbidden", "playlistItemsNotAccessible", "channelClosed", "channelSuspended":
			return catalog.KindForbidden
		case "keyInvalid", "keyExpired", "accessNotConfigured", "authError", "unauthorized":
			return catalog.KindInvalidCredential
		case "quotaExceeded", "rateLimitExceeded", "userRateLimitExceeded", "dailyLimitExceeded":
			return catalog.KindRateLimited
		}
	}

	switch apiErr.Code {
	case http.StatusNotFound:
		return catalog.KindNotFound
	case http.StatusForbidden:
		return catalog.KindForbidden
	case http.StatusUnauthorized:
		return catalog.KindInvalidCredential
	case http.StatusTooManyRequests:
		return catalog.KindRateLimited
	default:
		return catalog.KindInternal
	}
}
