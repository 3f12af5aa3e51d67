// Package spotify provides a catalog client for the Spotify API.
package spotify

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/osa030/playtime/internal/domain/catalog"
	"github.com/osa030/playtime/internal/domain/playlist"
)

// Name is the catalog name used in config and responses.
const Name = "spotify"

// Client is a Spotify API client.
type Client struct {
	client *spotify.Client
	market string
}

// Config represents Spotify client configuration.
type Config struct {
	ClientID     string
	ClientSecret string
	Market       string
}

// Ensure Client implements the catalog contract.
var _ catalog.Catalog = (*Client)(nil)

// New creates a new Spotify client using the client-credentials flow.
// Only public playlists are reachable with these credentials.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, errors.New("spotify credentials are required")
	}

	cc := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     spotifyauth.TokenURL,
	}

	// HTTP client with auto-refreshing app token
	httpClient := cc.Client(ctx)
	return newClient(spotify.New(httpClient), cfg.Market), nil
}

func newClient(client *spotify.Client, market string) *Client {
	return &Client{
		client: client,
		market: market,
	}
}

// Name returns the catalog name.
func (c *Client) Name() string {
	return Name
}

// ExtractID extracts the playlist ID from a Spotify playlist URL or URI.
func (c *Client) ExtractID(rawURL string) (string, bool) {
	id := extractPlaylistID(rawURL)
	if !playlist.ValidID(id) {
		return "", false
	}
	return id, true
}

// GetPlaylist retrieves playlist name, description and owner.
func (c *Client) GetPlaylist(ctx context.Context, playlistID string) (*playlist.Metadata, error) {
	p, err := c.client.GetPlaylist(ctx, spotify.ID(playlistID), spotify.Market(c.market))
	if err != nil {
		return nil, errors.Wrap(classify(err), "failed to get playlist")
	}

	return &playlist.Metadata{
		Title:        p.Name,
		Description:  p.Description,
		ChannelTitle: p.Owner.DisplayName,
	}, nil
}

// ListItems retrieves one page of playlist track IDs.
// The page token is the offset of the next page.
func (c *Client) ListItems(ctx context.Context, playlistID, pageToken string, pageSize int) (*catalog.Page, error) {
	offset := 0
	if pageToken != "" {
		o, err := strconv.Atoi(pageToken)
		if err != nil || o < 0 {
			return nil, errors.Newf("invalid page token: %q", pageToken)
		}
		offset = o
	}
	if pageSize <= 0 || pageSize > catalog.MaxPageSize {
		pageSize = catalog.MaxPageSize
	}

	page, err := c.client.GetPlaylistItems(ctx, spotify.ID(playlistID),
		spotify.Limit(pageSize),
		spotify.Offset(offset),
		spotify.Market(c.market),
	)
	if err != nil {
		return nil, errors.Wrap(classify(err), "failed to get playlist items")
	}

	result := &catalog.Page{
		ItemIDs: make([]string, 0, len(page.Items)),
	}
	for _, it := range page.Items {
		// Only tracks carry a duration lookup (episodes and local files are skipped)
		if it.Track.Track != nil && it.Track.Track.ID != "" {
			result.ItemIDs = append(result.ItemIDs, string(it.Track.Track.ID))
		}
	}
	if page.Next != "" && len(page.Items) > 0 {
		result.NextPageToken = strconv.Itoa(offset + len(page.Items))
	}
	return result, nil
}

// GetDurations retrieves track durations for a batch of IDs.
func (c *Client) GetDurations(ctx context.Context, itemIDs []string) (map[string]int64, error) {
	if len(itemIDs) > catalog.MaxPageSize {
		return nil, errors.Newf("too many ids in one batch: %d (max %d)", len(itemIDs), catalog.MaxPageSize)
	}

	ids := make([]spotify.ID, len(itemIDs))
	for i, id := range itemIDs {
		ids[i] = spotify.ID(id)
	}

	tracks, err := c.client.GetTracks(ctx, ids, spotify.Market(c.market))
	if err != nil {
		return nil, errors.Wrap(classify(err), "failed to get tracks")
	}

	durations := make(map[string]int64, len(tracks))
	for _, t := range tracks {
		// Unknown IDs come back as null entries
		if t == nil {
			continue
		}
		durations[string(t.ID)] = int64(t.Duration) / 1000
	}
	return durations, nil
}

// classify marks err with the catalog kind matching the HTTP status.
func classify(err error) error {
	status := 0
	var apiErr spotify.Error
	var apiErrPtr *spotify.Error
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.Status
	case errors.As(err, &apiErrPtr):
		status = apiErrPtr.Status
	default:
		return err
	}
	return catalog.Mark(err, kindForStatus(status))
}

// kindForStatus maps a Spotify HTTP status to a catalog kind.
func kindForStatus(status int) catalog.Kind {
	switch status {
	case http.StatusBadRequest, http.StatusNotFound:
		// Malformed IDs are reported as 400 by the playlist endpoints
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

// extractPlaylistID extracts the playlist ID from a Spotify playlist URL or URI.
// It returns an empty string for anything else.
func extractPlaylistID(input string) string {
	input = strings.TrimSpace(input)
	// Handle Spotify URI format: spotify:playlist:PLAYLIST_ID
	if strings.HasPrefix(input, "spotify:playlist:") {
		return strings.TrimPrefix(input, "spotify:playlist:")
	}

	// Handle URL format: https://open.spotify.com/playlist/PLAYLIST_ID or https://open.spotify.com/intl-XX/playlist/PLAYLIST_ID
	if strings.Contains(input, "open.spotify.com") && strings.Contains(input, "/playlist/") {
		parts := strings.Split(input, "/playlist/")
		if len(parts) >= 2 {
			// Remove query parameters and trailing slashes
			id := strings.Split(parts[len(parts)-1], "?")[0]
			id = strings.TrimRight(id, "/")
			return id
		}
	}

	return ""
}
