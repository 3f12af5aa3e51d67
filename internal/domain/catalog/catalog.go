// Package catalog defines the contract with third-party media catalogs.
package catalog

import (
	"context"

	"github.com/osa030/playtime/internal/domain/playlist"
)

// MaxPageSize is the largest page or batch a catalog call accepts.
const MaxPageSize = 50

// Page is one page of playlist membership.
type Page struct {
	ItemIDs       []string
	NextPageToken string // empty on the last page
}

// Catalog is a media catalog that can resolve playlists.
type Catalog interface {
	// Name returns the catalog name (used in config and responses).
	Name() string
	// ExtractID returns the playlist ID carried by rawURL, if this catalog
	// recognizes it.
	ExtractID(rawURL string) (string, bool)
	// GetPlaylist retrieves descriptive playlist metadata.
	GetPlaylist(ctx context.Context, playlistID string) (*playlist.Metadata, error)
	// ListItems retrieves one page of item IDs. An empty pageToken
	// requests the first page.
	ListItems(ctx context.Context, playlistID, pageToken string, pageSize int) (*Page, error)
	// GetDurations retrieves item durations in seconds for up to
	// MaxPageSize IDs. Items the catalog does not return are omitted.
	GetDurations(ctx context.Context, itemIDs []string) (map[string]int64, error)
}
