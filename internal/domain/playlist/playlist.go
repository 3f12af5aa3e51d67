// Package playlist provides the Playlist domain entity.
package playlist

import (
	"net/url"
	"regexp"
	"time"

	"github.com/osa030/playtime/internal/domain/item"
)

// idPattern restricts playlist identifiers to URL-safe tokens.
var idPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Metadata holds descriptive playlist information.
// All fields are optional; catalogs fill in what they expose.
type Metadata struct {
	Title        string
	Description  string
	ChannelTitle string     // Owning channel or user display name
	PublishedAt  *time.Time // nil if the catalog does not expose it
}

// Playlist represents a resolved playlist and its items.
type Playlist struct {
	ID       string      // Catalog playlist ID
	Provider string      // Catalog name, e.g. "youtube"
	Metadata *Metadata   // nil if the metadata lookup failed
	Items    []item.Item // Items in catalog order
}

// Stats holds the aggregate figures of a set of items.
type Stats struct {
	Count          int
	TotalSeconds   int64
	AverageSeconds float64
}

// ValidID reports whether id is an acceptable playlist identifier.
func ValidID(id string) bool {
	return idPattern.MatchString(id)
}

// ExtractID returns the playlist identifier carried in the "list" query
// parameter of rawURL. It returns false when the URL cannot be parsed or the
// parameter is missing or malformed.
func ExtractID(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}

	id := u.Query().Get("list")
	if !ValidID(id) {
		return "", false
	}
	return id, true
}

// Stats returns the aggregate figures of the playlist items.
func (p *Playlist) Stats() Stats {
	return Summarize(p.Items)
}

// Summarize reduces items to count, total and average duration.
// The average is 0 for an empty list.
func Summarize(items []item.Item) Stats {
	var total int64
	for _, it := range items {
		total += it.Seconds
	}

	stats := Stats{
		Count:        len(items),
		TotalSeconds: total,
	}
	if stats.Count > 0 {
		stats.AverageSeconds = float64(total) / float64(stats.Count)
	}
	return stats
}
