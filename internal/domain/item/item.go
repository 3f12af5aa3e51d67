// Package item provides the Item domain entity.
package item

import "time"

// Item represents a single media entry of a playlist.
// Contains only information retrieved from the catalog API.
type Item struct {
	ID      string // Catalog item ID
	Seconds int64  // Duration in whole seconds (0 if unknown)
}

// Duration returns the item duration.
func (i Item) Duration() time.Duration {
	return time.Duration(i.Seconds) * time.Second
}

// HasDuration reports whether the catalog returned a usable duration.
func (i Item) HasDuration() bool {
	return i.Seconds > 0
}
