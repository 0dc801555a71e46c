package grid

import (
	"image"
	"strings"
)

// Content identifiers are opaque strings: either a named icon resolved
// against the current theme, or a local file path rendered as a thumbnail.
// The grid itself never interprets them beyond that split; metadata and
// pixels come from the providers.

// Config controls the geometry of the grid. It is treated as immutable per
// layout pass; changing any field through the Grid setters invalidates the
// cached layout.
type Config struct {
	ItemSize    float32 // thumbnail edge length
	ItemPadding float32 // fixed chrome around the thumbnail (label strip etc.)
	MinItemSize float32
	MaxItemSize float32

	MinSpacing    float32 // inter-item gap bounds
	MaxSpacing    float32
	ContentMargin float32 // border around the whole grid

	// BufferRows are realized above and below the viewport to absorb
	// partial-row flicker while scrolling. Minimum 1.
	BufferRows int
}

const (
	defaultItemSize    = 64
	defaultItemPadding = 24
	defaultMinItemSize = 32
	defaultMaxItemSize = 256
)

// DefaultConfig returns the geometry used by the example browser.
func DefaultConfig() Config {
	return Config{
		ItemSize:      defaultItemSize,
		ItemPadding:   defaultItemPadding,
		MinItemSize:   defaultMinItemSize,
		MaxItemSize:   defaultMaxItemSize,
		MinSpacing:    4,
		MaxSpacing:    32,
		ContentMargin: 8,
		BufferRows:    1,
	}
}

func (c Config) normalized() Config {
	if c.MinItemSize <= 0 {
		c.MinItemSize = defaultMinItemSize
	}
	if c.MaxItemSize < c.MinItemSize {
		c.MaxItemSize = c.MinItemSize
	}
	if c.ItemSize < c.MinItemSize {
		c.ItemSize = c.MinItemSize
	}
	if c.ItemSize > c.MaxItemSize {
		c.ItemSize = c.MaxItemSize
	}
	if c.MinSpacing < 0 {
		c.MinSpacing = 0
	}
	if c.MaxSpacing < c.MinSpacing {
		c.MaxSpacing = c.MinSpacing
	}
	if c.ContentMargin < 0 {
		c.ContentMargin = 0
	}
	if c.BufferRows < 1 {
		c.BufferRows = 1
	}
	return c
}

// ThumbnailProvider produces bitmaps for content identifiers. When the bitmap
// is already available the call returns it directly and done is never
// invoked. Otherwise the provider returns nil and, once the bitmap exists,
// delivers it through done on the UI thread. Identifiers the provider cannot
// serve return nil with no completion; the caller keeps its placeholder.
// Requesting the same identifier repeatedly must be cheap.
type ThumbnailProvider interface {
	RequestThumbnail(id string, size int, done func(id string, size int, img image.Image)) image.Image
}

// MetadataProvider supplies hover/tooltip text. Optional: a nil provider
// degrades to showing the raw identifier.
type MetadataProvider interface {
	DisplayName(id string) string
	Tags(id string) []string
}

// FavoriteProvider reports favorite state and notifies about changes. The
// returned function removes the listener. Notifications arrive on the UI
// thread.
type FavoriteProvider interface {
	IsFavorite(id string) bool
	OnChange(fn func(id string, favorite bool)) (remove func())
}

// ContentSource supplies the ordered identifier sequence. The grid consumes
// it as a snapshot through SetContent, never as a live collection.
type ContentSource interface {
	List() ([]string, error)
}

// pathLike splits the identifier space: anything with a path separator is a
// file on disk, everything else is a named theme icon.
func pathLike(id string) bool {
	return strings.ContainsAny(id, "/\\")
}
