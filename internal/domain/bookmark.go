package domain

import (
	"strings"
	"time"
)

// Bookmark represents a saved link owned by a user.
//
// A Bookmark has no identity of its own: it only exists inside the
// list stored for its owner, and is appended but never edited in place.
type Bookmark struct {
	// URL is the link target.
	// Example: https://example.com
	URL string `json:"url"`

	// Title is shown as the link text.
	Title string `json:"title"`

	// Description is rendered next to the title.
	Description string `json:"description"`

	// CreatedAt is the creation instant, serialized as RFC 3339.
	CreatedAt time.Time `json:"createdAt"`
}

// NewBookmark builds a bookmark from raw field values.
// Fields are trimmed and the timestamp is normalized to UTC with millisecond precision.
func NewBookmark(url, title, description string, now time.Time) Bookmark {
	return Bookmark{
		URL:         strings.TrimSpace(url),
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		CreatedAt:   now.UTC().Truncate(time.Millisecond),
	}
}
