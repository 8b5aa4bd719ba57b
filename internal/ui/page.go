package ui

import "github.com/MrSnakeDoc/shelf/internal/domain"

// Notice is a blocking message shown above the page.
type Notice int

const (
	NoticeNone Notice = iota
	NoticeSelectUser
)

// Option is one entry of the user selector. The placeholder has an empty ID.
type Option struct {
	ID          string
	Placeholder bool
	Selected    bool
}

// Page is everything a view needs to draw the bookmarks page.
type Page struct {
	Options     []Option
	CurrentUser string

	// Bookmarks is newest first. Empty is set when a user is selected and has none.
	Bookmarks []domain.Bookmark
	Empty     bool

	Notice Notice
	Form   Form
}

// HasSelection reports whether a user is selected.
func (p Page) HasSelection() bool {
	return p.CurrentUser != ""
}
