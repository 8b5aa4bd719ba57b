package domain

import "slices"

// SortByRecency returns a copy of bookmarks ordered newest first.
// The input slice is never reordered; bookmarks sharing a timestamp keep their stored order.
func SortByRecency(bookmarks []Bookmark) []Bookmark {
	sorted := slices.Clone(bookmarks)
	slices.SortStableFunc(sorted, func(a, b Bookmark) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return sorted
}

// Append returns a new list with bookmark added after the existing entries.
func Append(bookmarks []Bookmark, bookmark Bookmark) []Bookmark {
	out := make([]Bookmark, 0, len(bookmarks)+1)
	out = append(out, bookmarks...)
	return append(out, bookmark)
}
