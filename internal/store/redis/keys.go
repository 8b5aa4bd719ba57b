package redis

const (
	// KeyPrefixBookmarks is the prefix for per-user bookmark list keys
	KeyPrefixBookmarks = "shelf:bookmarks:"
)

// BookmarksKey returns the Redis key holding a user's bookmark list
func BookmarksKey(userID string) string {
	return KeyPrefixBookmarks + userID
}
