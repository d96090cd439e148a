package redis_utils

import (
	"fmt"
	"strings"
)

// FormatRAWGSearchKey builds the cache key for a RAWG search query.
// Key format: "rawg:search:{query}:{limit}"
func FormatRAWGSearchKey(query string, limit int) string {
	normalized := strings.ToLower(strings.TrimSpace(query))
	return fmt.Sprintf("rawg:search:%s:%d", normalized, limit)
}

// FormatRAWGGameKey builds the cache key for a single RAWG game.
// Key format: "rawg:game:{id}"
func FormatRAWGGameKey(rawgID int) string {
	return fmt.Sprintf("rawg:game:%d", rawgID)
}
