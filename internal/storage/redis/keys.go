package redis

import (
	"fmt"

	"github.com/casuskim/casus/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "casus"

// categoryIndexKey returns the Redis key for the ordered LIST of category names
func categoryIndexKey() string {
	return fmt.Sprintf("%s:idx:categories", keyPrefix)
}

// categoryKey returns the Redis key for the LIST of words in a category
func categoryKey(name string) string {
	return fmt.Sprintf("%s:category:%s", keyPrefix, name)
}

// historyKey returns the Redis key for the LIST of game summaries of a room, newest first
func historyKey(code model.RoomCode) string {
	return fmt.Sprintf("%s:history:%s", keyPrefix, code)
}
