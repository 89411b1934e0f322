package storage

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const (
	avatarPrefix = "avatars/"
	modelPrefix  = "models/"
)

// AvatarKey returns a fresh object key for a user's avatar. Each upload gets
// a new key so cached URLs never point at replaced content.
func AvatarKey(userID uint) string {
	return fmt.Sprintf("%s%d/%s.jpg", avatarPrefix, userID, uuid.NewString())
}

// ModelKey returns the object key for a prediction model artifact.
func ModelKey(name string) string {
	return fmt.Sprintf("%s%s.json", modelPrefix, name)
}

// CacheControl returns the Cache-Control header for an object. Avatar keys
// are never reused, so they may be cached forever; anything else is
// revalidated.
func CacheControl(key string) string {
	if strings.HasPrefix(key, avatarPrefix) {
		return "public, max-age=31536000, immutable"
	}
	return "no-cache"
}
