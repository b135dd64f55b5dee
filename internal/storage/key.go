// Package storage provides RecordStore implementations that persist a
// whole UserRecord per user key: a JSON file per user, a Redis string
// value, or one row in Postgres. Every backend writes the record
// wholesale on each save; last writer wins.
package storage

import (
	"net/url"
	"strings"
)

// DefaultUserKey is the shared partition used when no name is given.
const DefaultUserKey = "default"

// UserKey normalizes a free-text display name into a storage key:
// trimmed, lowercased and URL-escaped. An empty name selects the
// shared default partition.
func UserKey(displayName string) string {
	name := strings.TrimSpace(displayName)
	if name == "" {
		return DefaultUserKey
	}
	return url.QueryEscape(strings.ToLower(name))
}
