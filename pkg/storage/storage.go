package storage

import (
	"context"
	"encoding/json"
	"fmt"
)

// Well-known keys. The whole client state lives in a flat key space so it
// can be inspected and swapped wholesale (tests use the in-memory store).
const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
	KeyPreferences  = "notification_preferences"
	KeyDismissed    = "dismissed_alerts"
	KeyRead         = "read_alerts"
	KeyDarkMode     = "darkMode"
)

// Store is the durable key-value port backing tokens, preferences,
// alert dismiss/read markers and email throttle stamps.
type Store interface {
	// Get returns the value for key. The second return is false when the
	// key is absent.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set writes or overwrites the value for key.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources.
	Close() error
}

// GetJSON reads key and unmarshals its value into out. Returns false when
// the key is absent; out is left untouched in that case.
func GetJSON(ctx context.Context, s Store, key string, out any) (bool, error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// SetJSON marshals v and stores it under key.
func SetJSON(ctx context.Context, s Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Set(ctx, key, string(raw))
}
