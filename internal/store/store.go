// Package store persists workspace documents (vault, templates, ratings,
// settings) as JSON behind a small key/value interface.
package store

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Load when the key holds no document.
var ErrNotFound = errors.New("document not found")

// DocumentStore loads and saves JSON documents by key.
type DocumentStore interface {
	Name() string
	Load(ctx context.Context, key string, dst any) error
	Save(ctx context.Context, key string, v any) error
	Delete(ctx context.Context, key string) error
}

const keyPrefix = "promptsmith"

// Document kinds kept per user.
const (
	KindHistory   = "history"
	KindTemplates = "templates"
	KindRatings   = "ratings"
	KindSettings  = "settings"
)

// Key builds the storage key of one user's document.
func Key(userID, kind string) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, userID, kind)
}
