// Package store provides the collection-oriented persistence used by every
// service: point lookups by equality filter, single inserts, partial
// updates, deletes and newest-first listings.
package store

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("record not found")

// Filter is an equality filter keyed by column name.
type Filter map[string]interface{}

// Fields is a partial update keyed by column name.
type Fields map[string]interface{}

// Collection is a set of documents of one kind.
//
// Update and Delete return the number of affected documents so callers can
// translate zero into their own not-found error.
type Collection[T any] interface {
	FindOne(ctx context.Context, filter Filter) (*T, error)
	Insert(ctx context.Context, doc *T) error
	Update(ctx context.Context, filter Filter, fields Fields) (int64, error)
	Delete(ctx context.Context, filter Filter) (int64, error)
	FindRecent(ctx context.Context, limit int) ([]T, error)
}

// ErrDuplicate is returned by Insert when a unique constraint rejects the
// document.
var ErrDuplicate = errors.New("duplicate record")
