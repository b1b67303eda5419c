package apps

import (
	"context"
	"errors"
	"fmt"

	"github.com/solucionalbania/club-api/internal/services"
	"github.com/solucionalbania/club-api/internal/store"
)

// ListLimit caps every listing.
const ListLimit = 100

// Records is the list/get/delete surface shared by the content modules.
// Documents are addressed by their "id" column.
type Records[T any] struct {
	coll store.Collection[T]
}

func NewRecords[T any](coll store.Collection[T]) *Records[T] {
	return &Records[T]{coll: coll}
}

// List returns at most ListLimit documents, newest first.
func (r *Records[T]) List(ctx context.Context) ([]T, error) {
	docs, err := r.coll.FindRecent(ctx, ListLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	if docs == nil {
		docs = []T{}
	}
	return docs, nil
}

func (r *Records[T]) Insert(ctx context.Context, doc *T) error {
	if err := r.coll.Insert(ctx, doc); err != nil {
		return fmt.Errorf("failed to create record: %w", err)
	}
	return nil
}

func (r *Records[T]) Get(ctx context.Context, id string) (*T, error) {
	doc, err := r.coll.FindOne(ctx, store.Filter{"id": id})
	if errors.Is(err, store.ErrNotFound) {
		return nil, services.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get record: %w", err)
	}
	return doc, nil
}

func (r *Records[T]) Delete(ctx context.Context, id string) error {
	n, err := r.coll.Delete(ctx, store.Filter{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	if n == 0 {
		return services.ErrRecordNotFound
	}
	return nil
}
