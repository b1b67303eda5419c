package store

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm/schema"
)

// MemoryCollection keeps documents in process memory. Column names are
// resolved through the same GORM schema the Postgres collection uses, so
// filters written for one work unchanged against the other.
type MemoryCollection[T any] struct {
	mu     sync.RWMutex
	docs   []T
	schema *schema.Schema
	unique []string
}

// NewMemoryCollection panics when T is not a valid GORM model; that is a
// programming error caught at startup.
func NewMemoryCollection[T any](uniqueColumns ...string) *MemoryCollection[T] {
	s, err := schema.Parse(new(T), &sync.Map{}, schema.NamingStrategy{})
	if err != nil {
		panic(fmt.Sprintf("store: cannot parse model schema: %v", err))
	}
	for _, col := range uniqueColumns {
		if _, ok := s.FieldsByDBName[col]; !ok {
			panic(fmt.Sprintf("store: unknown unique column %q on %s", col, s.Name))
		}
	}
	return &MemoryCollection[T]{schema: s, unique: uniqueColumns}
}

func (c *MemoryCollection[T]) FindOne(ctx context.Context, filter Filter) (*T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for i := range c.docs {
		ok, err := c.matches(ctx, &c.docs[i], filter)
		if err != nil {
			return nil, err
		}
		if ok {
			doc := c.docs[i]
			return &doc, nil
		}
	}
	return nil, ErrNotFound
}

func (c *MemoryCollection[T]) Insert(ctx context.Context, doc *T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, col := range c.unique {
		v, _ := c.schema.FieldsByDBName[col].ValueOf(ctx, reflect.ValueOf(doc))
		for i := range c.docs {
			existing, _ := c.schema.FieldsByDBName[col].ValueOf(ctx, reflect.ValueOf(&c.docs[i]))
			if reflect.DeepEqual(existing, v) {
				return ErrDuplicate
			}
		}
	}
	c.docs = append(c.docs, *doc)
	return nil
}

func (c *MemoryCollection[T]) Update(ctx context.Context, filter Filter, fields Fields) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var n int64
	for i := range c.docs {
		ok, err := c.matches(ctx, &c.docs[i], filter)
		if err != nil {
			return 0, err
		}
		if !ok {
			continue
		}
		rv := reflect.ValueOf(&c.docs[i])
		for col, value := range fields {
			field, found := c.schema.FieldsByDBName[col]
			if !found {
				return n, fmt.Errorf("update: unknown column %q", col)
			}
			if err := field.Set(ctx, rv, value); err != nil {
				return n, fmt.Errorf("update %s: %w", col, err)
			}
		}
		if field, found := c.schema.FieldsByDBName["updated_at"]; found {
			_ = field.Set(ctx, rv, time.Now().UTC())
		}
		n++
	}
	return n, nil
}

func (c *MemoryCollection[T]) Delete(ctx context.Context, filter Filter) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.docs[:0]
	var n int64
	for i := range c.docs {
		ok, err := c.matches(ctx, &c.docs[i], filter)
		if err != nil {
			return 0, err
		}
		if ok {
			n++
			continue
		}
		kept = append(kept, c.docs[i])
	}
	c.docs = kept
	return n, nil
}

func (c *MemoryCollection[T]) FindRecent(ctx context.Context, limit int) ([]T, error) {
	c.mu.RLock()
	docs := make([]T, len(c.docs))
	copy(docs, c.docs)
	c.mu.RUnlock()

	// Reverse first so documents sharing a timestamp come out newest-inserted
	// first after the stable sort.
	for i, j := 0, len(docs)-1; i < j; i, j = i+1, j-1 {
		docs[i], docs[j] = docs[j], docs[i]
	}
	if field, ok := c.schema.FieldsByDBName["created_at"]; ok {
		sort.SliceStable(docs, func(i, j int) bool {
			a, _ := field.ValueOf(ctx, reflect.ValueOf(&docs[i]))
			b, _ := field.ValueOf(ctx, reflect.ValueOf(&docs[j]))
			ta, _ := a.(time.Time)
			tb, _ := b.(time.Time)
			return ta.After(tb)
		})
	}
	if limit > 0 && len(docs) > limit {
		docs = docs[:limit]
	}
	return docs, nil
}

// Len returns the number of stored documents.
func (c *MemoryCollection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.docs)
}

func (c *MemoryCollection[T]) matches(ctx context.Context, doc *T, filter Filter) (bool, error) {
	rv := reflect.ValueOf(doc)
	for col, want := range filter {
		field, ok := c.schema.FieldsByDBName[col]
		if !ok {
			return false, fmt.Errorf("filter: unknown column %q", col)
		}
		got, _ := field.ValueOf(ctx, rv)
		if !reflect.DeepEqual(got, want) {
			return false, nil
		}
	}
	return true, nil
}
