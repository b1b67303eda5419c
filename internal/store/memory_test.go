package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type note struct {
	ID        string `gorm:"primaryKey"`
	Owner     string `gorm:"uniqueIndex"`
	Body      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func TestMemoryCollectionFindOne(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCollection[note]()
	require.NoError(t, c.Insert(ctx, &note{ID: "1", Owner: "ana", Body: "hello"}))

	found, err := c.FindOne(ctx, Filter{"owner": "ana"})
	require.NoError(t, err)
	assert.Equal(t, "hello", found.Body)

	_, err = c.FindOne(ctx, Filter{"owner": "bob"})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = c.FindOne(ctx, Filter{"missing_column": "x"})
	assert.Error(t, err)
}

func TestMemoryCollectionReturnsCopies(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCollection[note]()
	require.NoError(t, c.Insert(ctx, &note{ID: "1", Body: "original"}))

	found, err := c.FindOne(ctx, Filter{"id": "1"})
	require.NoError(t, err)
	found.Body = "mutated"

	again, err := c.FindOne(ctx, Filter{"id": "1"})
	require.NoError(t, err)
	assert.Equal(t, "original", again.Body)
}

func TestMemoryCollectionUnique(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCollection[note]("owner")
	require.NoError(t, c.Insert(ctx, &note{ID: "1", Owner: "ana"}))

	err := c.Insert(ctx, &note{ID: "2", Owner: "ana"})
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.Equal(t, 1, c.Len())
}

func TestMemoryCollectionUpdate(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCollection[note]()
	require.NoError(t, c.Insert(ctx, &note{ID: "1", Body: "before"}))

	n, err := c.Update(ctx, Filter{"id": "1"}, Fields{"body": "after"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	found, err := c.FindOne(ctx, Filter{"id": "1"})
	require.NoError(t, err)
	assert.Equal(t, "after", found.Body)
	assert.False(t, found.UpdatedAt.IsZero())

	n, err = c.Update(ctx, Filter{"id": "nope"}, Fields{"body": "x"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestMemoryCollectionDelete(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCollection[note]()
	require.NoError(t, c.Insert(ctx, &note{ID: "1"}))
	require.NoError(t, c.Insert(ctx, &note{ID: "2"}))

	n, err := c.Delete(ctx, Filter{"id": "1"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = c.Delete(ctx, Filter{"id": "1"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
	assert.Equal(t, 1, c.Len())
}

func TestMemoryCollectionFindRecent(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCollection[note]()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 120; i++ {
		require.NoError(t, c.Insert(ctx, &note{
			ID:        fmt.Sprint(i),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	docs, err := c.FindRecent(ctx, 100)
	require.NoError(t, err)
	require.Len(t, docs, 100)
	assert.Equal(t, "119", docs[0].ID)
	for i := 1; i < len(docs); i++ {
		assert.False(t, docs[i].CreatedAt.After(docs[i-1].CreatedAt))
	}
}
