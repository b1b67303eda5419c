package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// GormCollection stores documents of type T in the table GORM derives for T.
type GormCollection[T any] struct {
	db *gorm.DB
}

func NewGormCollection[T any](db *gorm.DB) *GormCollection[T] {
	return &GormCollection[T]{db: db}
}

func (c *GormCollection[T]) FindOne(ctx context.Context, filter Filter) (*T, error) {
	var doc T
	err := c.db.WithContext(ctx).Where(map[string]interface{}(filter)).First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find one: %w", err)
	}
	return &doc, nil
}

func (c *GormCollection[T]) Insert(ctx context.Context, doc *T) error {
	err := c.db.WithContext(ctx).Create(doc).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("insert: %w", err)
	}
	return nil
}

func (c *GormCollection[T]) Update(ctx context.Context, filter Filter, fields Fields) (int64, error) {
	result := c.db.WithContext(ctx).
		Model(new(T)).
		Where(map[string]interface{}(filter)).
		Updates(map[string]interface{}(fields))
	if result.Error != nil {
		return 0, fmt.Errorf("update: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (c *GormCollection[T]) Delete(ctx context.Context, filter Filter) (int64, error) {
	result := c.db.WithContext(ctx).Where(map[string]interface{}(filter)).Delete(new(T))
	if result.Error != nil {
		return 0, fmt.Errorf("delete: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (c *GormCollection[T]) FindRecent(ctx context.Context, limit int) ([]T, error) {
	var docs []T
	err := c.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&docs).Error
	if err != nil {
		return nil, fmt.Errorf("find recent: %w", err)
	}
	return docs, nil
}
