package store

import "gorm.io/gorm"

// Backend decides where new collections live: in the Postgres database when
// one is attached, otherwise in process memory.
type Backend struct {
	db *gorm.DB
}

func NewGormBackend(db *gorm.DB) Backend {
	return Backend{db: db}
}

func NewMemoryBackend() Backend {
	return Backend{}
}

// DB returns the attached database, or nil for the memory backend.
func (b Backend) DB() *gorm.DB {
	return b.db
}

// CollectionFor opens the collection of T on b. Unique columns are enforced
// by the memory backend; on Postgres they come from the model's indexes.
func CollectionFor[T any](b Backend, uniqueColumns ...string) Collection[T] {
	if b.db != nil {
		return NewGormCollection[T](b.db)
	}
	return NewMemoryCollection[T](uniqueColumns...)
}
