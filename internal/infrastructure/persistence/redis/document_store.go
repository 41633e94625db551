package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/classroll/attendance-tracker/internal/domain/shared"
)

// DocumentStore implements shared.DocumentStore on top of Cache.
type DocumentStore struct {
	cache *Cache
}

// NewDocumentStore creates a new DocumentStore.
func NewDocumentStore(cache *Cache) *DocumentStore {
	return &DocumentStore{cache: cache}
}

// Load decodes the named document into dst. A missing key leaves dst untouched.
func (s *DocumentStore) Load(ctx context.Context, name string, dst any) error {
	key := s.cache.DocumentKey(name)

	err := s.cache.Get(ctx, key, dst)
	switch {
	case err == nil, errors.Is(err, ErrCacheMiss):
		return nil
	case errors.Is(err, ErrCacheSerialization):
		return shared.WrapError("storage", "Load", shared.ErrCorruptDocument, key, err)
	default:
		return shared.WrapError("storage", "Load", shared.ErrStorage,
			fmt.Sprintf("cannot read %s", key), err)
	}
}

// Save replaces the named document. Documents never expire.
func (s *DocumentStore) Save(ctx context.Context, name string, src any) error {
	key := s.cache.DocumentKey(name)

	if err := s.cache.Set(ctx, key, src, 0); err != nil {
		return shared.WrapError("storage", "Save", shared.ErrWriteFailed, key, err)
	}
	return nil
}
