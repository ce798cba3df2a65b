package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Store is a typed JSON view of a single key in a Backend. The value's shape is
// opaque to it.
type Store[T any] struct {
	backend Backend
	key     string
}

func New[T any](backend Backend, key string) *Store[T] {
	return &Store[T]{backend: backend, key: key}
}

func (s *Store[T]) Key() string {
	return s.key
}

// Get returns the saved value. ok is false when nothing was saved or the stored
// bytes do not decode as T; err is set only when the backend itself fails.
func (s *Store[T]) Get(ctx context.Context) (value T, ok bool, err error) {
	data, err := s.backend.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return value, false, nil
		}
		return value, false, fmt.Errorf("load %s: %w", s.key, err)
	}
	if len(data) == 0 {
		return value, false, nil
	}

	var decoded T
	if err := json.Unmarshal(data, &decoded); err != nil {
		return value, false, nil
	}
	return decoded, true, nil
}

// Save replaces whatever is stored under the key.
func (s *Store[T]) Save(ctx context.Context, value T) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", s.key, err)
	}
	if err := s.backend.Set(ctx, s.key, payload); err != nil {
		return fmt.Errorf("save %s: %w", s.key, err)
	}
	return nil
}

func (s *Store[T]) Clear(ctx context.Context) error {
	if err := s.backend.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("clear %s: %w", s.key, err)
	}
	return nil
}
