package securestore

import (
	"context"
	"errors"
)

// ErrCorrupted is returned when a stored value cannot be decrypted.
var ErrCorrupted = errors.New("secure store: corrupted value")

// Writer is the mutating half of Store, also handed to Batch callbacks.
type Writer interface {
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Store is a key-value store backed by encrypted storage.
type Store interface {
	Writer
	Get(ctx context.Context, key string) ([]byte, error)
	// Batch applies all writes made through w atomically.
	Batch(ctx context.Context, fn func(ctx context.Context, w Writer) error) error
}

var (
	boolTrue  = []byte{1}
	boolFalse = []byte{0}
)

// GetBool reads a flag. Absent keys read as false.
func GetBool(ctx context.Context, s Store, key string) (bool, error) {
	v, err := s.Get(ctx, key)
	if err != nil {
		return false, err
	}
	return len(v) == 1 && v[0] == 1, nil
}

// SetBool writes a flag.
func SetBool(ctx context.Context, w Writer, key string, value bool) error {
	if value {
		return w.Set(ctx, key, boolTrue)
	}
	return w.Set(ctx, key, boolFalse)
}
