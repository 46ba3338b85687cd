package storage

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a key is absent from a collection.
var ErrNotFound = errors.New("record not found")

// ErrUnknownIndex is returned for an index name the collection does not define.
var ErrUnknownIndex = errors.New("unknown index")

// StorageError reports a failed durable-storage operation.
type StorageError struct {
	Op         string
	Collection string
	Key        string
	Err        error
}

func (e *StorageError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("storage %s %s/%s: %v", e.Op, e.Collection, e.Key, e.Err)
	}
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Collection, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Wrap returns err as a *StorageError, passing nil, ErrNotFound and existing
// StorageErrors through untouched.
func Wrap(op, collection, key string, err error) error {
	if err == nil || errors.Is(err, ErrNotFound) {
		return err
	}
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	return &StorageError{Op: op, Collection: collection, Key: key, Err: err}
}

// IsStorageError reports whether err is or wraps a *StorageError.
func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
