package common

import "fmt"

// StorageError reports a persistence failure during a directory command.
// It matches ErrStorage with errors.Is and unwraps to the driver error.
type StorageError struct {
	Op  string
	Err error
}

// NewStorageError wraps err for the named operation.
func NewStorageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}
