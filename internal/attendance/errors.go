package attendance

import (
	"errors"
	"fmt"
)

// Expected outcomes are sentinel errors so callers can branch on them with
// errors.Is; unexpected persistence faults are wrapped in StorageError.
var (
	ErrInvalidIdentifier   = errors.New("identifier must be exactly 11 digits")
	ErrDuplicateIdentifier = errors.New("identifier already enrolled")
	ErrDuplicateFace       = errors.New("face already enrolled under another identifier")
	ErrNotFound            = errors.New("worker not found")
	ErrFaceNotRecognized   = errors.New("face not recognized")
)

// StorageError wraps a fault from the persistence layer. The in-flight
// operation has been fully rolled back by the time it is returned.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorageError wraps err as a storage failure for the given operation.
func NewStorageError(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}

// IsStorageError reports whether err is (or wraps) a StorageError.
func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
