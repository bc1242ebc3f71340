package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Storage sentinel values. ErrNotFound is an expected outcome of a lookup
// (the record may have been deleted elsewhere) and is never logged as an
// error; ErrStorageUnavailable means the substrate rejected a write, for
// example because its quota is exhausted.
var (
	ErrNotFound           = errors.New("not found")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrStorageCorrupt     = errors.New("stored data corrupt")
)

func NewNotFoundError(entity string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusNotFound,
		err:        fmt.Errorf("%s %w", entity, ErrNotFound),
	}
}

// NewStorageUnavailableError wraps a rejected substrate write. The operation
// is surfaced to the caller and abandoned, never retried.
func NewStorageUnavailableError(operation string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInsufficientStorage,
		err:        ErrStorageUnavailable,
		Details:    fmt.Sprintf("Storage write rejected during %s", operation),
		Cause:      cause,
		Field:      "storage",
	}
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsStorageUnavailable(err error) bool {
	return errors.Is(err, ErrStorageUnavailable)
}

func IsStorageCorrupt(err error) bool {
	return errors.Is(err, ErrStorageCorrupt)
}
