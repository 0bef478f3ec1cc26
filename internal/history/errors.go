package history

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an id is absent, for example after a sweep.
var ErrNotFound = errors.New("history: entry not found")

// StoreError wraps storage I/O failures.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("history %s failed: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func wrapStoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}

// IsIOError reports whether err is a storage failure worth retrying later.
func IsIOError(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}
