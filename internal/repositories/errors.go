package repositories

import "errors"

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("record not found")

// StoreError wraps any failure reported by the database: connectivity,
// constraint violations or malformed statements.
type StoreError struct {
	Op  string
	Err error
}

// Error returns the driver message unchanged so it can be surfaced to API clients.
func (e *StoreError) Error() string {
	return e.Err.Error()
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func storeError(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}
