package service

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownItem = errors.New("unknown item")
	ErrNoSession   = errors.New("no session open")
)

// PersistError reports that a mutation was applied in memory but could not
// be written to storage. Callers may keep using the session.
type PersistError struct {
	Op  string
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persisting %s: %v", e.Op, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

// IsPersistError reports whether err only signals a storage failure.
func IsPersistError(err error) bool {
	var pe *PersistError
	return errors.As(err, &pe)
}
