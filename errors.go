package immstore

import (
	"errors"
	"fmt"
)

// ErrInvalidTemplate is the sentinel wrapped by TypeError.
var ErrInvalidTemplate = errors.New("immstore: invalid state template")

// ErrNotInitialized indicates a Store that was not built with New.
var ErrNotInitialized = errors.New("immstore: store not initialized")

// TypeError reports a configuration value that is not a record template.
type TypeError struct {
	Field string
	Value any
	Store string
}

func (e *TypeError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf(
		"immstore: expected Config.%s to be a record template, but instead got %v. Check the constructor of %s.",
		e.Field, e.Value, e.Store,
	)
}

// Unwrap lets errors.Is match ErrInvalidTemplate.
func (e *TypeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return ErrInvalidTemplate
}

func wrapStoreError(op, store string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("immstore: %s %s: %w", op, store, err)
}
