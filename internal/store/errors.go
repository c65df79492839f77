package store

import "fmt"

type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

type DuplicateIDError struct {
	Kind string
	ID   string
}

func (e DuplicateIDError) Error() string {
	return fmt.Sprintf("%s id already exists: %s", e.Kind, e.ID)
}

type InvalidEntryError struct {
	Reason string
}

func (e InvalidEntryError) Error() string {
	return "invalid calendar entry: " + e.Reason
}

// StorageError wraps a persistence-layer failure. The engine never
// inspects the underlying cause beyond Unwrap.
type StorageError struct {
	Op  string
	Err error
}

func (e StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e StorageError) Unwrap() error { return e.Err }
