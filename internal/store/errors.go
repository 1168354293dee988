package store

import "fmt"

// ValidationError reports malformed input to a mutating call. It is always
// surfaced synchronously; input is never silently corrected.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError reports an operation against a task id no longer present in
// the snapshot, typically after a concurrent deletion. Callers recover by
// re-reading the snapshot.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("task %s not found", e.ID)
}

// PersistenceError wraps a failure from the persistence adapter. The store
// does not retry; the in-memory snapshot keeps its previous state and the
// caller decides what to do next.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
