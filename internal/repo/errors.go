package repo

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an operation references a task or follow-up
// that does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when adding a project or department name that is
// already in the set.
var ErrDuplicate = errors.New("already exists")

// ValidationError rejects an operation whose input is malformed. The state
// is unchanged when one is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
