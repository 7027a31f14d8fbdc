package errors

import (
	"fmt"
)

var (
	ErrNotFound      = fmt.Errorf("not found")
	ErrDuplicateName = fmt.Errorf("duplicate name")
	ErrInvalidInput  = fmt.Errorf("invalid input")
	// ErrHasDependents reports a delete refused because other rows still reference the target.
	ErrHasDependents = fmt.Errorf("has dependent rows")
	// ErrCancelled reports that the operator aborted a prompt.
	ErrCancelled     = fmt.Errorf("cancelled")
)
