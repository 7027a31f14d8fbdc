package models

import (
	"fmt"

	e "github.com/gartstein/employee-tracker/internal/tracker/errors"
)

// DeleteStatus is the outcome of a delete that did not fail.
type DeleteStatus int

const (
	// DeleteDone means the row was removed.
	DeleteDone DeleteStatus = iota
	// DeleteBlocked means dependent rows still reference the target; nothing was removed.
	DeleteBlocked
)

func (s DeleteStatus) String() string {
	switch s {
	case DeleteDone:
		return "done"
	case DeleteBlocked:
		return "blocked"
	default:
		return fmt.Sprintf("DeleteStatus(%d)", int(s))
	}
}

// DeleteResult carries the outcome of a delete. When Status is DeleteBlocked,
// Roles (for a department) or Employees (for a role or a manager) list the
// dependents in id order.
type DeleteResult struct {
	Status    DeleteStatus
	Roles     []RoleRef
	Employees []EmployeeRef
}

// Blocked reports whether dependents prevented the delete.
func (r DeleteResult) Blocked() bool {
	return r.Status == DeleteBlocked
}

// Dependents returns the number of rows that block the delete.
func (r DeleteResult) Dependents() int {
	return len(r.Roles) + len(r.Employees)
}

// Err returns nil for a completed delete and an ErrHasDependents error otherwise.
func (r DeleteResult) Err() error {
	if r.Status != DeleteBlocked {
		return nil
	}
	if len(r.Roles) > 0 {
		return fmt.Errorf("%w: %d roles are still associated with the department", e.ErrHasDependents, len(r.Roles))
	}
	return fmt.Errorf("%w: %d employees still reference it", e.ErrHasDependents, len(r.Employees))
}
