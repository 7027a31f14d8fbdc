// Package models defines the core domain records of the employee tracker:
// departments, roles and employees, the joined views the console lists,
// budget aggregates, typed requests and delete outcomes.
package models

// Department is the top-level organizational grouping that owns roles.
type Department struct {
	// ID is the surrogate key of the department.
	ID uint
	// Name is the department's name, unique across departments.
	Name string
}
