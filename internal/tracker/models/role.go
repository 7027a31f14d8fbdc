package models

// Role is a job title with a salary, belonging to exactly one department.
type Role struct {
	// ID is the surrogate key of the role.
	ID uint
	// Title is the job title.
	Title string
	// Salary is the stored, non-negative amount. Currency formatting is
	// applied only when rendering.
	Salary float64
	// DepartmentID references the owning department.
	DepartmentID uint
}

// RoleView is a role joined with the name of its department.
type RoleView struct {
	ID             uint
	Title          string
	Salary         float64
	DepartmentID   uint
	DepartmentName string
}

// RoleRef identifies a role that blocks the deletion of its department.
type RoleRef struct {
	ID    uint
	Title string
}
