package models

// Requests accepted by the controller. Each one is validated with the
// `validate` tags before any database work happens.

type AddDepartmentRequest struct {
	Name string `validate:"required,max=30"`
}

type AddRoleRequest struct {
	Title        string  `validate:"required,max=30"`
	Salary       float64 `validate:"gte=0,lte=9999999999.99"`
	DepartmentID uint    `validate:"required"`
}

type AddEmployeeRequest struct {
	FirstName string `validate:"required,max=30"`
	LastName  string `validate:"required,max=30"`
	RoleID    uint   `validate:"required"`
	ManagerID *uint  `validate:"omitempty,gt=0"`
	IsManager bool
}

// UpdateDepartmentNameRequest uses a pointer so that a missing name is
// distinguishable from an empty one; both are rejected.
type UpdateDepartmentNameRequest struct {
	DepartmentID uint    `validate:"required"`
	Name         *string `validate:"required,max=30"`
}

type UpdateRoleTitleRequest struct {
	RoleID uint   `validate:"required"`
	Title  string `validate:"required,max=30"`
}

type UpdateRoleSalaryRequest struct {
	RoleID uint    `validate:"required"`
	Salary float64 `validate:"gte=0,lte=9999999999.99"`
}

type UpdateRoleDepartmentRequest struct {
	RoleID       uint `validate:"required"`
	DepartmentID uint `validate:"required"`
}

type UpdateEmployeeRoleRequest struct {
	EmployeeID uint `validate:"required"`
	RoleID     uint `validate:"required"`
}

// UpdateEmployeeManagerRequest clears the manager when ManagerID is nil.
type UpdateEmployeeManagerRequest struct {
	EmployeeID uint  `validate:"required"`
	ManagerID  *uint `validate:"omitempty,gt=0"`
}

type DeleteDepartmentRequest struct {
	DepartmentID uint `validate:"required"`
}

type DeleteRoleRequest struct {
	RoleID uint `validate:"required"`
}

type DeleteEmployeeRequest struct {
	EmployeeID uint `validate:"required"`
}

// Reassignment moves one dependent row to a new parent: a role to another
// department, an employee to another role, or a report to another manager.
// TargetID may be nil only when reassigning a report (no manager).
type Reassignment struct {
	DependentID uint  `validate:"required"`
	TargetID    *uint `validate:"omitempty,gt=0"`
}

// ReassignAndDeleteRequest applies every reassignment and then deletes the
// target, all in one transaction.
type ReassignAndDeleteRequest struct {
	TargetID      uint           `validate:"required"`
	Reassignments []Reassignment `validate:"dive"`
}
