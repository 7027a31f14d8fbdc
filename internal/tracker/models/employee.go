package models

// Employee is a person holding one role, optionally managed by another employee.
type Employee struct {
	// ID is the surrogate key of the employee.
	ID uint
	// FirstName is the employee's given name.
	FirstName string
	// LastName is the employee's family name.
	LastName string
	// RoleID references the role the employee holds.
	RoleID uint
	// ManagerID references the employee's manager, nil when unmanaged.
	ManagerID *uint
	// IsManager marks employees that may have direct reports.
	IsManager bool
}

// FullName joins first and last name.
func (e Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

// EmployeeView is an employee joined with role, department and manager names.
type EmployeeView struct {
	ID             uint
	FirstName      string
	LastName       string
	RoleID         uint
	RoleTitle      string
	Salary         float64
	DepartmentID   uint
	DepartmentName string
	ManagerID      *uint
	ManagerName    string
	IsManager      bool
}

func (e EmployeeView) FullName() string {
	return e.FirstName + " " + e.LastName
}

// ManagerView is a manager together with the names of its direct reports,
// ordered by first then last name.
type ManagerView struct {
	ID             uint
	FirstName      string
	LastName       string
	RoleTitle      string
	DepartmentName string
	Reports        []string
}

func (m ManagerView) FullName() string {
	return m.FirstName + " " + m.LastName
}

// EmployeeRef identifies an employee that blocks a delete.
type EmployeeRef struct {
	ID        uint
	FirstName string
	LastName  string
}

func (e EmployeeRef) FullName() string {
	return e.FirstName + " " + e.LastName
}
