package models

// DepartmentBudget is the utilized budget of one department: the sum of the
// salaries of the roles its employees hold.
type DepartmentBudget struct {
	DepartmentID   uint
	DepartmentName string
	Total          float64
	// Percentage is Total as a share of the grand total, in the range 0..100.
	Percentage float64
}

// BudgetReport aggregates the utilized budget of every department that has
// at least one employee.
type BudgetReport struct {
	Total       float64
	Departments []DepartmentBudget
}

// EmployeeBudgetLine is one employee's share of the utilized budget of a department.
type EmployeeBudgetLine struct {
	EmployeeID     uint
	FirstName      string
	LastName       string
	RoleID         uint
	RoleTitle      string
	Salary         float64
	DepartmentName string
	Percentage     float64
}
