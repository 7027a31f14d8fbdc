package tables

import (
	"strings"

	"github.com/gartstein/employee-tracker/internal/tracker/models"
)

func Departments(departments []models.Department) Table {
	t := Table{
		Header: []string{"Index", "Department ID", "Department Name"},
		Align:  []Align{AlignCenter, AlignCenter, AlignLeft},
	}
	for i, d := range departments {
		t.Rows = append(t.Rows, []Cell{number(i + 1), number(d.ID), keyed(d.Name, d.Name)})
	}
	return t
}

// Roles lists roles with their salary and department; titles share the
// color of their department.
func Roles(roles []models.RoleView) Table {
	t := Table{
		Header: []string{"Index", "ID", "Title", "Salary", "Department Name"},
		Align:  []Align{AlignCenter, AlignCenter, AlignLeft, AlignRight, AlignLeft},
	}
	for i, r := range roles {
		t.Rows = append(t.Rows, []Cell{
			number(i + 1),
			number(r.ID),
			keyed(r.Title, r.DepartmentName),
			money(r.Salary),
			keyed(r.DepartmentName, r.DepartmentName),
		})
	}
	return t
}

func Employees(employees []models.EmployeeView) Table {
	t := Table{
		Header: []string{"Index", "ID", "First Name", "Last Name", "Role Title", "Salary", "Department Name", "Manager Name"},
		Align:  []Align{AlignCenter, AlignCenter, AlignLeft, AlignLeft, AlignLeft, AlignRight, AlignLeft, AlignLeft},
	}
	for i, emp := range employees {
		t.Rows = append(t.Rows, []Cell{
			number(i + 1),
			number(emp.ID),
			plain(emp.FirstName),
			plain(emp.LastName),
			keyed(emp.RoleTitle, emp.DepartmentName),
			money(emp.Salary),
			keyed(emp.DepartmentName, emp.DepartmentName),
			accent(emp.ManagerName),
		})
	}
	return t
}

// Managers lists each manager with its direct reports, one per line.
func Managers(managers []models.ManagerView) Table {
	t := Table{
		Header: []string{"Index", "Manager ID", "First Name", "Last Name", "Employees", "Role Name", "Department Name"},
		Align:  []Align{AlignCenter, AlignCenter, AlignLeft, AlignLeft, AlignLeft, AlignLeft, AlignLeft},
	}
	for i, m := range managers {
		t.Rows = append(t.Rows, []Cell{
			number(i + 1),
			number(m.ID),
			accent(m.FirstName),
			accent(m.LastName),
			plain(strings.Join(m.Reports, ",\n")),
			keyed(m.RoleTitle, m.DepartmentName),
			keyed(m.DepartmentName, m.DepartmentName),
		})
	}
	return t
}

func EmployeesByDepartment(employees []models.EmployeeView) Table {
	t := Table{
		Header: []string{"ID", "First Name", "Last Name", "Role ID", "Role Name", "Department Name"},
		Align:  []Align{AlignCenter, AlignLeft, AlignLeft, AlignCenter, AlignLeft, AlignLeft},
	}
	for _, emp := range employees {
		t.Rows = append(t.Rows, []Cell{
			number(emp.ID),
			plain(emp.FirstName),
			plain(emp.LastName),
			number(emp.RoleID),
			keyed(emp.RoleTitle, emp.DepartmentName),
			keyed(emp.DepartmentName, emp.DepartmentName),
		})
	}
	return t
}

func EmployeesByManager(employees []models.EmployeeView) Table {
	t := Table{
		Header: []string{"ID", "First Name", "Last Name", "Role ID", "Role Title", "Salary", "Department Name"},
		Align:  []Align{AlignCenter, AlignLeft, AlignLeft, AlignCenter, AlignLeft, AlignRight, AlignLeft},
	}
	for _, emp := range employees {
		t.Rows = append(t.Rows, []Cell{
			number(emp.ID),
			plain(emp.FirstName),
			plain(emp.LastName),
			number(emp.RoleID),
			keyed(emp.RoleTitle, emp.DepartmentName),
			money(emp.Salary),
			keyed(emp.DepartmentName, emp.DepartmentName),
		})
	}
	return t
}

func EmployeesByRole(employees []models.EmployeeView) Table {
	t := Table{
		Header: []string{"Index", "ID", "First Name", "Last Name", "Role ID", "Role Title", "Salary", "Department Name"},
		Align:  []Align{AlignCenter, AlignCenter, AlignLeft, AlignLeft, AlignCenter, AlignLeft, AlignRight, AlignLeft},
	}
	for i, emp := range employees {
		t.Rows = append(t.Rows, []Cell{
			number(i + 1),
			number(emp.ID),
			plain(emp.FirstName),
			plain(emp.LastName),
			number(emp.RoleID),
			keyed(emp.RoleTitle, emp.DepartmentName),
			money(emp.Salary),
			keyed(emp.DepartmentName, emp.DepartmentName),
		})
	}
	return t
}

// SortedEmployees is used for both the salary and the last-name orderings;
// rows keep the order they were given in.
func SortedEmployees(employees []models.EmployeeView) Table {
	t := Table{
		Header: []string{"Index", "ID", "First Name", "Last Name", "Role Title", "Role Salary", "Department Name"},
		Align:  []Align{AlignCenter, AlignCenter, AlignLeft, AlignLeft, AlignLeft, AlignRight, AlignLeft},
	}
	for i, emp := range employees {
		t.Rows = append(t.Rows, []Cell{
			number(i + 1),
			number(emp.ID),
			plain(emp.FirstName),
			plain(emp.LastName),
			keyed(emp.RoleTitle, emp.DepartmentName),
			money(emp.Salary),
			keyed(emp.DepartmentName, emp.DepartmentName),
		})
	}
	return t
}

func TotalBudget(report models.BudgetReport) Table {
	t := Table{
		Title:  "Total Budget: " + Currency(report.Total),
		Header: []string{"Index", "Department Name", "Department Budget", "Percentage Breakdown"},
		Align:  []Align{AlignCenter, AlignLeft, AlignRight, AlignCenter},
	}
	for i, d := range report.Departments {
		t.Rows = append(t.Rows, []Cell{
			number(i + 1),
			keyed(d.DepartmentName, d.DepartmentName),
			money(d.Total),
			progress(d.Percentage),
		})
	}
	return t
}

func UtilizedBudget(total float64, lines []models.EmployeeBudgetLine) Table {
	t := Table{
		Title:  "Total Utilized Budget: " + Currency(total),
		Header: []string{"Index", "First Name", "Last Name", "Role", "Salary", "Department", "Percentage Breakdown"},
		Align:  []Align{AlignCenter, AlignLeft, AlignLeft, AlignLeft, AlignRight, AlignLeft, AlignLeft},
	}
	for i, line := range lines {
		t.Rows = append(t.Rows, []Cell{
			number(i + 1),
			accent(line.FirstName),
			accent(line.LastName),
			keyed(line.RoleTitle, line.DepartmentName),
			money(line.Salary),
			keyed(line.DepartmentName, line.DepartmentName),
			progress(line.Percentage),
		})
	}
	return t
}
