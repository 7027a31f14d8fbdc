package db

import (
	"context"
	"math"

	"github.com/gartstein/employee-tracker/internal/tracker/models"
	"go.uber.org/zap"
)

// TotalBudgetByAllDepartments sums, per department, the salaries of the roles
// held by its employees and computes each department's share of the grand total.
// Departments without employees are not listed.
func (r *Repository) TotalBudgetByAllDepartments(ctx context.Context) (models.BudgetReport, error) {
	var departments []models.DepartmentBudget
	if err := r.db.WithContext(ctx).
		Table("employee AS e").
		Select("d.id AS department_id, d.name AS department_name, " +
			"CAST(SUM(r.salary) AS DOUBLE PRECISION) AS total").
		Joins("JOIN role r ON r.id = e.role_id").
		Joins("JOIN department d ON d.id = r.department_id").
		Group("d.id").
		Group("d.name").
		Order("d.name ASC").
		Scan(&departments).Error; err != nil {
		return models.BudgetReport{}, r.fail("total_budget_by_all_departments", err)
	}

	report := models.BudgetReport{Departments: departments}
	for _, d := range departments {
		report.Total += d.Total
	}
	for i := range report.Departments {
		report.Departments[i].Percentage = percentage(report.Departments[i].Total, report.Total)
	}
	if report.Departments == nil {
		report.Departments = []models.DepartmentBudget{}
	}
	return report, nil
}

// TotalUtilizedBudgetByDepartment sums the salaries of the employees whose
// role belongs to the department. A department without employees yields 0.
func (r *Repository) TotalUtilizedBudgetByDepartment(ctx context.Context, departmentID uint) (float64, error) {
	var total float64
	row := r.db.WithContext(ctx).
		Table("employee AS e").
		Select("CAST(COALESCE(SUM(r.salary), 0) AS DOUBLE PRECISION)").
		Joins("JOIN role r ON r.id = e.role_id").
		Where("r.department_id = ?", departmentID).
		Row()
	if err := row.Scan(&total); err != nil {
		return 0, r.fail("total_utilized_budget_by_department", err, zap.Uint("department_id", departmentID))
	}
	return total, nil
}

// EmployeeBudgetLines lists the employees of a department with their salary
// and its share of the department's utilized budget.
func (r *Repository) EmployeeBudgetLines(ctx context.Context, departmentID uint) ([]models.EmployeeBudgetLine, error) {
	total, err := r.TotalUtilizedBudgetByDepartment(ctx, departmentID)
	if err != nil {
		return nil, err
	}

	employees, err := r.EmployeesByDepartment(ctx, departmentID)
	if err != nil {
		return nil, err
	}

	lines := make([]models.EmployeeBudgetLine, 0, len(employees))
	for _, emp := range employees {
		lines = append(lines, models.EmployeeBudgetLine{
			EmployeeID:     emp.ID,
			FirstName:      emp.FirstName,
			LastName:       emp.LastName,
			RoleID:         emp.RoleID,
			RoleTitle:      emp.RoleTitle,
			Salary:         emp.Salary,
			DepartmentName: emp.DepartmentName,
			Percentage:     percentage(emp.Salary, total),
		})
	}
	return lines, nil
}

// percentage rounds part/total to two decimals; a zero total yields 0.
func percentage(part, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(part/total*10000) / 100
}
