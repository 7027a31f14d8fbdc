package db

import (
	"context"
	"fmt"

	dbmodels "github.com/gartstein/employee-tracker/internal/tracker/db/models"
	e "github.com/gartstein/employee-tracker/internal/tracker/errors"
	"github.com/gartstein/employee-tracker/internal/tracker/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const employeeViewColumns = "e.id, e.first_name, e.last_name, e.role_id, r.title AS role_title, " +
	"CAST(r.salary AS DOUBLE PRECISION) AS salary, r.department_id, d.name AS department_name, " +
	"e.manager_id, COALESCE(m.first_name || ' ' || m.last_name, '') AS manager_name, e.is_manager"

func (r *Repository) CreateEmployee(ctx context.Context, employee *models.Employee) error {
	row := dbmodels.Employee{
		FirstName: employee.FirstName,
		LastName:  employee.LastName,
		RoleID:    employee.RoleID,
		ManagerID: employee.ManagerID,
		IsManager: employee.IsManager,
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&row).Error; err != nil {
		return r.fail("create_employee", err,
			zap.String("first_name", employee.FirstName),
			zap.String("last_name", employee.LastName),
		)
	}
	employee.ID = row.ID
	return nil
}

func (r *Repository) GetEmployee(ctx context.Context, id uint) (*models.Employee, error) {
	var row dbmodels.Employee
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, r.fail("get_employee", err, zap.Uint("employee_id", id))
	}
	return &models.Employee{
		ID:        row.ID,
		FirstName: row.FirstName,
		LastName:  row.LastName,
		RoleID:    row.RoleID,
		ManagerID: row.ManagerID,
		IsManager: row.IsManager,
	}, nil
}

func (r *Repository) employeeViews(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("employee AS e").
		Select(employeeViewColumns).
		Joins("JOIN role r ON r.id = e.role_id").
		Joins("JOIN department d ON d.id = r.department_id").
		Joins("LEFT JOIN employee m ON m.id = e.manager_id")
}

func (r *Repository) scanEmployees(op string, query *gorm.DB, fields ...zap.Field) ([]models.EmployeeView, error) {
	var employees []models.EmployeeView
	if err := query.Scan(&employees).Error; err != nil {
		return nil, r.fail(op, err, fields...)
	}
	return employees, nil
}

// ListEmployees returns every employee with role, department and manager
// names, ordered by first then last name.
func (r *Repository) ListEmployees(ctx context.Context) ([]models.EmployeeView, error) {
	return r.scanEmployees("list_employees",
		r.employeeViews(ctx).Order("e.first_name ASC").Order("e.last_name ASC").Order("e.id ASC"))
}

func (r *Repository) EmployeesByManager(ctx context.Context, managerID uint) ([]models.EmployeeView, error) {
	return r.scanEmployees("employees_by_manager",
		r.employeeViews(ctx).Where("e.manager_id = ?", managerID).Order("e.id ASC"),
		zap.Uint("manager_id", managerID))
}

func (r *Repository) EmployeesByDepartment(ctx context.Context, departmentID uint) ([]models.EmployeeView, error) {
	return r.scanEmployees("employees_by_department",
		r.employeeViews(ctx).Where("r.department_id = ?", departmentID).Order("e.id ASC"),
		zap.Uint("department_id", departmentID))
}

func (r *Repository) EmployeesByRole(ctx context.Context, roleID uint) ([]models.EmployeeView, error) {
	return r.scanEmployees("employees_by_role",
		r.employeeViews(ctx).Where("e.role_id = ?", roleID).Order("e.id ASC"),
		zap.Uint("role_id", roleID))
}

func (r *Repository) SortEmployeesByLastName(ctx context.Context) ([]models.EmployeeView, error) {
	return r.scanEmployees("sort_employees_by_last_name",
		r.employeeViews(ctx).Order("e.last_name ASC").Order("e.first_name ASC").Order("e.id ASC"))
}

// SortEmployeesBySalary orders employees by the salary of their role, highest first.
func (r *Repository) SortEmployeesBySalary(ctx context.Context) ([]models.EmployeeView, error) {
	return r.scanEmployees("sort_employees_by_salary",
		r.employeeViews(ctx).Order("r.salary DESC").Order("e.id ASC"))
}

// ListManagers returns the employees flagged as managers, each with the
// names of its direct reports.
func (r *Repository) ListManagers(ctx context.Context) ([]models.ManagerView, error) {
	managers, err := r.scanEmployees("list_managers",
		r.employeeViews(ctx).Where("e.is_manager = ?", true).Order("e.first_name ASC").Order("e.last_name ASC").Order("e.id ASC"))
	if err != nil {
		return nil, err
	}
	if len(managers) == 0 {
		return []models.ManagerView{}, nil
	}

	ids := make([]uint, 0, len(managers))
	for _, m := range managers {
		ids = append(ids, m.ID)
	}

	var reports []struct {
		ManagerID uint
		FirstName string
		LastName  string
	}
	if err := r.db.WithContext(ctx).Model(&dbmodels.Employee{}).
		Select("manager_id", "first_name", "last_name").
		Where("manager_id IN ?", ids).
		Order("first_name ASC").
		Order("last_name ASC").
		Scan(&reports).Error; err != nil {
		return nil, r.fail("list_manager_reports", err)
	}

	byManager := make(map[uint][]string, len(managers))
	for _, report := range reports {
		byManager[report.ManagerID] = append(byManager[report.ManagerID], report.FirstName+" "+report.LastName)
	}

	result := make([]models.ManagerView, 0, len(managers))
	for _, m := range managers {
		names := byManager[m.ID]
		if names == nil {
			names = []string{}
		}
		result = append(result, models.ManagerView{
			ID:             m.ID,
			FirstName:      m.FirstName,
			LastName:       m.LastName,
			RoleTitle:      m.RoleTitle,
			DepartmentName: m.DepartmentName,
			Reports:        names,
		})
	}
	return result, nil
}

func (r *Repository) UpdateEmployeeRole(ctx context.Context, id uint, roleID uint) error {
	return r.updateEmployee(ctx, "update_employee_role", id, "role_id", roleID)
}

// UpdateEmployeeManager sets the manager of an employee; a nil managerID
// clears it.
func (r *Repository) UpdateEmployeeManager(ctx context.Context, id uint, managerID *uint) error {
	if managerID != nil && *managerID == id {
		return fmt.Errorf("%w: an employee cannot manage itself", e.ErrInvalidInput)
	}
	return r.updateEmployee(ctx, "update_employee_manager", id, "manager_id", managerID)
}

func (r *Repository) updateEmployee(ctx context.Context, op string, id uint, column string, value interface{}) error {
	result := r.db.WithContext(ctx).Model(&dbmodels.Employee{}).
		Where("id = ?", id).
		Update(column, value)
	if result.Error != nil {
		return r.fail(op, result.Error, zap.Uint("employee_id", id))
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

// DeleteEmployee removes an employee nobody reports to. When other employees
// still name it as their manager the result is DeleteBlocked with those
// direct reports in id order.
func (r *Repository) DeleteEmployee(ctx context.Context, id uint) (models.DeleteResult, error) {
	reports, err := r.employeeRefs(ctx, "manager_id = ?", id)
	if err != nil {
		return models.DeleteResult{}, err
	}
	if len(reports) > 0 {
		r.logger.Info("employee delete blocked by direct reports",
			zap.Uint("employee_id", id),
			zap.Int("reports", len(reports)),
		)
		return models.DeleteResult{Status: models.DeleteBlocked, Employees: reports}, nil
	}

	result := r.db.WithContext(ctx).Delete(&dbmodels.Employee{}, "id = ?", id)
	if result.Error != nil {
		if isForeignKeyViolation(result.Error) {
			return models.DeleteResult{}, fmt.Errorf("%w: employee %d is still referenced", e.ErrHasDependents, id)
		}
		return models.DeleteResult{}, r.fail("delete_employee", result.Error, zap.Uint("employee_id", id))
	}
	if result.RowsAffected == 0 {
		return models.DeleteResult{}, e.ErrNotFound
	}
	return models.DeleteResult{Status: models.DeleteDone}, nil
}

func (r *Repository) employeeRefs(ctx context.Context, condition string, id uint) ([]models.EmployeeRef, error) {
	var refs []models.EmployeeRef
	if err := r.db.WithContext(ctx).Model(&dbmodels.Employee{}).
		Select("id", "first_name", "last_name").
		Where(condition, id).
		Order("id ASC").
		Scan(&refs).Error; err != nil {
		return nil, r.fail("employee_refs", err, zap.String("condition", condition), zap.Uint("id", id))
	}
	return refs, nil
}
