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

const roleViewColumns = "r.id, r.title, CAST(r.salary AS DOUBLE PRECISION) AS salary, " +
	"r.department_id, d.name AS department_name"

// CreateRole inserts a role and sets its ID. The salary is expected to be
// validated by the caller.
func (r *Repository) CreateRole(ctx context.Context, role *models.Role) error {
	row := dbmodels.Role{
		Title:        role.Title,
		Salary:       role.Salary,
		DepartmentID: role.DepartmentID,
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&row).Error; err != nil {
		return r.fail("create_role", err, zap.String("title", role.Title))
	}
	role.ID = row.ID
	return nil
}

func (r *Repository) GetRole(ctx context.Context, id uint) (*models.Role, error) {
	var row dbmodels.Role
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, r.fail("get_role", err, zap.Uint("role_id", id))
	}
	return &models.Role{
		ID:           row.ID,
		Title:        row.Title,
		Salary:       row.Salary,
		DepartmentID: row.DepartmentID,
	}, nil
}

func (r *Repository) roleViews(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("role AS r").
		Select(roleViewColumns).
		Joins("JOIN department d ON d.id = r.department_id")
}

// ListRoles returns every role joined with its department name, in id order.
func (r *Repository) ListRoles(ctx context.Context) ([]models.RoleView, error) {
	var roles []models.RoleView
	if err := r.roleViews(ctx).Order("r.id ASC").Scan(&roles).Error; err != nil {
		return nil, r.fail("list_roles", err)
	}
	return roles, nil
}

func (r *Repository) RolesByDepartment(ctx context.Context, departmentID uint) ([]models.RoleView, error) {
	var roles []models.RoleView
	if err := r.roleViews(ctx).
		Where("r.department_id = ?", departmentID).
		Order("r.id ASC").
		Scan(&roles).Error; err != nil {
		return nil, r.fail("roles_by_department", err, zap.Uint("department_id", departmentID))
	}
	return roles, nil
}

// SortRolesBySalary returns every role, highest salary first.
func (r *Repository) SortRolesBySalary(ctx context.Context) ([]models.RoleView, error) {
	var roles []models.RoleView
	if err := r.roleViews(ctx).Order("r.salary DESC").Order("r.id ASC").Scan(&roles).Error; err != nil {
		return nil, r.fail("sort_roles_by_salary", err)
	}
	return roles, nil
}

func (r *Repository) UpdateRoleSalary(ctx context.Context, id uint, salary float64) error {
	if salary < 0 {
		return fmt.Errorf("%w: salary must not be negative", e.ErrInvalidInput)
	}
	return r.updateRole(ctx, "update_role_salary", id, "salary", salary)
}

func (r *Repository) UpdateRoleTitle(ctx context.Context, id uint, title string) error {
	return r.updateRole(ctx, "update_role_title", id, "title", title)
}

func (r *Repository) UpdateRoleDepartment(ctx context.Context, id uint, departmentID uint) error {
	return r.updateRole(ctx, "update_role_department", id, "department_id", departmentID)
}

func (r *Repository) updateRole(ctx context.Context, op string, id uint, column string, value interface{}) error {
	result := r.db.WithContext(ctx).Model(&dbmodels.Role{}).
		Where("id = ?", id).
		Update(column, value)
	if result.Error != nil {
		return r.fail(op, result.Error, zap.Uint("role_id", id))
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

// DeleteRole removes a role that no employee holds. When employees still
// hold it the result is DeleteBlocked with those employees in id order.
func (r *Repository) DeleteRole(ctx context.Context, id uint) (models.DeleteResult, error) {
	employees, err := r.employeeRefs(ctx, "role_id = ?", id)
	if err != nil {
		return models.DeleteResult{}, err
	}
	if len(employees) > 0 {
		r.logger.Info("role delete blocked by employees",
			zap.Uint("role_id", id),
			zap.Int("employees", len(employees)),
		)
		return models.DeleteResult{Status: models.DeleteBlocked, Employees: employees}, nil
	}

	result := r.db.WithContext(ctx).Delete(&dbmodels.Role{}, "id = ?", id)
	if result.Error != nil {
		if isForeignKeyViolation(result.Error) {
			return models.DeleteResult{}, fmt.Errorf("%w: role %d is still referenced", e.ErrHasDependents, id)
		}
		return models.DeleteResult{}, r.fail("delete_role", result.Error, zap.Uint("role_id", id))
	}
	if result.RowsAffected == 0 {
		return models.DeleteResult{}, e.ErrNotFound
	}
	return models.DeleteResult{Status: models.DeleteDone}, nil
}
