package db

import (
	"context"
	"fmt"
	"strings"

	dbmodels "github.com/gartstein/employee-tracker/internal/tracker/db/models"
	e "github.com/gartstein/employee-tracker/internal/tracker/errors"
	"github.com/gartstein/employee-tracker/internal/tracker/models"
	"go.uber.org/zap"
)

// CreateDepartment inserts a department and sets its ID. A department with
// the same name fails with ErrDuplicateName and nothing is written.
func (r *Repository) CreateDepartment(ctx context.Context, department *models.Department) error {
	exists, err := r.DepartmentExistsByName(ctx, department.Name)
	if err != nil {
		return err
	}
	if exists {
		return e.ErrDuplicateName
	}

	row := dbmodels.Department{Name: department.Name}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return r.fail("create_department", err, zap.String("name", department.Name))
	}
	department.ID = row.ID
	return nil
}

func (r *Repository) DepartmentExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&dbmodels.Department{}).
		Where("name = ?", name).
		Limit(1).
		Count(&count)
	if result.Error != nil {
		return false, r.fail("department_exists_by_name", result.Error)
	}
	return count > 0, nil
}

func (r *Repository) GetDepartment(ctx context.Context, id uint) (*models.Department, error) {
	var row dbmodels.Department
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, r.fail("get_department", err, zap.Uint("department_id", id))
	}
	return &models.Department{ID: row.ID, Name: row.Name}, nil
}

// ListDepartments returns every department ordered by name.
func (r *Repository) ListDepartments(ctx context.Context) ([]models.Department, error) {
	var rows []dbmodels.Department
	if err := r.db.WithContext(ctx).Order("name ASC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, r.fail("list_departments", err)
	}

	departments := make([]models.Department, 0, len(rows))
	for _, row := range rows {
		departments = append(departments, models.Department{ID: row.ID, Name: row.Name})
	}
	return departments, nil
}

// UpdateDepartmentName renames a department. A nil or blank name fails with
// ErrInvalidInput before any statement is issued.
func (r *Repository) UpdateDepartmentName(ctx context.Context, id uint, name *string) (*models.Department, error) {
	if name == nil || strings.TrimSpace(*name) == "" {
		return nil, fmt.Errorf("%w: the new department name cannot be empty", e.ErrInvalidInput)
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&dbmodels.Department{}).
		Where("name = ? AND id <> ?", *name, id).
		Count(&count).Error; err != nil {
		return nil, r.fail("update_department_name", err, zap.Uint("department_id", id))
	}
	if count > 0 {
		return nil, e.ErrDuplicateName
	}

	result := r.db.WithContext(ctx).Model(&dbmodels.Department{}).
		Where("id = ?", id).
		Update("name", *name)
	if result.Error != nil {
		return nil, r.fail("update_department_name", result.Error, zap.Uint("department_id", id))
	}
	if result.RowsAffected == 0 {
		return nil, e.ErrNotFound
	}
	return &models.Department{ID: id, Name: *name}, nil
}

// DeleteDepartment removes a department that no role references. When roles
// still reference it the result is DeleteBlocked with those roles in id
// order, and nothing is removed.
func (r *Repository) DeleteDepartment(ctx context.Context, id uint) (models.DeleteResult, error) {
	roles, err := r.roleRefsByDepartment(ctx, id)
	if err != nil {
		return models.DeleteResult{}, err
	}
	if len(roles) > 0 {
		r.logger.Info("department delete blocked by roles",
			zap.Uint("department_id", id),
			zap.Int("roles", len(roles)),
		)
		return models.DeleteResult{Status: models.DeleteBlocked, Roles: roles}, nil
	}

	result := r.db.WithContext(ctx).Delete(&dbmodels.Department{}, "id = ?", id)
	if result.Error != nil {
		if isForeignKeyViolation(result.Error) {
			return models.DeleteResult{}, fmt.Errorf("%w: department %d is still referenced", e.ErrHasDependents, id)
		}
		return models.DeleteResult{}, r.fail("delete_department", result.Error, zap.Uint("department_id", id))
	}
	if result.RowsAffected == 0 {
		return models.DeleteResult{}, e.ErrNotFound
	}
	return models.DeleteResult{Status: models.DeleteDone}, nil
}

func (r *Repository) roleRefsByDepartment(ctx context.Context, departmentID uint) ([]models.RoleRef, error) {
	var refs []models.RoleRef
	if err := r.db.WithContext(ctx).Model(&dbmodels.Role{}).
		Select("id", "title").
		Where("department_id = ?", departmentID).
		Order("id ASC").
		Scan(&refs).Error; err != nil {
		return nil, r.fail("role_refs_by_department", err, zap.Uint("department_id", departmentID))
	}
	return refs, nil
}
