package controller

import (
	"context"
	"fmt"
	"strings"

	e "github.com/gartstein/employee-tracker/internal/tracker/errors"
	"github.com/gartstein/employee-tracker/internal/tracker/events"
	"github.com/gartstein/employee-tracker/internal/tracker/models"
	"go.uber.org/zap"
)

const entityDepartment = "department"

// AddDepartment creates a department with a unique, non-blank name.
func (s *Service) AddDepartment(ctx context.Context, req models.AddDepartmentRequest) (*models.Department, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.check(req); err != nil {
		return nil, err
	}

	department := &models.Department{Name: req.Name}
	if err := s.repo.CreateDepartment(ctx, department); err != nil {
		return nil, wrap("create department", err)
	}
	s.logger.Info("department created", zap.Uint("department_id", department.ID), zap.String("name", department.Name))
	s.emit(events.DepartmentCreated, entityDepartment, department.ID, department)
	return department, nil
}

func (s *Service) ListDepartments(ctx context.Context) ([]models.Department, error) {
	departments, err := s.repo.ListDepartments(ctx)
	if err != nil {
		return nil, wrap("list departments", err)
	}
	return departments, nil
}

// UpdateDepartmentName renames a department. A missing or blank name is
// rejected before the repository is touched.
func (s *Service) UpdateDepartmentName(ctx context.Context, req models.UpdateDepartmentNameRequest) (*models.Department, error) {
	if req.Name == nil || blank(*req.Name) {
		return nil, fmt.Errorf("%w: the new department name cannot be empty", e.ErrInvalidInput)
	}
	trimmed := strings.TrimSpace(*req.Name)
	req.Name = &trimmed
	if err := s.check(req); err != nil {
		return nil, err
	}

	department, err := s.repo.UpdateDepartmentName(ctx, req.DepartmentID, req.Name)
	if err != nil {
		return nil, wrap("update department name", err)
	}
	s.emit(events.DepartmentUpdated, entityDepartment, department.ID, department)
	return department, nil
}

// DeleteDepartment removes a department without roles. A department that
// still owns roles yields a DeleteBlocked result listing them.
func (s *Service) DeleteDepartment(ctx context.Context, req models.DeleteDepartmentRequest) (models.DeleteResult, error) {
	if err := s.check(req); err != nil {
		return models.DeleteResult{}, err
	}

	result, err := s.repo.DeleteDepartment(ctx, req.DepartmentID)
	if err != nil {
		return models.DeleteResult{}, wrap("delete department", err)
	}
	if !result.Blocked() {
		s.emit(events.DepartmentDeleted, entityDepartment, req.DepartmentID, nil)
	}
	return result, nil
}

func (s *Service) TotalBudgetByAllDepartments(ctx context.Context) (models.BudgetReport, error) {
	report, err := s.repo.TotalBudgetByAllDepartments(ctx)
	if err != nil {
		return models.BudgetReport{}, wrap("compute department budgets", err)
	}
	return report, nil
}

// UtilizedBudget returns the department's total salary spend together with
// each employee's share of it.
func (s *Service) UtilizedBudget(ctx context.Context, departmentID uint) (float64, []models.EmployeeBudgetLine, error) {
	if _, err := s.repo.GetDepartment(ctx, departmentID); err != nil {
		return 0, nil, wrap("get department", err)
	}
	total, err := s.repo.TotalUtilizedBudgetByDepartment(ctx, departmentID)
	if err != nil {
		return 0, nil, wrap("compute utilized budget", err)
	}
	lines, err := s.repo.EmployeeBudgetLines(ctx, departmentID)
	if err != nil {
		return 0, nil, wrap("list employee budget lines", err)
	}
	return total, lines, nil
}
