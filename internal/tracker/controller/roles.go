package controller

import (
	"context"
	"strings"

	"github.com/gartstein/employee-tracker/internal/tracker/events"
	"github.com/gartstein/employee-tracker/internal/tracker/models"
	"go.uber.org/zap"
)

const entityRole = "role"

// AddRole creates a role in an existing department.
func (s *Service) AddRole(ctx context.Context, req models.AddRoleRequest) (*models.Role, error) {
	req.Title = strings.TrimSpace(req.Title)
	if err := s.check(req); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetDepartment(ctx, req.DepartmentID); err != nil {
		return nil, wrap("get department", err)
	}

	role := &models.Role{Title: req.Title, Salary: req.Salary, DepartmentID: req.DepartmentID}
	if err := s.repo.CreateRole(ctx, role); err != nil {
		return nil, wrap("create role", err)
	}
	s.logger.Info("role created", zap.Uint("role_id", role.ID), zap.String("title", role.Title))
	s.emit(events.RoleCreated, entityRole, role.ID, role)
	return role, nil
}

func (s *Service) ListRoles(ctx context.Context) ([]models.RoleView, error) {
	roles, err := s.repo.ListRoles(ctx)
	if err != nil {
		return nil, wrap("list roles", err)
	}
	return roles, nil
}

func (s *Service) RolesByDepartment(ctx context.Context, departmentID uint) ([]models.RoleView, error) {
	roles, err := s.repo.RolesByDepartment(ctx, departmentID)
	if err != nil {
		return nil, wrap("list roles by department", err)
	}
	return roles, nil
}

func (s *Service) SortRolesBySalary(ctx context.Context) ([]models.RoleView, error) {
	roles, err := s.repo.SortRolesBySalary(ctx)
	if err != nil {
		return nil, wrap("sort roles by salary", err)
	}
	return roles, nil
}

func (s *Service) UpdateRoleTitle(ctx context.Context, req models.UpdateRoleTitleRequest) (*models.Role, error) {
	req.Title = strings.TrimSpace(req.Title)
	if err := s.check(req); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateRoleTitle(ctx, req.RoleID, req.Title); err != nil {
		return nil, wrap("update role title", err)
	}
	return s.roleUpdated(ctx, req.RoleID)
}

func (s *Service) UpdateRoleSalary(ctx context.Context, req models.UpdateRoleSalaryRequest) (*models.Role, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateRoleSalary(ctx, req.RoleID, req.Salary); err != nil {
		return nil, wrap("update role salary", err)
	}
	return s.roleUpdated(ctx, req.RoleID)
}

func (s *Service) UpdateRoleDepartment(ctx context.Context, req models.UpdateRoleDepartmentRequest) (*models.Role, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetDepartment(ctx, req.DepartmentID); err != nil {
		return nil, wrap("get department", err)
	}
	if err := s.repo.UpdateRoleDepartment(ctx, req.RoleID, req.DepartmentID); err != nil {
		return nil, wrap("update role department", err)
	}
	return s.roleUpdated(ctx, req.RoleID)
}

// roleUpdated reloads a role after a successful update and announces it.
func (s *Service) roleUpdated(ctx context.Context, id uint) (*models.Role, error) {
	role, err := s.repo.GetRole(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get role for event", zap.Error(err), zap.Uint("role_id", id))
		return nil, wrap("get role", err)
	}
	s.emit(events.RoleUpdated, entityRole, role.ID, role)
	return role, nil
}

// DeleteRole removes a role no employee holds. A role still held yields a
// DeleteBlocked result listing the employees.
func (s *Service) DeleteRole(ctx context.Context, req models.DeleteRoleRequest) (models.DeleteResult, error) {
	if err := s.check(req); err != nil {
		return models.DeleteResult{}, err
	}

	result, err := s.repo.DeleteRole(ctx, req.RoleID)
	if err != nil {
		return models.DeleteResult{}, wrap("delete role", err)
	}
	if !result.Blocked() {
		s.emit(events.RoleDeleted, entityRole, req.RoleID, nil)
	}
	return result, nil
}
