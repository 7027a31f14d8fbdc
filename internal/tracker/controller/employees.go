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

const entityEmployee = "employee"

// AddEmployee creates an employee holding an existing role, optionally
// reporting to an existing employee.
func (s *Service) AddEmployee(ctx context.Context, req models.AddEmployeeRequest) (*models.Employee, error) {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	if err := s.check(req); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetRole(ctx, req.RoleID); err != nil {
		return nil, wrap("get role", err)
	}
	if req.ManagerID != nil {
		if _, err := s.repo.GetEmployee(ctx, *req.ManagerID); err != nil {
			return nil, wrap("get manager", err)
		}
	}

	employee := &models.Employee{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		RoleID:    req.RoleID,
		ManagerID: req.ManagerID,
		IsManager: req.IsManager,
	}
	if err := s.repo.CreateEmployee(ctx, employee); err != nil {
		return nil, wrap("create employee", err)
	}
	s.logger.Info("employee created", zap.Uint("employee_id", employee.ID))
	s.emit(events.EmployeeCreated, entityEmployee, employee.ID, employee)
	return employee, nil
}

func (s *Service) ListEmployees(ctx context.Context) ([]models.EmployeeView, error) {
	employees, err := s.repo.ListEmployees(ctx)
	if err != nil {
		return nil, wrap("list employees", err)
	}
	return employees, nil
}

func (s *Service) ListManagers(ctx context.Context) ([]models.ManagerView, error) {
	managers, err := s.repo.ListManagers(ctx)
	if err != nil {
		return nil, wrap("list managers", err)
	}
	return managers, nil
}

func (s *Service) EmployeesByManager(ctx context.Context, managerID uint) ([]models.EmployeeView, error) {
	employees, err := s.repo.EmployeesByManager(ctx, managerID)
	if err != nil {
		return nil, wrap("list employees by manager", err)
	}
	return employees, nil
}

func (s *Service) EmployeesByDepartment(ctx context.Context, departmentID uint) ([]models.EmployeeView, error) {
	employees, err := s.repo.EmployeesByDepartment(ctx, departmentID)
	if err != nil {
		return nil, wrap("list employees by department", err)
	}
	return employees, nil
}

func (s *Service) EmployeesByRole(ctx context.Context, roleID uint) ([]models.EmployeeView, error) {
	employees, err := s.repo.EmployeesByRole(ctx, roleID)
	if err != nil {
		return nil, wrap("list employees by role", err)
	}
	return employees, nil
}

func (s *Service) SortEmployeesByLastName(ctx context.Context) ([]models.EmployeeView, error) {
	employees, err := s.repo.SortEmployeesByLastName(ctx)
	if err != nil {
		return nil, wrap("sort employees by last name", err)
	}
	return employees, nil
}

func (s *Service) SortEmployeesBySalary(ctx context.Context) ([]models.EmployeeView, error) {
	employees, err := s.repo.SortEmployeesBySalary(ctx)
	if err != nil {
		return nil, wrap("sort employees by salary", err)
	}
	return employees, nil
}

func (s *Service) UpdateEmployeeRole(ctx context.Context, req models.UpdateEmployeeRoleRequest) (*models.Employee, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetRole(ctx, req.RoleID); err != nil {
		return nil, wrap("get role", err)
	}
	if err := s.repo.UpdateEmployeeRole(ctx, req.EmployeeID, req.RoleID); err != nil {
		return nil, wrap("update employee role", err)
	}
	return s.employeeUpdated(ctx, req.EmployeeID)
}

// UpdateEmployeeManager points an employee at a new manager, or clears the
// manager when ManagerID is nil.
func (s *Service) UpdateEmployeeManager(ctx context.Context, req models.UpdateEmployeeManagerRequest) (*models.Employee, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	if req.ManagerID != nil {
		if *req.ManagerID == req.EmployeeID {
			return nil, fmt.Errorf("%w: an employee cannot manage itself", e.ErrInvalidInput)
		}
		if _, err := s.repo.GetEmployee(ctx, *req.ManagerID); err != nil {
			return nil, wrap("get manager", err)
		}
	}
	if err := s.repo.UpdateEmployeeManager(ctx, req.EmployeeID, req.ManagerID); err != nil {
		return nil, wrap("update employee manager", err)
	}
	return s.employeeUpdated(ctx, req.EmployeeID)
}

func (s *Service) employeeUpdated(ctx context.Context, id uint) (*models.Employee, error) {
	employee, err := s.repo.GetEmployee(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get employee for event", zap.Error(err), zap.Uint("employee_id", id))
		return nil, wrap("get employee", err)
	}
	s.emit(events.EmployeeUpdated, entityEmployee, employee.ID, employee)
	return employee, nil
}

// DeleteEmployee removes an employee nobody reports to. An employee with
// direct reports yields a DeleteBlocked result listing them.
func (s *Service) DeleteEmployee(ctx context.Context, req models.DeleteEmployeeRequest) (models.DeleteResult, error) {
	if err := s.check(req); err != nil {
		return models.DeleteResult{}, err
	}

	result, err := s.repo.DeleteEmployee(ctx, req.EmployeeID)
	if err != nil {
		return models.DeleteResult{}, wrap("delete employee", err)
	}
	if !result.Blocked() {
		s.emit(events.EmployeeDeleted, entityEmployee, req.EmployeeID, nil)
	}
	return result, nil
}
