package handlers

import (
	"context"

	"github.com/gartstein/employee-tracker/internal/tracker/models"
	"github.com/gartstein/employee-tracker/internal/tracker/tables"
)

const noManager = "No manager"

// AddEmployee asks whether the new employee is a manager; only non-managers
// are offered a manager to report to.
func (h *Handlers) AddEmployee(ctx context.Context) error {
	roles, err := h.svc.ListRoles(ctx)
	if err != nil {
		return err
	}
	if len(roles) == 0 {
		h.Notice("No roles found. Please add roles before adding employees.")
		return nil
	}

	isManager, err := h.prompt.Confirm("Is this employee a manager?", false)
	if err != nil {
		return err
	}
	firstName, err := h.prompt.Input("Enter the first name of the employee:", requireText("First name"))
	if err != nil {
		return err
	}
	lastName, err := h.prompt.Input("Enter the last name of the employee:", requireText("Last name"))
	if err != nil {
		return err
	}
	role, err := h.choose("Select the role for the employee:", roleOptions(roles))
	if err != nil {
		return err
	}

	req := models.AddEmployeeRequest{
		FirstName: firstName,
		LastName:  lastName,
		RoleID:    *role.id,
		IsManager: isManager,
	}
	if !isManager {
		req.ManagerID, err = h.pickManager(ctx)
		if err != nil {
			return err
		}
	}

	employee, err := h.svc.AddEmployee(ctx, req)
	if err != nil {
		return err
	}
	h.Success("Added employee %s.", employee.FullName())
	return nil
}

// pickManager asks whether the employee has a manager and, if so, which one.
func (h *Handlers) pickManager(ctx context.Context) (*uint, error) {
	hasManager, err := h.prompt.Confirm("Does this employee have a manager?", true)
	if err != nil || !hasManager {
		return nil, err
	}
	managers, err := h.svc.ListManagers(ctx)
	if err != nil {
		return nil, err
	}
	if len(managers) == 0 {
		h.Notice("No managers found. The employee will be added without a manager.")
		return nil, nil
	}
	manager, err := h.choose("Select the manager for the employee:", managerOptions(managers))
	if err != nil {
		return nil, err
	}
	return manager.id, nil
}

func (h *Handlers) UpdateEmployeeRole(ctx context.Context) error {
	employees, err := h.svc.ListEmployees(ctx)
	if err != nil {
		return err
	}
	if len(employees) == 0 {
		h.Notice("No employees found. Please add employees before updating roles.")
		return nil
	}
	roles, err := h.svc.ListRoles(ctx)
	if err != nil {
		return err
	}
	if len(roles) == 0 {
		h.Notice("No roles found. Please add roles before updating employee roles.")
		return nil
	}

	employee, err := h.choose("Select the employee to update role:", employeeOptions(employees))
	if err != nil {
		return err
	}
	role, err := h.choose("Select the new role for the employee:", roleOptions(roles))
	if err != nil {
		return err
	}

	updated, err := h.svc.UpdateEmployeeRole(ctx, models.UpdateEmployeeRoleRequest{EmployeeID: *employee.id, RoleID: *role.id})
	if err != nil {
		return err
	}
	h.Success("Updated the role of %s.", updated.FullName())
	return nil
}

// UpdateEmployeeManager only offers employees that are not managers
// themselves; the candidates are the managers plus "No manager".
func (h *Handlers) UpdateEmployeeManager(ctx context.Context) error {
	employees, err := h.svc.ListEmployees(ctx)
	if err != nil {
		return err
	}
	var staff []models.EmployeeView
	for _, emp := range employees {
		if !emp.IsManager {
			staff = append(staff, emp)
		}
	}
	if len(staff) == 0 {
		h.Notice("No employees found.")
		return nil
	}
	managers, err := h.svc.ListManagers(ctx)
	if err != nil {
		return err
	}

	employee, err := h.choose("Select an employee to update manager:", employeeOptions(staff))
	if err != nil {
		return err
	}
	candidates := append(without(managerOptions(managers), *employee.id), option{label: noManager})
	manager, err := h.choose("Select a new manager for the employee:", candidates)
	if err != nil {
		return err
	}

	updated, err := h.svc.UpdateEmployeeManager(ctx, models.UpdateEmployeeManagerRequest{
		EmployeeID: *employee.id,
		ManagerID:  manager.id,
	})
	if err != nil {
		return err
	}
	if manager.id == nil {
		h.Success("%s no longer has a manager.", updated.FullName())
		return nil
	}
	h.Success("%s now reports to %s.", updated.FullName(), manager.label)
	return nil
}

func (h *Handlers) ViewEmployees(ctx context.Context) error {
	return h.showEmployees(ctx, h.svc.ListEmployees, tables.Employees)
}

func (h *Handlers) SortEmployeesBySalary(ctx context.Context) error {
	return h.showEmployees(ctx, h.svc.SortEmployeesBySalary, tables.SortedEmployees)
}

func (h *Handlers) SortEmployeesByLastName(ctx context.Context) error {
	return h.showEmployees(ctx, h.svc.SortEmployeesByLastName, tables.SortedEmployees)
}

func (h *Handlers) showEmployees(
	ctx context.Context,
	list func(context.Context) ([]models.EmployeeView, error),
	build func([]models.EmployeeView) tables.Table,
) error {
	employees, err := list(ctx)
	if err != nil {
		return err
	}
	if len(employees) == 0 {
		h.Notice("No employees found.")
		return nil
	}
	h.render(build(employees))
	return nil
}

func (h *Handlers) ViewManagers(ctx context.Context) error {
	managers, err := h.svc.ListManagers(ctx)
	if err != nil {
		return err
	}
	if len(managers) == 0 {
		h.Notice("No managers found.")
		return nil
	}
	h.render(tables.Managers(managers))
	return nil
}

func (h *Handlers) ViewEmployeesByManager(ctx context.Context) error {
	managers, err := h.svc.ListManagers(ctx)
	if err != nil {
		return err
	}
	if len(managers) == 0 {
		h.Notice("No managers found.")
		return nil
	}
	manager, err := h.choose("Choose a manager to view employees:", managerOptions(managers))
	if err != nil {
		return err
	}

	employees, err := h.svc.EmployeesByManager(ctx, *manager.id)
	if err != nil {
		return err
	}
	if len(employees) == 0 {
		h.Notice("No employees found for this manager.")
		return nil
	}
	h.render(tables.EmployeesByManager(employees))
	return nil
}

func (h *Handlers) ViewEmployeesByDepartment(ctx context.Context) error {
	departments, err := h.svc.ListDepartments(ctx)
	if err != nil {
		return err
	}
	if len(departments) == 0 {
		h.Notice("No departments found.")
		return nil
	}
	department, err := h.choose("Select a department:", departmentOptions(departments))
	if err != nil {
		return err
	}

	employees, err := h.svc.EmployeesByDepartment(ctx, *department.id)
	if err != nil {
		return err
	}
	if len(employees) == 0 {
		h.Notice("No employees found in this department.")
		return nil
	}
	h.render(tables.EmployeesByDepartment(employees))
	return nil
}

func (h *Handlers) ViewEmployeesByRole(ctx context.Context) error {
	selected, ok, err := h.selectRole(ctx, "Choose a role to view employees:")
	if !ok {
		return err
	}

	employees, err := h.svc.EmployeesByRole(ctx, *selected.id)
	if err != nil {
		return err
	}
	if len(employees) == 0 {
		h.Notice("No employees found for this role.")
		return nil
	}
	h.render(tables.EmployeesByRole(employees))
	return nil
}
