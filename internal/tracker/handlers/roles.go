package handlers

import (
	"context"

	"github.com/gartstein/employee-tracker/internal/tracker/models"
	"github.com/gartstein/employee-tracker/internal/tracker/tables"
)

func (h *Handlers) AddRole(ctx context.Context) error {
	departments, err := h.svc.ListDepartments(ctx)
	if err != nil {
		return err
	}
	if len(departments) == 0 {
		h.Notice("No departments found. Please add departments before adding roles.")
		return nil
	}

	title, err := h.prompt.Input("Enter the title of the role:", requireText("Role title"))
	if err != nil {
		return err
	}
	rawSalary, err := h.prompt.Input("Enter the salary for the role:", validateSalary)
	if err != nil {
		return err
	}
	salary, err := parseSalary(rawSalary)
	if err != nil {
		return err
	}
	department, err := h.choose("Choose the department for the role:", departmentOptions(departments))
	if err != nil {
		return err
	}

	role, err := h.svc.AddRole(ctx, models.AddRoleRequest{Title: title, Salary: salary, DepartmentID: *department.id})
	if err != nil {
		return err
	}
	h.Success("Added role %q to %s.", role.Title, department.label)
	return nil
}

// selectRole lists the roles and asks for one. ok is false when there are none.
func (h *Handlers) selectRole(ctx context.Context, label string) (option, bool, error) {
	roles, err := h.svc.ListRoles(ctx)
	if err != nil {
		return option{}, false, err
	}
	if len(roles) == 0 {
		h.Notice("No roles found.")
		return option{}, false, nil
	}
	selected, err := h.choose(label, roleOptions(roles))
	return selected, err == nil, err
}

func (h *Handlers) UpdateRoleTitle(ctx context.Context) error {
	selected, ok, err := h.selectRole(ctx, "Select a role to update:")
	if !ok {
		return err
	}
	title, err := h.prompt.Input("Enter the new role title:", requireText("Role title"))
	if err != nil {
		return err
	}

	role, err := h.svc.UpdateRoleTitle(ctx, models.UpdateRoleTitleRequest{RoleID: *selected.id, Title: title})
	if err != nil {
		return err
	}
	h.Success("Role title updated to %q.", role.Title)
	return nil
}

func (h *Handlers) UpdateRoleSalary(ctx context.Context) error {
	selected, ok, err := h.selectRole(ctx, "Choose the role to update salary:")
	if !ok {
		return err
	}
	rawSalary, err := h.prompt.Input("Enter the new salary:", validateSalary)
	if err != nil {
		return err
	}
	salary, err := parseSalary(rawSalary)
	if err != nil {
		return err
	}

	role, err := h.svc.UpdateRoleSalary(ctx, models.UpdateRoleSalaryRequest{RoleID: *selected.id, Salary: salary})
	if err != nil {
		return err
	}
	h.Success("Salary of %q updated to %s.", role.Title, tables.Currency(role.Salary))
	return nil
}

func (h *Handlers) UpdateRoleDepartment(ctx context.Context) error {
	selected, ok, err := h.selectRole(ctx, "Select a role to update its department:")
	if !ok {
		return err
	}
	departments, err := h.svc.ListDepartments(ctx)
	if err != nil {
		return err
	}
	department, err := h.choose("Select a new department for the role:", departmentOptions(departments))
	if err != nil {
		return err
	}

	role, err := h.svc.UpdateRoleDepartment(ctx, models.UpdateRoleDepartmentRequest{
		RoleID:       *selected.id,
		DepartmentID: *department.id,
	})
	if err != nil {
		return err
	}
	h.Success("Moved role %q to %s.", role.Title, department.label)
	return nil
}

func (h *Handlers) ViewRoles(ctx context.Context) error {
	roles, err := h.svc.ListRoles(ctx)
	if err != nil {
		return err
	}
	if len(roles) == 0 {
		h.Notice("No roles found.")
		return nil
	}
	h.render(tables.Roles(roles))
	return nil
}

func (h *Handlers) ViewRolesBySalary(ctx context.Context) error {
	roles, err := h.svc.SortRolesBySalary(ctx)
	if err != nil {
		return err
	}
	if len(roles) == 0 {
		h.Notice("No roles found.")
		return nil
	}
	h.render(tables.Roles(roles))
	return nil
}

func (h *Handlers) ViewRolesByDepartment(ctx context.Context) error {
	departments, err := h.svc.ListDepartments(ctx)
	if err != nil {
		return err
	}
	if len(departments) == 0 {
		h.Notice("No departments found.")
		return nil
	}
	department, err := h.choose("Select a department to view roles:", departmentOptions(departments))
	if err != nil {
		return err
	}

	roles, err := h.svc.RolesByDepartment(ctx, *department.id)
	if err != nil {
		return err
	}
	if len(roles) == 0 {
		h.Notice("No roles found for this department.")
		return nil
	}
	h.render(tables.Roles(roles))
	return nil
}
