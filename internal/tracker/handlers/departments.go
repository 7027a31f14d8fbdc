package handlers

import (
	"context"

	"github.com/gartstein/employee-tracker/internal/tracker/models"
	"github.com/gartstein/employee-tracker/internal/tracker/tables"
)

func (h *Handlers) AddDepartment(ctx context.Context) error {
	name, err := h.prompt.Input("Enter the name of the department:", requireText("Department name"))
	if err != nil {
		return err
	}

	department, err := h.svc.AddDepartment(ctx, models.AddDepartmentRequest{Name: name})
	if err != nil {
		return err
	}
	h.Success("Added department %q.", department.Name)
	return nil
}

func (h *Handlers) UpdateDepartmentName(ctx context.Context) error {
	departments, err := h.svc.ListDepartments(ctx)
	if err != nil {
		return err
	}
	if len(departments) == 0 {
		h.Notice("No departments found.")
		return nil
	}

	selected, err := h.choose("Select a department to update name:", departmentOptions(departments))
	if err != nil {
		return err
	}
	name, err := h.prompt.Input("Enter the new department name:", requireText("Department name"))
	if err != nil {
		return err
	}

	department, err := h.svc.UpdateDepartmentName(ctx, models.UpdateDepartmentNameRequest{
		DepartmentID: *selected.id,
		Name:         &name,
	})
	if err != nil {
		return err
	}
	h.Success("Renamed department %q to %q.", selected.label, department.Name)
	return nil
}

func (h *Handlers) ViewDepartments(ctx context.Context) error {
	departments, err := h.svc.ListDepartments(ctx)
	if err != nil {
		return err
	}
	if len(departments) == 0 {
		h.Notice("No departments found.")
		return nil
	}
	h.render(tables.Departments(departments))
	return nil
}

func (h *Handlers) ViewTotalBudget(ctx context.Context) error {
	report, err := h.svc.TotalBudgetByAllDepartments(ctx)
	if err != nil {
		return err
	}
	if len(report.Departments) == 0 {
		h.Notice("No employees found.")
		return nil
	}
	h.render(tables.TotalBudget(report))
	return nil
}

func (h *Handlers) ViewUtilizedBudget(ctx context.Context) error {
	departments, err := h.svc.ListDepartments(ctx)
	if err != nil {
		return err
	}
	if len(departments) == 0 {
		h.Notice("No departments found.")
		return nil
	}

	selected, err := h.choose("Select a department:", departmentOptions(departments))
	if err != nil {
		return err
	}
	total, lines, err := h.svc.UtilizedBudget(ctx, *selected.id)
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		h.Notice("No employees found in this department.")
		return nil
	}
	h.render(tables.UtilizedBudget(total, lines))
	return nil
}
