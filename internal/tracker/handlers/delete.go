package handlers

import (
	"context"
	"fmt"

	e "github.com/gartstein/employee-tracker/internal/tracker/errors"
	"github.com/gartstein/employee-tracker/internal/tracker/models"
	"go.uber.org/zap"
)

type deleteState int

const (
	stateSelectTarget deleteState = iota
	stateConfirm
	stateAttempt
	stateReassign
	stateRetry
	stateDone
	stateCancelled
)

func (s deleteState) String() string {
	return [...]string{"select_target", "confirm", "attempt", "reassign", "retry", "done", "cancelled"}[s]
}

// deleteFlow describes one delete-with-reassignment workflow. The same
// state machine drives departments, roles and employees.
type deleteFlow struct {
	noun       string
	childNoun  string
	parentNoun string
	// empty is shown when there is nothing to delete.
	empty   string
	targets func(ctx context.Context) ([]option, error)
	attempt func(ctx context.Context, id uint) (models.DeleteResult, error)
	// dependents lists the rows that blocked the delete, in listing order.
	dependents func(result models.DeleteResult) []option
	// parents lists the valid new parents for one dependent.
	parents func(ctx context.Context, target, dependent uint) ([]option, error)
	retry   func(ctx context.Context, req models.ReassignAndDeleteRequest) (models.DeleteResult, error)
}

// runDelete walks SelectTarget, Confirm, Attempt, Reassign and Retry. The
// reassignment choices are collected first and applied together with the
// retried delete, so a failure leaves every row as it was.
func (h *Handlers) runDelete(ctx context.Context, flow deleteFlow) error {
	var (
		target        option
		result        models.DeleteResult
		reassignments []models.Reassignment
	)

	state := stateSelectTarget
	for state != stateDone && state != stateCancelled {
		h.logger.Debug("delete workflow", zap.String("noun", flow.noun), zap.Stringer("state", state))

		switch state {
		case stateSelectTarget:
			targets, err := flow.targets(ctx)
			if err != nil {
				return err
			}
			if len(targets) == 0 {
				h.Notice("%s", flow.empty)
				return nil
			}
			target, err = h.choose(fmt.Sprintf("Choose the %s to delete:", flow.noun), targets)
			if err != nil {
				return err
			}
			state = stateConfirm

		case stateConfirm:
			ok, err := h.prompt.Confirm(fmt.Sprintf("Are you sure you want to delete this %s?", flow.noun), false)
			if err != nil {
				return err
			}
			if !ok {
				state = stateCancelled
				continue
			}
			state = stateAttempt

		case stateAttempt:
			var err error
			result, err = flow.attempt(ctx, *target.id)
			if err != nil {
				return err
			}
			if result.Blocked() {
				state = stateReassign
				continue
			}
			state = stateDone

		case stateReassign:
			dependents := flow.dependents(result)
			h.Notice("The %s %q still has %d %s(s) associated with it. Reassign them before deleting.",
				flow.noun, target.label, len(dependents), flow.childNoun)

			reassignments = make([]models.Reassignment, 0, len(dependents))
			for _, dependent := range dependents {
				parents, err := flow.parents(ctx, *target.id, *dependent.id)
				if err != nil {
					return err
				}
				if len(parents) == 0 {
					return fmt.Errorf("%w: there is no other %s to move %s %q to",
						e.ErrHasDependents, flow.parentNoun, flow.childNoun, dependent.label)
				}
				parent, err := h.choose(fmt.Sprintf("Select a new %s for %q:", flow.parentNoun, dependent.label), parents)
				if err != nil {
					return err
				}
				reassignments = append(reassignments, models.Reassignment{DependentID: *dependent.id, TargetID: parent.id})
			}
			state = stateRetry

		case stateRetry:
			var err error
			result, err = flow.retry(ctx, models.ReassignAndDeleteRequest{
				TargetID:      *target.id,
				Reassignments: reassignments,
			})
			if err != nil {
				return err
			}
			state = stateDone
		}
	}

	if state == stateCancelled {
		h.Notice("Deletion cancelled.")
		return nil
	}
	if len(reassignments) > 0 {
		h.Success("Reassigned %d %s(s) and deleted %s %q.", len(reassignments), flow.childNoun, flow.noun, target.label)
		return nil
	}
	h.Success("Deleted %s %q.", flow.noun, target.label)
	return nil
}

func (h *Handlers) DeleteDepartment(ctx context.Context) error {
	var departments []models.Department
	return h.runDelete(ctx, deleteFlow{
		noun:       "department",
		childNoun:  "role",
		parentNoun: "department",
		empty:      "No departments found.",
		targets: func(ctx context.Context) ([]option, error) {
			var err error
			departments, err = h.svc.ListDepartments(ctx)
			return departmentOptions(departments), err
		},
		attempt: func(ctx context.Context, id uint) (models.DeleteResult, error) {
			return h.svc.DeleteDepartment(ctx, models.DeleteDepartmentRequest{DepartmentID: id})
		},
		dependents: func(result models.DeleteResult) []option {
			out := make([]option, 0, len(result.Roles))
			for _, r := range result.Roles {
				id := r.ID
				out = append(out, option{label: r.Title, id: &id})
			}
			return out
		},
		parents: func(_ context.Context, target, _ uint) ([]option, error) {
			return without(departmentOptions(departments), target), nil
		},
		retry: h.svc.ReassignAndDeleteDepartment,
	})
}

func (h *Handlers) DeleteRole(ctx context.Context) error {
	var roles []models.RoleView
	return h.runDelete(ctx, deleteFlow{
		noun:       "role",
		childNoun:  "employee",
		parentNoun: "role",
		empty:      "No roles found.",
		targets: func(ctx context.Context) ([]option, error) {
			var err error
			roles, err = h.svc.ListRoles(ctx)
			return roleOptions(roles), err
		},
		attempt: func(ctx context.Context, id uint) (models.DeleteResult, error) {
			return h.svc.DeleteRole(ctx, models.DeleteRoleRequest{RoleID: id})
		},
		dependents: employeeRefOptions,
		parents: func(_ context.Context, target, _ uint) ([]option, error) {
			return without(roleOptions(roles), target), nil
		},
		retry: h.svc.ReassignAndDeleteRole,
	})
}

// DeleteEmployee requires every direct report to get a new manager, or
// none, before the employee is removed.
func (h *Handlers) DeleteEmployee(ctx context.Context) error {
	var managers []option
	return h.runDelete(ctx, deleteFlow{
		noun:       "employee",
		childNoun:  "direct report",
		parentNoun: "manager",
		empty:      "No employees found.",
		targets: func(ctx context.Context) ([]option, error) {
			employees, err := h.svc.ListEmployees(ctx)
			return employeeOptions(employees), err
		},
		attempt: func(ctx context.Context, id uint) (models.DeleteResult, error) {
			return h.svc.DeleteEmployee(ctx, models.DeleteEmployeeRequest{EmployeeID: id})
		},
		dependents: employeeRefOptions,
		parents: func(ctx context.Context, target, dependent uint) ([]option, error) {
			if managers == nil {
				list, err := h.svc.ListManagers(ctx)
				if err != nil {
					return nil, err
				}
				managers = managerOptions(list)
			}
			candidates := without(managers, target, dependent)
			return append(candidates, option{label: noManager}), nil
		},
		retry: h.svc.ReassignAndDeleteEmployee,
	})
}

func employeeRefOptions(result models.DeleteResult) []option {
	out := make([]option, 0, len(result.Employees))
	for _, emp := range result.Employees {
		id := emp.ID
		out = append(out, option{label: emp.FullName(), id: &id})
	}
	return out
}
