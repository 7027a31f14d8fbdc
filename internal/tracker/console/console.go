// Package console is the menu front-end of the tracker. It shows the main
// menu and its submenus, dispatches the chosen workflow and loops until the
// operator picks Exit.
package console

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	e "github.com/gartstein/employee-tracker/internal/tracker/errors"
	"github.com/gartstein/employee-tracker/internal/tracker/handlers"
	"go.uber.org/zap"
)

// errExit unwinds nested menus when Exit is chosen.
var errExit = errors.New("exit")

type entry struct {
	label string
	run   func(ctx context.Context) error
	sub   *menu
	back  bool
	exit  bool
}

type menu struct {
	title   string
	entries []entry
	// once returns to the parent menu after a single workflow.
	once bool
	root bool
}

type Console struct {
	h      *handlers.Handlers
	prompt handlers.Prompter
	out    io.Writer
	logger *zap.Logger
	main   menu
}

func New(h *handlers.Handlers, prompt handlers.Prompter, out io.Writer, logger *zap.Logger) *Console {
	c := &Console{
		h:      h,
		prompt: prompt,
		out:    out,
		logger: logger.Named("console"),
	}
	c.main = mainMenu(h)
	return c
}

func mainMenu(h *handlers.Handlers) menu {
	back := entry{label: "Back to Main Menu", back: true}

	updateRole := &menu{
		title: "Update Role:",
		once:  true,
		entries: []entry{
			{label: "Update Role Title", run: h.UpdateRoleTitle},
			{label: "Update Role Department", run: h.UpdateRoleDepartment},
			{label: "Update Role Salary", run: h.UpdateRoleSalary},
			{label: "Back to Role Options", back: true},
		},
	}

	departments := &menu{
		title: "Department Options:",
		entries: []entry{
			{label: "Add Department", run: h.AddDepartment},
			{label: "Delete Department", run: h.DeleteDepartment},
			{label: "Update Department Name", run: h.UpdateDepartmentName},
			{label: "View all Departments", run: h.ViewDepartments},
			{label: "View Total Budget by All Departments", run: h.ViewTotalBudget},
			{label: "View Total Utilized Budget by Department", run: h.ViewUtilizedBudget},
			back,
		},
	}

	roles := &menu{
		title: "Role Options:",
		entries: []entry{
			{label: "Add a role", run: h.AddRole},
			{label: "Delete role", run: h.DeleteRole},
			{label: "Update Role", sub: updateRole},
			{label: "View all roles", run: h.ViewRoles},
			{label: "View Roles by Department", run: h.ViewRolesByDepartment},
			{label: "View Roles by Salary", run: h.ViewRolesBySalary},
			back,
		},
	}

	employees := &menu{
		title: "Employee Options:",
		entries: []entry{
			{label: "Add New Employee", run: h.AddEmployee},
			{label: "Delete Employee", run: h.DeleteEmployee},
			{label: "Update Employee Role", run: h.UpdateEmployeeRole},
			{label: "Update Employee Manager", run: h.UpdateEmployeeManager},
			{label: "View All Employees", run: h.ViewEmployees},
			{label: "View All Managers", run: h.ViewManagers},
			{label: "View Employees by Manager", run: h.ViewEmployeesByManager},
			{label: "View Employees by Department", run: h.ViewEmployeesByDepartment},
			{label: "View Employees by Role", run: h.ViewEmployeesByRole},
			{label: "Sort Employees by Salary", run: h.SortEmployeesBySalary},
			{label: "Sort Employees by Last Name", run: h.SortEmployeesByLastName},
			back,
		},
	}

	return menu{
		title: "What would you like to do?",
		root:  true,
		entries: []entry{
			{label: "Department Options", sub: departments},
			{label: "Role Options", sub: roles},
			{label: "Employee Options", sub: employees},
			{label: "Exit", exit: true},
		},
	}
}

// Run shows the main menu until Exit is chosen. Only prompt failures and
// context cancellation end it with an error; workflow errors are printed
// and the menu is shown again.
func (c *Console) Run(ctx context.Context) error {
	color.New(color.FgCyan, color.Bold).Fprintln(c.out, "Employee Tracker")
	c.logger.Info("console started")

	err := c.show(ctx, c.main)
	if errors.Is(err, errExit) {
		fmt.Fprintln(c.out, "Exiting...")
		c.logger.Info("console exited")
		return nil
	}
	return err
}

func (c *Console) show(ctx context.Context, m menu) error {
	labels := make([]string, len(m.entries))
	for i, en := range m.entries {
		labels[i] = en.label
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		idx, err := c.prompt.Select(m.title, labels)
		if errors.Is(err, e.ErrCancelled) {
			// Ctrl-C leaves a submenu and quits from the main menu.
			if m.root {
				return errExit
			}
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read menu choice: %w", err)
		}
		if idx < 0 || idx >= len(m.entries) {
			c.logger.Warn("menu choice out of range", zap.String("menu", m.title), zap.Int("index", idx))
			continue
		}

		choice := m.entries[idx]
		switch {
		case choice.exit:
			return errExit
		case choice.back:
			return nil
		case choice.sub != nil:
			if err := c.show(ctx, *choice.sub); err != nil {
				return err
			}
		default:
			c.dispatch(ctx, choice)
		}

		if m.once {
			return nil
		}
	}
}

// dispatch runs one workflow. A panic is recovered so the menu keeps running.
func (c *Console) dispatch(ctx context.Context, choice entry) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("workflow panicked",
				zap.String("action", choice.label),
				zap.Any("panic", r),
				zap.Stack("stack"))
			c.h.Alert("Unexpected failure in %q: %v", choice.label, r)
		}
	}()

	c.logger.Debug("dispatching workflow", zap.String("action", choice.label))
	err := choice.run(ctx)
	switch {
	case err == nil:
	case errors.Is(err, e.ErrCancelled):
		c.h.Notice("Operation cancelled.")
	default:
		c.logger.Warn("workflow failed", zap.String("action", choice.label), zap.Error(err))
		c.h.Failure(err)
	}
}
