// Package handlers implements one console workflow per tracker operation:
// each handler prompts for its input, calls the service and prints a
// table or a status line.
package handlers

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/gartstein/employee-tracker/internal/tracker/models"
	"github.com/gartstein/employee-tracker/internal/tracker/tables"
	"go.uber.org/zap"
)

// Prompter asks the operator for input. Implementations return
// errors.ErrCancelled when the operator aborts a prompt.
type Prompter interface {
	// Select shows options and returns the index of the chosen one.
	Select(label string, options []string) (int, error)
	// Confirm asks a yes/no question; an empty answer yields defaultYes.
	Confirm(label string, defaultYes bool) (bool, error)
	// Input reads a line of text, re-prompting until validate accepts it.
	Input(label string, validate func(string) error) (string, error)
}

// Service is the subset of the controller the handlers depend on.
type Service interface {
	AddDepartment(ctx context.Context, req models.AddDepartmentRequest) (*models.Department, error)
	ListDepartments(ctx context.Context) ([]models.Department, error)
	UpdateDepartmentName(ctx context.Context, req models.UpdateDepartmentNameRequest) (*models.Department, error)
	DeleteDepartment(ctx context.Context, req models.DeleteDepartmentRequest) (models.DeleteResult, error)
	ReassignAndDeleteDepartment(ctx context.Context, req models.ReassignAndDeleteRequest) (models.DeleteResult, error)
	TotalBudgetByAllDepartments(ctx context.Context) (models.BudgetReport, error)
	UtilizedBudget(ctx context.Context, departmentID uint) (float64, []models.EmployeeBudgetLine, error)

	AddRole(ctx context.Context, req models.AddRoleRequest) (*models.Role, error)
	ListRoles(ctx context.Context) ([]models.RoleView, error)
	RolesByDepartment(ctx context.Context, departmentID uint) ([]models.RoleView, error)
	SortRolesBySalary(ctx context.Context) ([]models.RoleView, error)
	UpdateRoleTitle(ctx context.Context, req models.UpdateRoleTitleRequest) (*models.Role, error)
	UpdateRoleSalary(ctx context.Context, req models.UpdateRoleSalaryRequest) (*models.Role, error)
	UpdateRoleDepartment(ctx context.Context, req models.UpdateRoleDepartmentRequest) (*models.Role, error)
	DeleteRole(ctx context.Context, req models.DeleteRoleRequest) (models.DeleteResult, error)
	ReassignAndDeleteRole(ctx context.Context, req models.ReassignAndDeleteRequest) (models.DeleteResult, error)

	AddEmployee(ctx context.Context, req models.AddEmployeeRequest) (*models.Employee, error)
	ListEmployees(ctx context.Context) ([]models.EmployeeView, error)
	ListManagers(ctx context.Context) ([]models.ManagerView, error)
	EmployeesByManager(ctx context.Context, managerID uint) ([]models.EmployeeView, error)
	EmployeesByDepartment(ctx context.Context, departmentID uint) ([]models.EmployeeView, error)
	EmployeesByRole(ctx context.Context, roleID uint) ([]models.EmployeeView, error)
	SortEmployeesByLastName(ctx context.Context) ([]models.EmployeeView, error)
	SortEmployeesBySalary(ctx context.Context) ([]models.EmployeeView, error)
	UpdateEmployeeRole(ctx context.Context, req models.UpdateEmployeeRoleRequest) (*models.Employee, error)
	UpdateEmployeeManager(ctx context.Context, req models.UpdateEmployeeManagerRequest) (*models.Employee, error)
	DeleteEmployee(ctx context.Context, req models.DeleteEmployeeRequest) (models.DeleteResult, error)
	ReassignAndDeleteEmployee(ctx context.Context, req models.ReassignAndDeleteRequest) (models.DeleteResult, error)
}

type Handlers struct {
	svc    Service
	prompt Prompter
	out    io.Writer
	logger *zap.Logger
}

func New(svc Service, prompt Prompter, out io.Writer, logger *zap.Logger) *Handlers {
	return &Handlers{
		svc:    svc,
		prompt: prompt,
		out:    out,
		logger: logger.Named("handlers"),
	}
}

var (
	successBadge = color.New(color.BgGreen, color.FgBlack)
	successText  = color.New(color.FgGreen)
	errorBadge   = color.New(color.BgRed, color.FgBlack)
	errorText    = color.New(color.FgRed)
	noticeText   = color.New(color.FgYellow)
)

// Success prints a green status line.
func (h *Handlers) Success(format string, args ...interface{}) {
	fmt.Fprintln(h.out, successBadge.Sprint(" SUCCESS ")+" "+successText.Sprintf(format, args...))
}

// Failure prints a red status line for err.
func (h *Handlers) Failure(err error) {
	h.Alert("%s", describe(err))
}

// Alert prints a red status line with a free-form message.
func (h *Handlers) Alert(format string, args ...interface{}) {
	fmt.Fprintln(h.out, errorBadge.Sprint(" ERROR ")+" "+errorText.Sprintf(format, args...))
}

// Notice prints an informational line that is neither success nor failure.
func (h *Handlers) Notice(format string, args ...interface{}) {
	fmt.Fprintln(h.out, noticeText.Sprintf(format, args...))
}

func (h *Handlers) render(t tables.Table) {
	tables.Render(h.out, t)
}
