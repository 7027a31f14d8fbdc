// Package controller implements the service layer of the tracker: it
// validates typed requests, orchestrates repository operations and emits
// change events for every committed mutation.
package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gartstein/employee-tracker/internal/tracker/db"
	e "github.com/gartstein/employee-tracker/internal/tracker/errors"
	"github.com/gartstein/employee-tracker/internal/tracker/events"
	"github.com/gartstein/employee-tracker/internal/tracker/models"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"go.uber.org/zap"
)

type EventProducer interface {
	Produce(event events.Event)
}

// Repository defines the storage interface used by the service.
type Repository interface {
	CreateDepartment(ctx context.Context, department *models.Department) error
	GetDepartment(ctx context.Context, id uint) (*models.Department, error)
	ListDepartments(ctx context.Context) ([]models.Department, error)
	UpdateDepartmentName(ctx context.Context, id uint, name *string) (*models.Department, error)
	DeleteDepartment(ctx context.Context, id uint) (models.DeleteResult, error)

	CreateRole(ctx context.Context, role *models.Role) error
	GetRole(ctx context.Context, id uint) (*models.Role, error)
	ListRoles(ctx context.Context) ([]models.RoleView, error)
	RolesByDepartment(ctx context.Context, departmentID uint) ([]models.RoleView, error)
	SortRolesBySalary(ctx context.Context) ([]models.RoleView, error)
	UpdateRoleTitle(ctx context.Context, id uint, title string) error
	UpdateRoleSalary(ctx context.Context, id uint, salary float64) error
	UpdateRoleDepartment(ctx context.Context, id uint, departmentID uint) error
	DeleteRole(ctx context.Context, id uint) (models.DeleteResult, error)

	CreateEmployee(ctx context.Context, employee *models.Employee) error
	GetEmployee(ctx context.Context, id uint) (*models.Employee, error)
	ListEmployees(ctx context.Context) ([]models.EmployeeView, error)
	ListManagers(ctx context.Context) ([]models.ManagerView, error)
	EmployeesByManager(ctx context.Context, managerID uint) ([]models.EmployeeView, error)
	EmployeesByDepartment(ctx context.Context, departmentID uint) ([]models.EmployeeView, error)
	EmployeesByRole(ctx context.Context, roleID uint) ([]models.EmployeeView, error)
	SortEmployeesByLastName(ctx context.Context) ([]models.EmployeeView, error)
	SortEmployeesBySalary(ctx context.Context) ([]models.EmployeeView, error)
	UpdateEmployeeRole(ctx context.Context, id uint, roleID uint) error
	UpdateEmployeeManager(ctx context.Context, id uint, managerID *uint) error
	DeleteEmployee(ctx context.Context, id uint) (models.DeleteResult, error)

	TotalBudgetByAllDepartments(ctx context.Context) (models.BudgetReport, error)
	TotalUtilizedBudgetByDepartment(ctx context.Context, departmentID uint) (float64, error)
	EmployeeBudgetLines(ctx context.Context, departmentID uint) ([]models.EmployeeBudgetLine, error)

	WithTransaction(ctx context.Context, fn func(repo *db.Repository) error) error
	Close() error
}

// Service exposes every tracker operation to the handler layer.
type Service struct {
	repo       Repository
	producer   EventProducer
	validate   *validator.Validate
	translator ut.Translator
	logger     *zap.Logger
}

// NewService constructs a Service with a repository, an event producer,
// and a logger.
func NewService(repo Repository, producer EventProducer, logger *zap.Logger) (*Service, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, fmt.Errorf("failed to register validation messages: %w", err)
	}

	return &Service{
		repo:       repo,
		producer:   producer,
		validate:   validate,
		translator: trans,
		logger:     logger.Named("controller"),
	}, nil
}

// check validates a request against its struct tags and reports the first
// violation as ErrInvalidInput.
func (s *Service) check(req interface{}) error {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		return fmt.Errorf("%w: %s", e.ErrInvalidInput, validationErrors[0].Translate(s.translator))
	}
	return fmt.Errorf("%w: %s", e.ErrInvalidInput, err.Error())
}

func (s *Service) emit(eventType events.EventType, entity string, id uint, payload interface{}) {
	s.producer.Produce(events.NewEvent(eventType, entity, id, payload))
}

// wrap keeps domain errors as they are and annotates anything else.
func wrap(op string, err error) error {
	if isDomainError(err) {
		return err
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

func isDomainError(err error) bool {
	return errors.Is(err, e.ErrNotFound) ||
		errors.Is(err, e.ErrDuplicateName) ||
		errors.Is(err, e.ErrInvalidInput) ||
		errors.Is(err, e.ErrHasDependents)
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
