package controller

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/gartstein/employee-tracker/internal/pkg/utils"
	"github.com/gartstein/employee-tracker/internal/tracker/db"
	e "github.com/gartstein/employee-tracker/internal/tracker/errors"
	"github.com/gartstein/employee-tracker/internal/tracker/events"
	"github.com/gartstein/employee-tracker/internal/tracker/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// MockRepository implements the Repository interface for testing. Methods
// without a function field panic through the nil embedded interface.
type MockRepository struct {
	Repository
	createDepartment     func(context.Context, *models.Department) error
	getDepartment        func(context.Context, uint) (*models.Department, error)
	updateDepartmentName func(context.Context, uint, *string) (*models.Department, error)
	deleteDepartment     func(context.Context, uint) (models.DeleteResult, error)
	createRole           func(context.Context, *models.Role) error
	getRole              func(context.Context, uint) (*models.Role, error)
	updateRoleSalary     func(context.Context, uint, float64) error
	createEmployee       func(context.Context, *models.Employee) error
	getEmployee          func(context.Context, uint) (*models.Employee, error)
	withTransaction      func(context.Context, func(*db.Repository) error) error
}

func (m *MockRepository) CreateDepartment(ctx context.Context, d *models.Department) error {
	return m.createDepartment(ctx, d)
}

func (m *MockRepository) GetDepartment(ctx context.Context, id uint) (*models.Department, error) {
	return m.getDepartment(ctx, id)
}

func (m *MockRepository) UpdateDepartmentName(ctx context.Context, id uint, name *string) (*models.Department, error) {
	return m.updateDepartmentName(ctx, id, name)
}

func (m *MockRepository) DeleteDepartment(ctx context.Context, id uint) (models.DeleteResult, error) {
	return m.deleteDepartment(ctx, id)
}

func (m *MockRepository) CreateRole(ctx context.Context, r *models.Role) error {
	return m.createRole(ctx, r)
}

func (m *MockRepository) GetRole(ctx context.Context, id uint) (*models.Role, error) {
	return m.getRole(ctx, id)
}

func (m *MockRepository) UpdateRoleSalary(ctx context.Context, id uint, salary float64) error {
	return m.updateRoleSalary(ctx, id, salary)
}

func (m *MockRepository) CreateEmployee(ctx context.Context, emp *models.Employee) error {
	return m.createEmployee(ctx, emp)
}

func (m *MockRepository) GetEmployee(ctx context.Context, id uint) (*models.Employee, error) {
	return m.getEmployee(ctx, id)
}

func (m *MockRepository) WithTransaction(ctx context.Context, fn func(*db.Repository) error) error {
	return m.withTransaction(ctx, fn)
}

func (m *MockRepository) Close() error {
	return nil
}

// MockProducer is a test double for the Kafka producer.
type MockProducer struct {
	producedEvents []events.Event
}

func (m *MockProducer) Produce(event events.Event) {
	m.producedEvents = append(m.producedEvents, event)
}

func newTestService(t *testing.T, repo Repository, producer EventProducer) *Service {
	service, err := NewService(repo, producer, zaptest.NewLogger(t))
	require.NoError(t, err)
	return service
}

func TestService_AddDepartment(t *testing.T) {
	tests := []struct {
		name          string
		input         models.AddDepartmentRequest
		mockSetup     func(*MockRepository)
		expectedError error
	}{
		{
			name:  "successful creation",
			input: models.AddDepartmentRequest{Name: "  Engineering "},
			mockSetup: func(mr *MockRepository) {
				mr.createDepartment = func(_ context.Context, d *models.Department) error {
					if d.Name != "Engineering" {
						return errors.New("name was not trimmed")
					}
					d.ID = 1
					return nil
				}
			},
		},
		{
			name:          "blank name",
			input:         models.AddDepartmentRequest{Name: "   "},
			mockSetup:     func(*MockRepository) {},
			expectedError: e.ErrInvalidInput,
		},
		{
			name:          "name too long",
			input:         models.AddDepartmentRequest{Name: strings.Repeat("x", 31)},
			mockSetup:     func(*MockRepository) {},
			expectedError: e.ErrInvalidInput,
		},
		{
			name:  "duplicate name",
			input: models.AddDepartmentRequest{Name: "Engineering"},
			mockSetup: func(mr *MockRepository) {
				mr.createDepartment = func(context.Context, *models.Department) error {
					return e.ErrDuplicateName
				}
			},
			expectedError: e.ErrDuplicateName,
		},
		{
			name:  "repository error",
			input: models.AddDepartmentRequest{Name: "Engineering"},
			mockSetup: func(mr *MockRepository) {
				mr.createDepartment = func(context.Context, *models.Department) error {
					return errors.New("database error")
				}
			},
			expectedError: errors.New("failed to create department: database error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &MockRepository{}
			mockProducer := &MockProducer{}
			tt.mockSetup(mockRepo)
			service := newTestService(t, mockRepo, mockProducer)

			result, err := service.AddDepartment(context.Background(), tt.input)

			if tt.expectedError != nil {
				require.Error(t, err)
				if errors.Is(tt.expectedError, e.ErrInvalidInput) || errors.Is(tt.expectedError, e.ErrDuplicateName) {
					assert.ErrorIs(t, err, tt.expectedError)
				} else {
					assert.EqualError(t, err, tt.expectedError.Error())
				}
				assert.Empty(t, mockProducer.producedEvents, "failed operations must not emit events")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, uint(1), result.ID)
			require.Len(t, mockProducer.producedEvents, 1)
			assert.Equal(t, events.DepartmentCreated, mockProducer.producedEvents[0].Type)
			assert.Equal(t, uint(1), mockProducer.producedEvents[0].EntityID)
		})
	}
}

func TestService_UpdateDepartmentName(t *testing.T) {
	tests := []struct {
		name          string
		input         models.UpdateDepartmentNameRequest
		mockSetup     func(*MockRepository)
		expectedError error
	}{
		{
			name:          "nil name",
			input:         models.UpdateDepartmentNameRequest{DepartmentID: 1},
			mockSetup:     func(*MockRepository) {},
			expectedError: e.ErrInvalidInput,
		},
		{
			name:          "blank name",
			input:         models.UpdateDepartmentNameRequest{DepartmentID: 1, Name: utils.Ptr(" ")},
			mockSetup:     func(*MockRepository) {},
			expectedError: e.ErrInvalidInput,
		},
		{
			name:          "missing department id",
			input:         models.UpdateDepartmentNameRequest{Name: utils.Ptr("Platform")},
			mockSetup:     func(*MockRepository) {},
			expectedError: e.ErrInvalidInput,
		},
		{
			name:  "not found",
			input: models.UpdateDepartmentNameRequest{DepartmentID: 9, Name: utils.Ptr("Platform")},
			mockSetup: func(mr *MockRepository) {
				mr.updateDepartmentName = func(context.Context, uint, *string) (*models.Department, error) {
					return nil, e.ErrNotFound
				}
			},
			expectedError: e.ErrNotFound,
		},
		{
			name:  "renamed",
			input: models.UpdateDepartmentNameRequest{DepartmentID: 1, Name: utils.Ptr("Platform ")},
			mockSetup: func(mr *MockRepository) {
				mr.updateDepartmentName = func(_ context.Context, id uint, name *string) (*models.Department, error) {
					return &models.Department{ID: id, Name: *name}, nil
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &MockRepository{}
			mockProducer := &MockProducer{}
			tt.mockSetup(mockRepo)
			service := newTestService(t, mockRepo, mockProducer)

			result, err := service.UpdateDepartmentName(context.Background(), tt.input)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Empty(t, mockProducer.producedEvents)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Platform", result.Name)
			require.Len(t, mockProducer.producedEvents, 1)
			assert.Equal(t, events.DepartmentUpdated, mockProducer.producedEvents[0].Type)
		})
	}
}

func TestService_DeleteDepartment(t *testing.T) {
	t.Run("blocked emits nothing", func(t *testing.T) {
		blocked := models.DeleteResult{Status: models.DeleteBlocked, Roles: []models.RoleRef{{ID: 10, Title: "Engineer"}}}
		mockRepo := &MockRepository{
			deleteDepartment: func(context.Context, uint) (models.DeleteResult, error) { return blocked, nil },
		}
		mockProducer := &MockProducer{}
		service := newTestService(t, mockRepo, mockProducer)

		result, err := service.DeleteDepartment(context.Background(), models.DeleteDepartmentRequest{DepartmentID: 1})

		require.NoError(t, err)
		assert.Equal(t, blocked, result)
		assert.Empty(t, mockProducer.producedEvents)
	})

	t.Run("done emits deletion", func(t *testing.T) {
		mockRepo := &MockRepository{
			deleteDepartment: func(context.Context, uint) (models.DeleteResult, error) {
				return models.DeleteResult{Status: models.DeleteDone}, nil
			},
		}
		mockProducer := &MockProducer{}
		service := newTestService(t, mockRepo, mockProducer)

		result, err := service.DeleteDepartment(context.Background(), models.DeleteDepartmentRequest{DepartmentID: 2})

		require.NoError(t, err)
		assert.False(t, result.Blocked())
		require.Len(t, mockProducer.producedEvents, 1)
		assert.Equal(t, events.DepartmentDeleted, mockProducer.producedEvents[0].Type)
		assert.Equal(t, uint(2), mockProducer.producedEvents[0].EntityID)
	})

	t.Run("zero id rejected", func(t *testing.T) {
		service := newTestService(t, &MockRepository{}, &MockProducer{})

		_, err := service.DeleteDepartment(context.Background(), models.DeleteDepartmentRequest{})

		assert.ErrorIs(t, err, e.ErrInvalidInput)
	})
}

func TestService_AddRole(t *testing.T) {
	departmentExists := func(mr *MockRepository) {
		mr.getDepartment = func(_ context.Context, id uint) (*models.Department, error) {
			return &models.Department{ID: id, Name: "Engineering"}, nil
		}
	}

	tests := []struct {
		name          string
		input         models.AddRoleRequest
		mockSetup     func(*MockRepository)
		expectedError error
	}{
		{
			name:          "negative salary",
			input:         models.AddRoleRequest{Title: "Engineer", Salary: -1, DepartmentID: 1},
			mockSetup:     departmentExists,
			expectedError: e.ErrInvalidInput,
		},
		{
			name:          "infinite salary",
			input:         models.AddRoleRequest{Title: "Engineer", Salary: math.Inf(1), DepartmentID: 1},
			mockSetup:     departmentExists,
			expectedError: e.ErrInvalidInput,
		},
		{
			name:          "NaN salary",
			input:         models.AddRoleRequest{Title: "Engineer", Salary: math.NaN(), DepartmentID: 1},
			mockSetup:     departmentExists,
			expectedError: e.ErrInvalidInput,
		},
		{
			name:          "salary above column precision",
			input:         models.AddRoleRequest{Title: "Engineer", Salary: 1e10, DepartmentID: 1},
			mockSetup:     departmentExists,
			expectedError: e.ErrInvalidInput,
		},
		{
			name:          "blank title",
			input:         models.AddRoleRequest{Title: " ", Salary: 1, DepartmentID: 1},
			mockSetup:     departmentExists,
			expectedError: e.ErrInvalidInput,
		},
		{
			name:  "unknown department",
			input: models.AddRoleRequest{Title: "Engineer", Salary: 90000, DepartmentID: 7},
			mockSetup: func(mr *MockRepository) {
				mr.getDepartment = func(context.Context, uint) (*models.Department, error) {
					return nil, e.ErrNotFound
				}
			},
			expectedError: e.ErrNotFound,
		},
		{
			name:  "created",
			input: models.AddRoleRequest{Title: "Engineer", Salary: 90000, DepartmentID: 1},
			mockSetup: func(mr *MockRepository) {
				departmentExists(mr)
				mr.createRole = func(_ context.Context, r *models.Role) error {
					r.ID = 10
					return nil
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &MockRepository{}
			mockProducer := &MockProducer{}
			tt.mockSetup(mockRepo)
			service := newTestService(t, mockRepo, mockProducer)

			role, err := service.AddRole(context.Background(), tt.input)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, uint(10), role.ID)
			assert.InDelta(t, 90000, role.Salary, 0.001)
			require.Len(t, mockProducer.producedEvents, 1)
			assert.Equal(t, events.RoleCreated, mockProducer.producedEvents[0].Type)
		})
	}
}

func TestService_UpdateRoleSalary(t *testing.T) {
	mockRepo := &MockRepository{
		updateRoleSalary: func(context.Context, uint, float64) error { return nil },
		getRole: func(_ context.Context, id uint) (*models.Role, error) {
			return &models.Role{ID: id, Title: "Engineer", Salary: 95000, DepartmentID: 1}, nil
		},
	}
	mockProducer := &MockProducer{}
	service := newTestService(t, mockRepo, mockProducer)

	role, err := service.UpdateRoleSalary(context.Background(), models.UpdateRoleSalaryRequest{RoleID: 10, Salary: 95000})
	require.NoError(t, err)
	assert.InDelta(t, 95000, role.Salary, 0.001)
	require.Len(t, mockProducer.producedEvents, 1)
	assert.Equal(t, events.RoleUpdated, mockProducer.producedEvents[0].Type)

	for _, salary := range []float64{-5, math.Inf(1), math.NaN(), 1e10} {
		_, err = service.UpdateRoleSalary(context.Background(), models.UpdateRoleSalaryRequest{RoleID: 10, Salary: salary})
		assert.ErrorIs(t, err, e.ErrInvalidInput, "salary %v", salary)
	}
	assert.Len(t, mockProducer.producedEvents, 1)
}

func TestService_AddEmployee(t *testing.T) {
	roleExists := func(mr *MockRepository) {
		mr.getRole = func(_ context.Context, id uint) (*models.Role, error) {
			return &models.Role{ID: id}, nil
		}
	}

	tests := []struct {
		name          string
		input         models.AddEmployeeRequest
		mockSetup     func(*MockRepository)
		expectedError error
	}{
		{
			name:          "missing last name",
			input:         models.AddEmployeeRequest{FirstName: "Alice", RoleID: 10},
			mockSetup:     roleExists,
			expectedError: e.ErrInvalidInput,
		},
		{
			name:  "unknown manager",
			input: models.AddEmployeeRequest{FirstName: "Alice", LastName: "Smith", RoleID: 10, ManagerID: utils.Ptr(uint(5))},
			mockSetup: func(mr *MockRepository) {
				roleExists(mr)
				mr.getEmployee = func(context.Context, uint) (*models.Employee, error) {
					return nil, e.ErrNotFound
				}
			},
			expectedError: e.ErrNotFound,
		},
		{
			name:  "created manager",
			input: models.AddEmployeeRequest{FirstName: "Alice", LastName: "Smith", RoleID: 10, IsManager: true},
			mockSetup: func(mr *MockRepository) {
				roleExists(mr)
				mr.createEmployee = func(_ context.Context, emp *models.Employee) error {
					if !emp.IsManager {
						return errors.New("manager flag lost")
					}
					emp.ID = 100
					return nil
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &MockRepository{}
			mockProducer := &MockProducer{}
			tt.mockSetup(mockRepo)
			service := newTestService(t, mockRepo, mockProducer)

			employee, err := service.AddEmployee(context.Background(), tt.input)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, uint(100), employee.ID)
			require.Len(t, mockProducer.producedEvents, 1)
			assert.Equal(t, events.EmployeeCreated, mockProducer.producedEvents[0].Type)
		})
	}
}

func TestService_UpdateEmployeeManagerSelf(t *testing.T) {
	service := newTestService(t, &MockRepository{}, &MockProducer{})

	_, err := service.UpdateEmployeeManager(context.Background(), models.UpdateEmployeeManagerRequest{
		EmployeeID: 3,
		ManagerID:  utils.Ptr(uint(3)),
	})

	assert.ErrorIs(t, err, e.ErrInvalidInput)
}

func TestService_ReassignValidation(t *testing.T) {
	called := false
	mockRepo := &MockRepository{
		withTransaction: func(context.Context, func(*db.Repository) error) error {
			called = true
			return nil
		},
	}
	service := newTestService(t, mockRepo, &MockProducer{})
	ctx := context.Background()

	_, err := service.ReassignAndDeleteDepartment(ctx, models.ReassignAndDeleteRequest{
		TargetID:      1,
		Reassignments: []models.Reassignment{{DependentID: 10}},
	})
	assert.ErrorIs(t, err, e.ErrInvalidInput, "a role needs a new department")

	_, err = service.ReassignAndDeleteRole(ctx, models.ReassignAndDeleteRequest{
		TargetID:      10,
		Reassignments: []models.Reassignment{{DependentID: 100, TargetID: utils.Ptr(uint(10))}},
	})
	assert.ErrorIs(t, err, e.ErrInvalidInput, "cannot move employees onto the role being deleted")

	_, err = service.ReassignAndDeleteEmployee(ctx, models.ReassignAndDeleteRequest{
		Reassignments: []models.Reassignment{{DependentID: 100}},
	})
	assert.ErrorIs(t, err, e.ErrInvalidInput, "target id is required")

	_, err = service.ReassignAndDeleteEmployee(ctx, models.ReassignAndDeleteRequest{
		TargetID:      5,
		Reassignments: []models.Reassignment{{TargetID: utils.Ptr(uint(6))}},
	})
	assert.ErrorIs(t, err, e.ErrInvalidInput, "dependent id is required")

	assert.False(t, called, "invalid requests must not open a transaction")
}
