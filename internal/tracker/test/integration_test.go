package test

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gartstein/employee-tracker/internal/tracker/controller"
	"github.com/gartstein/employee-tracker/internal/tracker/db"
	e "github.com/gartstein/employee-tracker/internal/tracker/errors"
	"github.com/gartstein/employee-tracker/internal/tracker/events"
	"github.com/gartstein/employee-tracker/internal/tracker/models"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

// The suite runs against a real postgres, and optionally Kafka, described by
// TRACKER_TEST_DB_HOST (required), TRACKER_TEST_DB_PORT, TRACKER_TEST_DB_USER,
// TRACKER_TEST_DB_PASSWORD, TRACKER_TEST_DB_NAME and TRACKER_TEST_KAFKA_BROKERS.
type IntegrationTestSuite struct {
	suite.Suite
	repo        *db.Repository
	logger      *zap.Logger
	testTimeout time.Duration
}

func TestIntegrationSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests")
	}
	if os.Getenv("TRACKER_TEST_DB_HOST") == "" {
		t.Skip("TRACKER_TEST_DB_HOST not set")
	}
	suite.Run(t, new(IntegrationTestSuite))
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func (s *IntegrationTestSuite) SetupSuite() {
	s.logger = zap.NewNop()
	s.testTimeout = 20 * time.Second

	port, err := strconv.Atoi(envOr("TRACKER_TEST_DB_PORT", "5432"))
	s.Require().NoError(err)

	s.repo, err = db.NewRepository(&db.Config{
		Driver:         db.DriverPostgres,
		Host:           os.Getenv("TRACKER_TEST_DB_HOST"),
		Port:           port,
		User:           envOr("TRACKER_TEST_DB_USER", "test"),
		Password:       envOr("TRACKER_TEST_DB_PASSWORD", "test"),
		DBName:         envOr("TRACKER_TEST_DB_NAME", "test"),
		SSLMode:        "disable",
		ConnectTimeout: 30 * time.Second,
	}, s.logger)
	if err != nil {
		s.T().Fatal("Database initialization failed:", err)
	}
}

func (s *IntegrationTestSuite) TearDownSuite() {
	if s.repo != nil {
		_ = s.repo.Close()
	}
}

func (s *IntegrationTestSuite) SetupTest() {
	ctx, cancel := context.WithTimeout(context.Background(), s.testTimeout)
	defer cancel()

	if err := s.repo.Exec(ctx, "TRUNCATE TABLE employee, role, department RESTART IDENTITY CASCADE"); err != nil {
		s.T().Fatal("Failed to clean database:", err)
	}
}

func (s *IntegrationTestSuite) service(producer controller.EventProducer) *controller.Service {
	svc, err := controller.NewService(s.repo, producer, s.logger)
	s.Require().NoError(err)
	return svc
}

func (s *IntegrationTestSuite) TestDuplicateDepartmentName() {
	ctx, cancel := context.WithTimeout(context.Background(), s.testTimeout)
	defer cancel()
	svc := s.service(events.NopProducer{})

	_, err := svc.AddDepartment(ctx, models.AddDepartmentRequest{Name: "Sales"})
	s.Require().NoError(err)

	_, err = svc.AddDepartment(ctx, models.AddDepartmentRequest{Name: "Sales"})
	assert.ErrorIs(s.T(), err, e.ErrDuplicateName)

	departments, err := svc.ListDepartments(ctx)
	s.Require().NoError(err)
	assert.Len(s.T(), departments, 1)
}

func (s *IntegrationTestSuite) TestReassignAndDeleteDepartment() {
	ctx, cancel := context.WithTimeout(context.Background(), s.testTimeout)
	defer cancel()
	svc := s.service(events.NopProducer{})

	engineering, err := svc.AddDepartment(ctx, models.AddDepartmentRequest{Name: "Engineering"})
	s.Require().NoError(err)
	product, err := svc.AddDepartment(ctx, models.AddDepartmentRequest{Name: "Product"})
	s.Require().NoError(err)
	engineer, err := svc.AddRole(ctx, models.AddRoleRequest{Title: "Engineer", Salary: 90000, DepartmentID: engineering.ID})
	s.Require().NoError(err)
	_, err = svc.AddEmployee(ctx, models.AddEmployeeRequest{FirstName: "Alice", LastName: "Smith", RoleID: engineer.ID})
	s.Require().NoError(err)

	result, err := svc.DeleteDepartment(ctx, models.DeleteDepartmentRequest{DepartmentID: engineering.ID})
	s.Require().NoError(err)
	s.Require().True(result.Blocked())
	s.Require().Len(result.Roles, 1)

	result, err = svc.ReassignAndDeleteDepartment(ctx, models.ReassignAndDeleteRequest{
		TargetID:      engineering.ID,
		Reassignments: []models.Reassignment{{DependentID: engineer.ID, TargetID: &product.ID}},
	})
	s.Require().NoError(err)
	assert.False(s.T(), result.Blocked())

	roles, err := svc.RolesByDepartment(ctx, product.ID)
	s.Require().NoError(err)
	s.Require().Len(roles, 1)
	assert.Equal(s.T(), "Engineer", roles[0].Title)

	report, err := svc.TotalBudgetByAllDepartments(ctx)
	s.Require().NoError(err)
	assert.InDelta(s.T(), 90000, report.Total, 0.001)
	s.Require().Len(report.Departments, 1)
	assert.Equal(s.T(), "Product", report.Departments[0].DepartmentName)
}

func (s *IntegrationTestSuite) TestFailedReassignmentRollsBack() {
	ctx, cancel := context.WithTimeout(context.Background(), s.testTimeout)
	defer cancel()
	svc := s.service(events.NopProducer{})

	engineering, err := svc.AddDepartment(ctx, models.AddDepartmentRequest{Name: "Engineering"})
	s.Require().NoError(err)
	product, err := svc.AddDepartment(ctx, models.AddDepartmentRequest{Name: "Product"})
	s.Require().NoError(err)
	engineer, err := svc.AddRole(ctx, models.AddRoleRequest{Title: "Engineer", Salary: 90000, DepartmentID: engineering.ID})
	s.Require().NoError(err)
	_, err = svc.AddRole(ctx, models.AddRoleRequest{Title: "Lead", Salary: 120000, DepartmentID: engineering.ID})
	s.Require().NoError(err)

	// Only one of the two roles is moved, so the delete stays blocked.
	_, err = svc.ReassignAndDeleteDepartment(ctx, models.ReassignAndDeleteRequest{
		TargetID:      engineering.ID,
		Reassignments: []models.Reassignment{{DependentID: engineer.ID, TargetID: &product.ID}},
	})
	assert.ErrorIs(s.T(), err, e.ErrHasDependents)

	roles, err := svc.RolesByDepartment(ctx, engineering.ID)
	s.Require().NoError(err)
	assert.Len(s.T(), roles, 2)
}

func (s *IntegrationTestSuite) TestChangeEventsReachKafka() {
	brokers := os.Getenv("TRACKER_TEST_KAFKA_BROKERS")
	if brokers == "" {
		s.T().Skip("TRACKER_TEST_KAFKA_BROKERS not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.testTimeout)
	defer cancel()

	topic := fmt.Sprintf("tracker-events-%d", time.Now().UnixNano())
	brokerList := strings.Split(brokers, ",")
	producer, reader, err := initializeKafkaWithRetry(brokerList, topic)
	if err != nil {
		s.T().Fatal("Kafka initialization failed:", err)
	}
	defer func() { _ = reader.Close() }()

	svc := s.service(producer)
	created, err := svc.AddDepartment(ctx, models.AddDepartmentRequest{Name: "Audit"})
	s.Require().NoError(err)
	producer.Close()

	msg, err := reader.ReadMessage(ctx)
	s.Require().NoError(err)

	var event events.Event
	s.Require().NoError(json.Unmarshal(msg.Value, &event))
	assert.Equal(s.T(), events.DepartmentCreated, event.Type)
	assert.Equal(s.T(), created.ID, event.EntityID)
	assert.Equal(s.T(), fmt.Sprintf("department:%d", created.ID), string(msg.Key))
}

func initializeKafkaWithRetry(brokers []string, topic string) (*events.Producer, *kafka.Reader, error) {
	var producer *events.Producer
	err := backoff.Retry(func() error {
		var err error
		producer, err = events.NewProducer(brokers, topic, zap.NewNop())
		return err
	}, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5))
	if err != nil {
		return nil, nil, fmt.Errorf("Kafka producer initialization failed: %w", err)
	}

	err = backoff.Retry(func() error {
		conn, err := kafka.Dial("tcp", brokers[0])
		if err != nil {
			return err
		}
		defer conn.Close()

		partitions, err := conn.ReadPartitions(topic)
		if err != nil || len(partitions) == 0 {
			return fmt.Errorf("topic %s not found", topic)
		}
		return nil
	}, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5))
	if err != nil {
		producer.Close()
		return nil, nil, fmt.Errorf("Kafka topic check failed: %w", err)
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     brokers,
		Topic:       topic,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafka.FirstOffset,
	})
	return producer, reader, nil
}

func TestEnvOr(t *testing.T) {
	t.Setenv("TRACKER_TEST_ENV_OR", "set")
	require.Equal(t, "set", envOr("TRACKER_TEST_ENV_OR", "fallback"))
	require.Equal(t, "fallback", envOr("TRACKER_TEST_ENV_OR_MISSING", "fallback"))
}
