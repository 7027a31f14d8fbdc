// Package db implements the query layer of the tracker: every read and
// write against the department, role and employee tables goes through
// Repository as a parameterized GORM statement.
package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	dbmodels "github.com/gartstein/employee-tracker/internal/tracker/db/models"
	e "github.com/gartstein/employee-tracker/internal/tracker/errors"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	defaultConnectTimeout = 30 * time.Second
)

type Repository struct {
	db     *gorm.DB
	logger *zap.Logger
}

type Config struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	// Path is the database file used by the sqlite driver.
	Path           string
	ConnectTimeout time.Duration
}

func (c *Config) dialector() (gorm.Dialector, error) {
	switch c.Driver {
	case DriverPostgres, "":
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
		return postgres.Open(dsn), nil
	case DriverSQLite:
		return sqlite.Open(c.Path), nil
	default:
		return nil, fmt.Errorf("%w: unsupported database driver %q", e.ErrInvalidInput, c.Driver)
	}
}

// NewRepository connects to the configured database, retrying with
// exponential backoff until ConnectTimeout elapses, and migrates the schema.
func NewRepository(cfg *Config, logger *zap.Logger) (*Repository, error) {
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}

	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = timeout

	var db *gorm.DB
	err := backoff.Retry(func() error {
		dialector, err := cfg.dialector()
		if err != nil {
			return backoff.Permanent(err)
		}
		db, err = gorm.Open(dialector, gormConfig())
		if err != nil {
			logger.Warn("database not reachable yet", zap.String("driver", cfg.Driver), zap.Error(err))
		}
		return err
	}, policy)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.Driver == DriverSQLite {
		if err := limitToSingleConnection(db); err != nil {
			return nil, err
		}
	}

	return newRepository(db, logger)
}

// NewSQLiteRepository opens an sqlite database (":memory:" is accepted) and
// migrates the schema. It is used for the local file driver and in tests.
func NewSQLiteRepository(path string, logger *zap.Logger) (*Repository, error) {
	db, err := gorm.Open(sqlite.Open(path), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if err := limitToSingleConnection(db); err != nil {
		return nil, err
	}
	return newRepository(db, logger)
}

func newRepository(db *gorm.DB, logger *zap.Logger) (*Repository, error) {
	if err := db.AutoMigrate(&dbmodels.Department{}, &dbmodels.Role{}, &dbmodels.Employee{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return &Repository{db: db, logger: logger.Named("repository")}, nil
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	}
}

// sqlite serializes writers, and an in-memory database only lives as long
// as its connection.
func limitToSingleConnection(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to access sqlite pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	return nil
}

// WithTransaction runs fn against a repository bound to a single
// transaction. Returning an error from fn rolls every statement back.
func (r *Repository) WithTransaction(ctx context.Context, fn func(repo *Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx, logger: r.logger})
	})
}

// Exec runs a raw statement. It exists for test setup such as truncating tables.
func (r *Repository) Exec(ctx context.Context, query string, params ...interface{}) error {
	result := r.db.WithContext(ctx).Exec(query, params...)
	if result.Error != nil {
		return r.fail("exec", result.Error)
	}
	return nil
}

func (r *Repository) Close() error {
	db, err := r.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}

// fail maps a driver error onto the tracker's error taxonomy and logs
// anything that is not an expected domain outcome.
func (r *Repository) fail(op string, err error, fields ...zap.Field) error {
	mapped := mapDatabaseError(err)
	if !isDomainError(mapped) {
		r.logger.Error("database query failed", append(fields, zap.String("op", op), zap.Error(err))...)
	}
	return mapped
}

func isDomainError(err error) bool {
	return errors.Is(err, e.ErrNotFound) ||
		errors.Is(err, e.ErrDuplicateName) ||
		errors.Is(err, e.ErrInvalidInput) ||
		errors.Is(err, e.ErrHasDependents)
}

func mapDatabaseError(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return e.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return e.ErrDuplicateName
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: invalid foreign key reference", e.ErrInvalidInput)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return e.ErrDuplicateName
		case "23503":
			return fmt.Errorf("%w: invalid foreign key reference", e.ErrInvalidInput)
		case "23514":
			return fmt.Errorf("%w: %s", e.ErrInvalidInput, pgErr.Message)
		}
	}
	return err
}

// isForeignKeyViolation reports whether err was raised by a foreign key
// constraint; on delete this means another row still references the target.
func isForeignKeyViolation(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
