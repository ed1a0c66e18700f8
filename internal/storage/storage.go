// Package storage is the persistence gateway for drinks. It hides the
// relational engine behind Repository and turns driver failures into
// domain errors.
package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/jamesprial/coffee-shop/internal/drink"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const slowQueryThreshold = 200 * time.Millisecond

// Repository persists drinks. Mutations are atomic: either the whole change
// is committed or nothing is.
type Repository interface {
	// ListDrinks returns every drink ordered by id.
	ListDrinks(ctx context.Context) ([]drink.Drink, error)

	// FindDrink returns the drink with the given id or an ErrNotFound error.
	FindDrink(ctx context.Context, id uint) (*drink.Drink, error)

	// CreateDrink inserts d and sets its ID.
	CreateDrink(ctx context.Context, d *drink.Drink) error

	// UpdateDrink writes the fields present in patch to the drink with the
	// given id and returns the stored result.
	UpdateDrink(ctx context.Context, id uint, patch *drink.Patch) (*drink.Drink, error)

	// DeleteDrink removes the drink with the given id.
	DeleteDrink(ctx context.Context, id uint) error

	// Ping checks that the store is reachable.
	Ping(ctx context.Context) error
}

// Config holds the connection settings for Open.
type Config struct {
	Driver       string
	DSN          string
	MaxOpenConns int
	MaxIdleConns int

	// Reset drops and recreates the schema, then seeds a starter drink.
	Reset bool

	Logger *slog.Logger
}

// Open connects to the configured database, applies pool limits and
// migrates the schema.
func Open(ctx context.Context, cfg Config) (*GormRepository, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	dialector, err := dialectorFor(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger: gormlogger.New(slogWriter{logger: logger}, gormlogger.Config{
			SlowThreshold:             slowQueryThreshold,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("access connection pool: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	repo := NewGormRepository(db, logger)

	if err := repo.Migrate(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	if cfg.Reset {
		if err := repo.Reset(ctx); err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
	}

	logger.Info("database ready",
		slog.String("driver", cfg.Driver),
		slog.Bool("reset", cfg.Reset),
	)
	return repo, nil
}

func dialectorFor(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case DriverPostgres:
		return postgres.Open(dsn), nil
	case DriverSQLite:
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// slogWriter routes GORM's printf-style logger into slog.
type slogWriter struct {
	logger *slog.Logger
}

func (w slogWriter) Printf(format string, args ...interface{}) {
	w.logger.Warn(fmt.Sprintf(format, args...), slog.String("component", "gorm"))
}
