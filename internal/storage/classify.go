package storage

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Causes attached to persistence failures.
var (
	// ErrConstraintViolation indicates the change broke a uniqueness or
	// integrity constraint.
	ErrConstraintViolation = errors.New("constraint violation")

	// ErrConnectivity indicates the database could not be reached in time.
	ErrConnectivity = errors.New("database connectivity")
)

// integrityClass is the SQLSTATE class for integrity constraint violations.
const integrityClass = "23"

// classify wraps err with ErrConstraintViolation or ErrConnectivity when
// it recognizes the failure. Unrecognized errors are returned unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) ||
		errors.Is(err, gorm.ErrForeignKeyViolated) ||
		errors.Is(err, gorm.ErrCheckConstraintViolated) {
		return fmt.Errorf("%w: %w", ErrConstraintViolation, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && strings.HasPrefix(pgErr.Code, integrityClass) {
		return fmt.Errorf("%w: %s: %w", ErrConstraintViolation, pgErr.ConstraintName, err)
	}

	var connectErr *pgconn.ConnectError
	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.As(err, &connectErr) ||
		pgconn.Timeout(err) {
		return fmt.Errorf("%w: %w", ErrConnectivity, err)
	}

	return err
}
