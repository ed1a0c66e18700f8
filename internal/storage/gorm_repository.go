package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jamesprial/coffee-shop/internal/drink"
	ierrors "github.com/jamesprial/coffee-shop/internal/errors"
	"gorm.io/gorm"
)

const domainStorage = "storage"

// Starter drink written by Reset.
const (
	seedTitle  = "water"
	seedRecipe = `[{"name":"water","color":"blue","parts":1}]`
)

// GormRepository implements Repository on a GORM connection.
type GormRepository struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewGormRepository wraps an open GORM connection.
func NewGormRepository(db *gorm.DB, logger *slog.Logger) *GormRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &GormRepository{db: db, logger: logger}
}

// Migrate creates or updates the drinks table.
func (r *GormRepository) Migrate(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&drink.Drink{}); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

// Reset drops the drinks table, recreates it and seeds the starter drink.
func (r *GormRepository) Reset(ctx context.Context) error {
	db := r.db.WithContext(ctx)
	if err := db.Migrator().DropTable(&drink.Drink{}); err != nil {
		return fmt.Errorf("drop drinks table: %w", err)
	}
	if err := r.Migrate(ctx); err != nil {
		return err
	}
	if err := db.Create(&drink.Drink{Title: seedTitle, Recipe: seedRecipe}).Error; err != nil {
		return fmt.Errorf("seed drinks: %w", err)
	}
	return nil
}

// ListDrinks implements Repository.
func (r *GormRepository) ListDrinks(ctx context.Context) ([]drink.Drink, error) {
	var drinks []drink.Drink
	if err := r.db.WithContext(ctx).Order("id").Find(&drinks).Error; err != nil {
		r.logger.Error("list drinks failed", slog.Any("error", err))
		return nil, ierrors.New(domainStorage, "ListDrinks", ierrors.ErrInternal, err)
	}
	return drinks, nil
}

// FindDrink implements Repository.
func (r *GormRepository) FindDrink(ctx context.Context, id uint) (*drink.Drink, error) {
	const op = "FindDrink"

	var d drink.Drink
	err := r.db.WithContext(ctx).First(&d, id).Error
	switch {
	case err == nil:
		return &d, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, ierrors.New(domainStorage, op, ierrors.ErrNotFound, err).WithContext("id", id)
	default:
		r.logger.Error("find drink failed", slog.Uint64("id", uint64(id)), slog.Any("error", err))
		return nil, ierrors.New(domainStorage, op, ierrors.ErrInternal, err)
	}
}

// CreateDrink implements Repository.
func (r *GormRepository) CreateDrink(ctx context.Context, d *drink.Drink) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(d).Error
	})
	if err != nil {
		return r.persistFailure("CreateDrink", err)
	}
	return nil
}

// UpdateDrink implements Repository. Only the columns present in patch are
// written; the row is re-read inside the same transaction.
func (r *GormRepository) UpdateDrink(ctx context.Context, id uint, patch *drink.Patch) (*drink.Drink, error) {
	const op = "UpdateDrink"

	columns, err := patch.Columns()
	if err != nil {
		return nil, err
	}

	var updated drink.Drink
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(columns) > 0 {
			result := tx.Model(&drink.Drink{}).Where("id = ?", id).Updates(columns)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}
		return tx.First(&updated, id).Error
	})
	if err != nil {
		return nil, r.persistFailure(op, err)
	}
	return &updated, nil
}

// DeleteDrink implements Repository.
func (r *GormRepository) DeleteDrink(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&drink.Drink{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return r.persistFailure("DeleteDrink", err)
	}
	return nil
}

// Ping implements Repository.
func (r *GormRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return ierrors.New(domainStorage, "Ping", ierrors.ErrInternal, err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return ierrors.New(domainStorage, "Ping", ierrors.ErrInternal, classify(err))
	}
	return nil
}

// Close releases the connection pool.
func (r *GormRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// persistFailure converts a rolled-back mutation into a domain error. A
// missing row is ErrNotFound; anything else is logged with its classified
// cause and surfaced as ErrUnprocessable.
func (r *GormRepository) persistFailure(op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ierrors.New(domainStorage, op, ierrors.ErrNotFound, err)
	}

	cause := classify(err)
	r.logger.Error("drink mutation rolled back",
		slog.String("op", op),
		slog.Any("error", cause),
	)
	return ierrors.New(domainStorage, op, ierrors.ErrUnprocessable, cause)
}

var _ Repository = (*GormRepository)(nil)
