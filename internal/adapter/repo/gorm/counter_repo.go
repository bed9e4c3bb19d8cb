package gormrepo

import (
	"context"
	"errors"
	"time"

	"starbots/internal/adapter/repo/gorm/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CounterRepo struct {
	db *gorm.DB
}

func NewCounterRepo(db *gorm.DB) CounterRepo {
	return CounterRepo{db: db}
}

// TryIncrement relies on a single conditional UPDATE so concurrent workers and
// processes can never push the counter past max.
func (r CounterRepo) TryIncrement(ctx context.Context, name string, max int64) (bool, error) {
	db := dbFromCtx(ctx, r.db)
	seed := model.PopulationCounter{Name: name, Value: 0, UpdatedAt: time.Now()}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
		return false, err
	}
	res := db.Model(&model.PopulationCounter{}).
		Where("name = ? AND value < ?", name, max).
		Updates(map[string]any{
			"value":      gorm.Expr("value + 1"),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r CounterRepo) Decrement(ctx context.Context, name string) error {
	return dbFromCtx(ctx, r.db).Model(&model.PopulationCounter{}).
		Where("name = ? AND value > 0", name).
		Updates(map[string]any{
			"value":      gorm.Expr("value - 1"),
			"updated_at": time.Now(),
		}).Error
}

func (r CounterRepo) Get(ctx context.Context, name string) (int64, error) {
	var row model.PopulationCounter
	err := dbFromCtx(ctx, r.db).Where(&model.PopulationCounter{Name: name}).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return row.Value, nil
}
