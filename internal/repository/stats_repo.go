package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type StatsRepository struct {
	db *gorm.DB
}

func NewStatsRepository(db *gorm.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// Count: число строк в таблице.
func (r *StatsRepository) Count(ctx context.Context, table string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Table(table).Count(&n).Error
	return n, err
}

// RecipesCreatedBetween: число рецептов с created_date в [from, to).
func (r *StatsRepository) RecipesCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Table("recipes").
		Where("created_date >= ? AND created_date < ?", from, to).
		Count(&n).Error
	return n, err
}
