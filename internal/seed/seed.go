// Package seed загружает справочники тегов и ингредиентов из JSON.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"foodgram/internal/domain"
)

type TagRecord struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Slug  string `json:"slug"`
}

type IngredientRecord struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

type Result struct {
	Tags        int64
	Ingredients int64
	Users       int64
}

func ReadTags(r io.Reader) ([]TagRecord, error) {
	var out []TagRecord
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	for i, t := range out {
		if strings.TrimSpace(t.Name) == "" || strings.TrimSpace(t.Slug) == "" || strings.TrimSpace(t.Color) == "" {
			return nil, fmt.Errorf("tag #%d: name, color and slug are required", i)
		}
	}
	return out, nil
}

func ReadIngredients(r io.Reader) ([]IngredientRecord, error) {
	var out []IngredientRecord
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode ingredients: %w", err)
	}
	for i, ing := range out {
		if strings.TrimSpace(ing.Name) == "" || strings.TrimSpace(ing.MeasurementUnit) == "" {
			return nil, fmt.Errorf("ingredient #%d: name and measurement_unit are required", i)
		}
	}
	return out, nil
}

// Tags вставляет теги, пропуская уже существующие (по любому уникальному полю).
func Tags(ctx context.Context, db *gorm.DB, records []TagRecord) (int64, error) {
	var created int64
	for _, r := range records {
		tag := domain.Tag{Name: r.Name, Color: r.Color, Slug: r.Slug}
		res := db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&tag)
		if res.Error != nil {
			return created, fmt.Errorf("tag %s: %w", r.Slug, res.Error)
		}
		created += res.RowsAffected
	}
	return created, nil
}

// Ingredients вставляет пары (name, measurement_unit), которых ещё нет.
// Уникального индекса на пару нет, поэтому проверяем руками.
func Ingredients(ctx context.Context, db *gorm.DB, records []IngredientRecord) (int64, error) {
	var created int64
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, r := range records {
			var n int64
			if err := tx.Model(&domain.Ingredient{}).
				Where("name = ? AND measurement_unit = ?", r.Name, r.MeasurementUnit).
				Count(&n).Error; err != nil {
				return err
			}
			if n > 0 {
				continue
			}
			if err := tx.Create(&domain.Ingredient{Name: r.Name, MeasurementUnit: r.MeasurementUnit}).Error; err != nil {
				return fmt.Errorf("ingredient %s: %w", r.Name, err)
			}
			created++
		}
		return nil
	})
	return created, err
}

// DemoUsers создаёт пользователей для локальной разработки, если их ещё нет.
func DemoUsers(ctx context.Context, db *gorm.DB) ([]domain.User, error) {
	demo := []domain.User{
		{Email: "admin@foodgram.local", Username: "admin", FirstName: "Admin", Role: domain.RoleAdmin},
		{Email: "cook@foodgram.local", Username: "cook", FirstName: "Vasya", LastName: "Pupkin", Role: domain.RoleUser},
	}
	out := make([]domain.User, 0, len(demo))
	for _, u := range demo {
		u := u
		if err := db.WithContext(ctx).Where(domain.User{Username: u.Username}).FirstOrCreate(&u).Error; err != nil {
			return nil, fmt.Errorf("user %s: %w", u.Username, err)
		}
		out = append(out, u)
	}
	return out, nil
}
