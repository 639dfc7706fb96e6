package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"foodgram/internal/database"
	"foodgram/internal/domain"
)

type IngredientRepository struct {
	db *gorm.DB
}

func NewIngredientRepository(db *gorm.DB) *IngredientRepository {
	return &IngredientRepository{db: db}
}

// Search ищет по подстроке без учёта регистра. Пустой name отдаёт весь справочник.
func (r *IngredientRepository) Search(ctx context.Context, name string) ([]domain.Ingredient, error) {
	q := r.db.WithContext(ctx).Model(&domain.Ingredient{})
	if name = strings.TrimSpace(name); name != "" {
		pattern := "%" + escapeLike(name) + "%"
		if r.db.Dialector.Name() == "postgres" {
			q = q.Where(`name ILIKE ? ESCAPE '\'`, pattern)
		} else {
			q = q.Where(database.UnicodeLower+`(name) LIKE ? ESCAPE '\'`, strings.ToLower(pattern))
		}
	}

	var out []domain.Ingredient
	err := q.Order("name ASC").Order("id ASC").Find(&out).Error
	return out, err
}

func (r *IngredientRepository) GetByID(ctx context.Context, id int64) (*domain.Ingredient, error) {
	var ing domain.Ingredient
	if err := r.db.WithContext(ctx).First(&ing, id).Error; err != nil {
		return nil, translate(err, "ingredient", id)
	}
	return &ing, nil
}

func (r *IngredientRepository) Create(ctx context.Context, ing *domain.Ingredient) error {
	return translate(r.db.WithContext(ctx).Create(ing).Error, "ingredient", ing.ID)
}

// CountExisting сколько id из списка реально есть в справочнике.
func (r *IngredientRepository) CountExisting(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Ingredient{}).Where("id IN ?", ids).Count(&n).Error
	return n, err
}

func escapeLike(s string) string {
	return strings.NewReplacer(`%`, `\%`, `_`, `\_`).Replace(s)
}
