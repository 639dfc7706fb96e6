package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"foodgram/internal/domain"
)

type RecipeRepository struct {
	db *gorm.DB
}

func NewRecipeRepository(db *gorm.DB) *RecipeRepository {
	return &RecipeRepository{db: db}
}

// RecipeFilter: условия выборки списка. Нулевые поля не фильтруют.
type RecipeFilter struct {
	TagSlugs    []string
	AuthorID    int64
	FavoritedBy int64
	InCartOf    int64
}

// IngredientLine: ингредиент рецепта вместе с количеством.
type IngredientLine struct {
	RecipeID        int64  `gorm:"column:recipe_id"`
	IngredientID    int64  `gorm:"column:ingredient_id"`
	Name            string `gorm:"column:name"`
	MeasurementUnit string `gorm:"column:measurement_unit"`
	Amount          int    `gorm:"column:amount"`
}

// CartIngredientRow: одна строка состава рецепта из корзины пользователя.
type CartIngredientRow struct {
	IngredientID    int64  `gorm:"column:ingredient_id"`
	Name            string `gorm:"column:name"`
	MeasurementUnit string `gorm:"column:measurement_unit"`
	Amount          int    `gorm:"column:amount"`
}

func (r *RecipeRepository) GetByID(ctx context.Context, id int64) (*domain.Recipe, error) {
	var rec domain.Recipe
	if err := r.db.WithContext(ctx).First(&rec, id).Error; err != nil {
		return nil, translate(err, "recipe", id)
	}
	return &rec, nil
}

func (r *RecipeRepository) filtered(ctx context.Context, f RecipeFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&domain.Recipe{})

	if len(f.TagSlugs) > 0 {
		sub := r.db.Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", f.TagSlugs)
		q = q.Where("recipes.id IN (?)", sub)
	}
	if f.AuthorID > 0 {
		q = q.Where("recipes.author_id = ?", f.AuthorID)
	}
	if f.FavoritedBy > 0 {
		sub := r.db.Model(&domain.Favorite{}).Select("recipe_id").Where("user_id = ?", f.FavoritedBy)
		q = q.Where("recipes.id IN (?)", sub)
	}
	if f.InCartOf > 0 {
		sub := r.db.Model(&domain.ShopCart{}).Select("recipe_id").Where("user_id = ?", f.InCartOf)
		q = q.Where("recipes.id IN (?)", sub)
	}
	return q
}

// List возвращает страницу рецептов, новые первыми, и общее число совпадений.
func (r *RecipeRepository) List(ctx context.Context, f RecipeFilter, limit, offset int) ([]domain.Recipe, int64, error) {
	var total int64
	if err := r.filtered(ctx, f).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count recipes: %w", err)
	}

	var recipes []domain.Recipe
	err := r.filtered(ctx, f).
		Order("recipes.created_date DESC").
		Order("recipes.id DESC").
		Limit(limit).Offset(offset).
		Find(&recipes).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list recipes: %w", err)
	}
	return recipes, total, nil
}

// Create пишет рецепт, его состав и теги в одной транзакции.
func (r *RecipeRepository) Create(ctx context.Context, rec *domain.Recipe, items []domain.IngredientAmount, tagIDs []int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(rec).Error; err != nil {
			return fmt.Errorf("insert recipe: %w", err)
		}
		if err := insertIngredients(tx, rec.ID, items); err != nil {
			return err
		}
		return insertTags(tx, rec.ID, tagIDs)
	})
}

// Update меняет скалярные поля и полностью заменяет состав и теги.
// created_date не трогается. Пустой image оставляет прежнюю картинку.
func (r *RecipeRepository) Update(ctx context.Context, rec *domain.Recipe, items []domain.IngredientAmount, tagIDs []int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cols := map[string]any{
			"name":         rec.Name,
			"text":         rec.Text,
			"cooking_time": rec.CookingTime,
		}
		if rec.Image != "" {
			cols["image"] = rec.Image
		}
		res := tx.Model(&domain.Recipe{}).Where("id = ?", rec.ID).Updates(cols)
		if res.Error != nil {
			return fmt.Errorf("update recipe: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return translate(gorm.ErrRecordNotFound, "recipe", rec.ID)
		}

		if err := tx.Where("recipe_id = ?", rec.ID).Delete(&domain.RecipeTag{}).Error; err != nil {
			return fmt.Errorf("clear tags: %w", err)
		}
		if err := tx.Where("recipe_id = ?", rec.ID).Delete(&domain.IngredientAmount{}).Error; err != nil {
			return fmt.Errorf("clear ingredients: %w", err)
		}
		if err := insertIngredients(tx, rec.ID, items); err != nil {
			return err
		}
		return insertTags(tx, rec.ID, tagIDs)
	})
}

// Delete удаляет рецепт вместе со всеми зависимыми строками.
func (r *RecipeRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{
			&domain.RecipeTag{},
			&domain.IngredientAmount{},
			&domain.Favorite{},
			&domain.ShopCart{},
		} {
			if err := tx.Where("recipe_id = ?", id).Delete(model).Error; err != nil {
				return fmt.Errorf("delete dependents: %w", err)
			}
		}
		res := tx.Delete(&domain.Recipe{}, id)
		if res.Error != nil {
			return fmt.Errorf("delete recipe: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return translate(gorm.ErrRecordNotFound, "recipe", id)
		}
		return nil
	})
}

func insertIngredients(tx *gorm.DB, recipeID int64, items []domain.IngredientAmount) error {
	if len(items) == 0 {
		return nil
	}
	rows := make([]domain.IngredientAmount, len(items))
	for i, it := range items {
		rows[i] = domain.IngredientAmount{RecipeID: recipeID, IngredientID: it.IngredientID, Amount: it.Amount}
	}
	if err := tx.Omit(clause.Associations).Create(&rows).Error; err != nil {
		return fmt.Errorf("insert ingredients: %w", err)
	}
	return nil
}

func insertTags(tx *gorm.DB, recipeID int64, tagIDs []int64) error {
	if len(tagIDs) == 0 {
		return nil
	}
	rows := make([]domain.RecipeTag, len(tagIDs))
	for i, id := range tagIDs {
		rows[i] = domain.RecipeTag{RecipeID: recipeID, TagID: id}
	}
	if err := tx.Omit(clause.Associations).Create(&rows).Error; err != nil {
		return fmt.Errorf("insert tags: %w", err)
	}
	return nil
}

// TagsFor грузит теги сразу для всех рецептов страницы.
func (r *RecipeRepository) TagsFor(ctx context.Context, recipeIDs []int64) (map[int64][]domain.Tag, error) {
	out := make(map[int64][]domain.Tag, len(recipeIDs))
	if len(recipeIDs) == 0 {
		return out, nil
	}

	var rows []struct {
		RecipeID int64 `gorm:"column:recipe_id"`
		domain.Tag
	}
	err := r.db.WithContext(ctx).Table("recipe_tags").
		Select("recipe_tags.recipe_id, tags.id, tags.name, tags.color, tags.slug").
		Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
		Where("recipe_tags.recipe_id IN ?", recipeIDs).
		Order("tags.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load recipe tags: %w", err)
	}
	for _, row := range rows {
		out[row.RecipeID] = append(out[row.RecipeID], row.Tag)
	}
	return out, nil
}

// IngredientsFor грузит состав сразу для всех рецептов страницы в порядке ввода.
func (r *RecipeRepository) IngredientsFor(ctx context.Context, recipeIDs []int64) (map[int64][]IngredientLine, error) {
	out := make(map[int64][]IngredientLine, len(recipeIDs))
	if len(recipeIDs) == 0 {
		return out, nil
	}

	var rows []IngredientLine
	err := r.db.WithContext(ctx).Table("ingredient_amounts").
		Select("ingredient_amounts.recipe_id, ingredients.id AS ingredient_id, ingredients.name, ingredients.measurement_unit, ingredient_amounts.amount").
		Joins("JOIN ingredients ON ingredients.id = ingredient_amounts.ingredient_id").
		Where("ingredient_amounts.recipe_id IN ?", recipeIDs).
		Order("ingredient_amounts.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load recipe ingredients: %w", err)
	}
	for _, row := range rows {
		out[row.RecipeID] = append(out[row.RecipeID], row)
	}
	return out, nil
}

// ByAuthors возвращает рецепты авторов (новые первыми), не больше limit на автора.
// limit <= 0 означает без ограничения.
func (r *RecipeRepository) ByAuthors(ctx context.Context, authorIDs []int64, limit int) (map[int64][]domain.Recipe, error) {
	out := make(map[int64][]domain.Recipe, len(authorIDs))
	if len(authorIDs) == 0 {
		return out, nil
	}

	var recipes []domain.Recipe
	err := r.db.WithContext(ctx).
		Where("author_id IN ?", authorIDs).
		Order("created_date DESC").Order("id DESC").
		Find(&recipes).Error
	if err != nil {
		return nil, fmt.Errorf("load author recipes: %w", err)
	}
	for _, rec := range recipes {
		if limit > 0 && len(out[rec.AuthorID]) >= limit {
			continue
		}
		out[rec.AuthorID] = append(out[rec.AuthorID], rec)
	}
	return out, nil
}

func (r *RecipeRepository) CountByAuthors(ctx context.Context, authorIDs []int64) (map[int64]int64, error) {
	out := make(map[int64]int64, len(authorIDs))
	if len(authorIDs) == 0 {
		return out, nil
	}

	var rows []struct {
		AuthorID int64 `gorm:"column:author_id"`
		N        int64 `gorm:"column:n"`
	}
	err := r.db.WithContext(ctx).Model(&domain.Recipe{}).
		Select("author_id, COUNT(*) AS n").
		Where("author_id IN ?", authorIDs).
		Group("author_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count author recipes: %w", err)
	}
	for _, row := range rows {
		out[row.AuthorID] = row.N
	}
	return out, nil
}

// CartIngredientRows: все строки состава рецептов из корзины пользователя,
// в порядке добавления в корзину, затем в порядке ввода в рецепте.
func (r *RecipeRepository) CartIngredientRows(ctx context.Context, userID int64) ([]CartIngredientRow, error) {
	var rows []CartIngredientRow
	err := r.db.WithContext(ctx).Table("shop_carts").
		Select("ingredients.id AS ingredient_id, ingredients.name, ingredients.measurement_unit, ingredient_amounts.amount").
		Joins("JOIN ingredient_amounts ON ingredient_amounts.recipe_id = shop_carts.recipe_id").
		Joins("JOIN ingredients ON ingredients.id = ingredient_amounts.ingredient_id").
		Where("shop_carts.user_id = ?", userID).
		Order("shop_carts.id ASC").
		Order("ingredient_amounts.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load cart ingredients: %w", err)
	}
	return rows, nil
}

// ImageURLs: ссылки на картинки всех рецептов (для чистки медиа).
func (r *RecipeRepository) ImageURLs(ctx context.Context) ([]string, error) {
	var urls []string
	err := r.db.WithContext(ctx).Model(&domain.Recipe{}).
		Where("image <> ''").
		Pluck("image", &urls).Error
	return urls, err
}
