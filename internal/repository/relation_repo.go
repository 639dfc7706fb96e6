package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"foodgram/internal/domain"
	"foodgram/internal/pkg/apperr"
)

// RelationRepository хранит пары (user, recipe): избранное или корзину.
// Уникальность пары держит индекс, Add дополнительно проверяет заранее.
type RelationRepository[T any] struct {
	db    *gorm.DB
	name  string
	build func(userID, recipeID int64) *T
}

func NewFavoriteRepository(db *gorm.DB) *RelationRepository[domain.Favorite] {
	return &RelationRepository[domain.Favorite]{
		db:   db,
		name: "favorite",
		build: func(userID, recipeID int64) *domain.Favorite {
			return &domain.Favorite{UserID: userID, RecipeID: recipeID}
		},
	}
}

func NewShopCartRepository(db *gorm.DB) *RelationRepository[domain.ShopCart] {
	return &RelationRepository[domain.ShopCart]{
		db:   db,
		name: "shopping cart",
		build: func(userID, recipeID int64) *domain.ShopCart {
			return &domain.ShopCart{UserID: userID, RecipeID: recipeID}
		},
	}
}

func (r *RelationRepository[T]) Exists(ctx context.Context, userID, recipeID int64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(new(T)).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&n).Error
	return n > 0, err
}

// Add возвращает ErrConflict, если пара уже есть (в том числе при гонке вставок).
func (r *RelationRepository[T]) Add(ctx context.Context, userID, recipeID int64) error {
	exists, err := r.Exists(ctx, userID, recipeID)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("recipe %d already in %s: %w", recipeID, r.name, apperr.ErrConflict)
	}

	if err := r.db.WithContext(ctx).Create(r.build(userID, recipeID)).Error; err != nil {
		if IsDuplicate(err) {
			return fmt.Errorf("recipe %d already in %s: %w", recipeID, r.name, apperr.ErrConflict)
		}
		return err
	}
	return nil
}

// Remove возвращает ErrStateMismatch, если удалять нечего.
func (r *RelationRepository[T]) Remove(ctx context.Context, userID, recipeID int64) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(new(T))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("recipe %d not in %s: %w", recipeID, r.name, apperr.ErrStateMismatch)
	}
	return nil
}

// Marked отвечает, какие из recipeIDs отмечены пользователем.
func (r *RelationRepository[T]) Marked(ctx context.Context, userID int64, recipeIDs []int64) (map[int64]bool, error) {
	out := make(map[int64]bool, len(recipeIDs))
	if userID == 0 || len(recipeIDs) == 0 {
		return out, nil
	}
	var ids []int64
	err := r.db.WithContext(ctx).Model(new(T)).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}
