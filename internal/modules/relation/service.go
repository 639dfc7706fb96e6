package relation

import (
	"context"
	"fmt"

	"foodgram/internal/domain"
	"foodgram/internal/logging"
	"foodgram/internal/metrics"
	"foodgram/internal/modules/recipe"
	"foodgram/internal/repository"
)

// Kind: какой список пользователя меняем.
type Kind string

const (
	KindFavorite Kind = "favorite"
	KindShopCart Kind = "shopping_cart"
)

// store: общее у избранного и корзины.
type store interface {
	Add(ctx context.Context, userID, recipeID int64) error
	Remove(ctx context.Context, userID, recipeID int64) error
}

type Service struct {
	recipes *repository.RecipeRepository
	stores  map[Kind]store
}

func NewService(
	recipes *repository.RecipeRepository,
	favorites *repository.RelationRepository[domain.Favorite],
	carts *repository.RelationRepository[domain.ShopCart],
) *Service {
	return &Service{
		recipes: recipes,
		stores: map[Kind]store{
			KindFavorite: favorites,
			KindShopCart: carts,
		},
	}
}

func (s *Service) store(kind Kind) (store, error) {
	st, ok := s.stores[kind]
	if !ok {
		return nil, fmt.Errorf("unknown relation kind %q", kind)
	}
	return st, nil
}

// Add отмечает рецепт. Повтор, ErrConflict, нет рецепта, ErrNotFound.
func (s *Service) Add(ctx context.Context, kind Kind, userID, recipeID int64) (*recipe.ShortView, error) {
	st, err := s.store(kind)
	if err != nil {
		return nil, err
	}
	rec, err := s.recipes.GetByID(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if err := st.Add(ctx, userID, recipeID); err != nil {
		return nil, err
	}

	metrics.RelationChanges.WithLabelValues(string(kind), "add").Inc()
	logging.Ctx(ctx).Debug().Str("kind", string(kind)).Int64("user_id", userID).Int64("recipe_id", recipeID).Msg("relation added")

	view := recipe.NewShortView(*rec)
	return &view, nil
}

// Remove снимает отметку. Если её не было, ErrStateMismatch.
func (s *Service) Remove(ctx context.Context, kind Kind, userID, recipeID int64) error {
	st, err := s.store(kind)
	if err != nil {
		return err
	}
	if _, err := s.recipes.GetByID(ctx, recipeID); err != nil {
		return err
	}
	if err := st.Remove(ctx, userID, recipeID); err != nil {
		return err
	}
	metrics.RelationChanges.WithLabelValues(string(kind), "remove").Inc()
	return nil
}
