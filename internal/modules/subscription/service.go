package subscription

import (
	"context"
	"fmt"

	"foodgram/internal/domain"
	"foodgram/internal/logging"
	"foodgram/internal/metrics"
	"foodgram/internal/modules/recipe"
	"foodgram/internal/pkg/apperr"
	"foodgram/internal/pkg/pagination"
	"foodgram/internal/repository"
)

type Service struct {
	users   *repository.UserRepository
	follows *repository.FollowRepository
	recipes *repository.RecipeRepository
}

func NewService(users *repository.UserRepository, follows *repository.FollowRepository, recipes *repository.RecipeRepository) *Service {
	return &Service{users: users, follows: follows, recipes: recipes}
}

// Subscribe подписывает userID на targetID. recipesLimit > 0 обрезает превью рецептов.
func (s *Service) Subscribe(ctx context.Context, userID, targetID int64, recipesLimit int) (*SubscriptionView, error) {
	if userID == targetID {
		return nil, apperr.Invalid("user", "cannot subscribe to yourself")
	}
	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if err := s.follows.Add(ctx, userID, targetID); err != nil {
		return nil, err
	}
	metrics.RelationChanges.WithLabelValues("follow", "add").Inc()
	logging.Ctx(ctx).Debug().Int64("user_id", userID).Int64("following_id", targetID).Msg("subscribed")

	views, err := s.views(ctx, userID, []domain.User{*target}, recipesLimit)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *Service) Unsubscribe(ctx context.Context, userID, targetID int64) error {
	if _, err := s.users.GetByID(ctx, targetID); err != nil {
		return err
	}
	if err := s.follows.Remove(ctx, userID, targetID); err != nil {
		return err
	}
	metrics.RelationChanges.WithLabelValues("follow", "remove").Inc()
	return nil
}

func (s *Service) ListSubscriptions(ctx context.Context, userID int64, p pagination.Params, recipesLimit int) (pagination.Page[SubscriptionView], error) {
	users, total, err := s.follows.ListFollowing(ctx, userID, p.Limit, p.Offset())
	if err != nil {
		return pagination.Page[SubscriptionView]{}, fmt.Errorf("list subscriptions: %w", err)
	}
	views, err := s.views(ctx, userID, users, recipesLimit)
	if err != nil {
		return pagination.Page[SubscriptionView]{}, err
	}
	return pagination.New(views, total), nil
}

// Profile: карточка пользователя глазами callerID (0 для анонима).
func (s *Service) Profile(ctx context.Context, callerID, targetID int64) (*recipe.AuthorView, error) {
	u, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	followed, err := s.follows.Followed(ctx, callerID, []int64{targetID})
	if err != nil {
		return nil, err
	}
	view := recipe.NewAuthorView(u, followed[targetID])
	return &view, nil
}

func (s *Service) views(ctx context.Context, userID int64, users []domain.User, recipesLimit int) ([]SubscriptionView, error) {
	if len(users) == 0 {
		return []SubscriptionView{}, nil
	}

	ids := make([]int64, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}

	followed, err := s.follows.Followed(ctx, userID, ids)
	if err != nil {
		return nil, err
	}
	byAuthor, err := s.recipes.ByAuthors(ctx, ids, recipesLimit)
	if err != nil {
		return nil, err
	}
	counts, err := s.recipes.CountByAuthors(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]SubscriptionView, 0, len(users))
	for i := range users {
		u := &users[i]
		short := make([]recipe.ShortView, 0, len(byAuthor[u.ID]))
		for _, r := range byAuthor[u.ID] {
			short = append(short, recipe.NewShortView(r))
		}
		out = append(out, SubscriptionView{
			AuthorView:   recipe.NewAuthorView(u, followed[u.ID]),
			Recipes:      short,
			RecipesCount: counts[u.ID],
		})
	}
	return out, nil
}
