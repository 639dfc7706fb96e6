package recipe

import (
	"context"
	"fmt"
	"strings"
	"time"

	"foodgram/internal/domain"
	"foodgram/internal/logging"
	"foodgram/internal/metrics"
	"foodgram/internal/modules/catalog"
	"foodgram/internal/pkg/apperr"
	"foodgram/internal/pkg/pagination"
	"foodgram/internal/pkg/validator"
	"foodgram/internal/repository"
	"foodgram/internal/storage"
)

type Service struct {
	recipes     *repository.RecipeRepository
	tags        *repository.TagRepository
	ingredients *repository.IngredientRepository
	users       *repository.UserRepository
	follows     *repository.FollowRepository
	favorites   *repository.RelationRepository[domain.Favorite]
	carts       *repository.RelationRepository[domain.ShopCart]
	media       storage.Storage
	now         func() time.Time
}

type Deps struct {
	Recipes     *repository.RecipeRepository
	Tags        *repository.TagRepository
	Ingredients *repository.IngredientRepository
	Users       *repository.UserRepository
	Follows     *repository.FollowRepository
	Favorites   *repository.RelationRepository[domain.Favorite]
	Carts       *repository.RelationRepository[domain.ShopCart]
	Media       storage.Storage
}

func NewService(d Deps) *Service {
	return &Service{
		recipes:     d.Recipes,
		tags:        d.Tags,
		ingredients: d.Ingredients,
		users:       d.Users,
		follows:     d.Follows,
		favorites:   d.Favorites,
		carts:       d.Carts,
		media:       d.Media,
		now:         time.Now,
	}
}

// validated: нормализованный запрос на запись.
type validated struct {
	items  []domain.IngredientAmount
	tagIDs []int64
}

func (s *Service) validate(ctx context.Context, req *RecipeRequest) (*validated, error) {
	req.Name = strings.TrimSpace(req.Name)

	if req.CookingTime < 1 {
		return nil, apperr.Invalid("cooking_time", "must be at least 1 minute")
	}
	if len(req.Ingredients) == 0 {
		return nil, apperr.Invalid("ingredients", "at least one ingredient is required")
	}

	seen := make(map[int64]bool, len(req.Ingredients))
	items := make([]domain.IngredientAmount, 0, len(req.Ingredients))
	ids := make([]int64, 0, len(req.Ingredients))
	for _, in := range req.Ingredients {
		if in.Amount < 1 {
			return nil, apperr.Invalid("ingredients", "amount of ingredient %d must be at least 1", in.ID)
		}
		if seen[in.ID] {
			return nil, apperr.Invalid("ingredients", "ingredient %d is listed more than once", in.ID)
		}
		seen[in.ID] = true
		ids = append(ids, in.ID)
		items = append(items, domain.IngredientAmount{IngredientID: in.ID, Amount: in.Amount})
	}

	// Повторы тегов схлопываем, порядок первого появления сохраняем
	tagSeen := make(map[int64]bool, len(req.Tags))
	tagIDs := make([]int64, 0, len(req.Tags))
	for _, id := range req.Tags {
		if !tagSeen[id] {
			tagSeen[id] = true
			tagIDs = append(tagIDs, id)
		}
	}
	req.Tags = tagIDs

	if err := validator.Check(req); err != nil {
		return nil, err
	}

	n, err := s.ingredients.CountExisting(ctx, ids)
	if err != nil {
		return nil, err
	}
	if n != int64(len(ids)) {
		return nil, apperr.Invalid("ingredients", "unknown ingredient id")
	}

	if len(tagIDs) > 0 {
		found, err := s.tags.GetByIDs(ctx, tagIDs)
		if err != nil {
			return nil, err
		}
		if len(found) != len(tagIDs) {
			return nil, apperr.Invalid("tags", "unknown tag id")
		}
	}

	return &validated{items: items, tagIDs: tagIDs}, nil
}

func (s *Service) saveImage(ctx context.Context, dataURI string) (string, error) {
	img, err := storage.DecodeBase64Image(dataURI)
	if err != nil {
		return "", apperr.Invalid("image", "%s", err.Error())
	}
	url, err := s.media.Save(ctx, storage.NewKey("recipes", img.Ext, s.now()), img.Data, img.ContentType)
	if err != nil {
		return "", fmt.Errorf("save image: %w", err)
	}
	return url, nil
}

func (s *Service) Create(ctx context.Context, caller Caller, req RecipeRequest) (*RecipeView, error) {
	if caller.Anonymous() {
		return nil, apperr.ErrUnauthorized
	}

	v, err := s.validate(ctx, &req)
	if err != nil {
		return nil, err
	}

	rec := &domain.Recipe{
		Name:        req.Name,
		AuthorID:    caller.UserID,
		Text:        req.Text,
		CookingTime: req.CookingTime,
	}
	if req.Image != "" {
		if rec.Image, err = s.saveImage(ctx, req.Image); err != nil {
			return nil, err
		}
	}

	if err := s.recipes.Create(ctx, rec, v.items, v.tagIDs); err != nil {
		return nil, fmt.Errorf("create recipe: %w", err)
	}
	metrics.RecipeWrites.WithLabelValues("create").Inc()
	logging.Ctx(ctx).Info().Int64("recipe_id", rec.ID).Int64("author_id", rec.AuthorID).Msg("recipe created")

	return s.Get(ctx, caller, rec.ID)
}

// loadOwned возвращает рецепт, если caller, автор или админ.
func (s *Service) loadOwned(ctx context.Context, caller Caller, id int64) (*domain.Recipe, error) {
	rec, err := s.recipes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.AuthorID != caller.UserID && !caller.IsAdmin() {
		return nil, fmt.Errorf("recipe %d belongs to another user: %w", id, apperr.ErrForbidden)
	}
	return rec, nil
}

// Update полностью заменяет состав и теги рецепта.
func (s *Service) Update(ctx context.Context, caller Caller, id int64, req RecipeRequest) (*RecipeView, error) {
	if caller.Anonymous() {
		return nil, apperr.ErrUnauthorized
	}
	if _, err := s.loadOwned(ctx, caller, id); err != nil {
		return nil, err
	}

	v, err := s.validate(ctx, &req)
	if err != nil {
		return nil, err
	}

	upd := &domain.Recipe{ID: id, Name: req.Name, Text: req.Text, CookingTime: req.CookingTime}
	if req.Image != "" {
		if upd.Image, err = s.saveImage(ctx, req.Image); err != nil {
			return nil, err
		}
	}

	if err := s.recipes.Update(ctx, upd, v.items, v.tagIDs); err != nil {
		return nil, fmt.Errorf("update recipe: %w", err)
	}
	metrics.RecipeWrites.WithLabelValues("update").Inc()

	return s.Get(ctx, caller, id)
}

func (s *Service) Delete(ctx context.Context, caller Caller, id int64) error {
	if caller.Anonymous() {
		return apperr.ErrUnauthorized
	}
	if _, err := s.loadOwned(ctx, caller, id); err != nil {
		return err
	}
	if err := s.recipes.Delete(ctx, id); err != nil {
		return err
	}
	metrics.RecipeWrites.WithLabelValues("delete").Inc()
	logging.Ctx(ctx).Info().Int64("recipe_id", id).Msg("recipe deleted")
	return nil
}

func (s *Service) Get(ctx context.Context, caller Caller, id int64) (*RecipeView, error) {
	rec, err := s.recipes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	views, err := s.views(ctx, caller, []domain.Recipe{*rec})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// List отдаёт страницу рецептов, новые первыми. Ссылки next/previous
// проставляет handler, ему известен URL запроса.
func (s *Service) List(ctx context.Context, caller Caller, f Filter, p pagination.Params) (pagination.Page[RecipeView], error) {
	recipes, total, err := s.recipes.List(ctx, f.ForCaller(caller), p.Limit, p.Offset())
	if err != nil {
		return pagination.Page[RecipeView]{}, err
	}
	views, err := s.views(ctx, caller, recipes)
	if err != nil {
		return pagination.Page[RecipeView]{}, err
	}
	return pagination.New(views, total), nil
}

// views собирает представления пачкой: по одному запросу на каждую связь.
func (s *Service) views(ctx context.Context, caller Caller, recipes []domain.Recipe) ([]RecipeView, error) {
	if len(recipes) == 0 {
		return []RecipeView{}, nil
	}

	ids := make([]int64, len(recipes))
	authorSet := make(map[int64]bool)
	authorIDs := make([]int64, 0, len(recipes))
	for i, r := range recipes {
		ids[i] = r.ID
		if !authorSet[r.AuthorID] {
			authorSet[r.AuthorID] = true
			authorIDs = append(authorIDs, r.AuthorID)
		}
	}

	tags, err := s.recipes.TagsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	lines, err := s.recipes.IngredientsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	authors, err := s.users.GetByIDs(ctx, authorIDs)
	if err != nil {
		return nil, err
	}
	followed, err := s.follows.Followed(ctx, caller.UserID, authorIDs)
	if err != nil {
		return nil, err
	}
	favorited, err := s.favorites.Marked(ctx, caller.UserID, ids)
	if err != nil {
		return nil, err
	}
	inCart, err := s.carts.Marked(ctx, caller.UserID, ids)
	if err != nil {
		return nil, err
	}

	out := make([]RecipeView, 0, len(recipes))
	for _, r := range recipes {
		out = append(out, RecipeView{
			ID:               r.ID,
			Tags:             catalog.ToTagResponses(tags[r.ID]),
			Author:           NewAuthorView(authors[r.AuthorID], followed[r.AuthorID]),
			Ingredients:      toIngredientViews(lines[r.ID]),
			IsFavorited:      favorited[r.ID],
			IsInShoppingCart: inCart[r.ID],
			Name:             r.Name,
			Image:            r.Image,
			Text:             r.Text,
			CookingTime:      r.CookingTime,
		})
	}
	return out, nil
}
