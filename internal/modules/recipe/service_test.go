package recipe

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"foodgram/internal/domain"
	"foodgram/internal/pkg/apperr"
	"foodgram/internal/pkg/pagination"
	"foodgram/internal/repository"
	"foodgram/internal/storage"
	"foodgram/internal/testutil"
)

const pngDataURI = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

type fixture struct {
	db      *gorm.DB
	svc     *Service
	alice   *domain.User
	bob     *domain.User
	flour   *domain.Ingredient
	milk    *domain.Ingredient
	sugar   *domain.Ingredient
	lunch   *domain.Tag
	dinner  *domain.Tag
	favRepo *repository.RelationRepository[domain.Favorite]
	cart    *repository.RelationRepository[domain.ShopCart]
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)

	f := &fixture{
		db:      db,
		alice:   testutil.User(t, db, "alice"),
		bob:     testutil.User(t, db, "bob"),
		flour:   testutil.Ingredient(t, db, "Flour", "g"),
		milk:    testutil.Ingredient(t, db, "Milk", "ml"),
		sugar:   testutil.Ingredient(t, db, "Sugar", "g"),
		lunch:   testutil.Tag(t, db, "Lunch", "#111111", "lunch"),
		dinner:  testutil.Tag(t, db, "Dinner", "#222222", "dinner"),
		favRepo: repository.NewFavoriteRepository(db),
		cart:    repository.NewShopCartRepository(db),
	}
	f.svc = NewService(Deps{
		Recipes:     repository.NewRecipeRepository(db),
		Tags:        repository.NewTagRepository(db),
		Ingredients: repository.NewIngredientRepository(db),
		Users:       repository.NewUserRepository(db),
		Follows:     repository.NewFollowRepository(db),
		Favorites:   f.favRepo,
		Carts:       f.cart,
		Media:       storage.NewLocal(t.TempDir(), "/media"),
	})
	return f
}

func (f *fixture) request() RecipeRequest {
	return RecipeRequest{
		Name:        "Pancakes",
		Text:        "Mix and fry",
		CookingTime: 20,
		Ingredients: []IngredientInput{
			{ID: f.flour.ID, Amount: 200},
			{ID: f.milk.ID, Amount: 300},
		},
		Tags: []int64{f.lunch.ID},
	}
}

func asValidation(t *testing.T, err error) *apperr.ValidationError {
	t.Helper()
	var ve *apperr.ValidationError
	require.True(t, errors.As(err, &ve), "expected validation error, got %v", err)
	return ve
}

func TestCreate_OK(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := f.request()
	req.Image = pngDataURI
	view, err := f.svc.Create(ctx, Caller{UserID: f.alice.ID}, req)
	require.NoError(t, err)

	assert.Equal(t, "Pancakes", view.Name)
	assert.Equal(t, f.alice.ID, view.Author.ID)
	assert.Equal(t, "alice", view.Author.Username)
	assert.False(t, view.Author.IsSubscribed)
	require.Len(t, view.Ingredients, 2)
	assert.Equal(t, IngredientView{ID: f.flour.ID, Name: "Flour", MeasurementUnit: "g", Amount: 200}, view.Ingredients[0])
	require.Len(t, view.Tags, 1)
	assert.Equal(t, "lunch", view.Tags[0].Slug)
	assert.True(t, strings.HasPrefix(view.Image, "/media/recipes/"))
	assert.True(t, strings.HasSuffix(view.Image, ".png"))
}

func TestCreate_Anonymous(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Create(context.Background(), Caller{}, f.request())
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestCreate_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := Caller{UserID: f.alice.ID}

	cases := []struct {
		name   string
		mutate func(r *RecipeRequest)
		field  string
	}{
		{"zero cooking time", func(r *RecipeRequest) { r.CookingTime = 0 }, "cooking_time"},
		{"negative cooking time", func(r *RecipeRequest) { r.CookingTime = -5 }, "cooking_time"},
		{"no ingredients", func(r *RecipeRequest) { r.Ingredients = nil }, "ingredients"},
		{"zero amount", func(r *RecipeRequest) { r.Ingredients[0].Amount = 0 }, "ingredients"},
		{"duplicate ingredient", func(r *RecipeRequest) {
			r.Ingredients = append(r.Ingredients, IngredientInput{ID: f.flour.ID, Amount: 1})
		}, "ingredients"},
		{"unknown ingredient", func(r *RecipeRequest) { r.Ingredients[1].ID = 9999 }, "ingredients"},
		{"unknown tag", func(r *RecipeRequest) { r.Tags = []int64{9999} }, "tags"},
		{"empty name", func(r *RecipeRequest) { r.Name = "  " }, "name"},
		{"long text", func(r *RecipeRequest) { r.Text = strings.Repeat("x", 1001) }, "text"},
		{"bad image", func(r *RecipeRequest) { r.Image = "not-an-image" }, "image"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := f.request()
			tc.mutate(&req)

			_, err := f.svc.Create(ctx, alice, req)
			assert.ErrorIs(t, err, apperr.ErrValidation)
			assert.Equal(t, tc.field, asValidation(t, err).Field)
		})
	}

	var n int64
	require.NoError(t, f.db.Model(&domain.Recipe{}).Count(&n).Error)
	assert.Zero(t, n, "invalid payloads must not persist anything")
}

func TestCreate_DuplicateTagsCollapsed(t *testing.T) {
	f := newFixture(t)

	req := f.request()
	req.Tags = []int64{f.lunch.ID, f.dinner.ID, f.lunch.ID}
	view, err := f.svc.Create(context.Background(), Caller{UserID: f.alice.ID}, req)
	require.NoError(t, err)
	assert.Len(t, view.Tags, 2)
}

func TestUpdate_FullReplace(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := Caller{UserID: f.alice.ID}

	req := f.request()
	req.Image = pngDataURI
	created, err := f.svc.Create(ctx, alice, req)
	require.NoError(t, err)

	var before domain.Recipe
	require.NoError(t, f.db.First(&before, created.ID).Error)

	time.Sleep(10 * time.Millisecond)
	upd := RecipeRequest{
		Name:        "Sweet milk",
		CookingTime: 5,
		Ingredients: []IngredientInput{{ID: f.sugar.ID, Amount: 10}, {ID: f.milk.ID, Amount: 100}},
		Tags:        []int64{f.dinner.ID},
	}
	view, err := f.svc.Update(ctx, alice, created.ID, upd)
	require.NoError(t, err)

	require.Len(t, view.Ingredients, 2)
	assert.Equal(t, f.sugar.ID, view.Ingredients[0].ID)
	assert.Equal(t, f.milk.ID, view.Ingredients[1].ID)
	assert.Equal(t, 100, view.Ingredients[1].Amount)
	require.Len(t, view.Tags, 1)
	assert.Equal(t, "dinner", view.Tags[0].Slug)
	assert.Equal(t, created.Image, view.Image, "image is kept when not supplied")

	var after domain.Recipe
	require.NoError(t, f.db.First(&after, created.ID).Error)
	assert.True(t, before.CreatedDate.Equal(after.CreatedDate))

	var rows int64
	require.NoError(t, f.db.Model(&domain.IngredientAmount{}).Where("recipe_id = ?", created.ID).Count(&rows).Error)
	assert.Equal(t, int64(2), rows)
}

func TestUpdate_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := Caller{UserID: f.alice.ID}

	created, err := f.svc.Create(ctx, alice, f.request())
	require.NoError(t, err)

	cases := []struct {
		name   string
		mutate func(r *RecipeRequest)
		field  string
	}{
		{"zero cooking time", func(r *RecipeRequest) { r.CookingTime = 0 }, "cooking_time"},
		{"negative cooking time", func(r *RecipeRequest) { r.CookingTime = -1 }, "cooking_time"},
		{"no ingredients", func(r *RecipeRequest) { r.Ingredients = nil }, "ingredients"},
		{"duplicate ingredient", func(r *RecipeRequest) {
			r.Ingredients = []IngredientInput{{ID: f.sugar.ID, Amount: 1}, {ID: f.sugar.ID, Amount: 2}}
		}, "ingredients"},
		{"unknown ingredient", func(r *RecipeRequest) { r.Ingredients[0].ID = 9999 }, "ingredients"},
		{"unknown tag", func(r *RecipeRequest) { r.Tags = []int64{f.dinner.ID, 9999} }, "tags"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := f.request()
			req.Name = "Changed"
			req.Tags = []int64{f.dinner.ID}
			tc.mutate(&req)

			_, err := f.svc.Update(ctx, alice, created.ID, req)
			assert.ErrorIs(t, err, apperr.ErrValidation)
			assert.Equal(t, tc.field, asValidation(t, err).Field)
		})
	}

	// отклонённое обновление ничего не меняет
	got, err := f.svc.Get(ctx, alice, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pancakes", got.Name)
	assert.Equal(t, 20, got.CookingTime)
	require.Len(t, got.Ingredients, 2)
	assert.Equal(t, f.flour.ID, got.Ingredients[0].ID)
	assert.Equal(t, 200, got.Ingredients[0].Amount)
	assert.Equal(t, f.milk.ID, got.Ingredients[1].ID)
	require.Len(t, got.Tags, 1)
	assert.Equal(t, "lunch", got.Tags[0].Slug)
}

func TestUpdate_Permissions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, Caller{UserID: f.alice.ID}, f.request())
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, Caller{UserID: f.bob.ID}, created.ID, f.request())
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	assert.ErrorIs(t, f.svc.Delete(ctx, Caller{UserID: f.bob.ID}, created.ID), apperr.ErrForbidden)

	_, err = f.svc.Update(ctx, Caller{UserID: f.bob.ID, Role: "admin"}, created.ID, f.request())
	assert.NoError(t, err)

	_, err = f.svc.Update(ctx, Caller{UserID: f.alice.ID}, 9999, f.request())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := Caller{UserID: f.alice.ID}

	created, err := f.svc.Create(ctx, alice, f.request())
	require.NoError(t, err)
	require.NoError(t, f.cart.Add(ctx, f.bob.ID, created.ID))

	require.NoError(t, f.svc.Delete(ctx, alice, created.ID))

	_, err = f.svc.Get(ctx, alice, created.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	inCart, err := f.cart.Exists(ctx, f.bob.ID, created.ID)
	require.NoError(t, err)
	assert.False(t, inCart)
}

func TestList_FlagsAndFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := Caller{UserID: f.alice.ID}
	bob := Caller{UserID: f.bob.ID}

	r1, err := f.svc.Create(ctx, alice, f.request())
	require.NoError(t, err)
	r2, err := f.svc.Create(ctx, bob, f.request())
	require.NoError(t, err)

	require.NoError(t, f.favRepo.Add(ctx, f.alice.ID, r2.ID))
	require.NoError(t, f.cart.Add(ctx, f.alice.ID, r1.ID))
	require.NoError(t, repository.NewFollowRepository(f.db).Add(ctx, f.alice.ID, f.bob.ID))

	p := pagination.Params{Page: 1, Limit: 10}

	page, err := f.svc.List(ctx, alice, Filter{}, p)
	require.NoError(t, err)
	require.Len(t, page.Results, 2)
	assert.Equal(t, r2.ID, page.Results[0].ID)
	assert.True(t, page.Results[0].IsFavorited)
	assert.False(t, page.Results[0].IsInShoppingCart)
	assert.True(t, page.Results[0].Author.IsSubscribed)
	assert.True(t, page.Results[1].IsInShoppingCart)
	assert.False(t, page.Results[1].Author.IsSubscribed)

	page, err = f.svc.List(ctx, alice, Filter{IsFavorited: true}, p)
	require.NoError(t, err)
	require.Len(t, page.Results, 1)
	assert.Equal(t, r2.ID, page.Results[0].ID)

	page, err = f.svc.List(ctx, alice, Filter{IsInShoppingCart: true}, p)
	require.NoError(t, err)
	require.Len(t, page.Results, 1)
	assert.Equal(t, r1.ID, page.Results[0].ID)

	// для анонима флаги не фильтруют и всегда false
	page, err = f.svc.List(ctx, Caller{}, Filter{IsFavorited: true, IsInShoppingCart: true}, p)
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Count)
	for _, v := range page.Results {
		assert.False(t, v.IsFavorited)
		assert.False(t, v.IsInShoppingCart)
		assert.False(t, v.Author.IsSubscribed)
	}

	page, err = f.svc.List(ctx, Caller{}, Filter{AuthorID: f.bob.ID}, p)
	require.NoError(t, err)
	require.Len(t, page.Results, 1)
	assert.Equal(t, r2.ID, page.Results[0].ID)

	page, err = f.svc.List(ctx, Caller{}, Filter{Tags: []string{"dinner"}}, p)
	require.NoError(t, err)
	assert.Empty(t, page.Results)
	assert.NotNil(t, page.Results)
}
