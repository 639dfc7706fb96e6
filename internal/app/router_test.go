package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodgram/internal/config"
	"foodgram/internal/domain"
	"foodgram/internal/modules/recipe"
	"foodgram/internal/pkg/jwt"
	"foodgram/internal/pkg/pagination"
	"foodgram/internal/storage"
	"foodgram/internal/testutil"
)

type apiClient struct {
	t      *testing.T
	router *gin.Engine
}

func (a *apiClient) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

type world struct {
	api    *apiClient
	alice  *domain.User
	bob    *domain.User
	tokA   string
	tokB   string
	flour  *domain.Ingredient
	egg    *domain.Ingredient
	lunch  *domain.Tag
	dinner *domain.Tag
}

func newWorld(t *testing.T) *world {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	cfg := config.Default()
	cfg.Auth.JWTSecret = "e2e-secret"
	cfg.Server.RateLimitRPS = 0
	cfg.API.PageSize = 2

	router := NewRouter(Options{
		Config: cfg,
		DB:     db,
		Media:  storage.NewLocal(t.TempDir(), cfg.Media.BaseURL),
	})

	w := &world{
		api:    &apiClient{t: t, router: router},
		alice:  testutil.User(t, db, "alice"),
		bob:    testutil.User(t, db, "bob"),
		flour:  testutil.Ingredient(t, db, "Flour", "g"),
		egg:    testutil.Ingredient(t, db, "Egg", "pcs"),
		lunch:  testutil.Tag(t, db, "Lunch", "#E26C2D", "lunch"),
		dinner: testutil.Tag(t, db, "Dinner", "#49B64E", "dinner"),
	}

	j := jwt.New(cfg.Auth.JWTSecret, time.Hour)
	w.tokA, _ = j.GenerateToken(w.alice.ID, "user")
	w.tokB, _ = j.GenerateToken(w.bob.ID, "user")
	return w
}

func (w *world) createRecipe(t *testing.T, token, name string, tags []int64, items ...recipe.IngredientInput) recipe.RecipeView {
	t.Helper()
	resp := w.api.do(http.MethodPost, "/api/recipes", token, recipe.RecipeRequest{
		Name:        name,
		Text:        "text",
		CookingTime: 10,
		Ingredients: items,
		Tags:        tags,
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	var view recipe.RecipeView
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &view))
	return view
}

func TestHealth(t *testing.T) {
	w := newWorld(t)

	resp := w.api.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"status":"ok"`)
	assert.NotEmpty(t, resp.Header().Get("X-Request-ID"))
}

func TestMetricsEndpoint(t *testing.T) {
	w := newWorld(t)
	w.api.do(http.MethodGet, "/api/tags", "", nil)

	resp := w.api.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "foodgram_http_requests_total")
}

func TestShoppingListDownload(t *testing.T) {
	w := newWorld(t)

	bread := w.createRecipe(t, w.tokA, "Bread", nil, recipe.IngredientInput{ID: w.flour.ID, Amount: 200})
	cake := w.createRecipe(t, w.tokB, "Cake", nil,
		recipe.IngredientInput{ID: w.flour.ID, Amount: 100},
		recipe.IngredientInput{ID: w.egg.ID, Amount: 3},
	)

	for _, id := range []int64{bread.ID, cake.ID} {
		resp := w.api.do(http.MethodPost, fmt.Sprintf("/api/recipes/%d/shopping_cart", id), w.tokA, nil)
		require.Equal(t, http.StatusCreated, resp.Code)
	}

	resp := w.api.do(http.MethodGet, "/api/recipes/download_shopping_cart", w.tokA, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "application/pdf", resp.Header().Get("Content-Type"))
	assert.Contains(t, resp.Header().Get("Content-Disposition"), "attachment")

	data := resp.Body.Bytes()
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	var text strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		p := reader.Page(i)
		if p.V.IsNull() {
			continue
		}
		s, err := p.GetPlainText(nil)
		require.NoError(t, err)
		text.WriteString(s)
	}
	assert.Contains(t, text.String(), "Flour - 300 g")
	assert.Contains(t, text.String(), "Egg - 3 pcs")

	anon := w.api.do(http.MethodGet, "/api/recipes/download_shopping_cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, anon.Code)
}

func TestRecipeListPaginationAndFilters(t *testing.T) {
	w := newWorld(t)

	r1 := w.createRecipe(t, w.tokA, "r1", []int64{w.lunch.ID}, recipe.IngredientInput{ID: w.egg.ID, Amount: 1})
	r2 := w.createRecipe(t, w.tokA, "r2", []int64{w.dinner.ID}, recipe.IngredientInput{ID: w.egg.ID, Amount: 1})
	r3 := w.createRecipe(t, w.tokB, "r3", []int64{w.lunch.ID}, recipe.IngredientInput{ID: w.egg.ID, Amount: 1})

	resp := w.api.do(http.MethodGet, "/api/recipes", "", nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var page pagination.Page[recipe.RecipeView]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &page))
	assert.Equal(t, int64(3), page.Count)
	require.Len(t, page.Results, 2)
	assert.Equal(t, r3.ID, page.Results[0].ID)
	assert.Equal(t, r2.ID, page.Results[1].ID)
	require.NotNil(t, page.Next)
	assert.Contains(t, *page.Next, "page=2")
	assert.Nil(t, page.Previous)

	resp = w.api.do(http.MethodGet, "/api/recipes?tags=lunch&limit=10", "", nil)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &page))
	require.Len(t, page.Results, 2)
	assert.Equal(t, r3.ID, page.Results[0].ID)
	assert.Equal(t, r1.ID, page.Results[1].ID)

	require.Equal(t, http.StatusCreated,
		w.api.do(http.MethodPost, fmt.Sprintf("/api/recipes/%d/favorite", r2.ID), w.tokB, nil).Code)

	// аноним с is_favorited=1 получает всё
	resp = w.api.do(http.MethodGet, "/api/recipes?is_favorited=1&limit=10", "", nil)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &page))
	assert.Equal(t, int64(3), page.Count)

	resp = w.api.do(http.MethodGet, "/api/recipes?is_favorited=1&limit=10", w.tokB, nil)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &page))
	require.Len(t, page.Results, 1)
	assert.Equal(t, r2.ID, page.Results[0].ID)
	assert.True(t, page.Results[0].IsFavorited)

	resp = w.api.do(http.MethodGet, "/api/recipes?is_favorited=maybe", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestRecipeWriteErrors(t *testing.T) {
	w := newWorld(t)

	resp := w.api.do(http.MethodPost, "/api/recipes", "", recipe.RecipeRequest{})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = w.api.do(http.MethodPost, "/api/recipes", w.tokA, recipe.RecipeRequest{
		Name:        "bad",
		CookingTime: 5,
		Ingredients: []recipe.IngredientInput{{ID: w.egg.ID, Amount: 1}, {ID: w.egg.ID, Amount: 2}},
	})
	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "VALIDATION_ERROR")
	assert.Contains(t, resp.Body.String(), `"ingredients"`)

	created := w.createRecipe(t, w.tokA, "mine", nil, recipe.IngredientInput{ID: w.egg.ID, Amount: 1})

	resp = w.api.do(http.MethodPatch, fmt.Sprintf("/api/recipes/%d", created.ID), w.tokB, recipe.RecipeRequest{
		Name: "stolen", CookingTime: 1, Ingredients: []recipe.IngredientInput{{ID: w.egg.ID, Amount: 1}},
	})
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = w.api.do(http.MethodDelete, fmt.Sprintf("/api/recipes/%d", created.ID), w.tokA, nil)
	assert.Equal(t, http.StatusNoContent, resp.Code)

	resp = w.api.do(http.MethodGet, fmt.Sprintf("/api/recipes/%d", created.ID), "", nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestSubscriptionsFlow(t *testing.T) {
	w := newWorld(t)
	w.createRecipe(t, w.tokB, "b1", nil, recipe.IngredientInput{ID: w.egg.ID, Amount: 1})
	w.createRecipe(t, w.tokB, "b2", nil, recipe.IngredientInput{ID: w.egg.ID, Amount: 1})

	resp := w.api.do(http.MethodPost, fmt.Sprintf("/api/users/%d/subscribe?recipes_limit=1", w.bob.ID), w.tokA, nil)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	assert.Contains(t, resp.Body.String(), `"recipes_count":2`)
	assert.Contains(t, resp.Body.String(), `"is_subscribed":true`)

	resp = w.api.do(http.MethodPost, fmt.Sprintf("/api/users/%d/subscribe", w.alice.ID), w.tokA, nil)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = w.api.do(http.MethodGet, "/api/users/subscriptions?recipes_limit=1", w.tokA, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"username":"bob"`)

	resp = w.api.do(http.MethodGet, fmt.Sprintf("/api/users/%d", w.bob.ID), w.tokA, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"is_subscribed":true`)

	resp = w.api.do(http.MethodGet, "/api/users/me", w.tokA, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"username":"alice"`)

	resp = w.api.do(http.MethodDelete, fmt.Sprintf("/api/users/%d/subscribe", w.bob.ID), w.tokA, nil)
	assert.Equal(t, http.StatusNoContent, resp.Code)
	resp = w.api.do(http.MethodDelete, fmt.Sprintf("/api/users/%d/subscribe", w.bob.ID), w.tokA, nil)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestCatalogRoutes(t *testing.T) {
	w := newWorld(t)

	resp := w.api.do(http.MethodGet, "/api/ingredients?name=flo", "", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"name":"Flour"`)
	assert.NotContains(t, resp.Body.String(), "Egg")

	resp = w.api.do(http.MethodPost, "/api/tags", w.tokA, gin.H{"name": "x", "color": "#000000", "slug": "x"})
	assert.Equal(t, http.StatusForbidden, resp.Code)
}

func TestInternalUserSyncThenUseToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testutil.NewDB(t)
	cfg := config.Default()
	cfg.Internal.SyncToken = "sync"
	cfg.Server.RateLimitRPS = 0
	api := &apiClient{t: t, router: NewRouter(Options{Config: cfg, DB: db, Media: storage.NewLocal(t.TempDir(), "/media")})}

	resp := api.do(http.MethodPost, "/internal/users/sync", "sync", gin.H{
		"id": 900, "email": "new@example.com", "username": "newcomer", "role": "user",
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	tok, err := jwt.New(cfg.Auth.JWTSecret, time.Hour).GenerateToken(900, "user")
	require.NoError(t, err)

	resp = api.do(http.MethodGet, "/api/users/me", tok, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"username":"newcomer"`)
}

func TestAdminStats(t *testing.T) {
	w := newWorld(t)
	w.createRecipe(t, w.tokA, "r", nil, recipe.IngredientInput{ID: w.egg.ID, Amount: 1})

	resp := w.api.do(http.MethodGet, "/api/admin/stats", w.tokA, nil)
	assert.Equal(t, http.StatusForbidden, resp.Code)

	admin, _ := jwt.New("e2e-secret", time.Hour).GenerateToken(w.alice.ID, "admin")
	resp = w.api.do(http.MethodGet, "/api/admin/stats", admin, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"total_recipes":1`)
	assert.Contains(t, resp.Body.String(), `"total_users":2`)
}
