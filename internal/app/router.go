// Package app собирает зависимости и HTTP-роутер сервиса.
package app

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"foodgram/internal/config"
	"foodgram/internal/database"
	"foodgram/internal/middleware"
	"foodgram/internal/modules/admin"
	"foodgram/internal/modules/catalog"
	"foodgram/internal/modules/recipe"
	"foodgram/internal/modules/relation"
	"foodgram/internal/modules/shoplist"
	"foodgram/internal/modules/subscription"
	"foodgram/internal/modules/usersync"
	"foodgram/internal/pkg/jwt"
	"foodgram/internal/pkg/response"
	"foodgram/internal/repository"
	"foodgram/internal/storage"
)

// Options: внешние зависимости роутера.
type Options struct {
	Config   *config.Config
	DB       *gorm.DB
	Media    storage.Storage
	Renderer shoplist.Renderer
	// TokenTTL нужен только для локальной выдачи токенов в тестах.
	TokenTTL time.Duration
}

func NewRouter(opts Options) *gin.Engine {
	cfg := opts.Config
	db := opts.DB

	if opts.Renderer == nil {
		opts.Renderer = shoplist.NewPDFRenderer(cfg.PDF.FontPath)
	}
	if opts.TokenTTL == 0 {
		opts.TokenTTL = 24 * time.Hour
	}

	userRepo := repository.NewUserRepository(db)
	tagRepo := repository.NewTagRepository(db)
	ingredientRepo := repository.NewIngredientRepository(db)
	recipeRepo := repository.NewRecipeRepository(db)
	favoriteRepo := repository.NewFavoriteRepository(db)
	cartRepo := repository.NewShopCartRepository(db)
	followRepo := repository.NewFollowRepository(db)

	j := jwt.New(cfg.Auth.JWTSecret, opts.TokenTTL)

	catalogHandler := catalog.NewHandler(catalog.NewService(tagRepo, ingredientRepo))

	recipeService := recipe.NewService(recipe.Deps{
		Recipes:     recipeRepo,
		Tags:        tagRepo,
		Ingredients: ingredientRepo,
		Users:       userRepo,
		Follows:     followRepo,
		Favorites:   favoriteRepo,
		Carts:       cartRepo,
		Media:       opts.Media,
	})
	recipeHandler := recipe.NewHandler(recipeService, cfg.API.PageSize, cfg.API.MaxPageSize)

	relationHandler := relation.NewHandler(relation.NewService(recipeRepo, favoriteRepo, cartRepo))
	shoplistHandler := shoplist.NewHandler(shoplist.NewService(recipeRepo), opts.Renderer)
	subscriptionHandler := subscription.NewHandler(
		subscription.NewService(userRepo, followRepo, recipeRepo),
		cfg.API.PageSize, cfg.API.MaxPageSize,
	)

	usersyncHandler := usersync.NewHandler(usersync.NewService(userRepo))
	adminHandler := admin.NewHandler(admin.NewService(repository.NewStatsRepository(db)))

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.ErrorLogger(),
		middleware.AccessLog(),
		middleware.Metrics(),
		middleware.CORS(cfg.Server.CORSOriginList()),
		middleware.NewRateLimiter(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst).Middleware(),
	)

	r.GET("/health", health(db))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if local, ok := opts.Media.(*storage.Local); ok {
		r.Static(cfg.Media.BaseURL, local.Dir())
	}

	internal := r.Group("/internal",
		middleware.InternalToken(cfg.Internal.SyncToken, cfg.Internal.AllowedIPList()))
	usersyncHandler.RegisterRoutes(internal)

	api := r.Group("/api")
	{
		public := api.Group("", middleware.OptionalAuth(j))
		authed := api.Group("", middleware.JWTAuth(j))
		adminGroup := api.Group("", middleware.JWTAuth(j), middleware.AdminOnly())

		catalogHandler.RegisterRoutes(public, adminGroup)
		recipeHandler.RegisterRoutes(public, authed)
		relationHandler.RegisterRoutes(authed)
		shoplistHandler.RegisterRoutes(authed)
		subscriptionHandler.RegisterRoutes(public, authed)
		adminHandler.RegisterRoutes(adminGroup)
	}

	return r
}

func health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := database.Ping(ctx, db); err != nil {
			response.Error(c, http.StatusServiceUnavailable, "DB_UNAVAILABLE", "database is not reachable")
			return
		}
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	}
}
