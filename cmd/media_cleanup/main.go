// media_cleanup удаляет картинки рецептов, на которые больше никто не ссылается.
// Работает только с local-хранилищем; запускать по крону.
package main

import (
	"context"
	"flag"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"foodgram/internal/config"
	"foodgram/internal/database"
	"foodgram/internal/logging"
	"foodgram/internal/repository"
	"foodgram/internal/storage"
)

func main() {
	minAge := flag.Duration("min-age", 24*time.Hour, "не трогать файлы моложе этого возраста")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("load config")
	}
	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	if !strings.EqualFold(cfg.Media.Backend, "local") {
		logging.Info().Str("backend", cfg.Media.Backend).Msg("nothing to do for non-local media")
		return
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("db connect failed")
	}

	ctx := context.Background()
	urls, err := repository.NewRecipeRepository(db).ImageURLs(ctx)
	if err != nil {
		logging.Fatal().Err(err).Msg("load image urls")
	}

	local := storage.NewLocal(cfg.Media.LocalDir, cfg.Media.BaseURL)
	keep := make(map[string]bool, len(urls))
	for _, u := range urls {
		if key, ok := local.KeyFromURL(u); ok {
			keep[key] = true
		}
	}

	removed, err := local.Prune(ctx, "recipes", keep, time.Now().Add(-*minAge))
	if err != nil {
		logging.Fatal().Err(err).Msg("prune media")
	}
	logging.Info().Int("removed", len(removed)).Int("referenced", len(keep)).Msg("media cleanup completed")
}
