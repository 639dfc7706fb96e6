package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"

	"foodgram/internal/config"
	"foodgram/internal/database"
	"foodgram/internal/logging"
	"foodgram/internal/pkg/jwt"
	"foodgram/internal/seed"
)

func main() {
	tagsPath := flag.String("tags", "data/tags.json", "JSON-файл с тегами")
	ingredientsPath := flag.String("ingredients", "data/ingredients.json", "JSON-файл с ингредиентами")
	demo := flag.Bool("demo-users", false, "создать демо-пользователей и напечатать их токены")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("load config")
	}
	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	db, err := database.Connect(cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("db connect failed")
	}
	if err := database.Migrate(db); err != nil {
		logging.Fatal().Err(err).Msg("migrate failed")
	}

	ctx := context.Background()
	var res seed.Result

	if *tagsPath != "" {
		records, err := readFile(*tagsPath, seed.ReadTags)
		if err != nil {
			logging.Fatal().Err(err).Msg("read tags")
		}
		if res.Tags, err = seed.Tags(ctx, db, records); err != nil {
			logging.Fatal().Err(err).Msg("seed tags")
		}
	}

	if *ingredientsPath != "" {
		records, err := readFile(*ingredientsPath, seed.ReadIngredients)
		if err != nil {
			logging.Fatal().Err(err).Msg("read ingredients")
		}
		if res.Ingredients, err = seed.Ingredients(ctx, db, records); err != nil {
			logging.Fatal().Err(err).Msg("seed ingredients")
		}
	}

	if *demo {
		users, err := seed.DemoUsers(ctx, db)
		if err != nil {
			logging.Fatal().Err(err).Msg("seed users")
		}
		res.Users = int64(len(users))

		j := jwt.New(cfg.Auth.JWTSecret, 30*24*time.Hour)
		for _, u := range users {
			tok, err := j.GenerateToken(u.ID, string(u.Role))
			if err != nil {
				logging.Fatal().Err(err).Msg("generate token")
			}
			fmt.Printf("%s\t%s\n", u.Username, tok)
		}
	}

	logging.Info().
		Int64("tags", res.Tags).
		Int64("ingredients", res.Ingredients).
		Int64("users", res.Users).
		Msg("seed completed")
}

func readFile[T any](path string, read func(io.Reader) ([]T, error)) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return read(f)
}
