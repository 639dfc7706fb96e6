package admin

import (
	"context"
	"fmt"
	"time"
)

type StatsStore interface {
	Count(ctx context.Context, table string) (int64, error)
	RecipesCreatedBetween(ctx context.Context, from, to time.Time) (int64, error)
}

type Service struct {
	stats StatsStore
	now   func() time.Time
}

func NewService(stats StatsStore) *Service {
	return &Service{stats: stats, now: time.Now}
}

func (s *Service) GetStatistics(ctx context.Context) (*StatisticsResponse, error) {
	out := &StatisticsResponse{}

	counters := []struct {
		table string
		dst   *int64
	}{
		{"users", &out.TotalUsers},
		{"recipes", &out.TotalRecipes},
		{"tags", &out.TotalTags},
		{"ingredients", &out.TotalIngredients},
		{"favorites", &out.TotalFavorites},
		{"shop_carts", &out.TotalShoppingCarts},
		{"follows", &out.TotalFollows},
	}
	for _, c := range counters {
		n, err := s.stats.Count(ctx, c.table)
		if err != nil {
			return nil, fmt.Errorf("count %s: %w", c.table, err)
		}
		*c.dst = n
	}

	now := s.now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	today, err := s.stats.RecipesCreatedBetween(ctx, start, start.Add(24*time.Hour))
	if err != nil {
		return nil, fmt.Errorf("count recipes today: %w", err)
	}
	out.RecipesToday = today

	return out, nil
}
