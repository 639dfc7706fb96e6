package shoplist

import (
	"context"
	"fmt"

	"foodgram/internal/metrics"
	"foodgram/internal/repository"
)

// CartSource отдаёт строки состава всех рецептов из корзины пользователя.
type CartSource interface {
	CartIngredientRows(ctx context.Context, userID int64) ([]repository.CartIngredientRow, error)
}

type Service struct {
	source CartSource
}

func NewService(source CartSource) *Service {
	return &Service{source: source}
}

// Build собирает список покупок. Пустая корзина, пустой список без ошибки.
func (s *Service) Build(ctx context.Context, userID int64) ([]Line, error) {
	rows, err := s.source.CartIngredientRows(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("shopping list: %w", err)
	}
	lines := Aggregate(rows)
	metrics.ShoppingListLines.Observe(float64(len(lines)))
	return lines, nil
}
