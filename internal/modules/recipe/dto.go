package recipe

import (
	"foodgram/internal/domain"
	"foodgram/internal/modules/catalog"
	"foodgram/internal/repository"
)

// IngredientInput: строка состава в запросе на запись.
type IngredientInput struct {
	ID     int64 `json:"id" validate:"required,gt=0"`
	Amount int   `json:"amount" validate:"gte=1"`
}

// RecipeRequest: тело POST/PATCH /recipes. Image: data URI в base64,
// при обновлении пустое значение оставляет прежнюю картинку.
type RecipeRequest struct {
	Ingredients []IngredientInput `json:"ingredients" validate:"required,min=1,dive"`
	Tags        []int64           `json:"tags" validate:"omitempty,dive,gt=0"`
	Image       string            `json:"image"`
	Name        string            `json:"name" validate:"required,max=250"`
	Text        string            `json:"text" validate:"max=1000"`
	CookingTime int               `json:"cooking_time" validate:"gte=1"`
}

type AuthorView struct {
	Email        string `json:"email"`
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsSubscribed bool   `json:"is_subscribed"`
}

func NewAuthorView(u *domain.User, subscribed bool) AuthorView {
	if u == nil {
		return AuthorView{}
	}
	return AuthorView{
		Email:        u.Email,
		ID:           u.ID,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: subscribed,
	}
}

type IngredientView struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

type RecipeView struct {
	ID               int64                 `json:"id"`
	Tags             []catalog.TagResponse `json:"tags"`
	Author           AuthorView            `json:"author"`
	Ingredients      []IngredientView      `json:"ingredients"`
	IsFavorited      bool                  `json:"is_favorited"`
	IsInShoppingCart bool                  `json:"is_in_shopping_cart"`
	Name             string                `json:"name"`
	Image            string                `json:"image"`
	Text             string                `json:"text"`
	CookingTime      int                   `json:"cooking_time"`
}

// ShortView: краткая карточка рецепта (избранное, корзина, подписки).
type ShortView struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

func NewShortView(r domain.Recipe) ShortView {
	return ShortView{ID: r.ID, Name: r.Name, Image: r.Image, CookingTime: r.CookingTime}
}

func toIngredientViews(lines []repository.IngredientLine) []IngredientView {
	out := make([]IngredientView, 0, len(lines))
	for _, l := range lines {
		out = append(out, IngredientView{
			ID:              l.IngredientID,
			Name:            l.Name,
			MeasurementUnit: l.MeasurementUnit,
			Amount:          l.Amount,
		})
	}
	return out
}
