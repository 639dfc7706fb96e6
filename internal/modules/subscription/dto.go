package subscription

import "foodgram/internal/modules/recipe"

// SubscriptionView: автор, на которого подписан пользователь, с превью рецептов.
type SubscriptionView struct {
	recipe.AuthorView
	Recipes      []recipe.ShortView `json:"recipes"`
	RecipesCount int64              `json:"recipes_count"`
}
