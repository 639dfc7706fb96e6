package admin

type StatisticsResponse struct {
	TotalUsers         int64 `json:"total_users"`
	TotalRecipes       int64 `json:"total_recipes"`
	TotalTags          int64 `json:"total_tags"`
	TotalIngredients   int64 `json:"total_ingredients"`
	TotalFavorites     int64 `json:"total_favorites"`
	TotalShoppingCarts int64 `json:"total_shopping_carts"`
	TotalFollows       int64 `json:"total_follows"`
	RecipesToday       int64 `json:"recipes_today"`
}
