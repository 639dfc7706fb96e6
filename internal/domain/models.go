package domain

// Models возвращает модели в порядке миграции.
func Models() []any {
	return []any{
		&User{},
		&Tag{},
		&Ingredient{},
		&Recipe{},
		&IngredientAmount{},
		&RecipeTag{},
		&Favorite{},
		&ShopCart{},
		&Follow{},
	}
}
