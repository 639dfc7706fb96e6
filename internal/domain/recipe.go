package domain

import "time"

type Recipe struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"size:250;not null"`
	AuthorID    int64     `json:"author_id" gorm:"not null;index"`
	Image       string    `json:"image" gorm:"size:512"`
	Text        string    `json:"text" gorm:"size:1000"`
	CookingTime int       `json:"cooking_time" gorm:"not null;check:chk_recipes_cooking_time,cooking_time > 0"`
	CreatedDate time.Time `json:"created_date" gorm:"not null;autoCreateTime;index"`

	Author *User `json:"-" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
}

func (Recipe) TableName() string {
	return "recipes"
}

// IngredientAmount: строка состава рецепта. Набор строк рецепта
// и есть его список ингредиентов.
type IngredientAmount struct {
	ID           int64 `json:"id" gorm:"primaryKey"`
	RecipeID     int64 `json:"recipe_id" gorm:"not null;index;uniqueIndex:idx_amount_recipe_ingredient"`
	IngredientID int64 `json:"ingredient_id" gorm:"not null;index;uniqueIndex:idx_amount_recipe_ingredient"`
	Amount       int   `json:"amount" gorm:"not null;check:chk_ingredient_amounts_amount,amount > 0"`

	Recipe     *Recipe     `json:"-" gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
	Ingredient *Ingredient `json:"-" gorm:"foreignKey:IngredientID;constraint:OnDelete:CASCADE"`
}

func (IngredientAmount) TableName() string {
	return "ingredient_amounts"
}

type RecipeTag struct {
	RecipeID int64 `gorm:"primaryKey;autoIncrement:false"`
	TagID    int64 `gorm:"primaryKey;autoIncrement:false;index"`

	Recipe *Recipe `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
	Tag    *Tag    `gorm:"foreignKey:TagID;constraint:OnDelete:CASCADE"`
}

func (RecipeTag) TableName() string {
	return "recipe_tags"
}
