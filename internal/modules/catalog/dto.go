package catalog

import "foodgram/internal/domain"

type CreateTagRequest struct {
	Name  string `json:"name" binding:"required" validate:"required,max=150"`
	Color string `json:"color" binding:"required" validate:"required,hexcolor,max=8"`
	Slug  string `json:"slug" binding:"required" validate:"required,max=150"`
}

type CreateIngredientRequest struct {
	Name            string `json:"name" binding:"required" validate:"required,max=150"`
	MeasurementUnit string `json:"measurement_unit" binding:"required" validate:"required,max=50"`
}

type TagResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Slug  string `json:"slug"`
}

type IngredientResponse struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

func ToTagResponse(t domain.Tag) TagResponse {
	return TagResponse{ID: t.ID, Name: t.Name, Color: t.Color, Slug: t.Slug}
}

func ToTagResponses(tags []domain.Tag) []TagResponse {
	out := make([]TagResponse, 0, len(tags))
	for _, t := range tags {
		out = append(out, ToTagResponse(t))
	}
	return out
}

func ToIngredientResponse(i domain.Ingredient) IngredientResponse {
	return IngredientResponse{ID: i.ID, Name: i.Name, MeasurementUnit: i.MeasurementUnit}
}

func ToIngredientResponses(items []domain.Ingredient) []IngredientResponse {
	out := make([]IngredientResponse, 0, len(items))
	for _, i := range items {
		out = append(out, ToIngredientResponse(i))
	}
	return out
}
