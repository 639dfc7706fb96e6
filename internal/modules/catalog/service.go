package catalog

import (
	"context"
	"regexp"
	"strings"

	"foodgram/internal/domain"
	"foodgram/internal/pkg/apperr"
	"foodgram/internal/pkg/validator"
	"foodgram/internal/repository"
)

var slugRe = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

type Service struct {
	tags        *repository.TagRepository
	ingredients *repository.IngredientRepository
}

func NewService(tags *repository.TagRepository, ingredients *repository.IngredientRepository) *Service {
	return &Service{tags: tags, ingredients: ingredients}
}

func (s *Service) ListTags(ctx context.Context) ([]domain.Tag, error) {
	return s.tags.List(ctx)
}

func (s *Service) GetTag(ctx context.Context, id int64) (*domain.Tag, error) {
	return s.tags.GetByID(ctx, id)
}

func (s *Service) CreateTag(ctx context.Context, req CreateTagRequest) (*domain.Tag, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Slug = strings.TrimSpace(req.Slug)
	req.Color = strings.ToUpper(strings.TrimSpace(req.Color))

	if err := validator.Check(req); err != nil {
		return nil, err
	}
	if !slugRe.MatchString(req.Slug) {
		return nil, apperr.Invalid("slug", "may contain only letters, digits, '-' and '_'")
	}

	tag := &domain.Tag{Name: req.Name, Color: req.Color, Slug: req.Slug}
	if err := s.tags.Create(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

func (s *Service) SearchIngredients(ctx context.Context, name string) ([]domain.Ingredient, error) {
	return s.ingredients.Search(ctx, name)
}

func (s *Service) GetIngredient(ctx context.Context, id int64) (*domain.Ingredient, error) {
	return s.ingredients.GetByID(ctx, id)
}

func (s *Service) CreateIngredient(ctx context.Context, req CreateIngredientRequest) (*domain.Ingredient, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.MeasurementUnit = strings.TrimSpace(req.MeasurementUnit)

	if err := validator.Check(req); err != nil {
		return nil, err
	}

	ing := &domain.Ingredient{Name: req.Name, MeasurementUnit: req.MeasurementUnit}
	if err := s.ingredients.Create(ctx, ing); err != nil {
		return nil, err
	}
	return ing, nil
}
