package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"foodgram/internal/pkg/apperr"
)

type item struct {
	ID     int64 `json:"id" validate:"required"`
	Amount int   `json:"amount" validate:"min=1"`
}

type payload struct {
	Name        string `json:"name" validate:"required,max=10"`
	CookingTime int    `json:"cooking_time" validate:"min=1"`
	Items       []item `json:"ingredients" validate:"min=1,dive"`
}

func TestValidate_FieldNamesFromJSON(t *testing.T) {
	errs := Validate(payload{Name: "", CookingTime: 0, Items: []item{{ID: 1, Amount: 0}}})

	assert.Equal(t, "required", errs["name"])
	assert.Equal(t, "min", errs["cooking_time"])
	assert.Equal(t, "min", errs["ingredients[0].amount"])
}

func TestValidate_OK(t *testing.T) {
	assert.Nil(t, Validate(payload{Name: "soup", CookingTime: 5, Items: []item{{ID: 1, Amount: 2}}}))
}

func TestCheck_ReturnsValidationError(t *testing.T) {
	err := Check(payload{Name: "soup", CookingTime: 0, Items: []item{{ID: 1, Amount: 1}}})

	var ve *apperr.ValidationError
	if assert.True(t, errors.As(err, &ve)) {
		assert.Equal(t, "cooking_time", ve.Field)
	}
	assert.ErrorIs(t, err, apperr.ErrValidation)
}
