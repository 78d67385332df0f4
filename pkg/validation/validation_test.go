package validation

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Name  string `json:"name" validate:"required,max=5"`
	Email string `json:"email" validate:"required,email_shape"`
	Tier  string `json:"tier,omitempty" validate:"omitempty,oneof=a b"`
	Seats *int   `json:"seats" validate:"omitnil,min=1"`
}

func TestStructValid(t *testing.T) {
	seats := 3
	assert.NoError(t, Struct(signup{Name: "Sari", Email: "s@x.id", Tier: "a", Seats: &seats}))
}

func TestStructReportsJSONFieldNames(t *testing.T) {
	zero := 0
	err := Struct(signup{Name: "toolong", Email: "nope", Tier: "c", Seats: &zero})
	fe, ok := AsFieldErrors(err)
	require.True(t, ok)

	assert.Equal(t, []FieldError{
		{Field: "name", Code: "too_large", Message: "must be at most 5"},
		{Field: "email", Code: "invalid_email", Message: "enter a valid email address"},
		{Field: "tier", Code: "invalid_choice", Message: "must be one of: a b"},
		{Field: "seats", Code: "too_small", Message: "must be at least 1"},
	}, []FieldError(fe))
}

func TestFieldErrorsHelpers(t *testing.T) {
	fe := FieldErrors{
		{Field: "email", Code: "required", Message: "this field is required"},
		{Field: "phone", Code: "required", Message: "this field is required"},
	}
	assert.True(t, fe.Has("phone"))
	assert.False(t, fe.Has("company"))

	first, ok := fe.First()
	require.True(t, ok)
	assert.Equal(t, "email", first.Field)
	assert.Equal(t, "this field is required", fe.Map()["phone"])
	assert.Equal(t, "validation error: email: required, phone: required", fe.Error())

	_, ok = FieldErrors(nil).First()
	assert.False(t, ok)
}

func TestAsFieldErrorsUnwraps(t *testing.T) {
	wrapped := fmt.Errorf("submit: %w", FieldErrors{{Field: "email", Code: "required"}})
	fe, ok := AsFieldErrors(wrapped)
	require.True(t, ok)
	assert.Len(t, fe, 1)

	_, ok = AsFieldErrors(errors.New("plain"))
	assert.False(t, ok)
}
