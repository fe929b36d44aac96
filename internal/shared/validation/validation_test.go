package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Confirm  string `json:"confirmPassword" validate:"eqfield=Password"`
}

func TestStruct(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, Struct(signupForm{Email: "a@b.co", Password: "secret", Confirm: "secret"}))
	})

	t.Run("reports json field names", func(t *testing.T) {
		err := Struct(signupForm{Email: "nope", Password: "abc", Confirm: "abd"})
		require.Error(t, err)

		var ve *Error
		require.True(t, errors.As(err, &ve))
		assert.Equal(t, []FieldError{
			{Field: "email", Message: "must be a valid email address"},
			{Field: "password", Message: "must be at least 6 characters"},
			{Field: "confirmPassword", Message: "must match Password"},
		}, ve.Fields)
		assert.True(t, Is(err))
	})
}

func TestError_Err(t *testing.T) {
	ve := &Error{}
	assert.NoError(t, ve.Err())

	ve.Add("quantity", "must be greater than 0")
	assert.EqualError(t, ve.Err(), "quantity must be greater than 0")
}
