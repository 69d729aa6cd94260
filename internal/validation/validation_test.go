package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"first_name" validate:"notblank"`
}

func TestFieldErrors(t *testing.T) {
	err := Struct(signup{Email: "nope", Password: "short", Name: "   "})
	require.Error(t, err)

	fields := FieldErrors(err)
	assert.Len(t, fields, 3)
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "password")
	assert.Equal(t, "this field cannot be blank", fields["first_name"])

	assert.NoError(t, Struct(signup{Email: "a@b.co", Password: "longenough", Name: "Ada"}))
	assert.Nil(t, FieldErrors(errors.New("plain")))
}
