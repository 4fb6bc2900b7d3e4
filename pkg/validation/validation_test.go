package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name   string `json:"name" validate:"required,max=5"`
	Amount int    `json:"amount" validate:"gte=0"`
	Status string `json:"status" validate:"oneof=a b"`
}

func TestStruct_FieldErrorsUseJSONNames(t *testing.T) {
	err := Struct(sample{Name: "muito longo", Amount: -1, Status: "c"})
	require.Error(t, err)

	fields := FromError(err)
	assert.Equal(t, FieldErrors{
		"name":   "deve ter no máximo 5 caracteres",
		"amount": "deve ser maior ou igual a 0",
		"status": "deve ser um de: a b",
	}, fields)
}

func TestStruct_Valid(t *testing.T) {
	assert.NoError(t, Struct(sample{Name: "ok", Amount: 1, Status: "a"}))
}

func TestFromError_NonValidationError(t *testing.T) {
	assert.Equal(t, FieldErrors{"_": "dados inválidos"}, FromError(errors.New("x")))
}
