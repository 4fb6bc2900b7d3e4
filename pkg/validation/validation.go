package validation

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

type FieldErrors map[string]string

var (
	once     sync.Once
	validate *validator.Validate
)

// Validator devolve a instância compartilhada, usando os nomes das tags json nos erros
func Validator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

func Struct(v any) error {
	return Validator().Struct(v)
}

// FromError converte erros do validator em um mapa campo -> mensagem
func FromError(err error) FieldErrors {
	out := FieldErrors{}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			out[fe.Field()] = messageForTag(fe.Tag(), fe.Param())
		}
		return out
	}

	out["_"] = "dados inválidos"
	return out
}

func messageForTag(tag, param string) string {
	switch tag {
	case "required":
		return "campo obrigatório"
	case "min":
		return "deve ter pelo menos " + param + " caracteres"
	case "max":
		return "deve ter no máximo " + param + " caracteres"
	case "gte":
		return "deve ser maior ou igual a " + param
	case "oneof":
		return "deve ser um de: " + param
	default:
		return "valor inválido"
	}
}
