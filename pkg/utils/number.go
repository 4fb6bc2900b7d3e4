package utils

import (
	"math"

	"github.com/spf13/cast"
)

func RoundWithTwoDecimalPlace(f float64) float64 {
	if f == 0 {
		return 0
	}

	return math.Round(f*100) / 100
}

// ToQuantity converte entradas do usuário em uma quantidade segura:
// valores não numéricos viram 1 e negativos viram 0
func ToQuantity(in any) int {
	if in == nil {
		return 1
	}

	quantity, err := cast.ToIntE(in)
	if err != nil {
		f, ferr := cast.ToFloat64E(in)
		if ferr != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 1
		}
		quantity = int(f)
	}

	if quantity < 0 {
		return 0
	}

	return quantity
}

// ToPrice converte entradas do usuário em um preço seguro (padrão 0)
func ToPrice(in any) float64 {
	if in == nil {
		return 0
	}

	price, err := cast.ToFloat64E(in)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		return 0
	}

	return RoundWithTwoDecimalPlace(price)
}
