package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ToMinorUnits convierte un monto en unidad mayor (ej. 29.99 USD) a unidades menores (2999 centavos).
// Redondea half-up para no cobrar de menos de forma sistemática: 29.995 → 3000.
// Montos negativos se rechazan.
func ToMinorUnits(amount decimal.Decimal) (int64, error) {
	if amount.IsNegative() {
		return 0, fmt.Errorf("monto negativo: %s", amount.String())
	}
	// decimal.Round redondea "half away from zero", que para montos positivos equivale a half-up.
	cents := amount.Mul(hundred).Round(0)
	if !cents.IsInteger() {
		return 0, fmt.Errorf("monto no representable: %s", amount.String())
	}
	return cents.IntPart(), nil
}

// FromMinorUnits convierte centavos a unidad mayor con dos decimales.
func FromMinorUnits(minor int64) decimal.Decimal {
	return decimal.New(minor, -2)
}
