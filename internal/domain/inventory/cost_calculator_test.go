package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/traslados-api/internal/domain/inventory"
)

func TestCostCalculator_PromedioPonderado(t *testing.T) {
	// 10 unidades a 1000 + 30 unidades a 2000 = 70000 / 40 = 1750
	got := inventory.CostCalculator(10, decimal.NewFromInt(1000), 30, decimal.NewFromInt(2000))
	assert.True(t, got.Equal(decimal.NewFromInt(1750)), "costo esperado 1750, obtenido %s", got)
}

func TestCostCalculator_SinStockPrevio(t *testing.T) {
	got := inventory.CostCalculator(0, decimal.Zero, 5, decimal.RequireFromString("12.5"))
	assert.True(t, got.Equal(decimal.RequireFromString("12.5")))
}

func TestCostCalculator_CantidadTotalCero(t *testing.T) {
	got := inventory.CostCalculator(0, decimal.NewFromInt(100), 0, decimal.NewFromInt(200))
	assert.True(t, got.IsZero())
}
