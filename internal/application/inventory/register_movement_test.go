package inventory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/traslados-api/internal/application/inventory"
	"github.com/jhoicas/traslados-api/internal/domain"
	"github.com/jhoicas/traslados-api/internal/domain/entity"
	"github.com/jhoicas/traslados-api/internal/infrastructure/memory"
)

func cost(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestRegister_EntradaRecalculaCostoPromedio(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()

	mov, err := f.movements.Register(ctx, inventory.MovementInput{
		CompanyID: company, UserID: actor, ProductID: prodP, WarehouseID: whA,
		Kind: entity.MovementEntrada, Quantity: 10, UnitCost: cost("100"),
	})
	require.NoError(t, err)
	assert.EqualValues(t, 10, mov.BalanceAfter)

	// la segunda entrada llega a otra bodega; el promedio usa la cantidad total
	_, err = f.movements.Register(ctx, inventory.MovementInput{
		CompanyID: company, UserID: actor, ProductID: prodP, WarehouseID: whB,
		Kind: entity.MovementEntrada, Quantity: 10, UnitCost: cost("200"),
	})
	require.NoError(t, err)

	p, err := memory.NewProductRepository(f.store).GetByID(ctx, prodP)
	require.NoError(t, err)
	assert.True(t, p.Cost.Equal(decimal.NewFromInt(150)), "costo %s", p.Cost)
	assert.EqualValues(t, 10, f.qty(t, whA))
	assert.EqualValues(t, 10, f.qty(t, whB))
}

func TestRegister_Salida(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()

	mov, err := f.movements.Register(ctx, inventory.MovementInput{
		CompanyID: company, UserID: actor, ProductID: prodP, WarehouseID: whA,
		Kind: entity.MovementSalida, Quantity: 4, Note: "consumo mantenimiento",
	})
	require.NoError(t, err)
	assert.EqualValues(t, 6, mov.BalanceAfter)
	assert.Equal(t, "consumo mantenimiento", mov.Note)

	_, err = f.movements.Register(ctx, inventory.MovementInput{
		CompanyID: company, UserID: actor, ProductID: prodP, WarehouseID: whA,
		Kind: entity.MovementSalida, Quantity: 7,
	})
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
	assert.EqualValues(t, 6, f.qty(t, whA))

	movs, err := f.log.ListByWarehouse(ctx, company, whA)
	require.NoError(t, err)
	assert.Len(t, movs, 1, "la salida rechazada no deja movimiento")
}

func TestRegister_Validaciones(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()
	cases := map[string]struct {
		in   inventory.MovementInput
		want error
	}{
		"entrada sin costo": {
			inventory.MovementInput{CompanyID: company, ProductID: prodP, WarehouseID: whA, Kind: entity.MovementEntrada, Quantity: 1},
			domain.ErrValidation,
		},
		"costo negativo": {
			inventory.MovementInput{CompanyID: company, ProductID: prodP, WarehouseID: whA, Kind: entity.MovementEntrada, Quantity: 1, UnitCost: cost("-1")},
			domain.ErrValidation,
		},
		"traslado manual": {
			inventory.MovementInput{CompanyID: company, ProductID: prodP, WarehouseID: whA, Kind: entity.MovementTrasladoOut, Quantity: 1},
			domain.ErrValidation,
		},
		"cantidad cero": {
			inventory.MovementInput{CompanyID: company, ProductID: prodP, WarehouseID: whA, Kind: entity.MovementSalida},
			domain.ErrValidation,
		},
		"bodega de otra empresa": {
			inventory.MovementInput{CompanyID: "empresa-2", ProductID: prodP, WarehouseID: whA, Kind: entity.MovementSalida, Quantity: 1},
			domain.ErrNotFound,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.movements.Register(ctx, tc.in)
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
		})
	}
	assert.EqualValues(t, 10, f.qty(t, whA))
}
