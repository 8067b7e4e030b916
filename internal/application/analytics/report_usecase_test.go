package analytics_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/traslados-api/internal/application/analytics"
	"github.com/jhoicas/traslados-api/internal/domain"
	"github.com/jhoicas/traslados-api/internal/domain/entity"
	"github.com/jhoicas/traslados-api/internal/domain/repository"
	"github.com/jhoicas/traslados-api/internal/infrastructure/memory"
)

const company = "empresa-1"

func seed(t *testing.T) (*analytics.ReportUseCase, *memory.Store) {
	t.Helper()
	ctx := context.Background()
	s := memory.NewStore()
	now := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)

	require.NoError(t, memory.NewCategoryRepository(s).Create(ctx, &entity.Category{
		ID: "cat-pint", CompanyID: company, Code: "PINT", Name: "Pinturas", Active: true, CreatedAt: now,
	}))
	products := []entity.Product{
		{ID: "p1", Code: "PIN-1", Name: "Pintura", CategoryID: "cat-pint", MinStock: 10, Cost: decimal.NewFromInt(20)},
		{ID: "p2", Code: "TOR-1", Name: "Tornillo", MinStock: 100, Cost: decimal.RequireFromString("0.5")},
		{ID: "p3", Code: "LIJ-1", Name: "Lija", MinStock: 0, Cost: decimal.NewFromInt(2)},
	}
	for i := range products {
		p := products[i]
		p.CompanyID, p.Active, p.CreatedAt = company, true, now
		require.NoError(t, memory.NewProductRepository(s).Create(ctx, &p))
	}
	for _, w := range []string{"A", "B"} {
		require.NoError(t, memory.NewWarehouseRepository(s).Create(ctx, &entity.Warehouse{
			ID: w, CompanyID: company, Code: w, Name: "Bodega " + w, Active: true, CreatedAt: now,
		}))
	}
	levels := []entity.StockLevel{
		{ProductID: "p1", WarehouseID: "A", Quantity: 4},
		{ProductID: "p1", WarehouseID: "B", Quantity: 8},
		{ProductID: "p2", WarehouseID: "A", Quantity: 30},
		{ProductID: "p3", WarehouseID: "B", Quantity: 5},
	}
	require.NoError(t, s.Run(ctx, func(r repository.TxRepos) error {
		for i := range levels {
			sl := levels[i]
			sl.CompanyID = company
			if err := r.Stock.Upsert(ctx, &sl); err != nil {
				return err
			}
		}
		return nil
	}))

	return analytics.NewReportUseCase(
		memory.NewProductRepository(s),
		memory.NewWarehouseRepository(s),
		memory.NewCategoryRepository(s),
		memory.NewStockRepository(s),
	), s
}

func TestLowStockAlerts_TotalEmpresa(t *testing.T) {
	uc, _ := seed(t)
	alerts, err := uc.LowStockAlerts(context.Background(), company, "")
	require.NoError(t, err)

	// p1 suma 12 en total y no está bajo; p3 no tiene umbral
	require.Len(t, alerts, 1)
	a := alerts[0]
	assert.Equal(t, "TOR-1", a.Code)
	assert.EqualValues(t, 30, a.CurrentStock)
	assert.EqualValues(t, 70, a.Deficit)
	assert.EqualValues(t, 120, a.SuggestedQty)
}

func TestLowStockAlerts_PorBodega(t *testing.T) {
	uc, _ := seed(t)
	alerts, err := uc.LowStockAlerts(context.Background(), company, "A")
	require.NoError(t, err)

	require.Len(t, alerts, 2)
	assert.Equal(t, "TOR-1", alerts[0].Code, "mayor déficit primero")
	assert.Equal(t, "PIN-1", alerts[1].Code)
	assert.EqualValues(t, 6, alerts[1].Deficit)
	assert.EqualValues(t, 11, alerts[1].SuggestedQty, "ceil(10*1.5) - 4")
	assert.Equal(t, "A", alerts[1].WarehouseID)

	_, err = uc.LowStockAlerts(context.Background(), company, "Z")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestValuation(t *testing.T) {
	uc, _ := seed(t)
	v, err := uc.Valuation(context.Background(), company)
	require.NoError(t, err)

	// A: 4*20 + 30*0.5 = 95; B: 8*20 + 5*2 = 170
	require.Len(t, v.ByWarehouse, 2)
	assert.Equal(t, "B", v.ByWarehouse[0].ID)
	assert.Equal(t, "Bodega B", v.ByWarehouse[0].Name)
	assert.True(t, v.ByWarehouse[0].Value.Equal(decimal.NewFromInt(170)))
	assert.True(t, v.ByWarehouse[1].Value.Equal(decimal.NewFromInt(95)))

	// Pinturas: 12*20 = 240; sin categoría: 15 + 10 = 25
	require.Len(t, v.ByCategory, 2)
	assert.Equal(t, "Pinturas", v.ByCategory[0].Name)
	assert.True(t, v.ByCategory[0].Value.Equal(decimal.NewFromInt(240)))
	assert.Equal(t, analytics.NoCategoryName, v.ByCategory[1].Name)
	assert.EqualValues(t, 35, v.ByCategory[1].Quantity)

	assert.True(t, v.Total.Equal(decimal.NewFromInt(265)), "total %s", v.Total)
}

func TestValuation_EmpresaSinInventario(t *testing.T) {
	uc, _ := seed(t)
	v, err := uc.Valuation(context.Background(), "empresa-2")
	require.NoError(t, err)
	assert.Empty(t, v.ByWarehouse)
	assert.Empty(t, v.ByCategory)
	assert.True(t, v.Total.IsZero())
}
