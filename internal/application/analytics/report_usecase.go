// Package analytics contiene los reportes de consulta sobre el inventario confirmado:
// alertas de stock bajo y valorización.
package analytics

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/traslados-api/internal/application/dto"
	"github.com/jhoicas/traslados-api/internal/domain"
	"github.com/jhoicas/traslados-api/internal/domain/entity"
	"github.com/jhoicas/traslados-api/internal/domain/repository"
)

// NoCategoryName agrupa en la valorización los productos sin categoría.
const NoCategoryName = "Sin categoría"

// idealStockFactor stock ideal = MinStock * 1.5; la sugerencia de reposición completa hasta ahí.
var idealStockFactor = decimal.NewFromFloat(1.5)

// ReportUseCase reportes de solo lectura. No abre transacciones.
type ReportUseCase struct {
	products   repository.ProductRepository
	warehouses repository.WarehouseRepository
	categories repository.CategoryRepository
	stock      repository.StockRepository
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(
	products repository.ProductRepository,
	warehouses repository.WarehouseRepository,
	categories repository.CategoryRepository,
	stock repository.StockRepository,
) *ReportUseCase {
	return &ReportUseCase{products: products, warehouses: warehouses, categories: categories, stock: stock}
}

// LowStockAlerts productos activos con cantidad menor a su MinStock, mayor déficit primero.
// warehouseID vacío compara contra el total de la empresa.
func (uc *ReportUseCase) LowStockAlerts(ctx context.Context, companyID, warehouseID string) ([]dto.LowStockAlertDTO, error) {
	if warehouseID != "" {
		wh, err := uc.warehouses.GetByID(ctx, warehouseID)
		if err != nil {
			return nil, err
		}
		if wh == nil || wh.CompanyID != companyID {
			return nil, fmt.Errorf("%w: bodega %s", domain.ErrNotFound, warehouseID)
		}
	}
	active := true
	products, err := uc.products.List(ctx, repository.ProductFilter{CompanyID: companyID, Active: &active})
	if err != nil {
		return nil, err
	}
	levels, err := uc.stock.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	qty := make(map[string]int64, len(products))
	for _, sl := range levels {
		if warehouseID == "" || sl.WarehouseID == warehouseID {
			qty[sl.ProductID] += sl.Quantity
		}
	}

	alerts := make([]dto.LowStockAlertDTO, 0)
	for _, p := range products {
		current := qty[p.ID]
		if p.MinStock <= 0 || current >= p.MinStock {
			continue
		}
		ideal := decimal.NewFromInt(p.MinStock).Mul(idealStockFactor).Ceil().IntPart()
		alerts = append(alerts, dto.LowStockAlertDTO{
			ProductID:    p.ID,
			Code:         p.Code,
			ProductName:  p.Name,
			WarehouseID:  warehouseID,
			CurrentStock: current,
			MinStock:     p.MinStock,
			Deficit:      p.MinStock - current,
			SuggestedQty: ideal - current,
		})
	}
	sort.SliceStable(alerts, func(i, j int) bool {
		if alerts[i].Deficit != alerts[j].Deficit {
			return alerts[i].Deficit > alerts[j].Deficit
		}
		return alerts[i].Code < alerts[j].Code
	})
	return alerts, nil
}

// Valuation Σ cantidad × costo promedio por bodega y por categoría. Ambas agregaciones
// corren en paralelo sobre la misma lectura de existencias.
func (uc *ReportUseCase) Valuation(ctx context.Context, companyID string) (*dto.ValuationDTO, error) {
	products, err := uc.products.List(ctx, repository.ProductFilter{CompanyID: companyID})
	if err != nil {
		return nil, err
	}
	levels, err := uc.stock.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*entity.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	out := &dto.ValuationDTO{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		warehouses, err := uc.warehouses.List(gctx, repository.WarehouseFilter{CompanyID: companyID})
		if err != nil {
			return err
		}
		names := make(map[string]string, len(warehouses))
		for _, w := range warehouses {
			names[w.ID] = w.Name
		}
		out.ByWarehouse = aggregate(levels, byID, names, func(sl *entity.StockLevel, _ *entity.Product) string {
			return sl.WarehouseID
		})
		return nil
	})
	g.Go(func() error {
		categories, err := uc.categories.ListByCompany(gctx, companyID, 0, 0)
		if err != nil {
			return err
		}
		names := map[string]string{"": NoCategoryName}
		for _, c := range categories {
			names[c.ID] = c.Name
		}
		out.ByCategory = aggregate(levels, byID, names, func(_ *entity.StockLevel, p *entity.Product) string {
			return p.CategoryID
		})
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out.Total = decimal.Zero
	for _, line := range out.ByWarehouse {
		out.Total = out.Total.Add(line.Value)
	}
	return out, nil
}

// aggregate agrupa las existencias con cantidad > 0 según groupOf, ordenado por valor descendente.
func aggregate(
	levels []*entity.StockLevel,
	products map[string]*entity.Product,
	names map[string]string,
	groupOf func(*entity.StockLevel, *entity.Product) string,
) []dto.ValuationLineDTO {
	lines := make(map[string]*dto.ValuationLineDTO)
	for _, sl := range levels {
		p, ok := products[sl.ProductID]
		if !ok || sl.Quantity == 0 {
			continue
		}
		id := groupOf(sl, p)
		line, ok := lines[id]
		if !ok {
			line = &dto.ValuationLineDTO{ID: id, Name: names[id], Value: decimal.Zero}
			lines[id] = line
		}
		line.Quantity += sl.Quantity
		line.Value = line.Value.Add(p.Cost.Mul(decimal.NewFromInt(sl.Quantity)))
	}
	out := make([]dto.ValuationLineDTO, 0, len(lines))
	for _, line := range lines {
		out = append(out, *line)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Value.Equal(out[j].Value) {
			return out[i].Value.GreaterThan(out[j].Value)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
