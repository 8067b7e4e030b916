package dto

import "github.com/shopspring/decimal"

// LowStockAlertDTO producto por debajo de su stock mínimo.
type LowStockAlertDTO struct {
	ProductID    string `json:"product_id"`
	Code         string `json:"code"`
	ProductName  string `json:"product_name"`
	WarehouseID  string `json:"warehouse_id,omitempty"` // vacío = total de la empresa
	CurrentStock int64  `json:"current_stock"`
	MinStock     int64  `json:"min_stock"`
	Deficit      int64  `json:"deficit"`       // MinStock - CurrentStock
	SuggestedQty int64  `json:"suggested_qty"` // ceil(MinStock * 1.5) - CurrentStock
}

// ValuationLineDTO valor del inventario de un grupo (bodega o categoría).
type ValuationLineDTO struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Quantity int64           `json:"quantity"`
	Value    decimal.Decimal `json:"value"`
}

// ValuationDTO valorización: Σ cantidad × costo promedio.
type ValuationDTO struct {
	ByWarehouse []ValuationLineDTO `json:"by_warehouse"`
	ByCategory  []ValuationLineDTO `json:"by_category"`
	Total       decimal.Decimal    `json:"total"`
}
