package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del inventario (multi-bodega).
// Cost es promedio ponderado calculado desde las entradas; el stock se maneja por bodega en StockLevel.
type Product struct {
	ID         string
	CompanyID  string
	Code       string // código único entre los productos activos de la empresa
	Name       string
	CategoryID string // vacío si no tiene categoría
	MinStock   int64  // umbral para alertas de stock bajo
	Cost       decimal.Decimal
	Active     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
