package entity

import "time"

// StockLevel representa la cantidad disponible de un producto en una bodega.
// Una pareja (producto, bodega) sin fila equivale a cantidad 0.
type StockLevel struct {
	ProductID   string
	WarehouseID string
	CompanyID   string
	Quantity    int64 // nunca negativa
	UpdatedAt   time.Time
}
