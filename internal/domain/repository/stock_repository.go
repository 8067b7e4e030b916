package repository

import (
	"context"

	"github.com/jhoicas/traslados-api/internal/domain/entity"
)

// StockRepository define el puerto para consultar/actualizar stock por bodega+producto.
// Get y GetForUpdate nunca devuelven nil: una pareja sin fila se reporta con cantidad 0.
type StockRepository interface {
	Get(ctx context.Context, productID, warehouseID string) (*entity.StockLevel, error)
	// GetForUpdate bloquea la pareja (producto, bodega) hasta el fin de la transacción
	// (SELECT FOR UPDATE). Es la única vía para leer antes de escribir.
	GetForUpdate(ctx context.Context, productID, warehouseID string) (*entity.StockLevel, error)
	Upsert(ctx context.Context, stock *entity.StockLevel) error
	ListByProduct(ctx context.Context, productID string) ([]*entity.StockLevel, error)
	ListByWarehouse(ctx context.Context, warehouseID string) ([]*entity.StockLevel, error)
	ListByCompany(ctx context.Context, companyID string) ([]*entity.StockLevel, error)
}
