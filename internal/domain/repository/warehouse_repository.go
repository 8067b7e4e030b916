package repository

import (
	"context"

	"github.com/jhoicas/traslados-api/internal/domain/entity"
)

// WarehouseFilter criterios para listar bodegas.
type WarehouseFilter struct {
	CompanyID string
	Active    *bool
	Search    string
	Limit     int
	Offset    int
}

// WarehouseRepository define el puerto de persistencia para Warehouse (DIP).
type WarehouseRepository interface {
	Create(ctx context.Context, warehouse *entity.Warehouse) error
	GetByID(ctx context.Context, id string) (*entity.Warehouse, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Warehouse, error)
	GetActiveByCode(ctx context.Context, companyID, code string) (*entity.Warehouse, error)
	Update(ctx context.Context, warehouse *entity.Warehouse) error
	List(ctx context.Context, filter WarehouseFilter) ([]*entity.Warehouse, error)
}
