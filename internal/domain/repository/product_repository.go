package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/traslados-api/internal/domain/entity"
)

// ProductFilter criterios para listar productos.
type ProductFilter struct {
	CompanyID  string
	CategoryID string
	Active     *bool
	Search     string // coincidencia parcial en código o nombre
	Limit      int
	Offset     int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetByID y GetActiveByCode devuelven (nil, nil) si no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	GetActiveByCode(ctx context.Context, companyID, code string) (*entity.Product, error)
	// Update modifica los campos editables: nombre, umbral, categoría y estado.
	Update(ctx context.Context, product *entity.Product) error
	UpdateCost(ctx context.Context, productID string, cost decimal.Decimal) error
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, error)
}
