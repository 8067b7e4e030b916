package repository

import (
	"context"
	"time"

	"github.com/jhoicas/traslados-api/internal/domain/entity"
)

// MovementFilter criterios para consultar el kardex de movimientos.
type MovementFilter struct {
	CompanyID     string
	ProductID     string
	WarehouseID   string
	CorrelationID string
	Kind          entity.MovementKind
	From, To      *time.Time
	Limit         int
	Offset        int
}

// InventoryMovementRepository define el puerto de persistencia para movimientos de inventario.
// Es solo de inserción: no existen operaciones de actualización ni borrado.
type InventoryMovementRepository interface {
	Create(ctx context.Context, movement *entity.Movement) error
	GetByID(ctx context.Context, id string) (*entity.Movement, error)
	// FindByCorrelation devuelve el movimiento de un tipo para una correlación, o nil.
	FindByCorrelation(ctx context.Context, correlationID string, kind entity.MovementKind) (*entity.Movement, error)
	List(ctx context.Context, filter MovementFilter) ([]*entity.Movement, error)
}
