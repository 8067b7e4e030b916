package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/traslados-api/internal/domain"
	"github.com/jhoicas/traslados-api/internal/domain/entity"
	"github.com/jhoicas/traslados-api/internal/domain/repository"
)

// MovementLog kardex de solo inserción. Las correcciones se hacen con un movimiento
// compensatorio; no existe edición ni borrado.
type MovementLog struct {
	movements repository.InventoryMovementRepository
}

// NewMovementLog construye el kardex sobre el repositorio de lectura/escritura autocommit.
func NewMovementLog(movements repository.InventoryMovementRepository) *MovementLog {
	return &MovementLog{movements: movements}
}

// Record valida y agrega un movimiento; devuelve su ID.
func (l *MovementLog) Record(ctx context.Context, m *entity.Movement) (string, error) {
	return recordMovement(ctx, l.movements, m)
}

// RecordTx igual que Record pero dentro de la transacción del llamador.
func (l *MovementLog) RecordTx(ctx context.Context, movements repository.InventoryMovementRepository, m *entity.Movement) (string, error) {
	return recordMovement(ctx, movements, m)
}

func recordMovement(ctx context.Context, movements repository.InventoryMovementRepository, m *entity.Movement) (string, error) {
	if err := validateMovement(m); err != nil {
		return "", err
	}
	if err := movements.Create(ctx, m); err != nil {
		return "", err
	}
	return m.ID, nil
}

func validateMovement(m *entity.Movement) error {
	if !m.Kind.Valid() {
		return fmt.Errorf("%w: tipo de movimiento desconocido %q", domain.ErrValidation, m.Kind)
	}
	if m.Quantity <= 0 {
		return fmt.Errorf("%w: la cantidad del movimiento debe ser mayor a cero", domain.ErrValidation)
	}
	if m.ProductID == "" || m.WarehouseID == "" {
		return fmt.Errorf("%w: producto y bodega son obligatorios", domain.ErrValidation)
	}
	if m.Timestamp.IsZero() {
		return fmt.Errorf("%w: el movimiento requiere fecha", domain.ErrValidation)
	}
	return nil
}

// ListByProduct movimientos del producto en orden de registro.
func (l *MovementLog) ListByProduct(ctx context.Context, companyID, productID string) ([]*entity.Movement, error) {
	return l.movements.List(ctx, repository.MovementFilter{CompanyID: companyID, ProductID: productID})
}

// ListByWarehouse movimientos de la bodega en orden de registro.
func (l *MovementLog) ListByWarehouse(ctx context.Context, companyID, warehouseID string) ([]*entity.Movement, error) {
	return l.movements.List(ctx, repository.MovementFilter{CompanyID: companyID, WarehouseID: warehouseID})
}

// ListByCorrelation movimientos de un mismo traslado (salida, entrada y compensación).
func (l *MovementLog) ListByCorrelation(ctx context.Context, companyID, correlationID string) ([]*entity.Movement, error) {
	return l.movements.List(ctx, repository.MovementFilter{CompanyID: companyID, CorrelationID: correlationID})
}

// List consulta general con filtros.
func (l *MovementLog) List(ctx context.Context, filter repository.MovementFilter) ([]*entity.Movement, error) {
	if filter.Kind != "" && !filter.Kind.Valid() {
		return nil, fmt.Errorf("%w: tipo de movimiento desconocido %q", domain.ErrValidation, filter.Kind)
	}
	return l.movements.List(ctx, filter)
}
