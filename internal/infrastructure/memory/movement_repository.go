package memory

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/traslados-api/internal/domain"
	"github.com/jhoicas/traslados-api/internal/domain/entity"
	"github.com/jhoicas/traslados-api/internal/domain/repository"
)

var _ repository.InventoryMovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación en memoria del kardex (solo inserción).
type MovementRepo struct {
	s  *Store
	tx *tx
}

// NewInventoryMovementRepository construye el adaptador en modo autocommit.
func NewInventoryMovementRepository(s *Store) *MovementRepo {
	return &MovementRepo{s: s}
}

// allMovements confirmados en orden de inserción seguidos de los pendientes.
func (t *tx) allMovements() []entity.Movement {
	t.s.mu.RLock()
	out := make([]entity.Movement, 0, len(t.s.movements)+len(t.movements))
	for _, sm := range t.s.movements {
		out = append(out, sm.m)
	}
	t.s.mu.RUnlock()
	return append(out, t.movements...)
}

func (r *MovementRepo) Create(ctx context.Context, movement *entity.Movement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	return r.s.exec(ctx, r.tx, func(t *tx) error {
		if movement.CorrelationID != "" {
			for _, m := range t.allMovements() {
				if m.CorrelationID == movement.CorrelationID && m.Kind == movement.Kind {
					return fmt.Errorf("%w: movimiento %s ya registrado para %s", domain.ErrConflict, movement.Kind, movement.CorrelationID)
				}
			}
		}
		t.movements = append(t.movements, *movement)
		return nil
	})
}

func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	var out *entity.Movement
	err := r.s.exec(ctx, r.tx, func(t *tx) error {
		for _, m := range t.allMovements() {
			if m.ID == id {
				out = &m
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *MovementRepo) FindByCorrelation(ctx context.Context, correlationID string, kind entity.MovementKind) (*entity.Movement, error) {
	var out *entity.Movement
	err := r.s.exec(ctx, r.tx, func(t *tx) error {
		for _, m := range t.allMovements() {
			if m.CorrelationID == correlationID && m.Kind == kind {
				out = &m
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *MovementRepo) List(ctx context.Context, filter repository.MovementFilter) ([]*entity.Movement, error) {
	list := make([]*entity.Movement, 0)
	err := r.s.exec(ctx, r.tx, func(t *tx) error {
		for _, m := range t.allMovements() {
			m := m
			if filter.CompanyID != "" && m.CompanyID != filter.CompanyID {
				continue
			}
			if filter.ProductID != "" && m.ProductID != filter.ProductID {
				continue
			}
			if filter.WarehouseID != "" && m.WarehouseID != filter.WarehouseID {
				continue
			}
			if filter.CorrelationID != "" && m.CorrelationID != filter.CorrelationID {
				continue
			}
			if filter.Kind != "" && m.Kind != filter.Kind {
				continue
			}
			if filter.From != nil && m.Timestamp.Before(*filter.From) {
				continue
			}
			if filter.To != nil && m.Timestamp.After(*filter.To) {
				continue
			}
			list = append(list, &m)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paginate(list, filter.Limit, filter.Offset), nil
}
