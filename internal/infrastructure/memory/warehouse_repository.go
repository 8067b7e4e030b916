package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jhoicas/traslados-api/internal/domain"
	"github.com/jhoicas/traslados-api/internal/domain/entity"
	"github.com/jhoicas/traslados-api/internal/domain/repository"
)

var _ repository.WarehouseRepository = (*WarehouseRepo)(nil)

// WarehouseRepo implementación en memoria de WarehouseRepository.
type WarehouseRepo struct {
	s  *Store
	tx *tx
}

// NewWarehouseRepository construye el adaptador en modo autocommit.
func NewWarehouseRepository(s *Store) *WarehouseRepo {
	return &WarehouseRepo{s: s}
}

func (t *tx) warehouse(id string) (entity.Warehouse, bool) {
	return lookup(&t.s.mu, t.s.warehouses, t.warehouses, id)
}

func (r *WarehouseRepo) Create(ctx context.Context, warehouse *entity.Warehouse) error {
	return r.s.exec(ctx, r.tx, func(t *tx) error {
		if _, ok := t.warehouse(warehouse.ID); ok {
			return fmt.Errorf("%w: bodega %s ya existe", domain.ErrConflict, warehouse.ID)
		}
		t.warehouses[warehouse.ID] = *warehouse
		return nil
	})
}

func (r *WarehouseRepo) GetByID(ctx context.Context, id string) (*entity.Warehouse, error) {
	var out *entity.Warehouse
	err := r.s.exec(ctx, r.tx, func(t *tx) error {
		if w, ok := t.warehouse(id); ok {
			out = &w
		}
		return nil
	})
	return out, err
}

func (r *WarehouseRepo) GetForUpdate(ctx context.Context, id string) (*entity.Warehouse, error) {
	var out *entity.Warehouse
	err := r.s.exec(ctx, r.tx, func(t *tx) error {
		if err := t.lock("warehouse:" + id); err != nil {
			return err
		}
		if w, ok := t.warehouse(id); ok {
			out = &w
		}
		return nil
	})
	return out, err
}

func (r *WarehouseRepo) GetActiveByCode(ctx context.Context, companyID, code string) (*entity.Warehouse, error) {
	var out *entity.Warehouse
	err := r.s.exec(ctx, r.tx, func(t *tx) error {
		for _, w := range overlay(&t.s.mu, t.s.warehouses, t.warehouses) {
			if w.Active && w.CompanyID == companyID && w.Code == code {
				out = &w
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *WarehouseRepo) Update(ctx context.Context, warehouse *entity.Warehouse) error {
	return r.s.exec(ctx, r.tx, func(t *tx) error {
		current, ok := t.warehouse(warehouse.ID)
		if !ok {
			return fmt.Errorf("%w: bodega %s", domain.ErrNotFound, warehouse.ID)
		}
		current.Name = warehouse.Name
		current.Address = warehouse.Address
		current.Responsible = warehouse.Responsible
		current.Active = warehouse.Active
		current.UpdatedAt = warehouse.UpdatedAt
		t.warehouses[warehouse.ID] = current
		return nil
	})
}

func (r *WarehouseRepo) List(ctx context.Context, filter repository.WarehouseFilter) ([]*entity.Warehouse, error) {
	var list []*entity.Warehouse
	err := r.s.exec(ctx, r.tx, func(t *tx) error {
		search := strings.ToLower(filter.Search)
		for _, w := range overlay(&t.s.mu, t.s.warehouses, t.warehouses) {
			w := w
			if filter.CompanyID != "" && w.CompanyID != filter.CompanyID {
				continue
			}
			if filter.Active != nil && w.Active != *filter.Active {
				continue
			}
			if search != "" && !strings.Contains(strings.ToLower(w.Code), search) &&
				!strings.Contains(strings.ToLower(w.Name), search) {
				continue
			}
			list = append(list, &w)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].Code < list[j].Code
	})
	return paginate(list, filter.Limit, filter.Offset), nil
}
