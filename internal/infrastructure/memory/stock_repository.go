package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/traslados-api/internal/domain/entity"
	"github.com/jhoicas/traslados-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación en memoria de StockRepository.
type StockRepo struct {
	s  *Store
	tx *tx
}

// NewStockRepository construye el adaptador en modo autocommit.
func NewStockRepository(s *Store) *StockRepo {
	return &StockRepo{s: s}
}

func (t *tx) stockLevel(productID, warehouseID string) entity.StockLevel {
	if sl, ok := lookup(&t.s.mu, t.s.stock, t.stock, stockKey{productID, warehouseID}); ok {
		return sl
	}
	return entity.StockLevel{ProductID: productID, WarehouseID: warehouseID}
}

func (r *StockRepo) Get(ctx context.Context, productID, warehouseID string) (*entity.StockLevel, error) {
	var out entity.StockLevel
	err := r.s.exec(ctx, r.tx, func(t *tx) error {
		out = t.stockLevel(productID, warehouseID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *StockRepo) GetForUpdate(ctx context.Context, productID, warehouseID string) (*entity.StockLevel, error) {
	var out entity.StockLevel
	err := r.s.exec(ctx, r.tx, func(t *tx) error {
		if err := t.lock("stock:" + productID + ":" + warehouseID); err != nil {
			return err
		}
		out = t.stockLevel(productID, warehouseID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *StockRepo) Upsert(ctx context.Context, stock *entity.StockLevel) error {
	return r.s.exec(ctx, r.tx, func(t *tx) error {
		t.stock[stockKey{stock.ProductID, stock.WarehouseID}] = *stock
		return nil
	})
}

func (r *StockRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.StockLevel, error) {
	return r.list(ctx, func(sl entity.StockLevel) bool { return sl.ProductID == productID })
}

func (r *StockRepo) ListByWarehouse(ctx context.Context, warehouseID string) ([]*entity.StockLevel, error) {
	return r.list(ctx, func(sl entity.StockLevel) bool { return sl.WarehouseID == warehouseID })
}

func (r *StockRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.StockLevel, error) {
	return r.list(ctx, func(sl entity.StockLevel) bool { return sl.CompanyID == companyID })
}

func (r *StockRepo) list(ctx context.Context, match func(entity.StockLevel) bool) ([]*entity.StockLevel, error) {
	list := make([]*entity.StockLevel, 0)
	err := r.s.exec(ctx, r.tx, func(t *tx) error {
		for _, sl := range overlay(&t.s.mu, t.s.stock, t.stock) {
			sl := sl
			if match(sl) {
				list = append(list, &sl)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].ProductID != list[j].ProductID {
			return list[i].ProductID < list[j].ProductID
		}
		return list[i].WarehouseID < list[j].WarehouseID
	})
	return list, nil
}
