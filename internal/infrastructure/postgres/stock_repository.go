package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/traslados-api/internal/domain"
	"github.com/jhoicas/traslados-api/internal/domain/entity"
	"github.com/jhoicas/traslados-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

const stockColumns = `product_id, warehouse_id, company_id, quantity, updated_at`

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

func scanStock(row pgx.Row) (*entity.StockLevel, error) {
	var s entity.StockLevel
	if err := row.Scan(&s.ProductID, &s.WarehouseID, &s.CompanyID, &s.Quantity, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

// Get obtiene el stock actual de un producto en una bodega. Sin fila, cantidad 0.
func (r *StockRepo) Get(ctx context.Context, productID, warehouseID string) (*entity.StockLevel, error) {
	if !validID(productID) || !validID(warehouseID) {
		return &entity.StockLevel{ProductID: productID, WarehouseID: warehouseID}, nil
	}
	query := `SELECT ` + stockColumns + ` FROM stock WHERE product_id = $1 AND warehouse_id = $2`
	s, err := scanStock(r.q.QueryRow(ctx, query, productID, warehouseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.StockLevel{ProductID: productID, WarehouseID: warehouseID}, nil
		}
		return nil, mapReadErr("get stock", err)
	}
	return s, nil
}

// GetForUpdate bloquea la fila (producto, bodega) hasta el fin de la transacción.
// Primero asegura que la fila exista con cantidad 0: FOR UPDATE sobre una fila
// inexistente no bloquea nada y dos transacciones podrían crearla a la vez.
func (r *StockRepo) GetForUpdate(ctx context.Context, productID, warehouseID string) (*entity.StockLevel, error) {
	if !validID(productID) || !validID(warehouseID) {
		return nil, fmt.Errorf("%w: stock %s/%s", domain.ErrNotFound, productID, warehouseID)
	}
	ensure := `
		INSERT INTO stock (product_id, warehouse_id, company_id, quantity, updated_at)
		SELECT $1, $2, company_id, 0, now() FROM products WHERE id = $1
		ON CONFLICT (product_id, warehouse_id) DO NOTHING`
	if _, err := r.q.Exec(ctx, ensure, productID, warehouseID); err != nil {
		return nil, fmt.Errorf("ensure stock row: %w", err)
	}
	query := `SELECT ` + stockColumns + ` FROM stock WHERE product_id = $1 AND warehouse_id = $2 FOR UPDATE`
	s, err := scanStock(r.q.QueryRow(ctx, query, productID, warehouseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.StockLevel{ProductID: productID, WarehouseID: warehouseID}, nil
		}
		return nil, fmt.Errorf("get stock for update: %w", err)
	}
	return s, nil
}

// Upsert inserta o actualiza la cantidad en stock (por producto y bodega).
// El CHECK (quantity >= 0) del esquema se traduce a ErrInsufficientStock.
func (r *StockRepo) Upsert(ctx context.Context, stock *entity.StockLevel) error {
	query := `
		INSERT INTO stock (product_id, warehouse_id, company_id, quantity, updated_at)
		VALUES ($1, $2, COALESCE(NULLIF($3::text, '')::uuid, (SELECT company_id FROM products WHERE id = $1)), $4, now())
		ON CONFLICT (product_id, warehouse_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()`
	_, err := r.q.Exec(ctx, query, stock.ProductID, stock.WarehouseID, stock.CompanyID, stock.Quantity)
	if err != nil {
		return mapWriteErr("upsert stock", err)
	}
	return nil
}

func (r *StockRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.StockLevel, error) {
	return r.list(ctx, "product_id = $1", productID)
}

func (r *StockRepo) ListByWarehouse(ctx context.Context, warehouseID string) ([]*entity.StockLevel, error) {
	return r.list(ctx, "warehouse_id = $1", warehouseID)
}

func (r *StockRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.StockLevel, error) {
	return r.list(ctx, "company_id = $1", companyID)
}

func (r *StockRepo) list(ctx context.Context, cond string, arg string) ([]*entity.StockLevel, error) {
	if !validID(arg) {
		return nil, nil
	}
	query := `SELECT ` + stockColumns + ` FROM stock WHERE ` + cond + ` ORDER BY product_id, warehouse_id`
	rows, err := r.q.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.StockLevel, 0)
	for rows.Next() {
		s, err := scanStock(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}
