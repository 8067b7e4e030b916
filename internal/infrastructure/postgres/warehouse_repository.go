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

var _ repository.WarehouseRepository = (*WarehouseRepo)(nil)

const warehouseColumns = `id, company_id, code, name, address, responsible, active, created_at, updated_at`

// WarehouseRepo implementación del puerto WarehouseRepository sobre PostgreSQL.
type WarehouseRepo struct {
	q Querier
}

// NewWarehouseRepository construye el adaptador de persistencia para bodegas.
func NewWarehouseRepository(q Querier) *WarehouseRepo {
	return &WarehouseRepo{q: q}
}

func scanWarehouse(row pgx.Row) (*entity.Warehouse, error) {
	var w entity.Warehouse
	err := row.Scan(&w.ID, &w.CompanyID, &w.Code, &w.Name, &w.Address, &w.Responsible,
		&w.Active, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// Create persiste una nueva bodega.
func (r *WarehouseRepo) Create(ctx context.Context, warehouse *entity.Warehouse) error {
	query := `INSERT INTO warehouses (` + warehouseColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		warehouse.ID, warehouse.CompanyID, warehouse.Code, warehouse.Name, warehouse.Address,
		warehouse.Responsible, warehouse.Active, warehouse.CreatedAt, warehouse.UpdatedAt,
	)
	if err != nil {
		return mapWriteErr("insert warehouse", err)
	}
	return nil
}

func (r *WarehouseRepo) getOne(ctx context.Context, op, query string, args ...any) (*entity.Warehouse, error) {
	w, err := scanWarehouse(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapReadErr(op, err)
	}
	return w, nil
}

// GetByID obtiene una bodega por ID.
func (r *WarehouseRepo) GetByID(ctx context.Context, id string) (*entity.Warehouse, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.getOne(ctx, "get warehouse", `SELECT `+warehouseColumns+` FROM warehouses WHERE id = $1`, id)
}

// GetForUpdate obtiene la bodega y bloquea la fila.
func (r *WarehouseRepo) GetForUpdate(ctx context.Context, id string) (*entity.Warehouse, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.getOne(ctx, "get warehouse for update", `SELECT `+warehouseColumns+` FROM warehouses WHERE id = $1 FOR NO KEY UPDATE`, id)
}

// GetActiveByCode obtiene la bodega activa con ese código en la empresa.
func (r *WarehouseRepo) GetActiveByCode(ctx context.Context, companyID, code string) (*entity.Warehouse, error) {
	return r.getOne(ctx, "get warehouse by code",
		`SELECT `+warehouseColumns+` FROM warehouses WHERE company_id = $1 AND code = $2 AND active`, companyID, code)
}

// Update actualiza una bodega existente.
func (r *WarehouseRepo) Update(ctx context.Context, warehouse *entity.Warehouse) error {
	query := `
		UPDATE warehouses SET name = $2, address = $3, responsible = $4, active = $5, updated_at = $6
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		warehouse.ID, warehouse.Name, warehouse.Address, warehouse.Responsible, warehouse.Active, warehouse.UpdatedAt,
	)
	if err != nil {
		return mapWriteErr("update warehouse", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: bodega %s", domain.ErrNotFound, warehouse.ID)
	}
	return nil
}

// List lista bodegas con filtros y paginación.
func (r *WarehouseRepo) List(ctx context.Context, filter repository.WarehouseFilter) ([]*entity.Warehouse, error) {
	var w where
	if filter.CompanyID != "" {
		w.addID("company_id = ?", filter.CompanyID)
	}
	if filter.Active != nil {
		w.add("active = ?", *filter.Active)
	}
	if filter.Search != "" {
		w.add("(code ILIKE '%' || ? || '%' OR name ILIKE '%' || ? || '%')", filter.Search)
	}
	query := `SELECT ` + warehouseColumns + ` FROM warehouses` + w.sql() + ` ORDER BY created_at DESC, code`
	query += w.page(filter.Limit, filter.Offset)

	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list warehouses: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Warehouse, 0)
	for rows.Next() {
		wh, err := scanWarehouse(rows)
		if err != nil {
			return nil, fmt.Errorf("scan warehouse: %w", err)
		}
		list = append(list, wh)
	}
	return list, rows.Err()
}
