package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/traslados-api/internal/domain/entity"
	"github.com/jhoicas/traslados-api/internal/domain/repository"
)

var _ repository.InventoryMovementRepository = (*InventoryMovementRepo)(nil)

const movementColumns = `id, company_id, kind, product_id, warehouse_id, quantity, unit_cost, balance_after, occurred_at, actor_id, note, correlation_id`

// InventoryMovementRepo kardex sobre PostgreSQL. Solo inserción y lectura.
type InventoryMovementRepo struct {
	q Querier
}

// NewInventoryMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryMovementRepository(q Querier) *InventoryMovementRepo {
	return &InventoryMovementRepo{q: q}
}

func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var m entity.Movement
	var correlationID *string
	err := row.Scan(&m.ID, &m.CompanyID, &m.Kind, &m.ProductID, &m.WarehouseID, &m.Quantity,
		&m.UnitCost, &m.BalanceAfter, &m.Timestamp, &m.ActorID, &m.Note, &correlationID)
	if err != nil {
		return nil, err
	}
	m.CorrelationID = deref(correlationID)
	return &m, nil
}

// Create persiste un movimiento. Un segundo movimiento del mismo tipo para la misma
// correlación viola ux_movements_correlation_kind y se reporta como ErrConflict.
func (r *InventoryMovementRepo) Create(ctx context.Context, movement *entity.Movement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `INSERT INTO inventory_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		movement.ID, movement.CompanyID, movement.Kind, movement.ProductID, movement.WarehouseID,
		movement.Quantity, movement.UnitCost, movement.BalanceAfter, movement.Timestamp,
		movement.ActorID, movement.Note, nullable(movement.CorrelationID),
	)
	if err != nil {
		return mapWriteErr("create inventory movement", err)
	}
	return nil
}

func (r *InventoryMovementRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Movement, error) {
	m, err := scanMovement(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapReadErr("get inventory movement", err)
	}
	return m, nil
}

// GetByID obtiene un movimiento por ID.
func (r *InventoryMovementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.getOne(ctx, `SELECT `+movementColumns+` FROM inventory_movements WHERE id = $1`, id)
}

// FindByCorrelation devuelve el movimiento de un tipo para una correlación.
func (r *InventoryMovementRepo) FindByCorrelation(ctx context.Context, correlationID string, kind entity.MovementKind) (*entity.Movement, error) {
	if !validID(correlationID) {
		return nil, nil
	}
	return r.getOne(ctx, `SELECT `+movementColumns+` FROM inventory_movements WHERE correlation_id = $1 AND kind = $2`,
		correlationID, kind)
}

// List consulta el kardex en orden de registro.
func (r *InventoryMovementRepo) List(ctx context.Context, filter repository.MovementFilter) ([]*entity.Movement, error) {
	var w where
	if filter.CompanyID != "" {
		w.addID("company_id = ?", filter.CompanyID)
	}
	if filter.ProductID != "" {
		w.addID("product_id = ?", filter.ProductID)
	}
	if filter.WarehouseID != "" {
		w.addID("warehouse_id = ?", filter.WarehouseID)
	}
	if filter.CorrelationID != "" {
		w.addID("correlation_id = ?", filter.CorrelationID)
	}
	if filter.Kind != "" {
		w.add("kind = ?", filter.Kind)
	}
	if filter.From != nil {
		w.add("occurred_at >= ?", *filter.From)
	}
	if filter.To != nil {
		w.add("occurred_at <= ?", *filter.To)
	}
	query := `SELECT ` + movementColumns + ` FROM inventory_movements` + w.sql() + ` ORDER BY seq`
	query += w.page(filter.Limit, filter.Offset)

	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list inventory movements: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Movement, 0)
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inventory movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}
