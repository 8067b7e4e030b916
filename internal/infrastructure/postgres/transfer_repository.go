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

var _ repository.TransferRepository = (*TransferRepo)(nil)

const transferColumns = `id, company_id, reference, transfer_date, product_id, source_warehouse_id,
	destination_warehouse_id, quantity, responsible, notes, status, correlation_id, created_by, created_at,
	committed_at, completed_at, cancelled_at, cancel_reason, deleted, deleted_at, updated_at`

// TransferRepo implementación de TransferRepository sobre PostgreSQL.
type TransferRepo struct {
	q Querier
}

// NewTransferRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransferRepository(q Querier) *TransferRepo {
	return &TransferRepo{q: q}
}

func scanTransfer(row pgx.Row) (*entity.Transfer, error) {
	var t entity.Transfer
	err := row.Scan(&t.ID, &t.CompanyID, &t.Reference, &t.Date, &t.ProductID, &t.SourceWarehouseID,
		&t.DestinationWarehouseID, &t.Quantity, &t.Responsible, &t.Notes, &t.Status, &t.CorrelationID,
		&t.CreatedBy, &t.CreatedAt, &t.CommittedAt, &t.CompletedAt, &t.CancelledAt, &t.CancelReason,
		&t.Deleted, &t.DeletedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Create persiste un traslado nuevo.
func (r *TransferRepo) Create(ctx context.Context, t *entity.Transfer) error {
	query := `INSERT INTO transfers (` + transferColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.CompanyID, t.Reference, t.Date, t.ProductID, t.SourceWarehouseID,
		t.DestinationWarehouseID, t.Quantity, t.Responsible, t.Notes, t.Status, t.CorrelationID,
		t.CreatedBy, t.CreatedAt, t.CommittedAt, t.CompletedAt, t.CancelledAt, t.CancelReason,
		t.Deleted, t.DeletedAt, t.UpdatedAt,
	)
	if err != nil {
		return mapWriteErr("insert transfer", err)
	}
	return nil
}

func (r *TransferRepo) getOne(ctx context.Context, op, query string, id string) (*entity.Transfer, error) {
	if !validID(id) {
		return nil, nil
	}
	t, err := scanTransfer(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapReadErr(op, err)
	}
	return t, nil
}

// GetByID obtiene un traslado por ID, incluidos los eliminados.
func (r *TransferRepo) GetByID(ctx context.Context, id string) (*entity.Transfer, error) {
	return r.getOne(ctx, "get transfer", `SELECT `+transferColumns+` FROM transfers WHERE id = $1`, id)
}

// GetForUpdate obtiene el traslado y bloquea la fila.
func (r *TransferRepo) GetForUpdate(ctx context.Context, id string) (*entity.Transfer, error) {
	return r.getOne(ctx, "get transfer for update", `SELECT `+transferColumns+` FROM transfers WHERE id = $1 FOR NO KEY UPDATE`, id)
}

// Update persiste estado, marcas de tiempo, motivo de cancelación y lápida.
func (r *TransferRepo) Update(ctx context.Context, t *entity.Transfer) error {
	query := `
		UPDATE transfers SET status = $2, committed_at = $3, completed_at = $4, cancelled_at = $5,
			cancel_reason = $6, deleted = $7, deleted_at = $8, notes = $9, updated_at = $10
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		t.ID, t.Status, t.CommittedAt, t.CompletedAt, t.CancelledAt,
		t.CancelReason, t.Deleted, t.DeletedAt, t.Notes, t.UpdatedAt,
	)
	if err != nil {
		return mapWriteErr("update transfer", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: traslado %s", domain.ErrNotFound, t.ID)
	}
	return nil
}

// List lista traslados, más recientes primero.
func (r *TransferRepo) List(ctx context.Context, filter repository.TransferFilter) ([]*entity.Transfer, error) {
	var w where
	if filter.CompanyID != "" {
		w.addID("company_id = ?", filter.CompanyID)
	}
	if filter.Status != "" {
		w.add("status = ?", filter.Status)
	}
	if filter.ProductID != "" {
		w.addID("product_id = ?", filter.ProductID)
	}
	if filter.WarehouseID != "" {
		w.addID("(source_warehouse_id = ? OR destination_warehouse_id = ?)", filter.WarehouseID)
	}
	if !filter.IncludeDeleted {
		w.conds = append(w.conds, "NOT deleted")
	}
	query := `SELECT ` + transferColumns + ` FROM transfers` + w.sql() + ` ORDER BY created_at DESC, reference DESC`
	query += w.page(filter.Limit, filter.Offset)

	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Transfer, 0)
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transfer: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}
