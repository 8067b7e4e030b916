package dto

import (
	"time"

	"github.com/jhoicas/traslados-api/internal/domain/entity"
)

// CreateTransferRequest body para POST /api/transfers.
type CreateTransferRequest struct {
	ProductID              string     `json:"product_id"`
	SourceWarehouseID      string     `json:"source_warehouse_id"`
	DestinationWarehouseID string     `json:"destination_warehouse_id"`
	Quantity               int64      `json:"quantity"`
	Date                   *time.Time `json:"date,omitempty"`
	Responsible            string     `json:"responsible"`
	Notes                  string     `json:"notes,omitempty"`
}

// CancelTransferRequest body para cancelar o eliminar un traslado.
type CancelTransferRequest struct {
	Reason string `json:"reason"`
}

// TransferFilterRequest filtros de GET /api/transfers.
type TransferFilterRequest struct {
	PageRequest
	Status         string `query:"status"`
	ProductID      string `query:"product_id"`
	WarehouseID    string `query:"warehouse_id"`
	IncludeDeleted bool   `query:"include_deleted"`
}

// TransferResponse salida de un traslado.
type TransferResponse struct {
	ID                     string     `json:"id"`
	Reference              string     `json:"reference"`
	Date                   time.Time  `json:"date"`
	ProductID              string     `json:"product_id"`
	SourceWarehouseID      string     `json:"source_warehouse_id"`
	DestinationWarehouseID string     `json:"destination_warehouse_id"`
	Quantity               int64      `json:"quantity"`
	Responsible            string     `json:"responsible"`
	Notes                  string     `json:"notes,omitempty"`
	Status                 string     `json:"status"`
	CorrelationID          string     `json:"correlation_id"`
	CreatedBy              string     `json:"created_by"`
	CreatedAt              time.Time  `json:"created_at"`
	CommittedAt            *time.Time `json:"committed_at,omitempty"`
	CompletedAt            *time.Time `json:"completed_at,omitempty"`
	CancelledAt            *time.Time `json:"cancelled_at,omitempty"`
	CancelReason           string     `json:"cancel_reason,omitempty"`
	Deleted                bool       `json:"deleted"`
	DeletedAt              *time.Time `json:"deleted_at,omitempty"`
}

// TransferListResponse lista paginada de traslados.
type TransferListResponse struct {
	Items []TransferResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// TransferFromEntity mapea un traslado del dominio.
func TransferFromEntity(t *entity.Transfer) TransferResponse {
	return TransferResponse{
		ID:                     t.ID,
		Reference:              t.Reference,
		Date:                   t.Date,
		ProductID:              t.ProductID,
		SourceWarehouseID:      t.SourceWarehouseID,
		DestinationWarehouseID: t.DestinationWarehouseID,
		Quantity:               t.Quantity,
		Responsible:            t.Responsible,
		Notes:                  t.Notes,
		Status:                 string(t.Status),
		CorrelationID:          t.CorrelationID,
		CreatedBy:              t.CreatedBy,
		CreatedAt:              t.CreatedAt,
		CommittedAt:            t.CommittedAt,
		CompletedAt:            t.CompletedAt,
		CancelledAt:            t.CancelledAt,
		CancelReason:           t.CancelReason,
		Deleted:                t.Deleted,
		DeletedAt:              t.DeletedAt,
	}
}
