package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/traslados-api/internal/domain/entity"
)

// RegisterMovementRequest body para POST /api/inventory/movements (ENTRADA o SALIDA).
type RegisterMovementRequest struct {
	ProductID   string           `json:"product_id"`
	WarehouseID string           `json:"warehouse_id"`
	Type        string           `json:"type"`
	Quantity    int64            `json:"quantity"`
	UnitCost    *decimal.Decimal `json:"unit_cost,omitempty"`
	Note        string           `json:"note,omitempty"`
}

// MovementFilterRequest filtros de GET /api/movements.
type MovementFilterRequest struct {
	PageRequest
	ProductID     string `query:"product"`
	WarehouseID   string `query:"warehouse"`
	CorrelationID string `query:"correlation_id"`
	Type          string `query:"type"`
}

// MovementResponse un registro del kardex.
type MovementResponse struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	ProductID     string          `json:"product_id"`
	WarehouseID   string          `json:"warehouse_id"`
	Quantity      int64           `json:"quantity"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	BalanceAfter  int64           `json:"balance_after"`
	Timestamp     time.Time       `json:"timestamp"`
	ActorID       string          `json:"actor_id"`
	Note          string          `json:"note,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"`
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// StockResponse cantidad de un producto en una bodega.
type StockResponse struct {
	ProductID   string `json:"product_id"`
	WarehouseID string `json:"warehouse_id"`
	Quantity    int64  `json:"quantity"`
}

// ProductStockResponse existencias de un producto: total y por bodega.
type ProductStockResponse struct {
	ProductID  string          `json:"product_id"`
	Total      int64           `json:"total"`
	Warehouses []StockResponse `json:"warehouses"`
}

// MovementFromEntity mapea un movimiento del dominio.
func MovementFromEntity(m *entity.Movement) MovementResponse {
	return MovementResponse{
		ID:            m.ID,
		Type:          string(m.Kind),
		ProductID:     m.ProductID,
		WarehouseID:   m.WarehouseID,
		Quantity:      m.Quantity,
		UnitCost:      m.UnitCost,
		BalanceAfter:  m.BalanceAfter,
		Timestamp:     m.Timestamp,
		ActorID:       m.ActorID,
		Note:          m.Note,
		CorrelationID: m.CorrelationID,
	}
}
