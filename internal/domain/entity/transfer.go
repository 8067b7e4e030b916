package entity

import "time"

// TransferStatus estado de un traslado entre bodegas.
type TransferStatus string

// Estados del traslado.
const (
	TransferPendiente  TransferStatus = "PENDIENTE"
	TransferEnTransito TransferStatus = "EN_TRANSITO"
	TransferCompletado TransferStatus = "COMPLETADO"
	TransferCancelado  TransferStatus = "CANCELADO"
)

// Valid indica si el estado es uno de los reconocidos.
func (s TransferStatus) Valid() bool {
	switch s {
	case TransferPendiente, TransferEnTransito, TransferCompletado, TransferCancelado:
		return true
	}
	return false
}

// Terminal indica si ningún cambio puede salir del estado.
func (s TransferStatus) Terminal() bool {
	return s == TransferCompletado || s == TransferCancelado
}

// Transfer es un traslado de un producto entre dos bodegas.
type Transfer struct {
	ID                     string
	CompanyID              string
	Reference              string // TR-<año>-<consecutivo>
	Date                   time.Time
	ProductID              string
	SourceWarehouseID      string
	DestinationWarehouseID string
	Quantity               int64
	Responsible            string
	Notes                  string
	Status                 TransferStatus
	CorrelationID          string
	CreatedBy              string
	CreatedAt              time.Time
	CommittedAt            *time.Time
	CompletedAt            *time.Time
	CancelledAt            *time.Time
	CancelReason           string
	Deleted                bool
	DeletedAt              *time.Time
	UpdatedAt              time.Time
}
