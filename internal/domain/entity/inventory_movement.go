package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementKind tipo de movimiento de inventario.
type MovementKind string

// Tipos de movimiento de inventario.
const (
	MovementEntrada     MovementKind = "ENTRADA"      // entrada (compra, ajuste positivo, compensación)
	MovementSalida      MovementKind = "SALIDA"       // salida (consumo, ajuste negativo)
	MovementTrasladoOut MovementKind = "TRASLADO_OUT" // salida de la bodega origen de un traslado
	MovementTrasladoIn  MovementKind = "TRASLADO_IN"  // entrada a la bodega destino de un traslado
)

// Valid indica si el tipo es uno de los reconocidos.
func (k MovementKind) Valid() bool {
	switch k {
	case MovementEntrada, MovementSalida, MovementTrasladoOut, MovementTrasladoIn:
		return true
	}
	return false
}

// Sign devuelve +1 si el movimiento suma stock y -1 si lo resta.
func (k MovementKind) Sign() int64 {
	if k == MovementSalida || k == MovementTrasladoOut {
		return -1
	}
	return 1
}

// Movement es un registro inmutable de un cambio de cantidad.
// Quantity siempre es positiva; el sentido lo da Kind.
type Movement struct {
	ID            string
	CompanyID     string
	Kind          MovementKind
	ProductID     string
	WarehouseID   string
	Quantity      int64
	UnitCost      decimal.Decimal
	BalanceAfter  int64 // cantidad en (producto, bodega) luego de aplicar el movimiento
	Timestamp     time.Time
	ActorID       string
	Note          string
	CorrelationID string // enlaza las mitades de un traslado y su compensación
}
