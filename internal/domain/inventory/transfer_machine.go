package inventory

import (
	"fmt"

	"github.com/jhoicas/traslados-api/internal/domain"
	"github.com/jhoicas/traslados-api/internal/domain/entity"
)

// TransferAction acción que dispara una transición del traslado.
type TransferAction string

const (
	ActionCommit  TransferAction = "commit"
	ActionConfirm TransferAction = "confirm"
	ActionCancel  TransferAction = "cancel"
)

// transitions es la tabla completa de la máquina de estados.
//
//	PENDIENTE   --commit-->  EN_TRANSITO --confirm--> COMPLETADO
//	PENDIENTE   --cancel-->  CANCELADO
//	EN_TRANSITO --cancel-->  CANCELADO
var transitions = map[entity.TransferStatus]map[TransferAction]entity.TransferStatus{
	entity.TransferPendiente: {
		ActionCommit: entity.TransferEnTransito,
		ActionCancel: entity.TransferCancelado,
	},
	entity.TransferEnTransito: {
		ActionConfirm: entity.TransferCompletado,
		ActionCancel:  entity.TransferCancelado,
	},
}

// NextStatus devuelve el estado resultante de aplicar action sobre from,
// o ErrInvalidState si la transición no existe.
func NextStatus(from entity.TransferStatus, action TransferAction) (entity.TransferStatus, error) {
	if to, ok := transitions[from][action]; ok {
		return to, nil
	}
	return "", fmt.Errorf("%w: %s desde %s", domain.ErrInvalidState, action, from)
}

// CanTransition indica si action es válida desde from.
func CanTransition(from entity.TransferStatus, action TransferAction) bool {
	_, err := NextStatus(from, action)
	return err == nil
}
