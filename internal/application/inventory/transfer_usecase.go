package inventory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/traslados-api/internal/domain"
	"github.com/jhoicas/traslados-api/internal/domain/entity"
	"github.com/jhoicas/traslados-api/internal/domain/inventory"
	"github.com/jhoicas/traslados-api/internal/domain/repository"
	"github.com/jhoicas/traslados-api/pkg/logger"
)

// DefaultDeleteWindow ventana desde la creación en la que un traslado puede eliminarse.
const DefaultDeleteWindow = 24 * time.Hour

// TransferUseCase flujo de traslados entre bodegas:
//
//	PENDIENTE --commit--> EN_TRANSITO --confirm--> COMPLETADO
//	PENDIENTE | EN_TRANSITO --cancel--> CANCELADO
//
// Cada operación es una transacción. El traslado se bloquea antes que el stock,
// siempre en ese orden.
type TransferUseCase struct {
	txRunner     repository.TxRunner
	transfers    repository.TransferRepository
	refs         ReferenceAllocator
	log          *logger.Logger
	now          func() time.Time
	deleteWindow time.Duration
}

// NewTransferUseCase construye el caso de uso. transfers se usa para lecturas fuera de transacción.
func NewTransferUseCase(txRunner repository.TxRunner, transfers repository.TransferRepository, log *logger.Logger) *TransferUseCase {
	return &TransferUseCase{
		txRunner:     txRunner,
		transfers:    transfers,
		refs:         NewTransferReferences(),
		log:          log.Named("transfers"),
		now:          time.Now,
		deleteWindow: DefaultDeleteWindow,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *TransferUseCase) WithClock(now func() time.Time) *TransferUseCase {
	uc.now = now
	return uc
}

// WithDeleteWindow cambia la ventana de eliminación; d <= 0 conserva la actual.
func (uc *TransferUseCase) WithDeleteWindow(d time.Duration) *TransferUseCase {
	if d > 0 {
		uc.deleteWindow = d
	}
	return uc
}

// CreateTransferInput datos para crear un traslado. Date vacío toma la fecha actual.
type CreateTransferInput struct {
	CompanyID              string
	ActorID                string
	ProductID              string
	SourceWarehouseID      string
	DestinationWarehouseID string
	Quantity               int64
	Date                   time.Time
	Responsible            string
	Notes                  string
}

func (in CreateTransferInput) validate() error {
	if in.ProductID == "" || in.SourceWarehouseID == "" || in.DestinationWarehouseID == "" {
		return fmt.Errorf("%w: producto, bodega origen y bodega destino son obligatorios", domain.ErrValidation)
	}
	if in.SourceWarehouseID == in.DestinationWarehouseID {
		return fmt.Errorf("%w: la bodega origen y destino deben ser diferentes", domain.ErrValidation)
	}
	if in.Quantity <= 0 {
		return fmt.Errorf("%w: la cantidad debe ser mayor a cero", domain.ErrValidation)
	}
	return nil
}

// Create valida y registra un traslado PENDIENTE con su referencia del año. No mueve stock.
func (uc *TransferUseCase) Create(ctx context.Context, in CreateTransferInput) (*entity.Transfer, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	now := uc.now()
	date := in.Date
	if date.IsZero() {
		date = now
	}
	t := &entity.Transfer{
		ID:                     uuid.New().String(),
		CompanyID:              in.CompanyID,
		Date:                   date,
		ProductID:              in.ProductID,
		SourceWarehouseID:      in.SourceWarehouseID,
		DestinationWarehouseID: in.DestinationWarehouseID,
		Quantity:               in.Quantity,
		Responsible:            strings.TrimSpace(in.Responsible),
		Notes:                  strings.TrimSpace(in.Notes),
		Status:                 entity.TransferPendiente,
		CorrelationID:          uuid.New().String(),
		CreatedBy:              in.ActorID,
		CreatedAt:              now,
		UpdatedAt:              now,
	}

	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		if err := uc.checkParties(ctx, repos, t); err != nil {
			return err
		}
		ref, err := uc.refs.NextTx(ctx, repos.Sequences, t.CompanyID, now.UTC().Year())
		if err != nil {
			return err
		}
		t.Reference = ref
		return repos.Transfers.Create(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("transfer_id", t.ID).
		Str("reference", t.Reference).
		Str("to", string(t.Status)).
		Str("actor", in.ActorID).
		Int64("quantity", t.Quantity).
		Msg("traslado creado")
	return t, nil
}

// checkParties producto y bodegas deben existir en la empresa y estar activos.
// Bloquea las filas hasta el commit: producto primero, bodegas en orden de ID.
func (uc *TransferUseCase) checkParties(ctx context.Context, repos repository.TxRepos, t *entity.Transfer) error {
	product, err := repos.Products.GetForUpdate(ctx, t.ProductID)
	if err != nil {
		return err
	}
	if product == nil || product.CompanyID != t.CompanyID {
		return fmt.Errorf("%w: producto %s", domain.ErrNotFound, t.ProductID)
	}
	if !product.Active {
		return fmt.Errorf("%w: el producto %s está inactivo", domain.ErrValidation, product.Code)
	}
	ids := []string{t.SourceWarehouseID, t.DestinationWarehouseID}
	sort.Strings(ids)
	for _, id := range ids {
		wh, err := repos.Warehouses.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if wh == nil || wh.CompanyID != t.CompanyID {
			return fmt.Errorf("%w: bodega %s", domain.ErrNotFound, id)
		}
		if !wh.Active {
			return fmt.Errorf("%w: la bodega %s está inactiva", domain.ErrValidation, wh.Code)
		}
	}
	return nil
}

// Commit descuenta la cantidad de la bodega origen, registra TRASLADO_OUT y pasa a EN_TRANSITO.
// Si la salida ya fue registrada (reintento) devuelve el traslado sin un segundo descuento.
// Con stock insuficiente el traslado sigue PENDIENTE.
func (uc *TransferUseCase) Commit(ctx context.Context, companyID, actorID, id string) (*entity.Transfer, error) {
	return uc.transition(ctx, companyID, actorID, id, inventory.ActionCommit,
		func(ctx context.Context, repos repository.TxRepos, t *entity.Transfer, now time.Time) (bool, error) {
			if t.Status == entity.TransferEnTransito || t.Status == entity.TransferCompletado {
				out, err := repos.Movements.FindByCorrelation(ctx, t.CorrelationID, entity.MovementTrasladoOut)
				if err != nil {
					return false, err
				}
				if out != nil {
					return true, nil
				}
			}
			if _, err := inventory.NextStatus(t.Status, inventory.ActionCommit); err != nil {
				return false, err
			}
			err := uc.move(ctx, repos, t, entity.MovementTrasladoOut, t.SourceWarehouseID, -t.Quantity, actorID, now,
				"Salida traslado "+t.Reference)
			if err != nil {
				return false, err
			}
			t.CommittedAt = &now
			return false, nil
		})
}

// Confirm suma la cantidad en la bodega destino, registra TRASLADO_IN con la misma
// correlación y pasa a COMPLETADO. Sobre un traslado COMPLETADO no hace nada.
func (uc *TransferUseCase) Confirm(ctx context.Context, companyID, actorID, id string) (*entity.Transfer, error) {
	return uc.transition(ctx, companyID, actorID, id, inventory.ActionConfirm,
		func(ctx context.Context, repos repository.TxRepos, t *entity.Transfer, now time.Time) (bool, error) {
			if t.Status == entity.TransferCompletado {
				return true, nil
			}
			if _, err := inventory.NextStatus(t.Status, inventory.ActionConfirm); err != nil {
				return false, err
			}
			err := uc.move(ctx, repos, t, entity.MovementTrasladoIn, t.DestinationWarehouseID, t.Quantity, actorID, now,
				"Entrada traslado "+t.Reference)
			if err != nil {
				return false, err
			}
			t.CompletedAt = &now
			return false, nil
		})
}

// Cancel anula el traslado. Desde EN_TRANSITO devuelve la cantidad a la bodega origen con
// una ENTRADA compensatoria que lleva la correlación del traslado; desde PENDIENTE no toca stock.
func (uc *TransferUseCase) Cancel(ctx context.Context, companyID, actorID, id, reason string) (*entity.Transfer, error) {
	return uc.transition(ctx, companyID, actorID, id, inventory.ActionCancel,
		func(ctx context.Context, repos repository.TxRepos, t *entity.Transfer, now time.Time) (bool, error) {
			return false, uc.cancel(ctx, repos, t, actorID, reason, now)
		})
}

func (uc *TransferUseCase) cancel(ctx context.Context, repos repository.TxRepos, t *entity.Transfer, actorID, reason string, now time.Time) error {
	if _, err := inventory.NextStatus(t.Status, inventory.ActionCancel); err != nil {
		return err
	}
	reason = strings.TrimSpace(reason)
	if t.Status == entity.TransferEnTransito {
		note := "Compensación traslado " + t.Reference
		if reason != "" {
			note += ": " + reason
		}
		if err := uc.move(ctx, repos, t, entity.MovementEntrada, t.SourceWarehouseID, t.Quantity, actorID, now, note); err != nil {
			return err
		}
	}
	t.CancelledAt = &now
	t.CancelReason = reason
	return nil
}

// Delete eliminación administrativa: solo dentro de la ventana desde CreatedAt. Cancela el
// traslado si aún no lo está y marca la lápida; el historial no se borra.
func (uc *TransferUseCase) Delete(ctx context.Context, companyID, actorID, id, reason string) (*entity.Transfer, error) {
	var (
		result *entity.Transfer
		from   entity.TransferStatus
		noop   bool
	)
	now := uc.now()
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		t, err := lockTransfer(ctx, repos, companyID, id)
		if err != nil {
			return err
		}
		from = t.Status
		result = t
		if t.Deleted {
			noop = true
			return nil
		}
		if now.Sub(t.CreatedAt) > uc.deleteWindow {
			return fmt.Errorf("%w: el traslado %s solo podía eliminarse dentro de %s desde su creación",
				domain.ErrConflict, t.Reference, uc.deleteWindow)
		}
		if t.Status != entity.TransferCancelado {
			if err := uc.cancel(ctx, repos, t, actorID, reason, now); err != nil {
				return err
			}
			t.Status = entity.TransferCancelado
		}
		t.Deleted = true
		t.DeletedAt = &now
		t.UpdatedAt = now
		return repos.Transfers.Update(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	if !noop {
		uc.logTransition(result, from, "delete", actorID)
	}
	return result, nil
}

// applyFn ejecuta los efectos de una acción sobre t ya bloqueado. Devuelve replay=true
// cuando la acción ya estaba aplicada y no hay nada que escribir.
type applyFn func(ctx context.Context, repos repository.TxRepos, t *entity.Transfer, now time.Time) (replay bool, err error)

func (uc *TransferUseCase) transition(
	ctx context.Context,
	companyID, actorID, id string,
	action inventory.TransferAction,
	apply applyFn,
) (*entity.Transfer, error) {
	var (
		result *entity.Transfer
		from   entity.TransferStatus
		replay bool
	)
	now := uc.now()
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		t, err := lockTransfer(ctx, repos, companyID, id)
		if err != nil {
			return err
		}
		from = t.Status
		result = t
		replay, err = apply(ctx, repos, t, now)
		if err != nil || replay {
			return err
		}
		t.Status, err = inventory.NextStatus(from, action)
		if err != nil {
			return err
		}
		t.UpdatedAt = now
		return repos.Transfers.Update(ctx, t)
	})
	if err != nil {
		uc.log.Debug().Err(err).Str("transfer_id", id).Str("action", string(action)).Msg("transición rechazada")
		return nil, err
	}
	if replay {
		uc.log.Info().Str("transfer_id", result.ID).Str("action", string(action)).Msg("transición ya aplicada")
		return result, nil
	}
	uc.logTransition(result, from, string(action), actorID)
	return result, nil
}

func (uc *TransferUseCase) logTransition(t *entity.Transfer, from entity.TransferStatus, action, actorID string) {
	uc.log.Info().
		Str("transfer_id", t.ID).
		Str("reference", t.Reference).
		Str("action", action).
		Str("from", string(from)).
		Str("to", string(t.Status)).
		Str("actor", actorID).
		Msg("traslado actualizado")
}

// move ajusta la pareja (producto, bodega) y registra el movimiento con la correlación del traslado.
func (uc *TransferUseCase) move(
	ctx context.Context,
	repos repository.TxRepos,
	t *entity.Transfer,
	kind entity.MovementKind,
	warehouseID string,
	delta int64,
	actorID string,
	now time.Time,
	note string,
) error {
	key := StockKey{CompanyID: t.CompanyID, ProductID: t.ProductID, WarehouseID: warehouseID}
	balance, err := adjustStock(ctx, repos.Stock, key, delta, now)
	if err != nil {
		return err
	}
	product, err := repos.Products.GetByID(ctx, t.ProductID)
	if err != nil {
		return err
	}
	mov := &entity.Movement{
		CompanyID:     t.CompanyID,
		Kind:          kind,
		ProductID:     t.ProductID,
		WarehouseID:   warehouseID,
		Quantity:      t.Quantity,
		BalanceAfter:  balance,
		Timestamp:     now,
		ActorID:       actorID,
		Note:          note,
		CorrelationID: t.CorrelationID,
	}
	if product != nil {
		mov.UnitCost = product.Cost
	}
	_, err = recordMovement(ctx, repos.Movements, mov)
	return err
}

func lockTransfer(ctx context.Context, repos repository.TxRepos, companyID, id string) (*entity.Transfer, error) {
	t, err := repos.Transfers.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil || t.CompanyID != companyID {
		return nil, fmt.Errorf("%w: traslado %s", domain.ErrNotFound, id)
	}
	return t, nil
}

// GetByID devuelve el traslado, incluso si está eliminado.
func (uc *TransferUseCase) GetByID(ctx context.Context, companyID, id string) (*entity.Transfer, error) {
	t, err := uc.transfers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil || t.CompanyID != companyID {
		return nil, fmt.Errorf("%w: traslado %s", domain.ErrNotFound, id)
	}
	return t, nil
}

// TransferListFilter criterios de listado; los eliminados se excluyen salvo IncludeDeleted.
type TransferListFilter struct {
	Status         entity.TransferStatus
	ProductID      string
	WarehouseID    string
	IncludeDeleted bool
	Limit          int
	Offset         int
}

// List lista traslados de la empresa, más recientes primero.
func (uc *TransferUseCase) List(ctx context.Context, companyID string, f TransferListFilter) ([]*entity.Transfer, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, fmt.Errorf("%w: estado desconocido %q", domain.ErrValidation, f.Status)
	}
	return uc.transfers.List(ctx, repository.TransferFilter{
		CompanyID:      companyID,
		Status:         f.Status,
		ProductID:      f.ProductID,
		WarehouseID:    f.WarehouseID,
		IncludeDeleted: f.IncludeDeleted,
		Limit:          f.Limit,
		Offset:         f.Offset,
	})
}
