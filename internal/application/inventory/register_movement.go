package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/traslados-api/internal/domain"
	"github.com/jhoicas/traslados-api/internal/domain/entity"
	"github.com/jhoicas/traslados-api/internal/domain/inventory"
	"github.com/jhoicas/traslados-api/internal/domain/repository"
	"github.com/jhoicas/traslados-api/pkg/logger"
)

// RegisterMovementUseCase registra entradas y salidas de forma transaccional con bloqueo
// de la pareja (producto, bodega). Los traslados solo se originan en TransferUseCase.
type RegisterMovementUseCase struct {
	txRunner repository.TxRunner
	log      *logger.Logger
	now      func() time.Time
}

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(txRunner repository.TxRunner, log *logger.Logger) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{txRunner: txRunner, log: log.Named("movements"), now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *RegisterMovementUseCase) WithClock(now func() time.Time) *RegisterMovementUseCase {
	uc.now = now
	return uc
}

// MovementInput entrada para registrar una entrada o salida.
// UnitCost es obligatorio en ENTRADA; en SALIDA se usa el costo promedio vigente.
type MovementInput struct {
	CompanyID   string
	UserID      string
	ProductID   string
	WarehouseID string
	Kind        entity.MovementKind
	Quantity    int64
	UnitCost    *decimal.Decimal
	Note        string
}

func (in MovementInput) validate() error {
	switch in.Kind {
	case entity.MovementEntrada:
		if in.UnitCost == nil || in.UnitCost.IsNegative() {
			return fmt.Errorf("%w: la entrada requiere costo unitario mayor o igual a cero", domain.ErrValidation)
		}
	case entity.MovementSalida:
	case entity.MovementTrasladoOut, entity.MovementTrasladoIn:
		return fmt.Errorf("%w: los movimientos de traslado se registran desde el traslado", domain.ErrValidation)
	default:
		return fmt.Errorf("%w: tipo de movimiento desconocido %q", domain.ErrValidation, in.Kind)
	}
	if in.ProductID == "" || in.WarehouseID == "" {
		return fmt.Errorf("%w: producto y bodega son obligatorios", domain.ErrValidation)
	}
	if in.Quantity <= 0 {
		return fmt.Errorf("%w: la cantidad debe ser mayor a cero", domain.ErrValidation)
	}
	return nil
}

// Register abre una transacción, bloquea el producto, la bodega y la pareja (producto, bodega),
// ajusta la cantidad y agrega el movimiento. Cualquier error deshace todo.
func (uc *RegisterMovementUseCase) Register(ctx context.Context, in MovementInput) (*entity.Movement, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	now := uc.now()
	var mov *entity.Movement

	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		// El producto se bloquea antes que el stock: el costo promedio depende de la cantidad total.
		product, err := repos.Products.GetForUpdate(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil || product.CompanyID != in.CompanyID {
			return fmt.Errorf("%w: producto %s", domain.ErrNotFound, in.ProductID)
		}
		if !product.Active {
			return fmt.Errorf("%w: el producto %s está inactivo", domain.ErrValidation, product.Code)
		}
		// La bodega queda bloqueada para que una desactivación concurrente espere al commit.
		wh, err := repos.Warehouses.GetForUpdate(ctx, in.WarehouseID)
		if err != nil {
			return err
		}
		if wh == nil || wh.CompanyID != in.CompanyID {
			return fmt.Errorf("%w: bodega %s", domain.ErrNotFound, in.WarehouseID)
		}
		if !wh.Active {
			return fmt.Errorf("%w: la bodega %s está inactiva", domain.ErrValidation, wh.Code)
		}

		key := StockKey{CompanyID: in.CompanyID, ProductID: in.ProductID, WarehouseID: in.WarehouseID}
		switch in.Kind {
		case entity.MovementEntrada:
			mov, err = uc.doEntrada(ctx, repos, product, key, in, now)
		case entity.MovementSalida:
			mov, err = uc.doSalida(ctx, repos, product, key, in, now)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("movement_id", mov.ID).
		Str("kind", string(mov.Kind)).
		Str("product_id", mov.ProductID).
		Str("warehouse_id", mov.WarehouseID).
		Int64("quantity", mov.Quantity).
		Int64("balance_after", mov.BalanceAfter).
		Str("actor", mov.ActorID).
		Msg("movimiento registrado")
	return mov, nil
}

// doEntrada recalcula el costo promedio ponderado con la cantidad total previa y suma stock.
func (uc *RegisterMovementUseCase) doEntrada(
	ctx context.Context,
	repos repository.TxRepos,
	product *entity.Product,
	key StockKey,
	in MovementInput,
	now time.Time,
) (*entity.Movement, error) {
	levels, err := repos.Stock.ListByProduct(ctx, product.ID)
	if err != nil {
		return nil, err
	}
	var total int64
	for _, sl := range levels {
		total += sl.Quantity
	}
	unitCost := *in.UnitCost
	newCost := inventory.CostCalculator(total, product.Cost, in.Quantity, unitCost)
	if err := repos.Products.UpdateCost(ctx, product.ID, newCost); err != nil {
		return nil, err
	}
	balance, err := adjustStock(ctx, repos.Stock, key, in.Quantity, now)
	if err != nil {
		return nil, err
	}
	mov := &entity.Movement{
		CompanyID:    in.CompanyID,
		Kind:         entity.MovementEntrada,
		ProductID:    in.ProductID,
		WarehouseID:  in.WarehouseID,
		Quantity:     in.Quantity,
		UnitCost:     unitCost,
		BalanceAfter: balance,
		Timestamp:    now,
		ActorID:      in.UserID,
		Note:         in.Note,
	}
	if _, err := recordMovement(ctx, repos.Movements, mov); err != nil {
		return nil, err
	}
	return mov, nil
}

// doSalida verifica stock suficiente, resta y registra al costo promedio vigente.
func (uc *RegisterMovementUseCase) doSalida(
	ctx context.Context,
	repos repository.TxRepos,
	product *entity.Product,
	key StockKey,
	in MovementInput,
	now time.Time,
) (*entity.Movement, error) {
	balance, err := adjustStock(ctx, repos.Stock, key, -in.Quantity, now)
	if err != nil {
		return nil, err
	}
	mov := &entity.Movement{
		CompanyID:    in.CompanyID,
		Kind:         entity.MovementSalida,
		ProductID:    in.ProductID,
		WarehouseID:  in.WarehouseID,
		Quantity:     in.Quantity,
		UnitCost:     product.Cost,
		BalanceAfter: balance,
		Timestamp:    now,
		ActorID:      in.UserID,
		Note:         in.Note,
	}
	if _, err := recordMovement(ctx, repos.Movements, mov); err != nil {
		return nil, err
	}
	return mov, nil
}
