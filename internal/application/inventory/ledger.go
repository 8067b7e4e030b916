package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/traslados-api/internal/domain"
	"github.com/jhoicas/traslados-api/internal/domain/entity"
	"github.com/jhoicas/traslados-api/internal/domain/repository"
)

// StockKey identifica una existencia: producto en una bodega de una empresa.
type StockKey struct {
	CompanyID   string
	ProductID   string
	WarehouseID string
}

// StockLedger mantiene la cantidad por (producto, bodega). Toda escritura pasa por
// AdjustTx, que bloquea la pareja antes de leer y rechaza cantidades negativas.
type StockLedger struct {
	txRunner repository.TxRunner
	stock    repository.StockRepository
	now      func() time.Time
}

// NewStockLedger construye el libro de existencias. stock se usa para lecturas fuera de transacción.
func NewStockLedger(txRunner repository.TxRunner, stock repository.StockRepository) *StockLedger {
	return &StockLedger{txRunner: txRunner, stock: stock, now: time.Now}
}

// GetQuantity cantidad actual; 0 si nunca hubo movimientos.
func (l *StockLedger) GetQuantity(ctx context.Context, productID, warehouseID string) (int64, error) {
	sl, err := l.stock.Get(ctx, productID, warehouseID)
	if err != nil {
		return 0, err
	}
	return sl.Quantity, nil
}

// TotalQuantity suma la cantidad del producto en todas las bodegas.
func (l *StockLedger) TotalQuantity(ctx context.Context, productID string) (int64, error) {
	levels, err := l.stock.ListByProduct(ctx, productID)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, sl := range levels {
		total += sl.Quantity
	}
	return total, nil
}

// Levels existencias del producto por bodega.
func (l *StockLedger) Levels(ctx context.Context, productID string) ([]*entity.StockLevel, error) {
	return l.stock.ListByProduct(ctx, productID)
}

// Adjust aplica delta en su propia transacción y devuelve la nueva cantidad.
func (l *StockLedger) Adjust(ctx context.Context, key StockKey, delta int64) (int64, error) {
	var qty int64
	err := l.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		var err error
		qty, err = l.AdjustTx(ctx, repos.Stock, key, delta)
		return err
	})
	return qty, err
}

// AdjustTx aplica delta dentro de la transacción del llamador. El bloqueo de la pareja
// se mantiene hasta que esa transacción termine.
func (l *StockLedger) AdjustTx(ctx context.Context, stock repository.StockRepository, key StockKey, delta int64) (int64, error) {
	return adjustStock(ctx, stock, key, delta, l.now())
}

func adjustStock(ctx context.Context, stock repository.StockRepository, key StockKey, delta int64, now time.Time) (int64, error) {
	if delta == 0 {
		return 0, fmt.Errorf("%w: el ajuste de stock no puede ser cero", domain.ErrValidation)
	}
	if key.ProductID == "" || key.WarehouseID == "" {
		return 0, fmt.Errorf("%w: producto y bodega son obligatorios", domain.ErrValidation)
	}
	sl, err := stock.GetForUpdate(ctx, key.ProductID, key.WarehouseID)
	if err != nil {
		return 0, err
	}
	next := sl.Quantity + delta
	if next < 0 {
		return 0, fmt.Errorf("%w: disponible %d, solicitado %d", domain.ErrInsufficientStock, sl.Quantity, -delta)
	}
	if sl.CompanyID == "" {
		sl.CompanyID = key.CompanyID
	}
	sl.Quantity = next
	sl.UpdatedAt = now
	if err := stock.Upsert(ctx, sl); err != nil {
		return 0, err
	}
	return next, nil
}
