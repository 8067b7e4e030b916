package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jhoicas/traslados-api/internal/application/inventory"
	"github.com/jhoicas/traslados-api/internal/domain/entity"
	"github.com/jhoicas/traslados-api/internal/infrastructure/memory"
	"github.com/jhoicas/traslados-api/pkg/logger"
)

const (
	company = "empresa-1"
	actor   = "usuario-1"
	prodP   = "prod-p"
	whA     = "bodega-a"
	whB     = "bodega-b"
)

// fixture producto P con stock en A; B vacía.
type fixture struct {
	store     *memory.Store
	ledger    *inventory.StockLedger
	log       *inventory.MovementLog
	transfers *inventory.TransferUseCase
	movements *inventory.RegisterMovementUseCase
	clock     *fakeClock
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newFixture(t *testing.T, stockA int64) *fixture {
	t.Helper()
	ctx := context.Background()
	s := memory.NewStore()
	clock := &fakeClock{t: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}

	now := clock.Now()
	require.NoError(t, memory.NewProductRepository(s).Create(ctx, &entity.Product{
		ID: prodP, CompanyID: company, Code: "P-001", Name: "Pintura blanca", MinStock: 5,
		Active: true, CreatedAt: now, UpdatedAt: now,
	}))
	for _, id := range []string{whA, whB} {
		require.NoError(t, memory.NewWarehouseRepository(s).Create(ctx, &entity.Warehouse{
			ID: id, CompanyID: company, Code: id, Name: id, Active: true, CreatedAt: now, UpdatedAt: now,
		}))
	}

	f := &fixture{
		store:     s,
		ledger:    inventory.NewStockLedger(s, memory.NewStockRepository(s)),
		log:       inventory.NewMovementLog(memory.NewInventoryMovementRepository(s)),
		transfers: inventory.NewTransferUseCase(s, memory.NewTransferRepository(s), logger.Nop()).WithClock(clock.Now),
		movements: inventory.NewRegisterMovementUseCase(s, logger.Nop()).WithClock(clock.Now),
		clock:     clock,
	}
	if stockA > 0 {
		_, err := f.ledger.Adjust(ctx, inventory.StockKey{CompanyID: company, ProductID: prodP, WarehouseID: whA}, stockA)
		require.NoError(t, err)
	}
	return f
}

func (f *fixture) qty(t *testing.T, warehouseID string) int64 {
	t.Helper()
	q, err := f.ledger.GetQuantity(context.Background(), prodP, warehouseID)
	require.NoError(t, err)
	return q
}

func (f *fixture) create(t *testing.T, qty int64) *entity.Transfer {
	t.Helper()
	tr, err := f.transfers.Create(context.Background(), inventory.CreateTransferInput{
		CompanyID: company, ActorID: actor, ProductID: prodP,
		SourceWarehouseID: whA, DestinationWarehouseID: whB, Quantity: qty,
		Responsible: "Marta Gómez",
	})
	require.NoError(t, err)
	return tr
}

func (f *fixture) byCorrelation(t *testing.T, correlationID string) []*entity.Movement {
	t.Helper()
	movs, err := f.log.ListByCorrelation(context.Background(), company, correlationID)
	require.NoError(t, err)
	return movs
}
