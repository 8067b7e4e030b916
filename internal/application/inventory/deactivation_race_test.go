package inventory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/traslados-api/internal/application/inventory"
	"github.com/jhoicas/traslados-api/internal/application/usecase"
	"github.com/jhoicas/traslados-api/internal/domain"
	"github.com/jhoicas/traslados-api/internal/domain/entity"
	"github.com/jhoicas/traslados-api/internal/domain/repository"
	"github.com/jhoicas/traslados-api/internal/infrastructure/memory"
	"github.com/jhoicas/traslados-api/pkg/logger"
)

// gate detiene la primera transacción que lee la bodega id hasta que se llame open.
type gate struct {
	id      string
	reached chan struct{}
	resume  chan struct{}
	once    sync.Once
}

func newGate(id string) *gate {
	return &gate{id: id, reached: make(chan struct{}), resume: make(chan struct{})}
}

func (g *gate) wait(id string) {
	if id != g.id {
		return
	}
	g.once.Do(func() {
		close(g.reached)
		<-g.resume
	})
}

func (g *gate) open() { close(g.resume) }

type gatedWarehouses struct {
	repository.WarehouseRepository
	g *gate
}

func (w gatedWarehouses) GetByID(ctx context.Context, id string) (*entity.Warehouse, error) {
	wh, err := w.WarehouseRepository.GetByID(ctx, id)
	w.g.wait(id)
	return wh, err
}

func (w gatedWarehouses) GetForUpdate(ctx context.Context, id string) (*entity.Warehouse, error) {
	wh, err := w.WarehouseRepository.GetForUpdate(ctx, id)
	w.g.wait(id)
	return wh, err
}

type gatedRunner struct {
	inner repository.TxRunner
	g     *gate
}

func (r gatedRunner) Run(ctx context.Context, fn func(repos repository.TxRepos) error) error {
	return r.inner.Run(ctx, func(repos repository.TxRepos) error {
		repos.Warehouses = gatedWarehouses{WarehouseRepository: repos.Warehouses, g: r.g}
		return fn(repos)
	})
}

// deactivateWhilePaused corre op hasta que lee la bodega, desactiva esa bodega en paralelo
// y comprueba que la desactivación espera a que op termine.
func deactivateWhilePaused(t *testing.T, f *fixture, g *gate, op func(ctx context.Context) error) (opErr, deactivateErr error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	opDone := make(chan error, 1)
	go func() { opDone <- op(ctx) }()
	select {
	case <-g.reached:
	case <-ctx.Done():
		t.Fatal("la operación nunca leyó la bodega")
	}

	warehouses := usecase.NewWarehouseUseCase(f.store, memory.NewWarehouseRepository(f.store))
	deactivateDone := make(chan error, 1)
	go func() {
		_, err := warehouses.Deactivate(ctx, company, g.id)
		deactivateDone <- err
	}()

	select {
	case err := <-deactivateDone:
		g.open()
		<-opDone
		t.Fatalf("la desactivación no esperó a la transacción en curso (err=%v)", err)
	case <-time.After(50 * time.Millisecond):
	}

	g.open()
	return <-opDone, <-deactivateDone
}

func TestRegister_DesactivacionConcurrenteEsperaLaEntrada(t *testing.T) {
	f := newFixture(t, 0)
	g := newGate(whB)
	movements := inventory.NewRegisterMovementUseCase(gatedRunner{inner: f.store, g: g}, logger.Nop()).
		WithClock(f.clock.Now)

	regErr, deactErr := deactivateWhilePaused(t, f, g, func(ctx context.Context) error {
		_, err := movements.Register(ctx, inventory.MovementInput{
			CompanyID: company, UserID: actor, ProductID: prodP, WarehouseID: whB,
			Kind: entity.MovementEntrada, Quantity: 7, UnitCost: cost("100"),
		})
		return err
	})

	require.NoError(t, regErr)
	assert.True(t, errors.Is(deactErr, domain.ErrConflict), "got %v", deactErr)
	wh, err := memory.NewWarehouseRepository(f.store).GetByID(context.Background(), whB)
	require.NoError(t, err)
	assert.True(t, wh.Active)
	assert.EqualValues(t, 7, f.qty(t, whB))
}

func TestTransfer_Create_DesactivacionConcurrenteVeElTrasladoAbierto(t *testing.T) {
	f := newFixture(t, 0)
	g := newGate(whA)
	transfers := inventory.NewTransferUseCase(gatedRunner{inner: f.store, g: g}, memory.NewTransferRepository(f.store), logger.Nop()).
		WithClock(f.clock.Now)

	createErr, deactErr := deactivateWhilePaused(t, f, g, func(ctx context.Context) error {
		_, err := transfers.Create(ctx, inventory.CreateTransferInput{
			CompanyID: company, ActorID: actor, ProductID: prodP,
			SourceWarehouseID: whA, DestinationWarehouseID: whB, Quantity: 3,
		})
		return err
	})

	require.NoError(t, createErr)
	assert.True(t, errors.Is(deactErr, domain.ErrConflict), "got %v", deactErr)
	wh, err := memory.NewWarehouseRepository(f.store).GetByID(context.Background(), whA)
	require.NoError(t, err)
	assert.True(t, wh.Active)
}
