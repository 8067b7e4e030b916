package inventory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/traslados-api/internal/application/inventory"
	"github.com/jhoicas/traslados-api/internal/domain"
	"github.com/jhoicas/traslados-api/internal/domain/entity"
	"github.com/jhoicas/traslados-api/internal/domain/repository"
)

func TestTransfer_FlujoCompleto(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()

	tr := f.create(t, 4)
	assert.Equal(t, entity.TransferPendiente, tr.Status)
	assert.Equal(t, "TR-2025-001", tr.Reference)
	assert.NotEmpty(t, tr.CorrelationID)
	assert.EqualValues(t, 10, f.qty(t, whA))
	assert.EqualValues(t, 0, f.qty(t, whB))

	tr, err := f.transfers.Commit(ctx, company, actor, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferEnTransito, tr.Status)
	require.NotNil(t, tr.CommittedAt)
	assert.EqualValues(t, 6, f.qty(t, whA))
	assert.EqualValues(t, 0, f.qty(t, whB))
	movs := f.byCorrelation(t, tr.CorrelationID)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTrasladoOut, movs[0].Kind)
	assert.EqualValues(t, 6, movs[0].BalanceAfter)
	assert.Equal(t, actor, movs[0].ActorID)

	tr, err = f.transfers.Confirm(ctx, company, actor, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferCompletado, tr.Status)
	assert.EqualValues(t, 6, f.qty(t, whA))
	assert.EqualValues(t, 4, f.qty(t, whB))

	movs = f.byCorrelation(t, tr.CorrelationID)
	require.Len(t, movs, 2)
	assert.Equal(t, entity.MovementTrasladoIn, movs[1].Kind)
	assert.Equal(t, movs[0].Quantity, movs[1].Quantity)
	assert.Equal(t, whB, movs[1].WarehouseID)

	total, err := f.ledger.TotalQuantity(ctx, prodP)
	require.NoError(t, err)
	assert.EqualValues(t, 10, total, "la cantidad total se conserva")
}

func TestTransfer_Commit_StockInsuficiente(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()
	tr := f.create(t, 15)

	_, err := f.transfers.Commit(ctx, company, actor, tr.ID)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

	got, err := f.transfers.GetByID(ctx, company, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferPendiente, got.Status)
	assert.Nil(t, got.CommittedAt)
	assert.EqualValues(t, 10, f.qty(t, whA))
	assert.EqualValues(t, 0, f.qty(t, whB))
	assert.Empty(t, f.byCorrelation(t, tr.CorrelationID))
}

func TestTransfer_CancelarEnTransitoCompensa(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()
	tr := f.create(t, 4)
	_, err := f.transfers.Commit(ctx, company, actor, tr.ID)
	require.NoError(t, err)

	tr, err = f.transfers.Cancel(ctx, company, actor, tr.ID, "  producto dañado ")
	require.NoError(t, err)
	assert.Equal(t, entity.TransferCancelado, tr.Status)
	assert.Equal(t, "producto dañado", tr.CancelReason)
	require.NotNil(t, tr.CancelledAt)
	assert.EqualValues(t, 10, f.qty(t, whA))
	assert.EqualValues(t, 0, f.qty(t, whB))

	movs := f.byCorrelation(t, tr.CorrelationID)
	require.Len(t, movs, 2)
	assert.Equal(t, entity.MovementEntrada, movs[1].Kind)
	assert.Equal(t, whA, movs[1].WarehouseID)
	assert.EqualValues(t, 4, movs[1].Quantity)
	assert.Contains(t, movs[1].Note, tr.Reference)
}

func TestTransfer_CancelarPendienteNoTocaStock(t *testing.T) {
	f := newFixture(t, 10)
	tr := f.create(t, 4)

	tr, err := f.transfers.Cancel(context.Background(), company, actor, tr.ID, "")
	require.NoError(t, err)
	assert.Equal(t, entity.TransferCancelado, tr.Status)
	assert.EqualValues(t, 10, f.qty(t, whA))
	assert.Empty(t, f.byCorrelation(t, tr.CorrelationID))
}

func TestTransfer_Create_MismaBodega(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()

	_, err := f.transfers.Create(ctx, inventory.CreateTransferInput{
		CompanyID: company, ActorID: actor, ProductID: prodP,
		SourceWarehouseID: whA, DestinationWarehouseID: whA, Quantity: 1,
	})
	assert.True(t, errors.Is(err, domain.ErrValidation))

	list, err := f.transfers.List(ctx, company, inventory.TransferListFilter{IncludeDeleted: true})
	require.NoError(t, err)
	assert.Empty(t, list, "no se crea ningún traslado")
}

func TestTransfer_Create_Validaciones(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()
	base := inventory.CreateTransferInput{
		CompanyID: company, ActorID: actor, ProductID: prodP,
		SourceWarehouseID: whA, DestinationWarehouseID: whB, Quantity: 1,
	}

	cases := map[string]struct {
		mutate func(in *inventory.CreateTransferInput)
		want   error
	}{
		"cantidad cero":        {func(in *inventory.CreateTransferInput) { in.Quantity = 0 }, domain.ErrValidation},
		"cantidad negativa":    {func(in *inventory.CreateTransferInput) { in.Quantity = -3 }, domain.ErrValidation},
		"sin producto":         {func(in *inventory.CreateTransferInput) { in.ProductID = "" }, domain.ErrValidation},
		"producto inexistente": {func(in *inventory.CreateTransferInput) { in.ProductID = "nope" }, domain.ErrNotFound},
		"bodega inexistente":   {func(in *inventory.CreateTransferInput) { in.DestinationWarehouseID = "nope" }, domain.ErrNotFound},
		"otra empresa":         {func(in *inventory.CreateTransferInput) { in.CompanyID = "empresa-2" }, domain.ErrNotFound},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			in := base
			tc.mutate(&in)
			_, err := f.transfers.Create(ctx, in)
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
		})
	}
}

func TestTransfer_Create_BodegaInactiva(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()
	require.NoError(t, f.store.Run(ctx, func(r repository.TxRepos) error {
		wh, err := r.Warehouses.GetForUpdate(ctx, whB)
		if err != nil {
			return err
		}
		wh.Active = false
		return r.Warehouses.Update(ctx, wh)
	}))

	_, err := f.transfers.Create(ctx, inventory.CreateTransferInput{
		CompanyID: company, ProductID: prodP, SourceWarehouseID: whA, DestinationWarehouseID: whB, Quantity: 1,
	})
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestTransfer_ReferenciasConsecutivasPorAño(t *testing.T) {
	f := newFixture(t, 10)
	assert.Equal(t, "TR-2025-001", f.create(t, 1).Reference)
	assert.Equal(t, "TR-2025-002", f.create(t, 1).Reference)

	f.clock.t = time.Date(2026, 1, 1, 0, 0, 1, 0, time.UTC)
	assert.Equal(t, "TR-2026-001", f.create(t, 1).Reference)
}

func TestTransfer_ReferenciaUsaAñoUTC(t *testing.T) {
	f := newFixture(t, 10)
	// 31 de diciembre a las 20:00 en UTC-5 ya es 1 de enero en UTC
	f.clock.t = time.Date(2025, 12, 31, 20, 0, 0, 0, time.FixedZone("COT", -5*3600))
	assert.Equal(t, "TR-2026-001", f.create(t, 1).Reference)
}

func TestTransfer_ReferenciasConcurrentesSinDuplicados(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()
	const n = 25
	refs := make([]string, n)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			tr, err := f.transfers.Create(gctx, inventory.CreateTransferInput{
				CompanyID: company, ProductID: prodP, SourceWarehouseID: whA, DestinationWarehouseID: whB, Quantity: 1,
			})
			if err != nil {
				return err
			}
			refs[i] = tr.Reference
			return nil
		})
	}
	require.NoError(t, g.Wait())

	seen := make(map[string]bool, n)
	for _, r := range refs {
		assert.False(t, seen[r], "referencia %s repetida", r)
		seen[r] = true
	}
	assert.True(t, seen["TR-2025-025"])
}

func TestTransfer_CommitIdempotente(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()
	tr := f.create(t, 4)

	first, err := f.transfers.Commit(ctx, company, actor, tr.ID)
	require.NoError(t, err)
	second, err := f.transfers.Commit(ctx, company, actor, tr.ID)
	require.NoError(t, err)

	assert.Equal(t, first.Status, second.Status)
	assert.EqualValues(t, 6, f.qty(t, whA), "un solo descuento")
	movs := f.byCorrelation(t, tr.CorrelationID)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTrasladoOut, movs[0].Kind)

	// reintento después de confirmar tampoco descuenta
	_, err = f.transfers.Confirm(ctx, company, actor, tr.ID)
	require.NoError(t, err)
	again, err := f.transfers.Commit(ctx, company, actor, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferCompletado, again.Status)
	assert.EqualValues(t, 6, f.qty(t, whA))
}

func TestTransfer_ConfirmIdempotente(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()
	tr := f.create(t, 4)
	_, err := f.transfers.Commit(ctx, company, actor, tr.ID)
	require.NoError(t, err)
	_, err = f.transfers.Confirm(ctx, company, actor, tr.ID)
	require.NoError(t, err)

	got, err := f.transfers.Confirm(ctx, company, actor, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferCompletado, got.Status)
	assert.EqualValues(t, 4, f.qty(t, whB), "un solo abono")
	assert.Len(t, f.byCorrelation(t, tr.CorrelationID), 2)
}

func TestTransfer_TransicionesInvalidas(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()

	pending := f.create(t, 1)
	_, err := f.transfers.Confirm(ctx, company, actor, pending.ID)
	assert.True(t, errors.Is(err, domain.ErrInvalidState), "confirm sobre PENDIENTE")

	done := f.create(t, 1)
	_, err = f.transfers.Commit(ctx, company, actor, done.ID)
	require.NoError(t, err)
	_, err = f.transfers.Confirm(ctx, company, actor, done.ID)
	require.NoError(t, err)
	_, err = f.transfers.Cancel(ctx, company, actor, done.ID, "")
	assert.True(t, errors.Is(err, domain.ErrInvalidState), "cancel sobre COMPLETADO")

	cancelled := f.create(t, 1)
	_, err = f.transfers.Cancel(ctx, company, actor, cancelled.ID, "")
	require.NoError(t, err)
	for name, op := range map[string]func() error{
		"commit":  func() error { _, err := f.transfers.Commit(ctx, company, actor, cancelled.ID); return err },
		"confirm": func() error { _, err := f.transfers.Confirm(ctx, company, actor, cancelled.ID); return err },
		"cancel":  func() error { _, err := f.transfers.Cancel(ctx, company, actor, cancelled.ID, ""); return err },
	} {
		assert.True(t, errors.Is(op(), domain.ErrInvalidState), "%s sobre CANCELADO", name)
	}

	_, err = f.transfers.Commit(ctx, company, actor, "no-existe")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	_, err = f.transfers.Commit(ctx, "empresa-2", actor, pending.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound), "otra empresa no ve el traslado")
}

// Dos traslados distintos compiten por el mismo stock: solo uno puede salir.
func TestTransfer_CommitsConcurrentesSobreMismaBodega(t *testing.T) {
	f := newFixture(t, 5)
	ctx := context.Background()
	first := f.create(t, 5)
	second := f.create(t, 5)

	errs := make([]error, 2)
	var g errgroup.Group
	for i, id := range []string{first.ID, second.ID} {
		i, id := i, id
		g.Go(func() error {
			_, errs[i] = f.transfers.Commit(ctx, company, actor, id)
			return nil
		})
	}
	require.NoError(t, g.Wait())

	var ok, insufficient int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrInsufficientStock):
			insufficient++
		default:
			t.Fatalf("error inesperado: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, insufficient)
	assert.EqualValues(t, 0, f.qty(t, whA))
}

func TestTransfer_MuchosCommitsConcurrentesNuncaNegativo(t *testing.T) {
	f := newFixture(t, 7)
	ctx := context.Background()
	ids := make([]string, 10)
	for i := range ids {
		ids[i] = f.create(t, 1).ID
	}

	var g errgroup.Group
	for _, id := range ids {
		id := id
		g.Go(func() error {
			_, err := f.transfers.Commit(ctx, company, actor, id)
			if err != nil && !errors.Is(err, domain.ErrInsufficientStock) {
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.EqualValues(t, 0, f.qty(t, whA))
	inTransit, err := f.transfers.List(ctx, company, inventory.TransferListFilter{Status: entity.TransferEnTransito})
	require.NoError(t, err)
	assert.Len(t, inTransit, 7)
}

func TestTransfer_Delete(t *testing.T) {
	t.Run("dentro de la ventana cancela y marca", func(t *testing.T) {
		f := newFixture(t, 10)
		ctx := context.Background()
		tr := f.create(t, 4)
		_, err := f.transfers.Commit(ctx, company, actor, tr.ID)
		require.NoError(t, err)
		f.clock.Advance(23 * time.Hour)

		got, err := f.transfers.Delete(ctx, company, actor, tr.ID, "registro duplicado")
		require.NoError(t, err)
		assert.True(t, got.Deleted)
		assert.Equal(t, entity.TransferCancelado, got.Status)
		assert.EqualValues(t, 10, f.qty(t, whA), "se compensa la salida")

		list, err := f.transfers.List(ctx, company, inventory.TransferListFilter{})
		require.NoError(t, err)
		assert.Empty(t, list)
		list, err = f.transfers.List(ctx, company, inventory.TransferListFilter{IncludeDeleted: true})
		require.NoError(t, err)
		assert.Len(t, list, 1)

		byID, err := f.transfers.GetByID(ctx, company, tr.ID)
		require.NoError(t, err)
		assert.True(t, byID.Deleted, "sigue legible por ID")
		assert.Len(t, f.byCorrelation(t, tr.CorrelationID), 2, "el historial no se borra")
	})

	t.Run("fuera de la ventana", func(t *testing.T) {
		f := newFixture(t, 10)
		ctx := context.Background()
		tr := f.create(t, 4)
		f.clock.Advance(25 * time.Hour)

		_, err := f.transfers.Delete(ctx, company, actor, tr.ID, "")
		assert.True(t, errors.Is(err, domain.ErrConflict))

		// un PENDIENTE viejo sigue cancelable
		got, err := f.transfers.Cancel(ctx, company, actor, tr.ID, "vencido")
		require.NoError(t, err)
		assert.Equal(t, entity.TransferCancelado, got.Status)
	})

	t.Run("completado no se elimina", func(t *testing.T) {
		f := newFixture(t, 10)
		ctx := context.Background()
		tr := f.create(t, 4)
		_, err := f.transfers.Commit(ctx, company, actor, tr.ID)
		require.NoError(t, err)
		_, err = f.transfers.Confirm(ctx, company, actor, tr.ID)
		require.NoError(t, err)

		_, err = f.transfers.Delete(ctx, company, actor, tr.ID, "")
		assert.True(t, errors.Is(err, domain.ErrInvalidState))
		assert.EqualValues(t, 4, f.qty(t, whB))
	})

	t.Run("cancelado solo recibe la marca", func(t *testing.T) {
		f := newFixture(t, 10)
		ctx := context.Background()
		tr := f.create(t, 4)
		_, err := f.transfers.Cancel(ctx, company, actor, tr.ID, "error de digitación")
		require.NoError(t, err)

		got, err := f.transfers.Delete(ctx, company, actor, tr.ID, "")
		require.NoError(t, err)
		assert.True(t, got.Deleted)
		assert.Equal(t, "error de digitación", got.CancelReason)
	})

	t.Run("ventana configurable", func(t *testing.T) {
		f := newFixture(t, 10)
		f.transfers.WithDeleteWindow(time.Hour)
		tr := f.create(t, 4)
		f.clock.Advance(2 * time.Hour)
		_, err := f.transfers.Delete(context.Background(), company, actor, tr.ID, "")
		assert.True(t, errors.Is(err, domain.ErrConflict))
	})
}

func TestTransfer_ListFiltros(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()
	a := f.create(t, 1)
	f.clock.Advance(time.Minute)
	b := f.create(t, 2)
	_, err := f.transfers.Commit(ctx, company, actor, b.ID)
	require.NoError(t, err)

	all, err := f.transfers.List(ctx, company, inventory.TransferListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, b.ID, all[0].ID, "más recientes primero")

	pending, err := f.transfers.List(ctx, company, inventory.TransferListFilter{Status: entity.TransferPendiente})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, a.ID, pending[0].ID)

	byDest, err := f.transfers.List(ctx, company, inventory.TransferListFilter{WarehouseID: whB})
	require.NoError(t, err)
	assert.Len(t, byDest, 2)

	page, err := f.transfers.List(ctx, company, inventory.TransferListFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, a.ID, page[0].ID)

	_, err = f.transfers.List(ctx, company, inventory.TransferListFilter{Status: "PERDIDO"})
	assert.True(t, errors.Is(err, domain.ErrValidation))

	other, err := f.transfers.List(ctx, "empresa-2", inventory.TransferListFilter{})
	require.NoError(t, err)
	assert.Empty(t, other)
}
