package memory

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/traslados-api/internal/domain"
	"github.com/jhoicas/traslados-api/internal/domain/entity"
	"github.com/jhoicas/traslados-api/internal/domain/repository"
)

func TestRun_RollbackDescartaEscrituras(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.Run(ctx, func(r repository.TxRepos) error {
		require.NoError(t, r.Stock.Upsert(ctx, &entity.StockLevel{ProductID: "p", WarehouseID: "a", Quantity: 5}))
		require.NoError(t, r.Movements.Create(ctx, &entity.Movement{Kind: entity.MovementEntrada, ProductID: "p", WarehouseID: "a", Quantity: 5}))
		// dentro de la tx se leen las escrituras propias
		sl, err := r.Stock.Get(ctx, "p", "a")
		require.NoError(t, err)
		assert.EqualValues(t, 5, sl.Quantity)
		return boom
	})
	require.ErrorIs(t, err, boom)

	sl, err := NewStockRepository(s).Get(ctx, "p", "a")
	require.NoError(t, err)
	assert.Zero(t, sl.Quantity)
	movs, err := NewInventoryMovementRepository(s).List(ctx, repository.MovementFilter{})
	require.NoError(t, err)
	assert.Empty(t, movs)
	assert.Zero(t, s.locks.size(), "no deben quedar bloqueos retenidos")
}

func TestRun_CantidadNegativaRechazadaAlConfirmar(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	err := s.Run(ctx, func(r repository.TxRepos) error {
		return r.Stock.Upsert(ctx, &entity.StockLevel{ProductID: "p", WarehouseID: "a", Quantity: -1})
	})
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
}

func TestRun_MovimientoDuplicadoPorCorrelacion(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	movs := NewInventoryMovementRepository(s)
	m := entity.Movement{Kind: entity.MovementTrasladoOut, ProductID: "p", WarehouseID: "a", Quantity: 1, CorrelationID: "c1"}
	require.NoError(t, movs.Create(ctx, &m))

	dup := m
	dup.ID = ""
	err := movs.Create(ctx, &dup)
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

func TestGetForUpdate_SerializaPorClave(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	var inside, maxInside int32

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < 8; i++ {
		g.Go(func() error {
			return s.Run(gctx, func(r repository.TxRepos) error {
				sl, err := r.Stock.GetForUpdate(gctx, "p", "a")
				if err != nil {
					return err
				}
				n := atomic.AddInt32(&inside, 1)
				for {
					m := atomic.LoadInt32(&maxInside)
					if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
						break
					}
				}
				time.Sleep(2 * time.Millisecond)
				atomic.AddInt32(&inside, -1)
				sl.Quantity++
				return r.Stock.Upsert(gctx, sl)
			})
		})
	}
	require.NoError(t, g.Wait())

	assert.EqualValues(t, 1, maxInside, "solo una transacción a la vez sobre la misma clave")
	sl, err := NewStockRepository(s).Get(ctx, "p", "a")
	require.NoError(t, err)
	assert.EqualValues(t, 8, sl.Quantity, "ninguna actualización perdida")
}

func TestGetForUpdate_RespetaCancelacionDelContexto(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	held := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		done <- s.Run(ctx, func(r repository.TxRepos) error {
			if _, err := r.Transfers.GetForUpdate(ctx, "t1"); err != nil {
				return err
			}
			close(held)
			<-release
			return nil
		})
	}()
	<-held

	waitCtx, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
	defer cancel()
	err := s.Run(waitCtx, func(r repository.TxRepos) error {
		_, err := r.Transfers.GetForUpdate(waitCtx, "t1")
		return err
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	require.NoError(t, <-done)
	assert.Zero(t, s.locks.size())
}

func TestSequence_SinDuplicadosConcurrentes(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	seqs := NewSequenceRepository(s)
	results := make([]int64, 20)

	g, gctx := errgroup.WithContext(ctx)
	for i := range results {
		i := i
		g.Go(func() error {
			n, err := seqs.Next(gctx, "c1", "TR", 2025)
			results[i] = n
			return err
		})
	}
	require.NoError(t, g.Wait())

	seen := make(map[int64]bool)
	for _, n := range results {
		assert.False(t, seen[n], "consecutivo %d repetido", n)
		seen[n] = true
	}
	for i := int64(1); i <= 20; i++ {
		assert.True(t, seen[i], "falta el consecutivo %d", i)
	}

	n, err := seqs.Next(ctx, "c1", "TR", 2026)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n, "cada año arranca en 1")
}

func TestProducts_CodigoActivoUnico(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	products := NewProductRepository(s)
	require.NoError(t, products.Create(ctx, &entity.Product{ID: "1", CompanyID: "c", Code: "X", Active: true}))

	err := products.Create(ctx, &entity.Product{ID: "2", CompanyID: "c", Code: "X", Active: true})
	assert.True(t, errors.Is(err, domain.ErrConflict))

	// un código repetido en otra empresa o inactivo es válido
	require.NoError(t, products.Create(ctx, &entity.Product{ID: "3", CompanyID: "otra", Code: "X", Active: true}))
	require.NoError(t, products.Create(ctx, &entity.Product{ID: "4", CompanyID: "c", Code: "X", Active: false}))
}
