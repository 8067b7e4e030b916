// Package memory implementa los puertos de persistencia en memoria con la misma
// semántica transaccional que el adaptador PostgreSQL: escrituras diferidas hasta
// Commit, bloqueos por clave retenidos hasta el fin de la transacción y restricciones
// de unicidad y no negatividad verificadas al confirmar.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/jhoicas/traslados-api/internal/domain"
	"github.com/jhoicas/traslados-api/internal/domain/entity"
	"github.com/jhoicas/traslados-api/internal/domain/repository"
)

var _ repository.TxRunner = (*Store)(nil)

type stockKey struct {
	productID   string
	warehouseID string
}

type storedMovement struct {
	seq int64
	m   entity.Movement
}

// Store estado confirmado. Solo Commit lo modifica.
type Store struct {
	mu         sync.RWMutex
	products   map[string]entity.Product
	warehouses map[string]entity.Warehouse
	categories map[string]entity.Category
	stock      map[stockKey]entity.StockLevel
	movements  []storedMovement
	transfers  map[string]entity.Transfer
	sequences  map[string]int64
	movSeq     int64

	locks *keyLocks
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		products:   make(map[string]entity.Product),
		warehouses: make(map[string]entity.Warehouse),
		categories: make(map[string]entity.Category),
		stock:      make(map[stockKey]entity.StockLevel),
		transfers:  make(map[string]entity.Transfer),
		sequences:  make(map[string]int64),
		locks:      newKeyLocks(),
	}
}

// Run ejecuta fn dentro de una transacción. Commit si fn no falla; si falla no queda ninguna escritura.
func (s *Store) Run(ctx context.Context, fn func(repos repository.TxRepos) error) error {
	t := s.begin(ctx)
	if err := fn(t.repos()); err != nil {
		t.rollback()
		return err
	}
	return t.commit()
}

// exec usa t si hay transacción en curso; si no, abre una de una sola operación (autocommit).
func (s *Store) exec(ctx context.Context, t *tx, fn func(t *tx) error) error {
	if t != nil {
		return fn(t)
	}
	t = s.begin(ctx)
	if err := fn(t); err != nil {
		t.rollback()
		return err
	}
	return t.commit()
}

// tx escrituras pendientes y bloqueos retenidos de una transacción.
type tx struct {
	s    *Store
	ctx  context.Context
	held []string

	products   map[string]entity.Product
	warehouses map[string]entity.Warehouse
	categories map[string]entity.Category
	stock      map[stockKey]entity.StockLevel
	movements  []entity.Movement
	transfers  map[string]entity.Transfer
	sequences  map[string]int64
}

func (s *Store) begin(ctx context.Context) *tx {
	return &tx{
		s:          s,
		ctx:        ctx,
		products:   make(map[string]entity.Product),
		warehouses: make(map[string]entity.Warehouse),
		categories: make(map[string]entity.Category),
		stock:      make(map[stockKey]entity.StockLevel),
		transfers:  make(map[string]entity.Transfer),
		sequences:  make(map[string]int64),
	}
}

func (t *tx) repos() repository.TxRepos {
	return repository.TxRepos{
		Movements:  &MovementRepo{s: t.s, tx: t},
		Stock:      &StockRepo{s: t.s, tx: t},
		Products:   &ProductRepo{s: t.s, tx: t},
		Warehouses: &WarehouseRepo{s: t.s, tx: t},
		Transfers:  &TransferRepo{s: t.s, tx: t},
		Sequences:  &SequenceRepo{s: t.s, tx: t},
	}
}

// lock toma el bloqueo de key hasta el fin de la transacción. Reentrante.
func (t *tx) lock(key string) error {
	for _, k := range t.held {
		if k == key {
			return nil
		}
	}
	if err := t.s.locks.lock(t.ctx, key); err != nil {
		return fmt.Errorf("lock %s: %w", key, err)
	}
	t.held = append(t.held, key)
	return nil
}

func (t *tx) releaseLocks() {
	for i := len(t.held) - 1; i >= 0; i-- {
		t.s.locks.unlock(t.held[i])
	}
	t.held = nil
}

func (t *tx) rollback() {
	t.releaseLocks()
}

func (t *tx) commit() error {
	defer t.releaseLocks()
	s := t.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := t.checkConstraints(); err != nil {
		return err
	}
	for id, p := range t.products {
		s.products[id] = p
	}
	for id, w := range t.warehouses {
		s.warehouses[id] = w
	}
	for id, c := range t.categories {
		s.categories[id] = c
	}
	for k, sl := range t.stock {
		s.stock[k] = sl
	}
	for _, m := range t.movements {
		s.movSeq++
		s.movements = append(s.movements, storedMovement{seq: s.movSeq, m: m})
	}
	for id, tr := range t.transfers {
		s.transfers[id] = tr
	}
	for k, v := range t.sequences {
		s.sequences[k] = v
	}
	return nil
}

// checkConstraints se ejecuta con s.mu tomado; replica los índices únicos y CHECKs del esquema SQL.
func (t *tx) checkConstraints() error {
	s := t.s
	for _, sl := range t.stock {
		if sl.Quantity < 0 {
			return fmt.Errorf("%w: cantidad negativa en stock", domain.ErrInsufficientStock)
		}
	}
	for id, p := range t.products {
		if !p.Active {
			continue
		}
		for otherID, o := range s.products {
			if otherID == id {
				continue
			}
			if pending, ok := t.products[otherID]; ok {
				o = pending
			}
			if o.Active && o.CompanyID == p.CompanyID && o.Code == p.Code {
				return fmt.Errorf("%w: código de producto %s duplicado", domain.ErrConflict, p.Code)
			}
		}
	}
	for id, w := range t.warehouses {
		if !w.Active {
			continue
		}
		for otherID, o := range s.warehouses {
			if otherID == id {
				continue
			}
			if pending, ok := t.warehouses[otherID]; ok {
				o = pending
			}
			if o.Active && o.CompanyID == w.CompanyID && o.Code == w.Code {
				return fmt.Errorf("%w: código de bodega %s duplicado", domain.ErrConflict, w.Code)
			}
		}
	}
	for id, c := range t.categories {
		for otherID, o := range s.categories {
			if otherID != id && o.CompanyID == c.CompanyID && o.Code == c.Code {
				return fmt.Errorf("%w: código de categoría %s duplicado", domain.ErrConflict, c.Code)
			}
		}
	}
	for id, tr := range t.transfers {
		for otherID, o := range s.transfers {
			if otherID != id && o.CompanyID == tr.CompanyID && o.Reference == tr.Reference {
				return fmt.Errorf("%w: referencia %s duplicada", domain.ErrConflict, tr.Reference)
			}
		}
	}
	for _, m := range t.movements {
		if m.CorrelationID == "" {
			continue
		}
		for _, o := range s.movements {
			if o.m.CorrelationID == m.CorrelationID && o.m.Kind == m.Kind {
				return fmt.Errorf("%w: movimiento %s ya registrado para %s", domain.ErrConflict, m.Kind, m.CorrelationID)
			}
		}
	}
	return nil
}
