package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/traslados-api/internal/domain"
	"github.com/jhoicas/traslados-api/internal/domain/entity"
	"github.com/jhoicas/traslados-api/internal/domain/repository"
)

var _ repository.TransferRepository = (*TransferRepo)(nil)

// TransferRepo implementación en memoria de TransferRepository.
type TransferRepo struct {
	s  *Store
	tx *tx
}

// NewTransferRepository construye el adaptador en modo autocommit.
func NewTransferRepository(s *Store) *TransferRepo {
	return &TransferRepo{s: s}
}

func (t *tx) transfer(id string) (entity.Transfer, bool) {
	return lookup(&t.s.mu, t.s.transfers, t.transfers, id)
}

func (r *TransferRepo) Create(ctx context.Context, transfer *entity.Transfer) error {
	return r.s.exec(ctx, r.tx, func(t *tx) error {
		if _, ok := t.transfer(transfer.ID); ok {
			return fmt.Errorf("%w: traslado %s ya existe", domain.ErrConflict, transfer.ID)
		}
		t.transfers[transfer.ID] = *transfer
		return nil
	})
}

func (r *TransferRepo) GetByID(ctx context.Context, id string) (*entity.Transfer, error) {
	var out *entity.Transfer
	err := r.s.exec(ctx, r.tx, func(t *tx) error {
		if tr, ok := t.transfer(id); ok {
			out = &tr
		}
		return nil
	})
	return out, err
}

func (r *TransferRepo) GetForUpdate(ctx context.Context, id string) (*entity.Transfer, error) {
	var out *entity.Transfer
	err := r.s.exec(ctx, r.tx, func(t *tx) error {
		if err := t.lock("transfer:" + id); err != nil {
			return err
		}
		if tr, ok := t.transfer(id); ok {
			out = &tr
		}
		return nil
	})
	return out, err
}

func (r *TransferRepo) Update(ctx context.Context, transfer *entity.Transfer) error {
	return r.s.exec(ctx, r.tx, func(t *tx) error {
		if _, ok := t.transfer(transfer.ID); !ok {
			return fmt.Errorf("%w: traslado %s", domain.ErrNotFound, transfer.ID)
		}
		t.transfers[transfer.ID] = *transfer
		return nil
	})
}

func (r *TransferRepo) List(ctx context.Context, filter repository.TransferFilter) ([]*entity.Transfer, error) {
	list := make([]*entity.Transfer, 0)
	err := r.s.exec(ctx, r.tx, func(t *tx) error {
		for _, tr := range overlay(&t.s.mu, t.s.transfers, t.transfers) {
			tr := tr
			if filter.CompanyID != "" && tr.CompanyID != filter.CompanyID {
				continue
			}
			if filter.Status != "" && tr.Status != filter.Status {
				continue
			}
			if filter.ProductID != "" && tr.ProductID != filter.ProductID {
				continue
			}
			if filter.WarehouseID != "" && tr.SourceWarehouseID != filter.WarehouseID &&
				tr.DestinationWarehouseID != filter.WarehouseID {
				continue
			}
			if tr.Deleted && !filter.IncludeDeleted {
				continue
			}
			list = append(list, &tr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].Reference > list[j].Reference
	})
	return paginate(list, filter.Limit, filter.Offset), nil
}
