package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/traslados-api/internal/domain"
	"github.com/jhoicas/traslados-api/internal/domain/entity"
	"github.com/jhoicas/traslados-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación en memoria de ProductRepository (autocommit o atada a una tx).
type ProductRepo struct {
	s  *Store
	tx *tx
}

// NewProductRepository construye el adaptador en modo autocommit.
func NewProductRepository(s *Store) *ProductRepo {
	return &ProductRepo{s: s}
}

func (t *tx) product(id string) (entity.Product, bool) {
	return lookup(&t.s.mu, t.s.products, t.products, id)
}

func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	return r.s.exec(ctx, r.tx, func(t *tx) error {
		if _, ok := t.product(product.ID); ok {
			return fmt.Errorf("%w: producto %s ya existe", domain.ErrConflict, product.ID)
		}
		t.products[product.ID] = *product
		return nil
	})
}

func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.s.exec(ctx, r.tx, func(t *tx) error {
		if p, ok := t.product(id); ok {
			out = &p
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.s.exec(ctx, r.tx, func(t *tx) error {
		if err := t.lock("product:" + id); err != nil {
			return err
		}
		if p, ok := t.product(id); ok {
			out = &p
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) GetActiveByCode(ctx context.Context, companyID, code string) (*entity.Product, error) {
	var out *entity.Product
	err := r.s.exec(ctx, r.tx, func(t *tx) error {
		for _, p := range overlay(&t.s.mu, t.s.products, t.products) {
			if p.Active && p.CompanyID == companyID && p.Code == code {
				out = &p
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	return r.s.exec(ctx, r.tx, func(t *tx) error {
		current, ok := t.product(product.ID)
		if !ok {
			return fmt.Errorf("%w: producto %s", domain.ErrNotFound, product.ID)
		}
		current.Name = product.Name
		current.MinStock = product.MinStock
		current.CategoryID = product.CategoryID
		current.Active = product.Active
		current.UpdatedAt = product.UpdatedAt
		t.products[product.ID] = current
		return nil
	})
}

func (r *ProductRepo) UpdateCost(ctx context.Context, productID string, cost decimal.Decimal) error {
	return r.s.exec(ctx, r.tx, func(t *tx) error {
		current, ok := t.product(productID)
		if !ok {
			return fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
		}
		current.Cost = cost
		t.products[productID] = current
		return nil
	})
}

func (r *ProductRepo) List(ctx context.Context, filter repository.ProductFilter) ([]*entity.Product, error) {
	var list []*entity.Product
	err := r.s.exec(ctx, r.tx, func(t *tx) error {
		search := strings.ToLower(filter.Search)
		for _, p := range overlay(&t.s.mu, t.s.products, t.products) {
			p := p
			if filter.CompanyID != "" && p.CompanyID != filter.CompanyID {
				continue
			}
			if filter.CategoryID != "" && p.CategoryID != filter.CategoryID {
				continue
			}
			if filter.Active != nil && p.Active != *filter.Active {
				continue
			}
			if search != "" && !strings.Contains(strings.ToLower(p.Code), search) &&
				!strings.Contains(strings.ToLower(p.Name), search) {
				continue
			}
			list = append(list, &p)
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
		return list[i].Code < list[j].Code
	})
	return paginate(list, filter.Limit, filter.Offset), nil
}
