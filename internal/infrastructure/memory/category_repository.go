package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/traslados-api/internal/domain"
	"github.com/jhoicas/traslados-api/internal/domain/entity"
	"github.com/jhoicas/traslados-api/internal/domain/repository"
)

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

// CategoryRepo implementación en memoria de CategoryRepository (solo autocommit).
type CategoryRepo struct {
	s *Store
}

// NewCategoryRepository construye el adaptador.
func NewCategoryRepository(s *Store) *CategoryRepo {
	return &CategoryRepo{s: s}
}

func (r *CategoryRepo) Create(ctx context.Context, category *entity.Category) error {
	return r.s.exec(ctx, nil, func(t *tx) error {
		if _, ok := lookup(&t.s.mu, t.s.categories, t.categories, category.ID); ok {
			return fmt.Errorf("%w: categoría %s ya existe", domain.ErrConflict, category.ID)
		}
		t.categories[category.ID] = *category
		return nil
	})
}

func (r *CategoryRepo) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if c, ok := r.s.categories[id]; ok {
		return &c, nil
	}
	return nil, nil
}

func (r *CategoryRepo) GetByCompanyAndCode(ctx context.Context, companyID, code string) (*entity.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, c := range r.s.categories {
		if c.CompanyID == companyID && c.Code == code {
			return &c, nil
		}
	}
	return nil, nil
}

func (r *CategoryRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Category, error) {
	r.s.mu.RLock()
	list := make([]*entity.Category, 0)
	for _, c := range r.s.categories {
		c := c
		if c.CompanyID == companyID {
			list = append(list, &c)
		}
	}
	r.s.mu.RUnlock()
	sort.Slice(list, func(i, j int) bool { return list[i].Code < list[j].Code })
	return paginate(list, limit, offset), nil
}
