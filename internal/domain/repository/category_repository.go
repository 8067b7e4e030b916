package repository

import (
	"context"

	"github.com/jhoicas/traslados-api/internal/domain/entity"
)

// CategoryRepository define el puerto de persistencia para Category (DIP).
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id string) (*entity.Category, error)
	GetByCompanyAndCode(ctx context.Context, companyID, code string) (*entity.Category, error)
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Category, error)
}
