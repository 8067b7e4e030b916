package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/traslados-api/internal/application/dto"
	"github.com/jhoicas/traslados-api/internal/domain"
	"github.com/jhoicas/traslados-api/internal/domain/entity"
	"github.com/jhoicas/traslados-api/internal/domain/repository"
)

// ProductUseCase casos de uso del catálogo de productos. Costo y stock se manejan vía movimientos.
type ProductUseCase struct {
	txRunner   repository.TxRunner
	repo       repository.ProductRepository
	categories repository.CategoryRepository
	now        func() time.Time
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(txRunner repository.TxRunner, repo repository.ProductRepository, categories repository.CategoryRepository) *ProductUseCase {
	return &ProductUseCase{txRunner: txRunner, repo: repo, categories: categories, now: time.Now}
}

// Create crea un producto activo. Cost inicia en 0.
func (uc *ProductUseCase) Create(ctx context.Context, companyID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	code, name, err := requireCodeAndName(in.Code, in.Name)
	if err != nil {
		return nil, err
	}
	if in.MinStock < 0 {
		return nil, fmt.Errorf("%w: el stock mínimo no puede ser negativo", domain.ErrValidation)
	}
	categoryID := strings.TrimSpace(in.CategoryID)
	if err := uc.checkCategory(ctx, companyID, categoryID); err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetActiveByCode(ctx, companyID, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: ya existe un producto activo con código %s", domain.ErrConflict, code)
	}
	now := uc.now()
	product := &entity.Product{
		ID:         uuid.New().String(),
		CompanyID:  companyID,
		Code:       code,
		Name:       name,
		CategoryID: categoryID,
		MinStock:   in.MinStock,
		Cost:       decimal.Zero,
		Active:     true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

func (uc *ProductUseCase) checkCategory(ctx context.Context, companyID, categoryID string) error {
	if categoryID == "" {
		return nil
	}
	c, err := uc.categories.GetByID(ctx, categoryID)
	if err != nil {
		return err
	}
	if c == nil || c.CompanyID != companyID {
		return fmt.Errorf("%w: categoría %s", domain.ErrNotFound, categoryID)
	}
	return nil
}

// GetByID obtiene un producto de la empresa.
func (uc *ProductUseCase) GetByID(ctx context.Context, companyID, id string) (*dto.ProductResponse, error) {
	product, err := uc.find(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

func (uc *ProductUseCase) find(ctx context.Context, companyID, id string) (*entity.Product, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil || product.CompanyID != companyID {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
	}
	return product, nil
}

// Update corrige nombre, stock mínimo o categoría. El código es inmutable.
func (uc *ProductUseCase) Update(ctx context.Context, companyID, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.find(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrValidation)
		}
		product.Name = name
	}
	if in.MinStock != nil {
		if *in.MinStock < 0 {
			return nil, fmt.Errorf("%w: el stock mínimo no puede ser negativo", domain.ErrValidation)
		}
		product.MinStock = *in.MinStock
	}
	if in.CategoryID != nil {
		categoryID := strings.TrimSpace(*in.CategoryID)
		if err := uc.checkCategory(ctx, companyID, categoryID); err != nil {
			return nil, err
		}
		product.CategoryID = categoryID
	}
	product.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Deactivate desactiva el producto. Falla con ErrConflict si tiene existencias o traslados abiertos.
func (uc *ProductUseCase) Deactivate(ctx context.Context, companyID, id string) (*dto.ProductResponse, error) {
	var out *entity.Product
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		product, err := repos.Products.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if product == nil || product.CompanyID != companyID {
			return fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
		}
		out = product
		if !product.Active {
			return nil
		}
		levels, err := repos.Stock.ListByProduct(ctx, id)
		if err != nil {
			return err
		}
		what := "el producto " + product.Code
		if err := ensureNoStock(levels, what); err != nil {
			return err
		}
		filter := repository.TransferFilter{CompanyID: companyID, ProductID: id}
		if err := ensureNoOpenTransfers(ctx, repos.Transfers, filter, what); err != nil {
			return err
		}
		product.Active = false
		product.UpdatedAt = uc.now()
		return repos.Products.Update(ctx, product)
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(out), nil
}

// List lista productos de la empresa con filtros y paginación.
func (uc *ProductUseCase) List(ctx context.Context, companyID string, in dto.ProductFilterRequest) (*dto.ProductListResponse, error) {
	limit, offset := normalizePage(in.Limit, in.Offset)
	list, err := uc.repo.List(ctx, repository.ProductFilter{
		CompanyID:  companyID,
		CategoryID: in.CategoryID,
		Active:     in.Active,
		Search:     strings.TrimSpace(in.Search),
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:         p.ID,
		CompanyID:  p.CompanyID,
		Code:       p.Code,
		Name:       p.Name,
		CategoryID: p.CategoryID,
		MinStock:   p.MinStock,
		Cost:       p.Cost,
		Active:     p.Active,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}
