package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/traslados-api/internal/application/dto"
	"github.com/jhoicas/traslados-api/internal/domain"
	"github.com/jhoicas/traslados-api/internal/domain/entity"
	"github.com/jhoicas/traslados-api/internal/domain/repository"
)

// WarehouseUseCase casos de uso del catálogo de bodegas.
type WarehouseUseCase struct {
	txRunner repository.TxRunner
	repo     repository.WarehouseRepository
	now      func() time.Time
}

// NewWarehouseUseCase construye el caso de uso.
func NewWarehouseUseCase(txRunner repository.TxRunner, repo repository.WarehouseRepository) *WarehouseUseCase {
	return &WarehouseUseCase{txRunner: txRunner, repo: repo, now: time.Now}
}

// Create crea una bodega activa.
func (uc *WarehouseUseCase) Create(ctx context.Context, companyID string, in dto.CreateWarehouseRequest) (*dto.WarehouseResponse, error) {
	code, name, err := requireCodeAndName(in.Code, in.Name)
	if err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetActiveByCode(ctx, companyID, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: ya existe una bodega activa con código %s", domain.ErrConflict, code)
	}
	now := uc.now()
	warehouse := &entity.Warehouse{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		Code:        code,
		Name:        name,
		Address:     strings.TrimSpace(in.Address),
		Responsible: strings.TrimSpace(in.Responsible),
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, warehouse); err != nil {
		return nil, err
	}
	return toWarehouseResponse(warehouse), nil
}

// GetByID obtiene una bodega de la empresa.
func (uc *WarehouseUseCase) GetByID(ctx context.Context, companyID, id string) (*dto.WarehouseResponse, error) {
	warehouse, err := uc.find(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	return toWarehouseResponse(warehouse), nil
}

func (uc *WarehouseUseCase) find(ctx context.Context, companyID, id string) (*entity.Warehouse, error) {
	warehouse, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if warehouse == nil || warehouse.CompanyID != companyID {
		return nil, fmt.Errorf("%w: bodega %s", domain.ErrNotFound, id)
	}
	return warehouse, nil
}

// Update actualiza nombre, dirección o responsable.
func (uc *WarehouseUseCase) Update(ctx context.Context, companyID, id string, in dto.UpdateWarehouseRequest) (*dto.WarehouseResponse, error) {
	warehouse, err := uc.find(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrValidation)
		}
		warehouse.Name = name
	}
	if in.Address != nil {
		warehouse.Address = strings.TrimSpace(*in.Address)
	}
	if in.Responsible != nil {
		warehouse.Responsible = strings.TrimSpace(*in.Responsible)
	}
	warehouse.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, warehouse); err != nil {
		return nil, err
	}
	return toWarehouseResponse(warehouse), nil
}

// Deactivate desactiva la bodega. Falla con ErrConflict si guarda existencias o tiene traslados abiertos.
func (uc *WarehouseUseCase) Deactivate(ctx context.Context, companyID, id string) (*dto.WarehouseResponse, error) {
	var out *entity.Warehouse
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		warehouse, err := repos.Warehouses.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if warehouse == nil || warehouse.CompanyID != companyID {
			return fmt.Errorf("%w: bodega %s", domain.ErrNotFound, id)
		}
		out = warehouse
		if !warehouse.Active {
			return nil
		}
		levels, err := repos.Stock.ListByWarehouse(ctx, id)
		if err != nil {
			return err
		}
		what := "la bodega " + warehouse.Code
		if err := ensureNoStock(levels, what); err != nil {
			return err
		}
		filter := repository.TransferFilter{CompanyID: companyID, WarehouseID: id}
		if err := ensureNoOpenTransfers(ctx, repos.Transfers, filter, what); err != nil {
			return err
		}
		warehouse.Active = false
		warehouse.UpdatedAt = uc.now()
		return repos.Warehouses.Update(ctx, warehouse)
	})
	if err != nil {
		return nil, err
	}
	return toWarehouseResponse(out), nil
}

// List lista bodegas de la empresa con paginación.
func (uc *WarehouseUseCase) List(ctx context.Context, companyID string, in dto.WarehouseFilterRequest) (*dto.WarehouseListResponse, error) {
	limit, offset := normalizePage(in.Limit, in.Offset)
	list, err := uc.repo.List(ctx, repository.WarehouseFilter{
		CompanyID: companyID,
		Active:    in.Active,
		Search:    strings.TrimSpace(in.Search),
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.WarehouseResponse, 0, len(list))
	for _, w := range list {
		items = append(items, *toWarehouseResponse(w))
	}
	return &dto.WarehouseListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

func toWarehouseResponse(w *entity.Warehouse) *dto.WarehouseResponse {
	if w == nil {
		return nil
	}
	return &dto.WarehouseResponse{
		ID:          w.ID,
		CompanyID:   w.CompanyID,
		Code:        w.Code,
		Name:        w.Name,
		Address:     w.Address,
		Responsible: w.Responsible,
		Active:      w.Active,
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	}
}
