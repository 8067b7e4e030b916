package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/traslados-api/internal/application/dto"
	"github.com/jhoicas/traslados-api/internal/domain"
	"github.com/jhoicas/traslados-api/internal/domain/entity"
	"github.com/jhoicas/traslados-api/internal/domain/repository"
	"github.com/jhoicas/traslados-api/pkg/codes"
)

func normalizePage(limit, offset int) (int, int) {
	p := dto.PageRequest{Limit: limit, Offset: offset}.Normalized()
	return p.Limit, p.Offset
}

// requireCodeAndName normaliza el código y exige ambos campos.
func requireCodeAndName(code, name string) (string, string, error) {
	code = codes.Normalize(code)
	name = strings.TrimSpace(name)
	if code == "" {
		return "", "", fmt.Errorf("%w: el código es obligatorio", domain.ErrValidation)
	}
	if name == "" {
		return "", "", fmt.Errorf("%w: el nombre es obligatorio", domain.ErrValidation)
	}
	return code, name, nil
}

// ensureNoStock falla con ErrConflict si alguna existencia tiene cantidad > 0.
func ensureNoStock(levels []*entity.StockLevel, what string) error {
	for _, sl := range levels {
		if sl.Quantity > 0 {
			return fmt.Errorf("%w: %s conserva %d unidades en existencia", domain.ErrConflict, what, sl.Quantity)
		}
	}
	return nil
}

// ensureNoOpenTransfers falla con ErrConflict si hay traslados PENDIENTE o EN_TRANSITO que lo involucren.
func ensureNoOpenTransfers(ctx context.Context, transfers repository.TransferRepository, filter repository.TransferFilter, what string) error {
	for _, st := range []entity.TransferStatus{entity.TransferPendiente, entity.TransferEnTransito} {
		filter.Status = st
		filter.Limit = 1
		open, err := transfers.List(ctx, filter)
		if err != nil {
			return err
		}
		if len(open) > 0 {
			return fmt.Errorf("%w: %s tiene el traslado %s en estado %s", domain.ErrConflict, what, open[0].Reference, st)
		}
	}
	return nil
}
