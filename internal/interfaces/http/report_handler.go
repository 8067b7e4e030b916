package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/traslados-api/internal/application/analytics"
)

// ReportHandler consultas de solo lectura sobre el inventario.
type ReportHandler struct {
	uc *analytics.ReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *analytics.ReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// LowStock godoc
// @Summary      Alertas de stock bajo
// @Description  Productos activos por debajo de su stock mínimo con la cantidad sugerida de reposición.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  false  "Bodega. Vacío = total de la empresa."
// @Success      200  {object}  map[string]interface{}  "total y alerts (dto.LowStockAlertDTO)"
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/reports/low-stock [get]
func (h *ReportHandler) LowStock(c *fiber.Ctx) error {
	companyID, _, ok := requireTenant(c)
	if !ok {
		return nil
	}
	list, err := h.uc.LowStockAlerts(c.UserContext(), companyID, c.Query("warehouse_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"total":  len(list),
		"alerts": list,
	})
}

// Valuation godoc
// @Summary      Valorización del inventario
// @Description  Cantidad por costo promedio, agrupada por bodega y por categoría.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ValuationDTO
// @Router       /api/reports/valuation [get]
func (h *ReportHandler) Valuation(c *fiber.Ctx) error {
	companyID, _, ok := requireTenant(c)
	if !ok {
		return nil
	}
	out, err := h.uc.Valuation(c.UserContext(), companyID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
