package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/traslados-api/internal/application/dto"
	"github.com/jhoicas/traslados-api/internal/application/inventory"
	"github.com/jhoicas/traslados-api/internal/domain/entity"
)

// TransferHandler expone el flujo de traslados entre bodegas.
type TransferHandler struct {
	uc *inventory.TransferUseCase
}

// NewTransferHandler construye el handler.
func NewTransferHandler(uc *inventory.TransferUseCase) *TransferHandler {
	return &TransferHandler{uc: uc}
}

// Create godoc
// @Summary      Crear traslado
// @Description  Registra el traslado en estado PENDIENTE con referencia TR-<año>-<n>. No mueve stock.
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTransferRequest  true  "Producto, bodegas, cantidad y responsable"
// @Success      201   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/transfers [post]
func (h *TransferHandler) Create(c *fiber.Ctx) error {
	companyID, userID, ok := requireTenant(c)
	if !ok {
		return nil
	}
	var in dto.CreateTransferRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	input := inventory.CreateTransferInput{
		CompanyID:              companyID,
		ActorID:                userID,
		ProductID:              in.ProductID,
		SourceWarehouseID:      in.SourceWarehouseID,
		DestinationWarehouseID: in.DestinationWarehouseID,
		Quantity:               in.Quantity,
		Responsible:            in.Responsible,
		Notes:                  in.Notes,
	}
	if in.Date != nil {
		input.Date = *in.Date
	}
	t, err := h.uc.Create(c.UserContext(), input)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.TransferFromEntity(t))
}

// List godoc
// @Summary      Listar traslados
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        status           query  string  false  "PENDIENTE, EN_TRANSITO, COMPLETADO o CANCELADO"
// @Param        product_id       query  string  false  "Producto"
// @Param        warehouse_id     query  string  false  "Bodega origen o destino"
// @Param        include_deleted  query  bool    false  "Incluir eliminados"
// @Param        limit            query  int     false  "Límite"  default(20)
// @Param        offset           query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.TransferListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/transfers [get]
func (h *TransferHandler) List(c *fiber.Ctx) error {
	companyID, _, ok := requireTenant(c)
	if !ok {
		return nil
	}
	includeDeleted, err := optionalBool(c, "include_deleted")
	if err != nil {
		return badRequest(c, "VALIDATION", "include_deleted debe ser booleano")
	}
	page := pageQuery(c)
	f := inventory.TransferListFilter{
		Status:      entity.TransferStatus(c.Query("status")),
		ProductID:   c.Query("product_id"),
		WarehouseID: c.Query("warehouse_id"),
		Limit:       page.Limit,
		Offset:      page.Offset,
	}
	if includeDeleted != nil {
		f.IncludeDeleted = *includeDeleted
	}
	list, err := h.uc.List(c.UserContext(), companyID, f)
	if err != nil {
		return writeError(c, err)
	}
	out := dto.TransferListResponse{
		Items: make([]dto.TransferResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, t := range list {
		out.Items = append(out.Items, dto.TransferFromEntity(t))
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener traslado
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del traslado"
// @Success      200  {object}  dto.TransferResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id} [get]
func (h *TransferHandler) GetByID(c *fiber.Ctx) error {
	companyID, _, ok := requireTenant(c)
	if !ok {
		return nil
	}
	t, err := h.uc.GetByID(c.UserContext(), companyID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.TransferFromEntity(t))
}

// Commit godoc
// @Summary      Despachar traslado
// @Description  PENDIENTE → EN_TRANSITO. Descuenta la cantidad de la bodega origen. Repetirlo no descuenta dos veces.
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del traslado"
// @Success      200  {object}  dto.TransferResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/commit [post]
func (h *TransferHandler) Commit(c *fiber.Ctx) error {
	return h.apply(c, h.uc.Commit)
}

// Confirm godoc
// @Summary      Confirmar recepción
// @Description  EN_TRANSITO → COMPLETADO. Suma la cantidad en la bodega destino.
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del traslado"
// @Success      200  {object}  dto.TransferResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/confirm [post]
func (h *TransferHandler) Confirm(c *fiber.Ctx) error {
	return h.apply(c, h.uc.Confirm)
}

func (h *TransferHandler) apply(c *fiber.Ctx, fn func(ctx context.Context, companyID, actorID, id string) (*entity.Transfer, error)) error {
	companyID, userID, ok := requireTenant(c)
	if !ok {
		return nil
	}
	t, err := fn(c.UserContext(), companyID, userID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.TransferFromEntity(t))
}

// Cancel godoc
// @Summary      Cancelar traslado
// @Description  Desde EN_TRANSITO devuelve la cantidad a la bodega origen con un movimiento compensatorio.
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true   "ID del traslado"
// @Param        body  body  dto.CancelTransferRequest  false  "Motivo"
// @Success      200   {object}  dto.TransferResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/cancel [post]
func (h *TransferHandler) Cancel(c *fiber.Ctx) error {
	return h.applyWithReason(c, h.uc.Cancel)
}

// Delete godoc
// @Summary      Eliminar traslado
// @Description  Solo dentro de la ventana desde su creación. Cancela si hace falta y deja el historial intacto.
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true   "ID del traslado"
// @Param        body  body  dto.CancelTransferRequest  false  "Motivo"
// @Success      200   {object}  dto.TransferResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transfers/{id} [delete]
func (h *TransferHandler) Delete(c *fiber.Ctx) error {
	return h.applyWithReason(c, h.uc.Delete)
}

func (h *TransferHandler) applyWithReason(c *fiber.Ctx, fn func(ctx context.Context, companyID, actorID, id, reason string) (*entity.Transfer, error)) error {
	companyID, userID, ok := requireTenant(c)
	if !ok {
		return nil
	}
	var in dto.CancelTransferRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
	}
	t, err := fn(c.UserContext(), companyID, userID, c.Params("id"), in.Reason)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.TransferFromEntity(t))
}
