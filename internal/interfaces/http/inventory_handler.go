package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/traslados-api/internal/application/dto"
	"github.com/jhoicas/traslados-api/internal/application/inventory"
	"github.com/jhoicas/traslados-api/internal/application/usecase"
	"github.com/jhoicas/traslados-api/internal/domain/entity"
	"github.com/jhoicas/traslados-api/internal/domain/repository"
)

// InventoryHandler maneja entradas, salidas, consultas de stock y el kardex (protegido).
type InventoryHandler struct {
	register   *inventory.RegisterMovementUseCase
	movements  *inventory.MovementLog
	ledger     *inventory.StockLedger
	products   *usecase.ProductUseCase
	warehouses *usecase.WarehouseUseCase
}

// NewInventoryHandler construye el handler. products y warehouses aseguran que las consultas
// de stock no crucen empresas.
func NewInventoryHandler(
	register *inventory.RegisterMovementUseCase,
	movements *inventory.MovementLog,
	ledger *inventory.StockLedger,
	products *usecase.ProductUseCase,
	warehouses *usecase.WarehouseUseCase,
) *InventoryHandler {
	return &InventoryHandler{
		register:   register,
		movements:  movements,
		ledger:     ledger,
		products:   products,
		warehouses: warehouses,
	}
}

// RegisterMovement godoc
// @Summary      Registrar entrada o salida
// @Description  ENTRADA requiere unit_cost y recalcula el costo promedio. Los traslados se registran en /api/transfers.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "product_id, warehouse_id, type (ENTRADA|SALIDA), quantity, unit_cost"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	companyID, userID, ok := requireTenant(c)
	if !ok {
		return nil
	}
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	m, err := h.register.Register(c.UserContext(), inventory.MovementInput{
		CompanyID:   companyID,
		UserID:      userID,
		ProductID:   in.ProductID,
		WarehouseID: in.WarehouseID,
		Kind:        entity.MovementKind(strings.ToUpper(strings.TrimSpace(in.Type))),
		Quantity:    in.Quantity,
		UnitCost:    in.UnitCost,
		Note:        in.Note,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MovementFromEntity(m))
}

// ListMovements godoc
// @Summary      Consultar kardex
// @Description  Movimientos en orden de registro. correlation_id agrupa los movimientos de un traslado.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product         query  string  false  "Producto"
// @Param        warehouse       query  string  false  "Bodega"
// @Param        correlation_id  query  string  false  "Correlación del traslado"
// @Param        type            query  string  false  "ENTRADA, SALIDA, TRASLADO_OUT o TRASLADO_IN"
// @Param        limit           query  int     false  "Límite"  default(20)
// @Param        offset          query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.MovementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	companyID, _, ok := requireTenant(c)
	if !ok {
		return nil
	}
	page := pageQuery(c)
	list, err := h.movements.List(c.UserContext(), repository.MovementFilter{
		CompanyID:     companyID,
		ProductID:     c.Query("product"),
		WarehouseID:   c.Query("warehouse"),
		CorrelationID: c.Query("correlation_id"),
		Kind:          entity.MovementKind(strings.ToUpper(c.Query("type"))),
		Limit:         page.Limit,
		Offset:        page.Offset,
	})
	if err != nil {
		return writeError(c, err)
	}
	out := dto.MovementListResponse{
		Items: make([]dto.MovementResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, m := range list {
		out.Items = append(out.Items, dto.MovementFromEntity(m))
	}
	return c.JSON(out)
}

// GetStock godoc
// @Summary      Cantidad de un producto en una bodega
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        productId    path  string  true  "Producto"
// @Param        warehouseId  path  string  true  "Bodega"
// @Success      200  {object}  dto.StockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{productId}/{warehouseId} [get]
func (h *InventoryHandler) GetStock(c *fiber.Ctx) error {
	companyID, _, ok := requireTenant(c)
	if !ok {
		return nil
	}
	ctx := c.UserContext()
	productID, warehouseID := c.Params("productId"), c.Params("warehouseId")
	if _, err := h.products.GetByID(ctx, companyID, productID); err != nil {
		return writeError(c, err)
	}
	if _, err := h.warehouses.GetByID(ctx, companyID, warehouseID); err != nil {
		return writeError(c, err)
	}
	qty, err := h.ledger.GetQuantity(ctx, productID, warehouseID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.StockResponse{ProductID: productID, WarehouseID: warehouseID, Quantity: qty})
}

// GetProductStock godoc
// @Summary      Existencias de un producto
// @Description  Total de la empresa y detalle por bodega.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        productId  path  string  true  "Producto"
// @Success      200  {object}  dto.ProductStockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{productId} [get]
func (h *InventoryHandler) GetProductStock(c *fiber.Ctx) error {
	companyID, _, ok := requireTenant(c)
	if !ok {
		return nil
	}
	ctx := c.UserContext()
	productID := c.Params("productId")
	if _, err := h.products.GetByID(ctx, companyID, productID); err != nil {
		return writeError(c, err)
	}
	levels, err := h.ledger.Levels(ctx, productID)
	if err != nil {
		return writeError(c, err)
	}
	out := dto.ProductStockResponse{ProductID: productID, Warehouses: make([]dto.StockResponse, 0, len(levels))}
	for _, sl := range levels {
		out.Total += sl.Quantity
		out.Warehouses = append(out.Warehouses, dto.StockResponse{
			ProductID:   sl.ProductID,
			WarehouseID: sl.WarehouseID,
			Quantity:    sl.Quantity,
		})
	}
	return c.JSON(out)
}
