package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/traslados-api/internal/application/analytics"
	"github.com/jhoicas/traslados-api/internal/application/inventory"
	"github.com/jhoicas/traslados-api/internal/application/usecase"
	"github.com/jhoicas/traslados-api/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC        *usecase.ProductUseCase
	WarehouseUC      *usecase.WarehouseUseCase
	CategoryUC       *usecase.CategoryUseCase
	RegisterMovement *inventory.RegisterMovementUseCase
	Movements        *inventory.MovementLog
	Ledger           *inventory.StockLedger
	TransferUC       *inventory.TransferUseCase
	ReportUC         *analytics.ReportUseCase
	JWTSecret        string
	JWTIssuer        string
}

// Router registra las rutas de la API. Todas requieren Bearer Token; las escrituras
// además exigen rol admin o bodeguero.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))
	write := RequireRole(jwt.RoleAdmin, jwt.RoleBodeguero)

	// Transfers
	transfers := api.Group("/transfers")
	transferHandler := NewTransferHandler(deps.TransferUC)
	transfers.Post("/", write, transferHandler.Create)
	transfers.Get("/", transferHandler.List)
	transfers.Get("/:id", transferHandler.GetByID)
	transfers.Post("/:id/commit", write, transferHandler.Commit)
	transfers.Post("/:id/confirm", write, transferHandler.Confirm)
	transfers.Post("/:id/cancel", write, transferHandler.Cancel)
	transfers.Delete("/:id", RequireRole(jwt.RoleAdmin), transferHandler.Delete)

	// Stock y kardex
	inventoryHandler := NewInventoryHandler(deps.RegisterMovement, deps.Movements, deps.Ledger, deps.ProductUC, deps.WarehouseUC)
	api.Get("/stock/:productId/:warehouseId", inventoryHandler.GetStock)
	api.Get("/stock/:productId", inventoryHandler.GetProductStock)
	api.Post("/inventory/movements", write, inventoryHandler.RegisterMovement)
	api.Get("/movements", inventoryHandler.ListMovements)

	// Products
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", write, productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", write, productHandler.Update)
	products.Post("/:id/deactivate", write, productHandler.Deactivate)

	// Warehouses
	warehouses := api.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Post("/", write, warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)
	warehouses.Put("/:id", write, warehouseHandler.Update)
	warehouses.Post("/:id/deactivate", write, warehouseHandler.Deactivate)

	// Categories
	categories := api.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories.Post("/", write, categoryHandler.Create)
	categories.Get("/", categoryHandler.List)

	// Reports
	reports := api.Group("/reports")
	reportHandler := NewReportHandler(deps.ReportUC)
	reports.Get("/low-stock", reportHandler.LowStock)
	reports.Get("/valuation", reportHandler.Valuation)
}
