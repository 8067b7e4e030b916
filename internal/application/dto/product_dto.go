package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. El costo se calcula con las entradas.
type CreateProductRequest struct {
	Code       string `json:"code" validate:"required,min=1,max=50"`
	Name       string `json:"name" validate:"required,min=1,max=200"`
	CategoryID string `json:"category_id,omitempty"`
	MinStock   int64  `json:"min_stock" validate:"min=0"`
}

// UpdateProductRequest entrada para actualizar un producto (sin código, costo ni stock).
type UpdateProductRequest struct {
	Name       *string `json:"name" validate:"omitempty,min=1,max=200"`
	CategoryID *string `json:"category_id"`
	MinStock   *int64  `json:"min_stock" validate:"omitempty,min=0"`
}

// ProductFilterRequest filtros de GET /api/products.
type ProductFilterRequest struct {
	PageRequest
	CategoryID string `query:"category_id"`
	Search     string `query:"search"`
	Active     *bool  `query:"active"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID         string          `json:"id"`
	CompanyID  string          `json:"company_id"`
	Code       string          `json:"code"`
	Name       string          `json:"name"`
	CategoryID string          `json:"category_id,omitempty"`
	MinStock   int64           `json:"min_stock"`
	Cost       decimal.Decimal `json:"cost"`
	Active     bool            `json:"active"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
