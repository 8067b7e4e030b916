package entity

import "time"

// Warehouse representa una bodega donde se almacena inventario (multi-bodega).
type Warehouse struct {
	ID          string
	CompanyID   string
	Code        string // código único entre las bodegas activas de la empresa
	Name        string
	Address     string
	Responsible string // nombre del responsable de la bodega
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
