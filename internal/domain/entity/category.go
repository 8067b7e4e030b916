package entity

import "time"

// Category agrupa productos para reportes de valorización.
type Category struct {
	ID        string
	CompanyID string
	Code      string // código único por empresa
	Name      string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
