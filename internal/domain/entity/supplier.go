package entity

import "time"

// Supplier representa un proveedor. No se puede eliminar mientras tenga órdenes de compra.
type Supplier struct {
	ID        string
	TradeName string
	LegalName string
	TaxID     string // único
	Email     string
	Phone     string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
