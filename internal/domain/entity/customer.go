package entity

import "time"

// Customer representa un cliente. Protegido contra borrado mientras tenga órdenes de venta.
type Customer struct {
	ID        string
	Name      string
	TaxID     string // documento, único
	Email     string // único
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
