package dto

import "time"

// CategoryRequest entrada para crear o reemplazar una categoría.
type CategoryRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"max=1000"`
}

// CategoryResponse salida de una categoría.
type CategoryResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CategoryListResponse lista paginada de categorías.
type CategoryListResponse struct {
	Items []CategoryResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// SupplierRequest entrada para crear o reemplazar un proveedor.
type SupplierRequest struct {
	TradeName string `json:"trade_name" validate:"required,min=1,max=200"`
	LegalName string `json:"legal_name" validate:"max=200"`
	TaxID     string `json:"tax_id" validate:"required,min=3,max=30"`
	Email     string `json:"email" validate:"omitempty,email"`
	Phone     string `json:"phone" validate:"max=30"`
	Address   string `json:"address" validate:"max=500"`
}

// SupplierResponse salida de un proveedor.
type SupplierResponse struct {
	ID        string    `json:"id"`
	TradeName string    `json:"trade_name"`
	LegalName string    `json:"legal_name"`
	TaxID     string    `json:"tax_id"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SupplierListResponse lista paginada de proveedores.
type SupplierListResponse struct {
	Items []SupplierResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// CustomerRequest entrada para crear o reemplazar un cliente.
type CustomerRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=200"`
	TaxID string `json:"tax_id" validate:"required,min=3,max=30"`
	Email string `json:"email" validate:"omitempty,email"`
	Phone string `json:"phone" validate:"max=30"`
}

// CustomerResponse salida de un cliente.
type CustomerResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	TaxID     string    `json:"tax_id"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CustomerListResponse lista paginada de clientes.
type CustomerListResponse struct {
	Items []CustomerResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
