package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseOrderStatus estado de una orden de compra.
type PurchaseOrderStatus string

const (
	PurchaseOrderPending   PurchaseOrderStatus = "PENDING"
	PurchaseOrderApproved  PurchaseOrderStatus = "APPROVED"
	PurchaseOrderReceived  PurchaseOrderStatus = "RECEIVED"
	PurchaseOrderCancelled PurchaseOrderStatus = "CANCELLED"
)

// Valid indica si el estado es uno de los conocidos.
func (s PurchaseOrderStatus) Valid() bool {
	switch s {
	case PurchaseOrderPending, PurchaseOrderApproved, PurchaseOrderReceived, PurchaseOrderCancelled:
		return true
	}
	return false
}

// CanTransitionTo aplica la máquina de estados:
//
//	PENDING -> APPROVED -> RECEIVED
//	PENDING | APPROVED -> CANCELLED
func (s PurchaseOrderStatus) CanTransitionTo(next PurchaseOrderStatus) bool {
	switch s {
	case PurchaseOrderPending:
		return next == PurchaseOrderApproved || next == PurchaseOrderCancelled
	case PurchaseOrderApproved:
		return next == PurchaseOrderReceived || next == PurchaseOrderCancelled
	case PurchaseOrderReceived, PurchaseOrderCancelled:
		return false
	}
	return false
}

// PurchaseOrder orden de compra a un proveedor.
type PurchaseOrder struct {
	ID          string
	Number      int64 // consecutivo visible (#N)
	SupplierID  string
	Status      PurchaseOrderStatus
	RequestedBy string
	CreatedAt   time.Time
	ReceivedAt  *time.Time // sólo al recibir
	Lines       []PurchaseOrderLine
}

// PurchaseOrderLine línea de compra. UnitCost es el costo capturado al crear la orden.
type PurchaseOrderLine struct {
	ID        string
	OrderID   string
	ProductID string
	Quantity  int64
	UnitCost  decimal.Decimal
}

// Total suma cantidad x costo de todas las líneas.
func (o *PurchaseOrder) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range o.Lines {
		total = total.Add(l.UnitCost.Mul(decimal.NewFromInt(l.Quantity)))
	}
	return total
}
