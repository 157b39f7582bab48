package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesOrderStatus estado de una orden de venta.
type SalesOrderStatus string

const (
	SalesOrderCart            SalesOrderStatus = "CART"
	SalesOrderAwaitingPayment SalesOrderStatus = "AWAITING_PAYMENT"
	SalesOrderPaid            SalesOrderStatus = "PAID"
	SalesOrderDispatched      SalesOrderStatus = "DISPATCHED"
	SalesOrderCancelled       SalesOrderStatus = "CANCELLED"
)

// Valid indica si el estado es uno de los conocidos.
func (s SalesOrderStatus) Valid() bool {
	switch s {
	case SalesOrderCart, SalesOrderAwaitingPayment, SalesOrderPaid, SalesOrderDispatched, SalesOrderCancelled:
		return true
	}
	return false
}

// CanTransitionTo aplica la máquina de estados:
//
//	CART -> AWAITING_PAYMENT -> PAID -> DISPATCHED
//	CART | AWAITING_PAYMENT | PAID -> CANCELLED
func (s SalesOrderStatus) CanTransitionTo(next SalesOrderStatus) bool {
	switch s {
	case SalesOrderCart:
		return next == SalesOrderAwaitingPayment || next == SalesOrderCancelled
	case SalesOrderAwaitingPayment:
		return next == SalesOrderPaid || next == SalesOrderCancelled
	case SalesOrderPaid:
		return next == SalesOrderDispatched || next == SalesOrderCancelled
	case SalesOrderDispatched, SalesOrderCancelled:
		return false
	}
	return false
}

// SalesOrder orden de venta a un cliente.
type SalesOrder struct {
	ID           string
	Number       int64
	CustomerID   string
	Status       SalesOrderStatus
	RequestedBy  string
	CreatedAt    time.Time
	PaidAt       *time.Time
	DispatchedAt *time.Time // sólo al despachar
	Lines        []SalesOrderLine
}

// SalesOrderLine línea de venta. UnitPrice es el precio capturado al crear la orden.
type SalesOrderLine struct {
	ID        string
	OrderID   string
	ProductID string
	Quantity  int64
	UnitPrice decimal.Decimal
}

// Total suma cantidad x precio de todas las líneas.
func (o *SalesOrder) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range o.Lines {
		total = total.Add(l.UnitPrice.Mul(decimal.NewFromInt(l.Quantity)))
	}
	return total
}
