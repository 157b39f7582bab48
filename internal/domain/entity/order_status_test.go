package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/stockflow-api/internal/domain/entity"
)

func TestPurchaseOrderStatus_Transiciones(t *testing.T) {
	cases := []struct {
		from, to entity.PurchaseOrderStatus
		ok       bool
	}{
		{entity.PurchaseOrderPending, entity.PurchaseOrderApproved, true},
		{entity.PurchaseOrderPending, entity.PurchaseOrderCancelled, true},
		{entity.PurchaseOrderPending, entity.PurchaseOrderReceived, false},
		{entity.PurchaseOrderApproved, entity.PurchaseOrderReceived, true},
		{entity.PurchaseOrderApproved, entity.PurchaseOrderCancelled, true},
		{entity.PurchaseOrderReceived, entity.PurchaseOrderCancelled, false},
		{entity.PurchaseOrderCancelled, entity.PurchaseOrderApproved, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestSalesOrderStatus_Transiciones(t *testing.T) {
	cases := []struct {
		from, to entity.SalesOrderStatus
		ok       bool
	}{
		{entity.SalesOrderCart, entity.SalesOrderAwaitingPayment, true},
		{entity.SalesOrderCart, entity.SalesOrderPaid, false},
		{entity.SalesOrderAwaitingPayment, entity.SalesOrderPaid, true},
		{entity.SalesOrderAwaitingPayment, entity.SalesOrderDispatched, false},
		{entity.SalesOrderPaid, entity.SalesOrderDispatched, true},
		{entity.SalesOrderPaid, entity.SalesOrderCancelled, true},
		{entity.SalesOrderDispatched, entity.SalesOrderCancelled, false},
		{entity.SalesOrderCancelled, entity.SalesOrderCart, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestStatus_Valid(t *testing.T) {
	assert.True(t, entity.PurchaseOrderReceived.Valid())
	assert.False(t, entity.PurchaseOrderStatus("APROBADO").Valid())
	assert.True(t, entity.SalesOrderCart.Valid())
	assert.False(t, entity.SalesOrderStatus("pagado").Valid())
}

func TestProduct_IsLowStock(t *testing.T) {
	p := &entity.Product{MinStock: 10}
	assert.True(t, p.IsLowStock(10), "igual al mínimo cuenta como stock bajo")
	assert.True(t, p.IsLowStock(9))
	assert.False(t, p.IsLowStock(11))
}
