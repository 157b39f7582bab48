package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockflow-api/internal/application/orders"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
)

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "$0,00", formatMoney(decimal.Zero))
	assert.Equal(t, "$999,90", formatMoney(decimal.RequireFromString("999.9")))
	assert.Equal(t, "$25.000,00", formatMoney(decimal.NewFromInt(25000)))
	assert.Equal(t, "$1.234.567,50", formatMoney(decimal.RequireFromString("1234567.5")))
}

func TestPurchaseOrderPDF_Render(t *testing.T) {
	doc := &orders.PurchaseOrderDocument{
		Issuer: orders.Issuer{Name: "Ferretería Central", TaxID: "900123456"},
		Order: &entity.PurchaseOrder{
			ID: "po-1", Number: 7, Status: entity.PurchaseOrderApproved, CreatedAt: time.Now(),
			Lines: []entity.PurchaseOrderLine{
				{ProductID: "p-1", Quantity: 3, UnitCost: decimal.NewFromInt(1200)},
			},
		},
		Supplier: &entity.Supplier{TradeName: "Aceros del Norte", TaxID: "800111222"},
		Products: map[string]*entity.Product{"p-1": {ID: "p-1", SKU: "TOR-01", Name: "Tornillo"}},
	}
	out, err := NewPurchaseOrderPDF().Render(doc)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}
