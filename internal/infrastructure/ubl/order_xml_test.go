package ubl

import (
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockflow-api/internal/application/orders"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
)

func sampleDocument() *orders.PurchaseOrderDocument {
	return &orders.PurchaseOrderDocument{
		Issuer: orders.Issuer{Name: "StockFlow S.A.S.", TaxID: "900123456"},
		Order: &entity.PurchaseOrder{
			ID: "po-1", Number: 12, Status: entity.PurchaseOrderPending,
			CreatedAt: time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC),
			Lines: []entity.PurchaseOrderLine{
				{ProductID: "p-1", Quantity: 4, UnitCost: decimal.RequireFromString("2.5")},
				{ProductID: "p-x", Quantity: 1, UnitCost: decimal.NewFromInt(10)},
			},
		},
		Supplier: &entity.Supplier{TradeName: "Aceros", LegalName: "Aceros del Norte S.A.", TaxID: "800111222"},
		Products: map[string]*entity.Product{
			"p-1": {ID: "p-1", SKU: "TOR-01", Name: "Tornillo", UnitMeasure: "UND"},
		},
	}
}

func TestOrderXML_Render(t *testing.T) {
	out, err := NewOrderXML("").Render(sampleDocument())
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(out))
	root := doc.Root()
	require.NotNil(t, root)
	assert.Equal(t, "Order", root.Tag)
	assert.Equal(t, NsOrder, root.SelectAttrValue("xmlns", ""))

	assert.Equal(t, "12", root.FindElement("./cbc:ID").Text())
	assert.Equal(t, "2026-03-04", root.FindElement("./cbc:IssueDate").Text())
	assert.Equal(t, "COP", root.FindElement("./cbc:DocumentCurrencyCode").Text())

	payable := root.FindElement("./cac:AnticipatedMonetaryTotal/cbc:PayableAmount")
	require.NotNil(t, payable)
	assert.Equal(t, "20.00", payable.Text())
	assert.Equal(t, "COP", payable.SelectAttrValue("currencyID", ""))

	seller := root.FindElement("./cac:SellerSupplierParty/cac:Party/cac:PartyName/cbc:Name")
	assert.Equal(t, "Aceros del Norte S.A.", seller.Text())

	lines := root.FindElements("./cac:OrderLine/cac:LineItem")
	require.Len(t, lines, 2)
	assert.Equal(t, "UND", lines[0].FindElement("./cbc:Quantity").SelectAttrValue("unitCode", ""))
	assert.Equal(t, "TOR-01", lines[0].FindElement("./cac:Item/cac:SellersItemIdentification/cbc:ID").Text())
	// producto sin resolver: se usa el id como nombre
	assert.Equal(t, "p-x", lines[1].FindElement("./cac:Item/cbc:Name").Text())
}

func TestOrderXML_RenderSinProveedor(t *testing.T) {
	doc := sampleDocument()
	doc.Supplier = nil
	_, err := NewOrderXML("USD").Render(doc)
	assert.Error(t, err)
}
