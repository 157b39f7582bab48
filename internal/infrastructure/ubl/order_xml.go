// Package ubl exporta órdenes de compra como documento UBL 2.1 Order.
package ubl

import (
	"fmt"
	"strconv"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockflow-api/internal/application/orders"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
)

// Namespaces UBL 2.1.
const (
	NsOrder = "urn:oasis:names:specification:ubl:schema:xsd:Order-2"
	NsCac   = "urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2"
	NsCbc   = "urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2"
)

// DefaultCurrency moneda usada cuando no se configura otra.
const DefaultCurrency = "COP"

var _ orders.PurchaseOrderRenderer = (*OrderXML)(nil)

// OrderXML construye el XML UBL Order de una orden de compra.
type OrderXML struct {
	currency string
}

// NewOrderXML crea el generador; currency vacío usa DefaultCurrency.
func NewOrderXML(currency string) *OrderXML {
	if currency == "" {
		currency = DefaultCurrency
	}
	return &OrderXML{currency: currency}
}

// Render genera el []byte del documento Order.
func (g *OrderXML) Render(doc *orders.PurchaseOrderDocument) ([]byte, error) {
	if doc == nil || doc.Order == nil || doc.Supplier == nil {
		return nil, fmt.Errorf("ubl: faltan orden o proveedor en el documento")
	}
	o := doc.Order

	xdoc := etree.NewDocument()
	xdoc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := xdoc.CreateElement("Order")
	root.CreateAttr("xmlns", NsOrder)
	root.CreateAttr("xmlns:cac", NsCac)
	root.CreateAttr("xmlns:cbc", NsCbc)

	cbc(root, "UBLVersionID", "2.1")
	cbc(root, "ID", strconv.FormatInt(o.Number, 10))
	cbc(root, "UUID", o.ID)
	cbc(root, "IssueDate", o.CreatedAt.Format("2006-01-02"))
	cbc(root, "IssueTime", o.CreatedAt.Format("15:04:05-07:00"))
	cbc(root, "Note", "Estado: "+string(o.Status))
	cbc(root, "DocumentCurrencyCode", g.currency)
	cbc(root, "LineCountNumeric", strconv.Itoa(len(o.Lines)))

	// Comprador: la empresa emisora. Vendedor: el proveedor.
	party(root.CreateElement("cac:BuyerCustomerParty"), doc.Issuer.Name, doc.Issuer.TaxID, doc.Issuer.Email)
	party(root.CreateElement("cac:SellerSupplierParty"), nonEmpty(doc.Supplier.LegalName, doc.Supplier.TradeName), doc.Supplier.TaxID, doc.Supplier.Email)

	total := o.Total()
	anticipated := root.CreateElement("cac:AnticipatedMonetaryTotal")
	g.amount(anticipated, "LineExtensionAmount", total)
	g.amount(anticipated, "PayableAmount", total)

	for i, l := range o.Lines {
		g.orderLine(root, i+1, l, doc.Products[l.ProductID])
	}

	xdoc.Indent(2)
	out, err := xdoc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("ubl: serializar orden: %w", err)
	}
	return out, nil
}

func (g *OrderXML) orderLine(root *etree.Element, n int, l entity.PurchaseOrderLine, p *entity.Product) {
	line := root.CreateElement("cac:OrderLine").CreateElement("cac:LineItem")
	cbc(line, "ID", strconv.Itoa(n))
	q := cbc(line, "Quantity", strconv.FormatInt(l.Quantity, 10))
	if p != nil && p.UnitMeasure != "" {
		q.CreateAttr("unitCode", p.UnitMeasure)
	}
	g.amount(line, "LineExtensionAmount", l.UnitCost.Mul(decimal.NewFromInt(l.Quantity)))

	price := line.CreateElement("cac:Price")
	g.amount(price, "PriceAmount", l.UnitCost)

	item := line.CreateElement("cac:Item")
	if p == nil {
		cbc(item, "Name", l.ProductID)
		return
	}
	if p.Description != "" {
		cbc(item, "Description", p.Description)
	}
	cbc(item, "Name", p.Name)
	cbc(item.CreateElement("cac:SellersItemIdentification"), "ID", p.SKU)
}

func (g *OrderXML) amount(parent *etree.Element, local string, v decimal.Decimal) {
	cbc(parent, local, v.StringFixed(2)).CreateAttr("currencyID", g.currency)
}

func party(el *etree.Element, name, taxID, email string) {
	p := el.CreateElement("cac:Party")
	cbc(p.CreateElement("cac:PartyName"), "Name", name)
	if taxID != "" {
		cbc(p.CreateElement("cac:PartyTaxScheme"), "CompanyID", taxID)
	}
	if email != "" {
		cbc(p.CreateElement("cac:Contact"), "ElectronicMail", email)
	}
}

func cbc(parent *etree.Element, local, value string) *etree.Element {
	el := parent.CreateElement("cbc:" + local)
	el.SetText(value)
	return el
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
