// Package pdf genera la representación imprimible de una orden de compra.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Empresa + NIT       │  OC #N + Fecha + Estado      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  COMPRADOR: Dirección / Email                                │
//	│  PROVEEDOR: Razón social + NIT + contacto                    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | SKU | Producto | Costo Unit. | Subtotal       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL                                                       │
//	│  FOOTER: QR con la referencia de la orden                    │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockflow-api/internal/application/orders"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Renderer ──────────────────────────────────────────────────────────────────

var _ orders.PurchaseOrderRenderer = (*PurchaseOrderPDF)(nil)

// PurchaseOrderPDF implementa orders.PurchaseOrderRenderer usando Maroto v2.
type PurchaseOrderPDF struct{}

// NewPurchaseOrderPDF construye el generador.
func NewPurchaseOrderPDF() *PurchaseOrderPDF { return &PurchaseOrderPDF{} }

// Render genera el PDF y devuelve sus bytes.
func (g *PurchaseOrderPDF) Render(doc *orders.PurchaseOrderDocument) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(fmt.Sprintf("Orden de compra #%d", doc.Order.Number), true).
		WithAuthor(nonEmpty(doc.Issuer.Name, "StockFlow"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(buyerRow(doc.Issuer))
	m.AddRows(supplierRow(doc.Supplier))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableLineRows(doc)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(doc.Order.Total()))

	m.AddRows(line.NewRow(3))
	m.AddRows(footerRow(doc.Order))

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar orden de compra: %w", err)
	}
	return out.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(doc *orders.PurchaseOrderDocument) core.Row {
	o := doc.Order
	return row.New(18).Add(
		col.New(7).Add(
			text.New(nonEmpty(doc.Issuer.Name, "StockFlow"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("NIT: "+nonEmpty(doc.Issuer.TaxID, "-"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("ORDEN DE COMPRA", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("#%d", o.Number), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 6,
			}),
			text.New(fmt.Sprintf("Fecha: %s   |   Estado: %s", o.CreatedAt.Format("02/01/2006"), o.Status), props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
		),
	)
}

func buyerRow(issuer orders.Issuer) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("COMPRADOR", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Dirección: %s   |   Email: %s",
				nonEmpty(issuer.Address, "-"),
				nonEmpty(issuer.Email, "-"),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

func supplierRow(s *entity.Supplier) core.Row {
	name := s.TradeName
	if s.LegalName != "" && s.LegalName != s.TradeName {
		name += " (" + s.LegalName + ")"
	}
	return row.New(18).Add(
		col.New(12).Add(
			text.New("PROVEEDOR", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(name, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New(fmt.Sprintf("NIT: %s   |   Email: %s   |   Tel: %s",
				nonEmpty(s.TaxID, "-"),
				nonEmpty(s.Email, "-"),
				nonEmpty(s.Phone, "-"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("SKU", 2, align.Left),
		h("Producto", 4, align.Left),
		h("Costo Unit.", 2, align.Right),
		h("Subtotal", 3, align.Right),
	)
}

func tableLineRows(doc *orders.PurchaseOrderDocument) []core.Row {
	rows := make([]core.Row, 0, len(doc.Order.Lines))
	for _, l := range doc.Order.Lines {
		var sku, name string
		if p := doc.Products[l.ProductID]; p != nil {
			sku, name = p.SKU, p.Name
		}
		subtotal := l.UnitCost.Mul(decimal.NewFromInt(l.Quantity))
		rows = append(rows, row.New(7).Add(
			col.New(1).Add(text.New(fmt.Sprint(l.Quantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(sku, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(4).Add(text.New(name, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(formatMoney(l.UnitCost), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(3).Add(text.New(formatMoney(subtotal), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return rows
}

func totalRow(total decimal.Decimal) core.Row {
	return row.New(10).Add(
		col.New(6),
		col.New(3).Add(text.New("TOTAL:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2, Top: 2,
		})),
		col.New(3).Add(text.New(formatMoney(total), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: 2,
		})),
	)
}

func footerRow(o *entity.PurchaseOrder) core.Row {
	ref := fmt.Sprintf("OC#%d|%s|%s", o.Number, o.ID, o.Total().StringFixed(2))
	return row.New(40).Add(
		col.New(3).Add(code.NewQr(ref, props.Rect{Percent: 95, Center: true})),
		col.New(9).Add(
			text.New("Referencia de la orden", props.Text{Style: fontstyle.Bold, Size: 8, Top: 4, Left: 3, Color: colorPrimary}),
			text.New(o.ID, props.Text{Size: 7, Top: 10, Left: 3, Color: colorGray}),
			text.New("Documento generado por StockFlow. No es una factura.", props.Text{
				Size: 7, Top: 18, Left: 3, Color: colorGray,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney formato local: "$1.234.567,50".
func formatMoney(d decimal.Decimal) string {
	s := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")
	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + "$" + string(buf) + "," + frac
}
