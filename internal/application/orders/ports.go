// Package orders contiene los flujos de órdenes de compra y de venta. Todo cambio de stock
// pasa por inventory.StockUseCase dentro de la misma transacción que el cambio de estado.
package orders

import "github.com/jhoicas/stockflow-api/internal/domain/entity"

// Issuer datos de la empresa emisora que aparecen en los documentos exportados.
type Issuer struct {
	Name    string
	TaxID   string
	Address string
	Email   string
}

// PurchaseOrderDocument orden de compra con sus referencias resueltas, lista para exportar.
type PurchaseOrderDocument struct {
	Issuer   Issuer
	Order    *entity.PurchaseOrder
	Supplier *entity.Supplier
	Products map[string]*entity.Product // por ProductID
}

// PurchaseOrderRenderer genera un documento binario (PDF, XML) de una orden de compra.
type PurchaseOrderRenderer interface {
	Render(doc *PurchaseOrderDocument) ([]byte, error)
}
