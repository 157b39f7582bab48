package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/stockflow-api/internal/application/dto"
	"github.com/jhoicas/stockflow-api/internal/application/orders"
)

// PurchaseOrderHandler flujo de órdenes de compra (manager|admin).
type PurchaseOrderHandler struct {
	uc *orders.PurchaseOrderUseCase
}

// NewPurchaseOrderHandler construye el handler.
func NewPurchaseOrderHandler(uc *orders.PurchaseOrderUseCase) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{uc: uc}
}

// Create godoc
// @Summary      Crear orden de compra (PENDING)
// @Tags         purchase-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePurchaseOrderRequest  true  "supplier_id y líneas"
// @Success      201   {object}  dto.PurchaseOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders [post]
func (h *PurchaseOrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePurchaseOrderRequest
	if err := bindAndValidate(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener orden de compra
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.PurchaseOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id} [get]
func (h *PurchaseOrderHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar órdenes de compra
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "PENDING, APPROVED, RECEIVED o CANCELLED"
// @Param        limit   query  int     false  "Límite"   default(20)
// @Param        offset  query  int     false  "Offset"   default(0)
// @Success      200  {object}  dto.PurchaseOrderListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders [get]
func (h *PurchaseOrderHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), c.Query("status"), pageQuery(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Approve godoc
// @Summary      Aprobar orden de compra
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.PurchaseOrderResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/approve [post]
func (h *PurchaseOrderHandler) Approve(c *fiber.Ctx) error {
	out, err := h.uc.Approve(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Cancelar orden de compra
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.PurchaseOrderResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/cancel [post]
func (h *PurchaseOrderHandler) Cancel(c *fiber.Ctx) error {
	out, err := h.uc.Cancel(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Receive godoc
// @Summary      Recibir orden de compra
// @Description  Acredita cada línea en la bodega indicada, en una sola transacción.
// @Tags         purchase-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID de la orden"
// @Param        body  body  dto.FulfillmentRequest  true  "warehouse_id"
// @Success      200   {object}  dto.PurchaseOrderResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/receive [post]
func (h *PurchaseOrderHandler) Receive(c *fiber.Ctx) error {
	var in dto.FulfillmentRequest
	if err := bindAndValidate(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Receive(c.UserContext(), c.Params("id"), in.WarehouseID, GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// PDF godoc
// @Summary      Descargar orden de compra en PDF
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/pdf [get]
func (h *PurchaseOrderHandler) PDF(c *fiber.Ctx) error {
	id := c.Params("id")
	out, err := h.uc.RenderPDF(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="orden-compra-%s.pdf"`, id))
	return c.Send(out)
}

// UBL godoc
// @Summary      Exportar orden de compra como UBL 2.1 Order
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      application/xml
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/ubl [get]
func (h *PurchaseOrderHandler) UBL(c *fiber.Ctx) error {
	id := c.Params("id")
	out, err := h.uc.ExportUBL(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationXMLCharsetUTF8)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="orden-compra-%s.xml"`, id))
	return c.Send(out)
}

// SalesOrderHandler flujo de órdenes de venta (manager|admin).
type SalesOrderHandler struct {
	uc *orders.SalesOrderUseCase
}

// NewSalesOrderHandler construye el handler.
func NewSalesOrderHandler(uc *orders.SalesOrderUseCase) *SalesOrderHandler {
	return &SalesOrderHandler{uc: uc}
}

// Create godoc
// @Summary      Crear orden de venta
// @Description  cart=true la crea como CART; si no, AWAITING_PAYMENT.
// @Tags         sales-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSalesOrderRequest  true  "customer_id y líneas"
// @Success      201   {object}  dto.SalesOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/sales-orders [post]
func (h *SalesOrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSalesOrderRequest
	if err := bindAndValidate(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener orden de venta
// @Tags         sales-orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.SalesOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales-orders/{id} [get]
func (h *SalesOrderHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar órdenes de venta
// @Tags         sales-orders
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "CART, AWAITING_PAYMENT, PAID, DISPATCHED o CANCELLED"
// @Param        limit   query  int     false  "Límite"   default(20)
// @Param        offset  query  int     false  "Offset"   default(0)
// @Success      200  {object}  dto.SalesOrderListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/sales-orders [get]
func (h *SalesOrderHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), c.Query("status"), pageQuery(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Checkout godoc
// @Summary      Cerrar carrito (CART → AWAITING_PAYMENT)
// @Tags         sales-orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.SalesOrderResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sales-orders/{id}/checkout [post]
func (h *SalesOrderHandler) Checkout(c *fiber.Ctx) error {
	out, err := h.uc.Checkout(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Pay godoc
// @Summary      Registrar pago (AWAITING_PAYMENT → PAID)
// @Tags         sales-orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.SalesOrderResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sales-orders/{id}/pay [post]
func (h *SalesOrderHandler) Pay(c *fiber.Ctx) error {
	out, err := h.uc.MarkPaid(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Cancelar orden de venta
// @Tags         sales-orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.SalesOrderResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sales-orders/{id}/cancel [post]
func (h *SalesOrderHandler) Cancel(c *fiber.Ctx) error {
	out, err := h.uc.Cancel(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Dispatch godoc
// @Summary      Despachar orden de venta pagada
// @Description  Descuenta cada línea de la bodega indicada; si una línea no alcanza, no se descuenta nada.
// @Tags         sales-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID de la orden"
// @Param        body  body  dto.FulfillmentRequest  true  "warehouse_id"
// @Success      200   {object}  dto.SalesOrderResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales-orders/{id}/dispatch [post]
func (h *SalesOrderHandler) Dispatch(c *fiber.Ctx) error {
	var in dto.FulfillmentRequest
	if err := bindAndValidate(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Dispatch(c.UserContext(), c.Params("id"), in.WarehouseID, GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
