package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/stockflow-api/internal/application/dto"
	"github.com/jhoicas/stockflow-api/internal/application/inventory"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
)

// InventoryHandler entradas, salidas, ajustes y consultas de saldos y kardex (protegido).
type InventoryHandler struct {
	stock *inventory.StockUseCase
	query *inventory.QueryUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(stock *inventory.StockUseCase, query *inventory.QueryUseCase) *InventoryHandler {
	return &InventoryHandler{stock: stock, query: query}
}

// Entry godoc
// @Summary      Registrar entrada de stock
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockMovementRequest  true  "product_id, warehouse_id, quantity, reason"
// @Success      201   {object}  dto.StockMutationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/entry [post]
func (h *InventoryHandler) Entry(c *fiber.Ctx) error {
	var in dto.StockMovementRequest
	if err := bindAndValidate(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.stock.Credit(c.UserContext(), inventory.StockMutation{
		ProductID: in.ProductID, WarehouseID: in.WarehouseID, Quantity: in.Quantity,
		ActorID: GetUserID(c), Reason: in.Reason,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Exit godoc
// @Summary      Registrar salida de stock
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockMovementRequest  true  "product_id, warehouse_id, quantity, reason"
// @Success      201   {object}  dto.StockMutationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/exit [post]
func (h *InventoryHandler) Exit(c *fiber.Ctx) error {
	var in dto.StockMovementRequest
	if err := bindAndValidate(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.stock.Debit(c.UserContext(), inventory.StockMutation{
		ProductID: in.ProductID, WarehouseID: in.WarehouseID, Quantity: in.Quantity,
		ActorID: GetUserID(c), Reason: in.Reason,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Adjustment godoc
// @Summary      Ajuste de inventario (admin)
// @Description  delta con signo; el saldo resultante no puede ser negativo.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockAdjustmentRequest  true  "product_id, warehouse_id, delta, reason"
// @Success      201   {object}  dto.StockMutationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/adjustment [post]
func (h *InventoryHandler) Adjustment(c *fiber.Ctx) error {
	var in dto.StockAdjustmentRequest
	if err := bindAndValidate(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.stock.Adjust(c.UserContext(), inventory.StockAdjustment{
		ProductID: in.ProductID, WarehouseID: in.WarehouseID, Delta: in.Delta,
		ActorID: GetUserID(c), Reason: in.Reason,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListStock godoc
// @Summary      Saldos por producto y bodega
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id    query  string  false  "ID de producto"
// @Param        warehouse_id  query  string  false  "ID de bodega"
// @Param        limit         query  int     false  "Límite"   default(20)
// @Param        offset        query  int     false  "Offset"   default(0)
// @Success      200  {object}  dto.StockListResponse
// @Router       /api/stock [get]
func (h *InventoryHandler) ListStock(c *fiber.Ctx) error {
	out, err := h.query.ListStock(c.UserContext(), repository.StockFilter{
		ProductID:   c.Query("product_id"),
		WarehouseID: c.Query("warehouse_id"),
	}, pageQuery(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListMovements godoc
// @Summary      Kardex
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id    query  string  false  "ID de producto"
// @Param        warehouse_id  query  string  false  "ID de bodega"
// @Param        kind          query  string  false  "ENTRY, EXIT o ADJUSTMENT"
// @Param        limit         query  int     false  "Límite"   default(20)
// @Param        offset        query  int     false  "Offset"   default(0)
// @Success      200  {object}  dto.StockMovementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	out, err := h.query.ListMovements(c.UserContext(), repository.MovementFilter{
		ProductID:   c.Query("product_id"),
		WarehouseID: c.Query("warehouse_id"),
		Kind:        c.Query("kind"),
	}, pageQuery(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// LowStockReport godoc
// @Summary      Reporte de stock bajo
// @Description  Pares producto/bodega con saldo en o por debajo del mínimo del producto.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  false  "Filtrar por bodega"
// @Success      200  {object}  dto.LowStockReportResponse
// @Router       /api/reports/low-stock [get]
func (h *InventoryHandler) LowStockReport(c *fiber.Ctx) error {
	out, err := h.query.LowStockReport(c.UserContext(), c.Query("warehouse_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
