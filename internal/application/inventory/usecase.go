package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/stockflow-api/internal/application/dto"
	"github.com/jhoicas/stockflow-api/internal/domain"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
)

// Motivos por defecto de los movimientos manuales.
const (
	DefaultEntryReason = "Entrada manual"
	DefaultExitReason  = "Salida manual"
)

// StockMutation entrada para Credit/Debit. Quantity siempre positiva; el signo lo pone la operación.
type StockMutation struct {
	ProductID   string
	WarehouseID string
	Quantity    int64
	ActorID     string
	Reason      string
}

// StockAdjustment entrada para Adjust. Delta con signo y distinto de cero.
type StockAdjustment struct {
	ProductID   string
	WarehouseID string
	Delta       int64
	ActorID     string
	Reason      string
}

// MutationResult estado después de aplicar un movimiento dentro de la transacción.
// LowStock es nil si el saldo quedó por encima del mínimo del producto.
type MutationResult struct {
	Stock    *entity.Stock
	Movement *entity.StockMovement
	LowStock *LowStockEvent
}

// StockUseCase es el único punto que modifica saldos: cada cambio de saldo se escribe junto
// con su movimiento en el kardex, en la misma transacción y con la fila bloqueada (SELECT FOR UPDATE).
type StockUseCase struct {
	txRunner TxRunner
	notifier LowStockNotifier
	now      func() time.Time
}

// NewStockUseCase construye el caso de uso. notifier puede ser nil.
func NewStockUseCase(txRunner TxRunner, notifier LowStockNotifier) *StockUseCase {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &StockUseCase{txRunner: txRunner, notifier: notifier, now: time.Now}
}

// Credit suma Quantity al saldo del par (lo crea en 0 si no existe) y registra una ENTRY.
func (uc *StockUseCase) Credit(ctx context.Context, in StockMutation) (*dto.StockMutationResponse, error) {
	if err := validateMutation(in); err != nil {
		return nil, err
	}
	if in.Reason == "" {
		in.Reason = DefaultEntryReason
	}
	var res *MutationResult
	err := uc.txRunner.Run(ctx, func(repos Repos) error {
		var err error
		res, err = uc.CreditInTx(ctx, repos, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.Notify(ctx, res.LowStock)
	return toMutationResponse(res, "Entrada realizada con éxito"), nil
}

// Debit resta Quantity del saldo existente y registra una EXIT. Sin saldo previo devuelve
// ErrNotFound; con saldo menor al solicitado devuelve *domain.InsufficientStockError sin cambiar nada.
func (uc *StockUseCase) Debit(ctx context.Context, in StockMutation) (*dto.StockMutationResponse, error) {
	if err := validateMutation(in); err != nil {
		return nil, err
	}
	if in.Reason == "" {
		in.Reason = DefaultExitReason
	}
	var res *MutationResult
	err := uc.txRunner.Run(ctx, func(repos Repos) error {
		var err error
		res, err = uc.DebitInTx(ctx, repos, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.Notify(ctx, res.LowStock)
	return toMutationResponse(res, "Salida realizada con éxito"), nil
}

// Adjust aplica una corrección con signo (conteo físico, merma) y registra un ADJUSTMENT.
func (uc *StockUseCase) Adjust(ctx context.Context, in StockAdjustment) (*dto.StockMutationResponse, error) {
	if in.ProductID == "" || in.WarehouseID == "" {
		return nil, domain.InvalidInput("product_id y warehouse_id son requeridos")
	}
	if in.Delta == 0 {
		return nil, domain.InvalidInput("el ajuste debe ser distinto de cero")
	}
	if in.Reason == "" {
		return nil, domain.InvalidInput("el motivo del ajuste es requerido")
	}
	var res *MutationResult
	err := uc.txRunner.Run(ctx, func(repos Repos) error {
		product, warehouse, err := loadPair(ctx, repos, in.ProductID, in.WarehouseID)
		if err != nil {
			return err
		}
		if err := repos.Stock.EnsureExists(ctx, in.ProductID, in.WarehouseID); err != nil {
			return err
		}
		stock, err := repos.Stock.GetForUpdate(ctx, in.ProductID, in.WarehouseID)
		if err != nil {
			return err
		}
		res, err = uc.apply(ctx, repos, product, warehouse, stock, in.Delta, entity.MovementAdjustment, in.ActorID, in.Reason)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.Notify(ctx, res.LowStock)
	return toMutationResponse(res, "Ajuste realizado con éxito"), nil
}

// CreditInTx ejecuta una entrada con los repositorios de la transacción del caller.
// No notifica: el caller debe llamar Notify después del commit.
func (uc *StockUseCase) CreditInTx(ctx context.Context, repos Repos, in StockMutation) (*MutationResult, error) {
	if err := validateMutation(in); err != nil {
		return nil, err
	}
	product, warehouse, err := loadPair(ctx, repos, in.ProductID, in.WarehouseID)
	if err != nil {
		return nil, err
	}
	// Crear primero y luego bloquear: dos entradas concurrentes sobre un par nuevo también se serializan.
	if err := repos.Stock.EnsureExists(ctx, in.ProductID, in.WarehouseID); err != nil {
		return nil, err
	}
	stock, err := repos.Stock.GetForUpdate(ctx, in.ProductID, in.WarehouseID)
	if err != nil {
		return nil, err
	}
	return uc.apply(ctx, repos, product, warehouse, stock, in.Quantity, entity.MovementEntry, in.ActorID, in.Reason)
}

// DebitInTx ejecuta una salida con los repositorios de la transacción del caller.
// No notifica: el caller debe llamar Notify después del commit.
func (uc *StockUseCase) DebitInTx(ctx context.Context, repos Repos, in StockMutation) (*MutationResult, error) {
	if err := validateMutation(in); err != nil {
		return nil, err
	}
	product, warehouse, err := loadPair(ctx, repos, in.ProductID, in.WarehouseID)
	if err != nil {
		return nil, err
	}
	stock, err := repos.Stock.GetForUpdate(ctx, in.ProductID, in.WarehouseID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: el producto %s no existe en el stock de la bodega %s",
				domain.ErrNotFound, product.Name, warehouse.Name)
		}
		return nil, err
	}
	if stock.Quantity < in.Quantity {
		return nil, &domain.InsufficientStockError{
			ProductID:   product.ID,
			ProductName: product.Name,
			Available:   stock.Quantity,
			Requested:   in.Quantity,
		}
	}
	return uc.apply(ctx, repos, product, warehouse, stock, -in.Quantity, entity.MovementExit, in.ActorID, in.Reason)
}

// Notify entrega los avisos de stock bajo. Llamar sólo después del commit.
func (uc *StockUseCase) Notify(ctx context.Context, events ...*LowStockEvent) {
	// El aviso sobrevive a la cancelación del request que lo originó.
	ctx = context.WithoutCancel(ctx)
	for _, ev := range events {
		if ev == nil {
			continue
		}
		uc.notifier.NotifyLowStock(ctx, *ev)
	}
}

func (uc *StockUseCase) apply(
	ctx context.Context,
	repos Repos,
	product *entity.Product,
	warehouse *entity.Warehouse,
	stock *entity.Stock,
	delta int64,
	kind entity.MovementKind,
	actorID, reason string,
) (*MutationResult, error) {
	now := uc.now()
	stock.Quantity += delta
	if stock.Quantity < 0 {
		return nil, &domain.InsufficientStockError{
			ProductID:   product.ID,
			ProductName: product.Name,
			Available:   stock.Quantity - delta,
			Requested:   -delta,
		}
	}
	stock.UpdatedAt = now
	if err := repos.Stock.Update(ctx, stock); err != nil {
		return nil, err
	}
	mov := &entity.StockMovement{
		ID:          uuid.New().String(),
		ProductID:   product.ID,
		WarehouseID: warehouse.ID,
		Quantity:    delta,
		Kind:        kind,
		Reason:      reason,
		ActorID:     actorID,
		CreatedAt:   now,
	}
	if err := repos.Movements.Create(ctx, mov); err != nil {
		return nil, err
	}
	res := &MutationResult{Stock: stock, Movement: mov}
	if product.IsLowStock(stock.Quantity) {
		res.LowStock = &LowStockEvent{
			ProductID:     product.ID,
			ProductName:   product.Name,
			ProductSKU:    product.SKU,
			Quantity:      stock.Quantity,
			MinStock:      product.MinStock,
			WarehouseID:   warehouse.ID,
			WarehouseName: warehouse.Name,
		}
	}
	return res, nil
}

func validateMutation(in StockMutation) error {
	if in.ProductID == "" || in.WarehouseID == "" {
		return domain.InvalidInput("product_id y warehouse_id son requeridos")
	}
	if in.Quantity <= 0 {
		return domain.InvalidInput("la cantidad debe ser positiva")
	}
	return nil
}

func loadPair(ctx context.Context, repos Repos, productID, warehouseID string) (*entity.Product, *entity.Warehouse, error) {
	product, err := repos.Products.GetByID(ctx, productID)
	if err != nil {
		return nil, nil, err
	}
	if product == nil {
		return nil, nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
	}
	warehouse, err := repos.Warehouses.GetByID(ctx, warehouseID)
	if err != nil {
		return nil, nil, err
	}
	if warehouse == nil {
		return nil, nil, fmt.Errorf("%w: bodega %s", domain.ErrNotFound, warehouseID)
	}
	return product, warehouse, nil
}

func toMutationResponse(res *MutationResult, msg string) *dto.StockMutationResponse {
	return &dto.StockMutationResponse{
		ProductID:   res.Stock.ProductID,
		WarehouseID: res.Stock.WarehouseID,
		NewQuantity: res.Stock.Quantity,
		MovementID:  res.Movement.ID,
		Message:     msg,
	}
}
