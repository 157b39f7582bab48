package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrInvalidState       = errors.New("transición de estado no permitida")
)

// InsufficientStockError detalla qué producto no alcanzó a cubrir una salida.
// errors.Is(err, ErrInsufficientStock) sigue funcionando.
type InsufficientStockError struct {
	ProductID   string
	ProductName string
	Available   int64
	Requested   int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para el producto %s: disponible %d, solicitado %d",
		e.ProductName, e.Available, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// LineError indica la línea de una orden que hizo fallar la operación completa.
type LineError struct {
	Line        int // 1-based
	ProductID   string
	ProductName string
	Err         error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("línea %d (%s): %v", e.Line, e.ProductName, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }

// InvalidInput envuelve ErrInvalidInput con un detalle legible.
func InvalidInput(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, msg)
}

// InvalidState envuelve ErrInvalidState con un detalle legible.
func InvalidState(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidState, msg)
}
