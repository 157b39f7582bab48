package entity

import "time"

// MovementKind tipo de movimiento del kardex.
type MovementKind string

const (
	MovementEntry      MovementKind = "ENTRY"
	MovementExit       MovementKind = "EXIT"
	MovementAdjustment MovementKind = "ADJUSTMENT"
)

// Valid indica si el tipo es uno de los conocidos.
func (k MovementKind) Valid() bool {
	switch k {
	case MovementEntry, MovementExit, MovementAdjustment:
		return true
	}
	return false
}

// StockMovement registro inmutable de un cambio de saldo. Nunca se actualiza ni se elimina.
type StockMovement struct {
	ID          string
	ProductID   string
	WarehouseID string
	Quantity    int64 // delta: positivo entrada, negativo salida
	Kind        MovementKind
	Reason      string
	ActorID     string // UserID
	CreatedAt   time.Time
}
