package entity

import "time"

// Direcciones de movimiento de stock.
const (
	DirectionIn  = "in"  // entrada
	DirectionOut = "out" // salida
)

// Tipos de referencia de negocio que originan movimientos.
const (
	ReferencePurchaseOrder = "PURCHASE_ORDER"
	ReferenceAdjustment    = "ADJUSTMENT"
	ReferenceManual        = "MANUAL"
)

// StockMovement es una fila del libro de stock (append-only).
// PartID, Direction y Quantity son inmutables después de creados; la ubicación
// puede corregirse después mediante un MovementCorrection (nunca in-place sin evento).
type StockMovement struct {
	ID            string
	PartID        string
	Direction     string // in, out
	Quantity      int64  // siempre positivo; el signo lo da Direction
	Location      Location
	ReferenceType string
	ReferenceID   string
	Notes         string
	CreatedAt     time.Time
	CreatedBy     string
}

// Location etiqueta opcional bodega/estante/repisa de un movimiento.
type Location struct {
	StoreID string
	RackID  string
	ShelfID string
}

// IsZero indica si la ubicación no tiene ninguna etiqueta.
func (l Location) IsZero() bool {
	return l.StoreID == "" && l.RackID == "" && l.ShelfID == ""
}

// MovementCorrection es el evento de seguimiento que corrige la ubicación de un
// movimiento histórico, referenciando al original. Solo metadatos no financieros:
// cantidad, dirección y repuesto quedan fuera de su alcance.
type MovementCorrection struct {
	ID          string
	MovementID  string
	OldLocation Location
	NewLocation Location
	Reason      string
	CreatedAt   time.Time
	CreatedBy   string
}
