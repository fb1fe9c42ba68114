package entity

import "time"

// StockReservation es un apartado de planeación sobre un repuesto.
// No descuenta del balance del libro de stock: solo se resta al calcular la
// cantidad disponible de exhibición (con piso en cero). No hay verificación de
// capacidad al crearla (es una señal informativa, no una retención real).
type StockReservation struct {
	ID            string
	PartID        string
	Quantity      int64 // siempre positivo
	ReferenceType string
	ReferenceID   string
	Notes         string
	CreatedAt     time.Time
	CreatedBy     string
}
