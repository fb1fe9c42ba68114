package dto

import "time"

// LocationDTO etiquetas opcionales de ubicación de un movimiento.
type LocationDTO struct {
	StoreID string `json:"store_id,omitempty"`
	RackID  string `json:"rack_id,omitempty"`
	ShelfID string `json:"shelf_id,omitempty"`
}

// RecordMovementRequest body para POST /api/stock/movements.
type RecordMovementRequest struct {
	PartID        string      `json:"part_id"`
	Direction     string      `json:"direction"` // in | out
	Quantity      int64       `json:"quantity"`
	Location      LocationDTO `json:"location"`
	ReferenceType string      `json:"reference_type,omitempty"`
	ReferenceID   string      `json:"reference_id,omitempty"`
	Notes         string      `json:"notes,omitempty"`
}

// MovementResponse movimiento del libro de stock.
type MovementResponse struct {
	ID            string      `json:"id"`
	PartID        string      `json:"part_id"`
	Direction     string      `json:"direction"`
	Quantity      int64       `json:"quantity"`
	Location      LocationDTO `json:"location"`
	ReferenceType string      `json:"reference_type,omitempty"`
	ReferenceID   string      `json:"reference_id,omitempty"`
	Notes         string      `json:"notes,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
}

// BalanceResponse balance derivado del libro (puede ser negativo).
type BalanceResponse struct {
	PartID    string `json:"part_id"`
	Balance   int64  `json:"balance"`
	Available *int64 `json:"available,omitempty"`
}

// ReserveRequest body para POST /api/stock/reservations.
type ReserveRequest struct {
	PartID        string `json:"part_id"`
	Quantity      int64  `json:"quantity"`
	ReferenceType string `json:"reference_type,omitempty"`
	ReferenceID   string `json:"reference_id,omitempty"`
	Notes         string `json:"notes,omitempty"`
}

// ReleaseReservationsRequest body para POST /api/stock/reservations/release.
type ReleaseReservationsRequest struct {
	ReferenceType string   `json:"reference_type"`
	ReferenceIDs  []string `json:"reference_ids"`
}

// CorrectLocationRequest body para POST /api/stock/movements/:id/location-correction.
type CorrectLocationRequest struct {
	NewLocation LocationDTO `json:"new_location"`
	Reason      string      `json:"reason,omitempty"`
}
