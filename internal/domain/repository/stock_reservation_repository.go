package repository

import "github.com/kirodsllc/inventario-contable/internal/domain/entity"

// StockReservationRepository define el puerto de persistencia para reservas (DIP).
type StockReservationRepository interface {
	Create(reservation *entity.StockReservation) error
	// SumByPart suma las cantidades reservadas vigentes de un repuesto.
	SumByPart(partID string) (int64, error)
	// ReleaseByReferences elimina en bloque las reservas atadas a las
	// referencias indicadas (ej. órdenes de compra ya recibidas).
	ReleaseByReferences(referenceType string, referenceIDs []string) (int64, error)
	ListByPart(partID string) ([]*entity.StockReservation, error)
}
