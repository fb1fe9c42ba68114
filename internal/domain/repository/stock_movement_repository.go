package repository

import (
	"time"

	"github.com/kirodsllc/inventario-contable/internal/domain/entity"
)

// MovementFilter filtra consultas de balance/historial por ubicación opcional.
type MovementFilter struct {
	StoreID string
	RackID  string
	ShelfID string
}

// StockMovementRepository define el puerto de persistencia del libro de stock (DIP).
// Las filas son append-only: no hay Update ni Delete de movimientos; las
// correcciones de ubicación entran como evento aparte (CreateCorrection).
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	GetByID(id string) (*entity.StockMovement, error)
	// Balance devuelve Σin − Σout del repuesto (puede ser negativo, no se recorta).
	Balance(partID string, filter MovementFilter) (int64, error)
	ListByPart(partID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
	// CreateCorrection inserta el evento de corrección y actualiza solo las
	// etiquetas de ubicación del movimiento original, en una misma operación lógica.
	CreateCorrection(correction *entity.MovementCorrection) error
}
