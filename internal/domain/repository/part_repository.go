package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/kirodsllc/inventario-contable/internal/domain/entity"
)

// PartRepository define el puerto de persistencia para Part (DIP).
// PartNo no es único: ListByPartNo puede devolver varias filas.
type PartRepository interface {
	Create(part *entity.Part) error
	GetByID(id string) (*entity.Part, error)
	ListByPartNo(partNo string) ([]*entity.Part, error)
	ExistsPartNo(partNo string) (bool, error)
	Search(term string, limit, offset int) ([]*entity.Part, error)
	UpdateCost(partID string, cost decimal.Decimal, source, sourceRef string, at time.Time) error
}
