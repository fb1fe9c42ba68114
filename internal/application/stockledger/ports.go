package stockledger

import (
	"context"

	"github.com/kirodsllc/inventario-contable/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el libro de stock.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		resRepo repository.StockReservationRepository,
		partRepo repository.PartRepository,
	) error) error
}
