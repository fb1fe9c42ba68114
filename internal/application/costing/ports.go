package costing

import (
	"context"

	"github.com/kirodsllc/inventario-contable/internal/domain/repository"
)

// ReceivingTxRunner ejecuta una función dentro de una transacción de BD con
// todos los repositorios que toca una recepción de mercancía: movimientos,
// reservas, repuestos, cuentas, asientos y secuencias. Las cuatro escrituras
// del evento (movimientos, liberación de reservas, costos, asiento) son una
// sola unidad atómica.
type ReceivingTxRunner interface {
	RunReceiving(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		resRepo repository.StockReservationRepository,
		partRepo repository.PartRepository,
		accountRepo repository.AccountRepository,
		entryRepo repository.JournalEntryRepository,
		numbering repository.NumberingRunner,
	) error) error
}
