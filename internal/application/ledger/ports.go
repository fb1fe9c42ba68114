package ledger

import (
	"context"

	"github.com/kirodsllc/inventario-contable/internal/domain/repository"
)

// PostingTxRunner ejecuta una función dentro de una transacción de BD con los
// repositorios contables atados a esa tx. Todas las mutaciones de un asiento
// (cabecera, líneas e incrementos de saldo) se aplican o ninguna. El
// NumberingRunner corre cada intento de numeración como sub-transacción para
// que una colisión de número no aborte la transacción externa.
type PostingTxRunner interface {
	RunPosting(ctx context.Context, fn func(
		accountRepo repository.AccountRepository,
		entryRepo repository.JournalEntryRepository,
		numbering repository.NumberingRunner,
	) error) error
}
