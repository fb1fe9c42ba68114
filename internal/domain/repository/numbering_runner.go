package repository

import "context"

// NumberingRunner ejecuta un intento de numeración de comprobante como
// sub-transacción de la transacción que lo envuelve. Si el INSERT del asiento
// choca con un número ya usado, el rollback del intento no aborta la
// transacción externa y el motor puede reintentar con el número siguiente.
type NumberingRunner interface {
	RunNumbering(ctx context.Context, fn func(
		entryRepo JournalEntryRepository,
		seqRepo SequenceRepository,
	) error) error
}
