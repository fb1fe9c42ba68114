package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kirodsllc/inventario-contable/internal/application/costing"
	"github.com/kirodsllc/inventario-contable/internal/application/ledger"
	"github.com/kirodsllc/inventario-contable/internal/application/stockledger"
	"github.com/kirodsllc/inventario-contable/internal/domain/repository"
)

// Ensure TxRunner implementa los puertos transaccionales de los casos de uso.
var _ stockledger.TxRunner = (*TxRunner)(nil)
var _ ledger.PostingTxRunner = (*TxRunner)(nil)
var _ costing.ReceivingTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción con los repos del libro de stock y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	resRepo repository.StockReservationRepository,
	partRepo repository.PartRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewStockMovementRepository(tx), NewStockReservationRepository(tx), NewPartRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunPosting inicia una transacción con los repos contables (asientos).
func (r *TxRunner) RunPosting(ctx context.Context, fn func(
	accountRepo repository.AccountRepository,
	entryRepo repository.JournalEntryRepository,
	numbering repository.NumberingRunner,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewAccountRepository(tx), NewJournalEntryRepository(tx), savepointNumbering{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunReceiving inicia una transacción con todos los repos que toca una
// recepción de mercancía (stock + costos + contabilidad).
func (r *TxRunner) RunReceiving(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	resRepo repository.StockReservationRepository,
	partRepo repository.PartRepository,
	accountRepo repository.AccountRepository,
	entryRepo repository.JournalEntryRepository,
	numbering repository.NumberingRunner,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = fn(
		NewStockMovementRepository(tx),
		NewStockReservationRepository(tx),
		NewPartRepository(tx),
		NewAccountRepository(tx),
		NewJournalEntryRepository(tx),
		savepointNumbering{tx: tx},
	)
	if err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// savepointNumbering corre cada intento de numeración dentro de un savepoint
// (Begin sobre una tx pgx anida con SAVEPOINT). Una violación de unicidad del
// número de comprobante aborta la transacción en curso en PostgreSQL; con el
// savepoint el rollback del intento fallido deja la transacción externa
// utilizable para el siguiente intento.
type savepointNumbering struct {
	tx pgx.Tx
}

func (s savepointNumbering) RunNumbering(ctx context.Context, fn func(
	entryRepo repository.JournalEntryRepository,
	seqRepo repository.SequenceRepository,
) error) error {
	sp, err := s.tx.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin savepoint: %w", err)
	}
	if err := fn(NewJournalEntryRepository(sp), NewSequenceRepository(sp)); err != nil {
		_ = sp.Rollback(ctx)
		return err
	}
	if err := sp.Commit(ctx); err != nil {
		return fmt.Errorf("release savepoint: %w", err)
	}
	return nil
}

var _ repository.NumberingRunner = savepointNumbering{}
