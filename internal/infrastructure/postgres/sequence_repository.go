package postgres

import (
	"context"
	"fmt"

	"github.com/kirodsllc/inventario-contable/internal/domain/repository"
)

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// SequenceRepo contador monotónico de numeración de comprobantes por tipo.
type SequenceRepo struct {
	q Querier
}

// NewSequenceRepository construye el asignador de secuencias. Pasar pool o tx (Querier).
func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

// Next devuelve el siguiente número del tipo en una sola sentencia atómica:
// no hay ventana leer-luego-escribir entre escritores concurrentes.
func (r *SequenceRepo) Next(entryType string) (int64, error) {
	query := `
		INSERT INTO voucher_sequences (entry_type, last_number)
		VALUES ($1, 1)
		ON CONFLICT (entry_type)
		DO UPDATE SET last_number = voucher_sequences.last_number + 1
		RETURNING last_number`
	var n int64
	if err := r.q.QueryRow(context.Background(), query, entryType).Scan(&n); err != nil {
		return 0, fmt.Errorf("next sequence number: %w", err)
	}
	return n, nil
}
