package postgres

import (
	"context"
	"fmt"

	"github.com/kirodsllc/inventario-contable/internal/domain/entity"
	"github.com/kirodsllc/inventario-contable/internal/domain/repository"
)

var _ repository.StockReservationRepository = (*StockReservationRepo)(nil)

// StockReservationRepo implementación de reservas sobre PostgreSQL (usable con pool o tx).
type StockReservationRepo struct {
	q Querier
}

// NewStockReservationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockReservationRepository(q Querier) *StockReservationRepo {
	return &StockReservationRepo{q: q}
}

// Create persiste una reserva de planeación.
func (r *StockReservationRepo) Create(res *entity.StockReservation) error {
	query := `
		INSERT INTO stock_reservations (id, part_id, quantity, reference_type, reference_id, notes, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		res.ID, res.PartID, res.Quantity,
		nullable(res.ReferenceType), nullable(res.ReferenceID), nullable(res.Notes),
		res.CreatedAt, nullable(res.CreatedBy),
	)
	if err != nil {
		return fmt.Errorf("create reservation: %w", err)
	}
	return nil
}

// SumByPart suma las cantidades reservadas vigentes de un repuesto.
func (r *StockReservationRepo) SumByPart(partID string) (int64, error) {
	var total int64
	err := r.q.QueryRow(context.Background(),
		`SELECT COALESCE(SUM(quantity), 0) FROM stock_reservations WHERE part_id = $1`, partID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum reservations: %w", err)
	}
	return total, nil
}

// ReleaseByReferences elimina en bloque las reservas atadas a las referencias
// dadas. Devuelve cuántas filas se liberaron.
func (r *StockReservationRepo) ReleaseByReferences(referenceType string, referenceIDs []string) (int64, error) {
	query := `DELETE FROM stock_reservations WHERE reference_type = $1 AND reference_id = ANY($2)`
	tag, err := r.q.Exec(context.Background(), query, referenceType, referenceIDs)
	if err != nil {
		return 0, fmt.Errorf("release reservations: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ListByPart lista las reservas vigentes de un repuesto.
func (r *StockReservationRepo) ListByPart(partID string) ([]*entity.StockReservation, error) {
	query := `
		SELECT id, part_id, quantity, reference_type, reference_id, notes, created_at, created_by
		FROM stock_reservations WHERE part_id = $1 ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, partID)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	defer rows.Close()

	var list []*entity.StockReservation
	for rows.Next() {
		var res entity.StockReservation
		var refType, refID, notes, createdBy *string
		if err := rows.Scan(&res.ID, &res.PartID, &res.Quantity, &refType, &refID, &notes, &res.CreatedAt, &createdBy); err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		res.ReferenceType = deref(refType)
		res.ReferenceID = deref(refID)
		res.Notes = deref(notes)
		res.CreatedBy = deref(createdBy)
		list = append(list, &res)
	}
	return list, rows.Err()
}
