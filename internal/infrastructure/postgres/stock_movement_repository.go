package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/kirodsllc/inventario-contable/internal/domain"
	"github.com/kirodsllc/inventario-contable/internal/domain/entity"
	"github.com/kirodsllc/inventario-contable/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

const movementColumns = `id, part_id, direction, quantity, store_id, rack_id, shelf_id, reference_type, reference_id, notes, created_at, created_by`

// StockMovementRepo implementación del libro de stock sobre PostgreSQL
// (usable con pool o tx). Las filas son append-only: no expone Update/Delete.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create persiste un movimiento de stock.
func (r *StockMovementRepo) Create(m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.PartID, m.Direction, m.Quantity,
		nullable(m.Location.StoreID), nullable(m.Location.RackID), nullable(m.Location.ShelfID),
		nullable(m.ReferenceType), nullable(m.ReferenceID), nullable(m.Notes),
		m.CreatedAt, nullable(m.CreatedBy),
	)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *StockMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE id = $1`
	m, err := scanMovement(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// Balance calcula Σin − Σout del repuesto en una sola consulta, con filtro
// opcional de ubicación. Puede ser negativo; no se recorta.
func (r *StockMovementRepo) Balance(partID string, filter repository.MovementFilter) (int64, error) {
	query := `
		SELECT COALESCE(SUM(CASE WHEN direction = 'in' THEN quantity ELSE -quantity END), 0)
		FROM stock_movements WHERE part_id = $1`
	args := []any{partID}
	pos := 2
	if filter.StoreID != "" {
		query += fmt.Sprintf(" AND store_id = $%d", pos)
		args = append(args, filter.StoreID)
		pos++
	}
	if filter.RackID != "" {
		query += fmt.Sprintf(" AND rack_id = $%d", pos)
		args = append(args, filter.RackID)
		pos++
	}
	if filter.ShelfID != "" {
		query += fmt.Sprintf(" AND shelf_id = $%d", pos)
		args = append(args, filter.ShelfID)
	}
	var balance int64
	if err := r.q.QueryRow(context.Background(), query, args...).Scan(&balance); err != nil {
		return 0, fmt.Errorf("stock balance: %w", err)
	}
	return balance, nil
}

// ListByPart lista movimientos de un repuesto en un rango de fechas.
func (r *StockMovementRepo) ListByPart(partID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE part_id = $1`
	args := []any{partID}
	pos := 2
	if from != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements by part: %w", err)
	}
	defer rows.Close()

	var list []*entity.StockMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// CreateCorrection inserta el evento de corrección y reasigna las etiquetas de
// ubicación del movimiento original. Solo metadatos: cantidad, dirección y
// repuesto no se tocan jamás.
func (r *StockMovementRepo) CreateCorrection(c *entity.MovementCorrection) error {
	insert := `
		INSERT INTO movement_corrections (id, movement_id, old_store_id, old_rack_id, old_shelf_id, new_store_id, new_rack_id, new_shelf_id, reason, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), insert,
		c.ID, c.MovementID,
		nullable(c.OldLocation.StoreID), nullable(c.OldLocation.RackID), nullable(c.OldLocation.ShelfID),
		nullable(c.NewLocation.StoreID), nullable(c.NewLocation.RackID), nullable(c.NewLocation.ShelfID),
		nullable(c.Reason), c.CreatedAt, nullable(c.CreatedBy),
	)
	if err != nil {
		return fmt.Errorf("create movement correction: %w", err)
	}

	update := `
		UPDATE stock_movements
		SET store_id = $1, rack_id = $2, shelf_id = $3
		WHERE id = $4`
	tag, err := r.q.Exec(context.Background(), update,
		nullable(c.NewLocation.StoreID), nullable(c.NewLocation.RackID), nullable(c.NewLocation.ShelfID),
		c.MovementID,
	)
	if err != nil {
		return fmt.Errorf("apply movement correction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanMovement(row pgx.Row) (*entity.StockMovement, error) {
	var m entity.StockMovement
	var storeID, rackID, shelfID, refType, refID, notes, createdBy *string
	err := row.Scan(
		&m.ID, &m.PartID, &m.Direction, &m.Quantity,
		&storeID, &rackID, &shelfID, &refType, &refID, &notes,
		&m.CreatedAt, &createdBy,
	)
	if err != nil {
		return nil, err
	}
	m.Location = entity.Location{
		StoreID: deref(storeID),
		RackID:  deref(rackID),
		ShelfID: deref(shelfID),
	}
	m.ReferenceType = deref(refType)
	m.ReferenceID = deref(refID)
	m.Notes = deref(notes)
	m.CreatedBy = deref(createdBy)
	return &m, nil
}
