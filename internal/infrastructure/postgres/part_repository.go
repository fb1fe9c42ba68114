package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/kirodsllc/inventario-contable/internal/domain"
	"github.com/kirodsllc/inventario-contable/internal/domain/entity"
	"github.com/kirodsllc/inventario-contable/internal/domain/repository"
)

var _ repository.PartRepository = (*PartRepo)(nil)

const partColumns = `id, part_no, name, description, cost, cost_source, cost_source_ref, cost_updated_at, created_at, updated_at`

// PartRepo implementación de PartRepository sobre PostgreSQL (usable con pool o tx).
type PartRepo struct {
	q Querier
}

// NewPartRepository construye el adaptador de repuestos. Pasar pool o tx (Querier).
func NewPartRepository(q Querier) *PartRepo {
	return &PartRepo{q: q}
}

// Create persiste un repuesto. part_no NO tiene constraint único: los
// duplicados son válidos y los resuelve el selector canónico.
func (r *PartRepo) Create(part *entity.Part) error {
	query := `
		INSERT INTO parts (` + partColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		part.ID, part.PartNo, part.Name, part.Description, part.Cost,
		nullable(part.CostSource), nullable(part.CostSourceRef), part.CostUpdatedAt,
		part.CreatedAt, part.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert part: %w", err)
	}
	return nil
}

// GetByID obtiene un repuesto por ID.
func (r *PartRepo) GetByID(id string) (*entity.Part, error) {
	query := `SELECT ` + partColumns + ` FROM parts WHERE id = $1`
	part, err := scanPart(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get part: %w", err)
	}
	return part, nil
}

// ListByPartNo lista todas las filas que comparten un número de parte.
func (r *PartRepo) ListByPartNo(partNo string) ([]*entity.Part, error) {
	query := `SELECT ` + partColumns + ` FROM parts WHERE part_no = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, partNo)
	if err != nil {
		return nil, fmt.Errorf("list parts by part_no: %w", err)
	}
	defer rows.Close()
	return collectParts(rows)
}

// ExistsPartNo indica si existe al menos una fila con ese número de parte exacto.
func (r *PartRepo) ExistsPartNo(partNo string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(context.Background(),
		`SELECT EXISTS (SELECT 1 FROM parts WHERE part_no = $1)`, partNo).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists part_no: %w", err)
	}
	return exists, nil
}

// Search búsqueda difusa multi-campo (número, nombre, descripción).
func (r *PartRepo) Search(term string, limit, offset int) ([]*entity.Part, error) {
	query := `
		SELECT ` + partColumns + ` FROM parts
		WHERE part_no ILIKE '%' || $1 || '%'
		   OR name ILIKE '%' || $1 || '%'
		   OR description ILIKE '%' || $1 || '%'
		ORDER BY part_no, id
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, term, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("search parts: %w", err)
	}
	defer rows.Close()
	return collectParts(rows)
}

// UpdateCost sobreescribe el costo autoritativo con su procedencia.
// Última recepción gana: no promedia con el costo anterior.
func (r *PartRepo) UpdateCost(partID string, cost decimal.Decimal, source, sourceRef string, at time.Time) error {
	query := `
		UPDATE parts
		SET cost = $1, cost_source = $2, cost_source_ref = $3, cost_updated_at = $4, updated_at = $4
		WHERE id = $5`
	tag, err := r.q.Exec(context.Background(), query, cost, source, nullable(sourceRef), at, partID)
	if err != nil {
		return fmt.Errorf("update part cost: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanPart(row pgx.Row) (*entity.Part, error) {
	var p entity.Part
	var costSource, costSourceRef, description *string
	err := row.Scan(
		&p.ID, &p.PartNo, &p.Name, &description, &p.Cost,
		&costSource, &costSourceRef, &p.CostUpdatedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if description != nil {
		p.Description = *description
	}
	if costSource != nil {
		p.CostSource = *costSource
	}
	if costSourceRef != nil {
		p.CostSourceRef = *costSourceRef
	}
	return &p, nil
}

func collectParts(rows pgx.Rows) ([]*entity.Part, error) {
	var list []*entity.Part
	for rows.Next() {
		p, err := scanPart(rows)
		if err != nil {
			return nil, fmt.Errorf("scan part: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
