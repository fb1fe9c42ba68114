package postgres

import (
	"context"
	"fmt"

	"github.com/kirodsllc/inventario-contable/internal/domain/entity"
	"github.com/kirodsllc/inventario-contable/internal/domain/repository"
)

var _ repository.LocationRepository = (*LocationRepo)(nil)

// LocationRepo directorio de solo lectura de ubicaciones físicas.
type LocationRepo struct {
	q Querier
}

func NewLocationRepository(q Querier) *LocationRepo {
	return &LocationRepo{q: q}
}

func (r *LocationRepo) ListStores() ([]*entity.Store, error) {
	query := `SELECT id, code, name, created_at FROM stores ORDER BY code`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list stores: %w", err)
	}
	defer rows.Close()

	var stores []*entity.Store
	for rows.Next() {
		s := &entity.Store{}
		if err := rows.Scan(&s.ID, &s.Code, &s.Name, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan store: %w", err)
		}
		stores = append(stores, s)
	}
	return stores, rows.Err()
}

func (r *LocationRepo) StoreExists(storeID string) (bool, error) {
	return r.exists("stores", storeID)
}

func (r *LocationRepo) RackExists(rackID string) (bool, error) {
	return r.exists("racks", rackID)
}

func (r *LocationRepo) ShelfExists(shelfID string) (bool, error) {
	return r.exists("shelves", shelfID)
}

func (r *LocationRepo) exists(table, id string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM %s WHERE id = $1)`, table)
	var ok bool
	if err := r.q.QueryRow(context.Background(), query, id).Scan(&ok); err != nil {
		return false, fmt.Errorf("exists %s: %w", table, err)
	}
	return ok, nil
}
