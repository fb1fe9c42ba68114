package postgres

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirodsllc/inventario-contable/internal/domain"
	"github.com/kirodsllc/inventario-contable/internal/domain/entity"
	"github.com/kirodsllc/inventario-contable/internal/domain/repository"
)

func TestStockMovementRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewStockMovementRepository(mock)
	now := time.Now()
	m := &entity.StockMovement{
		ID:        uuid.NewString(),
		PartID:    uuid.NewString(),
		Direction: entity.DirectionIn,
		Quantity:  50,
		Location: entity.Location{
			StoreID: "bodega-1",
			RackID:  "estante-3",
		},
		ReferenceType: entity.ReferencePurchaseOrder,
		ReferenceID:   "PO-2026-001",
		CreatedAt:     now,
		CreatedBy:     "operator-1",
	}

	query := `INSERT INTO stock_movements \(id, part_id, direction, quantity, store_id, rack_id, shelf_id, reference_type, reference_id, notes, created_at, created_by\)`

	// Los campos de ubicación vacíos viajan como NULL, no como cadena vacía.
	mock.ExpectExec(query).
		WithArgs(m.ID, m.PartID, m.Direction, m.Quantity,
			nullable("bodega-1"), nullable("estante-3"), (*string)(nil),
			nullable(entity.ReferencePurchaseOrder), nullable("PO-2026-001"), (*string)(nil),
			m.CreatedAt, nullable("operator-1")).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	assert.NoError(t, repo.Create(m))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStockMovementRepo_Balance(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewStockMovementRepository(mock)
	partID := uuid.NewString()

	t.Run("sin filtro", func(t *testing.T) {
		query := `SELECT COALESCE\(SUM\(CASE WHEN direction = 'in' THEN quantity ELSE -quantity END\), 0\)\s+FROM stock_movements WHERE part_id = \$1`
		mock.ExpectQuery(query).
			WithArgs(partID).
			WillReturnRows(pgxmock.NewRows([]string{"balance"}).AddRow(int64(30)))

		balance, err := repo.Balance(partID, repository.MovementFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(30), balance)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("filtrado por bodega y estante", func(t *testing.T) {
		query := `SELECT COALESCE\(SUM\(CASE WHEN direction = 'in' THEN quantity ELSE -quantity END\), 0\)\s+FROM stock_movements WHERE part_id = \$1 AND store_id = \$2 AND rack_id = \$3`
		mock.ExpectQuery(query).
			WithArgs(partID, "bodega-1", "estante-3").
			WillReturnRows(pgxmock.NewRows([]string{"balance"}).AddRow(int64(-5)))

		balance, err := repo.Balance(partID, repository.MovementFilter{StoreID: "bodega-1", RackID: "estante-3"})
		require.NoError(t, err)
		// El saldo puede ser negativo; no se recorta en la consulta.
		assert.Equal(t, int64(-5), balance)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestStockMovementRepo_CreateCorrection(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewStockMovementRepository(mock)
	now := time.Now()
	c := &entity.MovementCorrection{
		ID:          uuid.NewString(),
		MovementID:  uuid.NewString(),
		OldLocation: entity.Location{StoreID: "bodega-1"},
		NewLocation: entity.Location{StoreID: "bodega-2", RackID: "estante-1"},
		Reason:      "reubicación física",
		CreatedAt:   now,
		CreatedBy:   "operator-1",
	}

	insert := `INSERT INTO movement_corrections`
	update := `UPDATE stock_movements\s+SET store_id = \$1, rack_id = \$2, shelf_id = \$3\s+WHERE id = \$4`

	t.Run("éxito", func(t *testing.T) {
		mock.ExpectExec(insert).
			WithArgs(c.ID, c.MovementID,
				nullable("bodega-1"), (*string)(nil), (*string)(nil),
				nullable("bodega-2"), nullable("estante-1"), (*string)(nil),
				nullable("reubicación física"), c.CreatedAt, nullable("operator-1")).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectExec(update).
			WithArgs(nullable("bodega-2"), nullable("estante-1"), (*string)(nil), c.MovementID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		assert.NoError(t, repo.CreateCorrection(c))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("movimiento inexistente", func(t *testing.T) {
		mock.ExpectExec(insert).
			WithArgs(c.ID, c.MovementID,
				nullable("bodega-1"), (*string)(nil), (*string)(nil),
				nullable("bodega-2"), nullable("estante-1"), (*string)(nil),
				nullable("reubicación física"), c.CreatedAt, nullable("operator-1")).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectExec(update).
			WithArgs(nullable("bodega-2"), nullable("estante-1"), (*string)(nil), c.MovementID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		assert.ErrorIs(t, repo.CreateCorrection(c), domain.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
