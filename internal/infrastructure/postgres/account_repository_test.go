package postgres

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirodsllc/inventario-contable/internal/domain"
	"github.com/kirodsllc/inventario-contable/internal/domain/entity"
)

func TestAccountRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAccountRepository(mock)
	now := time.Now()
	acc := &entity.Account{
		ID:             uuid.NewString(),
		Code:           "1435",
		Name:           "Inventario de repuestos",
		Type:           entity.AccountTypeAsset,
		CurrentBalance: decimal.Zero,
		Version:        0,
		Active:         true,
		CreatedAt:      now,
	}

	query := `INSERT INTO accounts \(id, code, name, type, current_balance, version, active, created_at, updated_at\)`

	t.Run("éxito", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(acc.ID, acc.Code, acc.Name, acc.Type, acc.CurrentBalance,
				acc.Version, acc.Active, acc.CreatedAt, acc.UpdatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		assert.NoError(t, repo.Create(acc))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("código duplicado", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(acc.ID, acc.Code, acc.Name, acc.Type, acc.CurrentBalance,
				acc.Version, acc.Active, acc.CreatedAt, acc.UpdatedAt).
			WillReturnError(&pgconnUniqueViolation)

		err := repo.Create(acc)
		assert.ErrorIs(t, err, domain.ErrDuplicate)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAccountRepo_GetByCode(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAccountRepository(mock)
	now := time.Now()
	accID := uuid.NewString()

	query := `SELECT id, code, name, type, current_balance, version, active, created_at, updated_at FROM accounts WHERE code = \$1`

	t.Run("éxito", func(t *testing.T) {
		rows := pgxmock.NewRows([]string{"id", "code", "name", "type", "current_balance", "version", "active", "created_at", "updated_at"}).
			AddRow(accID, "2205", "Proveedores nacionales", entity.AccountTypeLiability,
				decimal.RequireFromString("115.00"), int64(3), true, now, (*time.Time)(nil))
		mock.ExpectQuery(query).WithArgs("2205").WillReturnRows(rows)

		acc, err := repo.GetByCode("2205")
		require.NoError(t, err)
		require.NotNil(t, acc)
		assert.Equal(t, accID, acc.ID)
		assert.True(t, acc.CurrentBalance.Equal(decimal.RequireFromString("115.00")))
		assert.Equal(t, int64(3), acc.Version)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no existe devuelve nil", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs("9999").WillReturnError(pgx.ErrNoRows)

		acc, err := repo.GetByCode("9999")
		assert.NoError(t, err)
		assert.Nil(t, acc)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAccountRepo_ApplyDelta(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAccountRepository(mock)
	accID := uuid.NewString()
	delta := decimal.RequireFromString("115.00")

	// El incremento va en una sola sentencia: nunca leer-modificar-escribir.
	query := `UPDATE accounts\s+SET current_balance = current_balance \+ \$1, version = version \+ 1, updated_at = now\(\)\s+WHERE id = \$2`

	t.Run("éxito", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(delta, accID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		assert.NoError(t, repo.ApplyDelta(accID, delta))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("cuenta inexistente", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(delta, accID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		assert.ErrorIs(t, repo.ApplyDelta(accID, delta), domain.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error de base de datos", func(t *testing.T) {
		dbErr := errors.New("connection reset")
		mock.ExpectExec(query).
			WithArgs(delta, accID).
			WillReturnError(dbErr)

		err := repo.ApplyDelta(accID, delta)
		assert.ErrorIs(t, err, dbErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
