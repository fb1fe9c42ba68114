package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/kirodsllc/inventario-contable/internal/domain"
	"github.com/kirodsllc/inventario-contable/internal/domain/entity"
	"github.com/kirodsllc/inventario-contable/internal/domain/repository"
)

var _ repository.AccountRepository = (*AccountRepo)(nil)

const accountColumns = `id, code, name, type, current_balance, version, active, created_at, updated_at`

// AccountRepo implementación del plan de cuentas sobre PostgreSQL (usable con pool o tx).
type AccountRepo struct {
	q Querier
}

// NewAccountRepository construye el adaptador de cuentas. Pasar pool o tx (Querier).
func NewAccountRepository(q Querier) *AccountRepo {
	return &AccountRepo{q: q}
}

// Create persiste una cuenta. Código duplicado devuelve domain.ErrDuplicate.
func (r *AccountRepo) Create(acc *entity.Account) error {
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		acc.ID, acc.Code, acc.Name, acc.Type, acc.CurrentBalance,
		acc.Version, acc.Active, acc.CreatedAt, acc.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// GetByID obtiene una cuenta por ID.
func (r *AccountRepo) GetByID(id string) (*entity.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return r.getOne(query, id)
}

// GetByCode obtiene una cuenta por código contable.
func (r *AccountRepo) GetByCode(code string) (*entity.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE code = $1`
	return r.getOne(query, code)
}

// List lista cuentas ordenadas por código.
func (r *AccountRepo) List(limit, offset int) ([]*entity.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY code LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var list []*entity.Account
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		list = append(list, acc)
	}
	return list, rows.Err()
}

// ApplyDelta incrementa el saldo materializado en una sola sentencia atómica
// (balance = balance + delta) y sube el contador de versión. Posteos
// concurrentes a la misma cuenta nunca pierden una actualización.
func (r *AccountRepo) ApplyDelta(accountID string, delta decimal.Decimal) error {
	query := `
		UPDATE accounts
		SET current_balance = current_balance + $1, version = version + 1, updated_at = now()
		WHERE id = $2`
	tag, err := r.q.Exec(context.Background(), query, delta, accountID)
	if err != nil {
		return fmt.Errorf("apply balance delta: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *AccountRepo) getOne(query string, arg any) (*entity.Account, error) {
	acc, err := scanAccount(r.q.QueryRow(context.Background(), query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return acc, nil
}

func scanAccount(row pgx.Row) (*entity.Account, error) {
	var acc entity.Account
	err := row.Scan(
		&acc.ID, &acc.Code, &acc.Name, &acc.Type, &acc.CurrentBalance,
		&acc.Version, &acc.Active, &acc.CreatedAt, &acc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &acc, nil
}
