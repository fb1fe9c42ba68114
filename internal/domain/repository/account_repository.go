package repository

import (
	"github.com/shopspring/decimal"

	"github.com/kirodsllc/inventario-contable/internal/domain/entity"
)

// AccountRepository define el puerto del plan de cuentas (DIP).
// CurrentBalance solo muta vía ApplyDelta; nadie escribe el saldo directo.
type AccountRepository interface {
	Create(account *entity.Account) error
	GetByID(id string) (*entity.Account, error)
	GetByCode(code string) (*entity.Account, error)
	List(limit, offset int) ([]*entity.Account, error)
	// ApplyDelta incrementa el saldo en una sola sentencia atómica
	// (balance = balance + delta) subiendo el contador de versión.
	ApplyDelta(accountID string, delta decimal.Decimal) error
}
