package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de cuenta contable.
const (
	AccountTypeAsset     = "asset"
	AccountTypeLiability = "liability"
	AccountTypeEquity    = "equity"
	AccountTypeRevenue   = "revenue"
	AccountTypeExpense   = "expense"
	AccountTypeCost      = "cost"
)

// Account es una cuenta del plan contable. CurrentBalance es un saldo
// materializado que SOLO muta el motor de asientos mediante incrementos
// atómicos; Version sube con cada incremento para detección optimista.
type Account struct {
	ID             string
	Code           string
	Name           string
	Type           string
	CurrentBalance decimal.Decimal
	Version        int64
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      *time.Time
}

// IsDebitNature indica si la cuenta crece con débitos (activo, gasto, costo).
func (a *Account) IsDebitNature() bool {
	return IsDebitNatureType(a.Type)
}

// IsDebitNatureType versión por tipo, para cálculos sin la entidad completa.
func IsDebitNatureType(accountType string) bool {
	switch accountType {
	case AccountTypeAsset, AccountTypeExpense, AccountTypeCost:
		return true
	}
	return false
}

// BalanceChange calcula el delta de saldo que produce una línea sobre una
// cuenta: débito−crédito en cuentas de naturaleza débito, crédito−débito en
// las demás (pasivo, patrimonio, ingreso).
func BalanceChange(accountType string, debit, credit decimal.Decimal) decimal.Decimal {
	if IsDebitNatureType(accountType) {
		return debit.Sub(credit)
	}
	return credit.Sub(debit)
}
