package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryLineDTO línea débito/crédito de un asiento.
type EntryLineDTO struct {
	AccountID   string          `json:"account_id"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description,omitempty"`
}

// PostEntryRequest body para POST /api/ledger/entries.
type PostEntryRequest struct {
	EntryType   string         `json:"entry_type"` // RECEIPT | ADJUSTMENT | MANUAL
	Date        *time.Time     `json:"date,omitempty"`
	Reference   string         `json:"reference,omitempty"`
	Description string         `json:"description,omitempty"`
	Lines       []EntryLineDTO `json:"lines"`
}

// EntryResponse asiento con sus líneas.
type EntryResponse struct {
	ID          string         `json:"id"`
	EntryNo     string         `json:"entry_no"`
	EntryType   string         `json:"entry_type"`
	Date        time.Time      `json:"date"`
	Status      string         `json:"status"`
	Reference   string         `json:"reference,omitempty"`
	Description string         `json:"description,omitempty"`
	Lines       []EntryLineDTO `json:"lines"`
	CreatedAt   time.Time      `json:"created_at"`
}

// CreateAccountRequest body para POST /api/accounts.
type CreateAccountRequest struct {
	Code string `json:"code"`
	Name string `json:"name"`
	Type string `json:"type"` // asset | liability | equity | revenue | expense | cost
}

// AccountResponse cuenta del plan contable con su saldo materializado.
type AccountResponse struct {
	ID             string          `json:"id"`
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	Type           string          `json:"type"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	Active         bool            `json:"active"`
}
