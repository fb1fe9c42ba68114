package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un asiento contable.
const (
	EntryStatusDraft  = "draft"
	EntryStatusPosted = "posted"
)

// Tipos de comprobante (cada tipo lleva su propia secuencia de numeración).
const (
	EntryTypeReceipt    = "RECEIPT"
	EntryTypeAdjustment = "ADJUSTMENT"
	EntryTypeManual     = "MANUAL"
)

// JournalEntry es un asiento de partida doble. Invariante para asientos
// posteados: Σdébitos == Σcréditos exacto. Los asientos no se editan in-place;
// una corrección se modela como reverso y re-creación del evento completo.
type JournalEntry struct {
	ID          string
	EntryNo     string // número de comprobante, único; puede haber huecos, nunca duplicados
	EntryType   string
	Date        time.Time
	Status      string
	Reference   string
	Description string
	Lines       []JournalLine
	CreatedAt   time.Time
	CreatedBy   string
}

// JournalLine es una línea débito/crédito de un asiento.
type JournalLine struct {
	ID          string
	EntryID     string
	AccountID   string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Description string
	Position    int
}

// TotalDebit suma los débitos del asiento.
func (e *JournalEntry) TotalDebit() decimal.Decimal {
	total := decimal.Zero
	for _, l := range e.Lines {
		total = total.Add(l.Debit)
	}
	return total
}

// TotalCredit suma los créditos del asiento.
func (e *JournalEntry) TotalCredit() decimal.Decimal {
	total := decimal.Zero
	for _, l := range e.Lines {
		total = total.Add(l.Credit)
	}
	return total
}

// IsBalanced indica si Σdébitos == Σcréditos (comparación exacta, no tolerancia).
func (e *JournalEntry) IsBalanced() bool {
	return e.TotalDebit().Equal(e.TotalCredit())
}
