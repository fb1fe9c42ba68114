package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Orígenes del costo vigente de un repuesto.
const (
	CostSourceReceivedFromPurchase = "RECEIVED_FROM_PURCHASE"
	CostSourceManual               = "MANUAL"
	CostSourceAdjustment           = "ADJUSTMENT"
)

// Part representa un repuesto del catálogo. PartNo NO es único por diseño:
// pueden existir varias filas con el mismo número externo y el registro
// canónico se resuelve con parts.SelectCanonical.
// Cost es un valor autoritativo único que se sobreescribe con la última
// recepción calificada (no es promedio móvil).
type Part struct {
	ID            string
	PartNo        string
	Name          string
	Description   string
	Cost          decimal.Decimal
	CostSource    string     // RECEIVED_FROM_PURCHASE, MANUAL, ADJUSTMENT; vacío = sin procedencia
	CostSourceRef string     // referencia de negocio, ej. número de orden de compra
	CostUpdatedAt *time.Time // nil si el costo nunca fue actualizado
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}
