// Package costing contiene la lógica pura de costo en destino (landed cost):
// distribución de gastos incidentales entre los renglones de una recepción
// (servicio de dominio, sin dependencias de infraestructura).
package costing

import (
	"github.com/shopspring/decimal"

	"github.com/kirodsllc/inventario-contable/internal/domain"
)

// Métodos de distribución de gastos incidentales.
const (
	MethodValue    = "value"    // proporcional al valor de compra de cada renglón
	MethodQuantity = "quantity" // proporcional a la cantidad de cada renglón
)

// Escalas decimales: los totales de línea van al centavo; el costo unitario
// conserva 4 decimales porque cantidades grandes dividen centavos.
const (
	moneyScale    = 2
	unitCostScale = 4
)

// ReceiptItem es un renglón de una recepción de mercancía.
type ReceiptItem struct {
	PartID        string
	Quantity      int64
	PurchasePrice decimal.Decimal
}

// LandedCost es el resultado del prorrateo para un renglón.
// LineTotal = valor de compra + participación en gastos, exacto al centavo;
// UnitCost = LineTotal/cantidad redondeado a 4 decimales.
type LandedCost struct {
	PartID       string
	Quantity     int64
	UnitCost     decimal.Decimal
	ExpenseShare decimal.Decimal
	LineTotal    decimal.Decimal
}

// Distribute prorratea los gastos incidentales entre los renglones y calcula
// el costo unitario en destino de cada uno.
//
//	value_i = qty_i * precio_i
//	share_i = gastos * value_i/Σvalue (método value) o gastos * qty_i/Σqty (método quantity)
//	unitCost_i = (value_i + share_i) / qty_i
//
// El residuo de redondeo se acumula y se aplica al último renglón, de modo que
// ΣLineTotal == Σvalue + gastos exacto al centavo. Si la base total es cero
// se omite la distribución y el costo unitario queda en el precio de compra.
func Distribute(items []ReceiptItem, incidentalExpenses decimal.Decimal, method string) ([]LandedCost, error) {
	if len(items) == 0 {
		return nil, domain.ErrValidation
	}
	if method != MethodValue && method != MethodQuantity {
		return nil, domain.ErrValidation
	}
	if incidentalExpenses.IsNegative() {
		return nil, domain.ErrValidation
	}
	for _, it := range items {
		if it.PartID == "" || it.Quantity <= 0 || it.PurchasePrice.IsNegative() {
			return nil, domain.ErrValidation
		}
	}

	values := make([]decimal.Decimal, len(items))
	totalBase := decimal.Zero
	for i, it := range items {
		qty := decimal.NewFromInt(it.Quantity)
		values[i] = qty.Mul(it.PurchasePrice)
		if method == MethodQuantity {
			totalBase = totalBase.Add(qty)
		} else {
			totalBase = totalBase.Add(values[i])
		}
	}

	result := make([]LandedCost, len(items))

	// Base cero: no hay cómo prorratear; el costo unitario es el precio de compra.
	if totalBase.IsZero() {
		for i, it := range items {
			result[i] = LandedCost{
				PartID:       it.PartID,
				Quantity:     it.Quantity,
				UnitCost:     it.PurchasePrice.Round(unitCostScale),
				ExpenseShare: decimal.Zero,
				LineTotal:    values[i].Round(moneyScale),
			}
		}
		return result, nil
	}

	allocated := decimal.Zero
	for i, it := range items {
		qty := decimal.NewFromInt(it.Quantity)
		var share decimal.Decimal
		if i == len(items)-1 {
			// Último renglón absorbe el residuo de redondeo de los anteriores.
			share = incidentalExpenses.Sub(allocated)
		} else {
			base := values[i]
			if method == MethodQuantity {
				base = qty
			}
			share = incidentalExpenses.Mul(base).Div(totalBase).Round(moneyScale)
			allocated = allocated.Add(share)
		}
		lineTotal := values[i].Add(share).Round(moneyScale)
		result[i] = LandedCost{
			PartID:       it.PartID,
			Quantity:     it.Quantity,
			UnitCost:     lineTotal.DivRound(qty, unitCostScale),
			ExpenseShare: share,
			LineTotal:    lineTotal,
		}
	}
	return result, nil
}

// TotalLanded suma los totales de línea de un prorrateo.
func TotalLanded(costs []LandedCost) decimal.Decimal {
	total := decimal.Zero
	for _, c := range costs {
		total = total.Add(c.LineTotal)
	}
	return total
}
