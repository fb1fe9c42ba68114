package dto

import "github.com/shopspring/decimal"

// ReceiptItemDTO renglón de una recepción de mercancía.
type ReceiptItemDTO struct {
	PartID        string          `json:"part_id"`
	Quantity      int64           `json:"quantity"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
}

// ProcessReceiveRequest body para POST /api/receiving/landed-costs (solo cálculo).
type ProcessReceiveRequest struct {
	Items              []ReceiptItemDTO `json:"items"`
	IncidentalExpenses decimal.Decimal  `json:"incidental_expenses"`
	Method             string           `json:"method"` // value | quantity
}

// LandedCostDTO resultado del prorrateo para un renglón.
type LandedCostDTO struct {
	PartID       string          `json:"part_id"`
	Quantity     int64           `json:"quantity"`
	UnitCost     decimal.Decimal `json:"landed_unit_cost"`
	ExpenseShare decimal.Decimal `json:"expense_share"`
	LineTotal    decimal.Decimal `json:"line_total"`
}

// ReceiptAccountsDTO cuentas del asiento de recepción.
type ReceiptAccountsDTO struct {
	InventoryAccountID string `json:"inventory_account_id"`
	ExpenseAccountID   string `json:"expense_account_id,omitempty"`
	PayableAccountID   string `json:"payable_account_id"`
}

// ReceiveGoodsRequest body para POST /api/receiving (recepción completa, atómica).
type ReceiveGoodsRequest struct {
	Items              []ReceiptItemDTO   `json:"items"`
	IncidentalExpenses decimal.Decimal    `json:"incidental_expenses"`
	Method             string             `json:"method"`
	PONumber           string             `json:"po_number"`
	Location           LocationDTO        `json:"location"`
	Accounts           ReceiptAccountsDTO `json:"accounts"`
}

// ReceiveGoodsResponse resultado de la recepción.
type ReceiveGoodsResponse struct {
	LandedCosts          []LandedCostDTO `json:"landed_costs"`
	MovementIDs          []string        `json:"movement_ids"`
	EntryID              string          `json:"entry_id"`
	ReleasedReservations int64           `json:"released_reservations"`
}

// ApplyCostUpdateRequest body para PUT /api/parts/:id/cost.
type ApplyCostUpdateRequest struct {
	Cost      decimal.Decimal `json:"cost"`
	SourceTag string          `json:"source_tag"`
	SourceRef string          `json:"source_ref,omitempty"`
}

// AdjustmentAccountsDTO cuentas del asiento de ajuste.
type AdjustmentAccountsDTO struct {
	InventoryAccountID  string `json:"inventory_account_id"`
	AdjustmentAccountID string `json:"adjustment_account_id"`
}

// AdjustStockRequest body para POST /api/stock/adjustments.
type AdjustStockRequest struct {
	PartID    string                `json:"part_id"`
	Direction string                `json:"direction"` // in | out
	Quantity  int64                 `json:"quantity"`
	Location  LocationDTO           `json:"location"`
	Reason    string                `json:"reason,omitempty"`
	Accounts  AdjustmentAccountsDTO `json:"accounts"`
}
