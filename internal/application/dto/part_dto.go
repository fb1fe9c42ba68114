package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreatePartRequest body para POST /api/parts.
type CreatePartRequest struct {
	PartNo      string          `json:"part_no"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Cost        decimal.Decimal `json:"cost"`
}

// PartResponse repuesto del catálogo con la procedencia de su costo.
type PartResponse struct {
	ID            string          `json:"id"`
	PartNo        string          `json:"part_no"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Cost          decimal.Decimal `json:"cost"`
	CostSource    string          `json:"cost_source,omitempty"`
	CostSourceRef string          `json:"cost_source_ref,omitempty"`
	CostUpdatedAt *time.Time      `json:"cost_updated_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     *time.Time      `json:"updated_at,omitempty"`
}

// ResolveCanonicalResponse resultado de GET /api/parts/canonical.
type ResolveCanonicalResponse struct {
	PartNo string `json:"part_no"`
	PartID string `json:"part_id"`
}
