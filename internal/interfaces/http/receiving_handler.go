package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kirodsllc/inventario-contable/internal/application/costing"
	"github.com/kirodsllc/inventario-contable/internal/application/dto"
	domaincosting "github.com/kirodsllc/inventario-contable/internal/domain/costing"
)

// ReceivingHandler maneja el costeo en destino y la recepción de mercancía.
type ReceivingHandler struct {
	uc *costing.UseCase
}

// NewReceivingHandler construye el handler de recepción.
func NewReceivingHandler(uc *costing.UseCase) *ReceivingHandler {
	return &ReceivingHandler{uc: uc}
}

// ProcessLandedCosts calcula el prorrateo de una recepción sin escribir nada.
func (h *ReceivingHandler) ProcessLandedCosts(c *fiber.Ctx) error {
	var in dto.ProcessReceiveRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	costs, err := h.uc.ProcessReceive(c.Context(), toReceiptItems(in.Items), in.IncidentalExpenses, in.Method)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"landed_costs": toLandedCostDTOs(costs)})
}

// ReceiveGoods procesa una recepción completa: movimientos de entrada,
// liberación de reservas, costos autoritativos y asiento, todo o nada.
func (h *ReceivingHandler) ReceiveGoods(c *fiber.Ctx) error {
	var in dto.ReceiveGoodsRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	result, err := h.uc.ReceiveGoods(c.Context(), costing.ReceiveGoodsInput{
		Items:              toReceiptItems(in.Items),
		IncidentalExpenses: in.IncidentalExpenses,
		Method:             in.Method,
		PONumber:           in.PONumber,
		Location:           toLocation(in.Location),
		Accounts: costing.ReceiptAccounts{
			InventoryAccountID: in.Accounts.InventoryAccountID,
			ExpenseAccountID:   in.Accounts.ExpenseAccountID,
			PayableAccountID:   in.Accounts.PayableAccountID,
		},
		UserID: GetUserID(c),
	})
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ReceiveGoodsResponse{
		LandedCosts:          toLandedCostDTOs(result.LandedCosts),
		MovementIDs:          result.MovementIDs,
		EntryID:              result.EntryID,
		ReleasedReservations: result.ReleasedReservations,
	})
}

func toReceiptItems(items []dto.ReceiptItemDTO) []domaincosting.ReceiptItem {
	out := make([]domaincosting.ReceiptItem, 0, len(items))
	for _, it := range items {
		out = append(out, domaincosting.ReceiptItem{
			PartID:        it.PartID,
			Quantity:      it.Quantity,
			PurchasePrice: it.PurchasePrice,
		})
	}
	return out
}

func toLandedCostDTOs(costs []domaincosting.LandedCost) []dto.LandedCostDTO {
	out := make([]dto.LandedCostDTO, 0, len(costs))
	for _, lc := range costs {
		out = append(out, dto.LandedCostDTO{
			PartID:       lc.PartID,
			Quantity:     lc.Quantity,
			UnitCost:     lc.UnitCost,
			ExpenseShare: lc.ExpenseShare,
			LineTotal:    lc.LineTotal,
		})
	}
	return out
}
