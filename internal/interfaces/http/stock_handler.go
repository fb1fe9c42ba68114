package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/kirodsllc/inventario-contable/internal/application/costing"
	"github.com/kirodsllc/inventario-contable/internal/application/dto"
	"github.com/kirodsllc/inventario-contable/internal/application/stockledger"
	"github.com/kirodsllc/inventario-contable/internal/domain/entity"
	"github.com/kirodsllc/inventario-contable/internal/domain/repository"
)

// StockHandler maneja movimientos, balances, reservas y ajustes del libro de stock.
type StockHandler struct {
	uc        *stockledger.UseCase
	costingUC *costing.UseCase
}

// NewStockHandler construye el handler de stock.
func NewStockHandler(uc *stockledger.UseCase, costingUC *costing.UseCase) *StockHandler {
	return &StockHandler{uc: uc, costingUC: costingUC}
}

// RecordMovement registra un movimiento de entrada o salida.
func (h *StockHandler) RecordMovement(c *fiber.Ctx) error {
	var in dto.RecordMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	id, err := h.uc.RecordMovement(c.Context(), stockledger.RecordMovementInput{
		PartID:        in.PartID,
		Direction:     in.Direction,
		Quantity:      in.Quantity,
		Location:      toLocation(in.Location),
		ReferenceType: in.ReferenceType,
		ReferenceID:   in.ReferenceID,
		Notes:         in.Notes,
		UserID:        GetUserID(c),
	})
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"movement_id": id})
}

// GetBalance devuelve el balance derivado de un repuesto (puede ser negativo),
// con filtro opcional por bodega/estante/repisa.
func (h *StockHandler) GetBalance(c *fiber.Ctx) error {
	partID := c.Params("id")
	filter := repository.MovementFilter{
		StoreID: c.Query("store_id"),
		RackID:  c.Query("rack_id"),
		ShelfID: c.Query("shelf_id"),
	}
	balance, err := h.uc.GetBalance(c.Context(), partID, filter)
	if err != nil {
		return fail(c, err)
	}
	resp := dto.BalanceResponse{PartID: partID, Balance: balance}
	// Disponible solo aplica al balance global, no al filtrado por ubicación.
	if filter == (repository.MovementFilter{}) {
		available, err := h.uc.AvailableQuantity(c.Context(), partID)
		if err != nil {
			return fail(c, err)
		}
		resp.Available = &available
	}
	return c.JSON(resp)
}

// ListMovements historial de movimientos de un repuesto.
func (h *StockHandler) ListMovements(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	page.DefaultPage()

	var from, to *time.Time
	if v := c.Query("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from debe ser RFC3339"})
		}
		from = &t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to debe ser RFC3339"})
		}
		to = &t
	}

	movements, err := h.uc.ListMovements(c.Context(), c.Params("id"), from, to, page.Limit, page.Offset)
	if err != nil {
		return fail(c, err)
	}
	out := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, toMovementResponse(m))
	}
	return c.JSON(fiber.Map{"total": len(out), "movements": out})
}

// Reserve crea una reserva de planeación (sin verificación de capacidad).
func (h *StockHandler) Reserve(c *fiber.Ctx) error {
	var in dto.ReserveRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	id, err := h.uc.Reserve(c.Context(), stockledger.ReserveInput{
		PartID:        in.PartID,
		Quantity:      in.Quantity,
		ReferenceType: in.ReferenceType,
		ReferenceID:   in.ReferenceID,
		Notes:         in.Notes,
		UserID:        GetUserID(c),
	})
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"reservation_id": id})
}

// ReleaseReservations libera en bloque las reservas atadas a las referencias dadas.
func (h *StockHandler) ReleaseReservations(c *fiber.Ctx) error {
	var in dto.ReleaseReservationsRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	released, err := h.uc.ReleaseReservations(c.Context(), in.ReferenceType, in.ReferenceIDs)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"released": released})
}

// CorrectLocation registra una corrección de ubicación sobre un movimiento histórico.
func (h *StockHandler) CorrectLocation(c *fiber.Ctx) error {
	var in dto.CorrectLocationRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	id, err := h.uc.CorrectLocation(c.Context(), stockledger.CorrectLocationInput{
		MovementID:  c.Params("id"),
		NewLocation: toLocation(in.NewLocation),
		Reason:      in.Reason,
		UserID:      GetUserID(c),
	})
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"correction_id": id})
}

// Adjust registra un ajuste manual de inventario con su asiento contable.
func (h *StockHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	result, err := h.costingUC.AdjustStock(c.Context(), costing.AdjustStockInput{
		PartID:    in.PartID,
		Direction: in.Direction,
		Quantity:  in.Quantity,
		Location:  toLocation(in.Location),
		Reason:    in.Reason,
		Accounts: costing.AdjustmentAccounts{
			InventoryAccountID:  in.Accounts.InventoryAccountID,
			AdjustmentAccountID: in.Accounts.AdjustmentAccountID,
		},
		UserID: GetUserID(c),
	})
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"movement_id": result.MovementID,
		"entry_id":    result.EntryID,
	})
}

// ListStores directorio de bodegas.
func (h *StockHandler) ListStores(c *fiber.Ctx) error {
	stores, err := h.uc.ListStores(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"total": len(stores), "stores": stores})
}

func toLocation(l dto.LocationDTO) entity.Location {
	return entity.Location{StoreID: l.StoreID, RackID: l.RackID, ShelfID: l.ShelfID}
}

func toMovementResponse(m *entity.StockMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:        m.ID,
		PartID:    m.PartID,
		Direction: m.Direction,
		Quantity:  m.Quantity,
		Location: dto.LocationDTO{
			StoreID: m.Location.StoreID,
			RackID:  m.Location.RackID,
			ShelfID: m.Location.ShelfID,
		},
		ReferenceType: m.ReferenceType,
		ReferenceID:   m.ReferenceID,
		Notes:         m.Notes,
		CreatedAt:     m.CreatedAt,
	}
}
