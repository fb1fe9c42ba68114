package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kirodsllc/inventario-contable/internal/application/costing"
	"github.com/kirodsllc/inventario-contable/internal/application/dto"
	"github.com/kirodsllc/inventario-contable/internal/application/parts"
	"github.com/kirodsllc/inventario-contable/internal/domain/entity"
)

// PartHandler maneja el catálogo de repuestos y la resolución canónica.
type PartHandler struct {
	uc        *parts.UseCase
	costingUC *costing.UseCase
}

// NewPartHandler construye el handler de repuestos.
func NewPartHandler(uc *parts.UseCase, costingUC *costing.UseCase) *PartHandler {
	return &PartHandler{uc: uc, costingUC: costingUC}
}

// Create da de alta un repuesto. El número de parte puede duplicar uno existente.
func (h *PartHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePartRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	part, err := h.uc.Create(c.Context(), parts.CreatePartInput{
		PartNo:      in.PartNo,
		Name:        in.Name,
		Description: in.Description,
		Cost:        in.Cost,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toPartResponse(part))
}

// GetByID consulta un repuesto.
func (h *PartHandler) GetByID(c *fiber.Ctx) error {
	part, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(toPartResponse(part))
}

// Search busca repuestos: coincidencia exacta del número devuelve solo el
// registro canónico; si no, búsqueda difusa multi-campo.
func (h *PartHandler) Search(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	page.DefaultPage()
	results, err := h.uc.Search(c.Context(), c.Query("q"), page.Limit, page.Offset)
	if err != nil {
		return fail(c, err)
	}
	out := make([]dto.PartResponse, 0, len(results))
	for _, p := range results {
		out = append(out, toPartResponse(p))
	}
	return c.JSON(fiber.Map{"total": len(out), "parts": out})
}

// ResolveCanonical devuelve el ID del registro canónico de un número de parte.
func (h *PartHandler) ResolveCanonical(c *fiber.Ctx) error {
	partNo := c.Query("part_no")
	id, err := h.uc.ResolveCanonical(c.Context(), partNo)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.ResolveCanonicalResponse{PartNo: partNo, PartID: id})
}

// UpdateCost sobreescribe el costo autoritativo del repuesto con su procedencia.
func (h *PartHandler) UpdateCost(c *fiber.Ctx) error {
	var in dto.ApplyCostUpdateRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	sourceTag := in.SourceTag
	if sourceTag == "" {
		sourceTag = entity.CostSourceManual
	}
	if err := h.costingUC.ApplyCostUpdate(c.Context(), c.Params("id"), in.Cost, sourceTag, in.SourceRef); err != nil {
		return fail(c, err)
	}
	part, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(toPartResponse(part))
}

func toPartResponse(p *entity.Part) dto.PartResponse {
	return dto.PartResponse{
		ID:            p.ID,
		PartNo:        p.PartNo,
		Name:          p.Name,
		Description:   p.Description,
		Cost:          p.Cost,
		CostSource:    p.CostSource,
		CostSourceRef: p.CostSourceRef,
		CostUpdatedAt: p.CostUpdatedAt,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
