package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/kirodsllc/inventario-contable/internal/application/dto"
	"github.com/kirodsllc/inventario-contable/internal/application/ledger"
	"github.com/kirodsllc/inventario-contable/internal/domain/entity"
)

// LedgerHandler maneja asientos contables y el plan de cuentas.
type LedgerHandler struct {
	uc *ledger.UseCase
}

// NewLedgerHandler construye el handler del libro contable.
func NewLedgerHandler(uc *ledger.UseCase) *LedgerHandler {
	return &LedgerHandler{uc: uc}
}

// PostEntry postea un asiento manual balanceado.
func (h *LedgerHandler) PostEntry(c *fiber.Ctx) error {
	var in dto.PostEntryRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	lines := make([]ledger.LineInput, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, ledger.LineInput{
			AccountID:   l.AccountID,
			Debit:       l.Debit,
			Credit:      l.Credit,
			Description: l.Description,
		})
	}
	entryType := in.EntryType
	if entryType == "" {
		entryType = entity.EntryTypeManual
	}
	var date time.Time
	if in.Date != nil {
		date = *in.Date
	}
	entryID, err := h.uc.PostEntry(c.Context(), lines, ledger.EntryMetadata{
		EntryType:   entryType,
		Date:        date,
		Reference:   in.Reference,
		Description: in.Description,
		UserID:      GetUserID(c),
	})
	if err != nil {
		return fail(c, err)
	}
	entry, err := h.uc.GetEntry(c.Context(), entryID)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toEntryResponse(entry))
}

// GetEntry consulta un asiento con sus líneas.
func (h *LedgerHandler) GetEntry(c *fiber.Ctx) error {
	entry, err := h.uc.GetEntry(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(toEntryResponse(entry))
}

// ReverseEntry revierte un asiento: niega los deltas y elimina el asiento.
func (h *LedgerHandler) ReverseEntry(c *fiber.Ctx) error {
	if err := h.uc.ReverseEntry(c.Context(), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "asiento revertido"})
}

// CreateAccount da de alta una cuenta del plan.
func (h *LedgerHandler) CreateAccount(c *fiber.Ctx) error {
	var in dto.CreateAccountRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	acc, err := h.uc.CreateAccount(c.Context(), ledger.CreateAccountInput{
		Code: in.Code,
		Name: in.Name,
		Type: in.Type,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toAccountResponse(acc))
}

// GetAccount consulta una cuenta con su saldo materializado.
func (h *LedgerHandler) GetAccount(c *fiber.Ctx) error {
	acc, err := h.uc.GetAccount(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(toAccountResponse(acc))
}

// ListAccounts lista el plan de cuentas.
func (h *LedgerHandler) ListAccounts(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	page.DefaultPage()
	accounts, err := h.uc.ListAccounts(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return fail(c, err)
	}
	out := make([]dto.AccountResponse, 0, len(accounts))
	for _, acc := range accounts {
		out = append(out, toAccountResponse(acc))
	}
	return c.JSON(fiber.Map{"total": len(out), "accounts": out})
}

func toEntryResponse(e *entity.JournalEntry) dto.EntryResponse {
	lines := make([]dto.EntryLineDTO, 0, len(e.Lines))
	for _, l := range e.Lines {
		lines = append(lines, dto.EntryLineDTO{
			AccountID:   l.AccountID,
			Debit:       l.Debit,
			Credit:      l.Credit,
			Description: l.Description,
		})
	}
	return dto.EntryResponse{
		ID:          e.ID,
		EntryNo:     e.EntryNo,
		EntryType:   e.EntryType,
		Date:        e.Date,
		Status:      e.Status,
		Reference:   e.Reference,
		Description: e.Description,
		Lines:       lines,
		CreatedAt:   e.CreatedAt,
	}
}

func toAccountResponse(a *entity.Account) dto.AccountResponse {
	return dto.AccountResponse{
		ID:             a.ID,
		Code:           a.Code,
		Name:           a.Name,
		Type:           a.Type,
		CurrentBalance: a.CurrentBalance,
		Active:         a.Active,
	}
}
