// Package costing implementa el motor de costeo en destino y la orquestación
// atómica de la recepción de mercancía (costos → movimientos → reservas →
// asiento contable, todo en una transacción).
package costing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kirodsllc/inventario-contable/internal/application/ledger"
	"github.com/kirodsllc/inventario-contable/internal/domain"
	domaincosting "github.com/kirodsllc/inventario-contable/internal/domain/costing"
	"github.com/kirodsllc/inventario-contable/internal/domain/entity"
	"github.com/kirodsllc/inventario-contable/internal/domain/repository"
	"github.com/kirodsllc/inventario-contable/pkg/metrics"
)

// UseCase motor de costeo: prorrateo de gastos incidentales, actualización del
// costo autoritativo del repuesto y recepción de mercancía de punta a punta.
//
// Sin clave de idempotencia: el caller garantiza procesar cada recepción
// exactamente una vez; reinvocar con la misma referencia duplica costo y stock.
type UseCase struct {
	txRunner     ReceivingTxRunner
	partRepo     repository.PartRepository
	locationRepo repository.LocationRepository
	ledgerUC     *ledger.UseCase
}

// NewUseCase construye el motor de costeo.
func NewUseCase(
	txRunner ReceivingTxRunner,
	partRepo repository.PartRepository,
	locationRepo repository.LocationRepository,
	ledgerUC *ledger.UseCase,
) *UseCase {
	return &UseCase{txRunner: txRunner, partRepo: partRepo, locationRepo: locationRepo, ledgerUC: ledgerUC}
}

// ProcessReceive calcula el costo unitario en destino de cada renglón de una
// recepción, sin escribir nada. La escritura del costo es ApplyCostUpdate o la
// recepción completa ReceiveGoods.
func (uc *UseCase) ProcessReceive(ctx context.Context, items []domaincosting.ReceiptItem, incidentalExpenses decimal.Decimal, method string) ([]domaincosting.LandedCost, error) {
	costs, err := domaincosting.Distribute(items, incidentalExpenses, method)
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		part, err := uc.partRepo.GetByID(it.PartID)
		if err != nil {
			return nil, err
		}
		if part == nil {
			return nil, domain.ErrNotFound
		}
	}
	return costs, nil
}

// ApplyCostUpdate sobreescribe el costo autoritativo del repuesto con su
// procedencia (última recepción gana; NO es promedio móvil). Esta política
// sostiene el orden de resolución canónica y debe preservarse exacta.
func (uc *UseCase) ApplyCostUpdate(ctx context.Context, partID string, cost decimal.Decimal, sourceTag, sourceRef string) error {
	if cost.IsNegative() || sourceTag == "" {
		return domain.ErrValidation
	}
	part, err := uc.partRepo.GetByID(partID)
	if err != nil {
		return err
	}
	if part == nil {
		return domain.ErrNotFound
	}
	now := time.Now()
	return uc.txRunner.RunReceiving(ctx, func(
		_ repository.StockMovementRepository,
		_ repository.StockReservationRepository,
		partRepo repository.PartRepository,
		_ repository.AccountRepository,
		_ repository.JournalEntryRepository,
		_ repository.NumberingRunner,
	) error {
		return partRepo.UpdateCost(partID, cost, sourceTag, sourceRef, now)
	})
}

// ReceiptAccounts cuentas contables del asiento de recepción.
type ReceiptAccounts struct {
	InventoryAccountID string // débito: inventario (valor de la mercancía)
	ExpenseAccountID   string // débito: gastos incidentales (flete, aduana)
	PayableAccountID   string // crédito: cuentas por pagar al proveedor
}

// ReceiveGoodsInput entrada de una recepción de orden de compra.
type ReceiveGoodsInput struct {
	Items              []domaincosting.ReceiptItem
	IncidentalExpenses decimal.Decimal
	Method             string // value | quantity
	PONumber           string
	Location           entity.Location
	Accounts           ReceiptAccounts
	UserID             string
}

// ReceiveGoodsResult resultado de la recepción.
type ReceiveGoodsResult struct {
	LandedCosts          []domaincosting.LandedCost
	MovementIDs          []string
	EntryID              string
	ReleasedReservations int64
}

// ReceiveGoods procesa una recepción completa en una sola transacción:
// prorratea costos, registra los movimientos de entrada, libera las reservas
// de la orden, sobreescribe el costo de cada repuesto y postea el asiento
// balanceado (débito inventario + débito gastos, crédito por pagar).
// Aplicación parcial no permitida: éxito total o rechazo limpio.
func (uc *UseCase) ReceiveGoods(ctx context.Context, input ReceiveGoodsInput) (*ReceiveGoodsResult, error) {
	if input.PONumber == "" {
		return nil, domain.ErrValidation
	}
	if input.Accounts.InventoryAccountID == "" || input.Accounts.PayableAccountID == "" {
		return nil, domain.ErrValidation
	}
	if input.IncidentalExpenses.IsPositive() && input.Accounts.ExpenseAccountID == "" {
		return nil, domain.ErrValidation
	}
	if err := uc.validateLocation(input.Location); err != nil {
		return nil, err
	}

	costs, err := domaincosting.Distribute(input.Items, input.IncidentalExpenses, input.Method)
	if err != nil {
		return nil, err
	}
	for _, it := range input.Items {
		part, err := uc.partRepo.GetByID(it.PartID)
		if err != nil {
			return nil, err
		}
		if part == nil {
			return nil, domain.ErrNotFound
		}
	}

	now := time.Now()
	result := &ReceiveGoodsResult{LandedCosts: costs}

	goodsValue := decimal.Zero
	for _, it := range input.Items {
		goodsValue = goodsValue.Add(decimal.NewFromInt(it.Quantity).Mul(it.PurchasePrice))
	}
	goodsValue = goodsValue.Round(2)

	var entryRetries int
	err = uc.txRunner.RunReceiving(ctx, func(
		movRepo repository.StockMovementRepository,
		resRepo repository.StockReservationRepository,
		partRepo repository.PartRepository,
		accountRepo repository.AccountRepository,
		_ repository.JournalEntryRepository,
		numbering repository.NumberingRunner,
	) error {
		// Movimientos de entrada, uno por renglón.
		for _, it := range input.Items {
			mov := &entity.StockMovement{
				ID:            uuid.New().String(),
				PartID:        it.PartID,
				Direction:     entity.DirectionIn,
				Quantity:      it.Quantity,
				Location:      input.Location,
				ReferenceType: entity.ReferencePurchaseOrder,
				ReferenceID:   input.PONumber,
				CreatedAt:     now,
				CreatedBy:     input.UserID,
			}
			if err := movRepo.Create(mov); err != nil {
				return err
			}
			result.MovementIDs = append(result.MovementIDs, mov.ID)
		}

		// La orden quedó surtida: liberar sus reservas de planeación.
		released, err := resRepo.ReleaseByReferences(entity.ReferencePurchaseOrder, []string{input.PONumber})
		if err != nil {
			return err
		}
		result.ReleasedReservations = released

		// Costo autoritativo: última recepción gana.
		for _, c := range costs {
			if err := partRepo.UpdateCost(c.PartID, c.UnitCost, entity.CostSourceReceivedFromPurchase, input.PONumber, now); err != nil {
				return err
			}
		}

		// Asiento balanceado de la recepción.
		lines := []ledger.LineInput{
			{AccountID: input.Accounts.InventoryAccountID, Debit: goodsValue, Credit: decimal.Zero, Description: "Mercancía recibida OC " + input.PONumber},
			{AccountID: input.Accounts.PayableAccountID, Debit: decimal.Zero, Credit: goodsValue.Add(input.IncidentalExpenses.Round(2)), Description: "Por pagar proveedor OC " + input.PONumber},
		}
		if input.IncidentalExpenses.IsPositive() {
			lines = append(lines, ledger.LineInput{
				AccountID:   input.Accounts.ExpenseAccountID,
				Debit:       input.IncidentalExpenses.Round(2),
				Credit:      decimal.Zero,
				Description: "Gastos incidentales OC " + input.PONumber,
			})
		}
		entryID, retries, err := uc.ledgerUC.PostEntryInTx(ctx, accountRepo, numbering, lines, ledger.EntryMetadata{
			EntryType:   entity.EntryTypeReceipt,
			Date:        now,
			Reference:   input.PONumber,
			Description: "Recepción de mercancía OC " + input.PONumber,
			UserID:      input.UserID,
		})
		entryRetries = retries
		if err != nil {
			return err
		}
		result.EntryID = entryID
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Métricas solo después del commit: un rollback no debe contar.
	metrics.GoodsReceipts.Inc()
	if entryRetries > 0 {
		metrics.SequenceRetries.Add(float64(entryRetries))
	}
	metrics.EntriesPosted.WithLabelValues(entity.EntryTypeReceipt).Inc()
	for range input.Items {
		metrics.MovementsRecorded.WithLabelValues(entity.DirectionIn).Inc()
	}
	return result, nil
}

// AdjustmentAccounts cuentas contables del asiento de ajuste.
type AdjustmentAccounts struct {
	InventoryAccountID  string
	AdjustmentAccountID string // contrapartida de pérdida/ganancia por ajuste
}

// AdjustStockInput entrada de un ajuste manual de inventario.
type AdjustStockInput struct {
	PartID    string
	Direction string // in, out
	Quantity  int64
	Location  entity.Location
	Reason    string
	Accounts  AdjustmentAccounts
	UserID    string
}

// AdjustStockResult resultado del ajuste.
type AdjustStockResult struct {
	MovementID string
	EntryID    string
}

// AdjustStock registra un ajuste de inventario y su asiento en una sola
// transacción, valorado al costo autoritativo vigente del repuesto.
func (uc *UseCase) AdjustStock(ctx context.Context, input AdjustStockInput) (*AdjustStockResult, error) {
	if input.Quantity <= 0 {
		return nil, domain.ErrValidation
	}
	if input.Direction != entity.DirectionIn && input.Direction != entity.DirectionOut {
		return nil, domain.ErrValidation
	}
	if input.Accounts.InventoryAccountID == "" || input.Accounts.AdjustmentAccountID == "" {
		return nil, domain.ErrValidation
	}
	part, err := uc.partRepo.GetByID(input.PartID)
	if err != nil {
		return nil, err
	}
	if part == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.validateLocation(input.Location); err != nil {
		return nil, err
	}

	now := time.Now()
	amount := part.Cost.Mul(decimal.NewFromInt(input.Quantity)).Round(2)
	reference := entity.ReferenceAdjustment + "-" + uuid.New().String()
	result := &AdjustStockResult{}

	var entryRetries int
	err = uc.txRunner.RunReceiving(ctx, func(
		movRepo repository.StockMovementRepository,
		_ repository.StockReservationRepository,
		_ repository.PartRepository,
		accountRepo repository.AccountRepository,
		_ repository.JournalEntryRepository,
		numbering repository.NumberingRunner,
	) error {
		mov := &entity.StockMovement{
			ID:            uuid.New().String(),
			PartID:        input.PartID,
			Direction:     input.Direction,
			Quantity:      input.Quantity,
			Location:      input.Location,
			ReferenceType: entity.ReferenceAdjustment,
			ReferenceID:   reference,
			Notes:         input.Reason,
			CreatedAt:     now,
			CreatedBy:     input.UserID,
		}
		if err := movRepo.Create(mov); err != nil {
			return err
		}
		result.MovementID = mov.ID

		// Ajuste valorado en cero (repuesto sin costo): no genera asiento.
		if amount.IsZero() {
			return nil
		}

		// Entrada: sube inventario contra la contrapartida; salida al revés.
		inventory := ledger.LineInput{AccountID: input.Accounts.InventoryAccountID, Description: "Ajuste de inventario"}
		counterpart := ledger.LineInput{AccountID: input.Accounts.AdjustmentAccountID, Description: "Contrapartida de ajuste"}
		if input.Direction == entity.DirectionIn {
			inventory.Debit = amount
			counterpart.Credit = amount
		} else {
			inventory.Credit = amount
			counterpart.Debit = amount
		}
		entryID, retries, err := uc.ledgerUC.PostEntryInTx(ctx, accountRepo, numbering,
			[]ledger.LineInput{inventory, counterpart},
			ledger.EntryMetadata{
				EntryType:   entity.EntryTypeAdjustment,
				Date:        now,
				Reference:   reference,
				Description: input.Reason,
				UserID:      input.UserID,
			})
		entryRetries = retries
		if err != nil {
			return err
		}
		result.EntryID = entryID
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Métricas solo después del commit: un rollback no debe contar.
	metrics.MovementsRecorded.WithLabelValues(input.Direction).Inc()
	if result.EntryID != "" {
		if entryRetries > 0 {
			metrics.SequenceRetries.Add(float64(entryRetries))
		}
		metrics.EntriesPosted.WithLabelValues(entity.EntryTypeAdjustment).Inc()
	}
	return result, nil
}

// validateLocation verifica que las etiquetas de ubicación existan en el
// directorio antes de escribir movimientos. Etiquetas vacías son válidas.
func (uc *UseCase) validateLocation(loc entity.Location) error {
	if loc.IsZero() {
		return nil
	}
	if loc.StoreID != "" {
		ok, err := uc.locationRepo.StoreExists(loc.StoreID)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrNotFound
		}
	}
	if loc.RackID != "" {
		ok, err := uc.locationRepo.RackExists(loc.RackID)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrNotFound
		}
	}
	if loc.ShelfID != "" {
		ok, err := uc.locationRepo.ShelfExists(loc.ShelfID)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrNotFound
		}
	}
	return nil
}
