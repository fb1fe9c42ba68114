package costing

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirodsllc/inventario-contable/internal/application/ledger"
	"github.com/kirodsllc/inventario-contable/internal/application/testsupport"
	"github.com/kirodsllc/inventario-contable/internal/domain"
	domaincosting "github.com/kirodsllc/inventario-contable/internal/domain/costing"
	"github.com/kirodsllc/inventario-contable/internal/domain/entity"
	"github.com/kirodsllc/inventario-contable/internal/domain/repository"
	"github.com/kirodsllc/inventario-contable/pkg/metrics"
)

type fixture struct {
	uc     *UseCase
	mov    *testsupport.MemMovementRepo
	res    *testsupport.MemReservationRepo
	part   *testsupport.MemPartRepo
	acc    *testsupport.MemAccountRepo
	entry  *testsupport.MemEntryRepo
	loc    *testsupport.MemLocationRepo
	runner *testsupport.Runner
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		mov:   testsupport.NewMemMovementRepo(),
		res:   testsupport.NewMemReservationRepo(),
		part:  testsupport.NewMemPartRepo(),
		acc:   testsupport.NewMemAccountRepo(),
		entry: testsupport.NewMemEntryRepo(),
		loc:   testsupport.NewMemLocationRepo(),
	}
	f.runner = &testsupport.Runner{
		Mov: f.mov, Res: f.res, Part: f.part,
		Acc: f.acc, Entry: f.entry, Seq: testsupport.NewMemSequenceRepo(),
	}
	ledgerUC := ledger.NewUseCase(f.runner, f.acc, f.entry)
	f.uc = NewUseCase(f.runner, f.part, f.loc, ledgerUC)
	return f
}

func (f *fixture) addStore(t *testing.T, code string) string {
	t.Helper()
	s := &entity.Store{ID: uuid.NewString(), Code: code, Name: "Bodega " + code}
	f.loc.Stores[s.ID] = s
	return s.ID
}

func (f *fixture) addPart(t *testing.T, partNo string, cost string) string {
	t.Helper()
	p := &entity.Part{
		ID:        uuid.NewString(),
		PartNo:    partNo,
		Name:      "Repuesto " + partNo,
		Cost:      decimal.RequireFromString(cost),
		CreatedAt: time.Now(),
	}
	require.NoError(t, f.part.Create(p))
	return p.ID
}

func (f *fixture) addAccount(t *testing.T, code, accType string) string {
	t.Helper()
	a := &entity.Account{
		ID:             uuid.NewString(),
		Code:           code,
		Name:           "Cuenta " + code,
		Type:           accType,
		CurrentBalance: decimal.Zero,
		Active:         true,
		CreatedAt:      time.Now(),
	}
	require.NoError(t, f.acc.Create(a))
	return a.ID
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestProcessReceive(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	partA := f.addPart(t, "FIL-001", "0")
	partB := f.addPart(t, "BUJ-002", "0")

	costs, err := f.uc.ProcessReceive(ctx, []domaincosting.ReceiptItem{
		{PartID: partA, Quantity: 10, PurchasePrice: dec("10.00")},
		{PartID: partB, Quantity: 1, PurchasePrice: dec("15.00")},
	}, dec("15.00"), domaincosting.MethodValue)
	require.NoError(t, err)
	require.Len(t, costs, 2)

	// Nada se escribe: es un cálculo puro.
	assert.Empty(t, f.mov.Movements)
	assert.Empty(t, f.entry.Entries)
	assert.True(t, f.part.Parts[partA].Cost.IsZero())

	t.Run("repuesto inexistente", func(t *testing.T) {
		_, err := f.uc.ProcessReceive(ctx, []domaincosting.ReceiptItem{
			{PartID: uuid.NewString(), Quantity: 1, PurchasePrice: dec("5.00")},
		}, decimal.Zero, domaincosting.MethodValue)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestApplyCostUpdate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	partID := f.addPart(t, "FIL-001", "8.00")

	t.Run("la última actualización gana", func(t *testing.T) {
		require.NoError(t, f.uc.ApplyCostUpdate(ctx, partID, dec("11.5000"), entity.CostSourceReceivedFromPurchase, "PO-2026-001"))
		require.NoError(t, f.uc.ApplyCostUpdate(ctx, partID, dec("9.2500"), entity.CostSourceReceivedFromPurchase, "PO-2026-002"))

		p := f.part.Parts[partID]
		assert.True(t, p.Cost.Equal(dec("9.2500")), "sobreescritura, no promedio")
		assert.Equal(t, entity.CostSourceReceivedFromPurchase, p.CostSource)
		assert.Equal(t, "PO-2026-002", p.CostSourceRef)
		assert.NotNil(t, p.CostUpdatedAt)
	})

	t.Run("entradas inválidas", func(t *testing.T) {
		assert.ErrorIs(t, f.uc.ApplyCostUpdate(ctx, partID, dec("-1"), entity.CostSourceManual, ""), domain.ErrValidation)
		assert.ErrorIs(t, f.uc.ApplyCostUpdate(ctx, partID, dec("1"), "", ""), domain.ErrValidation)
		assert.ErrorIs(t, f.uc.ApplyCostUpdate(ctx, uuid.NewString(), dec("1"), entity.CostSourceManual, ""), domain.ErrNotFound)
	})
}

func TestReceiveGoods(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*fixture, ReceiveGoodsInput) {
		f := newFixture(t)
		partA := f.addPart(t, "FIL-001", "0")
		partB := f.addPart(t, "BUJ-002", "0")
		input := ReceiveGoodsInput{
			Items: []domaincosting.ReceiptItem{
				{PartID: partA, Quantity: 10, PurchasePrice: dec("10.00")},
				{PartID: partB, Quantity: 1, PurchasePrice: dec("15.00")},
			},
			IncidentalExpenses: dec("15.00"),
			Method:             domaincosting.MethodValue,
			PONumber:           "PO-2026-001",
			Accounts: ReceiptAccounts{
				InventoryAccountID: f.addAccount(t, "1435", entity.AccountTypeAsset),
				ExpenseAccountID:   f.addAccount(t, "5305", entity.AccountTypeExpense),
				PayableAccountID:   f.addAccount(t, "2205", entity.AccountTypeLiability),
			},
			UserID: "op-1",
		}
		return f, input
	}

	t.Run("recepción completa", func(t *testing.T) {
		f, input := setup(t)

		// Reserva previa atada a la orden: debe liberarse al recibir.
		require.NoError(t, f.res.Create(&entity.StockReservation{
			ID:            uuid.NewString(),
			PartID:        input.Items[0].PartID,
			Quantity:      10,
			ReferenceType: entity.ReferencePurchaseOrder,
			ReferenceID:   "PO-2026-001",
		}))

		result, err := f.uc.ReceiveGoods(ctx, input)
		require.NoError(t, err)

		// Movimientos de entrada por renglón, atados a la orden.
		require.Len(t, result.MovementIDs, 2)
		require.Len(t, f.mov.Movements, 2)
		assert.Equal(t, entity.ReferencePurchaseOrder, f.mov.Movements[0].ReferenceType)
		balance, _ := f.mov.Balance(input.Items[0].PartID, repository.MovementFilter{})
		assert.Equal(t, int64(10), balance)

		// Reserva liberada.
		assert.Equal(t, int64(1), result.ReleasedReservations)
		assert.Empty(t, f.res.Reservations)

		// Costos en destino sobreescritos con procedencia.
		pA := f.part.Parts[input.Items[0].PartID]
		// Participación de A: 15 × 100/115 → 13.04; total de línea 113.04;
		// unitario 113.04/10 = 11.3040.
		assert.True(t, pA.Cost.Equal(dec("11.304")), "unitario prorrateado: got %s", pA.Cost)
		assert.Equal(t, entity.CostSourceReceivedFromPurchase, pA.CostSource)
		assert.Equal(t, "PO-2026-001", pA.CostSourceRef)

		// Asiento balanceado: 100+15 débito contra 115 crédito.
		entry, err := f.entry.GetByID(result.EntryID)
		require.NoError(t, err)
		require.NotNil(t, entry)
		assert.Equal(t, "RC-000001", entry.EntryNo)
		assert.True(t, entry.IsBalanced())
		assert.True(t, entry.TotalDebit().Equal(dec("130.00")))

		inv, _ := f.acc.GetByID(input.Accounts.InventoryAccountID)
		pay, _ := f.acc.GetByID(input.Accounts.PayableAccountID)
		exp, _ := f.acc.GetByID(input.Accounts.ExpenseAccountID)
		assert.True(t, inv.CurrentBalance.Equal(dec("115.00")))
		assert.True(t, pay.CurrentBalance.Equal(dec("130.00")))
		assert.True(t, exp.CurrentBalance.Equal(dec("15.00")))
	})

	t.Run("sin gastos incidentales no hay línea de gasto", func(t *testing.T) {
		f, input := setup(t)
		input.IncidentalExpenses = decimal.Zero
		input.Accounts.ExpenseAccountID = ""

		result, err := f.uc.ReceiveGoods(ctx, input)
		require.NoError(t, err)

		entry, err := f.entry.GetByID(result.EntryID)
		require.NoError(t, err)
		require.Len(t, entry.Lines, 2)
		assert.True(t, entry.TotalDebit().Equal(dec("115.00")))
	})

	t.Run("rechazo limpio: nada queda a medias", func(t *testing.T) {
		f, input := setup(t)
		// Cuenta de inventario inexistente: el asiento falla dentro de la tx.
		input.Accounts.InventoryAccountID = uuid.NewString()

		posted := testutil.ToFloat64(metrics.EntriesPosted.WithLabelValues(entity.EntryTypeReceipt))
		_, err := f.uc.ReceiveGoods(ctx, input)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		// Nota: con repositorios en memoria no hay rollback real; en producción
		// la transacción de BD descarta todas las escrituras previas del cierre.
		assert.Empty(t, f.acc.Deltas, "ningún saldo mutado")
		// Las métricas se incrementan después del commit: un rechazo no cuenta.
		assert.Equal(t, posted, testutil.ToFloat64(metrics.EntriesPosted.WithLabelValues(entity.EntryTypeReceipt)))
	})

	t.Run("ubicación registrada en los movimientos", func(t *testing.T) {
		f, input := setup(t)
		input.Location = entity.Location{StoreID: f.addStore(t, "B1")}

		_, err := f.uc.ReceiveGoods(ctx, input)
		require.NoError(t, err)
		require.Len(t, f.mov.Movements, 2)
		assert.Equal(t, input.Location.StoreID, f.mov.Movements[0].Location.StoreID)
	})

	t.Run("ubicación desconocida se rechaza antes de escribir", func(t *testing.T) {
		f, input := setup(t)
		input.Location = entity.Location{StoreID: uuid.NewString()}

		_, err := f.uc.ReceiveGoods(ctx, input)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Empty(t, f.mov.Movements, "ningún movimiento registrado")
		assert.Empty(t, f.acc.Deltas, "ningún saldo mutado")
	})

	t.Run("validación de entrada", func(t *testing.T) {
		f, input := setup(t)

		noPO := input
		noPO.PONumber = ""
		_, err := f.uc.ReceiveGoods(ctx, noPO)
		assert.ErrorIs(t, err, domain.ErrValidation)

		noPayable := input
		noPayable.Accounts.PayableAccountID = ""
		_, err = f.uc.ReceiveGoods(ctx, noPayable)
		assert.ErrorIs(t, err, domain.ErrValidation)

		noExpenseAcc := input
		noExpenseAcc.Accounts.ExpenseAccountID = ""
		_, err = f.uc.ReceiveGoods(ctx, noExpenseAcc)
		assert.ErrorIs(t, err, domain.ErrValidation, "gastos positivos exigen cuenta de gasto")
	})
}

func TestAdjustStock(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T, cost string) (*fixture, AdjustStockInput) {
		f := newFixture(t)
		partID := f.addPart(t, "FIL-001", cost)
		input := AdjustStockInput{
			PartID:    partID,
			Direction: entity.DirectionOut,
			Quantity:  3,
			Reason:    "conteo físico: faltante",
			Accounts: AdjustmentAccounts{
				InventoryAccountID:  f.addAccount(t, "1435", entity.AccountTypeAsset),
				AdjustmentAccountID: f.addAccount(t, "5310", entity.AccountTypeExpense),
			},
			UserID: "op-1",
		}
		return f, input
	}

	t.Run("salida valorada al costo vigente", func(t *testing.T) {
		f, input := setup(t, "11.3043")

		result, err := f.uc.AdjustStock(ctx, input)
		require.NoError(t, err)
		require.NotEmpty(t, result.MovementID)
		require.NotEmpty(t, result.EntryID)

		entry, err := f.entry.GetByID(result.EntryID)
		require.NoError(t, err)
		assert.Equal(t, "AJ-000001", entry.EntryNo)
		// 3 × 11.3043 = 33.9129 → 33.91 a dos decimales.
		assert.True(t, entry.TotalDebit().Equal(dec("33.91")))

		inv, _ := f.acc.GetByID(input.Accounts.InventoryAccountID)
		adj, _ := f.acc.GetByID(input.Accounts.AdjustmentAccountID)
		assert.True(t, inv.CurrentBalance.Equal(dec("-33.91")), "salida acredita inventario")
		assert.True(t, adj.CurrentBalance.Equal(dec("33.91")), "el gasto absorbe la pérdida")
	})

	t.Run("repuesto sin costo: movimiento sin asiento", func(t *testing.T) {
		f, input := setup(t, "0")

		result, err := f.uc.AdjustStock(ctx, input)
		require.NoError(t, err)
		assert.NotEmpty(t, result.MovementID)
		assert.Empty(t, result.EntryID)
		assert.Empty(t, f.entry.Entries)
	})

	t.Run("ubicación desconocida se rechaza antes de escribir", func(t *testing.T) {
		f, input := setup(t, "10")
		input.Location = entity.Location{StoreID: uuid.NewString()}

		_, err := f.uc.AdjustStock(ctx, input)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Empty(t, f.mov.Movements, "ningún movimiento registrado")
		assert.Empty(t, f.entry.Entries)
	})

	t.Run("validación de entrada", func(t *testing.T) {
		f, input := setup(t, "10")

		bad := input
		bad.Quantity = 0
		_, err := f.uc.AdjustStock(ctx, bad)
		assert.ErrorIs(t, err, domain.ErrValidation)

		bad = input
		bad.Direction = "lateral"
		_, err = f.uc.AdjustStock(ctx, bad)
		assert.ErrorIs(t, err, domain.ErrValidation)

		bad = input
		bad.PartID = uuid.NewString()
		_, err = f.uc.AdjustStock(ctx, bad)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
