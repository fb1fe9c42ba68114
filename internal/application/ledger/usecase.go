// Package ledger implementa el motor de asientos de partida doble: validación
// de balance exacto, numeración de comprobantes con reintento acotado y
// mutación atómica de saldos con reversa exacta.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kirodsllc/inventario-contable/internal/domain"
	"github.com/kirodsllc/inventario-contable/internal/domain/entity"
	"github.com/kirodsllc/inventario-contable/internal/domain/repository"
	"github.com/kirodsllc/inventario-contable/pkg/metrics"
)

// maxNumberAttempts reintentos de numeración ante colisión de número único.
const maxNumberAttempts = 3

// Prefijos de numeración por tipo de comprobante.
var entryPrefixes = map[string]string{
	entity.EntryTypeReceipt:    "RC",
	entity.EntryTypeAdjustment: "AJ",
	entity.EntryTypeManual:     "CM",
}

// UseCase motor de asientos contables.
type UseCase struct {
	txRunner    PostingTxRunner
	accountRepo repository.AccountRepository
	entryRepo   repository.JournalEntryRepository
}

// NewUseCase construye el motor de asientos.
func NewUseCase(
	txRunner PostingTxRunner,
	accountRepo repository.AccountRepository,
	entryRepo repository.JournalEntryRepository,
) *UseCase {
	return &UseCase{txRunner: txRunner, accountRepo: accountRepo, entryRepo: entryRepo}
}

// LineInput línea débito/crédito de un asiento a postear.
type LineInput struct {
	AccountID   string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Description string
}

// EntryMetadata metadatos del asiento.
type EntryMetadata struct {
	EntryType   string
	Date        time.Time
	Reference   string
	Description string
	UserID      string
}

// PostEntry valida y postea un asiento balanceado en su propia transacción.
// Toda validación ocurre antes de cualquier escritura: en rechazo no muta nada.
func (uc *UseCase) PostEntry(ctx context.Context, lines []LineInput, meta EntryMetadata) (string, error) {
	var entryID string
	var retries int
	err := uc.txRunner.RunPosting(ctx, func(
		accountRepo repository.AccountRepository,
		_ repository.JournalEntryRepository,
		numbering repository.NumberingRunner,
	) error {
		var err error
		entryID, retries, err = uc.PostEntryInTx(ctx, accountRepo, numbering, lines, meta)
		return err
	})
	if err != nil {
		return "", err
	}
	// Métricas solo después del commit: un rollback no debe contar.
	if retries > 0 {
		metrics.SequenceRetries.Add(float64(retries))
	}
	metrics.EntriesPosted.WithLabelValues(meta.EntryType).Inc()
	return entryID, nil
}

// PostEntryInTx postea un asiento usando los repositorios del caller (misma
// transacción). Permite que otros casos de uso (recepción de mercancía,
// ajustes) incluyan el asiento en su propia unidad atómica. Devuelve además
// cuántos reintentos de numeración hubo, para que el caller los cuente en
// métricas después de su propio commit.
func (uc *UseCase) PostEntryInTx(
	ctx context.Context,
	accountRepo repository.AccountRepository,
	numbering repository.NumberingRunner,
	lines []LineInput,
	meta EntryMetadata,
) (string, int, error) {
	if err := validateLines(lines); err != nil {
		return "", 0, err
	}
	prefix, ok := entryPrefixes[meta.EntryType]
	if !ok {
		return "", 0, domain.ErrValidation
	}

	// Verificar cuentas (existen y activas) y capturar su tipo para los deltas.
	accountTypes := make(map[string]string, len(lines))
	for _, l := range lines {
		if _, seen := accountTypes[l.AccountID]; seen {
			continue
		}
		acc, err := accountRepo.GetByID(l.AccountID)
		if err != nil {
			return "", 0, err
		}
		if acc == nil {
			return "", 0, domain.ErrNotFound
		}
		if !acc.Active {
			return "", 0, domain.ErrValidation
		}
		accountTypes[l.AccountID] = acc.Type
	}

	now := time.Now()
	date := meta.Date
	if date.IsZero() {
		date = now
	}
	entry := &entity.JournalEntry{
		ID:          uuid.New().String(),
		EntryType:   meta.EntryType,
		Date:        date,
		Status:      entity.EntryStatusPosted,
		Reference:   meta.Reference,
		Description: meta.Description,
		CreatedAt:   now,
		CreatedBy:   meta.UserID,
	}
	for i, l := range lines {
		entry.Lines = append(entry.Lines, entity.JournalLine{
			ID:          uuid.New().String(),
			EntryID:     entry.ID,
			AccountID:   l.AccountID,
			Debit:       l.Debit,
			Credit:      l.Credit,
			Description: l.Description,
			Position:    i + 1,
		})
	}

	// Numeración: contador atómico por tipo + reintento acotado si el número
	// asignado choca con uno ya usado (huecos permitidos, duplicados jamás).
	// Cada intento corre en su propia sub-transacción: en PostgreSQL la
	// violación de unicidad aborta la transacción en curso, y sin el savepoint
	// el siguiente intento moriría con "current transaction is aborted".
	var created bool
	var retries int
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		err := numbering.RunNumbering(ctx, func(
			entryRepo repository.JournalEntryRepository,
			seqRepo repository.SequenceRepository,
		) error {
			n, err := seqRepo.Next(meta.EntryType)
			if err != nil {
				return err
			}
			entry.EntryNo = fmt.Sprintf("%s-%06d", prefix, n)
			return entryRepo.Create(entry)
		})
		if err == nil {
			created = true
			break
		}
		if !errors.Is(err, domain.ErrDuplicate) {
			return "", retries, err
		}
		retries++
	}
	if !created {
		return "", retries, domain.ErrConflict
	}

	// Incrementos de saldo, uno por línea, dentro de la misma transacción.
	for _, l := range entry.Lines {
		delta := entity.BalanceChange(accountTypes[l.AccountID], l.Debit, l.Credit)
		if err := accountRepo.ApplyDelta(l.AccountID, delta); err != nil {
			return "", retries, err
		}
	}
	return entry.ID, retries, nil
}

// ReverseEntry aplica a cada cuenta la negación exacta del delta original y
// elimina el asiento con sus líneas, todo en una transacción. Los deltas son
// aditivos y conmutativos: la reversa restaura el saldo previo aunque haya
// habido posteos no relacionados en el medio.
func (uc *UseCase) ReverseEntry(ctx context.Context, entryID string) error {
	err := uc.txRunner.RunPosting(ctx, func(
		accountRepo repository.AccountRepository,
		entryRepo repository.JournalEntryRepository,
		_ repository.NumberingRunner,
	) error {
		return uc.ReverseEntryInTx(ctx, accountRepo, entryRepo, entryID)
	})
	if err != nil {
		return err
	}
	metrics.EntriesReversed.Inc()
	return nil
}

// ReverseEntryInTx reversa un asiento usando los repositorios del caller.
func (uc *UseCase) ReverseEntryInTx(
	ctx context.Context,
	accountRepo repository.AccountRepository,
	entryRepo repository.JournalEntryRepository,
	entryID string,
) error {
	entry, err := entryRepo.GetByID(entryID)
	if err != nil {
		return err
	}
	if entry == nil {
		return domain.ErrNotFound
	}
	for _, l := range entry.Lines {
		acc, err := accountRepo.GetByID(l.AccountID)
		if err != nil {
			return err
		}
		if acc == nil {
			return domain.ErrIntegrity
		}
		delta := entity.BalanceChange(acc.Type, l.Debit, l.Credit)
		if err := accountRepo.ApplyDelta(l.AccountID, delta.Neg()); err != nil {
			return err
		}
	}
	return entryRepo.Delete(entryID)
}

// CreateAccountInput entrada para dar de alta una cuenta del plan.
type CreateAccountInput struct {
	Code string
	Name string
	Type string
}

var validAccountTypes = map[string]bool{
	entity.AccountTypeAsset:     true,
	entity.AccountTypeLiability: true,
	entity.AccountTypeEquity:    true,
	entity.AccountTypeRevenue:   true,
	entity.AccountTypeExpense:   true,
	entity.AccountTypeCost:      true,
}

// CreateAccount da de alta una cuenta con saldo cero. Código duplicado
// devuelve domain.ErrDuplicate.
func (uc *UseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*entity.Account, error) {
	if input.Code == "" || input.Name == "" || !validAccountTypes[input.Type] {
		return nil, domain.ErrValidation
	}
	acc := &entity.Account{
		ID:             uuid.New().String(),
		Code:           input.Code,
		Name:           input.Name,
		Type:           input.Type,
		CurrentBalance: decimal.Zero,
		Active:         true,
		CreatedAt:      time.Now(),
	}
	if err := uc.accountRepo.Create(acc); err != nil {
		return nil, err
	}
	return acc, nil
}

// GetAccount consulta una cuenta por ID.
func (uc *UseCase) GetAccount(ctx context.Context, id string) (*entity.Account, error) {
	acc, err := uc.accountRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, domain.ErrNotFound
	}
	return acc, nil
}

// ListAccounts lista el plan de cuentas ordenado por código.
func (uc *UseCase) ListAccounts(ctx context.Context, limit, offset int) ([]*entity.Account, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return uc.accountRepo.List(limit, offset)
}

// GetEntry consulta un asiento con sus líneas.
func (uc *UseCase) GetEntry(ctx context.Context, entryID string) (*entity.JournalEntry, error) {
	entry, err := uc.entryRepo.GetByID(entryID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, domain.ErrNotFound
	}
	return entry, nil
}

// validateLines valida la forma del asiento antes de tocar almacenamiento:
// al menos dos líneas, montos no negativos, ninguna línea vacía y
// Σdébitos == Σcréditos exacto.
func validateLines(lines []LineInput) error {
	if len(lines) < 2 {
		return domain.ErrValidation
	}
	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for _, l := range lines {
		if l.AccountID == "" {
			return domain.ErrValidation
		}
		if l.Debit.IsNegative() || l.Credit.IsNegative() {
			return domain.ErrValidation
		}
		if l.Debit.IsZero() && l.Credit.IsZero() {
			return domain.ErrValidation
		}
		totalDebit = totalDebit.Add(l.Debit)
		totalCredit = totalCredit.Add(l.Credit)
	}
	if !totalDebit.Equal(totalCredit) {
		return domain.ErrIntegrity
	}
	return nil
}
