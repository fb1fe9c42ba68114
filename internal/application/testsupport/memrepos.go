// Package testsupport provee repositorios en memoria para las pruebas de los
// casos de uso, sin base de datos.
package testsupport

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kirodsllc/inventario-contable/internal/domain"
	"github.com/kirodsllc/inventario-contable/internal/domain/entity"
	"github.com/kirodsllc/inventario-contable/internal/domain/repository"
)

// MemPartRepo repositorio de repuestos en memoria.
type MemPartRepo struct {
	Parts map[string]*entity.Part
}

func NewMemPartRepo() *MemPartRepo {
	return &MemPartRepo{Parts: make(map[string]*entity.Part)}
}

func (r *MemPartRepo) Create(part *entity.Part) error {
	r.Parts[part.ID] = part
	return nil
}

func (r *MemPartRepo) GetByID(id string) (*entity.Part, error) {
	return r.Parts[id], nil
}

func (r *MemPartRepo) ListByPartNo(partNo string) ([]*entity.Part, error) {
	var out []*entity.Part
	for _, p := range r.Parts {
		if p.PartNo == partNo {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemPartRepo) ExistsPartNo(partNo string) (bool, error) {
	for _, p := range r.Parts {
		if p.PartNo == partNo {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemPartRepo) Search(term string, limit, offset int) ([]*entity.Part, error) {
	var out []*entity.Part
	lower := strings.ToLower(term)
	for _, p := range r.Parts {
		if strings.Contains(strings.ToLower(p.PartNo), lower) ||
			strings.Contains(strings.ToLower(p.Name), lower) ||
			strings.Contains(strings.ToLower(p.Description), lower) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemPartRepo) UpdateCost(partID string, cost decimal.Decimal, source, sourceRef string, at time.Time) error {
	p, ok := r.Parts[partID]
	if !ok {
		return domain.ErrNotFound
	}
	p.Cost = cost
	p.CostSource = source
	p.CostSourceRef = sourceRef
	p.CostUpdatedAt = &at
	p.UpdatedAt = &at
	return nil
}

// MemMovementRepo libro de stock en memoria (append-only).
type MemMovementRepo struct {
	Movements   []*entity.StockMovement
	Corrections []*entity.MovementCorrection
}

func NewMemMovementRepo() *MemMovementRepo {
	return &MemMovementRepo{}
}

func (r *MemMovementRepo) Create(m *entity.StockMovement) error {
	r.Movements = append(r.Movements, m)
	return nil
}

func (r *MemMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	for _, m := range r.Movements {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, nil
}

func (r *MemMovementRepo) Balance(partID string, filter repository.MovementFilter) (int64, error) {
	var balance int64
	for _, m := range r.Movements {
		if m.PartID != partID {
			continue
		}
		if filter.StoreID != "" && m.Location.StoreID != filter.StoreID {
			continue
		}
		if filter.RackID != "" && m.Location.RackID != filter.RackID {
			continue
		}
		if filter.ShelfID != "" && m.Location.ShelfID != filter.ShelfID {
			continue
		}
		if m.Direction == entity.DirectionIn {
			balance += m.Quantity
		} else {
			balance -= m.Quantity
		}
	}
	return balance, nil
}

func (r *MemMovementRepo) ListByPart(partID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.Movements {
		if m.PartID != partID {
			continue
		}
		if from != nil && m.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && m.CreatedAt.After(*to) {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *MemMovementRepo) CreateCorrection(c *entity.MovementCorrection) error {
	for _, m := range r.Movements {
		if m.ID == c.MovementID {
			r.Corrections = append(r.Corrections, c)
			m.Location = c.NewLocation
			return nil
		}
	}
	return domain.ErrNotFound
}

// MemReservationRepo reservas de planeación en memoria.
type MemReservationRepo struct {
	Reservations []*entity.StockReservation
}

func NewMemReservationRepo() *MemReservationRepo {
	return &MemReservationRepo{}
}

func (r *MemReservationRepo) Create(res *entity.StockReservation) error {
	r.Reservations = append(r.Reservations, res)
	return nil
}

func (r *MemReservationRepo) SumByPart(partID string) (int64, error) {
	var sum int64
	for _, res := range r.Reservations {
		if res.PartID == partID {
			sum += res.Quantity
		}
	}
	return sum, nil
}

func (r *MemReservationRepo) ReleaseByReferences(referenceType string, referenceIDs []string) (int64, error) {
	ids := make(map[string]bool, len(referenceIDs))
	for _, id := range referenceIDs {
		ids[id] = true
	}
	var kept []*entity.StockReservation
	var released int64
	for _, res := range r.Reservations {
		if res.ReferenceType == referenceType && ids[res.ReferenceID] {
			released++
			continue
		}
		kept = append(kept, res)
	}
	r.Reservations = kept
	return released, nil
}

func (r *MemReservationRepo) ListByPart(partID string) ([]*entity.StockReservation, error) {
	var out []*entity.StockReservation
	for _, res := range r.Reservations {
		if res.PartID == partID {
			out = append(out, res)
		}
	}
	return out, nil
}

// MemAccountRepo plan de cuentas en memoria. Registra cada delta aplicado
// para poder afirmar sobre mutaciones en las pruebas.
type MemAccountRepo struct {
	Accounts map[string]*entity.Account
	Deltas   []AppliedDelta
}

// AppliedDelta traza de una llamada a ApplyDelta.
type AppliedDelta struct {
	AccountID string
	Delta     decimal.Decimal
}

func NewMemAccountRepo() *MemAccountRepo {
	return &MemAccountRepo{Accounts: make(map[string]*entity.Account)}
}

func (r *MemAccountRepo) Create(acc *entity.Account) error {
	if _, ok := r.Accounts[acc.ID]; ok {
		return domain.ErrDuplicate
	}
	for _, a := range r.Accounts {
		if a.Code == acc.Code {
			return domain.ErrDuplicate
		}
	}
	r.Accounts[acc.ID] = acc
	return nil
}

func (r *MemAccountRepo) GetByID(id string) (*entity.Account, error) {
	return r.Accounts[id], nil
}

func (r *MemAccountRepo) GetByCode(code string) (*entity.Account, error) {
	for _, a := range r.Accounts {
		if a.Code == code {
			return a, nil
		}
	}
	return nil, nil
}

func (r *MemAccountRepo) List(limit, offset int) ([]*entity.Account, error) {
	var out []*entity.Account
	for _, a := range r.Accounts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r *MemAccountRepo) ApplyDelta(accountID string, delta decimal.Decimal) error {
	acc, ok := r.Accounts[accountID]
	if !ok {
		return domain.ErrNotFound
	}
	acc.CurrentBalance = acc.CurrentBalance.Add(delta)
	acc.Version++
	r.Deltas = append(r.Deltas, AppliedDelta{AccountID: accountID, Delta: delta})
	return nil
}

// MemEntryRepo asientos en memoria. Rechaza números de comprobante repetidos
// igual que el constraint único de la tabla real.
type MemEntryRepo struct {
	Entries map[string]*entity.JournalEntry
}

func NewMemEntryRepo() *MemEntryRepo {
	return &MemEntryRepo{Entries: make(map[string]*entity.JournalEntry)}
}

func (r *MemEntryRepo) Create(entry *entity.JournalEntry) error {
	for _, e := range r.Entries {
		if e.EntryNo == entry.EntryNo {
			return domain.ErrDuplicate
		}
	}
	r.Entries[entry.ID] = entry
	return nil
}

func (r *MemEntryRepo) GetByID(id string) (*entity.JournalEntry, error) {
	return r.Entries[id], nil
}

func (r *MemEntryRepo) ListByReference(reference string) ([]*entity.JournalEntry, error) {
	var out []*entity.JournalEntry
	for _, e := range r.Entries {
		if e.Reference == reference {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EntryNo < out[j].EntryNo })
	return out, nil
}

func (r *MemEntryRepo) Delete(id string) error {
	if _, ok := r.Entries[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.Entries, id)
	return nil
}

// MemSequenceRepo contador de numeración en memoria.
type MemSequenceRepo struct {
	Counters map[string]int64
}

func NewMemSequenceRepo() *MemSequenceRepo {
	return &MemSequenceRepo{Counters: make(map[string]int64)}
}

func (r *MemSequenceRepo) Next(entryType string) (int64, error) {
	r.Counters[entryType]++
	return r.Counters[entryType], nil
}

// MemLocationRepo directorio de ubicaciones en memoria.
type MemLocationRepo struct {
	Stores  map[string]*entity.Store
	Racks   map[string]bool
	Shelves map[string]bool
}

func NewMemLocationRepo() *MemLocationRepo {
	return &MemLocationRepo{
		Stores:  make(map[string]*entity.Store),
		Racks:   make(map[string]bool),
		Shelves: make(map[string]bool),
	}
}

func (r *MemLocationRepo) ListStores() ([]*entity.Store, error) {
	var out []*entity.Store
	for _, s := range r.Stores {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r *MemLocationRepo) StoreExists(storeID string) (bool, error) {
	_, ok := r.Stores[storeID]
	return ok, nil
}

func (r *MemLocationRepo) RackExists(rackID string) (bool, error) {
	return r.Racks[rackID], nil
}

func (r *MemLocationRepo) ShelfExists(shelfID string) (bool, error) {
	return r.Shelves[shelfID], nil
}

// Runner ejecuta las funciones transaccionales directamente contra los
// repositorios en memoria. Err simula un fallo de transacción.
type Runner struct {
	Mov       *MemMovementRepo
	Res       *MemReservationRepo
	Part      *MemPartRepo
	Acc       *MemAccountRepo
	Entry     *MemEntryRepo
	Seq       *MemSequenceRepo
	Numbering repository.NumberingRunner // opcional; por defecto MemNumbering sobre Entry y Seq
	Err       error
}

func (r *Runner) Run(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	resRepo repository.StockReservationRepository,
	partRepo repository.PartRepository,
) error) error {
	if r.Err != nil {
		return r.Err
	}
	return fn(r.Mov, r.Res, r.Part)
}

func (r *Runner) RunPosting(ctx context.Context, fn func(
	accountRepo repository.AccountRepository,
	entryRepo repository.JournalEntryRepository,
	numbering repository.NumberingRunner,
) error) error {
	if r.Err != nil {
		return r.Err
	}
	return fn(r.Acc, r.Entry, r.numbering())
}

func (r *Runner) RunReceiving(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	resRepo repository.StockReservationRepository,
	partRepo repository.PartRepository,
	accountRepo repository.AccountRepository,
	entryRepo repository.JournalEntryRepository,
	numbering repository.NumberingRunner,
) error) error {
	if r.Err != nil {
		return r.Err
	}
	return fn(r.Mov, r.Res, r.Part, r.Acc, r.Entry, r.numbering())
}

func (r *Runner) numbering() repository.NumberingRunner {
	if r.Numbering != nil {
		return r.Numbering
	}
	return MemNumbering{Entry: r.Entry, Seq: r.Seq}
}

// MemNumbering corre los intentos de numeración directamente contra los repos
// en memoria. No necesita savepoints: MemEntryRepo rechaza el duplicado antes
// de escribir, así que un intento fallido no deja nada que revertir.
type MemNumbering struct {
	Entry repository.JournalEntryRepository
	Seq   repository.SequenceRepository
	Calls *int // si no es nil, cuenta los intentos ejecutados
}

func (n MemNumbering) RunNumbering(ctx context.Context, fn func(
	entryRepo repository.JournalEntryRepository,
	seqRepo repository.SequenceRepository,
) error) error {
	if n.Calls != nil {
		*n.Calls++
	}
	return fn(n.Entry, n.Seq)
}
