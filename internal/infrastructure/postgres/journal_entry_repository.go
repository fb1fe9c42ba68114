package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/kirodsllc/inventario-contable/internal/domain"
	"github.com/kirodsllc/inventario-contable/internal/domain/entity"
	"github.com/kirodsllc/inventario-contable/internal/domain/repository"
)

var _ repository.JournalEntryRepository = (*JournalEntryRepo)(nil)

// JournalEntryRepo implementación de asientos sobre PostgreSQL (usable con pool o tx).
type JournalEntryRepo struct {
	q Querier
}

// NewJournalEntryRepository construye el adaptador de asientos. Pasar pool o tx (Querier).
func NewJournalEntryRepository(q Querier) *JournalEntryRepo {
	return &JournalEntryRepo{q: q}
}

// Create inserta el asiento con sus líneas. Número de comprobante duplicado
// devuelve domain.ErrDuplicate (dispara el reintento de numeración del motor).
func (r *JournalEntryRepo) Create(e *entity.JournalEntry) error {
	insertEntry := `
		INSERT INTO journal_entries (id, entry_no, entry_type, date, status, reference, description, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), insertEntry,
		e.ID, e.EntryNo, e.EntryType, e.Date, e.Status,
		nullable(e.Reference), nullable(e.Description), e.CreatedAt, nullable(e.CreatedBy),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert journal entry: %w", err)
	}

	insertLine := `
		INSERT INTO journal_lines (id, entry_id, account_id, debit, credit, description, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for _, l := range e.Lines {
		_, err := r.q.Exec(context.Background(), insertLine,
			l.ID, e.ID, l.AccountID, l.Debit, l.Credit, nullable(l.Description), l.Position,
		)
		if err != nil {
			return fmt.Errorf("insert journal line: %w", err)
		}
	}
	return nil
}

// GetByID obtiene un asiento con sus líneas ordenadas por posición.
func (r *JournalEntryRepo) GetByID(id string) (*entity.JournalEntry, error) {
	query := `
		SELECT id, entry_no, entry_type, date, status, reference, description, created_at, created_by
		FROM journal_entries WHERE id = $1`
	var e entity.JournalEntry
	var reference, description, createdBy *string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&e.ID, &e.EntryNo, &e.EntryType, &e.Date, &e.Status,
		&reference, &description, &e.CreatedAt, &createdBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get journal entry: %w", err)
	}
	e.Reference = deref(reference)
	e.Description = deref(description)
	e.CreatedBy = deref(createdBy)

	lines, err := r.linesFor(e.ID)
	if err != nil {
		return nil, err
	}
	e.Lines = lines
	return &e, nil
}

// ListByReference lista asientos atados a una referencia de negocio.
func (r *JournalEntryRepo) ListByReference(reference string) ([]*entity.JournalEntry, error) {
	query := `
		SELECT id, entry_no, entry_type, date, status, reference, description, created_at, created_by
		FROM journal_entries WHERE reference = $1 ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, reference)
	if err != nil {
		return nil, fmt.Errorf("list entries by reference: %w", err)
	}
	defer rows.Close()

	var list []*entity.JournalEntry
	for rows.Next() {
		var e entity.JournalEntry
		var ref, description, createdBy *string
		if err := rows.Scan(&e.ID, &e.EntryNo, &e.EntryType, &e.Date, &e.Status,
			&ref, &description, &e.CreatedAt, &createdBy); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		e.Reference = deref(ref)
		e.Description = deref(description)
		e.CreatedBy = deref(createdBy)
		list = append(list, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, e := range list {
		lines, err := r.linesFor(e.ID)
		if err != nil {
			return nil, err
		}
		e.Lines = lines
	}
	return list, nil
}

// Delete elimina el asiento; las líneas caen por ON DELETE CASCADE.
func (r *JournalEntryRepo) Delete(id string) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM journal_entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete journal entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *JournalEntryRepo) linesFor(entryID string) ([]entity.JournalLine, error) {
	query := `
		SELECT id, entry_id, account_id, debit, credit, description, position
		FROM journal_lines WHERE entry_id = $1 ORDER BY position`
	rows, err := r.q.Query(context.Background(), query, entryID)
	if err != nil {
		return nil, fmt.Errorf("list journal lines: %w", err)
	}
	defer rows.Close()

	var lines []entity.JournalLine
	for rows.Next() {
		var l entity.JournalLine
		var description *string
		if err := rows.Scan(&l.ID, &l.EntryID, &l.AccountID, &l.Debit, &l.Credit, &description, &l.Position); err != nil {
			return nil, fmt.Errorf("scan journal line: %w", err)
		}
		l.Description = deref(description)
		lines = append(lines, l)
	}
	return lines, rows.Err()
}
