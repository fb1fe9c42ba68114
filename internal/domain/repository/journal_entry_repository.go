package repository

import "github.com/kirodsllc/inventario-contable/internal/domain/entity"

// JournalEntryRepository define el puerto de persistencia de asientos (DIP).
// Los asientos no se editan: se crean completos y se eliminan completos
// (la reversa de saldos la orquesta el motor de asientos antes de Delete).
type JournalEntryRepository interface {
	// Create inserta el asiento con sus líneas. Devuelve domain.ErrDuplicate
	// si el número de comprobante ya existe.
	Create(entry *entity.JournalEntry) error
	GetByID(id string) (*entity.JournalEntry, error)
	ListByReference(reference string) ([]*entity.JournalEntry, error)
	Delete(id string) error
}

// SequenceRepository asigna números de comprobante por tipo.
type SequenceRepository interface {
	// Next devuelve el siguiente número de la secuencia del tipo, en una sola
	// sentencia atómica (sin ventana de lectura-escritura).
	Next(entryType string) (int64, error)
}
