// Package stockledger implementa el libro de stock: registro append-only de
// movimientos, balances derivados y reservas de planeación.
package stockledger

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/kirodsllc/inventario-contable/internal/domain"
	"github.com/kirodsllc/inventario-contable/internal/domain/entity"
	"github.com/kirodsllc/inventario-contable/internal/domain/repository"
	"github.com/kirodsllc/inventario-contable/pkg/metrics"
)

// UseCase operaciones del libro de stock. Las lecturas van directo al pool
// (sin bloqueos, snapshot por consulta); las escrituras pasan por TxRunner.
type UseCase struct {
	txRunner     TxRunner
	movementRepo repository.StockMovementRepository
	resRepo      repository.StockReservationRepository
	partRepo     repository.PartRepository
	locationRepo repository.LocationRepository
}

// NewUseCase construye el caso de uso del libro de stock.
func NewUseCase(
	txRunner TxRunner,
	movementRepo repository.StockMovementRepository,
	resRepo repository.StockReservationRepository,
	partRepo repository.PartRepository,
	locationRepo repository.LocationRepository,
) *UseCase {
	return &UseCase{
		txRunner:     txRunner,
		movementRepo: movementRepo,
		resRepo:      resRepo,
		partRepo:     partRepo,
		locationRepo: locationRepo,
	}
}

// RecordMovementInput entrada para registrar un movimiento de stock.
type RecordMovementInput struct {
	PartID        string
	Direction     string // in, out
	Quantity      int64
	Location      entity.Location
	ReferenceType string
	ReferenceID   string
	Notes         string
	UserID        string
}

// RecordMovement valida y registra un movimiento del libro de stock.
// No verifica capacidad: el balance puede quedar negativo y eso señala un
// problema de datos aguas arriba que se muestra tal cual, no se recorta.
func (uc *UseCase) RecordMovement(ctx context.Context, input RecordMovementInput) (string, error) {
	if input.Quantity <= 0 {
		return "", domain.ErrValidation
	}
	if input.Direction != entity.DirectionIn && input.Direction != entity.DirectionOut {
		return "", domain.ErrValidation
	}
	part, err := uc.partRepo.GetByID(input.PartID)
	if err != nil {
		return "", err
	}
	if part == nil {
		return "", domain.ErrNotFound
	}
	if err := uc.validateLocation(input.Location); err != nil {
		return "", err
	}

	mov := &entity.StockMovement{
		ID:            uuid.New().String(),
		PartID:        input.PartID,
		Direction:     input.Direction,
		Quantity:      input.Quantity,
		Location:      input.Location,
		ReferenceType: input.ReferenceType,
		ReferenceID:   input.ReferenceID,
		Notes:         input.Notes,
		CreatedAt:     time.Now(),
		CreatedBy:     input.UserID,
	}
	err = uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		_ repository.StockReservationRepository,
		_ repository.PartRepository,
	) error {
		return movRepo.Create(mov)
	})
	if err != nil {
		return "", err
	}
	metrics.MovementsRecorded.WithLabelValues(input.Direction).Inc()
	return mov.ID, nil
}

// GetBalance devuelve Σin − Σout del repuesto, opcionalmente filtrado por
// ubicación. Las reservas nunca se netean aquí. Puede ser negativo.
func (uc *UseCase) GetBalance(ctx context.Context, partID string, filter repository.MovementFilter) (int64, error) {
	part, err := uc.partRepo.GetByID(partID)
	if err != nil {
		return 0, err
	}
	if part == nil {
		return 0, domain.ErrNotFound
	}
	return uc.movementRepo.Balance(partID, filter)
}

// AvailableQuantity cantidad disponible de exhibición:
// max(0, balance − Σreservas). Solo para display; el balance real no se recorta.
func (uc *UseCase) AvailableQuantity(ctx context.Context, partID string) (int64, error) {
	balance, err := uc.GetBalance(ctx, partID, repository.MovementFilter{})
	if err != nil {
		return 0, err
	}
	reserved, err := uc.resRepo.SumByPart(partID)
	if err != nil {
		return 0, err
	}
	available := balance - reserved
	if available < 0 {
		available = 0
	}
	return available, nil
}

// ReserveInput entrada para crear una reserva de planeación.
type ReserveInput struct {
	PartID        string
	Quantity      int64
	ReferenceType string
	ReferenceID   string
	Notes         string
	UserID        string
}

// Reserve crea una reserva. Sin verificación de capacidad contra el balance:
// la reserva es una señal de planeación, no una retención de stock real.
func (uc *UseCase) Reserve(ctx context.Context, input ReserveInput) (string, error) {
	if input.Quantity <= 0 {
		return "", domain.ErrValidation
	}
	part, err := uc.partRepo.GetByID(input.PartID)
	if err != nil {
		return "", err
	}
	if part == nil {
		return "", domain.ErrNotFound
	}

	res := &entity.StockReservation{
		ID:            uuid.New().String(),
		PartID:        input.PartID,
		Quantity:      input.Quantity,
		ReferenceType: input.ReferenceType,
		ReferenceID:   input.ReferenceID,
		Notes:         input.Notes,
		CreatedAt:     time.Now(),
		CreatedBy:     input.UserID,
	}
	err = uc.txRunner.Run(ctx, func(
		_ repository.StockMovementRepository,
		resRepo repository.StockReservationRepository,
		_ repository.PartRepository,
	) error {
		return resRepo.Create(res)
	})
	if err != nil {
		return "", err
	}
	metrics.ReservationsCreated.Inc()
	return res.ID, nil
}

// ReleaseReservations libera en bloque las reservas atadas a las referencias
// dadas (ej. órdenes de compra ya recibidas). Devuelve cuántas se liberaron.
func (uc *UseCase) ReleaseReservations(ctx context.Context, referenceType string, referenceIDs []string) (int64, error) {
	if len(referenceIDs) == 0 {
		return 0, domain.ErrValidation
	}
	var released int64
	err := uc.txRunner.Run(ctx, func(
		_ repository.StockMovementRepository,
		resRepo repository.StockReservationRepository,
		_ repository.PartRepository,
	) error {
		var err error
		released, err = resRepo.ReleaseByReferences(referenceType, referenceIDs)
		return err
	})
	return released, err
}

// CorrectLocationInput entrada para corregir la ubicación de un movimiento histórico.
type CorrectLocationInput struct {
	MovementID  string
	NewLocation entity.Location
	Reason      string
	UserID      string
}

// CorrectLocation registra un evento de corrección que reasigna la ubicación
// de un movimiento ya existente. Solo toca metadatos no financieros: cantidad,
// dirección y repuesto son inmutables.
func (uc *UseCase) CorrectLocation(ctx context.Context, input CorrectLocationInput) (string, error) {
	mov, err := uc.movementRepo.GetByID(input.MovementID)
	if err != nil {
		return "", err
	}
	if mov == nil {
		return "", domain.ErrNotFound
	}
	if err := uc.validateLocation(input.NewLocation); err != nil {
		return "", err
	}

	correction := &entity.MovementCorrection{
		ID:          uuid.New().String(),
		MovementID:  mov.ID,
		OldLocation: mov.Location,
		NewLocation: input.NewLocation,
		Reason:      input.Reason,
		CreatedAt:   time.Now(),
		CreatedBy:   input.UserID,
	}
	err = uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		_ repository.StockReservationRepository,
		_ repository.PartRepository,
	) error {
		return movRepo.CreateCorrection(correction)
	})
	if err != nil {
		return "", err
	}
	return correction.ID, nil
}

// ListMovements historial de movimientos de un repuesto (más recientes primero).
func (uc *UseCase) ListMovements(ctx context.Context, partID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return uc.movementRepo.ListByPart(partID, from, to, limit, offset)
}

// ListStores directorio de bodegas para etiquetar movimientos.
func (uc *UseCase) ListStores(ctx context.Context) ([]*entity.Store, error) {
	return uc.locationRepo.ListStores()
}

// validateLocation verifica que las etiquetas de ubicación existan en el
// directorio. Etiquetas vacías son válidas (la ubicación es opcional).
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
