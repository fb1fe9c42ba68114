package stockledger

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirodsllc/inventario-contable/internal/application/testsupport"
	"github.com/kirodsllc/inventario-contable/internal/domain"
	"github.com/kirodsllc/inventario-contable/internal/domain/entity"
	"github.com/kirodsllc/inventario-contable/internal/domain/repository"
)

type fixture struct {
	uc   *UseCase
	mov  *testsupport.MemMovementRepo
	res  *testsupport.MemReservationRepo
	part *testsupport.MemPartRepo
	loc  *testsupport.MemLocationRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mov := testsupport.NewMemMovementRepo()
	res := testsupport.NewMemReservationRepo()
	part := testsupport.NewMemPartRepo()
	loc := testsupport.NewMemLocationRepo()
	runner := &testsupport.Runner{Mov: mov, Res: res, Part: part}
	return &fixture{
		uc:   NewUseCase(runner, mov, res, part, loc),
		mov:  mov,
		res:  res,
		part: part,
		loc:  loc,
	}
}

func (f *fixture) addPart(t *testing.T, partNo string) string {
	t.Helper()
	p := &entity.Part{ID: uuid.NewString(), PartNo: partNo, Name: "Filtro de aceite", CreatedAt: time.Now()}
	require.NoError(t, f.part.Create(p))
	return p.ID
}

func TestRecordMovement(t *testing.T) {
	ctx := context.Background()

	t.Run("entrada válida", func(t *testing.T) {
		f := newFixture(t)
		partID := f.addPart(t, "FIL-001")

		id, err := f.uc.RecordMovement(ctx, RecordMovementInput{
			PartID:    partID,
			Direction: entity.DirectionIn,
			Quantity:  50,
			UserID:    "op-1",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, id)
		require.Len(t, f.mov.Movements, 1)
		assert.Equal(t, int64(50), f.mov.Movements[0].Quantity)
	})

	t.Run("cantidad cero o negativa se rechaza", func(t *testing.T) {
		f := newFixture(t)
		partID := f.addPart(t, "FIL-001")

		_, err := f.uc.RecordMovement(ctx, RecordMovementInput{PartID: partID, Direction: entity.DirectionIn, Quantity: 0})
		assert.ErrorIs(t, err, domain.ErrValidation)
		_, err = f.uc.RecordMovement(ctx, RecordMovementInput{PartID: partID, Direction: entity.DirectionOut, Quantity: -3})
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.Empty(t, f.mov.Movements)
	})

	t.Run("dirección inválida se rechaza", func(t *testing.T) {
		f := newFixture(t)
		partID := f.addPart(t, "FIL-001")

		_, err := f.uc.RecordMovement(ctx, RecordMovementInput{PartID: partID, Direction: "sideways", Quantity: 1})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("repuesto inexistente", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.uc.RecordMovement(ctx, RecordMovementInput{
			PartID: uuid.NewString(), Direction: entity.DirectionIn, Quantity: 1,
		})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("ubicación desconocida se rechaza", func(t *testing.T) {
		f := newFixture(t)
		partID := f.addPart(t, "FIL-001")

		_, err := f.uc.RecordMovement(ctx, RecordMovementInput{
			PartID:    partID,
			Direction: entity.DirectionIn,
			Quantity:  1,
			Location:  entity.Location{StoreID: "bodega-fantasma"},
		})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestGetBalance(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	partID := f.addPart(t, "FIL-001")
	f.loc.Stores["bodega-1"] = &entity.Store{ID: "bodega-1", Code: "B1"}

	record := func(direction string, qty int64, loc entity.Location) {
		_, err := f.uc.RecordMovement(ctx, RecordMovementInput{
			PartID: partID, Direction: direction, Quantity: qty, Location: loc,
		})
		require.NoError(t, err)
	}
	record(entity.DirectionIn, 50, entity.Location{StoreID: "bodega-1"})
	record(entity.DirectionOut, 20, entity.Location{})

	t.Run("balance global", func(t *testing.T) {
		balance, err := f.uc.GetBalance(ctx, partID, repository.MovementFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(30), balance)
	})

	t.Run("filtrado por bodega", func(t *testing.T) {
		balance, err := f.uc.GetBalance(ctx, partID, repository.MovementFilter{StoreID: "bodega-1"})
		require.NoError(t, err)
		assert.Equal(t, int64(50), balance)
	})

	t.Run("balance negativo no se recorta", func(t *testing.T) {
		record(entity.DirectionOut, 100, entity.Location{})
		balance, err := f.uc.GetBalance(ctx, partID, repository.MovementFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(-70), balance)
	})

	t.Run("repuesto inexistente", func(t *testing.T) {
		_, err := f.uc.GetBalance(ctx, uuid.NewString(), repository.MovementFilter{})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestReserveAndAvailable(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	partID := f.addPart(t, "FIL-001")

	_, err := f.uc.RecordMovement(ctx, RecordMovementInput{PartID: partID, Direction: entity.DirectionIn, Quantity: 50})
	require.NoError(t, err)
	_, err = f.uc.RecordMovement(ctx, RecordMovementInput{PartID: partID, Direction: entity.DirectionOut, Quantity: 20})
	require.NoError(t, err)

	// La reserva no verifica capacidad: 100 sobre un balance de 30 es válido.
	_, err = f.uc.Reserve(ctx, ReserveInput{
		PartID:        partID,
		Quantity:      100,
		ReferenceType: entity.ReferencePurchaseOrder,
		ReferenceID:   "PO-2026-001",
	})
	require.NoError(t, err)

	balance, err := f.uc.GetBalance(ctx, partID, repository.MovementFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(30), balance, "las reservas no tocan el balance")

	available, err := f.uc.AvailableQuantity(ctx, partID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), available, "disponible se recorta a cero, nunca negativo")

	t.Run("liberar por referencia", func(t *testing.T) {
		released, err := f.uc.ReleaseReservations(ctx, entity.ReferencePurchaseOrder, []string{"PO-2026-001"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), released)

		available, err := f.uc.AvailableQuantity(ctx, partID)
		require.NoError(t, err)
		assert.Equal(t, int64(30), available)
	})

	t.Run("liberar sin referencias se rechaza", func(t *testing.T) {
		_, err := f.uc.ReleaseReservations(ctx, entity.ReferencePurchaseOrder, nil)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("reserva con cantidad inválida", func(t *testing.T) {
		_, err := f.uc.Reserve(ctx, ReserveInput{PartID: partID, Quantity: 0})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("reserva sin referencia es válida", func(t *testing.T) {
		// La referencia es opcional: la reserva sigue contando contra el disponible.
		id, err := f.uc.Reserve(ctx, ReserveInput{PartID: partID, Quantity: 4})
		require.NoError(t, err)
		assert.NotEmpty(t, id)
	})
}

func TestBalanceOrderIndependence(t *testing.T) {
	// El balance es una suma: el mismo conjunto de movimientos en cualquier
	// orden produce el mismo resultado.
	ctx := context.Background()
	type step struct {
		direction string
		qty       int64
	}
	steps := []step{
		{entity.DirectionIn, 50},
		{entity.DirectionOut, 20},
		{entity.DirectionIn, 5},
		{entity.DirectionOut, 10},
	}

	runOrder := func(order []int) int64 {
		f := newFixture(t)
		partID := f.addPart(t, "FIL-001")
		for _, i := range order {
			_, err := f.uc.RecordMovement(ctx, RecordMovementInput{
				PartID: partID, Direction: steps[i].direction, Quantity: steps[i].qty,
			})
			require.NoError(t, err)
		}
		balance, err := f.uc.GetBalance(ctx, partID, repository.MovementFilter{})
		require.NoError(t, err)
		return balance
	}

	assert.Equal(t, int64(25), runOrder([]int{0, 1, 2, 3}))
	assert.Equal(t, int64(25), runOrder([]int{3, 2, 1, 0}))
	assert.Equal(t, int64(25), runOrder([]int{1, 3, 0, 2}))
}

func TestCorrectLocation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	partID := f.addPart(t, "FIL-001")
	f.loc.Stores["bodega-1"] = &entity.Store{ID: "bodega-1", Code: "B1"}
	f.loc.Stores["bodega-2"] = &entity.Store{ID: "bodega-2", Code: "B2"}

	movID, err := f.uc.RecordMovement(ctx, RecordMovementInput{
		PartID:    partID,
		Direction: entity.DirectionIn,
		Quantity:  50,
		Location:  entity.Location{StoreID: "bodega-1"},
	})
	require.NoError(t, err)

	t.Run("corrige solo la ubicación", func(t *testing.T) {
		corrID, err := f.uc.CorrectLocation(ctx, CorrectLocationInput{
			MovementID:  movID,
			NewLocation: entity.Location{StoreID: "bodega-2"},
			Reason:      "registrado en bodega equivocada",
			UserID:      "op-1",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, corrID)

		mov, err := f.mov.GetByID(movID)
		require.NoError(t, err)
		assert.Equal(t, "bodega-2", mov.Location.StoreID)
		assert.Equal(t, int64(50), mov.Quantity, "cantidad inmutable")
		assert.Equal(t, entity.DirectionIn, mov.Direction, "dirección inmutable")

		require.Len(t, f.mov.Corrections, 1)
		assert.Equal(t, "bodega-1", f.mov.Corrections[0].OldLocation.StoreID)
	})

	t.Run("el balance por ubicación sigue la corrección", func(t *testing.T) {
		b1, err := f.uc.GetBalance(ctx, partID, repository.MovementFilter{StoreID: "bodega-1"})
		require.NoError(t, err)
		assert.Equal(t, int64(0), b1)

		b2, err := f.uc.GetBalance(ctx, partID, repository.MovementFilter{StoreID: "bodega-2"})
		require.NoError(t, err)
		assert.Equal(t, int64(50), b2)
	})

	t.Run("movimiento inexistente", func(t *testing.T) {
		_, err := f.uc.CorrectLocation(ctx, CorrectLocationInput{
			MovementID:  uuid.NewString(),
			NewLocation: entity.Location{StoreID: "bodega-2"},
		})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("nueva ubicación desconocida", func(t *testing.T) {
		_, err := f.uc.CorrectLocation(ctx, CorrectLocationInput{
			MovementID:  movID,
			NewLocation: entity.Location{StoreID: "bodega-fantasma"},
		})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
