package repository

import "github.com/kirodsllc/inventario-contable/internal/domain/entity"

// LocationRepository directorio de solo lectura de bodegas/estantes/repisas,
// usado para validar las etiquetas de ubicación de los movimientos.
type LocationRepository interface {
	ListStores() ([]*entity.Store, error)
	StoreExists(storeID string) (bool, error)
	RackExists(rackID string) (bool, error)
	ShelfExists(shelfID string) (bool, error)
}
