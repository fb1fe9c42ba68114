package entity

import "time"

// Store es una bodega física. Directorio de solo lectura para el núcleo:
// el CRUD vive fuera del motor; aquí solo se usa para etiquetar movimientos.
type Store struct {
	ID        string
	Code      string
	Name      string
	CreatedAt time.Time
}

// Rack es un estante dentro de una bodega.
type Rack struct {
	ID        string
	StoreID   string
	Code      string
	CreatedAt time.Time
}

// Shelf es una repisa dentro de un estante.
type Shelf struct {
	ID        string
	RackID    string
	Code      string
	CreatedAt time.Time
}
