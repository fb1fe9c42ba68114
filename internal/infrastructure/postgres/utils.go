package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// isUniqueViolation verifica si un error es una violación de constraint único
// (código 23505). Los repos lo traducen a domain.ErrDuplicate o ErrConflict
// según el significado de negocio del índice violado.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// nullable convierte cadena vacía en NULL al insertar columnas opcionales.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// deref convierte NULL leído en cadena vacía.
func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
