// Package parts contiene la selección determinista del registro canónico
// entre repuestos duplicados que comparten un mismo número externo.
package parts

import (
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/kirodsllc/inventario-contable/internal/domain/entity"
)

// SelectCanonical elige el registro canónico entre filas que comparten PartNo,
// con un orden de prioridad estricto y total (empates rotos por ID menor):
//
//  1. costSource == RECEIVED_FROM_PURCHASE y costUpdatedAt no nulo → max(costUpdatedAt)
//  2. costUpdatedAt no nulo → max(costUpdatedAt)
//  3. updatedAt no nulo → max(updatedAt)
//  4. min(createdAt) (la fila más antigua)
//
// Devuelve nil si el conjunto está vacío. Es idempotente: sobre el mismo
// conjunto siempre devuelve la misma fila.
func SelectCanonical(rows []*entity.Part) *entity.Part {
	if len(rows) == 0 {
		return nil
	}

	if p := latestBy(rows, func(p *entity.Part) *time.Time {
		if p.CostSource == entity.CostSourceReceivedFromPurchase {
			return p.CostUpdatedAt
		}
		return nil
	}); p != nil {
		return p
	}
	if p := latestBy(rows, func(p *entity.Part) *time.Time { return p.CostUpdatedAt }); p != nil {
		return p
	}
	if p := latestBy(rows, func(p *entity.Part) *time.Time { return p.UpdatedAt }); p != nil {
		return p
	}

	oldest := rows[0]
	for _, p := range rows[1:] {
		if p.CreatedAt.Before(oldest.CreatedAt) ||
			(p.CreatedAt.Equal(oldest.CreatedAt) && p.ID < oldest.ID) {
			oldest = p
		}
	}
	return oldest
}

// latestBy devuelve la fila con el timestamp más reciente según key, ignorando
// filas con timestamp nulo; empates por ID menor. Nil si ninguna fila califica.
func latestBy(rows []*entity.Part, key func(*entity.Part) *time.Time) *entity.Part {
	var best *entity.Part
	var bestAt time.Time
	for _, p := range rows {
		at := key(p)
		if at == nil {
			continue
		}
		if best == nil || at.After(bestAt) || (at.Equal(bestAt) && p.ID < best.ID) {
			best = p
			bestAt = *at
		}
	}
	return best
}

// NormalizeTerm prepara un término de búsqueda para comparación exacta:
// recorta espacios y normaliza Unicode (NFC) para que "X100" escrito con
// formas compuestas o descompuestas coincida igual.
func NormalizeTerm(term string) string {
	return norm.NFC.String(strings.TrimSpace(term))
}
