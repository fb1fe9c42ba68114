// Package parts implementa el directorio de repuestos y la resolución del
// registro canónico entre duplicados de un mismo número externo.
package parts

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kirodsllc/inventario-contable/internal/domain"
	"github.com/kirodsllc/inventario-contable/internal/domain/entity"
	domainparts "github.com/kirodsllc/inventario-contable/internal/domain/parts"
	"github.com/kirodsllc/inventario-contable/internal/domain/repository"
)

// UseCase operaciones sobre el catálogo de repuestos.
type UseCase struct {
	partRepo repository.PartRepository
}

// NewUseCase construye el caso de uso de repuestos.
func NewUseCase(partRepo repository.PartRepository) *UseCase {
	return &UseCase{partRepo: partRepo}
}

// ResolveCanonical devuelve el ID del registro canónico entre todas las filas
// que comparten el número de parte. Determinista e idempotente: sobre el mismo
// conjunto de duplicados siempre responde el mismo ID.
func (uc *UseCase) ResolveCanonical(ctx context.Context, partNo string) (string, error) {
	partNo = domainparts.NormalizeTerm(partNo)
	if partNo == "" {
		return "", domain.ErrValidation
	}
	rows, err := uc.partRepo.ListByPartNo(partNo)
	if err != nil {
		return "", err
	}
	canonical := domainparts.SelectCanonical(rows)
	if canonical == nil {
		return "", domain.ErrNotFound
	}
	return canonical.ID, nil
}

// IsExactMatch indica si el término (recortado y normalizado) coincide exacto
// con el número de parte de alguna fila. Los callers lo usan para decidir si
// estrechan la búsqueda al registro canónico o corren búsqueda difusa.
func (uc *UseCase) IsExactMatch(ctx context.Context, term string) (string, bool, error) {
	normalized := domainparts.NormalizeTerm(term)
	if normalized == "" {
		return "", false, nil
	}
	ok, err := uc.partRepo.ExistsPartNo(normalized)
	if err != nil {
		return "", false, err
	}
	if !ok {
		return "", false, nil
	}
	return normalized, true, nil
}

// Search busca repuestos: con coincidencia exacta de número de parte devuelve
// solo el registro canónico; si no, corre búsqueda difusa multi-campo.
func (uc *UseCase) Search(ctx context.Context, term string, limit, offset int) ([]*entity.Part, error) {
	if limit <= 0 || limit > 200 {
		limit = 25
	}
	if offset < 0 {
		offset = 0
	}
	partNo, exact, err := uc.IsExactMatch(ctx, term)
	if err != nil {
		return nil, err
	}
	if exact {
		rows, err := uc.partRepo.ListByPartNo(partNo)
		if err != nil {
			return nil, err
		}
		canonical := domainparts.SelectCanonical(rows)
		if canonical == nil {
			return nil, nil
		}
		return []*entity.Part{canonical}, nil
	}
	return uc.partRepo.Search(domainparts.NormalizeTerm(term), limit, offset)
}

// CreatePartInput entrada para crear un repuesto.
type CreatePartInput struct {
	PartNo      string
	Name        string
	Description string
	Cost        decimal.Decimal
}

// Create da de alta un repuesto. PartNo no es único: puede duplicar uno
// existente (la identidad la resuelve después ResolveCanonical).
func (uc *UseCase) Create(ctx context.Context, input CreatePartInput) (*entity.Part, error) {
	partNo := domainparts.NormalizeTerm(input.PartNo)
	if partNo == "" || input.Name == "" {
		return nil, domain.ErrValidation
	}
	if input.Cost.IsNegative() {
		return nil, domain.ErrValidation
	}
	part := &entity.Part{
		ID:          uuid.New().String(),
		PartNo:      partNo,
		Name:        input.Name,
		Description: input.Description,
		Cost:        input.Cost,
		CreatedAt:   time.Now(),
	}
	if !input.Cost.IsZero() {
		now := part.CreatedAt
		part.CostSource = entity.CostSourceManual
		part.CostUpdatedAt = &now
	}
	if err := uc.partRepo.Create(part); err != nil {
		return nil, err
	}
	return part, nil
}

// Get consulta un repuesto por ID.
func (uc *UseCase) Get(ctx context.Context, id string) (*entity.Part, error) {
	part, err := uc.partRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if part == nil {
		return nil, domain.ErrNotFound
	}
	return part, nil
}
