package repository

import (
	"context"

	"github.com/jhoicas/portal-st-api/internal/domain/entity"
)

// CompanyFilter criterios de listado. Campos vacíos no filtran.
type CompanyFilter struct {
	Status      string
	CreatedByID string
}

// CompanyRepository define el puerto de persistencia para Company (DIP).
// La implementación vive en infrastructure.
type CompanyRepository interface {
	// Create y Update devuelven domain.ErrConflict si el identificador ya pertenece a otra empresa.
	Create(ctx context.Context, company *entity.Company) error
	Update(ctx context.Context, company *entity.Company) error
	// GetByID carga también los resúmenes de creador y revisor. (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.Company, error)
	// GetByIDForUpdate bloquea la fila hasta el fin de la transacción en curso.
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Company, error)
	GetByIdentifier(ctx context.Context, identifier string) (*entity.Company, error)
	// List ordena por fecha de creación descendente.
	List(ctx context.Context, filter CompanyFilter) ([]*entity.Company, error)
	CountByStatus(ctx context.Context, filter CompanyFilter) (map[string]int, error)
}
