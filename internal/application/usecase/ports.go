package usecase

import (
	"context"

	"github.com/jhoicas/portal-st-api/internal/domain/repository"
)

// CompanyTxRunner ejecuta fn dentro de una transacción con el repositorio de empresas atado a ella.
// Un error de fn hace rollback.
type CompanyTxRunner interface {
	RunCompany(ctx context.Context, fn func(companies repository.CompanyRepository) error) error
}
