package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/portal-st-api/internal/application/usecase"
	"github.com/jhoicas/portal-st-api/internal/domain/repository"
)

var _ usecase.CompanyTxRunner = (*TxRunner)(nil)

// TxRunner abre transacciones sobre el pool para las operaciones que leen y reescriben una empresa.
type TxRunner struct {
	pool    *pgxpool.Pool
	options pgx.TxOptions
}

// NewTxRunner construye el runner con aislamiento READ COMMITTED; la serialización la da
// el SELECT ... FOR UPDATE de GetByIDForUpdate.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool, options: pgx.TxOptions{IsoLevel: pgx.ReadCommitted}}
}

// RunCompany ejecuta fn con un CompanyRepo atado a la transacción.
// Si fn devuelve error se hace rollback; si no, commit.
func (r *TxRunner) RunCompany(ctx context.Context, fn func(companies repository.CompanyRepository) error) error {
	return pgx.BeginTxFunc(ctx, r.pool, r.options, func(tx pgx.Tx) error {
		return fn(NewCompanyRepository(tx))
	})
}
