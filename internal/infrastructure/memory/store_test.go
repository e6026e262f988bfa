package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/portal-st-api/internal/domain"
	"github.com/jhoicas/portal-st-api/internal/domain/entity"
	"github.com/jhoicas/portal-st-api/internal/domain/repository"
	"github.com/jhoicas/portal-st-api/internal/infrastructure/memory"
)

func seed(t *testing.T) (*memory.Store, *entity.Company) {
	t.Helper()
	ctx := context.Background()
	s := memory.NewStore()
	require.NoError(t, s.Users().Create(ctx, &entity.User{ID: "u1", Email: "a@cliente.com", Type: entity.UserTypeExternal}))
	c := company("c1", "12345678900019")
	require.NoError(t, s.Companies().Create(ctx, c))
	return s, c
}

func company(id, identifier string) *entity.Company {
	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	return &entity.Company{
		ID:          id,
		PersonKind:  entity.PersonKindLegalEntity,
		TradeName:   "Navatlan",
		Identifier:  identifier,
		Status:      entity.StatusPending,
		CreatedByID: "u1",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestRunCompany_ErrorDeshaceSoloLoEscrito(t *testing.T) {
	s, c := seed(t)
	ctx := context.Background()
	boom := errors.New("falla")

	err := s.RunCompany(ctx, func(companies repository.CompanyRepository) error {
		edited := *c
		edited.TradeName = "Editada"
		require.NoError(t, companies.Update(ctx, &edited))
		require.NoError(t, companies.Create(ctx, company("c2", "98765432000110")))

		// escritura concurrente fuera de la transacción
		require.NoError(t, s.Companies().Create(ctx, company("c3", "11222333000144")))
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := s.Companies().GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Navatlan", got.TradeName, "la edición se deshace")

	got, err = s.Companies().GetByID(ctx, "c2")
	require.NoError(t, err)
	assert.Nil(t, got, "la creación dentro de la transacción se deshace")

	got, err = s.Companies().GetByID(ctx, "c3")
	require.NoError(t, err)
	require.NotNil(t, got, "la escritura externa se conserva")
	assert.Equal(t, "11222333000144", got.Identifier)
}

func TestRunCompany_ExitoConservaCambios(t *testing.T) {
	s, c := seed(t)
	ctx := context.Background()

	require.NoError(t, s.RunCompany(ctx, func(companies repository.CompanyRepository) error {
		edited := *c
		edited.Status = entity.StatusApproved
		return companies.Update(ctx, &edited)
	}))

	got, err := s.Companies().GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusApproved, got.Status)
}

func TestCompanyRepo_IdentificadorUnico(t *testing.T) {
	s, _ := seed(t)

	err := s.Companies().Create(context.Background(), company("c2", "12345678900019"))
	assert.True(t, errors.Is(err, domain.ErrConflict))
}
