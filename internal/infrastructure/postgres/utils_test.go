package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/portal-st-api/internal/domain"
	"github.com/jhoicas/portal-st-api/internal/domain/repository"
)

func TestTranslateWriteError(t *testing.T) {
	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
	fk := &pgconn.PgError{Code: "23503"}
	other := errors.New("conexión cerrada")

	assert.ErrorIs(t, translateWriteError(unique, errIdentifierTaken, "insert company"), domain.ErrConflict)
	assert.ErrorIs(t, translateWriteError(fk, errIdentifierTaken, "insert company"), domain.ErrUserNotFound)

	err := translateWriteError(other, errIdentifierTaken, "insert company")
	assert.ErrorIs(t, err, other)
	assert.Equal(t, "insert company: conexión cerrada", err.Error())
}

func TestIsNoRows(t *testing.T) {
	assert.True(t, isNoRows(fmt.Errorf("scan: %w", pgx.ErrNoRows)))
	assert.False(t, isNoRows(errors.New("x")))
}

func TestBuildCompanyWhere(t *testing.T) {
	where, args := buildCompanyWhere(repository.CompanyFilter{})
	assert.Empty(t, where)
	assert.Empty(t, args)

	where, args = buildCompanyWhere(repository.CompanyFilter{Status: "PENDENTE", CreatedByID: "u1"})
	assert.Equal(t, " WHERE c.status = $1 AND c.created_by = $2", where)
	assert.Equal(t, []any{"PENDENTE", "u1"}, args)

	where, args = buildCompanyWhere(repository.CompanyFilter{CreatedByID: "u1"})
	assert.Equal(t, " WHERE c.created_by = $1", where)
	assert.Equal(t, []any{"u1"}, args)
}

func TestSplitJoinList(t *testing.T) {
	assert.Equal(t, []string{}, splitList(""))
	assert.Equal(t, []string{"a.pdf", "b.pdf"}, splitList("a.pdf, b.pdf,"))
	assert.Equal(t, "a.pdf,b.pdf", joinList([]string{"a.pdf", "b.pdf"}))
	assert.Equal(t, "", joinList(nil))
}
