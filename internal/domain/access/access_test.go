package access_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/portal-st-api/internal/domain"
	"github.com/jhoicas/portal-st-api/internal/domain/access"
	"github.com/jhoicas/portal-st-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Permisos
// ──────────────────────────────────────────────────────────────────────────────

func TestGrantedPermissions_PorTipo(t *testing.T) {
	assert.Equal(t, []string{access.EmpresaCadastro}, access.GrantedPermissions(entity.UserTypeExternal))
	assert.ElementsMatch(t,
		[]string{access.EmpresaMaster, access.EmpresaLista, access.EmpresaEdicao},
		access.GrantedPermissions(entity.UserTypeInternal))
	assert.Empty(t, access.GrantedPermissions("OTRO"), "tipo desconocido no recibe permisos")
}

func TestGrantedPermissions_DevuelveCopia(t *testing.T) {
	perms := access.GrantedPermissions(entity.UserTypeExternal)
	perms[0] = "ALTERADO"
	assert.Equal(t, []string{access.EmpresaCadastro}, access.GrantedPermissions(entity.UserTypeExternal))
}

func TestAuthorize(t *testing.T) {
	cases := []struct {
		name     string
		held     []string
		required []string
		want     bool
	}{
		{"sin requeridos", nil, nil, true},
		{"todos presentes", []string{"A", "B", "C"}, []string{"A", "C"}, true},
		{"falta uno", []string{"A"}, []string{"A", "B"}, false},
		{"sin permisos", nil, []string{"A"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, access.Authorize(tc.held, tc.required))
		})
	}
}

func TestAuthorizeAny(t *testing.T) {
	assert.True(t, access.AuthorizeAny([]string{"B"}, []string{"A", "B"}))
	assert.False(t, access.AuthorizeAny([]string{"C"}, []string{"A", "B"}))
	assert.True(t, access.AuthorizeAny(nil, nil))
}

func TestRequire_NombraConjuntoCompleto(t *testing.T) {
	err := access.Require([]string{access.EmpresaCadastro}, access.EmpresaCadastro, access.EmpresaLista)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrForbidden))
	assert.Equal(t, "permisos necesarios: EMPRESA_CADASTRO, EMPRESA_LISTA", domain.Message(err))

	assert.NoError(t, access.Require([]string{access.EmpresaLista}, access.EmpresaLista))
}

func TestParseJoinPermissions(t *testing.T) {
	assert.Equal(t, []string{"A", "B"}, access.ParsePermissions(" A, ,B "))
	assert.Equal(t, []string{}, access.ParsePermissions(""))
	assert.Equal(t, "A,B", access.JoinPermissions([]string{"A", "B"}))
}

// ──────────────────────────────────────────────────────────────────────────────
// Propiedad
// ──────────────────────────────────────────────────────────────────────────────

func TestCanAccess(t *testing.T) {
	internal := &entity.User{ID: "i", Type: entity.UserTypeInternal}
	owner := &entity.User{ID: "o", Type: entity.UserTypeExternal}
	stranger := &entity.User{ID: "s", Type: entity.UserTypeExternal}
	company := &entity.Company{ID: "c", CreatedByID: "o"}

	assert.True(t, access.CanAccess(internal, company, access.ActionView))
	assert.True(t, access.CanAccess(internal, company, access.ActionReview))

	assert.True(t, access.CanAccess(owner, company, access.ActionView))
	assert.True(t, access.CanAccess(owner, company, access.ActionEdit))
	assert.False(t, access.CanAccess(owner, company, access.ActionReview), "revisión solo para INTERNO")

	assert.False(t, access.CanAccess(stranger, company, access.ActionView))
	assert.False(t, access.CanAccess(stranger, company, access.ActionEdit))

	assert.False(t, access.CanAccess(nil, company, access.ActionView), "sin usuario falla cerrado")
}

func TestSeesAll(t *testing.T) {
	assert.True(t, access.SeesAll(&entity.User{Type: entity.UserTypeInternal}))
	assert.False(t, access.SeesAll(&entity.User{Type: entity.UserTypeExternal}))
	assert.False(t, access.SeesAll(nil))
}
