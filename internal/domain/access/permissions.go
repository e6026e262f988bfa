// Package access contiene el modelo de permisos del portal: la tabla fija tipo de usuario ->
// permisos, la evaluación de conjuntos requeridos y la regla de propiedad sobre empresas.
package access

import (
	"fmt"
	"strings"

	"github.com/jhoicas/portal-st-api/internal/domain"
	"github.com/jhoicas/portal-st-api/internal/domain/entity"
)

// Permission etiqueta de capacidad embebida en el token del usuario.
type Permission = string

// Permisos de empresa.
const (
	EmpresaCadastro Permission = "EMPRESA_CADASTRO"
	EmpresaLista    Permission = "EMPRESA_LISTA"
	EmpresaEdicao   Permission = "EMPRESA_EDICAO"
	EmpresaMaster   Permission = "EMPRESA_MASTER"
)

// permissionsByType solo se consulta al registrar un usuario; el resultado queda persistido.
var permissionsByType = map[string][]Permission{
	entity.UserTypeExternal: {EmpresaCadastro},
	entity.UserTypeInternal: {EmpresaMaster, EmpresaLista, EmpresaEdicao},
}

// GrantedPermissions devuelve una copia de los permisos que corresponden al tipo de usuario.
// Un tipo desconocido no recibe permisos.
func GrantedPermissions(userType string) []Permission {
	perms := permissionsByType[userType]
	out := make([]Permission, len(perms))
	copy(out, perms)
	return out
}

// Authorize es true si todos los permisos requeridos están en held.
func Authorize(held, required []Permission) bool {
	set := make(map[Permission]struct{}, len(held))
	for _, p := range held {
		set[p] = struct{}{}
	}
	for _, p := range required {
		if _, ok := set[p]; !ok {
			return false
		}
	}
	return true
}

// AuthorizeAny es true si held contiene al menos uno de los permisos indicados.
// Sin permisos indicados no hay restricción.
func AuthorizeAny(held, anyOf []Permission) bool {
	if len(anyOf) == 0 {
		return true
	}
	for _, p := range anyOf {
		if Authorize(held, []Permission{p}) {
			return true
		}
	}
	return false
}

// Require falla cerrado con ErrForbidden nombrando el conjunto requerido completo.
func Require(held []Permission, required ...Permission) error {
	if Authorize(held, required) {
		return nil
	}
	return fmt.Errorf("%w: permisos necesarios: %s", domain.ErrForbidden, strings.Join(required, ", "))
}

// ParsePermissions convierte la forma persistida (separada por comas) en una lista.
func ParsePermissions(csv string) []Permission {
	if strings.TrimSpace(csv) == "" {
		return []Permission{}
	}
	parts := strings.Split(csv, ",")
	out := make([]Permission, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// JoinPermissions serializa permisos para persistirlos.
func JoinPermissions(perms []Permission) string {
	return strings.Join(perms, ",")
}
