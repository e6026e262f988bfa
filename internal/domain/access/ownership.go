package access

import "github.com/jhoicas/portal-st-api/internal/domain/entity"

// Action operación sobre una empresa sujeta a control de propiedad.
type Action int

const (
	ActionView Action = iota
	ActionEdit
	ActionReview
)

// CanAccess es la única regla de propiedad del registro de empresas:
// el staff interno accede a todo, un usuario externo solo a lo que creó
// y la revisión de estado es exclusiva del staff interno.
func CanAccess(user *entity.User, company *entity.Company, action Action) bool {
	if user == nil {
		return false
	}
	if user.IsInternal() {
		return true
	}
	if action == ActionReview {
		return false
	}
	return company != nil && company.CreatedByID == user.ID
}

// SeesAll informa si el usuario ve empresas de cualquier creador en listados.
func SeesAll(user *entity.User) bool {
	return user.IsInternal()
}
