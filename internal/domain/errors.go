package domain

import (
	"errors"
	"strings"
)

// Errores de dominio (sin dependencias externas).
// Los casos de uso los envuelven con fmt.Errorf("%w: detalle", ...) para dar un mensaje
// descriptivo; la capa HTTP los clasifica con errors.Is.
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInvalidCredentials = errors.New("credenciales inválidas")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
)

// Message devuelve el detalle de un error envuelto ("sentinel: detalle" -> "detalle").
// Si el error no tiene detalle devuelve el texto del sentinel.
func Message(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for _, s := range []error{
		ErrNotFound, ErrUserNotFound, ErrEmailAlreadyExists, ErrInvalidInput,
		ErrConflict, ErrInvalidCredentials, ErrUnauthorized, ErrForbidden,
	} {
		if detail, ok := strings.CutPrefix(msg, s.Error()+": "); ok && detail != "" {
			return detail
		}
	}
	return msg
}
