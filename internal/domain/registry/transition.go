package registry

import (
	"fmt"
	"strings"

	"github.com/jhoicas/portal-st-api/internal/domain"
	"github.com/jhoicas/portal-st-api/internal/domain/entity"
)

// CheckTransition valida un cambio de estado pedido por un revisor.
// Hoy cualquier estado válido es alcanzable desde cualquier otro (incluido volver a PENDENTE);
// restringir a PENDENTE como único origen se hace aquí sin tocar a los llamadores.
func CheckTransition(from, to string) error {
	if !entity.IsValidStatus(to) {
		return fmt.Errorf("%w: estado %q inválido", domain.ErrInvalidInput, to)
	}
	return nil
}

// CheckDecision valida los datos que acompañan a una decisión.
// Una reprobación siempre lleva motivo.
func CheckDecision(status, reason string) error {
	if status == entity.StatusRejected && strings.TrimSpace(reason) == "" {
		return fmt.Errorf("%w: el motivo de reprobación es obligatorio", domain.ErrInvalidInput)
	}
	return nil
}
