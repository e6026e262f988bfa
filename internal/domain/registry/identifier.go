// Package registry reúne las reglas puras del registro de empresas: derivación del
// identificador único y política de transiciones de estado.
package registry

import (
	"fmt"

	"github.com/jhoicas/portal-st-api/internal/domain"
	"github.com/jhoicas/portal-st-api/internal/domain/entity"
)

// IdentifierSource documentos crudos de los que puede salir el identificador.
type IdentifierSource struct {
	PersonKind string
	CNPJ       string
	CPF        string
	ForeignID  string
}

// DeriveIdentifier selecciona el documento que corresponde al tipo de persona.
// Devuelve ErrInvalidInput si la combinación es inconsistente (p. ej. JURIDICA sin CNPJ).
func DeriveIdentifier(src IdentifierSource) (string, error) {
	switch {
	case src.PersonKind == entity.PersonKindLegalEntity && src.CNPJ != "":
		return src.CNPJ, nil
	case src.PersonKind == entity.PersonKindNatural && src.CPF != "":
		return src.CPF, nil
	case src.PersonKind == entity.PersonKindForeign && src.ForeignID != "":
		return src.ForeignID, nil
	}
	return "", fmt.Errorf("%w: tipo de persona inválido o identificador faltante", domain.ErrInvalidInput)
}

// HasDuplicateDocument informa si el documento obligatorio también figura entre los opcionales.
func HasDuplicateDocument(required string, optional []string) bool {
	if required == "" {
		return false
	}
	for _, d := range optional {
		if d == required {
			return true
		}
	}
	return false
}

// CheckIdentifierFormat valida el formato del identificador según el tipo de persona:
// CNPJ de 14 dígitos, CPF de 11 dígitos, identificador extranjero de al menos 3 caracteres.
func CheckIdentifierFormat(personKind, identifier string) error {
	switch personKind {
	case entity.PersonKindLegalEntity:
		if !allDigits(identifier, 14) {
			return fmt.Errorf("%w: CNPJ inválido", domain.ErrInvalidInput)
		}
	case entity.PersonKindNatural:
		if !allDigits(identifier, 11) {
			return fmt.Errorf("%w: CPF inválido", domain.ErrInvalidInput)
		}
	case entity.PersonKindForeign:
		if len(identifier) < 3 {
			return fmt.Errorf("%w: identificador extranjero inválido", domain.ErrInvalidInput)
		}
	default:
		return fmt.Errorf("%w: tipo de persona inválido", domain.ErrInvalidInput)
	}
	return nil
}

func allDigits(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
