// Package validation aplica las reglas declarativas (tags `validate`) de los DTOs con
// go-playground/validator y traduce los fallos a domain.ErrInvalidInput con detalle por campo.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jhoicas/portal-st-api/internal/application/dto"
	"github.com/jhoicas/portal-st-api/internal/domain"
	"github.com/jhoicas/portal-st-api/internal/domain/entity"
)

// Validator envuelve *validator.Validate con las reglas propias del portal.
type Validator struct {
	v *validator.Validate
}

// New construye el validador. Los nombres de campo reportados son los del JSON.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("digits", isDigits); err != nil {
		panic("validation: registrar tag digits: " + err.Error())
	}
	v.RegisterStructValidation(createCompanyRules, dto.CreateCompanyRequest{})
	return &Validator{v: v}
}

// FieldErrors errores de validación por campo. Envuelve domain.ErrInvalidInput.
type FieldErrors struct {
	Fields map[string]string
}

func (e *FieldErrors) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return domain.ErrInvalidInput.Error() + ": " + strings.Join(parts, "; ")
}

func (e *FieldErrors) Unwrap() error { return domain.ErrInvalidInput }

// Struct valida s. Devuelve nil, *FieldErrors o un error envolviendo ErrInvalidInput.
func (x *Validator) Struct(s any) error {
	err := x.v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = message(fe)
	}
	return &FieldErrors{Fields: fields}
}

// createCompanyRules exige los nombres y el documento de origen según el tipo de persona.
func createCompanyRules(sl validator.StructLevel) {
	in, ok := sl.Current().Interface().(dto.CreateCompanyRequest)
	if !ok {
		return
	}
	requireField := func(value, jsonName, structName string) {
		if strings.TrimSpace(value) == "" {
			sl.ReportError(value, jsonName, structName, "required_if", in.PersonKind)
		}
	}
	switch in.PersonKind {
	case entity.PersonKindLegalEntity:
		requireField(in.CorporateName, "razaoSocial", "CorporateName")
		requireField(in.CNPJ, "cnpj", "CNPJ")
	case entity.PersonKindNatural:
		requireField(in.PersonalName, "nome", "PersonalName")
		requireField(in.CPF, "cpf", "CPF")
	case entity.PersonKindForeign:
		requireField(in.CorporateName, "razaoSocial", "CorporateName")
		requireField(in.ForeignID, "identificadorEstrangeiro", "ForeignID")
	}
}

func isDigits(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_if":
		return "campo obligatorio"
	case "min":
		return "mínimo de " + fe.Param() + " caracteres"
	case "len":
		return "debe tener " + fe.Param() + " caracteres"
	case "email":
		return "email inválido"
	case "oneof":
		return "valor inválido, opciones: " + fe.Param()
	case "digits":
		return "solo se permiten dígitos"
	case "uuid":
		return "identificador inválido"
	default:
		return "valor inválido"
	}
}
