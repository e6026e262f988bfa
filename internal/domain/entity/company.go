package entity

import "time"

// Tipos de persona de una empresa. Cada uno selecciona el documento que origina el identificador.
const (
	PersonKindLegalEntity = "JURIDICA"    // CNPJ
	PersonKindNatural     = "FISICA"      // CPF
	PersonKindForeign     = "ESTRANGEIRA" // identificador extranjero
)

// Estados del ciclo de vida de una empresa.
const (
	StatusPending  = "PENDENTE"
	StatusApproved = "APROVADA"
	StatusRejected = "REPROVADA"
)

// Company representa el registro de una empresa sometido a aprobación.
type Company struct {
	ID                string
	PersonKind        string // JURIDICA, FISICA, ESTRANGEIRA
	CorporateName     string // razão social (JURIDICA, ESTRANGEIRA)
	PersonalName      string // nome (FISICA)
	TradeName         string // nome fantasia
	Identifier        string // derivado de CNPJ, CPF o identificador extranjero; único
	ForeignID         string
	Profile           string // ver CompanyProfiles
	DirectBilling     bool
	RequiredDocument  string
	OptionalDocuments []string
	Status            string
	RejectionReason   string
	CreatedByID       string
	ReviewerID        *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
	ApprovedAt        *time.Time // se fija al aprobar y nunca se limpia

	// Resúmenes cargados por el repositorio en lecturas; no se persisten.
	CreatedBy *UserSummary
	Reviewer  *UserSummary
}

// UserSummary identidad resumida del creador o revisor de una empresa.
type UserSummary struct {
	ID    string
	Name  string
	Email string
	Type  string
}

// CompanyProfiles perfiles de negocio aceptados para una empresa.
var CompanyProfiles = []string{
	ProfileDespachante,
	ProfileBeneficiario,
	ProfileConsignatario,
	ProfileArmador,
	ProfileAgenteCarga,
	ProfileTransportadora,
}

// IsFrozen informa si la empresa ya fue decidida y no admite edición.
func (c *Company) IsFrozen() bool {
	return c.Status == StatusApproved || c.Status == StatusRejected
}

// IsValidStatus valida un estado de empresa.
func IsValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// IsValidPersonKind valida un tipo de persona.
func IsValidPersonKind(k string) bool {
	switch k {
	case PersonKindLegalEntity, PersonKindNatural, PersonKindForeign:
		return true
	}
	return false
}
