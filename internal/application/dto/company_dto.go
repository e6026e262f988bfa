package dto

import "time"

// CreateCompanyRequest entrada para registrar una empresa. Los nombres y documentos
// obligatorios dependen de TipoPessoa (ver reglas en application/validation).
type CreateCompanyRequest struct {
	PersonKind        string   `json:"tipoPessoa" validate:"required,oneof=JURIDICA FISICA ESTRANGEIRA"`
	CorporateName     string   `json:"razaoSocial" validate:"omitempty,min=3"`
	PersonalName      string   `json:"nome" validate:"omitempty,min=3"`
	TradeName         string   `json:"nomeFantasia" validate:"required,min=3"`
	CNPJ              string   `json:"cnpj" validate:"omitempty,len=14,digits"`
	CPF               string   `json:"cpf" validate:"omitempty,len=11,digits"`
	ForeignID         string   `json:"identificadorEstrangeiro" validate:"omitempty,min=3"`
	Profile           string   `json:"perfil" validate:"required,oneof=DESPACHANTE BENEFICIARIO CONSIGNATARIO ARMADOR AGENTE_CARGA TRANSPORTADORA"`
	DirectBilling     bool     `json:"faturamentoDireto"`
	RequiredDocument  string   `json:"documentoObrigatorio" validate:"required"`
	OptionalDocuments []string `json:"documentosOpcionais" validate:"omitempty,dive,required"`
}

// UpdateCompanyRequest actualización parcial: solo cambian los campos presentes y no vacíos.
type UpdateCompanyRequest struct {
	PersonKind        *string   `json:"tipoPessoa" validate:"omitempty,oneof=JURIDICA FISICA ESTRANGEIRA"`
	CorporateName     *string   `json:"razaoSocial"`
	PersonalName      *string   `json:"nome"`
	TradeName         *string   `json:"nomeFantasia"`
	CNPJ              *string   `json:"cnpj"`
	CPF               *string   `json:"cpf"`
	ForeignID         *string   `json:"identificadorEstrangeiro"`
	Profile           *string   `json:"perfil" validate:"omitempty,oneof=DESPACHANTE BENEFICIARIO CONSIGNATARIO ARMADOR AGENTE_CARGA TRANSPORTADORA"`
	DirectBilling     *bool     `json:"faturamentoDireto"`
	RequiredDocument  *string   `json:"documentoObrigatorio"`
	OptionalDocuments *[]string `json:"documentosOpcionais"`
}

// UpdateCompanyStatusRequest decisión de un revisor interno.
type UpdateCompanyStatusRequest struct {
	Status          string  `json:"status" validate:"required,oneof=PENDENTE APROVADA REPROVADA"`
	RejectionReason *string `json:"motivoReprovacao"`
	ReviewerID      *string `json:"responsavelId" validate:"omitempty,uuid"`
}

// UserSummaryResponse identidad resumida de creador o revisor.
type UserSummaryResponse struct {
	ID    string `json:"id"`
	Name  string `json:"nome"`
	Email string `json:"email"`
	Type  string `json:"tipo,omitempty"`
}

// CompanyResponse salida de una empresa.
type CompanyResponse struct {
	ID                string               `json:"id"`
	PersonKind        string               `json:"tipoPessoa"`
	CorporateName     string               `json:"razaoSocial,omitempty"`
	PersonalName      string               `json:"nome,omitempty"`
	TradeName         string               `json:"nomeFantasia"`
	Identifier        string               `json:"identificador"`
	ForeignID         string               `json:"identificadorEstrangeiro,omitempty"`
	Profile           string               `json:"perfil"`
	DirectBilling     bool                 `json:"faturamentoDireto"`
	RequiredDocument  string               `json:"documentoObrigatorio"`
	OptionalDocuments []string             `json:"documentosOpcionais"`
	Status            string               `json:"status"`
	RejectionReason   string               `json:"motivoReprovacao,omitempty"`
	CreatedByID       string               `json:"criadoPorId"`
	CreatedBy         *UserSummaryResponse `json:"criadoPor,omitempty"`
	ReviewerID        *string              `json:"responsavelId,omitempty"`
	Reviewer          *UserSummaryResponse `json:"responsavel,omitempty"`
	CreatedAt         time.Time            `json:"criadoEm"`
	UpdatedAt         time.Time            `json:"atualizadoEm"`
	ApprovedAt        *time.Time           `json:"aprovadoEm,omitempty"`
}

// CompanyStatsResponse conteo por estado dentro del alcance visible del usuario.
type CompanyStatsResponse struct {
	Total    int `json:"total"`
	Pending  int `json:"pendentes"`
	Approved int `json:"aprovadas"`
	Rejected int `json:"reprovadas"`
}
