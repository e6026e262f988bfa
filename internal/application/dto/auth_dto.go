package dto

import "time"

// RegisterRequest entrada para registro de usuario (la senha se hashea en el use case).
type RegisterRequest struct {
	Name     string `json:"nome" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"senha" validate:"required,min=6"`
	Type     string `json:"tipo" validate:"required,oneof=INTERNO EXTERNO"`
	Profile  string `json:"perfil" validate:"required,oneof=DESPACHANTE BENEFICIARIO CONSIGNATARIO ARMADOR AGENTE_CARGA TRANSPORTADORA NOVO_USUARIO ADMIN"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"senha" validate:"required"`
}

// UserResponse vista pública de un usuario (sin hash de senha).
type UserResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"nome"`
	Email       string    `json:"email"`
	Type        string    `json:"tipo"`
	Profile     string    `json:"perfil"`
	Permissions []string  `json:"permissoes"`
	Active      bool      `json:"ativo"`
	CreatedAt   time.Time `json:"criadoEm"`
	UpdatedAt   time.Time `json:"atualizadoEm"`
}

// LoginResponse token de acceso más la vista pública del usuario.
type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	User        UserResponse `json:"user"`
}

// MeResponse identidad contenida en el token vigente.
type MeResponse struct {
	ID          string   `json:"id"`
	Email       string   `json:"email"`
	Type        string   `json:"tipo"`
	Profile     string   `json:"perfil"`
	Permissions []string `json:"permissoes"`
}
