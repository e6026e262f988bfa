package entity

import "time"

// Tipos de usuario. Determinan el conjunto de permisos al momento del registro.
const (
	UserTypeInternal = "INTERNO"
	UserTypeExternal = "EXTERNO"
)

// Perfiles de negocio válidos para User.
const (
	ProfileDespachante    = "DESPACHANTE"
	ProfileBeneficiario   = "BENEFICIARIO"
	ProfileConsignatario  = "CONSIGNATARIO"
	ProfileArmador        = "ARMADOR"
	ProfileAgenteCarga    = "AGENTE_CARGA"
	ProfileTransportadora = "TRANSPORTADORA"
	ProfileNovoUsuario    = "NOVO_USUARIO"
	ProfileAdmin          = "ADMIN"
)

// User representa una persona que opera el portal (staff interno o usuario externo).
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string   // bcrypt hash, nunca plano en dominio después de persistir
	Type         string   // INTERNO, EXTERNO
	Profile      string   // ver constantes Profile*
	Permissions  []string // snapshot calculado desde Type al registrarse
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsInternal informa si el usuario pertenece al staff interno.
func (u *User) IsInternal() bool {
	return u != nil && u.Type == UserTypeInternal
}

// IsValidUserType valida el tipo de usuario.
func IsValidUserType(t string) bool {
	return t == UserTypeInternal || t == UserTypeExternal
}
