package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/portal-st-api/internal/application/dto"
	"github.com/jhoicas/portal-st-api/internal/domain"
	"github.com/jhoicas/portal-st-api/internal/domain/access"
	"github.com/jhoicas/portal-st-api/internal/domain/entity"
	"github.com/jhoicas/portal-st-api/internal/domain/repository"
	"github.com/jhoicas/portal-st-api/pkg/jwt"
	"github.com/jhoicas/portal-st-api/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost costo del hash de senhas.
const bcryptCost = 10

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: registro y login.
type AuthUseCase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
	log      *logger.Logger
	now      func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig, log *logger.Logger) *AuthUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthUseCase{userRepo: userRepo, jwtCfg: jwtCfg, log: log.Named("auth"), now: time.Now}
}

// RegisterUser crea un usuario: hashea la senha con bcrypt y fija los permisos según el tipo.
// Devuelve ErrEmailAlreadyExists si el email ya existe.
func (uc *AuthUseCase) RegisterUser(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	if !entity.IsValidUserType(in.Type) {
		return nil, fmt.Errorf("%w: tipo de usuario inválido", domain.ErrInvalidInput)
	}
	email := normalizeEmail(in.Email)
	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash senha: %w", err)
	}
	now := uc.now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Name:         in.Name,
		Email:        email,
		PasswordHash: string(hash),
		Type:         in.Type,
		Profile:      in.Profile,
		Permissions:  access.GrantedPermissions(in.Type),
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	// La restricción única de users.email decide si dos registros compiten por el mismo email.
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", user.ID).Str("tipo", user.Type).Msg("usuario registrado")
	return toUserResponse(user), nil
}

// Login verifica email/senha, genera el JWT y retorna token + usuario.
// Email inexistente, usuario inactivo y senha incorrecta producen el mismo ErrInvalidCredentials.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		return nil, err
	}
	if user == nil || !user.Active {
		uc.log.Debug().Msg("login rechazado: usuario inexistente o inactivo")
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			uc.log.Warn().Err(err).Str("user_id", user.ID).Msg("hash de senha ilegible")
		}
		return nil, domain.ErrInvalidCredentials
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, jwt.Identity{
		UserID:      user.ID,
		Email:       user.Email,
		Type:        user.Type,
		Profile:     user.Profile,
		Permissions: user.Permissions,
	}, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken: token,
		User:        *toUserResponse(user),
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	perms := u.Permissions
	if perms == nil {
		perms = []string{}
	}
	return &dto.UserResponse{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Type:        u.Type,
		Profile:     u.Profile,
		Permissions: perms,
		Active:      u.Active,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
