package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/portal-st-api/internal/application/dto"
	"github.com/jhoicas/portal-st-api/pkg/jwt"
)

// Claves de c.Locals que deja AuthMiddleware.
const (
	LocalUserID   = "user_id"
	LocalIdentity = "identity"
)

// AuthMiddleware exige "Authorization: Bearer <token>" válido y publica la identidad del token.
// Los permisos no se recalculan: se usa el snapshot embebido al emitir el token.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
		if header == "" {
			return unauthorized(c, "MISSING_TOKEN", "Authorization header requerido")
		}
		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") {
			return unauthorized(c, "INVALID_TOKEN", "formato: Bearer <token>")
		}
		if token = strings.TrimSpace(token); token == "" {
			return unauthorized(c, "MISSING_TOKEN", "token vacío")
		}
		identity, err := jwt.Parse(jwtSecret, token)
		if err != nil || identity.UserID == "" {
			return unauthorized(c, "INVALID_TOKEN", "token inválido o expirado")
		}
		c.Locals(LocalUserID, identity.UserID)
		c.Locals(LocalIdentity, identity)
		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx, code, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

// GetUserID id del usuario autenticado; vacío fuera de rutas protegidas.
func GetUserID(c *fiber.Ctx) string {
	id, _ := c.Locals(LocalUserID).(string)
	return id
}

// GetIdentity identidad completa del token. ok=false si la ruta no pasó por AuthMiddleware.
func GetIdentity(c *fiber.Ctx) (jwt.Identity, bool) {
	id, ok := c.Locals(LocalIdentity).(jwt.Identity)
	return id, ok
}
