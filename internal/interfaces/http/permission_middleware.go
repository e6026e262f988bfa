package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/portal-st-api/internal/application/dto"
	"github.com/jhoicas/portal-st-api/internal/domain"
	"github.com/jhoicas/portal-st-api/internal/domain/access"
)

// RequirePermissions devuelve un middleware Fiber que exige TODOS los permisos indicados
// en el token. Debe usarse DESPUÉS de AuthMiddleware (necesita LocalIdentity).
//
// Comportamiento:
//   - 401 Unauthorized → no hay identidad en el contexto.
//   - 403 Forbidden    → falta algún permiso; el mensaje nombra el conjunto requerido.
//   - Sin permisos requeridos la ruta pasa.
func RequirePermissions(required ...access.Permission) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := GetIdentity(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: "identidad no encontrada en el token",
			})
		}
		if err := access.Require(identity.Permissions, required...); err != nil {
			return forbidden(c, domain.Message(err))
		}
		return c.Next()
	}
}

// RequireAnyPermission igual que RequirePermissions pero basta con uno de los permisos.
func RequireAnyPermission(anyOf ...access.Permission) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := GetIdentity(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: "identidad no encontrada en el token",
			})
		}
		if !access.AuthorizeAny(identity.Permissions, anyOf) {
			return forbidden(c, "se requiere alguno de los permisos: "+strings.Join(anyOf, ", "))
		}
		return c.Next()
	}
}

func forbidden(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: msg})
}
