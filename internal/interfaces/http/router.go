package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/jhoicas/portal-st-api/internal/application/auth"
	"github.com/jhoicas/portal-st-api/internal/application/dto"
	"github.com/jhoicas/portal-st-api/internal/application/upload"
	"github.com/jhoicas/portal-st-api/internal/application/usecase"
	"github.com/jhoicas/portal-st-api/internal/application/validation"
	"github.com/jhoicas/portal-st-api/internal/domain/access"
	"github.com/jhoicas/portal-st-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC    *auth.AuthUseCase
	CompanyUC *usecase.CompanyUseCase
	UploadUC  *upload.UploadUseCase
	Validator *validation.Validator
	JWTSecret string
	Logger    *logger.Logger
	// LoginRateLimit intentos de login por minuto e IP; 0 desactiva el límite.
	LoginRateLimit int
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}
	v := deps.Validator
	if v == nil {
		v = validation.New()
	}

	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC, v, log.Named("auth"))
	authGroup.Post("/register", authHandler.Register)
	if deps.LoginRateLimit > 0 {
		authGroup.Post("/login", loginLimiter(deps.LoginRateLimit), authHandler.Login)
	} else {
		authGroup.Post("/login", authHandler.Login)
	}

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Get("/auth/me", authHandler.Me)

	// Empresas
	empresas := protected.Group("/empresas")
	companyHandler := NewCompanyHandler(deps.CompanyUC, v, log.Named("empresas"))
	empresas.Post("/", RequireAnyPermission(access.EmpresaCadastro, access.EmpresaMaster), companyHandler.Create)
	empresas.Get("/", companyHandler.List)
	// panel de revisión del staff
	empresas.Get("/stats", RequirePermissions(access.EmpresaLista), companyHandler.Stats)
	empresas.Get("/:id", companyHandler.GetByID)
	empresas.Put("/:id", RequireAnyPermission(access.EmpresaCadastro, access.EmpresaEdicao), companyHandler.Update)
	// el caso de uso exige usuario INTERNO
	empresas.Patch("/:id/status", companyHandler.UpdateStatus)

	// Archivos
	uploadHandler := NewUploadHandler(deps.UploadUC, log.Named("upload"))
	protected.Post("/upload", uploadHandler.Upload)
	protected.Get("/uploads/:filename", uploadHandler.Download)
}

func loginLimiter(perMinute int) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        perMinute,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
				Code:    "TOO_MANY_REQUESTS",
				Message: "demasiados intentos de login, intente más tarde",
			})
		},
	})
}
