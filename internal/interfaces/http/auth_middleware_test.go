package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/portal-st-api/internal/domain/access"
	apphttp "github.com/jhoicas/portal-st-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/portal-st-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testIssuer    = "portal-st-test"
	testExpMin    = 60
)

// buildTestApp construye una aplicación Fiber mínima con:
//   - AuthMiddleware para parsear el JWT y cargar locals
//   - el middleware de permisos indicado
//   - Un handler dummy que devuelve 200 si pasa los middlewares
func buildTestApp(guard fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		// Silenciar errores internos en los tests
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret),
		guard,
		func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"ok":      true,
				"user_id": apphttp.GetUserID(c),
			})
		},
	)
	return app
}

// tokenWith genera un JWT con el tipo de usuario y permisos indicados.
func tokenWith(t *testing.T, userType string, perms ...string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, pkgjwt.Identity{
		UserID:      testUserID,
		Email:       "user@portal.com",
		Type:        userType,
		Profile:     "DESPACHANTE",
		Permissions: perms,
	}, testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

// doRequest lanza una petición GET /protected y devuelve la respuesta.
func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequirePermissions / RequireAnyPermission
// ──────────────────────────────────────────────────────────────────────────────

func TestRequirePermissions_TodosPresentes_Pasa(t *testing.T) {
	app := buildTestApp(apphttp.RequirePermissions(access.EmpresaLista, access.EmpresaEdicao))
	resp := doRequest(t, app, tokenWith(t, "INTERNO", access.EmpresaMaster, access.EmpresaLista, access.EmpresaEdicao))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, testUserID, body["user_id"])
}

func TestRequirePermissions_FaltaUno_Retorna403ConConjuntoRequerido(t *testing.T) {
	app := buildTestApp(apphttp.RequirePermissions(access.EmpresaCadastro, access.EmpresaLista))
	resp := doRequest(t, app, tokenWith(t, "EXTERNO", access.EmpresaCadastro))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "FORBIDDEN")
	assert.Contains(t, string(body), "EMPRESA_CADASTRO, EMPRESA_LISTA",
		"el mensaje debe nombrar el conjunto requerido completo")
}

func TestRequirePermissions_SinRequeridos_Pasa(t *testing.T) {
	app := buildTestApp(apphttp.RequirePermissions())
	resp := doRequest(t, app, tokenWith(t, "EXTERNO"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireAnyPermission_InternoConMaster_Pasa(t *testing.T) {
	app := buildTestApp(apphttp.RequireAnyPermission(access.EmpresaCadastro, access.EmpresaMaster))
	resp := doRequest(t, app, tokenWith(t, "INTERNO", access.EmpresaMaster))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireAnyPermission_SinPermisos_Retorna403(t *testing.T) {
	app := buildTestApp(apphttp.RequireAnyPermission(access.EmpresaCadastro, access.EmpresaMaster))
	resp := doRequest(t, app, tokenWith(t, "EXTERNO"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_SinAuthHeader_Retorna401(t *testing.T) {
	app := buildTestApp(apphttp.RequirePermissions())
	resp := doRequest(t, app, "") // sin header
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_TOKEN")
}

func TestAuthMiddleware_FormatoInvalido_Retorna401(t *testing.T) {
	app := buildTestApp(apphttp.RequirePermissions())
	resp := doRequest(t, app, "Token abc")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_TokenInvalido_Retorna401(t *testing.T) {
	app := buildTestApp(apphttp.RequirePermissions())
	resp := doRequest(t, app, "Bearer token.invalido.aqui")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "INVALID_TOKEN")
}

func TestAuthMiddleware_TokenExpirado_Retorna401(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, pkgjwt.Identity{UserID: testUserID}, testIssuer, -1)
	require.NoError(t, err)

	app := buildTestApp(apphttp.RequirePermissions())
	resp := doRequest(t, app, "Bearer "+tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_ExtraeIdentidad(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret), func(c *fiber.Ctx) error {
		id, ok := apphttp.GetIdentity(c)
		return c.JSON(fiber.Map{
			"ok":      ok,
			"user_id": apphttp.GetUserID(c),
			"tipo":    id.Type,
			"perms":   id.Permissions,
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", tokenWith(t, "EXTERNO", access.EmpresaCadastro))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		OK     bool     `json:"ok"`
		UserID string   `json:"user_id"`
		Tipo   string   `json:"tipo"`
		Perms  []string `json:"perms"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.OK)
	assert.Equal(t, testUserID, body.UserID)
	assert.Equal(t, "EXTERNO", body.Tipo)
	assert.Equal(t, []string{"EMPRESA_CADASTRO"}, body.Perms)
}
