package http

import (
	"io"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/portal-st-api/internal/application/dto"
	"github.com/jhoicas/portal-st-api/internal/application/upload"
	"github.com/jhoicas/portal-st-api/pkg/logger"
)

// UploadHandler recibe y sirve los documentos adjuntos a las empresas.
type UploadHandler struct {
	uc  *upload.UploadUseCase
	log *logger.Logger
}

// NewUploadHandler construye el handler de archivos.
func NewUploadHandler(uc *upload.UploadUseCase, log *logger.Logger) *UploadHandler {
	return &UploadHandler{uc: uc, log: log}
}

// Upload godoc
// @Summary      Subir documento
// @Description  Acepta pdf, png, jpg o jpeg de hasta 5 MB en el campo multipart "file".
// @Tags         upload
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file  formData  file  true  "Documento"
// @Success      201   {object}  dto.UploadResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/upload [post]
func (h *UploadHandler) Upload(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "ningún archivo fue enviado"})
	}
	out, err := h.uc.Upload(c.UserContext(), &upload.FileInput{
		OriginalName: fh.Filename,
		ContentType:  fh.Header.Get(fiber.HeaderContentType),
		Size:         fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Download godoc
// @Summary      Descargar documento almacenado
// @Tags         upload
// @Produce      octet-stream
// @Security     BearerAuth
// @Param        filename  path  string  true  "Nombre devuelto por la subida"
// @Success      200
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/uploads/{filename} [get]
func (h *UploadHandler) Download(c *fiber.Ctx) error {
	name := c.Params("filename")
	rc, err := h.uc.Open(c.UserContext(), name)
	if err != nil {
		return respondError(c, h.log, err)
	}
	// el nombre almacenado solo lleva extensiones de tipos verificados por contenido
	c.Type(filepath.Ext(name))
	c.Set(fiber.HeaderXContentTypeOptions, "nosniff")
	// fasthttp cierra rc al terminar de enviar el cuerpo
	return c.SendStream(rc)
}
