package upload

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/jhoicas/portal-st-api/internal/application/dto"
	"github.com/jhoicas/portal-st-api/internal/domain"
	"github.com/jhoicas/portal-st-api/pkg/logger"
)

// DefaultMaxBytes tamaño máximo por archivo (5 MiB).
const DefaultMaxBytes int64 = 5 * 1024 * 1024

// AllowedMIMETypes tipos aceptados para documentos de empresa.
var AllowedMIMETypes = []string{"application/pdf", "image/png", "image/jpg", "image/jpeg"}

var storedNamePattern = regexp.MustCompile(`^file-\d+-[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}\.(pdf|png|jpg)$`)

// FileInput archivo recibido. Open puede llamarse más de una vez.
type FileInput struct {
	OriginalName string
	ContentType  string // declarado por el cliente en la parte multipart
	Size         int64
	Open         func() (io.ReadCloser, error)
}

// Config parámetros del caso de uso.
type Config struct {
	MaxBytes  int64
	URLPrefix string // prefijo público de descarga, p. ej. /api/uploads
}

// UploadUseCase valida tipo y tamaño y almacena el archivo bajo un nombre único.
// El nombre devuelto es la única referencia que el registro de empresas guarda.
type UploadUseCase struct {
	store BlobStore
	cfg   Config
	log   *logger.Logger
	now   func() time.Time
}

// NewUploadUseCase construye el caso de uso.
func NewUploadUseCase(store BlobStore, cfg Config, log *logger.Logger) *UploadUseCase {
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = DefaultMaxBytes
	}
	if cfg.URLPrefix == "" {
		cfg.URLPrefix = "/uploads"
	}
	if log == nil {
		log = logger.Nop()
	}
	return &UploadUseCase{store: store, cfg: cfg, log: log.Named("upload"), now: time.Now}
}

// Upload valida y persiste un archivo. Ningún byte se escribe si la validación falla.
func (uc *UploadUseCase) Upload(ctx context.Context, in *FileInput) (*dto.UploadResponse, error) {
	if in == nil || in.Open == nil {
		return nil, fmt.Errorf("%w: ningún archivo fue enviado", domain.ErrInvalidInput)
	}
	if in.Size > uc.cfg.MaxBytes {
		return nil, fmt.Errorf("%w: el archivo excede el tamaño máximo de %s", domain.ErrInvalidInput, humanBytes(uc.cfg.MaxBytes))
	}
	contentType, err := uc.resolveType(in)
	if err != nil {
		return nil, err
	}

	name, err := uc.storedName(contentType)
	if err != nil {
		return nil, err
	}
	rc, err := in.Open()
	if err != nil {
		return nil, fmt.Errorf("abrir archivo: %w", err)
	}
	defer rc.Close()

	// El tamaño declarado puede mentir: se corta la lectura un byte después del máximo.
	limited := &io.LimitedReader{R: rc, N: uc.cfg.MaxBytes + 1}
	path, written, err := uc.store.Save(ctx, name, limited)
	if err != nil {
		return nil, err
	}
	if written > uc.cfg.MaxBytes {
		if derr := uc.store.Delete(ctx, name); derr != nil {
			uc.log.Warn().Err(derr).Str("filename", name).Msg("no se pudo borrar archivo excedido")
		}
		return nil, fmt.Errorf("%w: el archivo excede el tamaño máximo de %s", domain.ErrInvalidInput, humanBytes(uc.cfg.MaxBytes))
	}

	uc.log.Info().Str("filename", name).Int64("size", written).Msg("archivo almacenado")
	return &dto.UploadResponse{
		Filename:     name,
		OriginalName: in.OriginalName,
		Size:         written,
		Path:         path,
		URL:          strings.TrimRight(uc.cfg.URLPrefix, "/") + "/" + name,
	}, nil
}

// Open abre un archivo almacenado. Nombres que no fueron generados por Upload no se buscan.
func (uc *UploadUseCase) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if !storedNamePattern.MatchString(name) {
		return nil, fmt.Errorf("%w: archivo no encontrado", domain.ErrNotFound)
	}
	return uc.store.Open(ctx, name)
}

// resolveType detecta el tipo por contenido; el tipo declarado por el cliente solo puede
// confirmarlo. Genérico o vacío no cuenta como declaración.
func (uc *UploadUseCase) resolveType(in *FileInput) (string, error) {
	rc, err := in.Open()
	if err != nil {
		return "", fmt.Errorf("abrir archivo: %w", err)
	}
	defer rc.Close()
	mt, err := mimetype.DetectReader(rc)
	if err != nil {
		return "", fmt.Errorf("detectar tipo: %w", err)
	}
	sniffed := ""
	for _, allowed := range AllowedMIMETypes {
		if mt.Is(allowed) {
			sniffed = canonicalType(allowed)
			break
		}
	}
	if sniffed == "" {
		return "", fmt.Errorf("%w: solo se aceptan archivos pdf, png, jpg o jpeg", domain.ErrInvalidInput)
	}
	declared := canonicalType(normalizeType(in.ContentType))
	if declared != "" && declared != "application/octet-stream" && declared != sniffed {
		return "", fmt.Errorf("%w: el tipo declarado %s no coincide con el contenido", domain.ErrInvalidInput, declared)
	}
	return sniffed, nil
}

// storedName la extensión sale del tipo validado, nunca del nombre original.
func (uc *UploadUseCase) storedName(contentType string) (string, error) {
	mt := mimetype.Lookup(contentType)
	if mt == nil || mt.Extension() == "" {
		return "", fmt.Errorf("extensión para %s desconocida", contentType)
	}
	return fmt.Sprintf("file-%d-%s%s", uc.now().UnixMilli(), uuid.New().String(), mt.Extension()), nil
}

// canonicalType image/jpg no es un tipo registrado; se trata como image/jpeg.
func canonicalType(ct string) string {
	if ct == "image/jpg" {
		return "image/jpeg"
	}
	return ct
}

func normalizeType(ct string) string {
	ct = strings.ToLower(strings.TrimSpace(ct))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	return ct
}

func humanBytes(n int64) string {
	const mib = 1024 * 1024
	if n%mib == 0 {
		return fmt.Sprintf("%d MB", n/mib)
	}
	return fmt.Sprintf("%d bytes", n)
}
