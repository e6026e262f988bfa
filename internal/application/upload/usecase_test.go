package upload_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/portal-st-api/internal/application/upload"
	"github.com/jhoicas/portal-st-api/internal/domain"
	"github.com/jhoicas/portal-st-api/internal/infrastructure/storage"
)

const uploadDir = "/uploads"

var pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n%%EOF\n")

func newUpload(t *testing.T) (*upload.UploadUseCase, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	store, err := storage.NewDiskStoreFs(fs, uploadDir)
	require.NoError(t, err)
	return upload.NewUploadUseCase(store, upload.Config{URLPrefix: "/api/uploads"}, nil), fs
}

func fileOf(name, contentType string, content []byte) *upload.FileInput {
	return &upload.FileInput{
		OriginalName: name,
		ContentType:  contentType,
		Size:         int64(len(content)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(content)), nil
		},
	}
}

func stored(t *testing.T, fs afero.Fs) []string {
	t.Helper()
	infos, err := afero.ReadDir(fs, uploadDir)
	require.NoError(t, err)
	names := make([]string, 0, len(infos))
	for _, fi := range infos {
		names = append(names, fi.Name())
	}
	return names
}

func TestUpload_PDFValido(t *testing.T) {
	uc, fs := newUpload(t)
	ctx := context.Background()

	out, err := uc.Upload(ctx, fileOf("Contrato Social.PDF", "application/pdf", pdfBytes))
	require.NoError(t, err)

	assert.Regexp(t, `^file-\d+-[0-9a-f-]{36}\.pdf$`, out.Filename)
	assert.Equal(t, "Contrato Social.PDF", out.OriginalName)
	assert.Equal(t, int64(len(pdfBytes)), out.Size)
	assert.Equal(t, "/api/uploads/"+out.Filename, out.URL)
	assert.Equal(t, []string{out.Filename}, stored(t, fs))

	rc, err := uc.Open(ctx, out.Filename)
	require.NoError(t, err)
	defer rc.Close()
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, pdfBytes, got)
}

func TestUpload_NombresUnicos(t *testing.T) {
	uc, fs := newUpload(t)
	ctx := context.Background()

	a, err := uc.Upload(ctx, fileOf("doc.pdf", "application/pdf", pdfBytes))
	require.NoError(t, err)
	b, err := uc.Upload(ctx, fileOf("doc.pdf", "application/pdf", pdfBytes))
	require.NoError(t, err)

	assert.NotEqual(t, a.Filename, b.Filename)
	assert.Len(t, stored(t, fs), 2)
}

func TestUpload_SeisMiBRechazadoSinEscribir(t *testing.T) {
	uc, fs := newUpload(t)
	big := make([]byte, 6*1024*1024)
	copy(big, pdfBytes)

	_, err := uc.Upload(context.Background(), fileOf("grande.pdf", "application/pdf", big))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	assert.Contains(t, domain.Message(err), "5 MB")
	assert.Empty(t, stored(t, fs), "ningún byte se almacena")
}

func TestUpload_TamanoDeclaradoFalso(t *testing.T) {
	uc, fs := newUpload(t)
	big := make([]byte, 6*1024*1024)
	copy(big, pdfBytes)
	in := fileOf("grande.pdf", "application/pdf", big)
	in.Size = 1024

	_, err := uc.Upload(context.Background(), in)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	assert.Empty(t, stored(t, fs), "el archivo parcial se borra")
}

func TestUpload_TipoNoPermitido(t *testing.T) {
	uc, fs := newUpload(t)

	_, err := uc.Upload(context.Background(), fileOf("notas.txt", "text/plain", []byte("hola")))
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	assert.Empty(t, stored(t, fs))
}

func TestUpload_DetectaTipoPorContenido(t *testing.T) {
	uc, _ := newUpload(t)
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

	out, err := uc.Upload(context.Background(), fileOf("sin-extension", "application/octet-stream", png))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(out.Filename, ".png"), out.Filename)

	_, err = uc.Upload(context.Background(), fileOf("falso.pdf", "", []byte("texto plano")))
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "el contenido manda cuando falta el tipo")
}

func TestUpload_TipoDeclaradoNoCoincideConContenido(t *testing.T) {
	uc, fs := newUpload(t)
	html := []byte("<html><body><script>alert(1)</script></body></html>")

	_, err := uc.Upload(context.Background(), fileOf("x.html", "application/pdf", html))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = uc.Upload(context.Background(), fileOf("doc.pdf", "image/png", pdfBytes))
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "pdf declarado como png")
	assert.Empty(t, stored(t, fs))
}

func TestUpload_ExtensionSaleDelContenido(t *testing.T) {
	uc, _ := newUpload(t)
	jpeg := []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00\x01\x01\x00\x00\x01\x00\x01\x00\x00")

	out, err := uc.Upload(context.Background(), fileOf("contrato.html", "application/pdf", pdfBytes))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(out.Filename, ".pdf"), out.Filename)

	out, err = uc.Upload(context.Background(), fileOf("foto.jpeg", "image/jpg", jpeg))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(out.Filename, ".jpg"), out.Filename)
}

func TestUpload_SinArchivo(t *testing.T) {
	uc, _ := newUpload(t)

	_, err := uc.Upload(context.Background(), nil)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestOpen_NombresAjenosNoSeBuscan(t *testing.T) {
	uc, _ := newUpload(t)
	ctx := context.Background()

	for _, name := range []string{"../etc/passwd", "contrato.pdf", "file-1-x.pdf", ""} {
		_, err := uc.Open(ctx, name)
		assert.True(t, errors.Is(err, domain.ErrNotFound), name)
	}
	_, err := uc.Open(ctx, "file-1700000000000-0b9e4c2a-8f1d-4a55-9e0c-3c1d2b7a9f10.pdf")
	assert.True(t, errors.Is(err, domain.ErrNotFound), "nombre válido pero inexistente")
}
